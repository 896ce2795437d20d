package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/sat-pdf-parser/internal/config"
	"github.com/a3tai/sat-pdf-parser/internal/output"
	"github.com/a3tai/sat-pdf-parser/internal/pdf"
)

type stubSource string

func (s stubSource) ExtractText(context.Context, string) (string, error) {
	return string(s), nil
}

type failingSource struct{}

func (failingSource) ExtractText(context.Context, string) (string, error) {
	return "", pkgerrors.New("extraction engine failure")
}

const bankText = "Question ID ab12\nID: ab12\nPick one.\nA. first\nB. second\nCorrect Answer: A\nRationale\nFirst is right.\n"

func newTestApp(text string) (*app, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &app{
		stdout: stdout,
		stderr: stderr,
		source: func(*config.Config) pdf.TextSource { return stubSource(text) },
	}, stdout, stderr
}

func touch(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644))
	return path
}

func TestRun_Version(t *testing.T) {
	a, stdout, _ := newTestApp("")
	assert.Equal(t, 0, a.run(context.Background(), "sat-pdf-parser", []string{"--version"}))
	assert.Contains(t, stdout.String(), "SAT PDF Parser")
}

func TestRun_Help(t *testing.T) {
	a, _, stderr := newTestApp("")
	assert.Equal(t, 0, a.run(context.Background(), "sat-pdf-parser", []string{"--help"}))
	assert.Contains(t, stderr.String(), "Usage:")
}

func TestRun_MissingArgument(t *testing.T) {
	a, _, stderr := newTestApp("")
	assert.Equal(t, 1, a.run(context.Background(), "sat-pdf-parser", nil))
	assert.Contains(t, stderr.String(), "input PDF path is required")
}

func TestRun_InputNotFound(t *testing.T) {
	a, stdout, _ := newTestApp("")
	missing := filepath.Join(t.TempDir(), "missing.pdf")
	assert.Equal(t, 1, a.run(context.Background(), "sat-pdf-parser", []string{missing}))
	assert.Contains(t, stdout.String(), "Error: Input file '"+missing+"' not found")
}

func TestRun_Success(t *testing.T) {
	a, stdout, _ := newTestApp(bankText)
	input := touch(t, "practice.pdf")
	out := filepath.Join(t.TempDir(), "banks", "practice.json")

	code := a.run(context.Background(), "sat-pdf-parser", []string{"-o", out, "-n", "Practice 1", input})
	require.Equal(t, 0, code, stdout.String())

	assert.Contains(t, stdout.String(), "Parsing College Board SAT PDF: "+input)
	assert.Contains(t, stdout.String(), "✓ Successfully parsed 1 questions")
	assert.Contains(t, stdout.String(), "✓ Saved to: "+out)

	set, err := output.Read(out)
	require.NoError(t, err)
	assert.Equal(t, "Practice 1", set.SetName)
	require.Len(t, set.Questions, 1)
	assert.Equal(t, "First is right.", set.Questions[0].Explanation)
}

func TestRun_NoQuestions(t *testing.T) {
	a, stdout, _ := newTestApp("Just a cover page")
	input := touch(t, "cover.pdf")
	out := filepath.Join(t.TempDir(), "cover.json")

	assert.Equal(t, 1, a.run(context.Background(), "sat-pdf-parser", []string{"-o", out, input}))
	assert.Contains(t, stdout.String(), "Warning: No questions found in PDF")
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_ExtractionFailurePrintsTrace(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	a := &app{
		stdout: stdout,
		stderr: stderr,
		source: func(*config.Config) pdf.TextSource { return failingSource{} },
	}
	input := touch(t, "broken.pdf")

	code := a.run(context.Background(), "sat-pdf-parser", []string{"-o", filepath.Join(t.TempDir(), "b.json"), input})
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Error parsing PDF: extraction engine failure")
	assert.Contains(t, stderr.String(), "Traceback: extraction engine failure")
	assert.Contains(t, stderr.String(), "failingSource.ExtractText", "trace starts where the failure arose")
	assert.Contains(t, stderr.String(), "main_test.go")
}

func TestFailureTrace_WithoutStack(t *testing.T) {
	trace := failureTrace(errors.New("plain failure"))
	assert.Equal(t, "Traceback: plain failure\n", trace)
}
