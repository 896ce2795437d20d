package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	pkgerrors "github.com/pkg/errors"

	"github.com/a3tai/sat-pdf-parser/internal/config"
	"github.com/a3tai/sat-pdf-parser/internal/logger"
	"github.com/a3tai/sat-pdf-parser/internal/mcp"
	"github.com/a3tai/sat-pdf-parser/internal/pdf"
	"github.com/a3tai/sat-pdf-parser/internal/pipeline"
	"github.com/a3tai/sat-pdf-parser/internal/question"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// app bundles what a run needs so tests can swap the text source and streams
type app struct {
	stdout io.Writer
	stderr io.Writer
	source func(cfg *config.Config) pdf.TextSource
}

func main() {
	a := &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		source: func(cfg *config.Config) pdf.TextSource {
			return pdf.NewService(cfg.MaxFileSize)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := a.run(ctx, os.Args[0], os.Args[1:])
	stop()
	os.Exit(code)
}

func (a *app) run(ctx context.Context, program string, args []string) int {
	cfg, err := config.LoadFromArgs(program, args, a.stderr)
	switch {
	case errors.Is(err, config.ErrVersionRequested):
		a.printVersion()
		return 0
	case errors.Is(err, config.ErrHelpRequested):
		return 0
	case err != nil:
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}

	if version != "dev" {
		cfg.Version = version
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	defer log.Sync()

	log.Debug("starting", "config", cfg.String())

	if cfg.IsStdioMode() {
		return a.runStdio(ctx, cfg, log)
	}
	return a.runCLI(ctx, cfg, log)
}

// runStdio serves MCP tools until the client closes stdin or a signal arrives
func (a *app) runStdio(ctx context.Context, cfg *config.Config, log *logger.Logger) int {
	pdfService := pdf.NewService(cfg.MaxFileSize)
	pipe, err := pipeline.NewService(a.source(cfg), log, parseOptions(cfg)...)
	if err != nil {
		log.Error("failed to create pipeline", "error", err)
		return 1
	}

	server, err := mcp.NewServer(cfg, pdfService, pipe, log)
	if err != nil {
		log.Error("failed to create MCP server", "error", err)
		return 1
	}

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", "error", err)
		return 1
	}
	return 0
}

// runCLI converts one PDF and prints progress for a person at a terminal
func (a *app) runCLI(ctx context.Context, cfg *config.Config, log *logger.Logger) int {
	if _, err := os.Stat(cfg.InputPath); err != nil {
		fmt.Fprintf(a.stdout, "Error: Input file '%s' not found\n", cfg.InputPath)
		return 1
	}

	outPath := cfg.ResolveOutputPath()
	fmt.Fprintf(a.stdout, "Parsing College Board SAT PDF: %s\n", cfg.InputPath)
	fmt.Fprintf(a.stdout, "Output will be saved to: %s\n\n", outPath)

	pipe, err := pipeline.NewService(a.source(cfg), log, parseOptions(cfg)...)
	if err != nil {
		fmt.Fprintf(a.stdout, "Error parsing PDF: %v\n", err)
		return 1
	}

	ext, err := pipe.Convert(ctx, cfg.InputPath, outPath, cfg.SetName)
	switch {
	case errors.Is(err, question.ErrNoQuestions):
		fmt.Fprintln(a.stdout, "Warning: No questions found in PDF")
		fmt.Fprintln(a.stdout, "This parser is designed for College Board SAT format PDFs.")
		fmt.Fprintln(a.stdout, "Each question should start with 'Question ID' and include 'Correct Answer:'.")
		return 1
	case err != nil:
		fmt.Fprintf(a.stdout, "Error parsing PDF: %v\n", err)
		fmt.Fprint(a.stderr, failureTrace(err))
		return 1
	}

	fmt.Fprintf(a.stdout, "✓ Successfully parsed %d questions\n", len(ext.Set.Questions))
	if n := len(ext.Result.Skipped); n > 0 {
		fmt.Fprintf(a.stdout, "  (%d blocks skipped, see warnings above)\n", n)
	}
	fmt.Fprintf(a.stdout, "✓ Saved to: %s\n", outPath)
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Next steps:")
	fmt.Fprintf(a.stdout, "1. Review the JSON file: %s\n", outPath)
	fmt.Fprintf(a.stdout, "2. Copy to question_banks/: cp %s question_banks/\n", outPath)
	fmt.Fprintln(a.stdout, "3. Add the file name to questionBankFiles in web/app.js")
	fmt.Fprintln(a.stdout, "4. Open web/index.html to practice")
	return 0
}

// stackTracer is implemented by errors created or wrapped with github.com/pkg/errors
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// failureTrace renders err followed by the stack recorded nearest to where it arose
func failureTrace(err error) string {
	var origin stackTracer
	for e := err; e != nil; e = errors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			origin = st
		}
	}
	if origin == nil {
		return fmt.Sprintf("Traceback: %+v\n", err)
	}
	return fmt.Sprintf("Traceback: %v%+v\n", err, origin.StackTrace())
}

func parseOptions(cfg *config.Config) []question.Option {
	return []question.Option{
		question.WithWorkers(cfg.Workers),
		question.WithStrictAnswers(cfg.Strict),
	}
}

// printVersion prints version information
func (a *app) printVersion() {
	fmt.Fprintf(a.stdout, "SAT PDF Parser\n")
	fmt.Fprintf(a.stdout, "Version: %s\n", version)
	fmt.Fprintf(a.stdout, "Build Time: %s\n", buildTime)
	fmt.Fprintf(a.stdout, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(a.stdout, "Built with: %s\n", runtime.Version())
}
