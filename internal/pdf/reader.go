package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

// Reader extracts plain text from PDF files using ledongthuc/pdf
type Reader struct {
	maxFileSize int64
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
	}
}

// ExtractText returns the text of every page, each followed by a newline.
// Errors carry the stack of the point of failure.
func (r *Reader) ExtractText(ctx context.Context, path string) (string, error) {
	if _, err := checkFile(path, r.maxFileSize); err != nil {
		return "", errors.WithStack(err)
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to open PDF")
	}
	defer f.Close()

	text, err := r.extractTextContent(ctx, pdfReader)
	if err != nil {
		return "", errors.Wrap(err, "failed to extract text content")
	}
	return text, nil
}

// extractTextContent concatenates page text in reading order
func (r *Reader) extractTextContent(ctx context.Context, pdfReader *pdf.Reader) (text string, err error) {
	// ledongthuc/pdf panics on some malformed content streams
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Errorf("PDF parser panic: %v", rec)
		}
	}()

	var builder strings.Builder
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", errors.Wrapf(err, "page %d", pageNum)
		}

		builder.WriteString(content)
		builder.WriteString("\n")
	}

	if strings.TrimSpace(builder.String()) == "" {
		return "", ErrNoText
	}
	return builder.String(), nil
}

// checkFile performs basic validation on a PDF path without opening it
func checkFile(filePath string, maxFileSize int64) (os.FileInfo, error) {
	if filePath == "" {
		return nil, ErrEmptyPath
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return nil, fmt.Errorf("%w: %s", ErrNotPDF, filePath)
	}

	if fileInfo.Size() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, filePath)
	}

	if maxFileSize > 0 && fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max: %d bytes)",
			ErrFileTooLarge, fileInfo.Size(), maxFileSize)
	}

	return fileInfo, nil
}
