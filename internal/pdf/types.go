package pdf

import (
	"context"
	"errors"
)

// Errors returned by file checks, matchable with errors.Is
var (
	ErrEmptyPath    = errors.New("path cannot be empty")
	ErrFileNotFound = errors.New("file does not exist")
	ErrIsDirectory  = errors.New("path is a directory, not a file")
	ErrNotPDF       = errors.New("file is not a PDF")
	ErrEmptyFile    = errors.New("file is empty")
	ErrFileTooLarge = errors.New("file too large")
	ErrNoText       = errors.New("no text content could be extracted from PDF")
)

// TextSource produces the full text of a document, pages joined by newlines
type TextSource interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// DocumentLoader is a TextSource that also reports what it learned about the file
type DocumentLoader interface {
	TextSource
	Load(ctx context.Context, path string) (*DocumentInfo, string, error)
}

// DocumentInfo describes a loaded document. ValidationError is set when pdfcpu
// could not read the structure; Pages is then unknown (0).
type DocumentInfo struct {
	Path            string `json:"path"`
	Pages           int    `json:"pages"`
	Size            int64  `json:"size"`
	ValidationError string `json:"validation_error,omitempty"`
}

// PDFValidateFileResult represents the result of a PDF validation operation
type PDFValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path"`
	Pages   int    `json:"pages,omitempty"`
}
