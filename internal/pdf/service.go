package pdf

import (
	"context"

	"github.com/pkg/errors"
)

// Service checks a document with pdfcpu and reads its text with ledongthuc/pdf
type Service struct {
	maxFileSize int64
	reader      *Reader
	validator   *Validator
	validate    func(path string) (*DocumentInfo, error)
}

// NewService creates a new PDF service with all components
func NewService(maxFileSize int64) *Service {
	validator := NewValidator(maxFileSize)
	return &Service{
		maxFileSize: maxFileSize,
		reader:      NewReader(maxFileSize),
		validator:   validator,
		validate:    validator.Validate,
	}
}

// Load returns the document's info and full text.
// File checks are fatal. A structural rejection by pdfcpu is not: it is kept in
// DocumentInfo.ValidationError and text extraction still runs.
func (s *Service) Load(ctx context.Context, path string) (*DocumentInfo, string, error) {
	fileInfo, err := checkFile(path, s.maxFileSize)
	if err != nil {
		return nil, "", errors.WithStack(err)
	}

	info, err := s.validate(path)
	if err != nil {
		info = &DocumentInfo{
			Path:            path,
			Size:            fileInfo.Size(),
			ValidationError: err.Error(),
		}
	}

	text, err := s.reader.ExtractText(ctx, path)
	if err != nil {
		return info, "", errors.WithMessagef(err, "text extraction failed for %s", path)
	}
	return info, text, nil
}

// ExtractText implements TextSource
func (s *Service) ExtractText(ctx context.Context, path string) (string, error) {
	_, text, err := s.Load(ctx, path)
	return text, err
}

// ValidateFile performs validation on a PDF file
func (s *Service) ValidateFile(path string) *PDFValidateFileResult {
	return s.validator.ValidateFile(path)
}
