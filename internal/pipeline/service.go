package pipeline

import (
	"context"
	"fmt"

	"github.com/a3tai/sat-pdf-parser/internal/logger"
	"github.com/a3tai/sat-pdf-parser/internal/output"
	"github.com/a3tai/sat-pdf-parser/internal/pdf"
	"github.com/a3tai/sat-pdf-parser/internal/question"
)

// Service runs the document -> question set -> file pipeline
type Service struct {
	source    pdf.TextSource
	extractor *question.Extractor
	log       *logger.Logger
}

// NewService wires a text source to an extractor
func NewService(source pdf.TextSource, log *logger.Logger, opts ...question.Option) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("text source cannot be nil")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		source:    source,
		extractor: question.NewExtractor(log, opts...),
		log:       log,
	}, nil
}

// Extraction is a built question set plus what was skipped on the way
type Extraction struct {
	Set    *question.QuestionSet
	Result *question.Result
}

// ExtractFile reads a document and builds its question set.
// It returns question.ErrNoQuestions when no block yields a record.
func (s *Service) ExtractFile(ctx context.Context, path, setName string) (*Extraction, error) {
	log := s.log.With("path", path)

	text, err := s.readDocument(ctx, path, log)
	if err != nil {
		return nil, err
	}
	log.Debug("extracted document text", "chars", len(text))
	return s.ParseText(ctx, text, setName)
}

// readDocument extracts text, logging document info when the source reports it
func (s *Service) readDocument(ctx context.Context, path string, log *logger.Logger) (string, error) {
	loader, ok := s.source.(pdf.DocumentLoader)
	if !ok {
		return s.source.ExtractText(ctx, path)
	}

	info, text, err := loader.Load(ctx, path)
	if info != nil {
		if info.ValidationError != "" {
			log.Warn("PDF structure check failed, extracting text anyway", "error", info.ValidationError)
		} else {
			log.Debug("document loaded", "pages", info.Pages, "size", info.Size)
		}
	}
	return text, err
}

// ParseText builds a question set from already extracted document text
func (s *Service) ParseText(ctx context.Context, text, setName string) (*Extraction, error) {
	result, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	ext := &Extraction{
		Set:    question.NewQuestionSet(setName, result.Questions),
		Result: result,
	}
	if len(result.Questions) == 0 {
		return ext, fmt.Errorf("%w (%d candidate blocks)", question.ErrNoQuestions, result.Blocks)
	}
	return ext, nil
}

// Convert extracts path and writes the set to outPath
func (s *Service) Convert(ctx context.Context, path, outPath, setName string) (*Extraction, error) {
	ext, err := s.ExtractFile(ctx, path, setName)
	if err != nil {
		return ext, err
	}
	if err := output.Write(outPath, ext.Set); err != nil {
		return ext, fmt.Errorf("write %s: %w", outPath, err)
	}
	s.log.With("path", path).Info("question set written",
		"output", outPath, "questions", len(ext.Set.Questions), "skipped", len(ext.Result.Skipped))
	return ext, nil
}
