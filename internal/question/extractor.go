package question

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/a3tai/sat-pdf-parser/internal/logger"
)

// Extractor turns document text into question records
type Extractor struct {
	log *logger.Logger
	// workers > 1 parses blocks concurrently; ids are still assigned in block order
	workers int
	// strict rejects records whose answer letter is missing from the choices
	strict bool
}

// Option configures an Extractor
type Option func(*Extractor)

// WithWorkers sets the number of concurrent block parsers
func WithWorkers(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithStrictAnswers enables the answer-in-choices check
func WithStrictAnswers(strict bool) Option {
	return func(e *Extractor) {
		e.strict = strict
	}
}

// NewExtractor creates an extractor; a nil logger discards output
func NewExtractor(log *logger.Logger, opts ...Option) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	e := &Extractor{log: log, workers: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of extracting one document
type Result struct {
	Questions []Question
	Skipped   []*RejectError
	Blocks    int
}

// blockOutcome is the parse result for one candidate block, before numbering
type blockOutcome struct {
	question Question
	err      error
}

// Extract parses every candidate block of text. Rejected blocks are logged and
// recorded in Result.Skipped; they never stop the run. Only cancellation of ctx
// is returned as an error.
func (e *Extractor) Extract(ctx context.Context, text string) (*Result, error) {
	var blocks []string
	for block := range Split(text) {
		blocks = append(blocks, block)
	}

	outcomes, err := e.parseAll(ctx, blocks)
	if err != nil {
		return nil, err
	}

	result := &Result{Questions: []Question{}, Blocks: len(blocks)}
	nextID := 1
	for i, out := range outcomes {
		if out.err != nil {
			rej, ok := AsReject(out.err)
			if !ok {
				rej = &RejectError{Reason: ReasonUnknown, Detail: out.err.Error()}
			}
			rej.Block = i + 1
			e.log.Warn("could not parse question block",
				"block", rej.Block, "reason", rej.Reason.String(), "error", rej.Error())
			result.Skipped = append(result.Skipped, rej)
			continue
		}
		q := out.question
		q.ID = nextID
		nextID++
		result.Questions = append(result.Questions, q)
	}

	e.log.Debug("extraction finished",
		"blocks", result.Blocks, "questions", len(result.Questions), "skipped", len(result.Skipped))
	return result, nil
}

func (e *Extractor) parseAll(ctx context.Context, blocks []string) ([]blockOutcome, error) {
	outcomes := make([]blockOutcome, len(blocks))
	if e.workers <= 1 || len(blocks) < 2 {
		for i, block := range blocks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = e.parseOne(block)
		}
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, block := range blocks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = e.parseOne(block)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// parseOne parses a block, converting a panic into a rejection
func (e *Extractor) parseOne(block string) (out blockOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = blockOutcome{err: &RejectError{Reason: ReasonPanic, Detail: fmt.Sprint(r)}}
		}
	}()

	q, err := parseBlock(block)
	if err != nil {
		return blockOutcome{err: err}
	}
	if e.strict {
		if _, ok := q.Choices.Get(q.CorrectAnswer); !ok {
			return blockOutcome{err: &RejectError{
				Reason: ReasonAnswerNotInChoices,
				Detail: fmt.Sprintf("answer %s, choices %v", q.CorrectAnswer, q.Choices.Letters()),
			}}
		}
	}
	return blockOutcome{question: q}
}

// parseBlock is swapped in tests to exercise panic recovery
var parseBlock = func(block string) (Question, error) {
	return ParseBlock(block, 0)
}
