package question

import (
	"errors"
	"fmt"
)

// RejectReason categorizes why a block produced no record
type RejectReason int

const (
	ReasonUnknown RejectReason = iota
	ReasonNoChoiceMarker
	ReasonNoChoices
	ReasonNoCorrectAnswer
	ReasonEmptyQuestion
	ReasonAnswerNotInChoices
	ReasonPanic
)

// Sentinel errors matched through errors.Is against a *RejectError
var (
	ErrNoChoiceMarker     = errors.New("no choice marker found")
	ErrNoChoices          = errors.New("no choices extracted")
	ErrNoCorrectAnswer    = errors.New("no correct answer found")
	ErrEmptyQuestion      = errors.New("question text is empty")
	ErrAnswerNotInChoices = errors.New("correct answer is not one of the choices")
	ErrBlockPanic         = errors.New("block parsing panicked")

	// ErrNoQuestions is returned when a document yields zero records
	ErrNoQuestions = errors.New("no questions found")
)

// String returns a string representation of the RejectReason
func (r RejectReason) String() string {
	switch r {
	case ReasonNoChoiceMarker:
		return "NO_CHOICE_MARKER"
	case ReasonNoChoices:
		return "NO_CHOICES"
	case ReasonNoCorrectAnswer:
		return "NO_CORRECT_ANSWER"
	case ReasonEmptyQuestion:
		return "EMPTY_QUESTION"
	case ReasonAnswerNotInChoices:
		return "ANSWER_NOT_IN_CHOICES"
	case ReasonPanic:
		return "PANIC"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the reason by name
func (r RejectReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r RejectReason) sentinel() error {
	switch r {
	case ReasonNoChoiceMarker:
		return ErrNoChoiceMarker
	case ReasonNoChoices:
		return ErrNoChoices
	case ReasonNoCorrectAnswer:
		return ErrNoCorrectAnswer
	case ReasonEmptyQuestion:
		return ErrEmptyQuestion
	case ReasonAnswerNotInChoices:
		return ErrAnswerNotInChoices
	case ReasonPanic:
		return ErrBlockPanic
	default:
		return nil
	}
}

// RejectError reports a candidate block that did not yield a record
type RejectError struct {
	Block  int          `json:"block"`
	Reason RejectReason `json:"reason"`
	Detail string       `json:"detail,omitempty"`
}

func newReject(reason RejectReason) *RejectError {
	return &RejectError{Reason: reason}
}

// Error implements the error interface
func (e *RejectError) Error() string {
	msg := fmt.Sprintf("block %d rejected [%s]", e.Block, e.Reason)
	if s := e.Reason.sentinel(); s != nil {
		msg += ": " + s.Error()
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap exposes the reason's sentinel error
func (e *RejectError) Unwrap() error {
	return e.Reason.sentinel()
}

// AsReject extracts a *RejectError from err
func AsReject(err error) (*RejectError, bool) {
	var rej *RejectError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
