package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/a3tai/sat-pdf-parser/internal/logger"
)

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return logger.NewFromZap(zap.New(core)), logs
}

func validBlock(stem, answer string) string {
	return fmt.Sprintf("\nID: abc\n%s\nA. first\nB. second\nC. third\nD. fourth\nCorrect Answer: %s\nRationale\nBecause.\n", stem, answer)
}

func TestExtractor_SkipsMalformedMiddleBlock(t *testing.T) {
	log, logs := observedLogger()
	text := "Cover\n" +
		"Question ID aa01" + validBlock("First?", "A") +
		"Question ID aa02\nThis block has no choices at all.\n" +
		"Question ID aa03" + validBlock("Third?", "C")

	result, err := NewExtractor(log).Extract(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Blocks)
	require.Len(t, result.Questions, 2)
	assert.Equal(t, 1, result.Questions[0].ID)
	assert.Equal(t, "First?", result.Questions[0].Question)
	assert.Equal(t, 2, result.Questions[1].ID)
	assert.Equal(t, "Third?", result.Questions[1].Question)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 2, result.Skipped[0].Block)
	assert.Equal(t, ReasonNoChoiceMarker, result.Skipped[0].Reason)

	warnings := logs.FilterLevelExact(zap.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, int64(2), warnings[0].ContextMap()["block"])
	assert.Equal(t, "NO_CHOICE_MARKER", warnings[0].ContextMap()["reason"])
}

func TestExtractor_NoMarkers(t *testing.T) {
	result, err := NewExtractor(nil).Extract(context.Background(), "nothing to see\nA. here")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Blocks)
	assert.Empty(t, result.Questions)
	assert.NotNil(t, result.Questions)
	assert.Empty(t, result.Skipped)
}

func TestExtractor_IDsAreSequentialAcrossGaps(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "Question ID %x", i+0xa0)
		if i%3 == 1 {
			b.WriteString("\nbroken block\n")
			continue
		}
		b.WriteString(validBlock(fmt.Sprintf("Q%d", i), "B"))
	}

	result, err := NewExtractor(nil).Extract(context.Background(), b.String())
	require.NoError(t, err)
	require.Len(t, result.Questions, 8)
	for i, q := range result.Questions {
		assert.Equal(t, i+1, q.ID)
	}
	assert.Len(t, result.Skipped, 4)
}

func TestExtractor_WorkersMatchSequential(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "Question ID %x", i+0x100)
		if i%7 == 3 {
			b.WriteString("\nStem only\nCorrect Answer: A\n")
			continue
		}
		b.WriteString(validBlock(fmt.Sprintf("Question number %d?", i), "D"))
	}
	text := b.String()

	sequential, err := NewExtractor(nil).Extract(context.Background(), text)
	require.NoError(t, err)
	parallel, err := NewExtractor(nil, WithWorkers(8)).Extract(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, sequential.Questions, parallel.Questions)
	assert.Equal(t, sequential.Skipped, parallel.Skipped)
}

func TestExtractor_StrictAnswers(t *testing.T) {
	text := "Question ID 1\nStem.\nA. X\nB. Y\nCorrect Answer: D\n" +
		"Question ID 2\nStem two.\nA. X\nB. Y\nCorrect Answer: B\n"

	permissive, err := NewExtractor(nil).Extract(context.Background(), text)
	require.NoError(t, err)
	assert.Len(t, permissive.Questions, 2)

	strict, err := NewExtractor(nil, WithStrictAnswers(true)).Extract(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, strict.Questions, 1)
	assert.Equal(t, 1, strict.Questions[0].ID)
	assert.Equal(t, "Stem two.", strict.Questions[0].Question)
	require.Len(t, strict.Skipped, 1)
	assert.True(t, errors.Is(strict.Skipped[0], ErrAnswerNotInChoices))
}

func TestExtractor_RecoversFromPanic(t *testing.T) {
	original := parseBlock
	defer func() { parseBlock = original }()
	parseBlock = func(block string) (Question, error) {
		if strings.Contains(block, "explode") {
			panic("index out of range")
		}
		return ParseBlock(block, 0)
	}

	log, logs := observedLogger()
	text := "Question ID 1" + validBlock("ok?", "A") + "Question ID 2\nexplode\n" + "Question ID 3" + validBlock("also ok?", "B")

	result, err := NewExtractor(log).Extract(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, result.Questions, 2)
	assert.Equal(t, []int{1, 2}, []int{result.Questions[0].ID, result.Questions[1].ID})
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, ReasonPanic, result.Skipped[0].Reason)
	assert.True(t, errors.Is(result.Skipped[0], ErrBlockPanic))
	assert.Contains(t, result.Skipped[0].Error(), "index out of range")
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestExtractor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	text := "Question ID 1" + validBlock("a?", "A") + "Question ID 2" + validBlock("b?", "B")
	for _, workers := range []int{1, 4} {
		_, err := NewExtractor(nil, WithWorkers(workers)).Extract(ctx, text)
		assert.ErrorIs(t, err, context.Canceled, "workers=%d", workers)
	}
}

func TestQuestionSet_JSONShape(t *testing.T) {
	q, err := ParseBlock("Stem <b> & café.\nB. Two\nA. One\nCorrect Answer: A\nRationale\nÉtude.", 1)
	require.NoError(t, err)
	set := NewQuestionSet("", []Question{q})

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"set_name": "SAT Questions",
		"questions": [{
			"id": 1,
			"question": "Stem <b> & café.",
			"choices": {"B": "Two", "A": "One"},
			"correct_answer": "A",
			"explanation": "Étude."
		}]
	}`, string(data))
	assert.Contains(t, string(data), `"choices":{"B":"Two","A":"One"}`)

	var decoded QuestionSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"B", "A"}, decoded.Questions[0].Choices.Letters())
}

func TestNewQuestionSet_EmptyQuestions(t *testing.T) {
	set := NewQuestionSet("Practice Test 1", nil)
	assert.Equal(t, "Practice Test 1", set.SetName)
	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `{"set_name":"Practice Test 1","questions":[]}`, string(data))
}

func TestRejectError_Message(t *testing.T) {
	err := &RejectError{Block: 4, Reason: ReasonNoCorrectAnswer}
	assert.Equal(t, "block 4 rejected [NO_CORRECT_ANSWER]: no correct answer found", err.Error())
	assert.Equal(t, "UNKNOWN", RejectReason(99).String())
	_, ok := AsReject(errors.New("plain"))
	assert.False(t, ok)
}

func TestRejectError_JSON(t *testing.T) {
	data, err := json.Marshal(&RejectError{Block: 2, Reason: ReasonNoChoices, Detail: "empty list"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"block":2,"reason":"NO_CHOICES","detail":"empty list"}`, string(data))
}
