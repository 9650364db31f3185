package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vark-assistant/internal/catalog"
	"vark-assistant/internal/models"
)

func TestSubmit_EmptyHistory(t *testing.T) {
	svc := NewConversationService(&fakeEngine{}, 0, nil)

	history, err := svc.Submit(context.Background(), "What are visual learners?", models.History{})
	require.NoError(t, err)

	require.Len(t, history, 1)
	assert.Equal(t, "What are visual learners?", history[0].Message)
	require.NotNil(t, history[0].Answer)
	assert.Equal(t, "answer to What are visual learners?", *history[0].Answer)
}

func TestSubmit_AppendsWithoutReordering(t *testing.T) {
	svc := NewConversationService(&fakeEngine{}, 0, nil)
	ctx := context.Background()

	first, err := svc.Submit(ctx, "first", nil)
	require.NoError(t, err)
	second, err := svc.Submit(ctx, "second", first)
	require.NoError(t, err)

	require.Len(t, second, 2)
	assert.Equal(t, first[0], second[0])
	assert.Equal(t, "second", second[1].Message)
	assert.Equal(t, "answer to second", *second[1].Answer)

	require.Len(t, first, 1, "caller's history must not grow")
}

func TestSubmit_DoesNotMutateCallerHistory(t *testing.T) {
	svc := NewConversationService(&fakeEngine{}, 0, nil)
	answer := "kept"
	history := make(models.History, 1, 4)
	history[0] = models.Turn{Message: "earlier", Answer: &answer}

	updated, err := svc.Submit(context.Background(), "later", history)
	require.NoError(t, err)

	require.Len(t, updated, 2)
	assert.Equal(t, "", history[:2][1].Message, "spare capacity of the caller's slice must stay untouched")
}

func TestSubmit_PendingTurnLeftOnInferenceFailure(t *testing.T) {
	engine := &fakeEngine{answer: func(string) (string, error) {
		return "", errors.New("model unavailable")
	}}
	svc := NewConversationService(engine, 0, nil)

	history, err := svc.Submit(context.Background(), "What are visual learners?", nil)
	require.Error(t, err)

	require.Len(t, history, 1)
	assert.True(t, history[0].Pending())
}

func TestSubmit_RejectsBlankMessage(t *testing.T) {
	engine := &fakeEngine{}
	svc := NewConversationService(engine, 0, nil)

	for _, msg := range []string{"", "   ", "\n\t"} {
		history, err := svc.Submit(context.Background(), msg, nil)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Empty(t, history)
	}
	assert.Empty(t, engine.calls, "blank messages never reach the engine")
}

func TestSubmitWithPending_ReportsPendingTurnFirst(t *testing.T) {
	svc := NewConversationService(&fakeEngine{}, 0, nil)

	var pending models.History
	history, err := svc.SubmitWithPending(context.Background(), "hello", nil, func(h models.History) {
		pending = h
	})
	require.NoError(t, err)

	require.Len(t, pending, 1)
	assert.True(t, pending[0].Pending())
	assert.False(t, history[0].Pending())
}

func TestSubmit_WaitsForDelay(t *testing.T) {
	svc := NewConversationService(&fakeEngine{}, 30*time.Millisecond, nil)

	start := time.Now()
	_, err := svc.Submit(context.Background(), "hello", nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestSubmit_CancelledDuringDelay(t *testing.T) {
	engine := &fakeEngine{}
	svc := NewConversationService(engine, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	history, err := svc.Submit(ctx, "hello", nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, history, 1)
	assert.True(t, history[0].Pending())
	assert.Empty(t, engine.calls)
}

func TestSubmit_ExtractiveAnswerComesFromContext(t *testing.T) {
	engine := NewAnswerService(NewExtractiveQA(), nil)
	svc := NewConversationService(engine, 0, nil)

	history, err := svc.Submit(context.Background(), "What are visual learners?", nil)
	require.NoError(t, err)

	require.Len(t, history, 1)
	require.NotNil(t, history[0].Answer)
	answer := *history[0].Answer
	assert.NotEmpty(t, answer)
	assert.True(t, strings.Contains(catalog.Context, answer))
}
