package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"vark-assistant/internal/models"
)

// ConversationService appends one question/answer turn per submission.
type ConversationService struct {
	engine AnswerEngine
	delay  time.Duration
	logger *zap.Logger
}

func NewConversationService(engine AnswerEngine, delay time.Duration, logger *zap.Logger) *ConversationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{
		engine: engine,
		delay:  delay,
		logger: logger,
	}
}

// Submit returns history with a new turn for message appended and answered.
// history itself is never modified. On inference failure the returned history
// still carries the new turn, unanswered.
func (s *ConversationService) Submit(ctx context.Context, message string, history models.History) (models.History, error) {
	return s.SubmitWithPending(ctx, message, history, nil)
}

// SubmitWithPending is Submit, but calls onPending with the history holding
// the pending turn before the answer is computed.
func (s *ConversationService) SubmitWithPending(ctx context.Context, message string, history models.History, onPending func(models.History)) (models.History, error) {
	if strings.TrimSpace(message) == "" {
		return history, &ValidationError{Fields: map[string]string{"message": "Message is required"}}
	}

	updated := append(history.Clone(), models.Turn{Message: message})
	last := len(updated) - 1

	if onPending != nil {
		onPending(updated.Clone())
	}

	if err := s.pace(ctx); err != nil {
		return updated, err
	}

	answer, err := s.engine.Answer(ctx, message)
	if err != nil {
		s.logger.Error("answer failed", zap.String("message", message), zap.Error(err))
		return updated, err
	}

	updated[last].Answer = &answer
	return updated, nil
}

// pace waits out the "bot is typing" delay.
func (s *ConversationService) pace(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
