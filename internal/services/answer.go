package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vark-assistant/internal/catalog"
	"vark-assistant/internal/models"
)

// AnswerEngine answers a question against the fixed learning-style context.
type AnswerEngine interface {
	Answer(ctx context.Context, question string) (string, error)
}

// QAClient is an extractive question-answering backend.
type QAClient interface {
	Answer(ctx context.Context, req models.QARequest) (*models.QAResult, error)
}

// AnswerService is the AnswerEngine backed by a QAClient and catalog.Context.
type AnswerService struct {
	client  QAClient
	context string
	logger  *zap.Logger
}

func NewAnswerService(client QAClient, logger *zap.Logger) *AnswerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnswerService{
		client:  client,
		context: catalog.Context,
		logger:  logger,
	}
}

func (s *AnswerService) Answer(ctx context.Context, question string) (string, error) {
	res, err := s.client.Answer(ctx, models.QARequest{
		Question: question,
		Context:  s.context,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInference, err)
	}

	s.logger.Debug("answered question",
		zap.String("question", question),
		zap.String("answer", res.Answer),
		zap.Float64("score", res.Score),
		zap.Int("start", res.Start),
		zap.Int("end", res.End),
	)

	return res.Answer, nil
}
