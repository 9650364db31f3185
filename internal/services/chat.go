package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vark-assistant/internal/models"
)

// ChatService binds conversations to sessions: it loads a session's history,
// submits the message, and stores the result.
type ChatService struct {
	conversation *ConversationService
	store        SessionStore
	logger       *zap.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewChatService(conversation *ConversationService, store SessionStore, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		conversation: conversation,
		store:        store,
		logger:       logger,
		locks:        make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *ChatService) History(ctx context.Context, sessionID uuid.UUID) (models.History, error) {
	return s.store.Load(ctx, sessionID)
}

func (s *ChatService) Send(ctx context.Context, sessionID uuid.UUID, message string) (models.History, error) {
	return s.SendWithPending(ctx, sessionID, message, nil)
}

// SendWithPending serializes submissions per session so turns are appended
// in the order they were accepted.
func (s *ChatService) SendWithPending(ctx context.Context, sessionID uuid.UUID, message string, onPending func(models.History)) (models.History, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	history, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	updated, submitErr := s.conversation.SubmitWithPending(ctx, message, history, onPending)

	// Rejected or abandoned turns are not recorded; the caller is gone or
	// never had a turn to begin with.
	var validationErr *ValidationError
	if errors.As(submitErr, &validationErr) || isCancellation(submitErr) {
		return history, submitErr
	}

	// A failed answer still leaves its pending turn in the session.
	if err := s.store.Save(context.WithoutCancel(ctx), sessionID, updated); err != nil {
		s.logger.Error("failed to save session", zap.String("session_id", sessionID.String()), zap.Error(err))
		if submitErr == nil {
			return nil, err
		}
	}

	return updated, submitErr
}

func (s *ChatService) sessionLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
