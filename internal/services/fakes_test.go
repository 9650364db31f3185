package services

import (
	"context"
	"sync"

	"vark-assistant/internal/models"
)

type fakeEngine struct {
	mu     sync.Mutex
	calls  []string
	answer func(question string) (string, error)
}

func (f *fakeEngine) Answer(_ context.Context, question string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, question)
	f.mu.Unlock()

	if f.answer == nil {
		return "answer to " + question, nil
	}
	return f.answer(question)
}

type fakeQAClient struct {
	got    models.QARequest
	result *models.QAResult
	err    error
}

func (f *fakeQAClient) Answer(_ context.Context, req models.QARequest) (*models.QAResult, error) {
	f.got = req
	return f.result, f.err
}
