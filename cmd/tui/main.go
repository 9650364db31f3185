package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"vark-assistant/internal/config"
	"vark-assistant/internal/services"
	"vark-assistant/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadInference()
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	// Log output would tear the alternate screen.
	logger := zap.NewNop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	qaClient, closeQA, err := services.NewQAClient(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("inference backend: %w", err)
	}
	defer closeQA()

	answerService := services.NewAnswerService(qaClient, logger)
	conversation := services.NewConversationService(answerService, cfg.AnswerDelay, logger)

	model := tui.New(ctx, conversation, services.NewGuideService())
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal UI: %w", err)
	}
	return nil
}
