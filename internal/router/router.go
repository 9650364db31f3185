package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"vark-assistant/internal/handlers"
	"vark-assistant/internal/middleware"
	"vark-assistant/internal/websocket"
)

func New(
	logger *zap.Logger,
	sessionAuth *middleware.SessionAuth,
	chatLimiter *middleware.RateLimiter,
	pageHandler *handlers.PageHandler,
	chatHandler *handlers.ChatHandler,
	guideHandler *handlers.GuideHandler,
	wsHub *websocket.Hub,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(sessionAuth.Middleware)

		r.Get("/", pageHandler.Index)

		r.Route("/api/v1", func(r chi.Router) {
			// ──── Chat Routes ────
			r.Route("/chat", func(r chi.Router) {
				r.Get("/history", chatHandler.History)
				r.With(chatLimiter.Middleware).Post("/", chatHandler.Send)
			})

			// ──── Study Guide Routes ────
			r.Route("/guides", func(r chi.Router) {
				r.Get("/styles", guideHandler.Styles)
				r.Post("/", guideHandler.Generate)
			})

			// ──── WebSocket ────
			// Turns sent over the socket are charged to chatLimiter by the hub.
			r.Get("/ws", wsHub.HandleWebSocket)
		})
	})

	return r
}
