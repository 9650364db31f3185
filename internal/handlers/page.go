package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"vark-assistant/internal/catalog"
	"vark-assistant/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Title            string
	QuestionnaireURL string
	Styles           []models.StyleOption
}

// PageHandler serves the chat and study-guide page. All behaviour lives
// behind the JSON and WebSocket endpoints.
type PageHandler struct {
	logger *zap.Logger
}

func NewPageHandler(logger *zap.Logger) *PageHandler {
	return &PageHandler{logger: logger}
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, pageData{
		Title:            "🎓 Learning Style Assistant",
		QuestionnaireURL: catalog.QuestionnaireURL,
		Styles:           styleOptions(),
	})
	if err != nil {
		h.logger.Error("failed to render page", zap.Error(err))
	}
}
