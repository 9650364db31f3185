package handlers

import (
	"encoding/json"
	"net/http"

	"vark-assistant/internal/catalog"
	"vark-assistant/internal/models"
)

type guideGenerator interface {
	Generate(style string) (string, error)
}

type GuideHandler struct {
	guides guideGenerator
}

func NewGuideHandler(guides guideGenerator) *GuideHandler {
	return &GuideHandler{guides: guides}
}

func (h *GuideHandler) Styles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.StylesResponse{Styles: styleOptions()})
}

func (h *GuideHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GuideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	guide, err := h.guides.Generate(req.Style)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	style, _ := catalog.ParseStyle(req.Style)
	writeJSON(w, http.StatusOK, models.GuideResponse{Style: style.String(), Guide: guide})
}

func styleOptions() []models.StyleOption {
	all := catalog.All()
	out := make([]models.StyleOption, len(all))
	for i, s := range all {
		out[i] = models.StyleOption{Key: s.String(), Label: s.Label()}
	}
	return out
}
