package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"vark-assistant/internal/models"
)

const extractionInstructions = `You are an extractive question answering model.
Answer the question using ONLY a span copied verbatim from the context.
Return ONLY a valid JSON object: {"answer": "<exact span from the context>", "score": <confidence between 0 and 1>}
If the context does not contain the answer, return {"answer": "", "score": 0}.`

func buildExtractionPrompt(req models.QARequest) string {
	return fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s", req.Context, req.Question)
}

// parseExtraction decodes a model's JSON reply and locates the span in the
// context. Start and End are -1 when the model paraphrased instead of copying.
func parseExtraction(raw, context string) (*models.QAResult, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	if raw == "" {
		return nil, fmt.Errorf("model returned empty text")
	}

	var out struct {
		Answer string  `json:"answer"`
		Score  float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode model answer: %w", err)
	}

	answer := strings.TrimSpace(out.Answer)
	result := &models.QAResult{Answer: answer, Score: out.Score, Start: -1, End: -1}
	if answer == "" {
		result.Start, result.End = 0, 0
		return result, nil
	}
	if idx := strings.Index(context, answer); idx >= 0 {
		result.Start = idx
		result.End = idx + len(answer)
	}
	return result, nil
}
