package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vark-assistant/internal/models"
)

const maxErrorBodyBytes = 512

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HuggingFaceQA calls a hosted question-answering pipeline such as
// deepset/roberta-base-squad2.
type HuggingFaceQA struct {
	endpoint string
	model    string
	token    string
	client   httpDoer
}

func NewHuggingFaceQA(endpoint, model, token string) *HuggingFaceQA {
	return &HuggingFaceQA{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    strings.Trim(model, "/"),
		token:    token,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type hfQuestionAnsweringRequest struct {
	Inputs models.QARequest `json:"inputs"`
}

func (c *HuggingFaceQA) Answer(ctx context.Context, req models.QARequest) (*models.QAResult, error) {
	body, err := json.Marshal(hfQuestionAnsweringRequest{Inputs: req})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := c.endpoint + "/" + c.model
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", c.model, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(raw))
		if len(snippet) > maxErrorBodyBytes {
			snippet = snippet[:maxErrorBodyBytes]
		}
		return nil, fmt.Errorf("%s returned status %d: %s", c.model, resp.StatusCode, snippet)
	}

	// The pipeline answers with an object for a single input but some
	// deployments wrap it in a list.
	trimmed := bytes.TrimSpace(raw)
	var result models.QAResult
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var results []models.QAResult
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if len(results) == 0 {
			return nil, fmt.Errorf("%s returned no answers", c.model)
		}
		result = results[0]
	} else if err := json.Unmarshal(trimmed, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &result, nil
}
