package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vark-assistant/internal/models"
)

func TestHuggingFaceQA_DecodesPipelineOutput(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody hfQuestionAnsweringRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"score":0.87,"start":10,"end":20,"answer":"by doing"}`))
	}))
	defer srv.Close()

	qa := NewHuggingFaceQA(srv.URL+"/models/", "deepset/roberta-base-squad2", "hf_token")
	res, err := qa.Answer(context.Background(), models.QARequest{Question: "q", Context: "c"})
	require.NoError(t, err)

	assert.Equal(t, "/models/deepset/roberta-base-squad2", gotPath)
	assert.Equal(t, "Bearer hf_token", gotAuth)
	assert.Equal(t, models.QARequest{Question: "q", Context: "c"}, gotBody.Inputs)
	assert.Equal(t, &models.QAResult{Answer: "by doing", Score: 0.87, Start: 10, End: 20}, res)
}

func TestHuggingFaceQA_AcceptsListResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(` [{"score":0.5,"start":0,"end":3,"answer":"one"},{"answer":"two"}]`))
	}))
	defer srv.Close()

	res, err := NewHuggingFaceQA(srv.URL, "m", "").Answer(context.Background(), models.QARequest{})
	require.NoError(t, err)
	assert.Equal(t, "one", res.Answer)
}

func TestHuggingFaceQA_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"model loading", http.StatusServiceUnavailable, `{"error":"Model is currently loading"}`, "status 503"},
		{"unauthorized", http.StatusUnauthorized, `{"error":"Invalid token"}`, "Invalid token"},
		{"malformed body", http.StatusOK, `not json`, "decode response"},
		{"empty list", http.StatusOK, `[]`, "no answers"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewHuggingFaceQA(srv.URL, "m", "t").Answer(context.Background(), models.QARequest{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
