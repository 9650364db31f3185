package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vark-assistant/internal/catalog"
	"vark-assistant/internal/models"
)

func TestExtractiveQA_Answers(t *testing.T) {
	qa := NewExtractiveQA()

	tests := []struct {
		question string
		expected string
	}{
		{
			"What are visual learners?",
			"Visual learners prefer visual representations of information, such as diagrams, charts, graphs, and maps.",
		},
		{
			"Describe kinesthetic learners",
			"Kinesthetic learners are individuals who prefer to learn by doing and hands-on experience.",
		},
		{
			"Who are auditory learners?",
			"Auditory learners are individuals who learn through listening.",
		},
		{
			"What are the four types of learning styles?",
			"Visual, Auditory, Reading/writing and Kinesthetic.",
		},
		{
			"What are the learning styles?",
			"Visual, Auditory, Reading/writing and Kinesthetic.",
		},
		{
			"Does age matter for learning?",
			"Children often benefit from kinesthetic methods, teenagers from social-learning approaches, adults from reading/writing strategies for professional development.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.question, func(t *testing.T) {
			res, err := qa.Answer(context.Background(), models.QARequest{Question: tc.question, Context: catalog.Context})
			require.NoError(t, err)

			assert.Equal(t, tc.expected, res.Answer)
			assert.Equal(t, res.Answer, catalog.Context[res.Start:res.End])
			assert.Greater(t, res.Score, 0.0)
		})
	}
}

func TestExtractiveQA_FallsBackToOpeningSentence(t *testing.T) {
	qa := NewExtractiveQA()

	for _, question := range []string{"", "   ", "hello", "what is it?", "zzzz qqqq"} {
		res, err := qa.Answer(context.Background(), models.QARequest{Question: question, Context: catalog.Context})
		require.NoError(t, err)

		assert.Equal(t, "Visual, Auditory, Reading/writing and Kinesthetic.", res.Answer, "question %q", question)
		assert.Equal(t, res.Answer, catalog.Context[res.Start:res.End])
		assert.Zero(t, res.Score)
	}
}

func TestExtractiveQA_EmptyContext(t *testing.T) {
	res, err := NewExtractiveQA().Answer(context.Background(), models.QARequest{Question: "visual", Context: "  "})
	require.NoError(t, err)
	assert.Empty(t, res.Answer)
}

func TestExtractiveQA_RespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractiveQA().Answer(ctx, models.QARequest{Question: "visual", Context: catalog.Context})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSplitSentences(t *testing.T) {
	text := "One. Two? Three!  Four without stop"
	var got []string
	for _, s := range splitSentences(text) {
		got = append(got, text[s.start:s.end])
	}
	assert.Equal(t, []string{"One.", "Two?", "Three!", "Four without stop"}, got)
}

func TestQuestionTerms(t *testing.T) {
	assert.Equal(t, []string{"visual", "learners"}, questionTerms("What are VISUAL learners? Visual!"))
	assert.Empty(t, questionTerms("What is it?"))
}
