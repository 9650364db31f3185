package services

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	"vark-assistant/internal/models"
)

// OpenAIQA extracts answer spans through the OpenAI Responses API.
type OpenAIQA struct {
	client *openai.Client
	model  string
}

func NewOpenAIQA(apiKey, model string) *OpenAIQA {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIQA{
		client: &client,
		model:  model,
	}
}

func (c *OpenAIQA) Answer(ctx context.Context, req models.QARequest) (*models.QAResult, error) {
	resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:        c.model,
		Instructions: openai.String(extractionInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						{
							OfInputText: &responses.ResponseInputTextParam{
								Text: buildExtractionPrompt(req),
							},
						},
					},
					responses.EasyInputMessageRoleUser,
				),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	return parseExtraction(resp.OutputText(), req.Context)
}
