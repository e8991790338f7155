package inference

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// GeminiInferencer implements Inferencer on Google's genai SDK. The openai
// params struct stays the cross-backend carrier for model and token limits.
type GeminiInferencer struct {
	client *genai.Client
	apiKey string
	model  string
}

func NewGeminiInferencer(apiKey string, model string) (*GeminiInferencer, error) {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return &GeminiInferencer{
		client: client,
		apiKey: apiKey,
		model:  model,
	}, nil
}

func (o *GeminiInferencer) config(params *openai.ChatCompletionNewParams, system string) (string, *genai.GenerateContentConfig) {
	if params == nil {
		params = new(openai.ChatCompletionNewParams)
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleModel),
		MaxOutputTokens:   int32(cmp.Or(params.MaxCompletionTokens.Value, 4096)),
	}
	if params.Temperature.Valid() {
		cfg.Temperature = genai.Ptr(float32(params.Temperature.Value))
	}
	return cmp.Or(params.Model, o.model), cfg
}

func (o *GeminiInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	model, cfg := o.config(params, system)

	result, err := o.client.Models.GenerateContent(ctx, model, genai.Text(user), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini inference error: %w", err)
	}
	text := result.Text()
	if text == "" {
		return "", errors.New("empty completion content")
	}
	return text, nil
}

func (o *GeminiInferencer) Stream(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string, emit func(string) error) error {
	model, cfg := o.config(params, system)

	for resp, err := range o.client.Models.GenerateContentStream(ctx, model, genai.Text(user), cfg) {
		if err != nil {
			return fmt.Errorf("gemini stream error: %w", err)
		}
		if delta := resp.Text(); delta != "" {
			if err := emit(delta); err != nil {
				return err
			}
		}
	}
	return nil
}
