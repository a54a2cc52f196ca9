package openai

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/meeting-digest/internal/generator"
	"github.com/sashabaranov/go-openai"
)

// placeholderKey is sent when no key is configured; local servers such as
// Ollama ignore the Authorization header.
const placeholderKey = "ollama"

type openAIGenerator struct {
	options generator.Options
	client  *openai.Client
}

func (g *openAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     g.options.Model,
		MaxTokens: g.options.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}
	if g.options.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	rsp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(rsp.Choices) == 0 || len(rsp.Choices[0].Message.Content) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return rsp.Choices[0].Message.Content, nil
}

// NewGenerator creates a Generator for the OpenAI chat completions API or any
// server compatible with it.
func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	key := options.FirstKey()
	if key == "" {
		key = placeholderKey
	}

	cfg := openai.DefaultConfig(key)
	if options.BaseURL != "" {
		cfg.BaseURL = options.BaseURL
	}

	return &openAIGenerator{
		options: options,
		client:  openai.NewClientWithConfig(cfg),
	}
}
