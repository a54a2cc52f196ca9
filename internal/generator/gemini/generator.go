package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/meeting-digest/internal/generator"
	"github.com/nguyentantai21042004/meeting-digest/internal/logger"
	"google.golang.org/genai"
)

type geminiGenerator struct {
	options generator.Options
	logger  logger.Logger

	mu         sync.Mutex
	currentKey int
}

// Generate sends the prompt to Gemini, rotating API keys on 429 / quota errors.
func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if len(g.options.ApiKeys) == 0 {
		return "", fmt.Errorf("no Gemini API keys configured")
	}

	var cfg *genai.GenerateContentConfig
	if g.options.JSONMode {
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	attempts := len(g.options.ApiKeys)
	var lastErr error

	for range attempts {
		keyIndex, key := g.key()

		clientCfg := &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		}
		if g.options.BaseURL != "" {
			clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.options.BaseURL}
		}

		client, err := genai.NewClient(ctx, clientCfg)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey(keyIndex)
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.options.Model, genai.Text(prompt), cfg)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", keyIndex+1)
				g.rotateKey(keyIndex)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			if text != "" {
				return text, nil
			}
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *geminiGenerator) key() (int, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey, g.options.ApiKeys[g.currentKey]
}

// rotateKey advances past index unless another request already did.
func (g *geminiGenerator) rotateKey(index int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == index {
		g.currentKey = (g.currentKey + 1) % len(g.options.ApiKeys)
	}
}

// NewGenerator creates a Generator that rotates through the supplied Gemini API keys.
func NewGenerator(log logger.Logger, opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)
	if options.Model == "" {
		options.Model = "gemini-2.5-flash"
	}

	return &geminiGenerator{
		options: options,
		logger:  log,
	}
}
