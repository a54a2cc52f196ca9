package generator

import "context"

type Option func(*Options)

type Options struct {
	ApiKeys   []string
	Model     string
	BaseURL   string
	JSONMode  bool
	MaxTokens int
	Context   context.Context
}

// WithApiKeys sets the keys a provider may use. Providers that support it
// rotate to the next key when one is rate limited.
func WithApiKeys(keys ...string) Option {
	return func(o *Options) {
		o.ApiKeys = keys
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithBaseURL points the provider at a compatible endpoint, e.g. a local Ollama.
func WithBaseURL(url string) Option {
	return func(o *Options) {
		o.BaseURL = url
	}
}

// WithJSONMode asks the provider to constrain output to a JSON object.
func WithJSONMode() Option {
	return func(o *Options) {
		o.JSONMode = true
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		MaxTokens: 4096,
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// FirstKey returns the first configured key or "".
func (o Options) FirstKey() string {
	if len(o.ApiKeys) == 0 {
		return ""
	}
	return o.ApiKeys[0]
}
