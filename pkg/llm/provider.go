package llm

import "context"

// Message is one chat turn in a provider-agnostic shape.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// LLMProvider is the contract every model backend satisfies.
type LLMProvider interface {
	// Chat sends a conversation history and returns the model's reply.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate is the single-prompt convenience over Chat.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// Options carries per-call tuning. Providers apply what they support and
// ignore the rest.
type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // overrides the provider's default model
}

type Option func(*Options)

func WithTemperature(temp float64) Option {
	return func(o *Options) { o.Temperature = temp }
}

func WithMaxTokens(n int) Option {
	return func(o *Options) { o.MaxTokens = n }
}

func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}
