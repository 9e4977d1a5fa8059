// Package llm provides chat-completion clients used to write run summaries.
// OpenRouter is the default provider; Gemini can be selected instead.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenRouter is the OpenRouter chat-completions API
	ProviderOpenRouter Provider = "openrouter"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Defaults for the OpenRouter provider
const (
	DefaultOpenRouterURL   = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel = "openai/gpt-4o"
	DefaultGeminiModel     = "gemini-2.5-flash"
	DefaultTitle           = "AI Talent Match Dashboard"
	// DefaultTimeout bounds the one chat request a run makes. It is not a retry
	// policy: when it expires the summary fails and nothing is sent again.
	DefaultTimeout = 120 * time.Second
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	APIKey   string
	Model    string
	BaseURL  string        // OpenRouter only
	Referer  string        // optional HTTP-Referer header, OpenRouter only
	Title    string        // X-Title header, OpenRouter only
	Timeout  time.Duration // bounds the single attempt; there are no retries
}

// DefaultConfig returns the default configuration (OpenRouter)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderOpenRouter,
		Model:    DefaultOpenRouterModel,
		BaseURL:  DefaultOpenRouterURL,
		Title:    DefaultTitle,
		Timeout:  DefaultTimeout,
	}
}

// withDefaults fills unset fields for the configured provider
func (c Config) withDefaults() Config {
	if c.Provider == "" {
		c.Provider = ProviderOpenRouter
	}
	if c.Model == "" {
		if c.Provider == ProviderGemini {
			c.Model = DefaultGeminiModel
		} else {
			c.Model = DefaultOpenRouterModel
		}
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultOpenRouterURL
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
