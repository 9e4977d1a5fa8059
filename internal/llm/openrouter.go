package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/logger"
)

// APIError is a non-200 answer from the chat-completions endpoint
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// ChatCompletionRequest represents a request to the chat completions endpoint
type ChatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// Message represents a message in a chat completion
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse represents the response from chat completions
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// Choice represents a completion choice
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// OpenRouterClient implements Client for the OpenRouter chat-completions API
type OpenRouterClient struct {
	config     Config
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewOpenRouterClient creates a new OpenRouter client.
// The API key has no fallback value; it must come from configuration.
func NewOpenRouterClient(config Config, logger *zap.SugaredLogger) (*OpenRouterClient, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, errors.WithHint(errors.New("OpenRouter API key not configured"), "set OPENROUTER_API_KEY")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	config = config.withDefaults()

	return &OpenRouterClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}, nil
}

// Chat posts a system + user conversation and returns the first choice's content
func (c *OpenRouterClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	messages := []Message{}
	if req.SystemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, Message{Role: "user", Content: req.UserPrompt})

	c.logger.Debugw("AI Chat Request",
		"model", c.config.Model,
		"messages", len(messages),
		"prompt_chars", len(req.UserPrompt),
	)

	resp, err := c.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model:    c.config.Model,
		Messages: messages,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices in response")
	}

	return &ChatResponse{Content: resp.Choices[0].Message.Content, Model: resp.Model}, nil
}

// CreateChatCompletion sends a chat completion request to OpenRouter
func (c *OpenRouterClient) CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("X-Title", c.config.Title)
	if c.config.Referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.config.Referer)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warnw("AI Chat Request failed", "status", resp.StatusCode, "body", logger.Truncate(string(respBody), 200))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal response")
	}

	return &chatResp, nil
}

// Model returns the configured model identifier
func (c *OpenRouterClient) Model() string {
	return c.config.Model
}

// Close drops idle keep-alive connections
func (c *OpenRouterClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
