package llm

import (
	"context"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Client is a chat completions client backed by the OpenAI API.
// It is safe for concurrent use.
type Client struct {
	api *openai.Client
}

// Options tunes client construction.
type Options struct {
	// BaseURL overrides the provider endpoint. Used for compatible
	// providers and in tests; the OpenAI default applies when empty.
	BaseURL string
	// Timeout bounds each completion call. Defaults to 30s.
	Timeout time.Duration
}

// NewClient creates a chat completions client.
func NewClient(apiKey string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}

	return &Client{api: openai.NewClientWithConfig(cfg)}
}

// Complete issues a single synchronous chat completion call.
// No retries are performed: generation calls are billed and not idempotent,
// so a failure is surfaced immediately as a typed *Error.
func (c *Client) Complete(ctx context.Context, req Request) (Result, error) {
	apiReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    toAPIMessages(req.Messages),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	resp, err := c.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return Result{}, mapProviderError(err)
	}

	result := Result{Model: resp.Model}
	if len(resp.Choices) > 0 {
		result.Content = resp.Choices[0].Message.Content
	}
	if usage := resp.Usage; usage.PromptTokens != 0 || usage.CompletionTokens != 0 || usage.TotalTokens != 0 {
		result.Usage = &TokenUsage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		}
	}

	return result, nil
}

func toAPIMessages(msgs []Message) []openai.ChatCompletionMessage {
	res := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		res = append(res, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return res
}
