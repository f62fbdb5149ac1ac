package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_completer.go -package=mocks flexone-api/internal/service Completer
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_knowledge_source.go -package=mocks flexone-api/internal/service KnowledgeSource
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_relay_service.go -package=mocks -mock_names=RelayService=MockRelayService flexone-api/internal/service RelayService

import (
	"context"
	"fmt"

	"flexone-api/internal/contextutil"
	"flexone-api/internal/llm"
)

// Default generation parameters applied when the caller leaves them unset.
// MaxTokens has no global default: each HTTP entry point supplies its own.
const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = float32(0.7)
)

// systemPersona is the fixed persona used when a system message has to be
// synthesized for knowledge-base injection.
const systemPersona = "You are a helpful customer support assistant. " +
	"Use the following product knowledge base to answer questions accurately. " +
	"If the knowledge base does not cover a question, say so instead of guessing."

// Completer is the provider-side interface consumed by the relay.
// This interface is defined from the service layer's perspective (consumer-first).
type Completer interface {
	// Complete issues a single chat completion call with fully resolved
	// parameters.
	Complete(ctx context.Context, req llm.Request) (llm.Result, error)
}

// KnowledgeSource exposes the read side of the knowledge context store.
type KnowledgeSource interface {
	// IsLoaded reports whether knowledge context is currently available.
	IsLoaded() bool
	// PromptContext returns the knowledge context rendered for embedding
	// in a system prompt. Empty when not loaded.
	PromptContext() string
}

// Params holds caller-supplied generation parameters. Model and Temperature
// fall back to the documented defaults when unset; a nil Temperature is
// "unset" so an explicit zero passes through. MaxTokens must already carry
// the invoking endpoint's default.
type Params struct {
	Model       string
	Temperature *float32
	MaxTokens   int
}

// Outcome is the mapped result of one relay call.
type Outcome struct {
	ResponseText      string
	ModelUsed         string
	Usage             *llm.TokenUsage
	KnowledgeBaseUsed bool
}

// RelayService forwards conversations to the LLM provider.
type RelayService interface {
	// Relay composes the prompt, calls the provider once, and maps the
	// result. It never retains the conversation.
	Relay(ctx context.Context, messages []llm.Message, params Params, useKnowledgeBase bool) (Outcome, error)
}

// relayService implements RelayService.
type relayService struct {
	completer    Completer
	knowledge    KnowledgeSource
	defaultModel string
}

// NewRelayService creates a RelayService. defaultModel replaces the built-in
// DefaultModel when non-empty.
func NewRelayService(completer Completer, knowledge KnowledgeSource, defaultModel string) RelayService {
	if defaultModel == "" {
		defaultModel = DefaultModel
	}
	return &relayService{
		completer:    completer,
		knowledge:    knowledge,
		defaultModel: defaultModel,
	}
}

// Relay is stateless aside from reading the knowledge source: each call
// validates, composes, performs exactly one provider call, and maps the
// reply. No retries; a failed call surfaces immediately as a typed error.
func (s *relayService) Relay(ctx context.Context, messages []llm.Message, params Params, useKnowledgeBase bool) (Outcome, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateMessages(messages); err != nil {
		logger.WarnContext(ctx, "rejected chat request", "error", err)
		return Outcome{}, err
	}
	if params.MaxTokens <= 0 {
		return Outcome{}, &ValidationError{Field: "max_tokens", Message: "must be a positive integer"}
	}

	// knowledge_base_used is fixed at call time, before the provider call.
	kbUsed := useKnowledgeBase && s.knowledge.IsLoaded()
	outbound := messages
	if kbUsed {
		outbound = injectContext(messages, s.knowledge.PromptContext())
	}

	req := llm.Request{
		Model:       params.Model,
		Messages:    outbound,
		Temperature: DefaultTemperature,
		MaxTokens:   params.MaxTokens,
	}
	if req.Model == "" {
		req.Model = s.defaultModel
	}
	if params.Temperature != nil {
		req.Temperature = *params.Temperature
	}

	result, err := s.completer.Complete(ctx, req)
	if err != nil {
		logger.ErrorContext(ctx, "provider call failed", "model", req.Model, "error", err)
		return Outcome{}, WrapError(err, "failed to get LLM response")
	}

	logger.InfoContext(ctx, "chat relayed",
		"model", result.Model,
		"messages", len(outbound),
		"knowledge_base_used", kbUsed,
		"reply_length", len(result.Content),
	)

	return Outcome{
		ResponseText:      result.Content,
		ModelUsed:         result.Model,
		Usage:             result.Usage,
		KnowledgeBaseUsed: kbUsed,
	}, nil
}

// injectContext returns a copy of messages with the knowledge context folded
// into the conversation's single system message. If a system message exists,
// the context is appended to its content; otherwise one is synthesized and
// prepended. Message order is preserved and the input is never mutated.
func injectContext(messages []llm.Message, promptContext string) []llm.Message {
	for i, m := range messages {
		if m.Role == llm.RoleSystem {
			out := make([]llm.Message, len(messages))
			copy(out, messages)
			out[i].Content = fmt.Sprintf("%s\n\nProduct knowledge base:\n%s", m.Content, promptContext)
			return out
		}
	}

	out := make([]llm.Message, 0, len(messages)+1)
	out = append(out, llm.Message{
		Role:    llm.RoleSystem,
		Content: fmt.Sprintf("%s\n\nProduct knowledge base:\n%s", systemPersona, promptContext),
	})
	return append(out, messages...)
}

func validateMessages(messages []llm.Message) error {
	if len(messages) == 0 {
		return &ValidationError{Field: "messages", Message: "cannot be empty"}
	}
	for i, m := range messages {
		switch m.Role {
		case llm.RoleSystem, llm.RoleUser, llm.RoleAssistant:
		default:
			return &ValidationError{
				Field:   fmt.Sprintf("messages[%d].role", i),
				Message: fmt.Sprintf("must be one of system, user, assistant; got %q", m.Role),
			}
		}
		if m.Content == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("messages[%d].content", i),
				Message: "cannot be empty",
			}
		}
	}
	return nil
}
