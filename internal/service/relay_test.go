package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"flexone-api/internal/llm"
	"flexone-api/internal/service"
	"flexone-api/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func float32Ptr(v float32) *float32 { return &v }

func TestNewRelayService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.NewRelayService(mocks.NewMockCompleter(ctrl), mocks.NewMockKnowledgeSource(ctrl), "")
	if svc == nil {
		t.Fatal("NewRelayService() returned nil")
	}
}

func TestRelay_EchoScenario(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	completer := mocks.NewMockCompleter(ctrl)
	knowledgeSource := mocks.NewMockKnowledgeSource(ctrl)
	svc := service.NewRelayService(completer, knowledgeSource, "")

	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.Request) (llm.Result, error) {
			if req.Model != "gpt-3.5-turbo" {
				t.Errorf("model = %q, want gpt-3.5-turbo", req.Model)
			}
			if len(req.Messages) != 1 || req.Messages[0].Content != "Hello" {
				t.Errorf("unexpected outbound messages: %+v", req.Messages)
			}
			return llm.Result{Content: "Hi", Model: "gpt-3.5-turbo"}, nil
		})

	outcome, err := svc.Relay(context.Background(),
		[]llm.Message{{Role: llm.RoleUser, Content: "Hello"}},
		service.Params{Model: "gpt-3.5-turbo", MaxTokens: 500},
		false,
	)
	if err != nil {
		t.Fatalf("Relay() error = %v", err)
	}
	if outcome.ResponseText != "Hi" {
		t.Errorf("ResponseText = %q, want Hi", outcome.ResponseText)
	}
	if outcome.ModelUsed != "gpt-3.5-turbo" {
		t.Errorf("ModelUsed = %q, want gpt-3.5-turbo", outcome.ModelUsed)
	}
	if outcome.KnowledgeBaseUsed {
		t.Error("KnowledgeBaseUsed = true, want false")
	}
}

func TestRelay_SynthesizesSystemMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	completer := mocks.NewMockCompleter(ctrl)
	knowledgeSource := mocks.NewMockKnowledgeSource(ctrl)
	svc := service.NewRelayService(completer, knowledgeSource, "")

	knowledgeSource.EXPECT().IsLoaded().Return(true)
	knowledgeSource.EXPECT().PromptContext().Return(`{"product": "FlexOne"}`)

	var outbound []llm.Message
	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.Request) (llm.Result, error) {
			outbound = req.Messages
			return llm.Result{Content: "ok", Model: "gpt-3.5-turbo"}, nil
		})

	input := []llm.Message{
		{Role: llm.RoleUser, Content: "first"},
		{Role: llm.RoleAssistant, Content: "second"},
		{Role: llm.RoleUser, Content: "third"},
	}
	outcome, err := svc.Relay(context.Background(), input, service.Params{MaxTokens: 1500}, true)
	if err != nil {
		t.Fatalf("Relay() error = %v", err)
	}

	if len(outbound) != 4 {
		t.Fatalf("outbound message count = %d, want 4", len(outbound))
	}
	if outbound[0].Role != llm.RoleSystem {
		t.Errorf("outbound[0].Role = %q, want system", outbound[0].Role)
	}
	if !strings.Contains(outbound[0].Content, "FlexOne") {
		t.Error("synthesized system message should contain knowledge context")
	}
	// Order of the caller's messages is preserved after the prepended system message.
	for i, m := range input {
		if outbound[i+1] != m {
			t.Errorf("outbound[%d] = %+v, want %+v", i+1, outbound[i+1], m)
		}
	}
	if !outcome.KnowledgeBaseUsed {
		t.Error("KnowledgeBaseUsed = false, want true")
	}
}

func TestRelay_AppendsToExistingSystemMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	completer := mocks.NewMockCompleter(ctrl)
	knowledgeSource := mocks.NewMockKnowledgeSource(ctrl)
	svc := service.NewRelayService(completer, knowledgeSource, "")

	knowledgeSource.EXPECT().IsLoaded().Return(true)
	knowledgeSource.EXPECT().PromptContext().Return("KB-CONTEXT")

	var outbound []llm.Message
	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.Request) (llm.Result, error) {
			outbound = req.Messages
			return llm.Result{Content: "ok", Model: "gpt-3.5-turbo"}, nil
		})

	input := []llm.Message{
		{Role: llm.RoleSystem, Content: "Existing instructions"},
		{Role: llm.RoleUser, Content: "question"},
	}
	if _, err := svc.Relay(context.Background(), input, service.Params{MaxTokens: 1500}, true); err != nil {
		t.Fatalf("Relay() error = %v", err)
	}

	systemCount := 0
	for _, m := range outbound {
		if m.Role == llm.RoleSystem {
			systemCount++
		}
	}
	if systemCount != 1 {
		t.Fatalf("outbound system message count = %d, want exactly 1", systemCount)
	}
	content := outbound[0].Content
	origIdx := strings.Index(content, "Existing instructions")
	kbIdx := strings.Index(content, "KB-CONTEXT")
	if origIdx < 0 || kbIdx < 0 {
		t.Fatalf("system message missing original text or context: %q", content)
	}
	if origIdx > kbIdx {
		t.Error("original system text should precede knowledge context")
	}

	// The caller's conversation must not be mutated.
	if input[0].Content != "Existing instructions" {
		t.Error("Relay() mutated the caller's conversation")
	}
}

func TestRelay_KnowledgeBaseUsedFlag(t *testing.T) {
	tests := []struct {
		name       string
		useKB      bool
		loaded     bool
		wantKBUsed bool
	}{
		{name: "requested and loaded", useKB: true, loaded: true, wantKBUsed: true},
		{name: "requested but unloaded", useKB: true, loaded: false, wantKBUsed: false},
		{name: "not requested", useKB: false, loaded: true, wantKBUsed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			completer := mocks.NewMockCompleter(ctrl)
			knowledgeSource := mocks.NewMockKnowledgeSource(ctrl)
			svc := service.NewRelayService(completer, knowledgeSource, "")

			if tt.useKB {
				knowledgeSource.EXPECT().IsLoaded().Return(tt.loaded)
			}
			if tt.wantKBUsed {
				knowledgeSource.EXPECT().PromptContext().Return("ctx")
			}
			completer.EXPECT().
				Complete(gomock.Any(), gomock.Any()).
				Return(llm.Result{Content: "ok", Model: "gpt-3.5-turbo"}, nil)

			outcome, err := svc.Relay(context.Background(),
				[]llm.Message{{Role: llm.RoleUser, Content: "hi"}},
				service.Params{MaxTokens: 500}, tt.useKB)
			if err != nil {
				t.Fatalf("Relay() error = %v", err)
			}
			if outcome.KnowledgeBaseUsed != tt.wantKBUsed {
				t.Errorf("KnowledgeBaseUsed = %v, want %v", outcome.KnowledgeBaseUsed, tt.wantKBUsed)
			}
		})
	}
}

func TestRelay_ParameterDefaults(t *testing.T) {
	tests := []struct {
		name            string
		params          service.Params
		defaultModel    string
		wantModel       string
		wantTemperature float32
		wantMaxTokens   int
	}{
		{
			name:            "all defaults",
			params:          service.Params{MaxTokens: 500},
			wantModel:       "gpt-3.5-turbo",
			wantTemperature: 0.7,
			wantMaxTokens:   500,
		},
		{
			name:            "explicit values pass through",
			params:          service.Params{Model: "gpt-4", Temperature: float32Ptr(1.3), MaxTokens: 1500},
			wantModel:       "gpt-4",
			wantTemperature: 1.3,
			wantMaxTokens:   1500,
		},
		{
			name:            "explicit zero temperature is not replaced",
			params:          service.Params{Temperature: float32Ptr(0), MaxTokens: 500},
			wantModel:       "gpt-3.5-turbo",
			wantTemperature: 0,
			wantMaxTokens:   500,
		},
		{
			name:            "configured default model",
			params:          service.Params{MaxTokens: 500},
			defaultModel:    "gpt-4o-mini",
			wantModel:       "gpt-4o-mini",
			wantTemperature: 0.7,
			wantMaxTokens:   500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			completer := mocks.NewMockCompleter(ctrl)
			knowledgeSource := mocks.NewMockKnowledgeSource(ctrl)
			svc := service.NewRelayService(completer, knowledgeSource, tt.defaultModel)

			completer.EXPECT().
				Complete(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req llm.Request) (llm.Result, error) {
					if req.Model != tt.wantModel {
						t.Errorf("model = %q, want %q", req.Model, tt.wantModel)
					}
					if req.Temperature != tt.wantTemperature {
						t.Errorf("temperature = %v, want %v", req.Temperature, tt.wantTemperature)
					}
					if req.MaxTokens != tt.wantMaxTokens {
						t.Errorf("max tokens = %d, want %d", req.MaxTokens, tt.wantMaxTokens)
					}
					return llm.Result{Content: "ok", Model: req.Model}, nil
				})

			_, err := svc.Relay(context.Background(),
				[]llm.Message{{Role: llm.RoleUser, Content: "hi"}}, tt.params, false)
			if err != nil {
				t.Fatalf("Relay() error = %v", err)
			}
		})
	}
}

func TestRelay_Validation(t *testing.T) {
	tests := []struct {
		name     string
		messages []llm.Message
		params   service.Params
	}{
		{
			name:     "empty conversation",
			messages: nil,
			params:   service.Params{MaxTokens: 500},
		},
		{
			name:     "unknown role",
			messages: []llm.Message{{Role: "bot", Content: "hi"}},
			params:   service.Params{MaxTokens: 500},
		},
		{
			name:     "empty content",
			messages: []llm.Message{{Role: llm.RoleUser, Content: ""}},
			params:   service.Params{MaxTokens: 500},
		},
		{
			name:     "non-positive max tokens",
			messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
			params:   service.Params{MaxTokens: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No completer call expected.
			svc := service.NewRelayService(mocks.NewMockCompleter(ctrl), mocks.NewMockKnowledgeSource(ctrl), "")

			_, err := svc.Relay(context.Background(), tt.messages, tt.params, false)
			var validationErr *service.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("Relay() error = %v, want *ValidationError", err)
			}
		})
	}
}

func TestRelay_ProviderErrorPassthrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	completer := mocks.NewMockCompleter(ctrl)
	knowledgeSource := mocks.NewMockKnowledgeSource(ctrl)
	svc := service.NewRelayService(completer, knowledgeSource, "")

	providerErr := &llm.Error{Kind: llm.KindAuth, StatusCode: 401, Message: "bad key"}
	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(llm.Result{}, providerErr)

	outcome, err := svc.Relay(context.Background(),
		[]llm.Message{{Role: llm.RoleUser, Content: "hi"}},
		service.Params{MaxTokens: 500}, false)
	if err == nil {
		t.Fatal("Relay() expected error")
	}
	var llmErr *llm.Error
	if !errors.As(err, &llmErr) || llmErr.Kind != llm.KindAuth {
		t.Errorf("Relay() error = %v, want wrapped *llm.Error with KindAuth", err)
	}
	// No partial outcome on failure.
	if outcome != (service.Outcome{}) {
		t.Errorf("Relay() outcome = %+v, want zero value on failure", outcome)
	}
}

func TestRelay_EmptyProviderContent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	completer := mocks.NewMockCompleter(ctrl)
	knowledgeSource := mocks.NewMockKnowledgeSource(ctrl)
	svc := service.NewRelayService(completer, knowledgeSource, "")

	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return(llm.Result{Content: "", Model: "gpt-3.5-turbo"}, nil)

	outcome, err := svc.Relay(context.Background(),
		[]llm.Message{{Role: llm.RoleUser, Content: "hi"}},
		service.Params{MaxTokens: 500}, false)
	if err != nil {
		t.Fatalf("Relay() error = %v", err)
	}
	if outcome.ResponseText != "" {
		t.Errorf("ResponseText = %q, want empty passthrough", outcome.ResponseText)
	}
}
