package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"flexone-api/internal/contextutil"
	"flexone-api/internal/llm"
	"flexone-api/internal/service"
	"flexone-api/internal/storage"
)

// Per-endpoint max_tokens defaults. The knowledge-base-aware endpoints get a
// larger budget because injected context tends to produce longer answers.
const (
	defaultMaxTokensChat    = 1500
	defaultMaxTokensDetails = 500
	defaultMaxTokensKB      = 1500
	defaultMaxTokensSimple  = 500
)

// ChatHandler handles HTTP requests for the chat endpoints.
type ChatHandler struct {
	relay    service.RelayService
	usage    storage.UsageStore
	markdown goldmark.Markdown
}

// NewChatHandler creates a new ChatHandler. usage may be nil, in which case
// no accounting is recorded.
func NewChatHandler(relay service.RelayService, usage storage.UsageStore) *ChatHandler {
	return &ChatHandler{
		relay: relay,
		usage: usage,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// MessagePayload represents a single conversation message in a request body.
type MessagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the HTTP request payload for the multi-turn chat endpoints.
type ChatRequest struct {
	Messages         []MessagePayload `json:"messages"`
	Model            string           `json:"model,omitempty"`
	Temperature      *float32         `json:"temperature,omitempty"`
	MaxTokens        *int             `json:"max_tokens,omitempty"`
	UseKnowledgeBase *bool            `json:"use_knowledge_base,omitempty"`
	RenderHTML       bool             `json:"render_html,omitempty"`
}

// SingleChatRequest represents the HTTP request payload for the single-turn chat endpoints.
type SingleChatRequest struct {
	Message     string   `json:"message"`
	Model       string   `json:"model,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	UseKB       *bool    `json:"use_kb,omitempty"`
	RenderHTML  bool     `json:"render_html,omitempty"`
}

// ChatResponse represents the HTTP response payload for chat endpoints.
type ChatResponse struct {
	Response          string          `json:"response"`
	ResponseHTML      string          `json:"response_html,omitempty"`
	Model             string          `json:"model"`
	KnowledgeBaseUsed bool            `json:"knowledge_base_used"`
	Usage             *llm.TokenUsage `json:"usage,omitempty"`
}

// Chat handles POST /chat: the primary multi-turn endpoint. The knowledge
// base is injected by default when loaded.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeChatRequest(w, r)
	if !ok {
		return
	}

	useKB := true
	if req.UseKnowledgeBase != nil {
		useKB = *req.UseKnowledgeBase
	}
	h.relayAndRespond(w, r, "/chat", toMessages(req.Messages), service.Params{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   resolveMaxTokens(req.MaxTokens, defaultMaxTokensChat),
	}, useKB, req.RenderHTML, true)
}

// ChatDetails handles POST /chat/details: same body as /chat with the
// original conservative defaults (no knowledge base, 500 tokens).
func (h *ChatHandler) ChatDetails(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeChatRequest(w, r)
	if !ok {
		return
	}

	useKB := false
	if req.UseKnowledgeBase != nil {
		useKB = *req.UseKnowledgeBase
	}
	h.relayAndRespond(w, r, "/chat/details", toMessages(req.Messages), service.Params{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   resolveMaxTokens(req.MaxTokens, defaultMaxTokensDetails),
	}, useKB, req.RenderHTML, true)
}

// ChatKB handles POST /chat/kb: single-turn, always attempts knowledge-base
// injection.
func (h *ChatHandler) ChatKB(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSingleRequest(w, r)
	if !ok {
		return
	}

	h.relayAndRespond(w, r, "/chat/kb", singleTurn(req.Message), service.Params{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   resolveMaxTokens(req.MaxTokens, defaultMaxTokensKB),
	}, true, req.RenderHTML, true)
}

// ChatSimple handles POST /chat/simple: single-turn with optional
// knowledge-base injection and no usage block in the response.
func (h *ChatHandler) ChatSimple(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSingleRequest(w, r)
	if !ok {
		return
	}

	useKB := false
	if req.UseKB != nil {
		useKB = *req.UseKB
	}
	h.relayAndRespond(w, r, "/chat/simple", singleTurn(req.Message), service.Params{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   resolveMaxTokens(req.MaxTokens, defaultMaxTokensSimple),
	}, useKB, req.RenderHTML, false)
}

func (h *ChatHandler) decodeChatRequest(w http.ResponseWriter, r *http.Request) (ChatRequest, bool) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		contextutil.LoggerFromContext(r.Context()).WarnContext(r.Context(), "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return ChatRequest{}, false
	}
	return req, true
}

func (h *ChatHandler) decodeSingleRequest(w http.ResponseWriter, r *http.Request) (SingleChatRequest, bool) {
	var req SingleChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		contextutil.LoggerFromContext(r.Context()).WarnContext(r.Context(), "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return SingleChatRequest{}, false
	}
	return req, true
}

// relayAndRespond runs the shared relay-call-and-respond path for every chat
// endpoint. includeUsage controls whether the provider's token accounting is
// echoed back to the caller.
func (h *ChatHandler) relayAndRespond(w http.ResponseWriter, r *http.Request, endpoint string, messages []llm.Message, params service.Params, useKB, renderHTML, includeUsage bool) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	outcome, err := h.relay.Relay(ctx, messages, params, useKB)
	if err != nil {
		writeRelayError(w, ctx, err)
		return
	}

	h.recordUsage(ctx, endpoint, outcome)

	resp := ChatResponse{
		Response:          outcome.ResponseText,
		Model:             outcome.ModelUsed,
		KnowledgeBaseUsed: outcome.KnowledgeBaseUsed,
	}
	if includeUsage {
		resp.Usage = outcome.Usage
	}
	if renderHTML {
		html, err := h.renderMarkdown(outcome.ResponseText)
		if err != nil {
			logger.WarnContext(ctx, "failed to render reply as HTML", "error", err)
		} else {
			resp.ResponseHTML = html
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// recordUsage is best-effort: a failed write is logged and never fails the
// chat request.
func (h *ChatHandler) recordUsage(ctx context.Context, endpoint string, outcome service.Outcome) {
	if h.usage == nil || outcome.Usage == nil {
		return
	}
	rec := storage.UsageRecord{
		Endpoint:          endpoint,
		Model:             outcome.ModelUsed,
		PromptTokens:      outcome.Usage.PromptTokens,
		CompletionTokens:  outcome.Usage.CompletionTokens,
		TotalTokens:       outcome.Usage.TotalTokens,
		KnowledgeBaseUsed: outcome.KnowledgeBaseUsed,
	}
	if err := h.usage.Record(ctx, rec); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record usage", "endpoint", endpoint, "error", err)
	}
}

func (h *ChatHandler) renderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toMessages(payload []MessagePayload) []llm.Message {
	msgs := make([]llm.Message, 0, len(payload))
	for _, m := range payload {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}
	return msgs
}

func singleTurn(message string) []llm.Message {
	return []llm.Message{{Role: llm.RoleUser, Content: message}}
}

func resolveMaxTokens(requested *int, endpointDefault int) int {
	if requested != nil {
		return *requested
	}
	return endpointDefault
}
