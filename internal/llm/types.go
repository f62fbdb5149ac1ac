package llm

// Message roles accepted in a conversation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request holds a fully resolved chat completion request: every field is
// expected to be set by the caller (defaults are applied upstream).
type Request struct {
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// TokenUsage holds the provider-reported token counts for one completion.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is the mapped outcome of a successful chat completion.
// Content is empty when the provider returned no choices. Usage is nil when
// the provider omitted token accounting entirely; an explicit nil is
// distinguishable from a reported zero count.
type Result struct {
	Content string
	Model   string
	Usage   *TokenUsage
}
