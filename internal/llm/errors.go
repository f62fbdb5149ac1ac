package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	openai "github.com/sashabaranov/go-openai"
)

// ErrorKind classifies a provider failure. The mapping from provider-specific
// errors to kinds happens once, in mapProviderError; callers switch on Kind
// instead of inspecting provider types.
type ErrorKind int

const (
	// KindUnknown covers failures that fit no other category.
	KindUnknown ErrorKind = iota
	// KindAuth means the provider rejected the credential.
	KindAuth
	// KindRateLimited means the provider throttled the request.
	KindRateLimited
	// KindInvalidRequest means the provider rejected the request parameters.
	KindInvalidRequest
	// KindNetwork means the provider could not be reached or the call timed out.
	KindNetwork
	// KindProviderStatus means the provider returned some other non-2xx status.
	KindProviderStatus
)

// String returns a short label for the kind, used in logs.
func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "authentication_failure"
	case KindRateLimited:
		return "rate_limited"
	case KindInvalidRequest:
		return "invalid_request"
	case KindNetwork:
		return "network_failure"
	case KindProviderStatus:
		return "provider_status_error"
	default:
		return "unknown_failure"
	}
}

// Error is a typed provider failure. StatusCode is the provider's HTTP status
// when one was received, zero otherwise.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("llm: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("llm: %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// mapProviderError converts an error from the go-openai client into a typed
// *Error. It never returns nil for a non-nil input.
func mapProviderError(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	// Transport-level failures surface as *url.Error (which also wraps
	// context deadline expiry from the client timeout).
	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindNetwork, Message: "provider unreachable", Err: err}
	}

	return &Error{Kind: KindUnknown, Message: "unexpected provider failure", Err: err}
}

func classifyStatus(status int, message string, err error) *Error {
	e := &Error{StatusCode: status, Message: message, Err: err}
	switch status {
	case http.StatusUnauthorized:
		e.Kind = KindAuth
	case http.StatusTooManyRequests:
		e.Kind = KindRateLimited
	case http.StatusBadRequest:
		e.Kind = KindInvalidRequest
	default:
		e.Kind = KindProviderStatus
	}
	return e
}
