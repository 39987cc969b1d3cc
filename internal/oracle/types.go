package oracle

import (
	"context"
	"errors"
)

// Role is the message role used in completion exchanges.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message sent to the oracle.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is the input for oracle providers.
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Usage captures token accounting.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is the result of a completion. The content is untrusted text;
// callers must validate any structure they expect before acting on it.
type Response struct {
	Content      string
	FinishReason string
	Usage        Usage
	ProviderName string
	Model        string
}

// Provider defines the contract for oracle backends.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (Response, error)
}

// TransportError is a provider failure annotated with retryability.
// Network-level failures and throttling/server statuses are retryable;
// client errors such as invalid credentials are not.
type TransportError struct {
	Retryable bool
	Err       error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a transient transport failure.
func IsRetryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Retryable
}

func retryableStatus(code int) bool {
	return code == 429 || code >= 500
}
