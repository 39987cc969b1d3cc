package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/codectl/codectl/internal/oracle"
)

// Provider implements a client for a local Ollama server.
type Provider struct {
	name    string
	client  *http.Client
	baseURL string
}

// NewProvider constructs an Ollama provider.
func NewProvider(name, baseURL string, timeout time.Duration) *Provider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &Provider{
		name:    name,
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name returns provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Complete executes a non-streaming chat request against /api/chat.
func (p *Provider) Complete(ctx context.Context, req oracle.Request) (oracle.Response, error) {
	if req.Model == "" {
		return oracle.Response{}, fmt.Errorf("model is required")
	}

	body := chatRequest{
		Model:    req.Model,
		Messages: toWireMessages(req.Messages),
		Stream:   false,
	}
	if req.Temperature > 0 {
		body.Options.Temperature = req.Temperature
	}
	if req.MaxTokens > 0 {
		body.Options.NumPredict = req.MaxTokens
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return oracle.Response{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return oracle.Response{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(httpReq)
	if err != nil {
		return oracle.Response{}, &oracle.TransportError{Retryable: true, Err: fmt.Errorf("send request: %w", err)}
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return oracle.Response{}, &oracle.TransportError{
			Retryable: retryableStatus(res.StatusCode),
			Err:       fmt.Errorf("ollama: status %d: %s", res.StatusCode, string(b)),
		}
	}

	var resp chatResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return oracle.Response{}, fmt.Errorf("decode response: %w", err)
	}

	finish := "stop"
	if !resp.Done {
		finish = "length"
	}

	return oracle.Response{
		Content:      resp.Message.Content,
		FinishReason: finish,
		Usage: oracle.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
		ProviderName: p.name,
		Model:        req.Model,
	}, nil
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  struct {
		Temperature float64 `json:"temperature,omitempty"`
		NumPredict  int     `json:"num_predict,omitempty"`
	} `json:"options,omitempty"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message         wireMessage `json:"message"`
	Done            bool        `json:"done"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
}

func toWireMessages(msgs []oracle.Message) []wireMessage {
	out := make([]wireMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, wireMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}
