package oracle

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Metrics is the narrow observability surface the adapter reports to.
type Metrics interface {
	RecordOracleRequest(provider, outcome string)
	RecordOracleRetry(provider string)
}

type nopMetrics struct{}

func (nopMetrics) RecordOracleRequest(string, string) {}
func (nopMetrics) RecordOracleRetry(string)           {}

// Adapter resolves models through a registry and retries transient
// transport failures with exponential backoff. Only errors marked
// retryable are retried; oracle output is returned verbatim.
type Adapter struct {
	registry   *Registry
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
	metrics    Metrics
}

// NewAdapter builds an adapter. maxRetries counts attempts after the
// first; backoff is the initial delay, doubled per retry.
func NewAdapter(registry *Registry, maxRetries int, backoff time.Duration, logger *zap.Logger, metrics Metrics) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &Adapter{
		registry:   registry,
		maxRetries: maxRetries,
		backoff:    backoff,
		logger:     logger,
		metrics:    metrics,
	}
}

// Generate sends the messages to the model (default if empty) and
// returns the raw completion text.
func (a *Adapter) Generate(ctx context.Context, model string, messages []Message) (string, error) {
	provider, route, err := a.registry.Resolve(model)
	if err != nil {
		return "", err
	}

	req := Request{
		Model:       route.Model,
		Messages:    messages,
		MaxTokens:   route.MaxTokens,
		Temperature: route.Temperature,
	}

	var lastErr error
	delay := a.backoff

	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			a.metrics.RecordOracleRetry(provider.Name())
			a.logger.Warn("retrying oracle request",
				zap.String("provider", provider.Name()),
				zap.String("model", route.Model),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", delay),
				zap.Error(lastErr))

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		resp, err := provider.Complete(ctx, req)
		if err == nil {
			a.metrics.RecordOracleRequest(provider.Name(), "success")
			a.logger.Debug("oracle request completed",
				zap.String("provider", provider.Name()),
				zap.String("model", route.Model),
				zap.String("finish_reason", resp.FinishReason),
				zap.Int("total_tokens", resp.Usage.TotalTokens))
			return resp.Content, nil
		}

		lastErr = err
		if !IsRetryable(err) {
			a.metrics.RecordOracleRequest(provider.Name(), "error")
			return "", err
		}
	}

	a.metrics.RecordOracleRequest(provider.Name(), "error")
	return "", fmt.Errorf("oracle request failed after %d attempts: %w", a.maxRetries+1, lastErr)
}
