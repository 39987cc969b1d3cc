// Package mock provides a scriptable oracle provider for tests.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/codectl/codectl/internal/oracle"
)

// Provider is a test double. Either set CompleteFn for full control or
// enqueue canned responses with Enqueue; queued responses are consumed
// in FIFO order.
type Provider struct {
	ProviderName string
	CompleteFn   func(ctx context.Context, req oracle.Request) (oracle.Response, error)

	mu       sync.Mutex
	queue    []result
	Requests []oracle.Request
}

type result struct {
	resp oracle.Response
	err  error
}

// New returns an empty mock provider named "mock".
func New() *Provider {
	return &Provider{ProviderName: "mock"}
}

// Enqueue adds a successful canned response.
func (p *Provider) Enqueue(content string) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, result{resp: oracle.Response{Content: content, FinishReason: "stop", ProviderName: p.ProviderName}})
	return p
}

// EnqueueError adds a canned failure.
func (p *Provider) EnqueueError(err error) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, result{err: err})
	return p
}

func (p *Provider) Name() string {
	return p.ProviderName
}

func (p *Provider) Complete(ctx context.Context, req oracle.Request) (oracle.Response, error) {
	p.mu.Lock()
	p.Requests = append(p.Requests, req)
	if p.CompleteFn != nil {
		fn := p.CompleteFn
		p.mu.Unlock()
		return fn(ctx, req)
	}

	if len(p.queue) == 0 {
		p.mu.Unlock()
		return oracle.Response{}, fmt.Errorf("mock: no scripted response for request %d", len(p.Requests))
	}

	next := p.queue[0]
	p.queue = p.queue[1:]
	p.mu.Unlock()

	return next.resp, next.err
}

// CallCount reports how many completions were requested.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Requests)
}
