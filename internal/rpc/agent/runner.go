// Package agent exposes the decision loop over the daemon transports.
package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/codectl/codectl/internal/agent"
	"github.com/codectl/codectl/internal/config"
	"github.com/codectl/codectl/internal/observability"
	"github.com/codectl/codectl/internal/rpc"
	"github.com/codectl/codectl/internal/workspace"
)

// Runner executes a task and yields streamed events.
type Runner interface {
	Run(ctx context.Context, req rpc.RunTaskRequest) (<-chan rpc.RunTaskEvent, error)
}

// LoopRunner bridges RunTask requests to the decision loop. Each request
// gets a fresh controller scoped to its working directory.
type LoopRunner struct {
	Oracle  agent.Oracle
	Cfg     *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// Run starts the loop in a goroutine and streams its progress events.
// Setup failures are returned synchronously; anything after that is
// reported on the event channel.
func (r *LoopRunner) Run(ctx context.Context, req rpc.RunTaskRequest) (<-chan rpc.RunTaskEvent, error) {
	if r.Oracle == nil || r.Cfg == nil {
		return nil, fmt.Errorf("runner is not configured")
	}

	root := req.WorkingDir
	if root == "" {
		root = r.Cfg.Sandbox.WorkingDir
	}

	fs, err := workspace.NewFilesystem(root, r.Cfg.Sandbox.AllowWrite, r.Cfg.Sandbox.AllowDelete)
	if err != nil {
		return nil, fmt.Errorf("open working directory: %w", err)
	}

	ctrl, err := agent.NewController(r.Oracle, fs, r.Cfg.Agent, req.Model, r.Logger, r.Metrics)
	if err != nil {
		return nil, err
	}

	out := make(chan rpc.RunTaskEvent, 16)
	go func() {
		defer close(out)

		sink := func(ev agent.Event) {
			wire, ok := toWireEvent(req.SessionID, ev)
			if !ok {
				return
			}
			select {
			case out <- wire:
			case <-ctx.Done():
			}
		}

		session, runErr := ctrl.Run(ctx, req.SessionID, req.Query, sink)
		if session == nil {
			out <- rpc.RunTaskEvent{Type: "error", SessionID: req.SessionID, Error: runErr.Error()}
			return
		}

		done := rpc.RunTaskEvent{
			Type:         "done",
			SessionID:    session.ID,
			Step:         len(session.History),
			Done:         true,
			FinishReason: session.FinishReason,
			Response:     session.FinalResponse,
		}
		if runErr != nil {
			done.Error = runErr.Error()
		}
		select {
		case out <- done:
		case <-ctx.Done():
		}
	}()
	return out, nil
}

// toWireEvent converts loop events to wire events. The loop's done event
// is suppressed; the runner emits its own carrying the final response.
func toWireEvent(sessionID string, ev agent.Event) (rpc.RunTaskEvent, bool) {
	switch ev.Kind {
	case agent.EventStepSelected:
		return rpc.RunTaskEvent{
			Type:      "step",
			SessionID: sessionID,
			Step:      ev.Step,
			Tool:      string(ev.Tool),
			Reasoning: ev.Reasoning,
		}, true
	case agent.EventStepResult:
		return rpc.RunTaskEvent{
			Type:      "result",
			SessionID: sessionID,
			Step:      ev.Step,
			Tool:      string(ev.Tool),
			Success:   ev.Success,
			Detail:    ev.Detail,
		}, true
	}
	return rpc.RunTaskEvent{}, false
}
