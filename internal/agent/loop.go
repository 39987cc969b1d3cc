package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codectl/codectl/internal/config"
	"github.com/codectl/codectl/internal/edit"
	"github.com/codectl/codectl/internal/observability"
	"github.com/codectl/codectl/internal/oracle"
	"github.com/codectl/codectl/internal/workspace"
)

// Oracle is the narrow surface the loop needs from the completion layer.
type Oracle interface {
	Generate(ctx context.Context, model string, messages []oracle.Message) (string, error)
}

// Controller drives the selection/dispatch state machine. One Step is
// executed fully before the next begins; there is no parallelism.
type Controller struct {
	oracle  Oracle
	fs      *workspace.Filesystem
	applier edit.Applier
	cfg     config.AgentConfig
	model   string
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewController builds a controller. metrics may be nil.
func NewController(o Oracle, fs *workspace.Filesystem, cfg config.AgentConfig, model string, logger *zap.Logger, metrics *observability.Metrics) (*Controller, error) {
	if o == nil {
		return nil, fmt.Errorf("oracle is required")
	}
	if fs == nil {
		return nil, fmt.Errorf("filesystem is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	policy, err := edit.ParsePolicy(cfg.OverlapPolicy)
	if err != nil {
		return nil, err
	}

	return &Controller{
		oracle:  o,
		fs:      fs,
		applier: edit.Applier{Policy: policy},
		cfg:     cfg,
		model:   model,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Run executes the loop for one query until a finish step, the step cap,
// or an unrecoverable oracle failure. The returned session always carries
// a final response.
func (c *Controller) Run(ctx context.Context, sessionID, query string, sink EventSink) (*Session, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	s := &Session{
		ID:          sessionID,
		Query:       query,
		WorkingRoot: c.fs.Root(),
		StartedAt:   time.Now(),
	}

	c.logger.Info("starting agent session",
		zap.String("session_id", s.ID),
		zap.String("working_root", s.WorkingRoot))

	for {
		if err := ctx.Err(); err != nil {
			c.finish(ctx, s, sink, FinishCanceled, "run canceled before completion")
			return s, err
		}

		if len(s.History) >= c.maxSteps() {
			c.logger.Warn("step cap reached", zap.String("session_id", s.ID), zap.Int("cap", c.maxSteps()))
			c.finish(ctx, s, sink, FinishStepCap,
				fmt.Sprintf("stopping: step cap of %d reached before the task completed", c.maxSteps()))
			return s, nil
		}

		prompt := buildDecisionPrompt(s, c.cfg.TranscriptSteps, c.cfg.ResultPreviewChars)
		raw, err := c.oracle.Generate(ctx, c.model, []oracle.Message{{Role: oracle.RoleUser, Content: prompt}})
		if err != nil {
			c.logger.Error("tool selection failed", zap.String("session_id", s.ID), zap.Error(err))
			c.finish(ctx, s, sink, FinishOracle,
				"stopping: the decision service is unavailable: "+err.Error())
			return s, nil
		}

		outcome := ParseDecision(raw)
		if outcome.Malformed {
			c.logger.Warn("malformed tool selection",
				zap.String("session_id", s.ID),
				zap.String("diagnostic", outcome.Diagnostic))
			c.finish(ctx, s, sink, FinishParse,
				"stopping: could not understand the planned next step ("+outcome.Diagnostic+")")
			return s, nil
		}

		d := outcome.Decision
		step := &Step{Tool: d.Tool, Reasoning: d.Reasoning, Params: d.Params, StartedAt: time.Now()}
		s.History = append(s.History, step)
		emit(sink, Event{Kind: EventStepSelected, Step: len(s.History), Tool: d.Tool, Reasoning: d.Reasoning})

		if d.Tool == ToolFinish {
			step.Result = &ToolResult{Success: true}
			c.complete(ctx, s, sink, FinishRequested, d.Reasoning)
			return s, nil
		}

		result := c.dispatch(ctx, step)
		step.Result = result

		outcomeLabel := "success"
		if !result.Success {
			outcomeLabel = "failure"
		}
		c.metrics.RecordStep(string(step.Tool), outcomeLabel)
		c.logger.Info("step dispatched",
			zap.String("session_id", s.ID),
			zap.String("tool", string(step.Tool)),
			zap.Bool("success", result.Success))

		emit(sink, Event{
			Kind:    EventStepResult,
			Step:    len(s.History),
			Tool:    step.Tool,
			Success: result.Success,
			Detail:  truncate(summarizeResult(step), c.cfg.ResultPreviewChars),
		})
	}
}

// finish appends a synthetic finish step and completes the session.
func (c *Controller) finish(ctx context.Context, s *Session, sink EventSink, reason, diagnostic string) {
	step := &Step{
		Tool:      ToolFinish,
		Reasoning: diagnostic,
		Params:    FinishParams{},
		Result:    &ToolResult{Success: true},
		StartedAt: time.Now(),
	}
	s.History = append(s.History, step)
	c.complete(ctx, s, sink, reason, diagnostic)
}

// complete renders the final response and records run metrics.
func (c *Controller) complete(ctx context.Context, s *Session, sink EventSink, reason, rationale string) {
	s.FinishReason = reason
	s.FinalResponse = c.renderFinalResponse(ctx, s, rationale)
	c.metrics.RecordRun(reason, time.Since(s.StartedAt))

	c.logger.Info("session finished",
		zap.String("session_id", s.ID),
		zap.String("finish_reason", reason),
		zap.Int("steps", len(s.History)))

	emit(sink, Event{Kind: EventDone, Step: len(s.History), Tool: ToolFinish, Detail: reason})
}

func (c *Controller) maxSteps() int {
	if c.cfg.MaxSteps > 0 {
		return c.cfg.MaxSteps
	}
	return 16
}

func emit(sink EventSink, ev Event) {
	if sink != nil {
		sink(ev)
	}
}
