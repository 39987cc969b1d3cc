package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codectl/codectl/internal/config"
	"github.com/codectl/codectl/internal/oracle"
	"github.com/codectl/codectl/internal/workspace"
)

// scriptedOracle replays canned responses; the last one repeats once the
// script runs out.
type scriptedOracle struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
}

func (o *scriptedOracle) Generate(ctx context.Context, model string, messages []oracle.Message) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(messages) > 0 {
		o.prompts = append(o.prompts, messages[len(messages)-1].Content)
	}
	if o.err != nil {
		return "", o.err
	}
	if len(o.responses) == 0 {
		return "", errors.New("script exhausted")
	}
	next := o.responses[0]
	if len(o.responses) > 1 {
		o.responses = o.responses[1:]
	}
	return next, nil
}

func testAgentConfig() config.AgentConfig {
	return config.AgentConfig{
		MaxSteps:           8,
		TranscriptSteps:    5,
		ResultPreviewChars: 200,
		OverlapPolicy:      "reject_lower",
	}
}

func newTestController(t *testing.T, root string, o Oracle) *Controller {
	t.Helper()
	fs, err := workspace.NewFilesystem(root, true, true)
	require.NoError(t, err)
	c, err := NewController(o, fs, testAgentConfig(), "", nil, nil)
	require.NoError(t, err)
	return c
}

func decision(tool, reason, params string) string {
	out := "```yaml\ntool: " + tool + "\nreason: " + reason + "\n"
	if params != "" {
		out += "params:\n" + params
	}
	return out + "```"
}

func TestRunReadThenFinish(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "hello.txt"), []byte("hello world\n"), 0o644))

	o := &scriptedOracle{responses: []string{
		decision("read_file", "inspect the file", "  target_file: hello.txt\n"),
		decision("finish", "task complete", ""),
		"I read hello.txt; it contains a greeting.",
	}}

	c := newTestController(t, root, o)
	s, err := c.Run(context.Background(), "", "what is in hello.txt?", nil)
	require.NoError(t, err)
	require.Equal(t, FinishRequested, s.FinishReason)
	require.Len(t, s.History, 2)
	require.True(t, s.History[0].Result.Success)
	require.Contains(t, s.History[0].Result.Content, "hello world")
	require.Equal(t, "I read hello.txt; it contains a greeting.", s.FinalResponse)
	require.NotEmpty(t, s.ID)
}

func TestRunStepCapForcesSyntheticFinish(t *testing.T) {
	root := t.TempDir()

	o := &scriptedOracle{responses: []string{
		decision("list_dir", "keep exploring", "  relative_workspace_path: .\n"),
	}}

	fs, err := workspace.NewFilesystem(root, true, true)
	require.NoError(t, err)
	cfg := testAgentConfig()
	cfg.MaxSteps = 3
	c, err := NewController(o, fs, cfg, "", nil, nil)
	require.NoError(t, err)

	s, err := c.Run(context.Background(), "", "explore forever", nil)
	require.NoError(t, err)
	require.Equal(t, FinishStepCap, s.FinishReason)
	require.Len(t, s.History, 4)
	require.Equal(t, ToolFinish, s.History[3].Tool)
	require.Contains(t, s.History[3].Reasoning, "step cap of 3")
	require.NotEmpty(t, s.FinalResponse)
}

func TestRunContinuesAfterToolFailure(t *testing.T) {
	root := t.TempDir()

	o := &scriptedOracle{responses: []string{
		decision("read_file", "look at it", "  target_file: missing.txt\n"),
		decision("finish", "nothing to do", ""),
		"The file does not exist.",
	}}

	c := newTestController(t, root, o)
	s, err := c.Run(context.Background(), "", "read missing.txt", nil)
	require.NoError(t, err)
	require.Equal(t, FinishRequested, s.FinishReason)
	require.Len(t, s.History, 2)
	require.False(t, s.History[0].Result.Success)
	require.Contains(t, s.History[0].Result.Error, "not found")

	// The failure surfaced in the next selection prompt.
	require.GreaterOrEqual(t, len(o.prompts), 2)
	require.Contains(t, o.prompts[1], "failed")
}

func TestRunMalformedSelectionDegradesToFinish(t *testing.T) {
	root := t.TempDir()

	o := &scriptedOracle{responses: []string{"I would like to use the hammer tool."}}
	c := newTestController(t, root, o)

	s, err := c.Run(context.Background(), "", "do something", nil)
	require.NoError(t, err)
	require.Equal(t, FinishParse, s.FinishReason)
	require.Len(t, s.History, 1)
	require.Equal(t, ToolFinish, s.History[0].Tool)
	require.NotEmpty(t, s.FinalResponse)
}

func TestRunOracleFailureStillProducesResponse(t *testing.T) {
	root := t.TempDir()

	o := &scriptedOracle{err: errors.New("connection refused")}
	c := newTestController(t, root, o)

	s, err := c.Run(context.Background(), "", "do something", nil)
	require.NoError(t, err)
	require.Equal(t, FinishOracle, s.FinishReason)
	require.NotEmpty(t, s.FinalResponse)
	require.Contains(t, s.FinalResponse, "connection refused")
}

func TestRunEmitsEvents(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "f.txt"), []byte("x\n"), 0o644))

	o := &scriptedOracle{responses: []string{
		decision("read_file", "inspect", "  target_file: f.txt\n"),
		decision("finish", "done", ""),
		"Done.",
	}}

	c := newTestController(t, root, o)
	var events []Event
	_, err := c.Run(context.Background(), "sess-1", "read f.txt", func(ev Event) {
		events = append(events, ev)
	})
	require.NoError(t, err)

	var kinds []EventKind
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	require.Equal(t, []EventKind{EventStepSelected, EventStepResult, EventStepSelected, EventDone}, kinds)
}

func TestRunRequiresQuery(t *testing.T) {
	c := newTestController(t, t.TempDir(), &scriptedOracle{})
	_, err := c.Run(context.Background(), "", "  ", nil)
	require.Error(t, err)
}

func TestRunCanceledContext(t *testing.T) {
	c := newTestController(t, t.TempDir(), &scriptedOracle{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := c.Run(ctx, "", "anything", nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, FinishCanceled, s.FinishReason)
	require.NotEmpty(t, s.FinalResponse)
}

func TestRunDeleteFile(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "old.txt")
	require.NoError(t, os.WriteFile(target, []byte("bye\n"), 0o644))

	o := &scriptedOracle{responses: []string{
		decision("delete_file", "remove obsolete file", "  target_file: old.txt\n"),
		decision("finish", "deleted it", ""),
		"Removed old.txt.",
	}}

	c := newTestController(t, root, o)
	s, err := c.Run(context.Background(), "", "delete old.txt", nil)
	require.NoError(t, err)
	require.True(t, s.History[0].Result.Success)

	_, statErr := os.Stat(target)
	require.True(t, os.IsNotExist(statErr))
}
