package agent

import (
	"strings"
	"testing"
	"time"
)

func TestDeterministicSummaryListsSteps(t *testing.T) {
	s := &Session{
		Query: "tidy the repo",
		History: []*Step{
			{Tool: ToolListDir, Reasoning: "get an overview", Result: &ToolResult{Success: true, Tree: "x"}, StartedAt: time.Now()},
			{Tool: ToolDeleteFile, Reasoning: "remove junk", Result: &ToolResult{Success: false, Error: "file not found"}, StartedAt: time.Now()},
			{Tool: ToolFinish, Reasoning: "done", Result: &ToolResult{Success: true}, StartedAt: time.Now()},
		},
	}

	out := deterministicSummary(s, "stopping: all done")
	if !strings.HasPrefix(out, "stopping: all done") {
		t.Fatalf("expected rationale first, got %q", out)
	}
	if !strings.Contains(out, "Performed 3 step(s)") {
		t.Fatalf("missing step count: %q", out)
	}
	if !strings.Contains(out, "delete_file [failed]") || !strings.Contains(out, "(file not found)") {
		t.Fatalf("missing failure detail: %q", out)
	}
}

func TestDeterministicSummaryWithoutRationale(t *testing.T) {
	s := &Session{Query: "q", History: []*Step{}}
	out := deterministicSummary(s, "")
	if !strings.Contains(out, "Performed 0 step(s)") {
		t.Fatalf("unexpected summary: %q", out)
	}
}

func TestBuildTranscriptTruncatesAndLimits(t *testing.T) {
	var history []*Step
	for i := 0; i < 8; i++ {
		history = append(history, &Step{
			Tool:      ToolReadFile,
			Reasoning: "step",
			Result:    &ToolResult{Success: true, Content: strings.Repeat("a", 500)},
		})
	}

	out := buildTranscript(history, 3, 50)
	if strings.Count(out, "read_file") != 3 {
		t.Fatalf("expected 3 transcript entries, got: %q", out)
	}
	if strings.Contains(out, strings.Repeat("a", 100)) {
		t.Fatalf("result preview not truncated")
	}
}
