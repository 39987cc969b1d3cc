// Package agent implements the decision loop that turns a natural-language
// request into a bounded sequence of sandboxed file operations.
package agent

import (
	"time"

	"github.com/codectl/codectl/internal/edit"
	"github.com/codectl/codectl/internal/workspace"
)

// ToolName identifies one of the fixed set of operations the loop can dispatch.
type ToolName string

const (
	ToolReadFile   ToolName = "read_file"
	ToolEditFile   ToolName = "edit_file"
	ToolDeleteFile ToolName = "delete_file"
	ToolGrepSearch ToolName = "grep_search"
	ToolListDir    ToolName = "list_dir"
	ToolFinish     ToolName = "finish"
)

// Valid reports whether the name belongs to the closed tool set.
func (t ToolName) Valid() bool {
	switch t {
	case ToolReadFile, ToolEditFile, ToolDeleteFile, ToolGrepSearch, ToolListDir, ToolFinish:
		return true
	}
	return false
}

// ToolParams is the closed union of per-tool parameter structs.
type ToolParams interface {
	tool() ToolName
}

// ReadFileParams are parameters for read_file.
type ReadFileParams struct {
	TargetFile  string
	Explanation string
}

// EditFileParams are parameters for edit_file.
type EditFileParams struct {
	TargetFile   string
	Instructions string
	CodeEdit     string
}

// DeleteFileParams are parameters for delete_file.
type DeleteFileParams struct {
	TargetFile  string
	Explanation string
}

// GrepSearchParams are parameters for grep_search.
type GrepSearchParams struct {
	Query          string
	CaseSensitive  bool
	IncludePattern string
	ExcludePattern string
	Explanation    string
}

// ListDirParams are parameters for list_dir.
type ListDirParams struct {
	Path        string
	Explanation string
}

// FinishParams are parameters for finish.
type FinishParams struct{}

func (ReadFileParams) tool() ToolName   { return ToolReadFile }
func (EditFileParams) tool() ToolName   { return ToolEditFile }
func (DeleteFileParams) tool() ToolName { return ToolDeleteFile }
func (GrepSearchParams) tool() ToolName { return ToolGrepSearch }
func (ListDirParams) tool() ToolName    { return ToolListDir }
func (FinishParams) tool() ToolName     { return ToolFinish }

// ToolResult carries either a success payload or an error message, never both.
type ToolResult struct {
	Success bool
	Error   string

	Content    string            // read_file
	Matches    []workspace.Match // grep_search
	Tree       string            // list_dir
	Message    string            // delete_file
	EditReport *edit.Report      // edit_file
}

func failedResult(msg string) *ToolResult {
	return &ToolResult{Success: false, Error: msg}
}

// Step is one loop iteration: a tool selection plus its execution result.
// Result stays nil only until dispatch for that step completes.
type Step struct {
	Tool      ToolName
	Reasoning string
	Params    ToolParams
	Result    *ToolResult
	StartedAt time.Time
}

// Finish reasons recorded on completed sessions.
const (
	FinishRequested = "finish"
	FinishStepCap   = "step_cap"
	FinishParse     = "parse_error"
	FinishOracle    = "oracle_error"
	FinishCanceled  = "canceled"
)

// Session is the mutable state threaded through one loop invocation.
// It is created per query and discarded after the final response renders.
type Session struct {
	ID            string
	Query         string
	WorkingRoot   string
	History       []*Step
	FinalResponse string
	FinishReason  string
	StartedAt     time.Time
}

// EventKind classifies loop progress events.
type EventKind string

const (
	EventStepSelected EventKind = "step_selected"
	EventStepResult   EventKind = "step_result"
	EventDone         EventKind = "done"
)

// Event is a progress notification emitted while the loop runs.
type Event struct {
	Kind      EventKind
	Step      int
	Tool      ToolName
	Reasoning string
	Success   bool
	Detail    string
}

// EventSink receives progress events. A nil sink disables reporting.
type EventSink func(Event)
