package agent

import (
	"context"
	"fmt"

	"github.com/codectl/codectl/internal/workspace"
)

// dispatch executes one tool step. The switch is exhaustive over the
// closed parameter union; every failure becomes a failed ToolResult
// rather than an error so the loop keeps running.
func (c *Controller) dispatch(ctx context.Context, step *Step) *ToolResult {
	switch p := step.Params.(type) {
	case ReadFileParams:
		return c.execReadFile(p)
	case EditFileParams:
		return c.runEditCycle(ctx, p)
	case DeleteFileParams:
		return c.execDeleteFile(p)
	case GrepSearchParams:
		return c.execGrepSearch(p)
	case ListDirParams:
		return c.execListDir(p)
	case FinishParams:
		return &ToolResult{Success: true}
	}
	return failedResult(fmt.Sprintf("no handler for tool %q", step.Tool))
}

func (c *Controller) execReadFile(p ReadFileParams) *ToolResult {
	content, err := c.fs.ReadFile(p.TargetFile)
	if err != nil {
		return failedResult(workspace.DescribeError(err))
	}
	return &ToolResult{Success: true, Content: content}
}

func (c *Controller) execDeleteFile(p DeleteFileParams) *ToolResult {
	if err := c.fs.DeleteFile(p.TargetFile); err != nil {
		return failedResult(workspace.DescribeError(err))
	}
	return &ToolResult{Success: true, Message: fmt.Sprintf("deleted %s", p.TargetFile)}
}

func (c *Controller) execGrepSearch(p GrepSearchParams) *ToolResult {
	matches, err := c.fs.Search(p.Query, workspace.SearchOptions{
		CaseSensitive: p.CaseSensitive,
		IncludeGlob:   p.IncludePattern,
		ExcludeGlob:   p.ExcludePattern,
	})
	if err != nil {
		return failedResult(err.Error())
	}
	return &ToolResult{Success: true, Matches: matches}
}

func (c *Controller) execListDir(p ListDirParams) *ToolResult {
	tree, err := c.fs.Tree(p.Path)
	if err != nil {
		return failedResult(workspace.DescribeError(err))
	}
	return &ToolResult{Success: true, Tree: tree}
}
