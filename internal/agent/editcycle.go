package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/codectl/codectl/internal/edit"
	"github.com/codectl/codectl/internal/oracle"
	"github.com/codectl/codectl/internal/workspace"
)

// runEditCycle executes the READ, ANALYZE, APPLY pipeline for one
// edit_file step. The snapshot lives only for the duration of the cycle.
func (c *Controller) runEditCycle(ctx context.Context, p EditFileParams) *ToolResult {
	content, err := c.fs.ReadFile(p.TargetFile)
	if err != nil {
		return failedResult("read target: " + workspace.DescribeError(err))
	}
	snap := edit.NewSnapshot(content)

	prompt := buildEditPlanPrompt(snap.Numbered(), p.Instructions, p.CodeEdit)
	raw, err := c.oracle.Generate(ctx, c.model, []oracle.Message{{Role: oracle.RoleUser, Content: prompt}})
	if err != nil {
		return failedResult("edit planning failed: " + err.Error())
	}

	ops, dropped := ParseEditPlan(raw)
	for _, reason := range dropped {
		c.logger.Warn("dropping malformed edit operation",
			zap.String("target_file", p.TargetFile),
			zap.String("reason", reason))
	}
	if len(ops) == 0 {
		return failedResult("the edit plan contained no valid operations")
	}

	newContent, report := c.applier.Apply(snap, ops)
	c.metrics.RecordEditOps(report.Succeeded, report.Attempted-report.Succeeded)

	if report.Changed() {
		if err := c.fs.WriteFile(p.TargetFile, newContent); err != nil {
			return failedResult("write target: " + workspace.DescribeError(err))
		}
	}

	res := &ToolResult{Success: report.Succeeded > 0, EditReport: &report}
	if !res.Success {
		res.Error = "all edit operations were rejected"
	}
	return res
}
