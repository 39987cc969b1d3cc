package edit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// OverlapPolicy decides which of two overlapping operations is rejected.
type OverlapPolicy string

const (
	// RejectLower drops the operation with the lower start line. Top-of-file
	// edits are likelier to be incidental context in model output, so this
	// is the default. A heuristic, not a correctness requirement.
	RejectLower OverlapPolicy = "reject_lower"
	// RejectHigher drops the operation with the higher start line.
	RejectHigher OverlapPolicy = "reject_higher"
)

// ParsePolicy maps a config string to a policy, defaulting to RejectLower.
func ParsePolicy(s string) (OverlapPolicy, error) {
	switch OverlapPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RejectLower:
		return RejectLower, nil
	case RejectHigher:
		return RejectHigher, nil
	default:
		return "", fmt.Errorf("unknown overlap policy %q", s)
	}
}

// Detail reports the outcome of one operation in a batch.
type Detail struct {
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Applied   bool   `json:"applied"`
	Message   string `json:"message"`
}

// Report aggregates a batch's outcome. Every attempted operation appears in
// Details; failures are never silently dropped.
type Report struct {
	Attempted int      `json:"attempted"`
	Succeeded int      `json:"succeeded"`
	Details   []Detail `json:"details"`
	Diff      string   `json:"diff,omitempty"`
}

// Changed reports whether any operation was applied.
func (r Report) Changed() bool {
	return r.Succeeded > 0
}

// Summary renders a one-line outcome for transcripts.
func (r Report) Summary() string {
	return fmt.Sprintf("%d/%d edits applied", r.Succeeded, r.Attempted)
}

// Applier validates and applies operation batches against a snapshot.
type Applier struct {
	Policy OverlapPolicy
}

// Apply resolves conflicts and applies the surviving operations, returning
// the new content and a per-operation report. When no operation survives,
// the returned content is byte-identical to the snapshot's original.
//
// Operations are applied in descending order of start line: replacing a
// range lower in the file first never shifts the line numbers of ranges
// still pending above it, so every operation's declared lines stay valid
// against the original snapshot throughout the batch.
func (a Applier) Apply(snap *Snapshot, ops []Operation) (string, Report) {
	report := Report{Attempted: len(ops), Details: make([]Detail, len(ops))}
	rejected := make([]bool, len(ops))

	total := snap.LineCount()
	for i, op := range ops {
		detail := &report.Details[i]
		detail.StartLine, detail.EndLine = op.StartLine, op.EndLine

		switch {
		case op.StartLine < 1:
			rejected[i] = true
			detail.Message = fmt.Sprintf("start_line %d is out of range (1-%d)", op.StartLine, total)
		case op.EndLine > total:
			rejected[i] = true
			detail.Message = fmt.Sprintf("end_line %d is out of range (1-%d)", op.EndLine, total)
		case op.StartLine > op.EndLine:
			rejected[i] = true
			detail.Message = fmt.Sprintf("start_line %d is greater than end_line %d", op.StartLine, op.EndLine)
		}
	}

	// Pairwise overlap check among the operations still in play. The loser
	// is picked by policy; equal start lines fall back to batch order.
	for i := 0; i < len(ops); i++ {
		if rejected[i] {
			continue
		}
		for j := i + 1; j < len(ops); j++ {
			if rejected[j] {
				continue
			}
			if !ops[i].overlaps(ops[j]) {
				continue
			}
			victim, survivor := a.pickVictim(i, j, ops)
			rejected[victim] = true
			report.Details[victim].Message = fmt.Sprintf(
				"conflicts with edit at %s", ops[survivor].Range())
			if victim == i {
				break
			}
		}
	}

	lines := append([]string(nil), snap.lines...)
	order := make([]int, 0, len(ops))
	for i := range ops {
		if !rejected[i] {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(x, y int) bool {
		return ops[order[x]].StartLine > ops[order[y]].StartLine
	})

	for _, i := range order {
		op := ops[i]
		repl := replacementLines(op.Replacement)
		updated := make([]string, 0, len(lines)-(op.EndLine-op.StartLine+1)+len(repl))
		updated = append(updated, lines[:op.StartLine-1]...)
		updated = append(updated, repl...)
		updated = append(updated, lines[op.EndLine:]...)
		lines = updated

		report.Details[i].Applied = true
		report.Details[i].Message = fmt.Sprintf("replaced %s", op.Range())
		report.Succeeded++
	}

	if report.Succeeded == 0 {
		return snap.Content(), report
	}

	content := snap.render(lines)
	report.Diff = renderDiff(snap.Content(), content)
	return content, report
}

func (a Applier) pickVictim(i, j int, ops []Operation) (victim, survivor int) {
	lower, higher := i, j
	if ops[j].StartLine < ops[i].StartLine {
		lower, higher = j, i
	}
	if a.Policy == RejectHigher {
		return higher, lower
	}
	return lower, higher
}

// renderDiff produces a compact patch of the change for the edit report.
func renderDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	patches := dmp.PatchMake(before, after)
	if len(patches) == 0 {
		return ""
	}
	return dmp.PatchToText(patches)
}
