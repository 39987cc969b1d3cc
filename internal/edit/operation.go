// Package edit applies batches of line-range replacements to file content.
//
// Operations address 1-indexed inclusive line ranges of the original file.
// The applier validates every operation against the snapshot it was planned
// for, resolves overlapping ranges with a deterministic policy, and applies
// the survivors in descending start-line order so that no operation ever
// invalidates the line numbers of another.
package edit

import (
	"fmt"
	"strings"
)

// Operation replaces the inclusive line range [StartLine, EndLine] with
// Replacement. An empty Replacement deletes the range.
type Operation struct {
	StartLine   int    `yaml:"start_line"`
	EndLine     int    `yaml:"end_line"`
	Replacement string `yaml:"replacement"`
}

// Range renders the operation's line range for messages.
func (o Operation) Range() string {
	if o.StartLine == o.EndLine {
		return fmt.Sprintf("line %d", o.StartLine)
	}
	return fmt.Sprintf("lines %d-%d", o.StartLine, o.EndLine)
}

func (o Operation) overlaps(other Operation) bool {
	return o.StartLine <= other.EndLine && other.StartLine <= o.EndLine
}

// Snapshot is the line-split content of a file read for one edit cycle.
// It records whether the original content ended with a newline so the
// rendered result can preserve that.
type Snapshot struct {
	lines           []string
	trailingNewline bool
}

// NewSnapshot splits content into lines.
func NewSnapshot(content string) *Snapshot {
	if content == "" {
		return &Snapshot{lines: nil, trailingNewline: false}
	}
	trailing := strings.HasSuffix(content, "\n")
	body := content
	if trailing {
		body = strings.TrimSuffix(body, "\n")
	}
	return &Snapshot{lines: strings.Split(body, "\n"), trailingNewline: trailing}
}

// LineCount returns the number of lines in the snapshot.
func (s *Snapshot) LineCount() int {
	return len(s.lines)
}

// Content renders the original snapshot back to text.
func (s *Snapshot) Content() string {
	return s.render(s.lines)
}

// Numbered renders the snapshot with 1-indexed line numbers for prompts.
func (s *Snapshot) Numbered() string {
	var b strings.Builder
	for i, line := range s.lines {
		fmt.Fprintf(&b, "%4d | %s\n", i+1, line)
	}
	return b.String()
}

func (s *Snapshot) render(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	out := strings.Join(lines, "\n")
	if s.trailingNewline {
		out += "\n"
	}
	return out
}

// replacementLines splits an operation's replacement text into lines.
// Empty replacement means the range is deleted outright.
func replacementLines(replacement string) []string {
	if replacement == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(replacement, "\n"), "\n")
}
