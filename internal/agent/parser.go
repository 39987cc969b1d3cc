package agent

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codectl/codectl/internal/edit"
)

// Decision is a validated tool selection parsed from oracle output.
type Decision struct {
	Tool      ToolName
	Reasoning string
	Params    ToolParams
}

// DecisionOutcome tags the parse result: either a usable Decision or a
// Malformed marker with a diagnostic. Callers must not guess a tool on
// malformed output; the loop degrades to finish instead.
type DecisionOutcome struct {
	Decision   Decision
	Malformed  bool
	Diagnostic string
}

func malformed(format string, args ...any) DecisionOutcome {
	return DecisionOutcome{Malformed: true, Diagnostic: fmt.Sprintf(format, args...)}
}

type wireDecision struct {
	Tool   string     `yaml:"tool"`
	Reason string     `yaml:"reason"`
	Params wireParams `yaml:"params"`
}

type wireParams struct {
	TargetFile     string `yaml:"target_file"`
	Explanation    string `yaml:"explanation"`
	Instructions   string `yaml:"instructions"`
	CodeEdit       string `yaml:"code_edit"`
	Query          string `yaml:"query"`
	CaseSensitive  bool   `yaml:"case_sensitive"`
	IncludePattern string `yaml:"include_pattern"`
	ExcludePattern string `yaml:"exclude_pattern"`
	WorkspacePath  string `yaml:"relative_workspace_path"`
}

// ParseDecision extracts the fenced YAML block from raw oracle output and
// validates it against the closed tool set.
func ParseDecision(raw string) DecisionOutcome {
	block, ok := extractYAMLBlock(raw)
	if !ok {
		return malformed("no fenced yaml block in oracle output")
	}

	var wd wireDecision
	if err := yaml.Unmarshal([]byte(block), &wd); err != nil {
		return malformed("invalid yaml in tool selection: %v", err)
	}

	tool := ToolName(strings.TrimSpace(wd.Tool))
	if !tool.Valid() {
		return malformed("unknown tool %q", wd.Tool)
	}

	params, err := typedParams(tool, wd.Params)
	if err != nil {
		return malformed("invalid parameters for %s: %v", tool, err)
	}

	return DecisionOutcome{Decision: Decision{
		Tool:      tool,
		Reasoning: strings.TrimSpace(wd.Reason),
		Params:    params,
	}}
}

// typedParams converts wire parameters into the tool's typed struct,
// checking required fields.
func typedParams(tool ToolName, p wireParams) (ToolParams, error) {
	switch tool {
	case ToolReadFile:
		if p.TargetFile == "" {
			return nil, fmt.Errorf("target_file is required")
		}
		return ReadFileParams{TargetFile: p.TargetFile, Explanation: p.Explanation}, nil
	case ToolEditFile:
		if p.TargetFile == "" {
			return nil, fmt.Errorf("target_file is required")
		}
		if strings.TrimSpace(p.Instructions) == "" {
			return nil, fmt.Errorf("instructions are required")
		}
		return EditFileParams{TargetFile: p.TargetFile, Instructions: p.Instructions, CodeEdit: p.CodeEdit}, nil
	case ToolDeleteFile:
		if p.TargetFile == "" {
			return nil, fmt.Errorf("target_file is required")
		}
		return DeleteFileParams{TargetFile: p.TargetFile, Explanation: p.Explanation}, nil
	case ToolGrepSearch:
		if p.Query == "" {
			return nil, fmt.Errorf("query is required")
		}
		return GrepSearchParams{
			Query:          p.Query,
			CaseSensitive:  p.CaseSensitive,
			IncludePattern: p.IncludePattern,
			ExcludePattern: p.ExcludePattern,
			Explanation:    p.Explanation,
		}, nil
	case ToolListDir:
		path := p.WorkspacePath
		if path == "" {
			path = "."
		}
		return ListDirParams{Path: path, Explanation: p.Explanation}, nil
	case ToolFinish:
		return FinishParams{}, nil
	}
	return nil, fmt.Errorf("unhandled tool %q", tool)
}

type wireEditPlan struct {
	Edits []wireEdit `yaml:"edits"`
}

type wireEdit struct {
	StartLine *int    `yaml:"start_line"`
	EndLine   *int    `yaml:"end_line"`
	Replace   *string `yaml:"replacement"`
}

// ParseEditPlan extracts edit operations from oracle output. Entries
// missing required keys are dropped individually and reported in the
// second return value; range validation is left to the applier so that
// rejections appear in the batch report.
func ParseEditPlan(raw string) ([]edit.Operation, []string) {
	block, ok := extractYAMLBlock(raw)
	if !ok {
		return nil, []string{"no fenced yaml block in edit plan"}
	}

	var plan wireEditPlan
	if err := yaml.Unmarshal([]byte(block), &plan); err != nil {
		return nil, []string{fmt.Sprintf("invalid yaml in edit plan: %v", err)}
	}

	var ops []edit.Operation
	var dropped []string
	for i, e := range plan.Edits {
		if e.StartLine == nil || e.EndLine == nil || e.Replace == nil {
			dropped = append(dropped, fmt.Sprintf("edit %d missing start_line, end_line or replacement", i+1))
			continue
		}
		ops = append(ops, edit.Operation{
			StartLine:   *e.StartLine,
			EndLine:     *e.EndLine,
			Replacement: *e.Replace,
		})
	}
	return ops, dropped
}

// extractYAMLBlock returns the content of the first ```yaml fenced block.
func extractYAMLBlock(raw string) (string, bool) {
	const fence = "```yaml"
	start := strings.Index(raw, fence)
	if start < 0 {
		return "", false
	}
	rest := raw[start+len(fence):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}
