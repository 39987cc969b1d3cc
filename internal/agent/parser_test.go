package agent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDecisionValid(t *testing.T) {
	raw := "Sure, let me inspect that file.\n```yaml\ntool: read_file\nreason: need to see the contents\nparams:\n  target_file: main.go\n  explanation: inspect entry point\n```\n"

	out := ParseDecision(raw)
	require.False(t, out.Malformed)
	require.Equal(t, ToolReadFile, out.Decision.Tool)
	require.Equal(t, "need to see the contents", out.Decision.Reasoning)

	p, ok := out.Decision.Params.(ReadFileParams)
	require.True(t, ok)
	require.Equal(t, "main.go", p.TargetFile)
}

func TestParseDecisionGrepParams(t *testing.T) {
	raw := "```yaml\ntool: grep_search\nreason: find todos\nparams:\n  query: TODO\n  case_sensitive: true\n  include_pattern: \"*.py\"\n```"

	out := ParseDecision(raw)
	require.False(t, out.Malformed)

	p, ok := out.Decision.Params.(GrepSearchParams)
	require.True(t, ok)
	require.Equal(t, "TODO", p.Query)
	require.True(t, p.CaseSensitive)
	require.Equal(t, "*.py", p.IncludePattern)
}

func TestParseDecisionListDirDefaultsPath(t *testing.T) {
	raw := "```yaml\ntool: list_dir\nreason: explore\nparams:\n  explanation: overview\n```"

	out := ParseDecision(raw)
	require.False(t, out.Malformed)
	p, ok := out.Decision.Params.(ListDirParams)
	require.True(t, ok)
	require.Equal(t, ".", p.Path)
}

func TestParseDecisionUnknownTool(t *testing.T) {
	out := ParseDecision("```yaml\ntool: run_shell\nreason: hack\n```")
	require.True(t, out.Malformed)
	require.Contains(t, out.Diagnostic, "unknown tool")
}

func TestParseDecisionMissingBlock(t *testing.T) {
	out := ParseDecision("I think we should read the file first.")
	require.True(t, out.Malformed)
	require.Contains(t, out.Diagnostic, "no fenced yaml block")
}

func TestParseDecisionMissingRequiredParam(t *testing.T) {
	out := ParseDecision("```yaml\ntool: read_file\nreason: read it\nparams:\n  explanation: no path given\n```")
	require.True(t, out.Malformed)
	require.Contains(t, out.Diagnostic, "target_file")
}

func TestParseDecisionInvalidYAML(t *testing.T) {
	out := ParseDecision("```yaml\ntool: [unclosed\n```")
	require.True(t, out.Malformed)
}

func TestParseEditPlanValid(t *testing.T) {
	raw := "```yaml\nedits:\n  - start_line: 2\n    end_line: 3\n    replacement: |\n      X\n  - start_line: 5\n    end_line: 5\n    replacement: \"\"\n```"

	ops, dropped := ParseEditPlan(raw)
	require.Empty(t, dropped)
	require.Len(t, ops, 2)
	require.Equal(t, 2, ops[0].StartLine)
	require.Equal(t, 3, ops[0].EndLine)
	require.Equal(t, "X\n", ops[0].Replacement)
	require.Equal(t, "", ops[1].Replacement)
}

func TestParseEditPlanDropsEntriesMissingKeys(t *testing.T) {
	raw := "```yaml\nedits:\n  - start_line: 1\n    end_line: 1\n    replacement: ok\n  - start_line: 4\n    replacement: missing end\n```"

	ops, dropped := ParseEditPlan(raw)
	require.Len(t, ops, 1)
	require.Len(t, dropped, 1)
	require.Contains(t, dropped[0], "edit 2")
}

func TestParseEditPlanNoBlock(t *testing.T) {
	ops, dropped := ParseEditPlan("no structured output here")
	require.Empty(t, ops)
	require.NotEmpty(t, dropped)
}

func TestExtractYAMLBlockUnterminated(t *testing.T) {
	_, ok := extractYAMLBlock("```yaml\ntool: finish")
	require.False(t, ok)
}
