package agent

import (
	"fmt"
	"strings"
)

// buildDecisionPrompt renders the tool-selection prompt from the query,
// working root and a condensed transcript of the last few steps.
func buildDecisionPrompt(s *Session, transcriptSteps, previewChars int) string {
	var b strings.Builder

	b.WriteString("You are a coding assistant with access to file operations. Analyze the user's request and decide which tool to use.\n\n")
	fmt.Fprintf(&b, "USER REQUEST: %s\n", s.Query)
	fmt.Fprintf(&b, "WORKING DIRECTORY: %s\n", s.WorkingRoot)
	b.WriteString(buildTranscript(s.History, transcriptSteps, previewChars))

	b.WriteString("\nAVAILABLE TOOLS:\n")
	for i, schema := range ToolSchemas() {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, schema.Name, schema.Description)
		for _, p := range schema.Params {
			req := "optional"
			if p.Required {
				req = "required"
			}
			fmt.Fprintf(&b, "   %s (%s, %s): %s\n", p.Name, p.Type, req, p.Description)
		}
	}

	b.WriteString(`
Decide which tool to use next. Output in YAML format:

` + "```yaml" + `
tool: <tool_name>
reason: <brief explanation why this tool is needed>
params:
  target_file: <file_path>  # if applicable
  explanation: <explanation>  # if applicable
  instructions: <edit_instructions>  # for edit_file only
  code_edit: <code_changes>  # for edit_file only
  query: <search_term>  # for grep_search only
  relative_workspace_path: <dir_path>  # for list_dir only
` + "```" + `
`)
	return b.String()
}

// buildTranscript condenses the most recent steps into prompt context.
func buildTranscript(history []*Step, limit, previewChars int) string {
	if len(history) == 0 {
		return ""
	}
	if limit <= 0 {
		limit = len(history)
	}

	start := 0
	if len(history) > limit {
		start = len(history) - limit
	}

	var b strings.Builder
	b.WriteString("\nPrevious actions:\n")
	for i, step := range history[start:] {
		fmt.Fprintf(&b, "%d. %s: %s\n", start+i+1, step.Tool, step.Reasoning)
		if step.Result != nil {
			fmt.Fprintf(&b, "   Result: %s\n", truncate(summarizeResult(step), previewChars))
		}
	}
	return b.String()
}

// summarizeResult renders one ToolResult as transcript text.
func summarizeResult(step *Step) string {
	r := step.Result
	if r == nil {
		return "(pending)"
	}
	if !r.Success {
		return "failed: " + r.Error
	}

	switch step.Tool {
	case ToolReadFile:
		return fmt.Sprintf("read %d bytes: %s", len(r.Content), r.Content)
	case ToolGrepSearch:
		var parts []string
		for _, m := range r.Matches {
			parts = append(parts, fmt.Sprintf("%s:%d %s", m.File, m.Line, m.Text))
		}
		return fmt.Sprintf("%d matches. %s", len(r.Matches), strings.Join(parts, "; "))
	case ToolListDir:
		return r.Tree
	case ToolDeleteFile:
		return r.Message
	case ToolEditFile:
		if r.EditReport != nil {
			return r.EditReport.Summary()
		}
		return "edit applied"
	}
	return "ok"
}

// buildEditPlanPrompt asks for a YAML edit plan against numbered lines.
func buildEditPlanPrompt(numberedContent, instructions, codeEdit string) string {
	var b strings.Builder

	b.WriteString("You need to analyze the edit instructions and create a specific edit plan.\n\n")
	b.WriteString("CURRENT FILE CONTENT (with line numbers):\n```\n")
	b.WriteString(numberedContent)
	if !strings.HasSuffix(numberedContent, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n\n")
	fmt.Fprintf(&b, "EDIT INSTRUCTIONS: %s\n", instructions)
	if strings.TrimSpace(codeEdit) != "" {
		fmt.Fprintf(&b, "\nCODE EDIT TEMPLATE:\n```\n%s\n```\n", codeEdit)
	}

	b.WriteString(`
Create a plan to apply these edits. Return a list of specific edit operations in YAML format.
Each edit must specify the exact line numbers and replacement content.

IMPORTANT:
- Line numbers are 1-indexed and inclusive
- Ranges of different edits must not overlap
- If deleting lines, set replacement to an empty string
- For replacements, specify the exact range to replace

Output format:

` + "```yaml" + `
edits:
  - start_line: 1
    end_line: 3
    replacement: |
      new content here
      can be multiple lines
  - start_line: 10
    end_line: 10
    replacement: "single line replacement"
` + "```" + `
`)
	return b.String()
}

// buildFinalPrompt asks the oracle to summarize the session for the user.
func buildFinalPrompt(s *Session) string {
	var b strings.Builder

	b.WriteString("Create a helpful response to the user based on the completed actions.\n\n")
	fmt.Fprintf(&b, "ORIGINAL USER REQUEST: %s\n\n", s.Query)
	b.WriteString("ACTIONS COMPLETED:\n")

	for i, step := range s.History {
		fmt.Fprintf(&b, "\n%d. %s - %s\n", i+1, step.Tool, step.Reasoning)
		if step.Result == nil {
			continue
		}
		status := "failed"
		if step.Result.Success {
			status = "ok"
		}
		fmt.Fprintf(&b, "   [%s] %s\n", status, truncate(summarizeResult(step), 300))
	}

	b.WriteString(`
Provide a clear, helpful summary of what was accomplished. Be specific about:
- What files were read, modified, or deleted
- What searches were performed and their results
- Any issues encountered
- Next steps if applicable

Keep the response concise but informative.`)
	return b.String()
}

func truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
