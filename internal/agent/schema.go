package agent

// ParamSchema documents a single tool parameter.
type ParamSchema struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// ToolSchema documents one tool for clients and prompt construction.
type ToolSchema struct {
	Name        ToolName      `json:"name"`
	Description string        `json:"description"`
	Params      []ParamSchema `json:"params"`
}

// ToolSchemas returns the schemas for the fixed tool set.
func ToolSchemas() []ToolSchema {
	return []ToolSchema{
		{
			Name:        ToolReadFile,
			Description: "Read contents of a specific file",
			Params: []ParamSchema{
				{Name: "target_file", Type: "string", Required: true, Description: "path relative to the working root"},
				{Name: "explanation", Type: "string", Required: false, Description: "reason for reading"},
			},
		},
		{
			Name:        ToolEditFile,
			Description: "Modify a file with specific changes",
			Params: []ParamSchema{
				{Name: "target_file", Type: "string", Required: true, Description: "path relative to the working root"},
				{Name: "instructions", Type: "string", Required: true, Description: "what to change"},
				{Name: "code_edit", Type: "string", Required: false, Description: "example of the desired change"},
			},
		},
		{
			Name:        ToolDeleteFile,
			Description: "Remove a file",
			Params: []ParamSchema{
				{Name: "target_file", Type: "string", Required: true, Description: "path relative to the working root"},
				{Name: "explanation", Type: "string", Required: false, Description: "reason for deletion"},
			},
		},
		{
			Name:        ToolGrepSearch,
			Description: "Search for text patterns in files",
			Params: []ParamSchema{
				{Name: "query", Type: "string", Required: true, Description: "regular expression to search for"},
				{Name: "case_sensitive", Type: "bool", Required: false, Description: "defaults to false"},
				{Name: "include_pattern", Type: "string", Required: false, Description: "glob restricting searched files"},
				{Name: "exclude_pattern", Type: "string", Required: false, Description: "glob excluding files"},
				{Name: "explanation", Type: "string", Required: false, Description: "reason for searching"},
			},
		},
		{
			Name:        ToolListDir,
			Description: "Show directory contents with tree visualization",
			Params: []ParamSchema{
				{Name: "relative_workspace_path", Type: "string", Required: false, Description: "directory path, defaults to the working root"},
				{Name: "explanation", Type: "string", Required: false, Description: "reason for listing"},
			},
		},
		{
			Name:        ToolFinish,
			Description: "Complete the task and provide the final response",
			Params:      []ParamSchema{},
		},
	}
}
