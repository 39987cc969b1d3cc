// Package rpc defines the wire messages shared by the daemon transports.
package rpc

// RunTaskRequest starts one agent session.
type RunTaskRequest struct {
	SessionID  string `json:"session_id,omitempty"`
	Model      string `json:"model,omitempty"`
	Query      string `json:"query"`
	WorkingDir string `json:"working_dir,omitempty"`
}

// RunTaskEvent streams back progress from the daemon.
type RunTaskEvent struct {
	Type         string `json:"type"` // step|result|done|error
	SessionID    string `json:"session_id,omitempty"`
	Step         int    `json:"step,omitempty"`
	Tool         string `json:"tool,omitempty"`
	Reasoning    string `json:"reasoning,omitempty"`
	Success      bool   `json:"success,omitempty"`
	Detail       string `json:"detail,omitempty"`
	Response     string `json:"response,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
	Error        string `json:"error,omitempty"`
	Done         bool   `json:"done,omitempty"`
}

// RunTaskStreamRequest is the bidirectional stream payload for Connect RPC.
// The first message must carry the run; later messages may cancel it.
type RunTaskStreamRequest struct {
	Run       *RunTaskRequest `json:"run,omitempty"`
	Cancel    bool            `json:"cancel,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
}
