// Package tools serves the tool schema catalog over HTTP.
package tools

import (
	"encoding/json"
	"net/http"

	"github.com/codectl/codectl/internal/agent"
)

// SchemaHandler serves the fixed tool set's schemas as JSON.
type SchemaHandler struct{}

// ServeHTTP renders schemas.
func (h SchemaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(agent.ToolSchemas())
}
