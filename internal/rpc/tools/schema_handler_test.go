package tools

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codectl/codectl/internal/agent"
)

func TestSchemaHandlerListsTools(t *testing.T) {
	rec := httptest.NewRecorder()
	SchemaHandler{}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools/schemas", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var schemas []agent.ToolSchema
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schemas))
	require.Len(t, schemas, 6)

	names := map[agent.ToolName]bool{}
	for _, s := range schemas {
		names[s.Name] = true
	}
	require.True(t, names[agent.ToolEditFile])
	require.True(t, names[agent.ToolFinish])
}

func TestSchemaHandlerRejectsPost(t *testing.T) {
	rec := httptest.NewRecorder()
	SchemaHandler{}.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tools/schemas", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
