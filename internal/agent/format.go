package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/codectl/codectl/internal/oracle"
)

// renderFinalResponse produces the user-facing summary. The oracle
// renders it when reachable; otherwise a deterministic summary is built
// from the history so the session always ends with a response.
func (c *Controller) renderFinalResponse(ctx context.Context, s *Session, rationale string) string {
	if s.FinishReason == FinishRequested {
		raw, err := c.oracle.Generate(ctx, c.model, []oracle.Message{
			{Role: oracle.RoleUser, Content: buildFinalPrompt(s)},
		})
		if err == nil && strings.TrimSpace(raw) != "" {
			return strings.TrimSpace(raw)
		}
		if err != nil {
			c.logger.Warn("final response rendering failed, using deterministic summary",
				zap.String("session_id", s.ID), zap.Error(err))
		}
	}
	return deterministicSummary(s, rationale)
}

// deterministicSummary renders the session history without the oracle.
func deterministicSummary(s *Session, rationale string) string {
	var b strings.Builder

	if strings.TrimSpace(rationale) != "" {
		b.WriteString(strings.TrimSpace(rationale))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Performed %d step(s) for: %s\n", len(s.History), s.Query)
	for i, step := range s.History {
		status := "pending"
		if step.Result != nil {
			if step.Result.Success {
				status = "ok"
			} else {
				status = "failed"
			}
		}
		fmt.Fprintf(&b, "%d. %s [%s]", i+1, step.Tool, status)
		if step.Reasoning != "" {
			fmt.Fprintf(&b, " - %s", step.Reasoning)
		}
		if step.Result != nil && !step.Result.Success && step.Result.Error != "" {
			fmt.Fprintf(&b, " (%s)", step.Result.Error)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
