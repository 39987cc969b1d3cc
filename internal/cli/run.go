package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codectl/codectl/internal/agent"
	"github.com/codectl/codectl/internal/logging"
	"github.com/codectl/codectl/internal/observability"
	"github.com/codectl/codectl/internal/oracle"
	"github.com/codectl/codectl/internal/oracle/configbuilder"
	"github.com/codectl/codectl/internal/workspace"
)

// NewRunCmd executes one query locally, without a daemon.
func NewRunCmd(opts *Options) *cobra.Command {
	var workDir string
	var modelOverride string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run \"<query>\"",
		Short: "Run a task against a working directory and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("query cannot be empty")
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			registry, err := configbuilder.BuildRegistryFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("build registry: %w", err)
			}

			metrics := observability.NewMetrics()
			adapter := oracle.NewAdapter(registry, cfg.Oracle.MaxRetries, cfg.Oracle.RetryBackoff, logger, metrics)

			root := workDir
			if root == "" {
				root = cfg.Sandbox.WorkingDir
			}
			fs, err := workspace.NewFilesystem(root, cfg.Sandbox.AllowWrite, cfg.Sandbox.AllowDelete)
			if err != nil {
				return fmt.Errorf("open working directory: %w", err)
			}

			ctrl, err := agent.NewController(adapter, fs, cfg.Agent, modelOverride, logger, metrics)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sink := func(ev agent.Event) {
				if quiet {
					return
				}
				switch ev.Kind {
				case agent.EventStepSelected:
					fmt.Fprintf(out, "[%d] %s: %s\n", ev.Step, ev.Tool, ev.Reasoning)
				case agent.EventStepResult:
					status := "ok"
					if !ev.Success {
						status = "failed"
					}
					fmt.Fprintf(out, "    %s: %s\n", status, ev.Detail)
				}
			}

			session, runErr := ctrl.Run(cmd.Context(), "", query, sink)
			if session == nil {
				return runErr
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, session.FinalResponse)
			return nil
		},
	}

	cmd.Flags().StringVar(&workDir, "workdir", "", "Working directory for file operations (default: sandbox.working_dir)")
	cmd.Flags().StringVar(&modelOverride, "model", "", "Override model id for this run")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Only print the final response")
	return cmd
}
