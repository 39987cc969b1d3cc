package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewDoctorCmd returns a health-check command validating config and environment.
func NewDoctorCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration and environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config OK. Providers: %d, models: %d\n", len(cfg.Providers), len(cfg.Models))
			fmt.Fprintf(out, "Agent: max_steps=%d, overlap_policy=%s\n", cfg.Agent.MaxSteps, cfg.Agent.OverlapPolicy)

			root := cfg.Sandbox.WorkingDir
			if root == "" {
				root, _ = os.Getwd()
			}
			if info, statErr := os.Stat(root); statErr != nil || !info.IsDir() {
				fmt.Fprintf(out, "Sandbox root %q is not usable\n", root)
			} else {
				fmt.Fprintf(out, "Sandbox root: %s (write=%v, delete=%v)\n", root, cfg.Sandbox.AllowWrite, cfg.Sandbox.AllowDelete)
			}
			return nil
		},
	}
}
