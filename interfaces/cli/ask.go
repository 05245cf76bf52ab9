package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newAskCmd creates the ask command, the CLI surface for Tell.
func (a *App) newAskCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the agent a question and print its answer",
		Long: `Ask runs a question through the loop on the answer budget, which is
smaller than the run budget, and prints the engine's reply.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			rt, err := a.buildRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.shutdown(context.Background())

			outcome, err := rt.agent.Tell(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, outcome.Feedback)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	return cmd
}
