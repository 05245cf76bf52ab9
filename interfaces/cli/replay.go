package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// newReplayCmd creates the replay command, the CLI surface for Redo.
func (a *App) newReplayCmd() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "replay <trace-id>",
		Short: "Re-execute a recorded trace without the reasoning engine",
		Long: `Replay loads a trace from the configured store and re-executes its
steps in order. Every recorded tool must be registered; individual step
failures are tolerated and reported in the outcome.`,
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

			outcome, err := rt.agent.Redo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printOutcome(outcome, jsonOutput)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the outcome as JSON")
	return cmd
}
