package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// errConditionFailed signals a falsy verdict through the command's exit
// status without printing a second error line.
type errConditionFailed struct {
	reason string
}

func (e *errConditionFailed) Error() string {
	return "condition failed: " + e.reason
}

// newCheckCmd creates the check command.
func (a *App) newCheckCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check <condition>",
		Short: "Evaluate a condition and exit non-zero when it does not hold",
		Long: `Check evaluates a condition through the loop and prints the verdict.
A condition that does not hold exits with status 1; runs that cannot
produce a verdict at all exit with an error.`,
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

			verdict, err := rt.agent.Check(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, verdict.String())
			if !verdict.Bool() {
				return &errConditionFailed{reason: verdict.Reason}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	return cmd
}
