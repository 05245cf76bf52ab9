package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/agentloop/infrastructure/config"
)

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	var strictEnv bool

	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate parses a configuration file, expands environment variable
references, and checks it against the configuration rules without
starting anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoaderWithOptions(
				config.WithStrictEnv(strictEnv),
			)
			cfg, err := loader.LoadFile(args[0])
			if err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}

			fmt.Fprintf(a.stdout, "configuration valid\n")
			fmt.Fprintf(a.stdout, "  engine:  %s", cfg.Engine.Provider)
			if cfg.Engine.Model != "" {
				fmt.Fprintf(a.stdout, " (%s)", cfg.Engine.Model)
			}
			fmt.Fprintln(a.stdout)
			fmt.Fprintf(a.stdout, "  storage: %s\n", storageLabel(cfg.Storage.Backend))
			fmt.Fprintf(a.stdout, "  budget:  %d iterations\n", cfg.Loop.MaxIterations)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strictEnv, "strict-env", false, "Fail on unset environment variables")
	return cmd
}

func storageLabel(backend string) string {
	if backend == "" {
		return "memory"
	}
	return backend
}
