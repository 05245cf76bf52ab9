package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newTracesCmd creates the traces command group.
func (a *App) newTracesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traces",
		Short: "Manage stored run traces",
	}
	cmd.AddCommand(a.newTracesListCmd(), a.newTracesDeleteCmd())
	return cmd
}

func (a *App) newTracesListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored trace IDs",
		Args:  cobra.NoArgs,
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

			ids, err := rt.traces.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(a.stdout, "no traces stored")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(a.stdout, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	return cmd
}

func (a *App) newTracesDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <trace-id>",
		Short: "Delete a stored trace",
		Args:  cobra.ExactArgs(1),
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

			if err := rt.traces.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "deleted %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	return cmd
}
