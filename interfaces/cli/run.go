package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/agentloop/application"
	"github.com/felixgeelhaar/agentloop/domain/task"
)

// runOptions holds options for the run command.
type runOptions struct {
	configPath   string
	budget       int
	timeout      time.Duration
	jsonOutput   bool
	outputSchema string
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <goal>",
		Short: "Pursue a goal until it is finished, aborted, or out of budget",
		Long: `Run a goal through the task loop using the configured engine and
storage. The outcome, including the action log and the trace ID for
later replay, is printed when the run ends.

Examples:
  # Run with a config file
  agentloop run -c config.yaml "summarize the error logs"

  # Tighten the iteration budget for this run
  agentloop run -c config.yaml --budget 5 "quick lookup"

  # Require a structured output shape
  agentloop run -c config.yaml --output-schema '{"type":"object"}' "report totals"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGoal(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().IntVar(&opts.budget, "budget", 0, "Iteration budget (overrides config)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Run timeout")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the outcome as JSON")
	cmd.Flags().StringVar(&opts.outputSchema, "output-schema", "", "JSON schema the final output must satisfy")

	return cmd
}

func (a *App) runGoal(ctx context.Context, goal string, opts *runOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	rt, err := a.buildRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.shutdown(context.Background())

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	var runOpts []application.RunOption
	if opts.budget > 0 {
		runOpts = append(runOpts, application.WithBudget(opts.budget))
	}
	if opts.outputSchema != "" {
		runOpts = append(runOpts, application.WithOutputSchema(json.RawMessage(opts.outputSchema)))
	}

	outcome, err := rt.agent.Do(ctx, goal, runOpts...)
	if outcome != nil {
		a.printOutcome(outcome, opts.jsonOutput)
	}
	if err != nil {
		var abort *task.AbortError
		if errors.As(err, &abort) {
			// The outcome above already explains the abort.
			return fmt.Errorf("run aborted: %s", abort.Reason)
		}
		return err
	}
	return nil
}

// printOutcome renders an outcome to stdout.
func (a *App) printOutcome(outcome *task.Outcome, asJSON bool) {
	if asJSON {
		data, err := json.MarshalIndent(outcome, "", "  ")
		if err == nil {
			fmt.Fprintln(a.stdout, string(data))
		}
		return
	}

	fmt.Fprintf(a.stdout, "Status:     %s\n", outcome.Status)
	fmt.Fprintf(a.stdout, "Feedback:   %s\n", outcome.Feedback)
	fmt.Fprintf(a.stdout, "Iterations: %d/%d\n", outcome.Iterations, outcome.MaxIterations)
	fmt.Fprintf(a.stdout, "Duration:   %s\n", outcome.Duration().Round(time.Millisecond))
	if len(outcome.Output) > 0 {
		fmt.Fprintf(a.stdout, "Output:     %s\n", outcome.Output)
	}
	if outcome.Trace != nil && outcome.Trace.Len() > 0 {
		fmt.Fprintf(a.stdout, "Trace:      %s (%d steps)\n", outcome.Trace.ID, outcome.Trace.Len())
	}
	if outcome.ActionLog != "" {
		fmt.Fprintf(a.stdout, "\nAction log:\n%s\n", outcome.ActionLog)
	}
}
