// Package main demonstrates the agentloop runtime with calculator tools.
//
// This example shows:
// - Tool registration with schemas and annotations
// - A scripted engine for deterministic execution
// - The do, check, and redo operations
// - Trace recording and replay
//
// Run with: go run ./example/calculator
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/felixgeelhaar/agentloop/application"
	"github.com/felixgeelhaar/agentloop/domain/tool"
	"github.com/felixgeelhaar/agentloop/infrastructure/engine"
	"github.com/felixgeelhaar/agentloop/infrastructure/logging"
)

func main() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
	})

	fmt.Println("=== Calculator Agent Example ===")

	if err := runExample(); err != nil {
		fmt.Printf("Example failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n=== Example completed successfully! ===")
}

func runExample() error {
	ctx := context.Background()

	// The scripted engine plays back a fixed decision sequence, so the
	// example runs without any LLM backend.
	script := engine.NewScriptedEngine(
		engine.NewInvokeStep("add the two numbers first", false,
			tool.NewInvocation("add", json.RawMessage(`{"a":2,"b":3}`))),
		engine.NewInvokeStep("then double the sum", false,
			tool.NewInvocation("multiply", json.RawMessage(`{"a":5,"b":2}`))),
		engine.NewFinishStep("(2 + 3) * 2 = 10", json.RawMessage(`{"result":10}`)),
		// Played back by the Check call below.
		engine.NewFinishStep("verified against the run above",
			json.RawMessage(`{"passed":true,"reason":"10 matches the recorded result"}`)),
	)

	agent, err := application.NewWithOptions(
		application.WithEngine(script),
		application.WithMaxIterations(10),
	)
	if err != nil {
		return err
	}
	if err := agent.Register(NewAddTool(), NewMultiplyTool()); err != nil {
		return err
	}

	// Do: pursue a goal and record a trace.
	outcome, err := agent.Do(ctx, "compute (2 + 3) * 2")
	if err != nil {
		return err
	}
	fmt.Printf("\nDo finished: %s (%d iterations)\n", outcome.Feedback, outcome.Iterations)
	fmt.Printf("Action log:\n%s\n", outcome.ActionLog)

	// Check: the condition run sees the transcript of the run above.
	verdict, err := agent.Check(ctx, "the computed result is 10")
	if err != nil {
		return err
	}
	fmt.Printf("\nCheck: %s\n", verdict)

	// Redo: replay the recorded trace without the engine.
	replayed, err := agent.Redo(ctx, outcome.Trace.ID)
	if err != nil {
		return err
	}
	fmt.Printf("\nRedo: %s\n", replayed.Feedback)

	return nil
}
