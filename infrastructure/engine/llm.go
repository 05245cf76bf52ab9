package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/agentloop/domain/tool"
	"github.com/felixgeelhaar/agentloop/infrastructure/logging"
)

// LLMEngine drives the loop with an LLM provider, prompting for a JSON
// step and parsing the reply.
type LLMEngine struct {
	provider     Provider
	model        string
	temperature  float64
	maxTokens    int
	systemPrompt string
}

// LLMConfig configures the LLM engine.
type LLMConfig struct {
	Provider     Provider
	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// DefaultSystemPrompt is the default system prompt for the loop.
const DefaultSystemPrompt = `You are an agent that accomplishes goals by invoking tools.

Analyze the goal, the conversation so far, and the available tools, then decide the next step.

## Response Format

You MUST respond with a JSON object in one of these formats:

### 1. Invoke Tools
{"step": "invoke", "reasoning": "<why>", "parallel": false, "invocations": [{"tool": "<name>", "args": {...}}]}

Set "parallel" to true only when the invocations are independent of each other.

### 2. Finish Successfully
{"step": "finish", "feedback": "<what was accomplished>", "output": <any>}

### 3. Abort
{"step": "abort", "reason": "<why the goal cannot be achieved>"}

## Guidelines

1. Invoke only tools listed in the catalog, with arguments matching their schemas
2. Finish as soon as the goal is satisfied; do not invoke tools you do not need
3. Abort when the goal is impossible with the available tools
4. When an output schema is given, "output" on finish MUST conform to it
5. Respond ONLY with valid JSON, no additional text`

// NewLLMEngine creates an engine backed by an LLM provider.
func NewLLMEngine(config LLMConfig) *LLMEngine {
	systemPrompt := config.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	temperature := config.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	maxTokens := config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	return &LLMEngine{
		provider:     config.Provider,
		model:        config.Model,
		temperature:  temperature,
		maxTokens:    maxTokens,
		systemPrompt: systemPrompt,
	}
}

// Name implements the Engine interface.
func (e *LLMEngine) Name() string {
	return "llm/" + e.provider.Name()
}

// Reason implements the Engine interface.
func (e *LLMEngine) Reason(ctx context.Context, req Request) (Step, error) {
	messages := e.buildMessages(req)

	logging.Debug().
		Add(logging.Engine(e.Name())).
		Add(logging.Iteration(req.Iteration)).
		Msg("requesting next step")

	resp, err := e.provider.Complete(ctx, CompletionRequest{
		Model:       e.model,
		Messages:    messages,
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		return Step{}, fmt.Errorf("completion failed: %w", err)
	}
	if resp.Error != nil {
		return Step{}, resp.Error
	}

	step, err := parseStep(resp.Message.Content)
	if err != nil {
		return Step{}, err
	}

	logging.Debug().
		Add(logging.Engine(e.Name())).
		Add(logging.Str("step", string(step.Kind))).
		Msg("step received")

	return step, nil
}

// buildMessages constructs the chat history for the provider.
func (e *LLMEngine) buildMessages(req Request) []Message {
	system := req.System
	if system == "" {
		system = e.systemPrompt
	}
	messages := []Message{
		{Role: "system", Content: system},
	}

	var sb strings.Builder

	sb.WriteString("## Goal\n")
	sb.WriteString(req.Goal)
	sb.WriteString("\n\n")

	if len(req.Tools) > 0 {
		sb.WriteString("## Available Tools\n")
		for _, t := range req.Tools {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", t.Name, t.Description))
			if len(t.Parameters) > 0 {
				sb.WriteString(fmt.Sprintf("  parameters: %s\n", t.Parameters))
			}
		}
		sb.WriteString("\n")
	}

	if len(req.History) > 0 {
		sb.WriteString("## Conversation\n")
		for _, line := range req.History {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if req.Observation != "" {
		sb.WriteString("## Observation\n")
		sb.WriteString(req.Observation)
		sb.WriteString("\n\n")
	}

	if req.MaxIterations > 0 {
		sb.WriteString(fmt.Sprintf("## Budget\nIteration %d of %d\n\n", req.Iteration, req.MaxIterations))
	}

	if len(req.OutputSchema) > 0 {
		sb.WriteString("## Output Schema\n")
		sb.WriteString(string(req.OutputSchema))
		sb.WriteString("\n\n")
	}

	sb.WriteString("What is your next step? Respond with JSON only.")

	messages = append(messages, Message{
		Role:    "user",
		Content: sb.String(),
	})

	return messages
}

// stepResponse represents the expected JSON response from the LLM.
type stepResponse struct {
	Step        string            `json:"step"`
	Reasoning   string            `json:"reasoning,omitempty"`
	Parallel    bool              `json:"parallel,omitempty"`
	Invocations []tool.Invocation `json:"invocations,omitempty"`
	Feedback    string            `json:"feedback,omitempty"`
	Output      json.RawMessage   `json:"output,omitempty"`
	Reason      string            `json:"reason,omitempty"`
}

// parseStep parses the LLM response into a Step.
func parseStep(content string) (Step, error) {
	// Clean up the response - remove markdown code blocks if present
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	var resp stepResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return Step{}, fmt.Errorf("%w: invalid JSON: %v (content: %s)", ErrMalformedResponse, err, truncate(content, 200))
	}

	var step Step
	switch resp.Step {
	case "invoke":
		step = Step{
			Kind:        StepInvoke,
			Reasoning:   resp.Reasoning,
			Invocations: resp.Invocations,
			Parallel:    resp.Parallel,
		}
	case "finish":
		step = Step{
			Kind:      StepFinish,
			Reasoning: resp.Reasoning,
			Finish:    &FinishStep{Feedback: resp.Feedback, Output: resp.Output},
		}
	case "abort":
		step = Step{
			Kind:      StepAbort,
			Reasoning: resp.Reasoning,
			Abort:     &AbortStep{Reason: resp.Reason},
		}
	default:
		return Step{}, fmt.Errorf("%w: unknown step %q", ErrMalformedResponse, resp.Step)
	}

	if err := step.Validate(); err != nil {
		return Step{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return step, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
