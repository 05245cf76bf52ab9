package main

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/felixgeelhaar/agentloop/domain/tool"
)

// numberArgs is the shared argument shape for the arithmetic tools.
type numberArgs struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

func numberSchema() tool.Schema {
	return tool.ObjectSchema(map[string]json.RawMessage{
		"a": json.RawMessage(`{"type":"number"}`),
		"b": json.RawMessage(`{"type":"number"}`),
	}, []string{"a", "b"})
}

func format(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// NewAddTool returns a tool that adds two numbers.
func NewAddTool() tool.Tool {
	return tool.NewBuilder("add").
		WithDescription("Add two numbers and return their sum").
		WithInputSchema(numberSchema()).
		ReadOnly().
		WithHandler(func(ctx context.Context, args json.RawMessage) (tool.Result, error) {
			var in numberArgs
			if err := json.Unmarshal(args, &in); err != nil {
				return tool.Result{}, err
			}
			sum := format(in.A + in.B)
			return tool.NewResultWithPayload("add", sum, json.RawMessage(`{"result":`+sum+`}`)), nil
		}).
		MustBuild()
}

// NewMultiplyTool returns a tool that multiplies two numbers.
func NewMultiplyTool() tool.Tool {
	return tool.NewBuilder("multiply").
		WithDescription("Multiply two numbers and return their product").
		WithInputSchema(numberSchema()).
		ReadOnly().
		WithHandler(func(ctx context.Context, args json.RawMessage) (tool.Result, error) {
			var in numberArgs
			if err := json.Unmarshal(args, &in); err != nil {
				return tool.Result{}, err
			}
			product := format(in.A * in.B)
			return tool.NewResultWithPayload("multiply", product, json.RawMessage(`{"result":`+product+`}`)), nil
		}).
		MustBuild()
}
