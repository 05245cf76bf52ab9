package application

import (
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/agentloop/domain/tool"
	"github.com/felixgeelhaar/agentloop/domain/transcript"
	"github.com/felixgeelhaar/agentloop/infrastructure/engine"
)

// toolCatalog renders the registry for the engine's tool listing,
// sorted by name so prompts are stable between runs.
func toolCatalog(registry tool.Registry) []engine.ToolInfo {
	tools := registry.List()
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	infos := make([]engine.ToolInfo, 0, len(tools))
	for _, t := range tools {
		info := engine.ToolInfo{
			Name:        t.Name(),
			Description: t.Description(),
		}
		if schema := t.InputSchema(); !schema.IsEmpty() {
			info.Parameters = schema.Raw()
		}
		infos = append(infos, info)
	}
	return infos
}

// renderHistory renders transcript turns for the engine. Turns older
// than the recent window are compacted into a single summary line so
// long sessions stay within the backend's context limits. Earlier runs'
// goal turns stay visible; the caller excludes the current run's goal,
// which the request carries separately.
func renderHistory(turns []transcript.Turn, recentWindow int) []string {
	var lines []string
	for _, turn := range turns {
		lines = append(lines, turn.String())
	}

	if recentWindow > 0 && len(lines) > recentWindow {
		elided := len(lines) - recentWindow
		compacted := make([]string, 0, recentWindow+1)
		compacted = append(compacted, fmt.Sprintf("(%d earlier entries elided)", elided))
		compacted = append(compacted, lines[elided:]...)
		return compacted
	}
	return lines
}

// buildActionLog renders the reasoning and result turns of one run for
// the outcome's human-readable log.
func buildActionLog(turns []transcript.Turn) string {
	var b strings.Builder
	for _, turn := range turns {
		switch turn.Kind {
		case transcript.TurnReasoning, transcript.TurnResult:
			b.WriteString(turn.String())
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderContents flattens observation content into a single string for
// the engine request. Binary content is summarized, not inlined.
func renderContents(contents []transcript.Content) string {
	parts := make([]string, 0, len(contents))
	for _, c := range contents {
		if c.Kind == transcript.ContentText {
			parts = append(parts, c.Text)
		} else {
			parts = append(parts, fmt.Sprintf("[%s %d bytes]", c.MediaType, len(c.Data)))
		}
	}
	return strings.Join(parts, "\n")
}
