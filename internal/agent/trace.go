package agent

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// RenderTrace renders an agent state as a Markdown document for offline
// inspection (§4.7): a header (initial query, status, available tools), a
// numbered "Conversation Flow" section with one subsection per message,
// and an "Execution Logs" list drawn from state.Logs.
func RenderTrace(state AgentState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Agent Trace\n\n")
	fmt.Fprintf(&b, "- **Initial query:** %s\n", state.InitialQuery)
	fmt.Fprintf(&b, "- **Status:** %s\n", renderStatus(state.Status))
	fmt.Fprintf(&b, "- **Available tools:** %s\n\n", renderToolNames(state.Tools))

	b.WriteString("## Conversation Flow\n\n")
	for i, msg := range state.Conversation {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, renderMessageHeading(msg))
		b.WriteString(renderMessageBody(msg))
		b.WriteString("\n")
	}

	b.WriteString("## Execution Logs\n\n")
	if len(state.Logs) == 0 {
		b.WriteString("_no logs recorded_\n")
	} else {
		for _, line := range state.Logs {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	return b.String()
}

func renderStatus(s AgentStatus) string {
	switch s.Kind {
	case StatusInProgress:
		return "InProgress"
	case StatusWaitingForTools:
		return "WaitingForTools"
	case StatusComplete:
		return "Complete"
	case StatusFailed:
		return fmt.Sprintf("Failed(%s)", s.Reason)
	default:
		return "Unknown"
	}
}

func renderToolNames(registry *ToolRegistry) string {
	if registry == nil {
		return "(none)"
	}
	tools := registry.Tools()
	if len(tools) == 0 {
		return "(none)"
	}
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name()
	}
	return strings.Join(names, ", ")
}

func renderMessageHeading(msg Message) string {
	switch msg.Role {
	case RoleSystem:
		return "System"
	case RoleUser:
		return "User"
	case RoleAssistant:
		if len(msg.ToolCalls) > 0 {
			return fmt.Sprintf("Assistant (%d tool call(s))", len(msg.ToolCalls))
		}
		return "Assistant"
	case RoleTool:
		return fmt.Sprintf("Tool response (call %s)", msg.ToolCallID)
	default:
		return "Unknown"
	}
}

func renderMessageBody(msg Message) string {
	var b strings.Builder
	if msg.Content != "" {
		fmt.Fprintf(&b, "%s\n", msg.Content)
	}
	for _, tc := range msg.ToolCalls {
		fmt.Fprintf(&b, "\n- `%s` (id `%s`): `%s`\n", tc.ToolName, tc.ID, marshalToolCallArgs(tc.Arguments))
	}
	if b.Len() == 0 {
		b.WriteString("_(empty)_\n")
	}
	return b.String()
}

// WriteTraceFile writes the rendered trace to path. Writes are
// best-effort, matching TracePlugin's stance in the teacher repo: any I/O
// error is logged and swallowed rather than propagated, since a failed
// trace write must never fail the agent run it is merely observing.
func WriteTraceFile(state AgentState, path string) {
	doc := RenderTrace(state)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		slog.Warn("agent: failed to write trace file", "path", path, "error", err)
	}
}
