package agent_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kestrel-labs/toolcore/internal/agent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTrace_IncludesHeaderFlowAndLogs(t *testing.T) {
	registry := agent.NewToolRegistry(buildAddTool(t))
	client := agent.NewMockClient(
		agent.ScriptedReply{ToolName: "add", Arguments: map[string]any{"a": 2, "b": 3}},
		agent.ScriptedReply{Content: "5"},
	)

	state := agent.Initialize("add 2 and 3", registry, "", agent.DefaultCompletionOptions(), nil)
	final, err := agent.Run(context.Background(), state, nil, client, false)
	require.NoError(t, err)

	doc := agent.RenderTrace(final)
	assert.Contains(t, doc, "# Agent Trace")
	assert.Contains(t, doc, "add 2 and 3")
	assert.Contains(t, doc, "Complete")
	assert.Contains(t, doc, "## Conversation Flow")
	assert.Contains(t, doc, "## Execution Logs")
	assert.Contains(t, doc, "add")
}

func TestWriteTraceFile_BestEffort(t *testing.T) {
	registry := agent.NewToolRegistry(buildAddTool(t))
	state := agent.Initialize("add 2 and 3", registry, "", agent.DefaultCompletionOptions(), nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "trace.md")

	agent.WriteTraceFile(state, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Agent Trace")

	// A write to an unwritable path must not panic -- best-effort I/O.
	assert.NotPanics(t, func() {
		agent.WriteTraceFile(state, filepath.Join(dir, "missing-subdir", "trace.md"))
	})
}
