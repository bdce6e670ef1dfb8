package agent_test

import (
	"context"
	"testing"

	"github.com/kestrel-labs/toolcore/internal/agent"
	"github.com/kestrel-labs/toolcore/internal/extract"
	"github.com/kestrel-labs/toolcore/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAddTool(t *testing.T) agent.Tool {
	t.Helper()
	params := schema.NewObjectBuilder("addition operands").
		AddProperty("a", schema.NewNumber("first operand"), true).
		AddProperty("b", schema.NewNumber("second operand"), true).
		Build()

	return agent.NewToolBuilder("add", "adds two numbers", params).
		WithHandler(func(_ context.Context, args *extract.Extractor) (any, error) {
			a, perr := args.GetDoubleEnhanced("a")
			if perr != nil {
				return nil, perr
			}
			b, perr := args.GetDoubleEnhanced("b")
			if perr != nil {
				return nil, perr
			}
			return map[string]any{"result": a + b}, nil
		}).
		Build()
}

// S6 happy path: initialize -> one tool call -> tool result -> final text,
// status transitions InProgress -> WaitingForTools -> InProgress -> Complete.
func TestRun_S6_HappyPath(t *testing.T) {
	registry := agent.NewToolRegistry(buildAddTool(t))
	client := agent.NewMockClient(
		agent.ScriptedReply{ToolName: "add", Arguments: map[string]any{"a": 2, "b": 3}},
		agent.ScriptedReply{Content: "5"},
	)

	state := agent.Initialize("add 2 and 3", registry, "", agent.DefaultCompletionOptions(), nil)
	ctx := context.Background()

	state, err := agent.RunStep(ctx, state, client, false)
	require.NoError(t, err)
	assert.Equal(t, agent.StatusWaitingForTools, state.Status.Kind)

	state, err = agent.RunStep(ctx, state, client, false)
	require.NoError(t, err)
	assert.Equal(t, agent.StatusInProgress, state.Status.Kind)
	assert.Contains(t, state.Conversation[len(state.Conversation)-1].Content, `"result":5`)

	state, err = agent.RunStep(ctx, state, client, false)
	require.NoError(t, err)
	assert.Equal(t, agent.StatusComplete, state.Status.Kind)
	assert.Equal(t, "5", state.Conversation[len(state.Conversation)-1].Content)
}

// S6 step-budget edge case: the same initial state, run with maxSteps=2,
// must fail with "Maximum step limit reached" because the happy path
// needs two WaitingForTools-touching transitions before it can even
// attempt the final InProgress -> Complete transition.
func TestRun_S6_StepBudgetExhausted(t *testing.T) {
	registry := agent.NewToolRegistry(buildAddTool(t))
	client := agent.NewMockClient(
		agent.ScriptedReply{ToolName: "add", Arguments: map[string]any{"a": 2, "b": 3}},
		agent.ScriptedReply{Content: "5"},
	)

	state := agent.Initialize("add 2 and 3", registry, "", agent.DefaultCompletionOptions(), nil)
	maxSteps := 2

	final, err := agent.Run(context.Background(), state, &maxSteps, client, false)
	require.NoError(t, err)
	require.Equal(t, agent.StatusFailed, final.Status.Kind)
	assert.Equal(t, "Maximum step limit reached", final.Status.Reason)
}

func TestRun_UnlimitedStepsCompletes(t *testing.T) {
	registry := agent.NewToolRegistry(buildAddTool(t))
	client := agent.NewMockClient(
		agent.ScriptedReply{ToolName: "add", Arguments: map[string]any{"a": 2, "b": 3}},
		agent.ScriptedReply{Content: "5"},
	)

	state := agent.Initialize("add 2 and 3", registry, "", agent.DefaultCompletionOptions(), nil)
	final, err := agent.Run(context.Background(), state, nil, client, false)
	require.NoError(t, err)
	assert.Equal(t, agent.StatusComplete, final.Status.Kind)
}

func TestContinueConversation_RequiresTerminalStatus(t *testing.T) {
	registry := agent.NewToolRegistry(buildAddTool(t))
	client := agent.NewMockClient(agent.ScriptedReply{ToolName: "add", Arguments: map[string]any{"a": 1, "b": 1}})

	state := agent.Initialize("add 1 and 1", registry, "", agent.DefaultCompletionOptions(), nil)
	state, err := agent.RunStep(context.Background(), state, client, false)
	require.NoError(t, err)
	require.Equal(t, agent.StatusWaitingForTools, state.Status.Kind)

	_, err = agent.ContinueConversation(context.Background(), state, "follow up", nil, client, false)
	assert.ErrorIs(t, err, agent.ErrInvalidTransition)
}

func TestContinueConversation_ResetsLogsAndAppendsUserMessage(t *testing.T) {
	registry := agent.NewToolRegistry(buildAddTool(t))
	client := agent.NewMockClient(
		agent.ScriptedReply{ToolName: "add", Arguments: map[string]any{"a": 2, "b": 3}},
		agent.ScriptedReply{Content: "5"},
		agent.ScriptedReply{Content: "10"},
	)

	state := agent.Initialize("add 2 and 3", registry, "", agent.DefaultCompletionOptions(), nil)
	state, err := agent.Run(context.Background(), state, nil, client, false)
	require.NoError(t, err)
	require.Equal(t, agent.StatusComplete, state.Status.Kind)
	require.NotEmpty(t, state.Logs)

	next, err := agent.ContinueConversation(context.Background(), state, "double it", nil, client, false)
	require.NoError(t, err)
	assert.Equal(t, agent.StatusComplete, next.Status.Kind)
	assert.Equal(t, "10", next.Conversation[len(next.Conversation)-1].Content)
	assert.Equal(t, []string{"[assistant] text: 10"}, next.Logs)

	var foundUserFollowUp bool
	for _, m := range next.Conversation {
		if m.Role == agent.RoleUser && m.Content == "double it" {
			foundUserFollowUp = true
		}
	}
	assert.True(t, foundUserFollowUp)
}
