package agent

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// MockClient is a minimal scripted LLMClient, grounded on the fake
// LLMProvider test doubles the teacher builds inline in its loop tests.
// Each call to Complete pops the next scripted reply; Complete returns an
// error if the script is exhausted. Used by this package's own tests and
// by cmd/toolcore-demo so the demo runs without network access.
type MockClient struct {
	script []ScriptedReply
	pos    int
}

// ScriptedReply is one canned response for MockClient. If ToolName is
// non-empty, Complete synthesizes a tool call with a fresh UUID id and
// Arguments as its JSON arguments; otherwise it returns Content as a
// final assistant message with no tool calls.
type ScriptedReply struct {
	Content   string
	ToolName  string
	Arguments any
}

// NewMockClient builds a MockClient that replays script in order.
func NewMockClient(script ...ScriptedReply) *MockClient {
	return &MockClient{script: script}
}

// Complete implements LLMClient by returning the next scripted reply.
func (m *MockClient) Complete(_ context.Context, _ string, _ []Message, _ []Tool, _ CompletionOptions) (AssistantReply, error) {
	if m.pos >= len(m.script) {
		return AssistantReply{}, errScriptExhausted
	}
	step := m.script[m.pos]
	m.pos++

	if step.ToolName == "" {
		return AssistantReply{Content: step.Content}, nil
	}

	args, err := json.Marshal(step.Arguments)
	if err != nil {
		return AssistantReply{}, err
	}
	return AssistantReply{
		Content: step.Content,
		ToolCalls: []ToolCallRequest{
			{ID: uuid.NewString(), ToolName: step.ToolName, Arguments: args},
		},
	}, nil
}

var errScriptExhausted = mockError("agent: mock client script exhausted")

type mockError string

func (e mockError) Error() string { return string(e) }
