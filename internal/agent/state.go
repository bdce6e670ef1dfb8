package agent

import (
	"encoding/json"
	"fmt"
)

// Role identifies the author of a conversation Message.
type Role int

const (
	RoleSystem Role = iota
	RoleUser
	RoleAssistant
	RoleTool
)

// Message is one entry of AgentState.Conversation. Only the fields
// relevant to Role are populated: System/User/Tool carry Content;
// Assistant carries Content and optionally ToolCalls; Tool additionally
// carries ToolCallID correlating it to the originating call.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCallRequest
	ToolCallID string
}

// StatusKind tags which AgentStatus variant a value carries.
type StatusKind int

const (
	StatusInProgress StatusKind = iota
	StatusWaitingForTools
	StatusComplete
	StatusFailed
)

// AgentStatus is the state machine's current status. Failed carries a
// human-readable reason.
type AgentStatus struct {
	Kind   StatusKind
	Reason string // only meaningful when Kind == StatusFailed
}

func InProgress() AgentStatus       { return AgentStatus{Kind: StatusInProgress} }
func WaitingForTools() AgentStatus  { return AgentStatus{Kind: StatusWaitingForTools} }
func Complete() AgentStatus         { return AgentStatus{Kind: StatusComplete} }
func Failed(reason string) AgentStatus { return AgentStatus{Kind: StatusFailed, Reason: reason} }

// CompletionOptions is passthrough configuration handed to the LLM client
// on every call: a plain struct with a Default constructor and a
// sanitizer, mirroring LoopConfig/DefaultLoopConfig/sanitizeLoopConfig.
type CompletionOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Strict      bool // carried through unchanged; the provider clients do not read it and advertise the non-strict Tool.Schema
}

// DefaultCompletionOptions returns the zero-value-safe default options.
func DefaultCompletionOptions() CompletionOptions {
	return CompletionOptions{
		Model:       "default",
		Temperature: 0.2,
		MaxTokens:   4096,
		Strict:      true,
	}
}

func sanitizeCompletionOptions(o CompletionOptions) CompletionOptions {
	if o.Model == "" {
		o.Model = "default"
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 4096
	}
	if o.Temperature < 0 {
		o.Temperature = 0
	}
	return o
}

// baseSystemPrompt is the fixed agent-facing instruction prepended on the
// wire for every model call (§4.6). Its wording is part of the observable
// contract: implementations that alter it change model behavior.
const baseSystemPrompt = `You are an agent that can call tools to answer the user's request. Follow these rules:
1. Analyze the user's query carefully and decide which, if any, tools are needed to answer it.
2. Use tools one at a time, waiting for each result before deciding on the next action.
3. Reuse results you already have instead of calling the same tool again for the same information.
4. Once you have enough information, produce a final answer directly instead of calling more tools.
5. Reason step by step before acting.`

// AgentState is the immutable state threaded through the agent loop
// (§3/§4.6). Every operation below returns a new AgentState rather than
// mutating its receiver in place; no shared mutability is exposed.
type AgentState struct {
	Conversation      []Message
	Status            AgentStatus
	Tools             *ToolRegistry
	SystemAddition    string
	InitialQuery      string
	CompletionOptions CompletionOptions
	Logs              []string

	// Metrics records per-call tool dispatch telemetry (§4.6's tool-call
	// log line, condensed into Prometheus series). Nil is valid and
	// disables recording, so callers that don't care about metrics pass
	// nil to Initialize without any special-casing.
	Metrics *Metrics
}

// systemPrompt renders the wire-only system message: the fixed base
// prompt plus any caller-supplied addition. It is never appended to
// Conversation, so it never appears when a client iterates messages.
func (s AgentState) systemPrompt() string {
	if s.SystemAddition == "" {
		return baseSystemPrompt
	}
	return baseSystemPrompt + "\n\n" + s.SystemAddition
}

// withLog returns a copy of s with line appended to Logs.
func (s AgentState) withLog(line string) AgentState {
	s.Logs = append(append([]string(nil), s.Logs...), line)
	return s
}

// logf is a convenience wrapper around withLog for formatted lines.
func (s AgentState) logf(format string, args ...any) AgentState {
	return s.withLog(fmt.Sprintf(format, args...))
}

// marshalToolCallArgs canonically renders a tool call's arguments for
// logging, falling back to a literal "null" on any marshal error (which
// cannot happen for the map/slice/scalar shapes used here, but a log
// helper must never panic).
func marshalToolCallArgs(args []byte) string {
	if len(args) == 0 {
		return "null"
	}
	var v any
	if err := json.Unmarshal(args, &v); err != nil {
		return "null"
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(raw)
}
