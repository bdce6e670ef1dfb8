package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrInvalidTransition guards the continueConversation precondition: the
// previous state must be Complete or Failed.
var ErrInvalidTransition = fmt.Errorf("agent: continueConversation requires a Complete or Failed previous state")

// Initialize returns a fresh AgentState in InProgress, per §4.6. The
// system prompt is the fixed base prompt optionally extended with
// systemAddition; it is never written into Conversation. metrics may be
// nil, in which case tool-call telemetry is simply not recorded.
func Initialize(query string, tools *ToolRegistry, systemAddition string, opts CompletionOptions, metrics *Metrics) AgentState {
	return AgentState{
		Conversation:      []Message{{Role: RoleUser, Content: query}},
		Status:            InProgress(),
		Tools:             tools,
		SystemAddition:    systemAddition,
		InitialQuery:      query,
		CompletionOptions: sanitizeCompletionOptions(opts),
		Metrics:           metrics,
	}
}

// RunStep advances state by exactly one physical transition, per §4.6:
//
//   - InProgress: call the LLM; no tool calls -> Complete, otherwise -> WaitingForTools.
//   - WaitingForTools: dispatch the pending tool calls in order -> InProgress.
//   - Complete/Failed: no-op, state returned unchanged.
//
// A non-nil error return means the LLM client itself failed; the caller
// should short-circuit without further interpreting state. Tool dispatch
// failures never surface as a Go error -- they are recorded as a Failed
// status on the returned state instead (§7).
func RunStep(ctx context.Context, state AgentState, llm LLMClient, debug bool) (AgentState, error) {
	switch state.Status.Kind {
	case StatusInProgress:
		return runInProgress(ctx, state, llm, debug)
	case StatusWaitingForTools:
		return runWaitingForTools(ctx, state, debug), nil
	default:
		return state, nil
	}
}

func runInProgress(ctx context.Context, state AgentState, llm LLMClient, debug bool) (AgentState, error) {
	reply, err := llm.Complete(ctx, state.systemPrompt(), state.Conversation, state.Tools.Tools(), state.CompletionOptions)
	if err != nil {
		return state, fmt.Errorf("agent: LLM completion failed: %w", err)
	}

	if len(reply.ToolCalls) == 0 {
		next := state.logf("[assistant] text: %s", reply.Content)
		next.Conversation = append(append([]Message(nil), next.Conversation...), Message{
			Role:    RoleAssistant,
			Content: reply.Content,
		})
		next.Status = Complete()
		if debug {
			slog.Debug("agent step: completed", "content", reply.Content)
		}
		return next, nil
	}

	names := make([]string, len(reply.ToolCalls))
	for i, tc := range reply.ToolCalls {
		names[i] = tc.ToolName
	}
	next := state.logf("[assistant] tools: %d tool calls requested (%s)", len(reply.ToolCalls), strings.Join(names, ", "))
	next.Conversation = append(append([]Message(nil), next.Conversation...), Message{
		Role:      RoleAssistant,
		Content:   reply.Content,
		ToolCalls: reply.ToolCalls,
	})
	next.Status = WaitingForTools()
	if debug {
		slog.Debug("agent step: waiting for tools", "tools", names)
	}
	return next, nil
}

// lastPendingToolCalls finds the most recent assistant message carrying
// tool calls, matching §4.6's "locate the most recent assistant message
// carrying tool calls" instruction.
func lastPendingToolCalls(conversation []Message) ([]ToolCallRequest, bool) {
	for i := len(conversation) - 1; i >= 0; i-- {
		if conversation[i].Role == RoleAssistant && len(conversation[i].ToolCalls) > 0 {
			return conversation[i].ToolCalls, true
		}
	}
	return nil, false
}

func runWaitingForTools(ctx context.Context, state AgentState, debug bool) (result AgentState) {
	defer func() {
		if r := recover(); r != nil {
			failed := state.logf("[agent] tool dispatch panicked: %v", r)
			failed.Status = Failed(fmt.Sprintf("%v", r))
			result = failed
		}
	}()

	calls, ok := lastPendingToolCalls(state.Conversation)
	if !ok {
		failed := state.logf("[agent] no pending tool calls found")
		failed.Status = Failed("no pending tool calls")
		return failed
	}

	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.ToolName
	}
	next := state.logf("[tools] executing %d tools (%s)", len(calls), strings.Join(names, ", "))

	for _, call := range calls {
		started := time.Now()
		value, callErr := next.Tools.Execute(ctx, call)
		elapsed := time.Since(started)
		elapsedMs := elapsed.Milliseconds()

		var content string
		if callErr != nil {
			content = RenderError(callErr)
		} else {
			rendered, err := RenderResult(value)
			if err != nil {
				content = RenderError(err)
			} else {
				content = rendered
			}
		}

		next.Metrics.Observe(call.ToolName, elapsed.Seconds(), callErr != nil)

		next.Conversation = append(append([]Message(nil), next.Conversation...), Message{
			Role:       RoleTool,
			Content:    content,
			ToolCallID: call.ID,
		})
		next = next.logf("[tool] %s (%dms): %s", call.ToolName, elapsedMs, content)
		if debug {
			slog.Debug("tool call completed", ToolCallFields(call.ToolName, call.ID, elapsedMs, callErr != nil)...)
		}
	}

	next.Status = InProgress()
	return next
}

// Run drives RunStep repeatedly until Complete, Failed, or the step
// budget is exhausted. maxSteps of nil means unlimited. The budget
// decrements on each transition that enters or leaves WaitingForTools
// (§4.6); a budget check that finds zero remaining steps transitions to
// Failed("Maximum step limit reached") without attempting another step.
func Run(ctx context.Context, state AgentState, maxSteps *int, llm LLMClient, debug bool) (AgentState, error) {
	remaining := maxSteps

	for {
		if state.Status.Kind == StatusComplete || state.Status.Kind == StatusFailed {
			return state, nil
		}
		if remaining != nil && *remaining <= 0 {
			failed := state.logf("[agent] step limit reached")
			failed.Status = Failed("Maximum step limit reached")
			return failed, nil
		}

		prevKind := state.Status.Kind
		next, err := RunStep(ctx, state, llm, debug)
		if err != nil {
			return state, err
		}
		state = next

		if remaining != nil && touchesWaitingForTools(prevKind, state.Status.Kind) {
			r := *remaining - 1
			remaining = &r
		}
	}
}

func touchesWaitingForTools(prev, next StatusKind) bool {
	return (prev == StatusInProgress && next == StatusWaitingForTools) ||
		(prev == StatusWaitingForTools && next == StatusInProgress)
}

// ContinueConversation appends a new user message to a finished
// conversation and runs it to completion again. The previous state must
// be Complete or Failed (§4.6); any other status is a precondition
// violation reported as ErrInvalidTransition.
func ContinueConversation(ctx context.Context, previous AgentState, userMessage string, maxSteps *int, llm LLMClient, debug bool) (AgentState, error) {
	if previous.Status.Kind != StatusComplete && previous.Status.Kind != StatusFailed {
		return previous, ErrInvalidTransition
	}

	next := previous
	next.Logs = nil
	next.Conversation = append(append([]Message(nil), previous.Conversation...), Message{
		Role:    RoleUser,
		Content: userMessage,
	})
	next.Status = InProgress()

	return Run(ctx, next, maxSteps, llm, debug)
}

// RunMultiTurn folds ContinueConversation over a sequence of follow-up
// user messages, starting from an already-completed initial state.
func RunMultiTurn(ctx context.Context, initial AgentState, followUps []string, maxSteps *int, llm LLMClient, debug bool) (AgentState, error) {
	state := initial
	for _, msg := range followUps {
		next, err := ContinueConversation(ctx, state, msg, maxSteps, llm, debug)
		if err != nil {
			return next, err
		}
		state = next
	}
	return state, nil
}
