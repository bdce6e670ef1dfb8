package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/kestrel-labs/toolcore/internal/toolerr"
)

// ToolCallRequest is a model-produced request to invoke a tool by name,
// per §6's tool-call wire format: {id, name, arguments}. Arguments is a
// JSON object, or the literal "null" (only legal for zero-parameter tools).
type ToolCallRequest struct {
	ID        string
	ToolName  string
	Arguments []byte
}

// CallOutcome is one entry of ToolRegistry.ExecuteAll's result slice: a
// call either succeeds with a value or fails with a structured CallError.
// Exactly one of Value/Err is non-nil/non-zero.
type CallOutcome struct {
	Value any
	Err   *toolerr.CallError

	// StartedAt/FinishedAt record when the call began and ended. The
	// ExecuteAll strategies set them; ExecuteAsync leaves them zero.
	// RenderTrace does not read them.
	StartedAt int64 // unix nanos
	FinishedAt int64
}

// ToolRegistry holds a flat set of tools keyed by name and dispatches
// ToolCallRequests to them, matching tool_registry.go's map-based
// last-registered-wins lookup.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string // registration order, for GetOpenAITools/GetToolDefinitions
}

// NewToolRegistry builds a registry from an initial set of tools.
// Duplicate names are a caller responsibility: the last one registered
// wins at lookup time (§4.5, Open Question).
func NewToolRegistry(tools ...Tool) *ToolRegistry {
	r := &ToolRegistry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds or overwrites a tool by name.
func (r *ToolRegistry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.name]; !exists {
		r.order = append(r.order, t.name)
	}
	r.tools[t.name] = t
}

// Unregister removes a tool by name, if present.
func (r *ToolRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns the tool registered under name, if any.
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns all registered tools in registration order.
func (r *ToolRegistry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Execute performs a single synchronous tool call: look up by name, on
// miss return UnknownFunction, otherwise delegate to the tool.
func (r *ToolRegistry) Execute(ctx context.Context, req ToolCallRequest) (any, *toolerr.CallError) {
	tool, ok := r.Get(req.ToolName)
	if !ok {
		return nil, toolerr.NewUnknownFunction(req.ToolName)
	}
	return tool.Execute(ctx, req.Arguments)
}

// ExecuteAsync schedules Execute on a background goroutine, returning a
// channel that receives exactly one CallOutcome. Cancelling ctx before the
// handler runs cancels the call at that boundary; handlers themselves are
// synchronous, so cancellation mid-handler has no effect, matching §5's
// "suspension points" note.
func (r *ToolRegistry) ExecuteAsync(ctx context.Context, req ToolCallRequest) <-chan CallOutcome {
	out := make(chan CallOutcome, 1)
	go func() {
		defer close(out)
		select {
		case <-ctx.Done():
			out <- CallOutcome{Err: toolerr.NewExecutionError(req.ToolName, ctx.Err())}
			return
		default:
		}
		value, callErr := r.Execute(ctx, req)
		out <- CallOutcome{Value: value, Err: callErr}
	}()
	return out
}

// ExecuteAll dispatches requests under the given strategy, returning a
// result slice whose i-th element is the outcome of requests[i]
// (invariant #1). Failures in one request never abort siblings.
func (r *ToolRegistry) ExecuteAll(ctx context.Context, requests []ToolCallRequest, strategy Strategy) []CallOutcome {
	if strategy == nil {
		strategy = Sequential()
	}
	return strategy.Run(ctx, requests, r.Execute)
}

// GetOpenAITools renders every registered tool as an OpenAI-style function
// advertisement, in registration order.
func (r *ToolRegistry) GetOpenAITools(strict bool) []map[string]any {
	tools := r.Tools()
	out := make([]map[string]any, len(tools))
	for i, t := range tools {
		out[i] = t.ToOpenAITool(strict)
	}
	return out
}

// GetToolDefinitions maps a provider name to its tool-advertisement form.
// §4.5: all three known providers currently map to the OpenAI form; an
// unknown provider is a programmer error, not a call-level failure.
func (r *ToolRegistry) GetToolDefinitions(provider string) ([]map[string]any, error) {
	switch provider {
	case "openai", "anthropic", "gemini":
		return r.GetOpenAITools(true), nil
	default:
		return nil, fmt.Errorf("agent: unknown provider %q for tool definitions", provider)
	}
}
