// Package agent implements the tool dispatch and agent reasoning layers:
// Tool/ToolBuilder (C4), ToolRegistry and execution strategies (C5/C6),
// the agent state machine (C7), and the Markdown trace formatter (C8).
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kestrel-labs/toolcore/internal/extract"
	"github.com/kestrel-labs/toolcore/internal/schema"
	"github.com/kestrel-labs/toolcore/internal/toolerr"
)

var toolNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Handler is the native function a Tool dispatches to. It receives a
// ready-to-use Extractor over the call's argument object and returns
// either a JSON-serializable result or an error.
//
// A handler may return its error as:
//   - a *toolerr.ParameterError or ParameterErrors, aggregated into a
//     single InvalidArguments call error (the "enhanced" extraction
//     flavor described in §4.4);
//   - any other error, treated as a HandlerError carrying err.Error().
//
// A panic escaping the handler is recovered by Execute and reported as
// an ExecutionError; handlers need not recover their own panics.
type Handler func(ctx context.Context, args *extract.Extractor) (any, error)

// ParameterErrors lets a handler report more than one structured
// parameter error from a single call; Execute aggregates them into one
// InvalidArguments call error rather than stopping at the first.
type ParameterErrors []*toolerr.ParameterError

func (pe ParameterErrors) Error() string {
	parts := make([]string, len(pe))
	for i, e := range pe {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// Tool is one callable tool: its identity, advertised schema, and native
// handler. Values are immutable after ToolBuilder.Build.
type Tool struct {
	name        string
	description string
	params      schema.Schema
	handler     Handler
}

// Name returns the tool's registered name.
func (t Tool) Name() string { return t.name }

// Description returns the tool's human-readable description.
func (t Tool) Description() string { return t.description }

// ParamsSchema returns the tool's parameter schema (always an Object at
// the top level).
func (t Tool) ParamsSchema() schema.Schema { return t.params }

// Schema returns the tool's parameter schema rendered as JSON Schema
// bytes (non-strict), for conversion layers (toolconv) that expect a
// json.RawMessage rather than the schema.Schema value directly.
func (t Tool) Schema() json.RawMessage {
	doc := t.params.ToJSONSchema(false)
	raw, err := json.Marshal(doc)
	if err != nil {
		// ToJSONSchema only ever produces marshalable maps/slices/scalars.
		panic(fmt.Sprintf("agent: tool %q produced unmarshalable schema: %v", t.name, err))
	}
	return raw
}

// ToOpenAITool renders the tool as an OpenAI-style function advertisement
// per §4.1: {type:"function", function:{name, description, parameters, strict}}.
func (t Tool) ToOpenAITool(strict bool) map[string]any {
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        t.name,
			"description": t.description,
			"parameters":  t.params.ToJSONSchema(strict),
			"strict":      strict,
		},
	}
}

// hasNoProperties reports whether t's parameter schema declares zero
// properties, the one case in which a null arguments payload is treated
// as an empty object rather than a NullArguments error (§4.4, S3).
func (t Tool) hasNoProperties() bool {
	return t.params.Kind() == schema.KindObject && len(t.params.Properties()) == 0
}

// Execute dispatches rawArgs (the JSON arguments payload, possibly the
// literal 4-byte "null") through the tool's handler, implementing the
// propagation rules of §4.4/§7:
//
//   - rawArgs is JSON null and the schema declares properties -> NullArguments.
//   - rawArgs is JSON null and the schema declares zero properties -> treated as {}.
//   - handler returns ParameterErrors / *toolerr.ParameterError -> InvalidArguments.
//   - handler panics -> ExecutionError.
//   - handler returns any other error -> HandlerError.
//   - handler succeeds -> the handler's value, returned as is (RenderResult
//     renders it to JSON for the tool-response wire format).
func (t Tool) Execute(ctx context.Context, rawArgs []byte) (result any, callErr *toolerr.CallError) {
	defer func() {
		if r := recover(); r != nil {
			callErr = toolerr.NewExecutionError(t.name, fmt.Errorf("%v", r))
			result = nil
		}
	}()

	trimmed := strings.TrimSpace(string(rawArgs))
	if trimmed == "" {
		trimmed = "null"
	}
	if trimmed == "null" {
		if !t.hasNoProperties() {
			return nil, toolerr.NewNullArguments(t.name)
		}
		rawArgs = []byte("{}")
	}

	ex, err := extract.NewFromRaw(rawArgs)
	if err != nil {
		return nil, toolerr.NewExecutionError(t.name, err)
	}

	value, err := t.handler(ctx, ex)
	if err == nil {
		return value, nil
	}

	switch e := err.(type) {
	case ParameterErrors:
		return nil, toolerr.NewInvalidArguments(t.name, []*toolerr.ParameterError(e))
	case *toolerr.ParameterError:
		return nil, toolerr.NewInvalidArguments(t.name, []*toolerr.ParameterError{e})
	default:
		return nil, toolerr.NewHandlerError(t.name, e.Error())
	}
}

// RenderResult canonically JSON-encodes a successful handler result for
// the tool-response wire format (§6): the same renderer is used
// uniformly regardless of the result's shape.
func RenderResult(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// RenderError renders a failed call as the single-line JSON object
// {"isError":true,"error":"<escaped>"} described in §6, with backslash,
// quote, newline, carriage-return, and tab escaped.
func RenderError(err error) string {
	var b strings.Builder
	b.WriteString(`{"isError":true,"error":"`)
	for _, r := range err.Error() {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString(`"}`)
	return b.String()
}

// ToolBuilder is the two-phase builder described in §4.4: a tool's name,
// description, and schema are fixed at construction; WithHandler supplies
// the native function; Build fails fast if no handler was ever attached.
type ToolBuilder struct {
	name        string
	description string
	params      schema.Schema
	handler     Handler
}

// NewToolBuilder starts building a tool. params must be an Object schema;
// Build panics otherwise, since a non-object top-level schema can never
// be satisfied by a JSON arguments payload.
func NewToolBuilder(name, description string, params schema.Schema) *ToolBuilder {
	return &ToolBuilder{name: name, description: description, params: params}
}

// WithHandler attaches the tool's native handler.
func (b *ToolBuilder) WithHandler(h Handler) *ToolBuilder {
	b.handler = h
	return b
}

// Build finalizes the tool. It panics if no handler was attached, or if
// the name does not match ^[A-Za-z_][A-Za-z0-9_]*$, or if the parameter
// schema's top-level Kind is not Object -- all three are programmer
// errors that must fail fast rather than surface as a runtime CallError.
func (b *ToolBuilder) Build() Tool {
	if b.handler == nil {
		panic(fmt.Sprintf("agent: tool %q built without a handler", b.name))
	}
	if !toolNamePattern.MatchString(b.name) {
		panic(fmt.Sprintf("agent: tool name %q does not match %s", b.name, toolNamePattern.String()))
	}
	if b.params.Kind() != schema.KindObject {
		panic(fmt.Sprintf("agent: tool %q schema must be an Object at the top level", b.name))
	}
	return Tool{name: b.name, description: b.description, params: b.params, handler: b.handler}
}
