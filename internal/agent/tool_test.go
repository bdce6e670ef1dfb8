package agent_test

import (
	"context"
	"testing"

	"github.com/kestrel-labs/toolcore/internal/agent"
	"github.com/kestrel-labs/toolcore/internal/extract"
	"github.com/kestrel-labs/toolcore/internal/schema"
	"github.com/kestrel-labs/toolcore/internal/toolerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildNameTool() agent.Tool {
	params := schema.NewObjectBuilder("name parameter").
		AddProperty("name", schema.NewString("a name"), true).
		Build()

	return agent.NewToolBuilder("greeter", "greets someone", params).
		WithHandler(func(_ context.Context, args *extract.Extractor) (any, error) {
			name, perr := args.GetStringEnhanced("name")
			if perr != nil {
				return nil, perr
			}
			return map[string]any{"greeting": "hi " + name}, nil
		}).
		Build()
}

func buildZeroParamTool() agent.Tool {
	params := schema.NewObjectBuilder("no parameters").Build()
	return agent.NewToolBuilder("ping", "returns pong", params).
		WithHandler(func(_ context.Context, _ *extract.Extractor) (any, error) {
			return map[string]any{"pong": true}, nil
		}).
		Build()
}

// S2: null arguments on a tool with required parameters.
func TestExecute_S2_NullArgsRequiredParams(t *testing.T) {
	tool := buildNameTool()

	_, callErr := tool.Execute(context.Background(), []byte("null"))
	require.NotNil(t, callErr)
	assert.Equal(t, toolerr.NullArguments, callErr.Kind)
	assert.Equal(t,
		"Tool call 'greeter' received null arguments - expected an object with required parameters",
		callErr.Error())
}

// S3: null arguments on a zero-parameter tool are treated as {}.
func TestExecute_S3_NullArgsZeroParameterTool(t *testing.T) {
	tool := buildZeroParamTool()

	result, callErr := tool.Execute(context.Background(), []byte("null"))
	require.Nil(t, callErr)
	assert.Equal(t, map[string]any{"pong": true}, result)
}

// S5: a single type mismatch becomes a single-error InvalidArguments.
func TestExecute_S5_TypeMismatchSingleError(t *testing.T) {
	params := schema.NewObjectBuilder("add operands").
		AddProperty("a", schema.NewNumber("a"), true).
		AddProperty("b", schema.NewNumber("b"), true).
		Build()
	tool := agent.NewToolBuilder("add", "adds", params).
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

	_, callErr := tool.Execute(context.Background(), []byte(`{"a":5,"b":"3"}`))
	require.NotNil(t, callErr)
	assert.Equal(t, toolerr.InvalidArguments, callErr.Kind)
	assert.Equal(t, "Tool call 'add' parameter 'b' has wrong type - expected number but got string", callErr.Error())
}

func TestExecute_UnknownFunctionViaRegistry(t *testing.T) {
	registry := agent.NewToolRegistry(buildNameTool())
	_, callErr := registry.Execute(context.Background(), agent.ToolCallRequest{ToolName: "missing", Arguments: []byte(`{}`)})
	require.NotNil(t, callErr)
	assert.Equal(t, toolerr.UnknownFunction, callErr.Kind)
	assert.Equal(t, "Tool call 'missing' is not a recognized tool", callErr.Error())
}

func TestExecute_HandlerErrorFromPlainError(t *testing.T) {
	params := schema.NewObjectBuilder("no parameters").Build()
	tool := agent.NewToolBuilder("boom", "always fails", params).
		WithHandler(func(_ context.Context, _ *extract.Extractor) (any, error) {
			return nil, assertAppError("disk full")
		}).
		Build()

	_, callErr := tool.Execute(context.Background(), []byte("null"))
	require.NotNil(t, callErr)
	assert.Equal(t, toolerr.HandlerError, callErr.Kind)
	assert.Equal(t, "Tool call 'boom' failed with error: disk full", callErr.Error())
}

func TestExecute_PanicBecomesExecutionError(t *testing.T) {
	params := schema.NewObjectBuilder("no parameters").Build()
	tool := agent.NewToolBuilder("panics", "always panics", params).
		WithHandler(func(_ context.Context, _ *extract.Extractor) (any, error) {
			panic("kaboom")
		}).
		Build()

	_, callErr := tool.Execute(context.Background(), []byte("null"))
	require.NotNil(t, callErr)
	assert.Equal(t, toolerr.ExecutionError, callErr.Kind)
	assert.Contains(t, callErr.Error(), "kaboom")
}

func TestBuild_PanicsWithoutHandler(t *testing.T) {
	params := schema.NewObjectBuilder("no parameters").Build()
	assert.Panics(t, func() {
		agent.NewToolBuilder("noop", "does nothing", params).Build()
	})
}

func TestBuild_PanicsOnInvalidName(t *testing.T) {
	params := schema.NewObjectBuilder("no parameters").Build()
	assert.Panics(t, func() {
		agent.NewToolBuilder("has space", "bad name", params).
			WithHandler(func(_ context.Context, _ *extract.Extractor) (any, error) { return nil, nil }).
			Build()
	})
}

func TestRenderError_EscapesControlCharacters(t *testing.T) {
	err := assertAppError("line one\nline \"two\"\ttabbed")
	rendered := agent.RenderError(err)
	assert.Equal(t, `{"isError":true,"error":"line one\nline \"two\"\ttabbed"}`, rendered)
}

type assertAppError string

func (e assertAppError) Error() string { return string(e) }
