// Package main provides a small CLI demonstrating the tool invocation
// core end to end: a registry with a couple of sample tools, a scripted
// mock model client, and a full agent run rendered as a Markdown trace.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kestrel-labs/toolcore/internal/agent"
	"github.com/kestrel-labs/toolcore/internal/extract"
	"github.com/kestrel-labs/toolcore/internal/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toolcore-demo",
		Short: "Run a scripted agent loop against the sample tool registry",
	}
	cmd.AddCommand(buildRunCmd())
	return cmd
}

func buildRunCmd() *cobra.Command {
	var (
		query     string
		tracePath string
		debug     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the agent loop to completion and print its trace",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), query, tracePath, debug)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "add 2 and 3, then greet me as Ada", "Initial user query")
	cmd.Flags().StringVarP(&tracePath, "trace", "t", "", "Optional path to write a Markdown trace file")
	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	return cmd
}

func runDemo(ctx context.Context, query, tracePath string, debug bool) error {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := agent.NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger.Logger)

	registry := agent.NewToolRegistry(buildAddTool(), buildGreetTool(), buildShoutTool())
	metrics := agent.NewMetrics(prometheus.NewRegistry())

	client := agent.NewMockClient(
		agent.ScriptedReply{ToolName: "add", Arguments: map[string]any{"a": 2, "b": 3}},
		agent.ScriptedReply{ToolName: "greet", Arguments: map[string]any{"name": "Ada"}},
		agent.ScriptedReply{Content: "2 + 3 is 5, and hello, Ada!"},
	)

	state := agent.Initialize(query, registry, "", agent.DefaultCompletionOptions(), metrics)
	final, err := agent.Run(ctx, state, nil, client, debug)
	if err != nil {
		return fmt.Errorf("toolcore-demo: run failed: %w", err)
	}

	fmt.Println(agent.RenderTrace(final))

	if tracePath != "" {
		agent.WriteTraceFile(final, tracePath)
	}
	return nil
}

func buildAddTool() agent.Tool {
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

func buildGreetTool() agent.Tool {
	params := schema.NewObjectBuilder("greeting parameters").
		AddProperty("name", schema.NewString("the person to greet"), true).
		Build()

	return agent.NewToolBuilder("greet", "greets a person by name", params).
		WithHandler(func(_ context.Context, args *extract.Extractor) (any, error) {
			name, perr := args.GetStringEnhanced("name")
			if perr != nil {
				return nil, perr
			}
			return map[string]any{"greeting": fmt.Sprintf("hello, %s!", name)}, nil
		}).
		Build()
}

// buildShoutTool exercises the legacy string-error extractor flavor
// (GetString/GetInt/...) rather than the enhanced structured-error one,
// the way a built-in handler composing over plain `error` would (§9:
// "Legacy get… returns string errors because built-in handlers compose
// over Result<_, String>").
func buildShoutTool() agent.Tool {
	params := schema.NewObjectBuilder("shout parameters").
		AddProperty("text", schema.NewString("the text to shout"), true).
		AddProperty("times", schema.NewInteger("how many times to repeat it"), true).
		Build()

	return agent.NewToolBuilder("shout", "uppercases text and repeats it", params).
		WithHandler(func(_ context.Context, args *extract.Extractor) (any, error) {
			text, err := args.GetString("text")
			if err != nil {
				return nil, err
			}
			times, err := args.GetInt("times")
			if err != nil {
				return nil, err
			}
			return map[string]any{"shouted": strings.Repeat(strings.ToUpper(text)+" ", int(times))}, nil
		}).
		Build()
}
