package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestBuildRootCmdIncludesRunSubcommand(t *testing.T) {
	cmd := buildRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	if !names["run"] {
		t.Fatalf("expected subcommand %q to be registered", "run")
	}
}

func TestRunDemo_CompletesAndWritesTrace(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "trace.md")

	err := runDemo(context.Background(), "add 2 and 3, then greet me as Ada", tracePath, true)
	if err != nil {
		t.Fatalf("runDemo: %v", err)
	}

	contents, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("expected trace file to be written: %v", err)
	}
	if len(contents) == 0 {
		t.Fatal("expected non-empty trace file")
	}
}

func TestBuildShoutTool_UsesLegacyExtractor(t *testing.T) {
	tool := buildShoutTool()

	result, callErr := tool.Execute(context.Background(), []byte(`{"text":"hi","times":2}`))
	if callErr != nil {
		t.Fatalf("unexpected call error: %v", callErr)
	}

	out, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("expected map result, got %T", result)
	}
	if out["shouted"] != "HI HI " {
		t.Fatalf("unexpected shouted value: %v", out["shouted"])
	}
}
