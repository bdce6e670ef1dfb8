package agent

import "log/slog"

// Logger wraps log/slog the way internal/observability/logging.go does in
// the teacher repo: a thin struct carrying a configured *slog.Logger. The
// agent loop and trace writer log through slog's package-level functions,
// so a Logger reaches them only once installed with slog.SetDefault, as
// cmd/toolcore-demo does.
type Logger struct {
	*slog.Logger
}

// NewLogger builds a Logger around the given slog handler, or the
// default handler if h is nil.
func NewLogger(h slog.Handler) *Logger {
	if h == nil {
		return &Logger{Logger: slog.Default()}
	}
	return &Logger{Logger: slog.New(h)}
}

// ToolCallFields renders the structured logging fields for one tool call
// outcome; runWaitingForTools passes them to its per-call slog.Debug line.
func ToolCallFields(toolName, toolCallID string, durationMs int64, isError bool) []any {
	return []any{
		"tool", toolName,
		"tool_call_id", toolCallID,
		"duration_ms", durationMs,
		"is_error", isError,
	}
}
