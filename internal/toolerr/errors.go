// Package toolerr defines the two structured error taxonomies used across
// the tool invocation core: field-level parameter errors raised during
// argument extraction, and call-level errors raised while dispatching a
// tool call. Both implement the standard error interface; their formatted
// messages are part of the external contract and must not be rephrased.
package toolerr

import (
	"fmt"
	"strings"
)

// ParameterKind identifies which of the four structured parameter-error
// shapes a ParameterError carries.
type ParameterKind int

const (
	// MissingParameter indicates a required key was absent at the final
	// path segment (or an intermediate object segment).
	MissingParameter ParameterKind = iota
	// NullParameter indicates the key existed but its value was JSON null.
	NullParameter
	// TypeMismatch indicates the value existed but had the wrong JSON shape.
	TypeMismatch
	// InvalidNesting indicates a non-final path segment resolved to a
	// non-object (or null) value, so descent could not continue.
	InvalidNesting
)

// ParameterError is a field-level extraction error. Exactly one of its
// field groups is populated depending on Kind; see the constructors.
type ParameterError struct {
	Kind ParameterKind

	// MissingParameter / NullParameter / TypeMismatch
	Path         string
	ExpectedType string

	// MissingParameter
	Available []string

	// TypeMismatch
	Actual string

	// InvalidNesting
	Segment     string
	Parent      string
	ActualNestType string
}

// NewMissingParameter builds a MissingParameter error. available is the
// list of keys present in the object that was missing the segment --
// never the root object's keys unless the miss happened at depth zero.
func NewMissingParameter(path, expectedType string, available []string) *ParameterError {
	return &ParameterError{
		Kind:         MissingParameter,
		Path:         path,
		ExpectedType: expectedType,
		Available:    available,
	}
}

// NewNullParameter builds a NullParameter error for a key whose value was
// JSON null.
func NewNullParameter(path, expectedType string) *ParameterError {
	return &ParameterError{Kind: NullParameter, Path: path, ExpectedType: expectedType}
}

// NewTypeMismatch builds a TypeMismatch error describing the expected vs.
// actual JSON shape at path.
func NewTypeMismatch(path, expected, actual string) *ParameterError {
	return &ParameterError{Kind: TypeMismatch, Path: path, ExpectedType: expected, Actual: actual}
}

// NewInvalidNesting builds an InvalidNesting error: segment could not be
// resolved because parent was actualType, not an object.
func NewInvalidNesting(segment, parent, actualType string) *ParameterError {
	return &ParameterError{Kind: InvalidNesting, Segment: segment, Parent: parent, ActualNestType: actualType}
}

// Error renders the exact user-visible message for the error's kind. These
// strings are part of the external contract (spec §4.3) and are pinned by
// tests; do not reword them.
func (e *ParameterError) Error() string {
	switch e.Kind {
	case MissingParameter:
		msg := fmt.Sprintf("required parameter '%s' (type: %s) is missing", e.Path, e.ExpectedType)
		if len(e.Available) > 0 {
			msg += fmt.Sprintf(" (available: %s)", strings.Join(e.Available, ", "))
		}
		return msg
	case NullParameter:
		return fmt.Sprintf("parameter '%s' (type: %s) is required but value was null", e.Path, e.ExpectedType)
	case TypeMismatch:
		return fmt.Sprintf("parameter '%s' has wrong type - expected %s but got %s", e.Path, e.ExpectedType, e.Actual)
	case InvalidNesting:
		return fmt.Sprintf("cannot access parameter '%s' because parent '%s' is %s, not an object", e.Segment, e.Parent, e.ActualNestType)
	default:
		return "unknown parameter error"
	}
}

// CallKind identifies which of the five call-level error shapes a
// CallError carries.
type CallKind int

const (
	// UnknownFunction indicates the requested tool name is not registered.
	UnknownFunction CallKind = iota
	// NullArguments indicates a tool with required parameters received a
	// JSON null argument payload.
	NullArguments
	// InvalidArguments indicates one or more parameter errors were raised
	// while extracting the tool's arguments.
	InvalidArguments
	// HandlerError indicates the tool handler returned an application-level
	// error (a "string error" in the legacy handler contract).
	HandlerError
	// ExecutionError indicates the tool handler panicked or otherwise
	// failed outside the normal error-return path.
	ExecutionError
)

// CallError is a call-level dispatch error returned by Tool.Execute and
// ToolRegistry.Execute.
type CallError struct {
	Kind     CallKind
	ToolName string

	// InvalidArguments
	ParamErrors []*ParameterError

	// HandlerError / ExecutionError
	Message string
	Cause   error
}

// NewUnknownFunction builds an UnknownFunction error for the given tool name.
func NewUnknownFunction(name string) *CallError {
	return &CallError{Kind: UnknownFunction, ToolName: name}
}

// NewNullArguments builds a NullArguments error for the given tool name.
func NewNullArguments(name string) *CallError {
	return &CallError{Kind: NullArguments, ToolName: name}
}

// NewInvalidArguments builds an InvalidArguments error aggregating one or
// more parameter errors.
func NewInvalidArguments(name string, errs []*ParameterError) *CallError {
	return &CallError{Kind: InvalidArguments, ToolName: name, ParamErrors: errs}
}

// NewHandlerError builds a HandlerError from a handler-returned message.
func NewHandlerError(name, message string) *CallError {
	return &CallError{Kind: HandlerError, ToolName: name, Message: message}
}

// NewExecutionError builds an ExecutionError wrapping the panic/exception cause.
func NewExecutionError(name string, cause error) *CallError {
	return &CallError{Kind: ExecutionError, ToolName: name, Cause: cause}
}

// Error renders the exact user-visible message for the error's kind. These
// strings are part of the external contract (spec §4.3): the LLM reads
// them verbatim as the tool's error content.
func (e *CallError) Error() string {
	switch e.Kind {
	case UnknownFunction:
		return fmt.Sprintf("Tool call '%s' is not a recognized tool", e.ToolName)
	case NullArguments:
		return fmt.Sprintf("Tool call '%s' received null arguments - expected an object with required parameters", e.ToolName)
	case InvalidArguments:
		if len(e.ParamErrors) == 1 {
			return fmt.Sprintf("Tool call '%s' %s", e.ToolName, e.ParamErrors[0].Error())
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Tool call '%s' has parameter issues:", e.ToolName)
		for _, pe := range e.ParamErrors {
			fmt.Fprintf(&b, "\n  - %s", pe.Error())
		}
		return b.String()
	case HandlerError:
		return fmt.Sprintf("Tool call '%s' failed with error: %s", e.ToolName, e.Message)
	case ExecutionError:
		causeMsg := ""
		if e.Cause != nil {
			causeMsg = e.Cause.Error()
		}
		return fmt.Sprintf("Tool call '%s' failed during execution: %s", e.ToolName, causeMsg)
	default:
		return fmt.Sprintf("Tool call '%s' failed", e.ToolName)
	}
}

// Unwrap exposes the underlying cause, if any, for errors.Is/errors.As.
func (e *CallError) Unwrap() error {
	return e.Cause
}
