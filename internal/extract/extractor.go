package extract

import (
	"encoding/json"

	"github.com/kestrel-labs/toolcore/internal/toolerr"
)

// Extractor wraps a parsed JSON value (the tool call's arguments object)
// and implements the traversal semantics of §4.2: dot/bracket-indexed
// path resolution with structured, never-panicking errors. Every getter
// returns either a value or a *toolerr.ParameterError; none of them can
// fail in any other way for any JSON input (invariant #5).
type Extractor struct {
	root any
}

// New wraps an already-decoded JSON value (typically the output of
// ParseJSON) in an Extractor.
func New(root any) *Extractor {
	return &Extractor{root: root}
}

// NewFromRaw parses raw JSON bytes and wraps the result in an Extractor.
func NewFromRaw(raw []byte) (*Extractor, error) {
	v, err := ParseJSON(raw)
	if err != nil {
		return nil, err
	}
	return New(v), nil
}

// resolved is the outcome of navigating to the object/array that directly
// contains the final path segment.
type resolved struct {
	container any
	final     step
}

// navigate walks every non-final step of path, applying the three
// traversal rules from §4.2 step 1. On success it returns the container
// holding the final step; on failure it returns the corresponding
// MissingParameter or InvalidNesting error.
func (e *Extractor) navigate(path string) (*resolved, *toolerr.ParameterError) {
	steps, err := parsePath(path)
	if err != nil {
		// An unparseable path has no sensible "available keys" or
		// "expected type" to report; treat it as a miss at the root.
		return nil, toolerr.NewMissingParameter(path, "unknown", nil)
	}

	finalStep := steps[len(steps)-1]
	finalSegDisp := finalStep.disp

	current := e.root
	for i := 0; i < len(steps)-1; i++ {
		s := steps[i]
		pathSoFar := pathString(steps, i)

		switch c := current.(type) {
		case *Object:
			if s.isIndex {
				return nil, toolerr.NewInvalidNesting(finalSegDisp, pathSoFar, "object")
			}
			val, ok := c.Get(s.key)
			if !ok {
				return nil, toolerr.NewMissingParameter(path, "object", ObjectKeys(c))
			}
			current = val
		case []any:
			if !s.isIndex {
				return nil, toolerr.NewInvalidNesting(finalSegDisp, pathSoFar, "array")
			}
			if s.idx < 0 || s.idx >= len(c) {
				return nil, toolerr.NewMissingParameter(path, "array element", nil)
			}
			current = c[s.idx]
		case nil:
			return nil, toolerr.NewInvalidNesting(finalSegDisp, pathSoFar, "null")
		default:
			return nil, toolerr.NewInvalidNesting(finalSegDisp, pathSoFar, typeName(current))
		}
	}

	// The container of the final step must itself be an object or array;
	// a null or scalar parent is an InvalidNesting, not a missing key.
	if len(steps) > 1 {
		switch current.(type) {
		case *Object, []any:
		default:
			return nil, toolerr.NewInvalidNesting(finalSegDisp, pathString(steps, len(steps)-1), typeName(current))
		}
	}

	return &resolved{container: current, final: finalStep}, nil
}

// lookupFinal inspects r.container for r.final, reporting whether it was
// present, its raw value, and (for object containers) the sibling keys to
// report in a MissingParameter error.
func lookupFinal(r *resolved) (value any, found bool, available []string) {
	switch c := r.container.(type) {
	case *Object:
		if r.final.isIndex {
			return nil, false, nil
		}
		v, ok := c.Get(r.final.key)
		return v, ok, ObjectKeys(c)
	case []any:
		if !r.final.isIndex {
			return nil, false, nil
		}
		if r.final.idx < 0 || r.final.idx >= len(c) {
			return nil, false, nil
		}
		return c[r.final.idx], true, nil
	default:
		return nil, false, nil
	}
}

// lookup performs the full §4.2 traversal for path, returning the raw
// final value. found is false when the final segment itself was absent
// (step 2, "key absent" case); a present-but-null value is returned as
// (nil, true, nil).
func (e *Extractor) lookup(path, expectedType string) (value any, found bool, perr *toolerr.ParameterError) {
	r, perr := e.navigate(path)
	if perr != nil {
		return nil, false, perr
	}
	val, ok, available := lookupFinal(r)
	if !ok {
		return nil, false, toolerr.NewMissingParameter(path, expectedType, available)
	}
	return val, true, nil
}

// ---- legacy string-error flavor -------------------------------------------------

// GetString extracts a required string at path.
func (e *Extractor) GetString(path string) (string, error) {
	v, perr := e.GetStringEnhanced(path)
	if perr != nil {
		return "", perr
	}
	return v, nil
}

// GetInt extracts a required integer at path.
func (e *Extractor) GetInt(path string) (int64, error) {
	v, perr := e.GetIntEnhanced(path)
	if perr != nil {
		return 0, perr
	}
	return v, nil
}

// GetDouble extracts a required floating-point number at path.
func (e *Extractor) GetDouble(path string) (float64, error) {
	v, perr := e.GetDoubleEnhanced(path)
	if perr != nil {
		return 0, perr
	}
	return v, nil
}

// GetBoolean extracts a required boolean at path.
func (e *Extractor) GetBoolean(path string) (bool, error) {
	v, perr := e.GetBooleanEnhanced(path)
	if perr != nil {
		return false, perr
	}
	return v, nil
}

// GetArray extracts a required array at path.
func (e *Extractor) GetArray(path string) ([]any, error) {
	v, perr := e.GetArrayEnhanced(path)
	if perr != nil {
		return nil, perr
	}
	return v, nil
}

// GetObject extracts a required object at path.
func (e *Extractor) GetObject(path string) (*Object, error) {
	v, perr := e.GetObjectEnhanced(path)
	if perr != nil {
		return nil, perr
	}
	return v, nil
}

// ---- enhanced structured-error flavor -------------------------------------------------

// GetStringEnhanced extracts a required string at path, or a structured
// ParameterError describing why it could not.
func (e *Extractor) GetStringEnhanced(path string) (string, *toolerr.ParameterError) {
	val, perr := e.requireScalar(path, "string")
	if perr != nil {
		return "", perr
	}
	s, ok := val.(string)
	if !ok {
		return "", toolerr.NewTypeMismatch(path, "string", typeName(val))
	}
	return s, nil
}

// GetIntEnhanced extracts a required integer at path.
func (e *Extractor) GetIntEnhanced(path string) (int64, *toolerr.ParameterError) {
	val, perr := e.requireScalar(path, "integer")
	if perr != nil {
		return 0, perr
	}
	n, ok := val.(json.Number)
	if !ok {
		return 0, toolerr.NewTypeMismatch(path, "integer", typeName(val))
	}
	i, err := n.Int64()
	if err != nil {
		return 0, toolerr.NewTypeMismatch(path, "integer", "number")
	}
	return i, nil
}

// GetDoubleEnhanced extracts a required floating-point number at path.
func (e *Extractor) GetDoubleEnhanced(path string) (float64, *toolerr.ParameterError) {
	val, perr := e.requireScalar(path, "number")
	if perr != nil {
		return 0, perr
	}
	n, ok := val.(json.Number)
	if !ok {
		return 0, toolerr.NewTypeMismatch(path, "number", typeName(val))
	}
	f, err := n.Float64()
	if err != nil {
		return 0, toolerr.NewTypeMismatch(path, "number", "string")
	}
	return f, nil
}

// GetBooleanEnhanced extracts a required boolean at path.
func (e *Extractor) GetBooleanEnhanced(path string) (bool, *toolerr.ParameterError) {
	val, perr := e.requireScalar(path, "boolean")
	if perr != nil {
		return false, perr
	}
	b, ok := val.(bool)
	if !ok {
		return false, toolerr.NewTypeMismatch(path, "boolean", typeName(val))
	}
	return b, nil
}

// GetArrayEnhanced extracts a required array at path.
func (e *Extractor) GetArrayEnhanced(path string) ([]any, *toolerr.ParameterError) {
	val, perr := e.requireScalar(path, "array")
	if perr != nil {
		return nil, perr
	}
	arr, ok := val.([]any)
	if !ok {
		return nil, toolerr.NewTypeMismatch(path, "array", typeName(val))
	}
	return arr, nil
}

// GetObjectEnhanced extracts a required object at path.
func (e *Extractor) GetObjectEnhanced(path string) (*Object, *toolerr.ParameterError) {
	val, perr := e.requireScalar(path, "object")
	if perr != nil {
		return nil, perr
	}
	obj, ok := val.(*Object)
	if !ok {
		return nil, toolerr.NewTypeMismatch(path, "object", typeName(val))
	}
	return obj, nil
}

// requireScalar implements §4.2 step 2 for a required field: missing ->
// MissingParameter, present-but-null -> NullParameter, otherwise the raw
// value for the caller to type-assert.
func (e *Extractor) requireScalar(path, expectedType string) (any, *toolerr.ParameterError) {
	val, _, perr := e.lookup(path, expectedType)
	if perr != nil {
		return nil, perr
	}
	if val == nil {
		return nil, toolerr.NewNullParameter(path, expectedType)
	}
	return val, nil
}

// ---- optional getters: null and missing both collapse to (nil, nil) -------------------------------------------------

// GetOptionalString extracts an optional string at path. A missing key or
// a JSON null value both return (nil, nil); a present value of the wrong
// shape still returns a TypeMismatch error.
func (e *Extractor) GetOptionalString(path string) (*string, *toolerr.ParameterError) {
	val, found, perr := e.lookup(path, "string")
	if perr != nil || !found || val == nil {
		return nil, perr
	}
	s, ok := val.(string)
	if !ok {
		return nil, toolerr.NewTypeMismatch(path, "string", typeName(val))
	}
	return &s, nil
}

// GetOptionalInt extracts an optional integer at path.
func (e *Extractor) GetOptionalInt(path string) (*int64, *toolerr.ParameterError) {
	val, found, perr := e.lookup(path, "integer")
	if perr != nil || !found || val == nil {
		return nil, perr
	}
	n, ok := val.(json.Number)
	if !ok {
		return nil, toolerr.NewTypeMismatch(path, "integer", typeName(val))
	}
	i, err := n.Int64()
	if err != nil {
		return nil, toolerr.NewTypeMismatch(path, "integer", "number")
	}
	return &i, nil
}

// GetOptionalDouble extracts an optional floating-point number at path.
func (e *Extractor) GetOptionalDouble(path string) (*float64, *toolerr.ParameterError) {
	val, found, perr := e.lookup(path, "number")
	if perr != nil || !found || val == nil {
		return nil, perr
	}
	n, ok := val.(json.Number)
	if !ok {
		return nil, toolerr.NewTypeMismatch(path, "number", typeName(val))
	}
	f, err := n.Float64()
	if err != nil {
		return nil, toolerr.NewTypeMismatch(path, "number", "string")
	}
	return &f, nil
}

// GetOptionalBoolean extracts an optional boolean at path.
func (e *Extractor) GetOptionalBoolean(path string) (*bool, *toolerr.ParameterError) {
	val, found, perr := e.lookup(path, "boolean")
	if perr != nil || !found || val == nil {
		return nil, perr
	}
	b, ok := val.(bool)
	if !ok {
		return nil, toolerr.NewTypeMismatch(path, "boolean", typeName(val))
	}
	return &b, nil
}

// GetOptionalArray extracts an optional array at path.
func (e *Extractor) GetOptionalArray(path string) ([]any, *toolerr.ParameterError) {
	val, found, perr := e.lookup(path, "array")
	if perr != nil || !found || val == nil {
		return nil, perr
	}
	arr, ok := val.([]any)
	if !ok {
		return nil, toolerr.NewTypeMismatch(path, "array", typeName(val))
	}
	return arr, nil
}

// GetOptionalObject extracts an optional object at path.
func (e *Extractor) GetOptionalObject(path string) (*Object, *toolerr.ParameterError) {
	val, found, perr := e.lookup(path, "object")
	if perr != nil || !found || val == nil {
		return nil, perr
	}
	obj, ok := val.(*Object)
	if !ok {
		return nil, toolerr.NewTypeMismatch(path, "object", typeName(val))
	}
	return obj, nil
}
