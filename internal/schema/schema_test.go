package schema_test

import (
	"testing"

	"github.com/kestrel-labs/toolcore/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1: object with a single Number(min=0,max=1) property, non-strict, no
// required properties declared.
func TestToJSONSchema_S1_ObjectEmission(t *testing.T) {
	value := schema.NewNumber("a probability").WithMinimum(0).WithMaximum(1)
	obj := schema.NewObjectBuilder("a probability wrapper").
		AddProperty("value", value, false).
		AdditionalProperties(false).
		Build()

	got := obj.ToJSONSchema(false)

	want := map[string]any{
		"type":        "object",
		"description": "a probability wrapper",
		"properties": map[string]any{
			"value": map[string]any{
				"type":        "number",
				"description": "a probability",
				"minimum":     float64(0),
				"maximum":     float64(1),
			},
		},
		"required":             []string{},
		"additionalProperties": false,
	}
	assert.Equal(t, want, got)

	require.NoError(t, schema.ValidateAsMetaSchema(got))
}

// Invariant #3: strict mode lists every declared property as required,
// regardless of its declared Required flag.
func TestToJSONSchema_StrictRequiresAllProperties(t *testing.T) {
	obj := schema.NewObjectBuilder("thing").
		AddProperty("a", schema.NewString("a"), true).
		AddProperty("b", schema.NewString("b"), false).
		AdditionalProperties(true).
		Build()

	got := obj.ToJSONSchema(true)
	required, ok := got["required"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"a", "b"}, required)
}

func TestToJSONSchema_NonStrictOnlyListsDeclaredRequired(t *testing.T) {
	obj := schema.NewObjectBuilder("thing").
		AddProperty("a", schema.NewString("a"), true).
		AddProperty("b", schema.NewString("b"), false).
		Build()

	got := obj.ToJSONSchema(false)
	required, ok := got["required"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"a"}, required)
}

// Invariant #4: wrapping Nullable twice collapses to a single null entry
// in the emitted type set.
func TestToJSONSchema_NullableIdempotence(t *testing.T) {
	once := schema.NewNullable(schema.NewString("name"))
	twice := schema.NewNullable(once)

	gotOnce := once.ToJSONSchema(false)
	gotTwice := twice.ToJSONSchema(false)

	assert.Equal(t, gotOnce, gotTwice)
	assert.Equal(t, []string{"string", "null"}, gotOnce["type"])
}

func TestToJSONSchema_NullableOverArray(t *testing.T) {
	arr := schema.NewArray("tags", schema.NewString("tag"))
	nullable := schema.NewNullable(arr)

	got := nullable.ToJSONSchema(false)
	assert.Equal(t, []string{"array", "null"}, got["type"])
}

func TestObjectBuilder_DuplicatePropertyPanics(t *testing.T) {
	b := schema.NewObjectBuilder("thing").AddProperty("a", schema.NewString(""), true)
	assert.Panics(t, func() {
		b.AddProperty("a", schema.NewString(""), false)
	})
}
