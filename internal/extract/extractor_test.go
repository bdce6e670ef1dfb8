package extract_test

import (
	"testing"

	"github.com/kestrel-labs/toolcore/internal/extract"
	"github.com/kestrel-labs/toolcore/internal/toolerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustExtractor(t *testing.T, raw string) *extract.Extractor {
	t.Helper()
	e, err := extract.NewFromRaw([]byte(raw))
	require.NoError(t, err)
	return e
}

// S4: nested missing parameter reports the available keys of the object
// containing the final segment, never the root's.
func TestGetIntEnhanced_S4_NestedMissingReportsLocalKeys(t *testing.T) {
	e := mustExtractor(t, `{"user":{"profile":{"firstName":"A","lastName":"B","settings":{"theme":"x"}}}}`)

	_, perr := e.GetIntEnhanced("user.profile.age")
	require.NotNil(t, perr)
	assert.Equal(t, toolerr.MissingParameter, perr.Kind)
	assert.Equal(t, "user.profile.age", perr.Path)
	assert.Equal(t, "integer", perr.ExpectedType)
	assert.Equal(t, []string{"firstName", "lastName", "settings"}, perr.Available)
	assert.Equal(t,
		"required parameter 'user.profile.age' (type: integer) is missing (available: firstName, lastName, settings)",
		perr.Error())
}

// S5: type mismatch on a top-level field.
func TestGetDoubleEnhanced_S5_TypeMismatch(t *testing.T) {
	e := mustExtractor(t, `{"a":5,"b":"3"}`)

	_, perr := e.GetDoubleEnhanced("b")
	require.NotNil(t, perr)
	assert.Equal(t, toolerr.TypeMismatch, perr.Kind)
	assert.Equal(t, "parameter 'b' has wrong type - expected number but got string", perr.Error())
}

func TestGetStringEnhanced_NullParameter(t *testing.T) {
	e := mustExtractor(t, `{"name":null}`)

	_, perr := e.GetStringEnhanced("name")
	require.NotNil(t, perr)
	assert.Equal(t, toolerr.NullParameter, perr.Kind)
	assert.Equal(t, "parameter 'name' (type: string) is required but value was null", perr.Error())
}

func TestGetOptionalString_NullAndMissingBothCollapse(t *testing.T) {
	e := mustExtractor(t, `{"name":null}`)

	v, perr := e.GetOptionalString("name")
	require.Nil(t, perr)
	assert.Nil(t, v)

	v2, perr2 := e.GetOptionalString("missing")
	require.Nil(t, perr2)
	assert.Nil(t, v2)
}

func TestInvalidNesting_ScalarParent(t *testing.T) {
	e := mustExtractor(t, `{"a":"scalar"}`)

	_, perr := e.GetStringEnhanced("a.b")
	require.NotNil(t, perr)
	assert.Equal(t, toolerr.InvalidNesting, perr.Kind)
	assert.Equal(t, "cannot access parameter 'b' because parent 'a' is string, not an object", perr.Error())
}

func TestInvalidNesting_NullParent(t *testing.T) {
	e := mustExtractor(t, `{"a":null}`)

	_, perr := e.GetStringEnhanced("a.b")
	require.NotNil(t, perr)
	assert.Equal(t, toolerr.InvalidNesting, perr.Kind)
	assert.Equal(t, "cannot access parameter 'b' because parent 'a' is null, not an object", perr.Error())
}

func TestArrayIndexing(t *testing.T) {
	e := mustExtractor(t, `{"items":[10,20,30]}`)

	v, perr := e.GetIntEnhanced("items[1]")
	require.Nil(t, perr)
	assert.Equal(t, int64(20), v)
}

func TestArrayIndexOutOfRange(t *testing.T) {
	e := mustExtractor(t, `{"items":[10]}`)

	_, perr := e.GetIntEnhanced("items[5]")
	require.NotNil(t, perr)
	assert.Equal(t, toolerr.MissingParameter, perr.Kind)
}

// Invariant #5: extractor calls never panic for any JSON input, even on
// malformed paths or wrong-shaped documents.
func TestExtractorTotality_NeverPanics(t *testing.T) {
	inputs := []string{
		`{}`,
		`[]`,
		`null`,
		`"just a string"`,
		`42`,
		`{"a":[1,2,{"b":3}]}`,
	}
	paths := []string{"a.b.c", "x[0].y", "", "a[-1]", "a[999]"}

	for _, in := range inputs {
		e, err := extract.NewFromRaw([]byte(in))
		require.NoError(t, err)
		for _, p := range paths {
			assert.NotPanics(t, func() {
				_, _ = e.GetStringEnhanced(p)
			})
		}
	}
}

// Invariant #6: MissingParameter raised while resolving a.b.c reports keys
// of the object at path a.b, never the root's.
func TestAvailableKeysLocality(t *testing.T) {
	e := mustExtractor(t, `{"a":{"b":{"x":1,"y":2}},"rootOnly":true}`)

	_, perr := e.GetStringEnhanced("a.b.c")
	require.NotNil(t, perr)
	assert.ElementsMatch(t, []string{"x", "y"}, perr.Available)
}
