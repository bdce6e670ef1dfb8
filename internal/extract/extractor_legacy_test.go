package extract_test

import (
	"testing"

	"github.com/kestrel-labs/toolcore/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The legacy string-error flavor (GetString/GetInt/GetDouble/GetBoolean/
// GetArray/GetObject) is kept alongside the enhanced structured-error one
// per §9 ("keep both") for built-in handlers that compose over plain
// `error` rather than *toolerr.ParameterError.

func TestGetString_LegacyHappyPath(t *testing.T) {
	e := mustExtractor(t, `{"name":"Ada"}`)

	v, err := e.GetString("name")
	require.NoError(t, err)
	assert.Equal(t, "Ada", v)
}

func TestGetString_LegacyMissingReturnsError(t *testing.T) {
	e := mustExtractor(t, `{}`)

	_, err := e.GetString("name")
	require.Error(t, err)
	assert.Equal(t, "required parameter 'name' (type: string) is missing", err.Error())
}

func TestGetInt_LegacyHappyPath(t *testing.T) {
	e := mustExtractor(t, `{"n":42}`)

	v, err := e.GetInt("n")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
}

func TestGetInt_LegacyTypeMismatch(t *testing.T) {
	e := mustExtractor(t, `{"n":"not a number"}`)

	_, err := e.GetInt("n")
	require.Error(t, err)
	assert.Equal(t, "parameter 'n' has wrong type - expected integer but got string", err.Error())
}

func TestGetDouble_LegacyHappyPath(t *testing.T) {
	e := mustExtractor(t, `{"ratio":0.5}`)

	v, err := e.GetDouble("ratio")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
}

func TestGetBoolean_LegacyHappyPath(t *testing.T) {
	e := mustExtractor(t, `{"ok":true}`)

	v, err := e.GetBoolean("ok")
	require.NoError(t, err)
	assert.True(t, v)
}

func TestGetBoolean_LegacyNullIsError(t *testing.T) {
	e := mustExtractor(t, `{"ok":null}`)

	_, err := e.GetBoolean("ok")
	require.Error(t, err)
	assert.Equal(t, "parameter 'ok' (type: boolean) is required but value was null", err.Error())
}

func TestGetArray_LegacyHappyPath(t *testing.T) {
	e := mustExtractor(t, `{"items":[1,2,3]}`)

	v, err := e.GetArray("items")
	require.NoError(t, err)
	assert.Len(t, v, 3)
}

func TestGetObject_LegacyHappyPath(t *testing.T) {
	e := mustExtractor(t, `{"settings":{"theme":"dark"}}`)

	v, err := e.GetObject("settings")
	require.NoError(t, err)
	theme, ok := v.Get("theme")
	require.True(t, ok)
	assert.Equal(t, "dark", theme)
}

func TestGetObject_LegacyInvalidNesting(t *testing.T) {
	e := mustExtractor(t, `{"settings":"not an object"}`)

	_, err := e.GetObject("settings.theme")
	require.Error(t, err)
	assert.Equal(t,
		"cannot access parameter 'theme' because parent 'settings' is string, not an object",
		err.Error())
}
