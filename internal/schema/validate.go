package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// metaSchemaURL pins the draft this package's emission targets. Emitted
// documents use plain "type"/"properties"/"required" keywords that are
// stable across 2020-12 and draft-07; 2020-12 is the current default in
// this library.
const metaSchemaURL = "https://json-schema.org/draft/2020-12/schema"

// ValidateAsMetaSchema checks that doc (as produced by ToJSONSchema) is
// itself a well-formed JSON Schema document, by compiling it against the
// JSON Schema meta-schema. This is a build/test-time sanity check only --
// it never validates tool arguments against doc, which is explicitly out
// of scope for this package (constraint enforcement beyond type checks is
// advertised to the model, not enforced locally).
func ValidateAsMetaSchema(doc map[string]any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("schema: marshal for meta-validation: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	const resourceName = "inline://schema-under-test.json"
	if err := compiler.AddResource(resourceName, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("schema: add resource: %w", err)
	}

	// Compiling the document as a schema resource already forces the
	// compiler to walk it against the meta-schema's own rules; an
	// invalid shape (e.g. a non-array "required") surfaces here.
	if _, err := compiler.Compile(resourceName); err != nil {
		return fmt.Errorf("schema: does not conform to JSON Schema: %w", err)
	}
	return nil
}
