package schema

// ToJSONSchema renders s as a JSON Schema document per §4.1. strict toggles
// Object's required-list semantics: non-strict lists only properties
// declared required; strict mode lists every declared property, mirroring
// OpenAI "strict function calling".
func (s Schema) ToJSONSchema(strict bool) map[string]any {
	switch s.kind {
	case KindString:
		return s.stringSchema()
	case KindNumber:
		return s.numberSchema()
	case KindBoolean:
		return map[string]any{"type": "boolean", "description": s.description}
	case KindArray:
		return s.arraySchema(strict)
	case KindObject:
		return s.objectSchema(strict)
	case KindNullable:
		return s.nullableSchema(strict)
	default:
		return map[string]any{"description": s.description}
	}
}

func (s Schema) stringSchema() map[string]any {
	out := map[string]any{"type": "string", "description": s.description}
	if len(s.enumValues) > 0 {
		out["enum"] = append([]string(nil), s.enumValues...)
	}
	if s.pattern != "" {
		out["pattern"] = s.pattern
	}
	if s.minLength != nil {
		out["minLength"] = *s.minLength
	}
	if s.maxLength != nil {
		out["maxLength"] = *s.maxLength
	}
	return out
}

func (s Schema) numberSchema() map[string]any {
	typ := "number"
	if s.isInteger {
		typ = "integer"
	}
	out := map[string]any{"type": typ, "description": s.description}
	if s.minimum != nil {
		out["minimum"] = *s.minimum
	}
	if s.maximum != nil {
		out["maximum"] = *s.maximum
	}
	if s.exclusiveMinimum != nil {
		out["exclusiveMinimum"] = *s.exclusiveMinimum
	}
	if s.exclusiveMaximum != nil {
		out["exclusiveMaximum"] = *s.exclusiveMaximum
	}
	if s.multipleOf != nil {
		out["multipleOf"] = *s.multipleOf
	}
	return out
}

func (s Schema) arraySchema(strict bool) map[string]any {
	out := map[string]any{
		"type":        "array",
		"description": s.description,
		"items":       s.items.ToJSONSchema(strict),
	}
	if s.minItems != nil {
		out["minItems"] = *s.minItems
	}
	if s.maxItems != nil {
		out["maxItems"] = *s.maxItems
	}
	if s.uniqueItems {
		out["uniqueItems"] = true
	}
	return out
}

func (s Schema) objectSchema(strict bool) map[string]any {
	props := map[string]any{}
	var required []string
	for _, p := range s.properties {
		props[p.Name] = p.Schema.ToJSONSchema(strict)
		if strict || p.Required {
			required = append(required, p.Name)
		}
	}
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":                 "object",
		"description":          s.description,
		"properties":           props,
		"required":             required,
		"additionalProperties": s.additionalProperties,
	}
}

// nullableSchema emits the underlying schema, then rewrites its "type"
// field to admit null: a scalar "T" becomes ["T","null"]; an existing
// array gains "null" if not already present, keeping repeated wrapping
// idempotent (invariant #4).
func (s Schema) nullableSchema(strict bool) map[string]any {
	out := s.underlying.ToJSONSchema(strict)
	switch t := out["type"].(type) {
	case string:
		if t != "null" {
			out["type"] = []string{t, "null"}
		}
	case []string:
		if !containsStr(t, "null") {
			out["type"] = append(append([]string(nil), t...), "null")
		}
	}
	return out
}

func containsStr(ss []string, target string) bool {
	for _, s := range ss {
		if s == target {
			return true
		}
	}
	return false
}
