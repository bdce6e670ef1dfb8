// Package schema models tool parameter shapes as a recursive sum type and
// emits them as JSON Schema for advertisement to a language model. Schemas
// are immutable values produced through a fluent builder; nothing in this
// package performs runtime argument validation beyond what is needed to
// build a well-formed schema.
package schema

import "fmt"

// Kind tags which Schema variant a value carries.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindArray
	KindObject
	KindNullable
)

// Property is a named, typed member of an Object schema.
type Property struct {
	Name     string
	Schema   Schema
	Required bool
}

// Schema is the recursive sum type described in the data model: every
// variant carries a description, and only the fields relevant to Kind are
// populated. Values are built through New*() constructors and the fluent
// With* methods below, and are never mutated in place.
type Schema struct {
	kind        Kind
	description string

	// KindString
	enumValues []string
	pattern    string
	minLength  *int
	maxLength  *int

	// KindNumber
	isInteger        bool
	minimum          *float64
	maximum          *float64
	exclusiveMinimum *float64
	exclusiveMaximum *float64
	multipleOf       *float64

	// KindArray
	items       *Schema
	minItems    *int
	maxItems    *int
	uniqueItems bool

	// KindObject
	properties           []Property
	additionalProperties bool

	// KindNullable
	underlying *Schema
}

// Kind reports which variant this schema is.
func (s Schema) Kind() Kind { return s.kind }

// Description reports the schema's human-readable description.
func (s Schema) Description() string { return s.description }

// NewString builds a String schema with the given description.
func NewString(description string) Schema {
	return Schema{kind: KindString, description: description}
}

// WithEnum returns a copy of s with its enumValues set.
func (s Schema) WithEnum(values ...string) Schema {
	s.enumValues = append([]string(nil), values...)
	return s
}

// WithPattern returns a copy of s with its regex pattern set.
func (s Schema) WithPattern(pattern string) Schema {
	s.pattern = pattern
	return s
}

// WithMinLength returns a copy of s with a minimum string length.
func (s Schema) WithMinLength(n int) Schema {
	v := n
	s.minLength = &v
	return s
}

// WithMaxLength returns a copy of s with a maximum string length.
func (s Schema) WithMaxLength(n int) Schema {
	v := n
	s.maxLength = &v
	return s
}

// NewNumber builds a Number schema (isInteger=false) with the given description.
func NewNumber(description string) Schema {
	return Schema{kind: KindNumber, description: description}
}

// NewInteger builds a Number schema with isInteger=true.
func NewInteger(description string) Schema {
	return Schema{kind: KindNumber, description: description, isInteger: true}
}

// WithMinimum returns a copy of s with an inclusive minimum.
func (s Schema) WithMinimum(v float64) Schema {
	s.minimum = &v
	return s
}

// WithMaximum returns a copy of s with an inclusive maximum.
func (s Schema) WithMaximum(v float64) Schema {
	s.maximum = &v
	return s
}

// WithExclusiveMinimum returns a copy of s with an exclusive minimum.
func (s Schema) WithExclusiveMinimum(v float64) Schema {
	s.exclusiveMinimum = &v
	return s
}

// WithExclusiveMaximum returns a copy of s with an exclusive maximum.
func (s Schema) WithExclusiveMaximum(v float64) Schema {
	s.exclusiveMaximum = &v
	return s
}

// WithMultipleOf returns a copy of s with a multipleOf constraint. v must be
// > 0; callers violating this invariant get a schema that silently ignores
// the constraint on emission rather than a panic, matching the package's
// build-don't-validate stance for constraint values.
func (s Schema) WithMultipleOf(v float64) Schema {
	if v <= 0 {
		return s
	}
	s.multipleOf = &v
	return s
}

// NewBoolean builds a Boolean schema with the given description.
func NewBoolean(description string) Schema {
	return Schema{kind: KindBoolean, description: description}
}

// NewArray builds an Array schema over the given item schema.
func NewArray(description string, items Schema) Schema {
	it := items
	return Schema{kind: KindArray, description: description, items: &it}
}

// WithMinItems returns a copy of s with a minimum item count.
func (s Schema) WithMinItems(n int) Schema {
	if n < 0 {
		n = 0
	}
	v := n
	s.minItems = &v
	return s
}

// WithMaxItems returns a copy of s with a maximum item count.
func (s Schema) WithMaxItems(n int) Schema {
	v := n
	s.maxItems = &v
	return s
}

// WithUniqueItems returns a copy of s with uniqueItems set.
func (s Schema) WithUniqueItems(unique bool) Schema {
	s.uniqueItems = unique
	return s
}

// NewObject builds an Object schema from an ordered list of properties.
// Property names must be unique; AddProperty enforces this at build time
// via ObjectBuilder, but NewObject itself trusts its caller (it is the
// low-level constructor used by the builder).
func NewObject(description string, properties []Property, additionalProperties bool) Schema {
	return Schema{
		kind:                 KindObject,
		description:          description,
		properties:           append([]Property(nil), properties...),
		additionalProperties: additionalProperties,
	}
}

// Properties returns the object's declared properties in declaration order.
func (s Schema) Properties() []Property {
	return append([]Property(nil), s.properties...)
}

// AdditionalProperties reports the object's additionalProperties flag.
func (s Schema) AdditionalProperties() bool { return s.additionalProperties }

// Items returns the array's item schema. Panics if s is not an Array; only
// call after checking Kind().
func (s Schema) Items() Schema { return *s.items }

// Underlying returns the wrapped schema of a Nullable. Panics if s is not
// Nullable; only call after checking Kind().
func (s Schema) Underlying() Schema { return *s.underlying }

// NewNullable wraps s so that its emitted JSON Schema type also admits
// null. Nullable(Nullable(s)) collapses to a single null entry on
// emission (invariant #4) rather than at construction time, so wrapping
// twice is harmless but not rewritten here.
func NewNullable(s Schema) Schema {
	inner := s
	return Schema{kind: KindNullable, description: s.description, underlying: &inner}
}

// ObjectBuilder assembles an Object schema while enforcing unique property
// names, mirroring the fluent builder style used throughout this codebase
// (see ToolBuilder in the agent package).
type ObjectBuilder struct {
	description          string
	properties           []Property
	seen                 map[string]bool
	additionalProperties bool
}

// NewObjectBuilder starts a new Object schema builder.
func NewObjectBuilder(description string) *ObjectBuilder {
	return &ObjectBuilder{description: description, seen: map[string]bool{}}
}

// AddProperty appends a property to the object under construction. Panics
// on a duplicate name: the data model declares property names unique
// within an object, so a duplicate is a programmer error caught at build
// time, the same stance ToolBuilder takes on a missing handler.
func (b *ObjectBuilder) AddProperty(name string, s Schema, required bool) *ObjectBuilder {
	if b.seen[name] {
		panic(fmt.Sprintf("schema: duplicate property %q in object", name))
	}
	b.seen[name] = true
	b.properties = append(b.properties, Property{Name: name, Schema: s, Required: required})
	return b
}

// AdditionalProperties sets whether the object permits keys beyond its
// declared properties.
func (b *ObjectBuilder) AdditionalProperties(allow bool) *ObjectBuilder {
	b.additionalProperties = allow
	return b
}

// Build finalizes the Object schema.
func (b *ObjectBuilder) Build() Schema {
	return NewObject(b.description, b.properties, b.additionalProperties)
}
