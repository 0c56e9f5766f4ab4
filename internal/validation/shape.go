// Package validation checks raw command input against declared shapes and
// normalizes it into Values.
package validation

// Type is the primitive type a field expects
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
)

// Shape is an ordered set of declared fields
type Shape []Field

// Field declares one key of a shape. Build fields with String, Integer,
// Number, Boolean or Object and refine them with the chained modifiers.
type Field struct {
	Name string
	Type Type

	required    bool
	minLen      int
	maxLen      int
	enum        []string
	positive    bool
	nonNegative bool
	def         any
	hasDefault  bool
	fields      Shape
}

func String(name string) Field  { return Field{Name: name, Type: TypeString} }
func Integer(name string) Field { return Field{Name: name, Type: TypeInteger} }
func Number(name string) Field  { return Field{Name: name, Type: TypeNumber} }
func Boolean(name string) Field { return Field{Name: name, Type: TypeBoolean} }

// Object declares a nested object validated against fields
func Object(name string, fields ...Field) Field {
	return Field{Name: name, Type: TypeObject, fields: fields}
}

// Required marks the field as mandatory
func (f Field) Required() Field {
	f.required = true
	return f
}

// Length bounds a string field by rune count. A max of 0 leaves it unbounded.
func (f Field) Length(min, max int) Field {
	f.minLen = min
	f.maxLen = max
	return f
}

// OneOf restricts a string field to the given values
func (f Field) OneOf(values ...string) Field {
	f.enum = values
	return f
}

// Positive requires a numeric field to be greater than zero
func (f Field) Positive() Field {
	f.positive = true
	return f
}

// NonNegative requires a numeric field to be zero or greater
func (f Field) NonNegative() Field {
	f.nonNegative = true
	return f
}

// Default sets the value used when the field is absent
func (f Field) Default(value any) Field {
	f.def = value
	f.hasDefault = true
	return f
}

// hasNestedDefaults reports whether an absent object should still be
// materialized to carry its fields' defaults
func (f Field) hasNestedDefaults() bool {
	for _, nested := range f.fields {
		if nested.hasDefault || (nested.Type == TypeObject && nested.hasNestedDefaults()) {
			return true
		}
	}
	return false
}
