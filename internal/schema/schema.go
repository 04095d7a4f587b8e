// Package schema declares the shape of authored content and validates raw
// frontmatter against it.
//
// A schema is a tree of Types built with the constructors in this file
// (String, Number, Array, Object, ...). Validate walks a raw document,
// applies defaults, and reports every violated field, not just the first.
// Range, enum and format constraints are written as go-playground/validator
// rule strings and attached with Rules.
package schema

// Kind identifies the primitive shape of a Type.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindNumber
	KindInteger
	KindBoolean
	KindISODate
	KindPath
	KindArray
	KindObject
)

// String returns the name used in type-mismatch messages.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindISODate:
		return "ISO date"
	case KindPath:
		return "path"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "any"
	}
}

// Type describes one value in a schema. Types are immutable once built;
// Rules returns a copy.
type Type struct {
	kind   Kind
	rules  string
	elem   *Type
	fields []Field
}

// Kind reports the primitive kind.
func (t *Type) Kind() Kind { return t.kind }

// Elem is the element type of an array, nil otherwise.
func (t *Type) Elem() *Type { return t.elem }

// Fields returns the declared fields of an object, in declaration order.
func (t *Type) Fields() []Field { return t.fields }

// Rules attaches validator constraints, e.g. "gte=0,lte=100".
func (t *Type) Rules(rules string) *Type {
	c := *t
	if c.rules != "" && rules != "" {
		c.rules += "," + rules
	} else if rules != "" {
		c.rules = rules
	}
	return &c
}

// Field is a named member of an object type.
type Field struct {
	Name       string
	Type       *Type
	Optional   bool
	Default    interface{}
	hasDefault bool
}

// HasDefault reports whether a default is declared.
func (f Field) HasDefault() bool { return f.hasDefault }

func Any() *Type     { return &Type{kind: KindAny} }
func String() *Type  { return &Type{kind: KindString} }
func Number() *Type  { return &Type{kind: KindNumber} }
func Integer() *Type { return &Type{kind: KindInteger} }
func Boolean() *Type { return &Type{kind: KindBoolean} }

// ISODate accepts YYYY-MM-DD or RFC 3339 strings.
func ISODate() *Type { return &Type{kind: KindISODate} }

// Path accepts a slash-separated identifier with no empty or dot segments.
func Path() *Type { return &Type{kind: KindPath} }

// Array of elem.
func Array(elem *Type) *Type { return &Type{kind: KindArray, elem: elem} }

// Object with the given fields. Keys not declared are passed through.
func Object(fields ...Field) *Type { return &Type{kind: KindObject, fields: fields} }

// Required declares a field that must be present and non-null.
func Required(name string, t *Type) Field {
	return Field{Name: name, Type: t}
}

// Optional declares a field that may be absent.
func Optional(name string, t *Type) Field {
	return Field{Name: name, Type: t, Optional: true}
}

// Default declares an optional field filled with value when absent.
func Default(name string, t *Type, value interface{}) Field {
	return Field{Name: name, Type: t, Optional: true, Default: value, hasDefault: true}
}
