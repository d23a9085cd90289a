package descriptor

import (
	"math"
	"strconv"
)

// ValueKind enumerates the value shapes a propagated field can take.
type ValueKind string

const (
	KindBoolean ValueKind = "boolean"
	KindInteger ValueKind = "integer"
	KindDecimal ValueKind = "decimal"
	KindText    ValueKind = "text"
	KindEnum    ValueKind = "enum"
)

// Kinds returns every supported value kind in declaration order.
func Kinds() []ValueKind {
	return []ValueKind{KindBoolean, KindInteger, KindDecimal, KindText, KindEnum}
}

// Valid reports whether k is one of the supported kinds.
func (k ValueKind) Valid() bool {
	switch k {
	case KindBoolean, KindInteger, KindDecimal, KindText, KindEnum:
		return true
	default:
		return false
	}
}

// Numeric reports whether the kind accepts a range.
func (k ValueKind) Numeric() bool {
	return k == KindInteger || k == KindDecimal
}

// Range bounds numeric fields. Either side may be omitted.
type Range struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Empty reports whether neither bound is set.
func (r *Range) Empty() bool {
	return r == nil || (r.Min == nil && r.Max == nil)
}

// Field describes one field to add. Struct tags follow the descriptor file
// format so the same type round-trips through JSON and YAML.
type Field struct {
	Name         string    `json:"name" yaml:"name"`
	Record       string    `json:"record,omitempty" yaml:"record,omitempty"`
	Kind         ValueKind `json:"valueKind" yaml:"valueKind"`
	EnumValues   []string  `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`
	Range        *Range    `json:"range,omitempty" yaml:"range,omitempty"`
	Nullable     *bool     `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Comment      string    `json:"comment,omitempty" yaml:"comment,omitempty"`
	DefaultValue any       `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Label        string    `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder  string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Precision    int       `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale        int       `json:"scale,omitempty" yaml:"scale,omitempty"`
	After        string    `json:"after,omitempty" yaml:"after,omitempty"`
}

// IsNullable reports the effective nullability. Fields are optional additions
// unless the descriptor explicitly says otherwise.
func (f Field) IsNullable() bool {
	if f.Nullable == nil {
		return true
	}
	return *f.Nullable
}

// HasDefault reports whether a default literal was supplied.
func (f Field) HasDefault() bool {
	return f.DefaultValue != nil
}

// DisplayLabel returns the explicit label or one derived from the name.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return DefaultLabeler(f.Name)
}

// Bool is a convenience for building descriptors in code.
func Bool(v bool) *bool {
	return &v
}

// Float is a convenience for building ranges in code.
func Float(v float64) *float64 {
	return &v
}

// FormatNumber renders a bound without a trailing fraction when it is
// integral, so 10 prints as "10" and 2.5 as "2.5".
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
