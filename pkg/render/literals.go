package render

import (
	"strings"

	"github.com/goliatone/go-fieldprop/pkg/descriptor"
	"github.com/goliatone/go-fieldprop/pkg/render/template/gotemplate"
)

// Control names the form control a field renders as.
type Control string

const (
	ControlCheckbox Control = "checkbox"
	ControlNumber   Control = "number"
	ControlSelect   Control = "select"
	ControlText     Control = "text"
)

// ControlFor maps a value kind to its form control.
func ControlFor(kind descriptor.ValueKind) Control {
	switch kind {
	case descriptor.KindBoolean:
		return ControlCheckbox
	case descriptor.KindInteger, descriptor.KindDecimal:
		return ControlNumber
	case descriptor.KindEnum:
		return ControlSelect
	default:
		return ControlText
	}
}

// TSType returns the TypeScript type of a field, e.g. 'none' | 'mild'.
func TSType(f descriptor.Field) string {
	switch f.Kind {
	case descriptor.KindBoolean:
		return "boolean"
	case descriptor.KindInteger, descriptor.KindDecimal:
		return "number"
	case descriptor.KindEnum:
		return strings.Join(quoteAll(f.EnumValues), " | ")
	default:
		return "string"
	}
}

// SequelizeType returns the DataTypes expression for a field.
func SequelizeType(f descriptor.Field) string {
	switch f.Kind {
	case descriptor.KindBoolean:
		return "DataTypes.BOOLEAN"
	case descriptor.KindInteger:
		return "DataTypes.INTEGER"
	case descriptor.KindDecimal:
		if f.Precision > 0 {
			return "DataTypes.DECIMAL(" + itoa(f.Precision) + ", " + itoa(f.Scale) + ")"
		}
		return "DataTypes.DECIMAL"
	case descriptor.KindEnum:
		return "DataTypes.ENUM(" + strings.Join(quoteAll(f.EnumValues), ", ") + ")"
	default:
		return "DataTypes.TEXT"
	}
}

// ZodType returns the zod schema expression for a field, including range
// checks and optionality.
func ZodType(f descriptor.Field) string {
	var b strings.Builder
	switch f.Kind {
	case descriptor.KindBoolean:
		b.WriteString("z.boolean()")
	case descriptor.KindInteger, descriptor.KindDecimal:
		b.WriteString("z.number()")
		if f.Range != nil && f.Range.Min != nil {
			b.WriteString(".min(" + descriptor.FormatNumber(*f.Range.Min) + ")")
		}
		if f.Range != nil && f.Range.Max != nil {
			b.WriteString(".max(" + descriptor.FormatNumber(*f.Range.Max) + ")")
		}
	case descriptor.KindEnum:
		b.WriteString("z.enum([" + strings.Join(quoteAll(f.EnumValues), ", ") + "])")
	default:
		b.WriteString("z.string()")
	}
	if f.IsNullable() {
		b.WriteString(".optional()")
	}
	return b.String()
}

// DefaultLiteral renders the field default as a source literal, or "" when
// the field has none.
func DefaultLiteral(f descriptor.Field) string {
	if !f.HasDefault() {
		return ""
	}
	switch f.Kind {
	case descriptor.KindBoolean:
		if v, ok := f.DefaultValue.(bool); ok && v {
			return "true"
		}
		return "false"
	case descriptor.KindInteger, descriptor.KindDecimal:
		if v, ok := descriptor.NumericValue(f.DefaultValue); ok {
			return descriptor.FormatNumber(v)
		}
		return ""
	default:
		s, _ := f.DefaultValue.(string)
		return gotemplate.QuoteJS(s)
	}
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = gotemplate.QuoteJS(v)
	}
	return out
}

func itoa(v int) string {
	return descriptor.FormatNumber(float64(v))
}
