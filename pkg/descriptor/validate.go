package descriptor

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
)

// ErrMalformed marks descriptors that violate their own invariants. Runs fail
// fast on it before any document is read.
var ErrMalformed = errors.New("malformed descriptor")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// reservedWords covers the ECMAScript/TypeScript keywords that cannot be used
// as bare interface members or object keys in the generated code.
var reservedWords = map[string]struct{}{
	"break": {}, "case": {}, "catch": {}, "class": {}, "const": {}, "continue": {},
	"debugger": {}, "default": {}, "delete": {}, "do": {}, "else": {}, "enum": {},
	"export": {}, "extends": {}, "false": {}, "finally": {}, "for": {}, "function": {},
	"if": {}, "import": {}, "in": {}, "instanceof": {}, "new": {}, "null": {},
	"return": {}, "super": {}, "switch": {}, "this": {}, "throw": {}, "true": {},
	"try": {}, "typeof": {}, "var": {}, "void": {}, "while": {}, "with": {},
	"implements": {}, "interface": {}, "let": {}, "package": {}, "private": {},
	"protected": {}, "public": {}, "static": {}, "yield": {}, "readonly": {},
	"declare": {}, "abstract": {}, "constructor": {},
}

// IsIdentifier reports whether name can be used verbatim in every target
// representation.
func IsIdentifier(name string) bool {
	if !identifierPattern.MatchString(name) {
		return false
	}
	_, reserved := reservedWords[name]
	return !reserved
}

// Validate checks the descriptor invariants. All problems are reported
// together; each joined error wraps ErrMalformed.
func (f Field) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	name := strings.TrimSpace(f.Name)
	switch {
	case name == "":
		add("name is required")
	case name != f.Name:
		add("name %q has surrounding whitespace", f.Name)
	case !IsIdentifier(name):
		add("name %q is not a valid identifier", f.Name)
	}

	if f.Record != "" && !identifierPattern.MatchString(f.Record) {
		add("record %q is not a valid identifier", f.Record)
	}

	if !f.Kind.Valid() {
		add("valueKind %q is not one of %v", f.Kind, Kinds())
	}

	if f.Kind == KindEnum {
		if len(f.EnumValues) == 0 {
			add("enum kind requires at least one enum value")
		}
		seen := make(map[string]struct{}, len(f.EnumValues))
		for idx, value := range f.EnumValues {
			if strings.TrimSpace(value) == "" {
				add("enum value at index %d is blank", idx)
				continue
			}
			if _, dup := seen[value]; dup {
				add("enum value %q is duplicated", value)
			}
			seen[value] = struct{}{}
		}
	} else if len(f.EnumValues) > 0 {
		add("enumValues are only allowed for the enum kind")
	}

	if f.Range != nil {
		switch {
		case !f.Kind.Numeric():
			add("range is only allowed for integer and decimal kinds")
		case f.Range.Empty():
			add("range must set min, max or both")
		default:
			if f.Range.Min != nil && f.Range.Max != nil && *f.Range.Min > *f.Range.Max {
				add("range min %s exceeds max %s", FormatNumber(*f.Range.Min), FormatNumber(*f.Range.Max))
			}
			if f.Kind == KindInteger {
				for _, bound := range []*float64{f.Range.Min, f.Range.Max} {
					if bound != nil && *bound != math.Trunc(*bound) {
						add("integer range bound %s is not integral", FormatNumber(*bound))
					}
				}
			}
		}
	}

	if f.Precision != 0 || f.Scale != 0 {
		switch {
		case f.Kind != KindDecimal:
			add("precision and scale are only allowed for the decimal kind")
		case f.Precision <= 0:
			add("precision must be positive when scale is set")
		case f.Scale < 0 || f.Scale > f.Precision:
			add("scale %d must be between 0 and precision %d", f.Scale, f.Precision)
		}
	}

	if f.After != "" && !identifierPattern.MatchString(f.After) {
		add("after %q is not a valid identifier", f.After)
	}
	if f.After != "" && f.After == f.Name {
		add("after cannot reference the field itself")
	}

	if f.HasDefault() && f.Kind.Valid() {
		if problem := checkDefault(f); problem != "" {
			add("%s", problem)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	label := f.Name
	if label == "" {
		label = "<unnamed>"
	}
	errs := make([]error, 0, len(problems))
	for _, problem := range problems {
		errs = append(errs, fmt.Errorf("%w: field %q: %s", ErrMalformed, label, problem))
	}
	return errors.Join(errs...)
}

func checkDefault(f Field) string {
	value := f.DefaultValue
	switch f.Kind {
	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("defaultValue %v is not a boolean", value)
		}
	case KindInteger, KindDecimal:
		number, ok := NumericValue(value)
		if !ok {
			return fmt.Sprintf("defaultValue %v is not numeric", value)
		}
		if f.Kind == KindInteger && number != math.Trunc(number) {
			return fmt.Sprintf("defaultValue %v is not an integer", value)
		}
		if f.Range != nil {
			if f.Range.Min != nil && number < *f.Range.Min {
				return fmt.Sprintf("defaultValue %v is below range min", value)
			}
			if f.Range.Max != nil && number > *f.Range.Max {
				return fmt.Sprintf("defaultValue %v is above range max", value)
			}
		}
	case KindText:
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("defaultValue %v is not a string", value)
		}
	case KindEnum:
		str, ok := value.(string)
		if !ok || !slices.Contains(f.EnumValues, str) {
			return fmt.Sprintf("defaultValue %v is not one of the enum values", value)
		}
	}
	return ""
}

// NumericValue widens the numeric types produced by the JSON and YAML
// decoders to float64.
func NumericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// ValidateBatch validates every field and rejects duplicate names within the
// same record.
func ValidateBatch(fields []Field) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields supplied", ErrMalformed)
	}
	var errs []error
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if err := field.Validate(); err != nil {
			errs = append(errs, err)
		}
		key := field.Record + "." + field.Name
		if _, dup := seen[key]; dup && field.Name != "" {
			errs = append(errs, fmt.Errorf("%w: field %q: declared more than once", ErrMalformed, field.Name))
		}
		seen[key] = struct{}{}
	}
	return errors.Join(errs...)
}
