package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-fieldprop/pkg/descriptor"
)

// Defaults seeds the authoring prompts.
type Defaults struct {
	Record string
}

// Author asks for one or more fields until the user declines to add another.
// Every field is validated before the next one is requested.
func Author(ctx context.Context, driver Driver, defaults Defaults) ([]descriptor.Field, error) {
	if driver == nil {
		return nil, errors.New("prompt: driver is nil")
	}
	var fields []descriptor.Field
	for {
		field, err := authorField(ctx, driver, defaults)
		if err != nil {
			return nil, err
		}
		if err := descriptor.ValidateBatch(append(fields, field)); err != nil {
			return nil, fmt.Errorf("prompt: %w", err)
		}
		fields = append(fields, field)
		defaults.Record = field.Record

		more, err := driver.Confirm(ctx, ConfirmConfig{Message: "Add another field?"})
		if err != nil {
			return nil, err
		}
		if !more {
			return fields, nil
		}
	}
}

func authorField(ctx context.Context, d Driver, defaults Defaults) (descriptor.Field, error) {
	var f descriptor.Field
	var err error

	if f.Name, err = d.Input(ctx, InputConfig{Message: "Field name", Validator: identifier}); err != nil {
		return f, err
	}
	f.Name = strings.TrimSpace(f.Name)
	if f.Record, err = d.Input(ctx, InputConfig{Message: "Record", Default: defaults.Record}); err != nil {
		return f, err
	}
	f.Record = strings.TrimSpace(f.Record)

	kinds := descriptor.Kinds()
	options := make([]string, len(kinds))
	for i, k := range kinds {
		options[i] = string(k)
	}
	idx, err := d.Select(ctx, SelectConfig{Message: "Value kind", Options: options})
	if err != nil {
		return f, err
	}
	if idx < 0 || idx >= len(kinds) {
		return f, fmt.Errorf("prompt: invalid kind selection %d", idx)
	}
	f.Kind = kinds[idx]

	switch f.Kind {
	case descriptor.KindEnum:
		raw, err := d.Input(ctx, InputConfig{Message: "Enum values (comma separated)", Validator: required})
		if err != nil {
			return f, err
		}
		f.EnumValues = splitList(raw)
	case descriptor.KindInteger, descriptor.KindDecimal:
		if f.Range, err = askRange(ctx, d); err != nil {
			return f, err
		}
		if f.Kind == descriptor.KindDecimal {
			if f.Precision, f.Scale, err = askPrecision(ctx, d); err != nil {
				return f, err
			}
		}
	}

	nullable, err := d.Confirm(ctx, ConfirmConfig{Message: "Nullable?", Default: true})
	if err != nil {
		return f, err
	}
	if !nullable {
		f.Nullable = descriptor.Bool(false)
	}

	if f.Comment, err = d.Input(ctx, InputConfig{Message: "Comment"}); err != nil {
		return f, err
	}
	rawDefault, err := d.Input(ctx, InputConfig{Message: "Default value (blank for none)", Validator: defaultValidator(f)})
	if err != nil {
		return f, err
	}
	if f.DefaultValue, err = parseDefault(f, rawDefault); err != nil {
		return f, err
	}

	derived := descriptor.DefaultLabeler(f.Name)
	label, err := d.Input(ctx, InputConfig{Message: "Label", Default: derived})
	if err != nil {
		return f, err
	}
	if label = strings.TrimSpace(label); label != derived {
		f.Label = label
	}
	if f.Placeholder, err = d.Input(ctx, InputConfig{Message: "Placeholder"}); err != nil {
		return f, err
	}
	after, err := d.Input(ctx, InputConfig{Message: "Insert after field (blank for catalog anchors)"})
	if err != nil {
		return f, err
	}
	f.After = strings.TrimSpace(after)
	return f, nil
}

func askRange(ctx context.Context, d Driver) (*descriptor.Range, error) {
	var r descriptor.Range
	for _, bound := range []struct {
		message string
		target  **float64
	}{
		{"Minimum (blank for none)", &r.Min},
		{"Maximum (blank for none)", &r.Max},
	} {
		raw, err := d.Input(ctx, InputConfig{Message: bound.message, Validator: optionalNumber})
		if err != nil {
			return nil, err
		}
		if raw = strings.TrimSpace(raw); raw != "" {
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("prompt: %s: %w", bound.message, err)
			}
			*bound.target = &value
		}
	}
	if r.Empty() {
		return nil, nil
	}
	return &r, nil
}

func askPrecision(ctx context.Context, d Driver) (int, int, error) {
	raw, err := d.Input(ctx, InputConfig{Message: "Precision (blank for none)", Validator: optionalInteger})
	if err != nil {
		return 0, 0, err
	}
	if strings.TrimSpace(raw) == "" {
		return 0, 0, nil
	}
	precision, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, 0, fmt.Errorf("prompt: precision: %w", err)
	}
	raw, err = d.Input(ctx, InputConfig{Message: "Scale", Default: "0", Validator: optionalInteger})
	if err != nil {
		return 0, 0, err
	}
	scale := 0
	if strings.TrimSpace(raw) != "" {
		if scale, err = strconv.Atoi(strings.TrimSpace(raw)); err != nil {
			return 0, 0, fmt.Errorf("prompt: scale: %w", err)
		}
	}
	return precision, scale, nil
}

// parseDefault converts prompt text to the literal type the kind expects.
func parseDefault(f descriptor.Field, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	switch f.Kind {
	case descriptor.KindBoolean:
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("prompt: default %q is not a boolean", raw)
		}
		return value, nil
	case descriptor.KindInteger:
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("prompt: default %q is not an integer", raw)
		}
		return value, nil
	case descriptor.KindDecimal:
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("prompt: default %q is not a number", raw)
		}
		return value, nil
	default:
		return raw, nil
	}
}

func defaultValidator(f descriptor.Field) func(string) error {
	return func(raw string) error {
		_, err := parseDefault(f, raw)
		return err
	}
}

func identifier(raw string) error {
	if !descriptor.IsIdentifier(strings.TrimSpace(raw)) {
		return fmt.Errorf("%q is not a valid identifier", raw)
	}
	return nil
}

func required(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("a value is required")
	}
	return nil
}

func optionalNumber(raw string) error {
	if raw = strings.TrimSpace(raw); raw == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return fmt.Errorf("%q is not a number", raw)
	}
	return nil
}

func optionalInteger(raw string) error {
	if raw = strings.TrimSpace(raw); raw == "" {
		return nil
	}
	if _, err := strconv.Atoi(raw); err != nil {
		return fmt.Errorf("%q is not an integer", raw)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
