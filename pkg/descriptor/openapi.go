package descriptor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// FromOpenAPI derives descriptors from the properties of a component schema
// in an OpenAPI 3 document. When no property names are given every property
// is converted, sorted by name. The schema name doubles as the record name.
func FromOpenAPI(ctx context.Context, data []byte, schemaName string, properties ...string) ([]Field, error) {
	if ctx == nil {
		return nil, errors.New("descriptor: context is required")
	}
	if schemaName == "" {
		return nil, errors.New("descriptor: schema name is required")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("descriptor: load openapi document: %w", err)
	}
	if doc.Components == nil || doc.Components.Schemas == nil {
		return nil, errors.New("descriptor: openapi document has no component schemas")
	}

	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("descriptor: schema %q not found", schemaName)
	}
	schema := ref.Value

	names := properties
	if len(names) == 0 {
		for name := range schema.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		prop, ok := schema.Properties[name]
		if !ok || prop == nil || prop.Value == nil {
			return nil, fmt.Errorf("descriptor: schema %q has no property %q", schemaName, name)
		}
		field, err := fieldFromSchema(name, prop.Value, slices.Contains(schema.Required, name))
		if err != nil {
			return nil, fmt.Errorf("descriptor: schema %q property %q: %w", schemaName, name, err)
		}
		field.Record = schemaName
		fields = append(fields, field)
	}
	return fields, nil
}

func fieldFromSchema(name string, schema *openapi3.Schema, required bool) (Field, error) {
	field := Field{
		Name:         name,
		Comment:      schema.Description,
		Label:        schema.Title,
		DefaultValue: schema.Default,
	}
	if required && !schema.Nullable {
		field.Nullable = Bool(false)
	}

	var typ string
	if schema.Type != nil {
		if values := schema.Type.Slice(); len(values) > 0 {
			typ = values[0]
		}
	}

	switch {
	case len(schema.Enum) > 0:
		field.Kind = KindEnum
		for _, value := range schema.Enum {
			field.EnumValues = append(field.EnumValues, fmt.Sprint(value))
		}
	case typ == openapi3.TypeBoolean:
		field.Kind = KindBoolean
	case typ == openapi3.TypeInteger:
		field.Kind = KindInteger
	case typ == openapi3.TypeNumber:
		field.Kind = KindDecimal
	case typ == openapi3.TypeString:
		field.Kind = KindText
	default:
		return Field{}, fmt.Errorf("unsupported schema type %q", typ)
	}

	if field.Kind.Numeric() && (schema.Min != nil || schema.Max != nil) {
		field.Range = &Range{}
		if schema.Min != nil {
			field.Range.Min = Float(*schema.Min)
		}
		if schema.Max != nil {
			field.Range.Max = Float(*schema.Max)
		}
	}
	return field, nil
}
