package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-fieldprop/pkg/descriptor"
)

// Transformer patches a descriptor batch before validation. Implementations
// can relabel fields, move anchors or rename fields.
type Transformer interface {
	Transform(ctx context.Context, fields []descriptor.Field) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, fields []descriptor.Field) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, fields []descriptor.Field) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, fields)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// The document shape supports a batch record and per-field patches:
//
//	{
//	  "record": "VitalsSample",
//	  "fields": {
//	    "edemaSeverity": {"label": "Swelling", "after": "chestPainSeverity"}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonPresetDocument
}

type jsonPresetDocument struct {
	Record string                    `json:"record"`
	Fields map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label       string `json:"label"`
	Comment     string `json:"comment"`
	Placeholder string `json:"placeholder"`
	After       string `json:"after"`
	Rename      string `json:"rename"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonPresetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON preset document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the patches. Every patched field must exist in the batch.
func (t *JSONPresetTransformer) Transform(ctx context.Context, fields []descriptor.Field) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.document.Record != "" {
		for idx := range fields {
			if fields[idx].Record == "" {
				fields[idx].Record = t.document.Record
			}
		}
	}
	for name, patch := range t.document.Fields {
		field := findField(fields, name)
		if field == nil {
			return fmt.Errorf("json preset transformer: field %q not found", name)
		}
		applyFieldPatch(field, patch)
	}
	return nil
}

func applyFieldPatch(field *descriptor.Field, patch jsonFieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Comment != "" {
		field.Comment = patch.Comment
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if patch.After != "" {
		field.After = patch.After
	}
	if strings.TrimSpace(patch.Rename) != "" {
		field.Name = strings.TrimSpace(patch.Rename)
	}
}

func findField(fields []descriptor.Field, name string) *descriptor.Field {
	for idx := range fields {
		if fields[idx].Name == name {
			return &fields[idx]
		}
	}
	return nil
}

// transform runs the registered transformers over a copy of the batch so the
// caller's descriptors stay untouched.
func (o *Orchestrator) transform(ctx context.Context, fields []descriptor.Field) ([]descriptor.Field, error) {
	out := append([]descriptor.Field(nil), fields...)
	for _, t := range o.transformers {
		if err := t.Transform(ctx, out); err != nil {
			return nil, fmt.Errorf("orchestrator: transform fields: %w", err)
		}
	}
	return out, nil
}
