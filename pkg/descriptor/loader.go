package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// documentFile is the batch form of a descriptor file. A file that has no
// "fields" key is decoded as a single Field instead.
type documentFile struct {
	Record string  `json:"record,omitempty" yaml:"record,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// LoadFile reads and parses a descriptor file from disk.
func LoadFile(path string) ([]Field, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("descriptor: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads and parses a descriptor file from an fs.FS.
func LoadFS(fsys fs.FS, name string) ([]Field, error) {
	if fsys == nil {
		return nil, fmt.Errorf("descriptor: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("descriptor: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// Parse decodes JSON or YAML descriptor content. Only decoding happens here;
// invariants are checked by Validate so malformed descriptors can still be
// reported field by field.
func Parse(data []byte, source string) ([]Field, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("descriptor: file %s is empty", source)
	}

	var batch documentFile
	if err := decode(data, &batch); err != nil {
		return nil, fmt.Errorf("descriptor: parse %s: %w", source, err)
	}
	if len(batch.Fields) > 0 {
		for i := range batch.Fields {
			if batch.Fields[i].Record == "" {
				batch.Fields[i].Record = batch.Record
			}
		}
		return batch.Fields, nil
	}

	var single Field
	if err := decode(data, &single); err != nil {
		return nil, fmt.Errorf("descriptor: parse %s: %w", source, err)
	}
	if single.Name == "" && single.Kind == "" {
		return nil, fmt.Errorf("descriptor: file %s defines no fields", source)
	}
	if single.Record == "" {
		single.Record = batch.Record
	}
	return []Field{single}, nil
}

func decode(data []byte, out any) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, out); err == nil {
			return nil
		}
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid JSON or YAML: %w", err)
	}
	return nil
}

// Marshal encodes fields as a YAML descriptor file. A single field is written
// in the flat form; several fields use the batch form.
func Marshal(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	var payload any
	if len(fields) == 1 {
		payload = fields[0]
	} else {
		payload = documentFile{Fields: fields}
	}
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("descriptor: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("descriptor: encode: %w", err)
	}
	return buf.Bytes(), nil
}
