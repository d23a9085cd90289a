package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a catalog from disk.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("site: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads a catalog from an fs.FS.
func LoadFS(fsys fs.FS, name string) (Catalog, error) {
	if fsys == nil {
		return Catalog{}, fmt.Errorf("site: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Catalog{}, fmt.Errorf("site: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// Parse decodes a JSON or YAML catalog and validates it. Sites keep their
// file order; Sorted returns them by Order.
func Parse(data []byte, source string) (Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Catalog{}, fmt.Errorf("site: file %s is empty", source)
	}

	var catalog Catalog
	trimmed := bytes.TrimSpace(data)
	decoded := false
	if bytes.HasPrefix(trimmed, []byte("{")) {
		decoded = json.Unmarshal(data, &catalog) == nil
	}
	if !decoded {
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return Catalog{}, fmt.Errorf("site: parse %s: invalid JSON or YAML: %w", source, err)
		}
	}

	if catalog.Name == "" {
		catalog.Name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}
	if err := catalog.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("site: catalog %s: %w", source, err)
	}
	return catalog, nil
}

// Sorted returns the sites ordered by Order; sites with the same order keep
// their catalog position.
func (c Catalog) Sorted() []Site {
	out := append([]Site(nil), c.Sites...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

func isCatalogFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
