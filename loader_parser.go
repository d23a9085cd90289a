package fieldprop

import (
	"github.com/goliatone/go-fieldprop/pkg/descriptor"
	"github.com/goliatone/go-fieldprop/pkg/site"
)

// LoadDescriptors reads a JSON or YAML descriptor file holding one field or a
// batch.
func LoadDescriptors(path string) ([]Field, error) {
	return descriptor.LoadFile(path)
}

// LoadCatalog reads a catalog file. An empty path selects the bundled
// default catalog.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return site.Default()
	}
	return site.LoadFile(path)
}
