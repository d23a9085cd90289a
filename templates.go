package fieldprop

import (
	"io/fs"

	"github.com/goliatone/go-fieldprop/pkg/site"
)

// EmbeddedCatalogs exposes the bundled site catalogs so callers can copy and
// extend them without importing the site package directly.
func EmbeddedCatalogs() fs.FS {
	return site.EmbeddedFS()
}
