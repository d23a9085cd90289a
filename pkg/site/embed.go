package site

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed catalogs/*.yaml
var embeddedCatalogs embed.FS

// DefaultCatalogName names the catalog used when callers do not supply one.
const DefaultCatalogName = "typescript-sequelize"

// EmbeddedFS returns the bundled catalogs.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedCatalogs, "catalogs")
	if err != nil {
		// the embed directive guarantees the directory exists
		panic(err)
	}
	return sub
}

// Builtin loads a bundled catalog by name.
func Builtin(name string) (Catalog, error) {
	return LoadFS(EmbeddedFS(), name+".yaml")
}

// Default loads the bundled default catalog.
func Default() (Catalog, error) {
	return Builtin(DefaultCatalogName)
}

// BuiltinNames lists the bundled catalogs.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(EmbeddedFS(), ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isCatalogFile(entry.Name()) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names
}
