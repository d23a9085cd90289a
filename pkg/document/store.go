package document

import (
	"context"
	"strings"
)

// Store reads and writes documents. Identifiers are slash separated paths
// relative to the store root.
type Store interface {
	Load(ctx context.Context, id string) (string, error)
	Save(ctx context.Context, id, content string) error
	// Glob expands a doublestar pattern into sorted identifiers. A pattern
	// without glob syntax is returned as is, whether or not it exists.
	Glob(pattern string) ([]string, error)
}

// IsPattern reports whether id contains glob syntax.
func IsPattern(id string) bool {
	return strings.ContainsAny(id, "*?[{")
}
