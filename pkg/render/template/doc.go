// Package template defines the engine seam site templates are rendered
// through. The gotemplate subpackage provides the pongo2-backed engine.
package template
