package template

import (
	"io"
)

// TemplateRenderer expands inline template strings. Implementations must
// leave literal text untouched: no HTML autoescaping and block tags that
// swallow the newline that follows them.
type TemplateRenderer interface {
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
