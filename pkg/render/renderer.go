package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-fieldprop/pkg/descriptor"
	"github.com/goliatone/go-fieldprop/pkg/render/template"
	"github.com/goliatone/go-fieldprop/pkg/render/template/gotemplate"
	"github.com/goliatone/go-fieldprop/pkg/site"
)

// Option customises a Renderer.
type Option func(*Renderer)

// WithEngine overrides the template engine. Engines must not autoescape and
// should trim whitespace around block tags.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// Renderer expands site templates into insertable fragments. Rendering is
// pure: the same field, site, indent and vars always give the same fragment.
type Renderer struct {
	engine template.TemplateRenderer
}

// New constructs a Renderer backed by the pongo2 engine unless an engine is
// supplied.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.engine == nil {
		engine, err := gotemplate.New()
		if err != nil {
			return nil, fmt.Errorf("render: template engine: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

// Render expands the site template for field and indents every non-blank
// line with indent. The fragment ends with exactly one newline.
func (r *Renderer) Render(field descriptor.Field, s site.Site, indent string, vars ...map[string]string) (string, error) {
	if r == nil || r.engine == nil {
		return "", errors.New("render: renderer is not initialised")
	}
	if strings.TrimSpace(s.Template) == "" {
		return "", fmt.Errorf("render: site %q has no template", s.Name)
	}
	out, err := r.engine.RenderString(s.Template, Context(field, mergeVars(vars)))
	if err != nil {
		return "", fmt.Errorf("render: site %q field %q: %w", s.Name, field.Name, err)
	}
	return Indent(out, indent), nil
}

// Expand renders a catalog string such as a document path, scope or anchor
// target. Text without template tags is returned unchanged.
func (r *Renderer) Expand(text string, field descriptor.Field, vars map[string]string) (string, error) {
	if !strings.Contains(text, "{{") && !strings.Contains(text, "{%") {
		return text, nil
	}
	if r == nil || r.engine == nil {
		return "", errors.New("render: renderer is not initialised")
	}
	out, err := r.engine.RenderString(text, Context(field, vars))
	if err != nil {
		return "", fmt.Errorf("render: expand %q: %w", text, err)
	}
	return out, nil
}

// ExpandVars renders var values that reference other vars. Each value is
// rendered against the raw set, so references resolve one level deep.
func (r *Renderer) ExpandVars(vars map[string]string) (map[string]string, error) {
	if r == nil || r.engine == nil {
		return nil, errors.New("render: renderer is not initialised")
	}
	out := make(map[string]string, len(vars))
	for key, value := range vars {
		if !strings.Contains(value, "{{") && !strings.Contains(value, "{%") {
			out[key] = value
			continue
		}
		expanded, err := r.engine.RenderString(value, vars)
		if err != nil {
			return nil, fmt.Errorf("render: expand var %q: %w", key, err)
		}
		out[key] = expanded
	}
	return out, nil
}

// Indent prefixes every non-blank line with indent, empties whitespace-only
// lines and normalises the trailing newlines to exactly one. Leading blank
// lines are kept so templates can open with a separator.
func Indent(fragment, indent string) string {
	body := strings.TrimRight(fragment, "\n")
	if strings.TrimSpace(body) == "" {
		return ""
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = indent + strings.TrimRight(line, " \t\r")
	}
	return strings.Join(lines, "\n") + "\n"
}

func mergeVars(vars []map[string]string) map[string]string {
	switch len(vars) {
	case 0:
		return nil
	case 1:
		return vars[0]
	}
	out := make(map[string]string)
	for _, set := range vars {
		for key, value := range set {
			out[key] = value
		}
	}
	return out
}
