package site

// DocumentKind tags the representation a site edits. The kind selects how
// anchors are located and how presence is detected.
type DocumentKind string

const (
	KindInterface        DocumentKind = "interface"
	KindClass            DocumentKind = "class"
	KindModelDefinition  DocumentKind = "model-definition"
	KindValidationSchema DocumentKind = "validation-schema"
	KindFormMarkup       DocumentKind = "form-markup"
)

// Kinds lists the supported document kinds.
func Kinds() []DocumentKind {
	return []DocumentKind{KindInterface, KindClass, KindModelDefinition, KindValidationSchema, KindFormMarkup}
}

// Valid reports whether k is supported.
func (k DocumentKind) Valid() bool {
	for _, kind := range Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// Markup reports whether documents of this kind are scanned as element trees
// rather than declaration lists.
func (k DocumentKind) Markup() bool {
	return k == KindFormMarkup
}

// Placement positions the fragment relative to a pattern anchor.
type Placement string

const (
	PlaceAfter  Placement = "after"
	PlaceBefore Placement = "before"
)

// Group identifies the element wrapping one form control in markup documents.
type Group struct {
	// Tag is the element name, "div" when empty.
	Tag string `json:"tag,omitempty" yaml:"tag,omitempty"`
	// Match, when set, must appear inside the opening tag.
	Match string `json:"match,omitempty" yaml:"match,omitempty"`
}

// TagName returns the effective tag.
func (g *Group) TagName() string {
	if g == nil || g.Tag == "" {
		return "div"
	}
	return g.Tag
}

// Anchor locates an insertion point. Exactly one of After, Before and Pattern
// is set. After and Before name an existing declaration (or, for markup, a
// registered control); Pattern is an RE2 expression.
type Anchor struct {
	Scope     string    `json:"scope,omitempty" yaml:"scope,omitempty"`
	After     string    `json:"after,omitempty" yaml:"after,omitempty"`
	Before    string    `json:"before,omitempty" yaml:"before,omitempty"`
	Pattern   string    `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Placement Placement `json:"placement,omitempty" yaml:"placement,omitempty"`
	Group     *Group    `json:"group,omitempty" yaml:"group,omitempty"`
}

// Target returns the declaration the anchor refers to, if any.
func (a Anchor) Target() string {
	if a.After != "" {
		return a.After
	}
	return a.Before
}

// InsertBefore reports whether the fragment goes in front of the anchor.
func (a Anchor) InsertBefore() bool {
	if a.Pattern != "" {
		return a.Placement == PlaceBefore
	}
	return a.Before != "" && a.After == ""
}

// Site is one destination representation of a field.
type Site struct {
	Name     string       `json:"name" yaml:"name"`
	Kind     DocumentKind `json:"kind" yaml:"kind"`
	Document string       `json:"document" yaml:"document"`
	Anchor   Anchor       `json:"anchor" yaml:"anchor"`
	Template string       `json:"template" yaml:"template"`
	Order    int          `json:"order,omitempty" yaml:"order,omitempty"`
	Presence string       `json:"presence,omitempty" yaml:"presence,omitempty"`
}

// Catalog is the ordered list of sites for one project layout. Vars are
// default template variables available to document paths, scopes and anchor
// targets.
type Catalog struct {
	Name    string            `json:"name" yaml:"name"`
	Version string            `json:"version,omitempty" yaml:"version,omitempty"`
	Vars    map[string]string `json:"vars,omitempty" yaml:"vars,omitempty"`
	Sites   []Site            `json:"sites" yaml:"sites"`
}

// Site returns the named site.
func (c Catalog) Site(name string) (Site, bool) {
	for _, s := range c.Sites {
		if s.Name == name {
			return s, true
		}
	}
	return Site{}, false
}

// WithVars returns a copy of the catalog whose vars are overlaid with the
// supplied values.
func (c Catalog) WithVars(vars map[string]string) Catalog {
	out := c
	out.Vars = make(map[string]string, len(c.Vars)+len(vars))
	for k, v := range c.Vars {
		out.Vars[k] = v
	}
	for k, v := range vars {
		out.Vars[k] = v
	}
	out.Sites = append([]Site(nil), c.Sites...)
	return out
}
