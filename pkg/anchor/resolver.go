package anchor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-fieldprop/pkg/site"
)

// Status classifies a resolution.
type Status int

const (
	// NotFound means the anchor matched nothing.
	NotFound Status = iota
	// Unique means the anchor matched exactly one location.
	Unique
	// Ambiguous means the anchor matched more than one location.
	Ambiguous
)

func (s Status) String() string {
	switch s {
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	default:
		return "not-found"
	}
}

// Resolution is the outcome of resolving one anchor against one document.
type Resolution struct {
	Status Status
	// Position is the byte offset where a fragment is inserted. Only set
	// when Status is Unique.
	Position int
	// Indent is the leading whitespace of the anchor line.
	Indent string
	// Count is the number of candidate locations found.
	Count  int
	Detail string
}

// Err returns nil for a unique resolution and a wrapped ErrNotFound or
// ErrAmbiguous otherwise.
func (r Resolution) Err() error {
	switch r.Status {
	case Unique:
		return nil
	case Ambiguous:
		return fmt.Errorf("%w: %s", ErrAmbiguous, r.Detail)
	default:
		return fmt.Errorf("%w: %s", ErrNotFound, r.Detail)
	}
}

func notFound(format string, args ...any) Resolution {
	return Resolution{Status: NotFound, Detail: fmt.Sprintf(format, args...)}
}

func ambiguous(count int, format string, args ...any) Resolution {
	return Resolution{Status: Ambiguous, Count: count, Detail: fmt.Sprintf(format, args...)}
}

// region is the slice of a document an anchor is searched in.
type region struct {
	from, to int
	// scoped is set when members must sit directly inside the region.
	scoped bool
}

// scopeRegion narrows a document to the body following the anchor's scope
// header. Markup scopes cover the element starting at the header.
func scopeRegion(src string, kind site.DocumentKind, a site.Anchor) (region, *Resolution) {
	if a.Scope == "" {
		return region{from: 0, to: len(src)}, nil
	}
	headers := occurrences(src, a.Scope)
	if !kind.Markup() {
		headers = codeOnly(src, headers)
	}
	switch count := len(headers); {
	case count == 0:
		r := notFound("scope %q not found", a.Scope)
		return region{}, &r
	case count > 1:
		r := ambiguous(count, "scope %q occurs %d times", a.Scope, count)
		return region{}, &r
	}
	header := headers[0]
	if kind.Markup() {
		for _, el := range elements(src, header, len(src)) {
			if el.Start == header && el.End > 0 {
				return region{from: header, to: el.End}, nil
			}
		}
		return region{from: header, to: len(src)}, nil
	}
	open := firstCode(src, header, len(src), '{')
	if open < 0 {
		r := notFound("scope %q has no body", a.Scope)
		return region{}, &r
	}
	closeAt := matchClose(src, open, len(src))
	if closeAt < 0 {
		r := notFound("scope %q body is unbalanced", a.Scope)
		return region{}, &r
	}
	return region{from: open + 1, to: closeAt, scoped: true}, nil
}

// occurrences returns the offsets of needle in src that are not part of a
// longer identifier.
func occurrences(src, needle string) []int {
	var out []int
	for from := 0; from <= len(src)-len(needle); {
		i := strings.Index(src[from:], needle)
		if i < 0 {
			break
		}
		at := from + i
		end := at + len(needle)
		before := at == 0 || !isIdentByte(needle[0]) || !isIdentByte(src[at-1])
		after := end == len(src) || !isIdentByte(needle[len(needle)-1]) || !isIdentByte(src[end])
		if before && after {
			out = append(out, at)
		}
		from = at + 1
	}
	return out
}

// codeOnly drops the offsets that fall inside comments or literals.
func codeOnly(src string, offsets []int) []int {
	if len(offsets) == 0 {
		return nil
	}
	var out []int
	next := 0
	walk(src, 0, len(src), func(i, _ int) bool {
		for next < len(offsets) && offsets[next] < i {
			next++
		}
		if next == len(offsets) {
			return false
		}
		if offsets[next] == i {
			out = append(out, i)
			next++
		}
		return true
	})
	return out
}

// Resolve locates the unique insertion point for anchor a in src.
func Resolve(src string, kind site.DocumentKind, a site.Anchor) Resolution {
	reg, failed := scopeRegion(src, kind, a)
	if failed != nil {
		return *failed
	}
	if a.Pattern != "" {
		return resolvePattern(src, reg, a)
	}
	target := a.Target()
	if target == "" {
		return notFound("anchor names no target")
	}
	if kind.Markup() {
		return resolveMarkup(src, reg, a, target)
	}
	return resolveDeclaration(src, reg, a, target)
}

func resolveDeclaration(src string, reg region, a site.Anchor, target string) Resolution {
	hits := named(declarations(src, reg.from, reg.to), target, reg.scoped)
	switch len(hits) {
	case 0:
		return notFound("declaration %q not found", target)
	case 1:
	default:
		return ambiguous(len(hits), "declaration %q occurs %d times", target, len(hits))
	}
	d := hits[0]
	if a.InsertBefore() {
		return Resolution{Status: Unique, Position: d.Start, Indent: d.Indent, Count: 1}
	}
	if d.Trailing {
		return notFound("declaration %q shares its line with the end of its block", target)
	}
	return Resolution{Status: Unique, Position: d.End, Indent: d.Indent, Count: 1}
}

// named keeps the declarations called name that count as members of the
// searched region: depth zero when scoped, else the shallowest depth among
// them.
func named(decls []declaration, name string, scoped bool) []declaration {
	var out []declaration
	depth := -1
	for _, d := range decls {
		if d.Name != name {
			continue
		}
		switch {
		case scoped && d.Depth != 0:
			continue
		case depth < 0 || d.Depth < depth:
			depth = d.Depth
			out = out[:0]
		case d.Depth > depth:
			continue
		}
		out = append(out, d)
	}
	return out
}

func resolveMarkup(src string, reg region, a site.Anchor, target string) Resolution {
	groups, orphaned := controlGroups(src, reg.from, reg.to, target, newGroupMatcher(a.Group))
	switch len(groups) {
	case 0:
		if orphaned > 0 {
			return notFound("control %q has no enclosing %s group", target, a.Group.TagName())
		}
		return notFound("control %q not found", target)
	case 1:
	default:
		return ambiguous(len(groups), "control %q sits in %d groups", target, len(groups))
	}
	g := groups[0]
	indent := indentAt(src, g.Start)
	if a.InsertBefore() {
		return Resolution{Status: Unique, Position: lineStart(src, g.Start), Indent: indent, Count: 1}
	}
	return Resolution{Status: Unique, Position: lineEnd(src, g.End-1), Indent: indent, Count: 1}
}

func resolvePattern(src string, reg region, a site.Anchor) Resolution {
	re, err := regexp.Compile(a.Pattern)
	if err != nil {
		return notFound("pattern %q: %v", a.Pattern, err)
	}
	matches := re.FindAllStringIndex(src[reg.from:reg.to], -1)
	switch len(matches) {
	case 0:
		return notFound("pattern %q matched nothing", a.Pattern)
	case 1:
	default:
		return ambiguous(len(matches), "pattern %q matched %d times", a.Pattern, len(matches))
	}
	start, end := reg.from+matches[0][0], reg.from+matches[0][1]
	indent := indentAt(src, start)
	if a.Placement == site.PlaceBefore {
		return Resolution{Status: Unique, Position: lineStart(src, start), Indent: indent, Count: 1}
	}
	if end > start && src[end-1] == '\n' {
		return Resolution{Status: Unique, Position: end, Indent: indent, Count: 1}
	}
	return Resolution{Status: Unique, Position: lineEnd(src, end), Indent: indent, Count: 1}
}

// groupMatcher selects the markup elements that act as control groups.
type groupMatcher struct {
	tag   string
	match string
}

func newGroupMatcher(g *site.Group) groupMatcher {
	return groupMatcher{tag: g.TagName(), match: groupMatch(g)}
}

func groupMatch(g *site.Group) string {
	if g == nil {
		return ""
	}
	return g.Match
}

func (m groupMatcher) matches(el element) bool {
	return el.Tag == m.tag && (m.match == "" || strings.Contains(el.Opening, m.match))
}
