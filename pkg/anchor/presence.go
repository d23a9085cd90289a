package anchor

import (
	"regexp"

	"github.com/goliatone/go-fieldprop/pkg/site"
)

// IsPresent reports whether name already exists in src in the role the
// document kind implies: a member declaration within the anchor's scope, or a
// registered control for markup. Identifiers match whole, so "dizziness"
// never matches "dizzinessSeverity". A scope that cannot be established
// means the field is not present.
func IsPresent(src string, kind site.DocumentKind, a site.Anchor, name string) bool {
	reg, failed := scopeRegion(src, kind, a)
	if failed != nil {
		return false
	}
	if kind.Markup() {
		return controlPattern(name).MatchString(src[reg.from:reg.to])
	}
	return len(named(declarations(src, reg.from, reg.to), name, reg.scoped)) > 0
}

// MatchesPresence reports whether pattern matches anywhere inside the
// anchor's scope. It backs sites that define their own presence probe.
func MatchesPresence(src string, kind site.DocumentKind, a site.Anchor, pattern string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}
	reg, failed := scopeRegion(src, kind, a)
	if failed != nil {
		return false, nil
	}
	return re.MatchString(src[reg.from:reg.to]), nil
}
