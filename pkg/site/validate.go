package site

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validate checks that the site is complete and its anchor is well formed.
func (s Site) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("site: %q: "+format, append([]any{s.Name}, args...)...))
	}

	if strings.TrimSpace(s.Name) == "" {
		fail("name is required")
	}
	if !s.Kind.Valid() {
		fail("kind %q is not one of %v", s.Kind, Kinds())
	}
	if strings.TrimSpace(s.Document) == "" {
		fail("document is required")
	}
	if strings.TrimSpace(s.Template) == "" {
		fail("template is required")
	}

	set := 0
	for _, value := range []string{s.Anchor.After, s.Anchor.Before, s.Anchor.Pattern} {
		if strings.TrimSpace(value) != "" {
			set++
		}
	}
	if set != 1 {
		fail("anchor must set exactly one of after, before or pattern")
	}
	if s.Anchor.Pattern != "" && !strings.Contains(s.Anchor.Pattern, "{{") {
		if _, err := regexp.Compile(s.Anchor.Pattern); err != nil {
			fail("anchor pattern: %v", err)
		}
	}
	switch s.Anchor.Placement {
	case "", PlaceAfter, PlaceBefore:
	default:
		fail("anchor placement %q must be after or before", s.Anchor.Placement)
	}
	if s.Anchor.Placement != "" && s.Anchor.Pattern == "" {
		fail("anchor placement only applies to pattern anchors")
	}
	if s.Anchor.Group != nil && !s.Kind.Markup() {
		fail("anchor group only applies to %s sites", KindFormMarkup)
	}
	return errors.Join(errs...)
}

// Validate checks every site and rejects duplicate names.
func (c Catalog) Validate() error {
	if len(c.Sites) == 0 {
		return fmt.Errorf("site: catalog %q has no sites", c.Name)
	}
	var errs []error
	seen := make(map[string]struct{}, len(c.Sites))
	for _, s := range c.Sites {
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
		if _, dup := seen[s.Name]; dup {
			errs = append(errs, fmt.Errorf("site: duplicate site name %q in catalog %q", s.Name, c.Name))
		}
		seen[s.Name] = struct{}{}
	}
	return errors.Join(errs...)
}
