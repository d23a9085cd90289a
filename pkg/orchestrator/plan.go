package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/goliatone/go-fieldprop/pkg/anchor"
	"github.com/goliatone/go-fieldprop/pkg/descriptor"
	"github.com/goliatone/go-fieldprop/pkg/report"
	"github.com/goliatone/go-fieldprop/pkg/site"
)

// insertion is a fragment waiting to be spliced into a document.
type insertion struct {
	entry    int
	document string
	site     string
	field    string
	position int
	indent   string
	fragment string

	// ordering among insertions sharing one offset
	order      int
	siteIndex  int
	fieldIndex int

	// parent is the batch field this insertion is chained after.
	parent *insertion
}

type plan struct {
	snapshots  map[string]string
	insertions []*insertion
	pending    map[string]*insertion
}

func newPlan() *plan {
	return &plan{
		snapshots: make(map[string]string),
		pending:   make(map[string]*insertion),
	}
}

func pendingKey(document, siteName, field string) string {
	return document + "\x00" + siteName + "\x00" + field
}

// load reads each document once per run.
func (p *plan) load(ctx context.Context, o *Orchestrator, id string) (string, error) {
	if content, ok := p.snapshots[id]; ok {
		return content, nil
	}
	content, err := o.store.Load(ctx, id)
	if err != nil {
		return "", err
	}
	p.snapshots[id] = content
	return content, nil
}

func (o *Orchestrator) plan(ctx context.Context, rep *report.Report, req Request, fields []descriptor.Field, vars map[string]string) (*plan, error) {
	p := newPlan()
	indexes := make(map[string]int, len(req.Catalog.Sites))
	for idx, s := range req.Catalog.Sites {
		indexes[s.Name] = idx
	}

	for _, s := range req.Catalog.Sorted() {
		for fieldIndex, field := range fields {
			pattern, err := o.renderer.Expand(s.Document, field, vars)
			if err != nil {
				return p, fmt.Errorf("orchestrator: site %q document: %w", s.Name, err)
			}
			ids, err := o.targets(pattern, req.Documents)
			if err != nil {
				return p, err
			}
			if len(ids) == 0 {
				if !selected(pattern, req.Documents) {
					continue
				}
				rep.Add(report.Entry{
					Document: pattern,
					Site:     s.Name,
					Field:    field.Name,
					Kind:     s.Kind,
					Outcome:  report.NotFound,
					Position: -1,
					Err:      fmt.Errorf("%w: no document matches %q", anchor.ErrNotFound, pattern),
				})
				continue
			}
			for _, id := range ids {
				key := pairKey{site: s, siteIndex: indexes[s.Name], field: field, fieldIndex: fieldIndex, document: id}
				if err := o.planPair(ctx, p, rep, key, vars); err != nil {
					return p, err
				}
			}
		}
	}
	return p, nil
}

// targets expands a site document pattern and applies the request's
// document restriction.
func (o *Orchestrator) targets(pattern string, restrict []string) ([]string, error) {
	ids, err := o.store.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	if len(restrict) == 0 {
		return ids, nil
	}
	var out []string
	for _, id := range ids {
		if selected(id, restrict) {
			out = append(out, id)
		}
	}
	return out, nil
}

// selected reports whether id is part of the requested document set. An
// empty set selects everything.
func selected(id string, restrict []string) bool {
	if len(restrict) == 0 {
		return true
	}
	for _, candidate := range restrict {
		if candidate == id {
			return true
		}
		if ok, _ := doublestar.Match(candidate, id); ok {
			return true
		}
	}
	return false
}

type pairKey struct {
	site       site.Site
	siteIndex  int
	field      descriptor.Field
	fieldIndex int
	document   string
}

func (o *Orchestrator) planPair(ctx context.Context, p *plan, rep *report.Report, key pairKey, vars map[string]string) error {
	s, field := key.site, key.field
	entry := report.Entry{
		Document: key.document,
		Site:     s.Name,
		Field:    field.Name,
		Kind:     s.Kind,
		Position: -1,
	}

	content, err := p.load(ctx, o, key.document)
	if errors.Is(err, fs.ErrNotExist) {
		entry.Outcome = report.NotFound
		entry.Err = fmt.Errorf("%w: document %s does not exist", anchor.ErrNotFound, key.document)
		rep.Add(entry)
		return nil
	}
	if err != nil {
		return fmt.Errorf("orchestrator: load %s: %w", key.document, err)
	}

	a, err := o.expandAnchor(s.Anchor, field, vars)
	if err != nil {
		return fmt.Errorf("orchestrator: site %q anchor: %w", s.Name, err)
	}

	present, err := o.present(content, s, a, field, vars)
	if err != nil {
		return err
	}
	if present {
		entry.Outcome = report.AlreadyApplied
		rep.Add(entry)
		return nil
	}

	if prev, ok := p.pending[pendingKey(key.document, s.Name, field.Name)]; ok {
		return o.planDuplicate(rep, entry, prev, field, s, vars)
	}

	var position int
	var indent string
	var parent *insertion
	if prev, ok := p.pending[pendingKey(key.document, s.Name, a.After)]; ok && a.After != "" {
		position, indent, parent = prev.position, prev.indent, prev
		entry.Detail = fmt.Sprintf("chained after %s", prev.field)
	} else {
		res := anchor.Resolve(content, s.Kind, a)
		if res.Status != anchor.Unique {
			entry.Outcome = report.NotFound
			if res.Status == anchor.Ambiguous {
				entry.Outcome = report.Ambiguous
			}
			entry.Count = res.Count
			entry.Detail = res.Detail
			entry.Err = res.Err()
			rep.Add(entry)
			return nil
		}
		position, indent = res.Position, res.Indent
	}

	fragment, err := o.renderer.Render(field, s, indent, vars)
	if err != nil {
		return fmt.Errorf("orchestrator: %w", err)
	}

	entry.Outcome = report.Pending
	entry.Position = position
	rep.Add(entry)

	ins := &insertion{
		entry:      len(rep.Entries) - 1,
		document:   key.document,
		site:       s.Name,
		field:      field.Name,
		position:   position,
		indent:     indent,
		fragment:   fragment,
		order:      s.Order,
		siteIndex:  key.siteIndex,
		fieldIndex: key.fieldIndex,
		parent:     parent,
	}
	p.insertions = append(p.insertions, ins)
	p.pending[pendingKey(key.document, s.Name, field.Name)] = ins
	return nil
}

// planDuplicate reports a field whose name is already pending for the same
// document and site. Identical fragments collapse into the first insertion;
// differing ones cannot both apply.
func (o *Orchestrator) planDuplicate(rep *report.Report, entry report.Entry, prev *insertion, field descriptor.Field, s site.Site, vars map[string]string) error {
	fragment, err := o.renderer.Render(field, s, prev.indent, vars)
	if err != nil {
		return fmt.Errorf("orchestrator: %w", err)
	}
	if fragment == prev.fragment {
		entry.Outcome = report.AlreadyApplied
		entry.Detail = "duplicate of an earlier batch field"
		rep.Add(entry)
		return nil
	}
	entry.Outcome = report.Ambiguous
	entry.Count = 2
	entry.Detail = "conflicts with an earlier batch field"
	entry.Err = fmt.Errorf("%w: field %q is planned twice for %s with different content", anchor.ErrAmbiguous, field.Name, prev.document)
	rep.Add(entry)
	return nil
}

// expandAnchor renders the templated parts of an anchor. A descriptor's own
// After replaces the site's anchor target.
func (o *Orchestrator) expandAnchor(a site.Anchor, field descriptor.Field, vars map[string]string) (site.Anchor, error) {
	out := a
	for _, part := range []*string{&out.Scope, &out.After, &out.Before, &out.Pattern} {
		expanded, err := o.renderer.Expand(*part, field, vars)
		if err != nil {
			return site.Anchor{}, err
		}
		*part = expanded
	}
	if field.After != "" {
		out.After = field.After
		out.Before = ""
		out.Pattern = ""
		out.Placement = ""
	}
	return out, nil
}

func (o *Orchestrator) present(content string, s site.Site, a site.Anchor, field descriptor.Field, vars map[string]string) (bool, error) {
	if s.Presence == "" {
		return anchor.IsPresent(content, s.Kind, a, field.Name), nil
	}
	pattern, err := o.renderer.Expand(s.Presence, field, vars)
	if err != nil {
		return false, fmt.Errorf("orchestrator: site %q presence: %w", s.Name, err)
	}
	ok, err := anchor.MatchesPresence(content, s.Kind, a, pattern)
	if err != nil {
		return false, fmt.Errorf("orchestrator: site %q presence: %w", s.Name, err)
	}
	return ok, nil
}
