package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/goliatone/go-fieldprop/pkg/descriptor"
	"github.com/goliatone/go-fieldprop/pkg/document"
	"github.com/goliatone/go-fieldprop/pkg/render"
	"github.com/goliatone/go-fieldprop/pkg/report"
	"github.com/goliatone/go-fieldprop/pkg/site"
)

// Mode re-exports the report modes so callers only need this package.
type Mode = report.Mode

const (
	ModeStrict     = report.ModeStrict
	ModeBestEffort = report.ModeBestEffort
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithStore sets the document store runs read from and write to.
func WithStore(store document.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithRenderer injects a custom fragment renderer.
func WithRenderer(renderer *render.Renderer) Option {
	return func(o *Orchestrator) {
		o.renderer = renderer
	}
}

// WithLogger sets the logger. Runs are silent by default.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithFieldTransformer registers a Transformer that can patch descriptors
// before they are validated.
func WithFieldTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.transformers = append(o.transformers, t)
		}
	}
}

// Orchestrator runs field propagation against a document store.
type Orchestrator struct {
	store           document.Store
	renderer        *render.Renderer
	logger          *zap.Logger
	transformers    []Transformer
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator. A store must be supplied with WithStore
// before Run is called; the renderer and logger have defaults.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one propagation run.
type Request struct {
	// Fields is the batch to propagate. Fields are independent except for
	// explicit chaining through After.
	Fields []descriptor.Field

	// Catalog lists the sites every field is propagated to.
	Catalog site.Catalog

	// Documents optionally restricts the run to these identifiers or glob
	// patterns. Pairs whose document falls outside the set are not planned.
	Documents []string

	// Mode defaults to strict.
	Mode Mode

	// DryRun plans without writing; pending pairs are reported as Pending.
	DryRun bool

	// Vars overlay the catalog vars.
	Vars map[string]string
}

// Run plans and commits one propagation. The returned report is complete
// even when an error is returned. Errors are reserved for misuse, malformed
// descriptors and I/O failures; anchor problems are reported per entry.
func (o *Orchestrator) Run(ctx context.Context, req Request) (report.Report, error) {
	rep := report.New(req.Mode, req.DryRun)
	if ctx == nil {
		return rep, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
	}
	if err := o.initialiseErr; err != nil {
		return rep, err
	}
	if o.store == nil {
		return rep, errors.New("orchestrator: document store is required")
	}
	if !req.Mode.Valid() {
		return rep, fmt.Errorf("orchestrator: unknown mode %q", req.Mode)
	}
	if len(req.Fields) == 0 {
		return rep, errors.New("orchestrator: at least one field is required")
	}
	if err := req.Catalog.Validate(); err != nil {
		return rep, fmt.Errorf("orchestrator: catalog: %w", err)
	}

	log := o.logger.With(zap.String("run", rep.RunID), zap.String("mode", string(rep.Mode)))

	fields, err := o.transform(ctx, req.Fields)
	if err != nil {
		return rep, err
	}
	vars, err := o.renderer.ExpandVars(req.Catalog.WithVars(req.Vars).Vars)
	if err != nil {
		return rep, fmt.Errorf("orchestrator: vars: %w", err)
	}

	if err := descriptor.ValidateBatch(fields); err != nil {
		o.abortMalformed(&rep, req.Catalog, fields, vars, err)
		log.Warn("malformed descriptor batch", zap.Error(err))
		return rep, fmt.Errorf("orchestrator: %w", err)
	}

	p, err := o.plan(ctx, &rep, req, fields, vars)
	if err != nil {
		return rep, err
	}
	if ce := log.Check(zap.DebugLevel, "planned insertions"); ce != nil {
		ce.Write(zap.String("plan", dumper.Sdump(p.insertions)))
	}

	blocking := len(rep.Blocking())
	switch {
	case blocking > 0 && rep.Mode == ModeStrict:
		cause := fmt.Errorf("%w: %d blocking pairs", ErrAborted, blocking)
		for _, ins := range p.insertions {
			abort(&rep.Entries[ins.entry], cause)
		}
		log.Info("run aborted", zap.Int("blocking", blocking))
	case req.DryRun:
		log.Info("dry run planned", zap.Int("pending", len(p.insertions)))
	default:
		if err := o.commit(ctx, &rep, p, log); err != nil {
			return rep, err
		}
	}

	for _, e := range rep.Entries {
		log.Debug("pair",
			zap.String("document", e.Document),
			zap.String("site", e.Site),
			zap.String("field", e.Field),
			zap.String("outcome", string(e.Outcome)),
		)
	}
	log.Info("run complete", zap.String("summary", rep.Summary().String()))
	return rep, nil
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func abort(e *report.Entry, cause error) {
	e.Outcome = report.Aborted
	e.Err = cause
}

// abortMalformed reports every pair as aborted without touching the store.
func (o *Orchestrator) abortMalformed(rep *report.Report, catalog site.Catalog, fields []descriptor.Field, vars map[string]string, cause error) {
	for _, s := range catalog.Sorted() {
		for _, field := range fields {
			doc, err := o.renderer.Expand(s.Document, field, vars)
			if err != nil {
				doc = s.Document
			}
			fieldErr := field.Validate()
			if fieldErr == nil {
				fieldErr = cause
			}
			rep.Add(report.Entry{
				Document: doc,
				Site:     s.Name,
				Field:    field.Name,
				Kind:     s.Kind,
				Outcome:  report.Aborted,
				Position: -1,
				Err:      fieldErr,
				Detail:   "malformed descriptor",
			})
		}
	}
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.renderer == nil {
		renderer, err := render.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.renderer = renderer
		}
	}
	o.defaultsApplied = true
}
