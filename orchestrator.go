package fieldprop

import (
	"context"
	"fmt"

	"github.com/goliatone/go-fieldprop/pkg/descriptor"
	"github.com/goliatone/go-fieldprop/pkg/document"
	"github.com/goliatone/go-fieldprop/pkg/orchestrator"
	"github.com/goliatone/go-fieldprop/pkg/report"
	"github.com/goliatone/go-fieldprop/pkg/site"
)

// Field aliases descriptor.Field for callers building batches in code.
type Field = descriptor.Field

// Catalog aliases site.Catalog.
type Catalog = site.Catalog

// Report aliases report.Report.
type Report = report.Report

// Mode aliases the run mode.
type Mode = orchestrator.Mode

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Apply propagates fields into the project rooted at dir using the default
// catalog in strict mode. Options are applied after the file store, so a
// custom store or logger can still be injected.
func Apply(ctx context.Context, dir string, fields []Field, options ...orchestrator.Option) (Report, error) {
	return run(ctx, dir, fields, false, options...)
}

// Plan reports what Apply would do without writing anything.
func Plan(ctx context.Context, dir string, fields []Field, options ...orchestrator.Option) (Report, error) {
	return run(ctx, dir, fields, true, options...)
}

func run(ctx context.Context, dir string, fields []Field, dryRun bool, options ...orchestrator.Option) (Report, error) {
	store, err := document.NewFileStore(dir)
	if err != nil {
		return Report{}, fmt.Errorf("fieldprop: %w", err)
	}
	catalog, err := site.Default()
	if err != nil {
		return Report{}, fmt.Errorf("fieldprop: %w", err)
	}
	opts := append([]orchestrator.Option{orchestrator.WithStore(store)}, options...)
	return orchestrator.New(opts...).Run(ctx, orchestrator.Request{
		Fields:  fields,
		Catalog: catalog,
		Mode:    orchestrator.ModeStrict,
		DryRun:  dryRun,
	})
}
