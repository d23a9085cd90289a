package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldprop/pkg/descriptor"
	"github.com/goliatone/go-fieldprop/pkg/document"
	"github.com/goliatone/go-fieldprop/pkg/orchestrator"
	"github.com/goliatone/go-fieldprop/pkg/site"
)

type applyOptions struct {
	root      string
	catalog   string
	mode      string
	dryRun    bool
	vars      map[string]string
	documents []string
	preset    string
	json      bool
}

func newApplyCmd(a *app, planOnly bool) *cobra.Command {
	opts := &applyOptions{}
	cmd := &cobra.Command{
		Use:   "apply DESCRIPTOR",
		Short: "Apply the fields in a descriptor file to a project",
		Long: `Plans every (document, site, field) pair, then writes the insertions.

Exit status is 1 when any pair is not-found, ambiguous or aborted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if planOnly {
				opts.dryRun = true
			}
			return runApply(cmd, a, args[0], opts)
		},
	}
	if planOnly {
		cmd.Use = "plan DESCRIPTOR"
		cmd.Short = "Show what apply would change without writing"
		cmd.Long = "Alias for apply --dry-run."
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.root, "root", ".", "Project root the catalog document paths are relative to")
	flags.StringVar(&opts.catalog, "catalog", "", "Catalog file (JSON or YAML); defaults to the bundled catalog")
	flags.StringVar(&opts.mode, "mode", string(orchestrator.ModeStrict), "Run mode: strict or best-effort")
	flags.StringToStringVar(&opts.vars, "var", nil, "Catalog variable override (key=value, repeatable)")
	flags.StringSliceVar(&opts.documents, "document", nil, "Restrict the run to these documents or globs")
	flags.StringVar(&opts.preset, "preset", "", "JSON preset patching the descriptors before the run")
	flags.BoolVar(&opts.json, "json", false, "Print the report as JSON")
	if !planOnly {
		flags.BoolVar(&opts.dryRun, "dry-run", false, "Plan without writing")
	}
	return cmd
}

func runApply(cmd *cobra.Command, a *app, descriptorPath string, opts *applyOptions) error {
	fields, err := descriptor.LoadFile(descriptorPath)
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(opts.catalog)
	if err != nil {
		return err
	}
	store, err := document.NewFileStore(opts.root)
	if err != nil {
		return err
	}

	options := []orchestrator.Option{
		orchestrator.WithStore(store),
		orchestrator.WithLogger(a.logger),
	}
	if opts.preset != "" {
		preset, err := loadPreset(opts.preset)
		if err != nil {
			return err
		}
		options = append(options, orchestrator.WithFieldTransformer(preset))
	}

	rep, runErr := orchestrator.New(options...).Run(cmd.Context(), orchestrator.Request{
		Fields:    fields,
		Catalog:   catalog,
		Documents: opts.documents,
		Mode:      orchestrator.Mode(opts.mode),
		DryRun:    opts.dryRun,
		Vars:      opts.vars,
	})
	if len(rep.Entries) > 0 {
		if opts.json {
			if err := rep.WriteJSON(cmd.OutOrStdout()); err != nil {
				return err
			}
		} else {
			fmt.Fprint(cmd.OutOrStdout(), rep.Table())
		}
	}
	if runErr != nil {
		return runErr
	}
	if !rep.OK() {
		return errBlocking
	}
	return nil
}

func loadCatalog(path string) (site.Catalog, error) {
	if path == "" {
		return site.Default()
	}
	return site.LoadFile(path)
}
