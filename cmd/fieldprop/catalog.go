package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldprop/pkg/site"
)

func newCatalogCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the sites of the effective catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := loadCatalog(path)
			if err != nil {
				return err
			}
			if err := catalog.Validate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (version %s)\n", catalog.Name, orDash(catalog.Version))
			fmt.Fprintln(cmd.OutOrStdout(), catalogTable(catalog))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "catalog", "", "Catalog file (JSON or YAML); defaults to the bundled catalog")
	return cmd
}

func catalogTable(c site.Catalog) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ORDER", "SITE", "KIND", "DOCUMENT", "ANCHOR").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			return style
		})
	for _, s := range c.Sorted() {
		t.Row(strconv.Itoa(s.Order), s.Name, string(s.Kind), s.Document, describeAnchor(s.Anchor))
	}
	return t.String()
}

func describeAnchor(a site.Anchor) string {
	var out string
	switch {
	case a.Pattern != "":
		placement := a.Placement
		if placement == "" {
			placement = site.PlaceAfter
		}
		out = fmt.Sprintf("%s /%s/", placement, a.Pattern)
	case a.After != "":
		out = "after " + a.After
	default:
		out = "before " + a.Before
	}
	if a.Scope != "" {
		out += " in " + a.Scope
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
