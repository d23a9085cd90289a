package fieldprop_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	fieldprop "github.com/goliatone/go-fieldprop"
	"github.com/goliatone/go-fieldprop/pkg/descriptor"
	"github.com/goliatone/go-fieldprop/pkg/report"
	"github.com/goliatone/go-fieldprop/pkg/testsupport"
)

func TestEmbeddedCatalogs(t *testing.T) {
	data, err := fs.ReadFile(fieldprop.EmbeddedCatalogs(), "typescript-sequelize.yaml")
	if err != nil {
		t.Fatalf("read embedded catalog: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected embedded catalog content")
	}
}

func TestLoadCatalog_Default(t *testing.T) {
	catalog, err := fieldprop.LoadCatalog("")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if catalog.Name != "typescript-sequelize" || len(catalog.Sites) != 6 {
		t.Fatalf("unexpected default catalog %q with %d sites", catalog.Name, len(catalog.Sites))
	}
}

func TestPlanThenApply(t *testing.T) {
	root := testsupport.CopyProject(t)
	fields := []fieldprop.Field{{
		Name:    "chestPain",
		Record:  "VitalsSample",
		Kind:    descriptor.KindBoolean,
		Comment: "Experiencing chest pain",
	}}
	modelPath := filepath.Join(root, filepath.FromSlash(testsupport.ModelFile))
	before, err := os.ReadFile(modelPath)
	if err != nil {
		t.Fatalf("read model: %v", err)
	}

	plan, err := fieldprop.Plan(testsupport.Context(), root, fields)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !plan.DryRun || len(plan.ByOutcome(report.Pending)) != 6 {
		t.Fatalf("expected 6 pending entries, got %s", plan.Summary())
	}
	unchanged, _ := os.ReadFile(modelPath)
	if string(unchanged) != string(before) {
		t.Fatalf("plan must not write")
	}

	applied, err := fieldprop.Apply(testsupport.Context(), root, fields)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := applied.Summary().String(); got != "6 applied" {
		t.Fatalf("unexpected summary %q", got)
	}

	again, err := fieldprop.Apply(testsupport.Context(), root, fields)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if got := again.Summary().String(); got != "6 already-applied" {
		t.Fatalf("unexpected second summary %q", got)
	}
}

func TestApply_MissingRoot(t *testing.T) {
	_, err := fieldprop.Apply(testsupport.Context(), filepath.Join(t.TempDir(), "missing"), nil)
	if err == nil {
		t.Fatalf("expected error for missing root")
	}
}
