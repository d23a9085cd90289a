package render_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-fieldprop/pkg/descriptor"
	"github.com/goliatone/go-fieldprop/pkg/render"
	"github.com/goliatone/go-fieldprop/pkg/site"
	"github.com/goliatone/go-fieldprop/pkg/testsupport"
)

// siteIndent mirrors the indentation of each anchor line in the fixture
// project.
var siteIndent = map[string]string{
	"model-attributes": "  ",
	"model-class":      "  ",
	"model-definition": "    ",
	"api-type":         "  ",
	"form-schema":      "  ",
	"form-control":     strings.Repeat(" ", 10),
}

func sampleFields() []descriptor.Field {
	return []descriptor.Field{
		{
			Name:       "edemaSeverity",
			Record:     "VitalsSample",
			Kind:       descriptor.KindEnum,
			EnumValues: []string{"none", "mild", "moderate", "severe"},
			Comment:    "Severity of edema/swelling",
		},
		{
			Name:    "chestPainSeverity",
			Record:  "VitalsSample",
			Kind:    descriptor.KindInteger,
			Range:   &descriptor.Range{Min: descriptor.Float(1), Max: descriptor.Float(10)},
			Comment: "Chest pain severity (1-10 scale)",
		},
		{
			Name:    "chestPain",
			Record:  "VitalsSample",
			Kind:    descriptor.KindBoolean,
			Comment: "Experiencing chest pain",
		},
		{
			Name:        "edema",
			Record:      "VitalsSample",
			Kind:        descriptor.KindText,
			Comment:     "Location of edema/swelling (ankles/feet/hands/abdomen)",
			Label:       "Edema/Swelling (optional)",
			Placeholder: "Location (ankles/feet/hands/abdomen)",
		},
		{
			Name:         "napDuration",
			Record:       "SleepLog",
			Kind:         descriptor.KindDecimal,
			Range:        &descriptor.Range{Min: descriptor.Float(0)},
			Nullable:     descriptor.Bool(false),
			DefaultValue: 0,
			Comment:      "Nap length in hours",
			Placeholder:  "Hours",
			Precision:    4,
			Scale:        2,
		},
	}
}

func TestRender_DefaultCatalogGoldens(t *testing.T) {
	catalog, err := site.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	for _, field := range sampleFields() {
		t.Run(field.Name, func(t *testing.T) {
			if err := field.Validate(); err != nil {
				t.Fatalf("fixture field invalid: %v", err)
			}
			var b strings.Builder
			for _, s := range catalog.Sorted() {
				fragment, err := renderer.Render(field, s, siteIndent[s.Name], catalog.Vars)
				if err != nil {
					t.Fatalf("render %s: %v", s.Name, err)
				}
				if !strings.HasSuffix(fragment, "\n") || strings.HasSuffix(fragment, "\n\n") {
					t.Fatalf("%s: fragment must end with exactly one newline: %q", s.Name, fragment)
				}
				b.WriteString("--- " + s.Name + "\n")
				b.WriteString(fragment)
			}
			testsupport.AssertGolden(t, filepath.Join("testdata", field.Name+".golden"), b.String())
		})
	}
}

func TestRender_IsPure(t *testing.T) {
	catalog, err := site.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	control, _ := catalog.Site("form-control")
	field := sampleFields()[0]

	first, err := renderer.Render(field, control, "    ")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := renderer.Render(field, control, "    ")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if first != second {
		t.Fatalf("render is not deterministic\nfirst:  %q\nsecond: %q", first, second)
	}
}

func TestRender_Errors(t *testing.T) {
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	field := sampleFields()[0]

	if _, err := renderer.Render(field, site.Site{Name: "empty"}, ""); err == nil {
		t.Fatalf("expected error for missing template")
	}
	broken := site.Site{Name: "broken", Template: "{% if name %}unterminated"}
	_, err = renderer.Render(field, broken, "")
	if err == nil || !strings.Contains(err.Error(), `site "broken"`) {
		t.Fatalf("expected wrapped template error, got %v", err)
	}
}

func TestRenderer_Expand(t *testing.T) {
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	vars := map[string]string{"modelDir": "backend/src/models", "record": "VitalsSample"}

	got, err := renderer.Expand("{{ modelDir }}/{{ record }}.ts", descriptor.Field{Name: "edema"}, vars)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != "backend/src/models/VitalsSample.ts" {
		t.Fatalf("unexpected path %q", got)
	}

	got, err = renderer.Expand("interface {{ record }}Attributes", descriptor.Field{Name: "edema", Record: "SleepLog"}, vars)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if got != "interface SleepLogAttributes" {
		t.Fatalf("field record should win over vars, got %q", got)
	}

	if got, _ := renderer.Expand(`symptoms: z\.string\(\)`, descriptor.Field{}, nil); got != `symptoms: z\.string\(\)` {
		t.Fatalf("plain text must pass through, got %q", got)
	}

	expanded, err := renderer.ExpandVars(map[string]string{
		"record":    "VitalsSample",
		"modelFile": "backend/src/models/{{ record }}.ts",
	})
	if err != nil {
		t.Fatalf("expand vars: %v", err)
	}
	if expanded["modelFile"] != "backend/src/models/VitalsSample.ts" {
		t.Fatalf("unexpected vars %v", expanded)
	}
}

func TestIndent(t *testing.T) {
	cases := []struct {
		name, in, indent, want string
	}{
		{"single line", "a: string;", "  ", "  a: string;\n"},
		{"trailing newlines collapse", "a: {\n  b: 1,\n},\n\n\n", "    ", "    a: {\n      b: 1,\n    },\n"},
		{"leading blank kept", "\n<div>\n</div>\n", "  ", "\n  <div>\n  </div>\n"},
		{"whitespace lines emptied", "a\n   \nb\n", "\t", "\ta\n\n\tb\n"},
		{"empty", "\n\n", "  ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := render.Indent(tc.in, tc.indent); got != tc.want {
				t.Fatalf("Indent(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
