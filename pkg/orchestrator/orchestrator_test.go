package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-fieldprop/pkg/anchor"
	"github.com/goliatone/go-fieldprop/pkg/descriptor"
	"github.com/goliatone/go-fieldprop/pkg/document"
	"github.com/goliatone/go-fieldprop/pkg/orchestrator"
	"github.com/goliatone/go-fieldprop/pkg/report"
	"github.com/goliatone/go-fieldprop/pkg/site"
	"github.com/goliatone/go-fieldprop/pkg/testsupport"
)

func edemaSeverity() descriptor.Field {
	return descriptor.Field{
		Name:       "edemaSeverity",
		Record:     "VitalsSample",
		Kind:       descriptor.KindEnum,
		EnumValues: []string{"none", "mild", "moderate", "severe"},
		Comment:    "Severity of edema/swelling",
	}
}

func chestPain() descriptor.Field {
	return descriptor.Field{
		Name:    "chestPain",
		Record:  "VitalsSample",
		Kind:    descriptor.KindBoolean,
		Comment: "Experiencing chest pain",
	}
}

func newProject(t *testing.T) (*document.MemoryStore, *orchestrator.Orchestrator, site.Catalog) {
	t.Helper()
	store := document.NewMemoryStore(testsupport.ProjectFiles(t))
	catalog, err := site.Default()
	require.NoError(t, err)
	return store, orchestrator.New(orchestrator.WithStore(store)), catalog
}

func outcomes(rep report.Report) map[string]report.Outcome {
	out := make(map[string]report.Outcome, len(rep.Entries))
	for _, e := range rep.Entries {
		out[e.Site+"/"+e.Field] = e.Outcome
	}
	return out
}

func TestRun_EdemaSeverityScenario(t *testing.T) {
	store, orch, catalog := newProject(t)

	rep, err := orch.Run(context.Background(), orchestrator.Request{
		Fields:  []descriptor.Field{edemaSeverity()},
		Catalog: catalog,
	})
	require.NoError(t, err)
	require.Len(t, rep.Entries, 6)
	assert.True(t, rep.OK())
	for _, e := range rep.Entries {
		assert.Equal(t, report.Applied, e.Outcome, "site %s", e.Site)
		assert.GreaterOrEqual(t, e.Position, 0, "site %s", e.Site)
		assert.NoError(t, e.Err)
	}

	model, _ := store.Get(testsupport.ModelFile)
	assert.Contains(t, model, "  deviceId?: string;\n  edemaSeverity?: 'none' | 'mild' | 'moderate' | 'severe';\n  createdAt?: Date;\n")
	assert.Contains(t, model, "  public deviceId?: string;\n  public edemaSeverity?: 'none' | 'mild' | 'moderate' | 'severe';\n  public readonly createdAt!: Date;\n")
	assert.Contains(t, model, "        is: /^[a-z0-9-]{4,}$/i,\n      },\n    },\n"+
		"    edemaSeverity: {\n"+
		"      type: DataTypes.ENUM('none', 'mild', 'moderate', 'severe'),\n"+
		"      allowNull: true,\n"+
		"      comment: 'Severity of edema/swelling',\n"+
		"    },\n"+
		"  },\n  {\n    sequelize,\n")

	types, _ := store.Get(testsupport.TypesFile)
	assert.Contains(t, types, "  deviceId?: string;\n  edemaSeverity?: 'none' | 'mild' | 'moderate' | 'severe';\n  createdAt: string;\n")
	assert.Equal(t, 1, strings.Count(types, "edemaSeverity"))

	page, _ := store.Get(testsupport.FormPage)
	assert.Contains(t, page, "  medicationsTaken: z.boolean().optional(),\n  edemaSeverity: z.enum(['none', 'mild', 'moderate', 'severe']).optional(),\n});\n")
	assert.Contains(t, page, "            </textarea>\n          </div>\n\n          <div className=\"space-y-2\">\n"+
		"            <label className=\"block text-sm font-medium font-bold\">\n"+
		"              Edema Severity\n")
	assert.Contains(t, page, "              <option value=\"severe\">Severe</option>\n            </select>\n          </div>\n\n          <div className=\"flex items-center space-x-2\">\n")

	for _, s := range catalog.Sites {
		content, _ := store.Get(documentFor(s))
		assert.True(t, anchor.IsPresent(content, s.Kind, scopedAnchor(s), "edemaSeverity"), "site %s", s.Name)
	}
}

func documentFor(s site.Site) string {
	switch s.Document {
	case "{{ typesFile }}":
		return testsupport.TypesFile
	case "{{ formPage }}":
		return testsupport.FormPage
	default:
		return testsupport.ModelFile
	}
}

func scopedAnchor(s site.Site) site.Anchor {
	a := s.Anchor
	replacer := strings.NewReplacer("{{ record }}", "VitalsSample", "{{ schemaName }}", "vitalsSchema")
	a.Scope = replacer.Replace(a.Scope)
	return a
}

func TestRun_IsIdempotent(t *testing.T) {
	store, orch, catalog := newProject(t)
	req := orchestrator.Request{Fields: []descriptor.Field{edemaSeverity(), chestPain()}, Catalog: catalog}

	first, err := orch.Run(context.Background(), req)
	require.NoError(t, err)
	require.True(t, first.OK())
	after := store.Snapshot()
	saves := len(store.Saves())

	second, err := orch.Run(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, second.Entries, 12)
	for _, e := range second.Entries {
		assert.Equal(t, report.AlreadyApplied, e.Outcome, "%s/%s", e.Site, e.Field)
	}
	assert.Equal(t, after, store.Snapshot())
	assert.Len(t, store.Saves(), saves, "second run must not write")
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRun_StrictIsAtomic(t *testing.T) {
	store, orch, catalog := newProject(t)
	before := store.Snapshot()

	rep, err := orch.Run(context.Background(), orchestrator.Request{
		Fields:  []descriptor.Field{edemaSeverity()},
		Catalog: catalog,
		Vars:    map[string]string{"formAfter": "bloodGlucose"},
	})
	require.NoError(t, err)
	assert.False(t, rep.OK())

	got := outcomes(rep)
	assert.Equal(t, report.NotFound, got["form-control/edemaSeverity"])
	for _, name := range []string{"model-attributes", "model-class", "model-definition", "api-type", "form-schema"} {
		assert.Equal(t, report.Aborted, got[name+"/edemaSeverity"], name)
	}
	blocking := rep.Blocking()
	require.Len(t, blocking, 6)
	notFound, _ := rep.Lookup(testsupport.FormPage, "form-control", "edemaSeverity")
	assert.ErrorIs(t, notFound.Err, anchor.ErrNotFound)
	aborted, _ := rep.Lookup(testsupport.TypesFile, "api-type", "edemaSeverity")
	assert.ErrorIs(t, aborted.Err, orchestrator.ErrAborted)

	assert.Equal(t, before, store.Snapshot())
	assert.Empty(t, store.Saves())
}

func TestRun_BestEffortAppliesWhatResolves(t *testing.T) {
	store, orch, catalog := newProject(t)

	rep, err := orch.Run(context.Background(), orchestrator.Request{
		Fields:  []descriptor.Field{edemaSeverity()},
		Catalog: catalog,
		Mode:    orchestrator.ModeBestEffort,
		Vars:    map[string]string{"formAfter": "bloodGlucose"},
	})
	require.NoError(t, err)
	assert.Equal(t, orchestrator.ModeBestEffort, rep.Mode)

	got := outcomes(rep)
	assert.Equal(t, report.NotFound, got["form-control/edemaSeverity"])
	assert.Equal(t, report.Applied, got["form-schema/edemaSeverity"])
	assert.Equal(t, report.Applied, got["api-type/edemaSeverity"])
	assert.ElementsMatch(t, []string{testsupport.ModelFile, testsupport.FormPage, testsupport.TypesFile}, store.Saves())

	page, _ := store.Get(testsupport.FormPage)
	assert.Equal(t, 1, strings.Count(page, "edemaSeverity"))
}

func TestRun_AmbiguousAnchor(t *testing.T) {
	store := document.NewMemoryStore(testsupport.ProjectFiles(t))
	orch := orchestrator.New(orchestrator.WithStore(store))
	catalog := site.Catalog{
		Name: "unscoped",
		Sites: []site.Site{{
			Name:     "api-type",
			Kind:     site.KindInterface,
			Document: testsupport.TypesFile,
			Anchor:   site.Anchor{Before: "createdAt"},
			Template: "{{ name }}?: {{ tsType }};\n",
		}},
	}

	rep, err := orch.Run(context.Background(), orchestrator.Request{Fields: []descriptor.Field{chestPain()}, Catalog: catalog})
	require.NoError(t, err)
	require.Len(t, rep.Entries, 1)
	entry := rep.Entries[0]
	assert.Equal(t, report.Ambiguous, entry.Outcome)
	assert.Equal(t, 3, entry.Count)
	assert.ErrorIs(t, entry.Err, anchor.ErrAmbiguous)
	assert.Empty(t, store.Saves())
}

func TestRun_DryRun(t *testing.T) {
	store, orch, catalog := newProject(t)
	before := store.Snapshot()

	rep, err := orch.Run(context.Background(), orchestrator.Request{
		Fields:  []descriptor.Field{edemaSeverity()},
		Catalog: catalog,
		DryRun:  true,
	})
	require.NoError(t, err)
	assert.True(t, rep.DryRun)
	assert.True(t, rep.OK())
	for _, e := range rep.Entries {
		assert.Equal(t, report.Pending, e.Outcome, e.Site)
		assert.Greater(t, e.Position, 0, e.Site)
	}
	assert.Equal(t, before, store.Snapshot())
	assert.Empty(t, store.Saves())
}

func TestRun_MalformedDescriptorAbortsBeforeReading(t *testing.T) {
	store, orch, catalog := newProject(t)
	loads := 0
	store.AfterLoad = func(string) { loads++ }

	bad := descriptor.Field{Name: "class", Kind: descriptor.KindEnum}
	rep, err := orch.Run(context.Background(), orchestrator.Request{
		Fields:  []descriptor.Field{edemaSeverity(), bad},
		Catalog: catalog,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, descriptor.ErrMalformed)
	assert.Zero(t, loads)
	require.Len(t, rep.Entries, 12)
	for _, e := range rep.Entries {
		assert.Equal(t, report.Aborted, e.Outcome)
		assert.ErrorIs(t, e.Err, descriptor.ErrMalformed)
	}
	entry, ok := rep.Lookup(testsupport.ModelFile, "model-class", "class")
	require.True(t, ok)
	assert.Contains(t, entry.Err.Error(), "not a valid identifier")
	assert.Empty(t, store.Saves())
}

func TestRun_PartialCommitHazard(t *testing.T) {
	tests := []struct {
		name    string
		mode    orchestrator.Mode
		applied []string
	}{
		{name: "strict halts remaining writes", mode: orchestrator.ModeStrict},
		{name: "best effort continues", mode: orchestrator.ModeBestEffort, applied: []string{testsupport.FormPage, testsupport.TypesFile}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, orch, catalog := newProject(t)
			var once sync.Once
			store.AfterLoad = func(id string) {
				if id != testsupport.ModelFile {
					return
				}
				once.Do(func() {
					content, _ := store.Get(id)
					store.Put(id, content+"// edited concurrently\n")
				})
			}

			rep, err := orch.Run(context.Background(), orchestrator.Request{
				Fields:  []descriptor.Field{edemaSeverity()},
				Catalog: catalog,
				Mode:    tt.mode,
			})
			require.NoError(t, err)

			for _, e := range rep.Entries {
				if e.Document == testsupport.ModelFile || tt.applied == nil {
					assert.Equal(t, report.Aborted, e.Outcome, e.Site)
					assert.ErrorIs(t, e.Err, orchestrator.ErrPartialCommitHazard, e.Site)
					continue
				}
				assert.Equal(t, report.Applied, e.Outcome, e.Site)
			}
			assert.Equal(t, tt.applied, store.Saves())

			model, _ := store.Get(testsupport.ModelFile)
			assert.NotContains(t, model, "edemaSeverity")
		})
	}
}

func TestRun_ChainsOnEarlierBatchField(t *testing.T) {
	chained, orch, catalog := newProject(t)
	follower := chestPain()
	follower.After = "edemaSeverity"

	rep, err := orch.Run(context.Background(), orchestrator.Request{
		Fields:  []descriptor.Field{edemaSeverity(), follower},
		Catalog: catalog,
	})
	require.NoError(t, err)
	require.True(t, rep.OK())
	for _, e := range rep.Entries {
		assert.Equal(t, report.Applied, e.Outcome, "%s/%s", e.Site, e.Field)
		if e.Field == "chestPain" {
			assert.Equal(t, "chained after edemaSeverity", e.Detail, e.Site)
		}
	}

	model, _ := chained.Get(testsupport.ModelFile)
	assert.Contains(t, model, "  edemaSeverity?: 'none' | 'mild' | 'moderate' | 'severe';\n  chestPain?: boolean;\n  createdAt?: Date;\n")
	page, _ := chained.Get(testsupport.FormPage)
	assert.Less(t, strings.Index(page, "register('edemaSeverity')"), strings.Index(page, "register('chestPain')"))

	// Without chaining both fields share each anchor and keep batch order,
	// which yields the same documents.
	plain, orchPlain, _ := newProject(t)
	_, err = orchPlain.Run(context.Background(), orchestrator.Request{
		Fields:  []descriptor.Field{edemaSeverity(), chestPain()},
		Catalog: catalog,
	})
	require.NoError(t, err)
	assert.Equal(t, plain.Snapshot(), chained.Snapshot())

	again, err := orch.Run(context.Background(), orchestrator.Request{
		Fields:  []descriptor.Field{edemaSeverity(), follower},
		Catalog: catalog,
	})
	require.NoError(t, err)
	for _, e := range again.Entries {
		assert.Equal(t, report.AlreadyApplied, e.Outcome, "%s/%s", e.Site, e.Field)
	}
}

func TestRun_DocumentRestriction(t *testing.T) {
	store, orch, catalog := newProject(t)

	rep, err := orch.Run(context.Background(), orchestrator.Request{
		Fields:    []descriptor.Field{edemaSeverity()},
		Catalog:   catalog,
		Documents: []string{"frontend/src/types/*.ts"},
	})
	require.NoError(t, err)
	require.Len(t, rep.Entries, 1)
	assert.Equal(t, "api-type", rep.Entries[0].Site)
	assert.Equal(t, report.Applied, rep.Entries[0].Outcome)
	assert.Equal(t, []string{testsupport.TypesFile}, store.Saves())
}

func TestRun_MissingDocument(t *testing.T) {
	store, orch, catalog := newProject(t)

	rep, err := orch.Run(context.Background(), orchestrator.Request{
		Fields:  []descriptor.Field{edemaSeverity()},
		Catalog: catalog,
		Vars:    map[string]string{"modelDir": "backend/src/entities"},
	})
	require.NoError(t, err)
	entry, ok := rep.Lookup("backend/src/entities/VitalsSample.ts", "model-class", "edemaSeverity")
	require.True(t, ok)
	assert.Equal(t, report.NotFound, entry.Outcome)
	assert.ErrorIs(t, entry.Err, anchor.ErrNotFound)
	assert.Empty(t, store.Saves())
}

func TestRun_GlobWithoutMatches(t *testing.T) {
	_, orch, _ := newProject(t)
	catalog := site.Catalog{
		Name: "globbed",
		Sites: []site.Site{{
			Name:     "dto",
			Kind:     site.KindInterface,
			Document: "shared/**/*.dto.ts",
			Anchor:   site.Anchor{Scope: "interface {{ record }}Dto", Before: "createdAt"},
			Template: "{{ name }}?: {{ tsType }};\n",
		}},
	}
	rep, err := orch.Run(context.Background(), orchestrator.Request{Fields: []descriptor.Field{chestPain()}, Catalog: catalog})
	require.NoError(t, err)
	require.Len(t, rep.Entries, 1)
	assert.Equal(t, report.NotFound, rep.Entries[0].Outcome)
	assert.Equal(t, "shared/**/*.dto.ts", rep.Entries[0].Document)
}

func TestRun_CustomPresenceProbe(t *testing.T) {
	store := document.NewMemoryStore(map[string]string{
		"schema.ts": "const schema = z.object({\n  name: z.string(),\n  // chestPain handled elsewhere\n});\n",
	})
	orch := orchestrator.New(orchestrator.WithStore(store))
	catalog := site.Catalog{
		Name: "probe",
		Sites: []site.Site{{
			Name:     "schema",
			Kind:     site.KindValidationSchema,
			Document: "schema.ts",
			Anchor:   site.Anchor{Scope: "const schema = z.object(", After: "name"},
			Template: "{{ name }}: {{ zodType }},\n",
			Presence: `//\s*{{ name }}\b`,
		}},
	}
	rep, err := orch.Run(context.Background(), orchestrator.Request{Fields: []descriptor.Field{chestPain()}, Catalog: catalog})
	require.NoError(t, err)
	assert.Equal(t, report.AlreadyApplied, rep.Entries[0].Outcome)
	assert.Empty(t, store.Saves())
}

func TestRun_InsertAfterLastLineWithoutNewline(t *testing.T) {
	store := document.NewMemoryStore(map[string]string{"types.ts": "export interface Row {\n  id: number;\n  name: string;\n}"})
	orch := orchestrator.New(orchestrator.WithStore(store))
	catalog := site.Catalog{
		Name: "eof",
		Sites: []site.Site{{
			Name:     "tail",
			Kind:     site.KindInterface,
			Document: "types.ts",
			Anchor:   site.Anchor{Pattern: `\}$`},
			Template: "export type {{ name }} = {{ tsType }};\n",
		}},
	}
	rep, err := orch.Run(context.Background(), orchestrator.Request{Fields: []descriptor.Field{chestPain()}, Catalog: catalog})
	require.NoError(t, err)
	require.Equal(t, report.Applied, rep.Entries[0].Outcome)
	got, _ := store.Get("types.ts")
	assert.Equal(t, "export interface Row {\n  id: number;\n  name: string;\n}\nexport type chestPain = boolean;\n", got)
}

func TestRun_FieldTransformer(t *testing.T) {
	store := document.NewMemoryStore(testsupport.ProjectFiles(t))
	preset, err := orchestrator.NewJSONPresetTransformer([]byte(`{"fields": {"edemaSeverity": {"label": "Swelling Severity"}}}`))
	require.NoError(t, err)
	orch := orchestrator.New(orchestrator.WithStore(store), orchestrator.WithFieldTransformer(preset))
	catalog, err := site.Default()
	require.NoError(t, err)

	fields := []descriptor.Field{edemaSeverity()}
	rep, err := orch.Run(context.Background(), orchestrator.Request{Fields: fields, Catalog: catalog})
	require.NoError(t, err)
	require.True(t, rep.OK())
	page, _ := store.Get(testsupport.FormPage)
	assert.Contains(t, page, "              Swelling Severity\n")
	assert.Empty(t, fields[0].Label, "caller descriptors must not be mutated")

	missing, err := orchestrator.NewJSONPresetTransformer([]byte(`{"fields": {"bloodGlucose": {"label": "x"}}}`))
	require.NoError(t, err)
	_, err = orchestrator.New(orchestrator.WithStore(store), orchestrator.WithFieldTransformer(missing)).
		Run(context.Background(), orchestrator.Request{Fields: fields, Catalog: catalog})
	assert.ErrorContains(t, err, `field "bloodGlucose" not found`)
}

func TestRun_Misuse(t *testing.T) {
	catalog, err := site.Default()
	require.NoError(t, err)
	store := document.NewMemoryStore(nil)
	fields := []descriptor.Field{chestPain()}

	var nilCtx context.Context
	_, err = orchestrator.New(orchestrator.WithStore(store)).Run(nilCtx, orchestrator.Request{Fields: fields, Catalog: catalog})
	assert.ErrorContains(t, err, "context is required")

	_, err = orchestrator.New().Run(context.Background(), orchestrator.Request{Fields: fields, Catalog: catalog})
	assert.ErrorContains(t, err, "document store is required")

	orch := orchestrator.New(orchestrator.WithStore(store))
	_, err = orch.Run(context.Background(), orchestrator.Request{Catalog: catalog})
	assert.ErrorContains(t, err, "at least one field")

	_, err = orch.Run(context.Background(), orchestrator.Request{Fields: fields, Catalog: site.Catalog{Name: "empty"}})
	assert.ErrorContains(t, err, "has no sites")

	_, err = orch.Run(context.Background(), orchestrator.Request{Fields: fields, Catalog: catalog, Mode: "lenient"})
	assert.ErrorContains(t, err, `unknown mode "lenient"`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = orch.Run(ctx, orchestrator.Request{Fields: fields, Catalog: catalog})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	store := document.NewMemoryStore(testsupport.ProjectFiles(t))
	orch := orchestrator.New(orchestrator.WithStore(store), orchestrator.WithLogger(zap.New(core)))
	catalog, err := site.Default()
	require.NoError(t, err)

	rep, err := orch.Run(context.Background(), orchestrator.Request{Fields: []descriptor.Field{edemaSeverity()}, Catalog: catalog})
	require.NoError(t, err)

	planned := logs.FilterMessage("planned insertions").All()
	require.Len(t, planned, 1)
	assert.Contains(t, planned[0].ContextMap()["plan"], "edemaSeverity")

	complete := logs.FilterMessage("run complete").All()
	require.Len(t, complete, 1)
	fields := complete[0].ContextMap()
	assert.Equal(t, rep.RunID, fields["run"])
	assert.Equal(t, "6 applied", fields["summary"])
	assert.Len(t, logs.FilterMessage("pair").All(), 6)
}

func TestRun_ChainedFieldFollowsItsTarget(t *testing.T) {
	store, orch, catalog := newProject(t)
	lead := chestPain()
	lead.After = "deviceId"
	follower := descriptor.Field{Name: "chestPainType", Record: "VitalsSample", Kind: descriptor.KindText, After: "chestPain"}

	rep, err := orch.Run(context.Background(), orchestrator.Request{
		Fields:    []descriptor.Field{lead, edemaSeverity(), follower},
		Catalog:   catalog,
		Documents: []string{testsupport.TypesFile},
	})
	require.NoError(t, err)
	require.True(t, rep.OK())
	require.Len(t, rep.Entries, 3)

	types, _ := store.Get(testsupport.TypesFile)
	assert.Contains(t, types, "  deviceId?: string;\n"+
		"  chestPain?: boolean;\n"+
		"  chestPainType?: string;\n"+
		"  edemaSeverity?: 'none' | 'mild' | 'moderate' | 'severe';\n"+
		"  createdAt: string;\n")
}

func TestRun_DuplicateFieldInsertedOnce(t *testing.T) {
	store, orch, catalog := newProject(t)
	implicit := descriptor.Field{Name: "dizziness", Kind: descriptor.KindBoolean}
	explicit := implicit
	explicit.Record = "VitalsSample"

	rep, err := orch.Run(context.Background(), orchestrator.Request{
		Fields:  []descriptor.Field{implicit, explicit},
		Catalog: catalog,
	})
	require.NoError(t, err)
	assert.True(t, rep.OK())
	assert.Len(t, rep.ByOutcome(report.Applied), 6)
	duplicates := rep.ByOutcome(report.AlreadyApplied)
	require.Len(t, duplicates, 6)
	for _, e := range duplicates {
		assert.Equal(t, "duplicate of an earlier batch field", e.Detail, e.Site)
	}

	types, _ := store.Get(testsupport.TypesFile)
	assert.Equal(t, 1, strings.Count(types, "dizziness?:"))
	model, _ := store.Get(testsupport.ModelFile)
	assert.Equal(t, 1, strings.Count(model, "public dizziness?:"))
}

func TestRun_ConflictingDuplicateBlocksStrictRun(t *testing.T) {
	store, orch, catalog := newProject(t)
	before := store.Snapshot()

	rep, err := orch.Run(context.Background(), orchestrator.Request{
		Fields: []descriptor.Field{
			{Name: "dizziness", Kind: descriptor.KindBoolean},
			{Name: "dizziness", Record: "VitalsSample", Kind: descriptor.KindText},
		},
		Catalog: catalog,
	})
	require.NoError(t, err)
	assert.False(t, rep.OK())

	conflicts := rep.ByOutcome(report.Ambiguous)
	require.Len(t, conflicts, 6)
	for _, e := range conflicts {
		assert.Equal(t, 2, e.Count, e.Site)
		assert.ErrorIs(t, e.Err, anchor.ErrAmbiguous, e.Site)
	}
	assert.Len(t, rep.ByOutcome(report.Aborted), 6)
	assert.Equal(t, before, store.Snapshot())
}

func TestRun_SaveFailureKeepsEarlierWrites(t *testing.T) {
	store, orch, catalog := newProject(t)
	diskFull := errors.New("disk full")
	store.BeforeSave = func(id, _ string) error {
		if id == testsupport.FormPage {
			return diskFull
		}
		return nil
	}
	types := testsupport.MustProjectFile(t, testsupport.TypesFile)

	rep, err := orch.Run(context.Background(), orchestrator.Request{
		Fields:  []descriptor.Field{edemaSeverity()},
		Catalog: catalog,
	})
	require.ErrorIs(t, err, diskFull)
	assert.Equal(t, []string{testsupport.ModelFile}, store.Saves())

	model, _ := store.Get(testsupport.ModelFile)
	assert.Contains(t, model, "edemaSeverity")
	got, _ := store.Get(testsupport.TypesFile)
	assert.Equal(t, types, got)
	for _, e := range rep.Entries {
		want := report.Pending
		if e.Document == testsupport.ModelFile {
			want = report.Applied
		}
		assert.Equal(t, want, e.Outcome, e.Site)
	}
}
