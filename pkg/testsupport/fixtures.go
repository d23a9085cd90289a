package testsupport

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldprop/pkg/descriptor"
)

// Project file identifiers, relative to the fixture project root.
const (
	ModelFile = "backend/src/models/VitalsSample.ts"
	TypesFile = "frontend/src/types/index.ts"
	FormPage  = "frontend/src/pages/VitalsPage.tsx"
)

//go:embed fixtures/project
var projectFS embed.FS

// ProjectFS exposes the fixture project: a Sequelize model, a shared types
// module and a react-hook-form page laid out the way the built-in catalog
// expects.
func ProjectFS() fs.FS {
	sub, err := fs.Sub(projectFS, "fixtures/project")
	if err != nil {
		panic(fmt.Sprintf("testsupport: project fixtures: %v", err))
	}
	return sub
}

// ProjectFiles returns every fixture project file keyed by its slash
// separated identifier.
func ProjectFiles(t *testing.T) map[string]string {
	t.Helper()

	files, err := LoadProjectFiles()
	if err != nil {
		t.Fatalf("load project fixtures: %v", err)
	}
	return files
}

// LoadProjectFiles mirrors ProjectFiles for callers without a testing.T.
func LoadProjectFiles() (map[string]string, error) {
	out := make(map[string]string)
	err := fs.WalkDir(ProjectFS(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(ProjectFS(), path)
		if err != nil {
			return err
		}
		out[path] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("testsupport: walk project: %w", err)
	}
	return out, nil
}

// MustProjectFile returns one fixture project file.
func MustProjectFile(t *testing.T, id string) string {
	t.Helper()

	data, err := fs.ReadFile(ProjectFS(), id)
	if err != nil {
		t.Fatalf("read project file %s: %v", id, err)
	}
	return string(data)
}

// CopyProject writes the fixture project into a fresh temporary directory and
// returns its path.
func CopyProject(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	for id, content := range ProjectFiles(t) {
		path := filepath.Join(root, filepath.FromSlash(id))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return root
}

// MustLoadFields reads a descriptor fixture.
func MustLoadFields(t *testing.T, path string) []descriptor.Field {
	t.Helper()

	if path == "" {
		t.Fatalf("load fields: %v", errors.New("testsupport: descriptor path is required"))
	}
	fields, err := descriptor.LoadFile(path)
	if err != nil {
		t.Fatalf("load fields: %v", err)
	}
	return fields
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertGolden compares got with the golden file at path, rewriting the
// golden instead when UPDATE_GOLDENS is set.
func AssertGolden(t *testing.T, path, got string) {
	t.Helper()
	if WriteMaybeGolden(t, path, []byte(got)) {
		return
	}
	want := MustReadGoldenString(t, path)
	if diff := CompareGolden(want, got); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", filepath.Base(path), diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
