package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileOption customises a FileStore.
type FileOption func(*FileStore)

// WithFileMode sets the permissions used when Save creates a document.
// Existing documents keep their mode.
func WithFileMode(mode fs.FileMode) FileOption {
	return func(s *FileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

// FileStore serves documents from a project directory.
type FileStore struct {
	root string
	mode fs.FileMode
}

var _ Store = (*FileStore)(nil)

// NewFileStore roots a store at dir, which must exist.
func NewFileStore(dir string, options ...FileOption) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("document: root directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("document: resolve root %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("document: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document: root %s is not a directory", abs)
	}

	store := &FileStore{root: abs, mode: 0o644}
	for _, opt := range options {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

// Root returns the absolute project directory.
func (s *FileStore) Root() string {
	return s.root
}

// Load reads a document.
func (s *FileStore) Load(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.path(id)
	if err != nil {
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("document: open %s: %w", id, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("document: read %s: %w", id, err)
	}
	return string(data), nil
}

// Save replaces a document's content.
func (s *FileStore) Save(ctx context.Context, id, content string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(id)
	if err != nil {
		return err
	}

	mode := s.mode
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("document: open %s for write: %w", id, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("document: close %s: %w", id, closeErr)
		}
	}()

	if _, err := io.WriteString(file, content); err != nil {
		return fmt.Errorf("document: write %s: %w", id, err)
	}
	return nil
}

// Glob expands pattern against the project directory.
func (s *FileStore) Glob(pattern string) ([]string, error) {
	pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
	if !IsPattern(pattern) {
		return []string{pattern}, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("document: invalid pattern %q", pattern)
	}
	matches, err := doublestar.Glob(os.DirFS(s.root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("document: glob %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

func (s *FileStore) path(id string) (string, error) {
	clean := filepath.FromSlash(strings.TrimPrefix(id, "./"))
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("document: %q escapes the project root", id)
	}
	return filepath.Join(s.root, clean), nil
}
