package document

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// MemoryStore keeps documents in memory. Hooks let callers observe or
// interfere with individual operations.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]string
	saves []string

	// BeforeSave runs ahead of every Save and aborts it when it returns an
	// error.
	BeforeSave func(id, content string) error
	// AfterLoad runs after every successful Load.
	AfterLoad func(id string)
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore seeds a store with a copy of docs.
func NewMemoryStore(docs map[string]string) *MemoryStore {
	store := &MemoryStore{docs: make(map[string]string, len(docs))}
	for id, content := range docs {
		store.docs[id] = content
	}
	return store
}

// Load returns a document or an error wrapping fs.ErrNotExist.
func (m *MemoryStore) Load(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	content, ok := m.docs[id]
	hook := m.AfterLoad
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("document: open %s: %w", id, fs.ErrNotExist)
	}
	if hook != nil {
		hook(id)
	}
	return content, nil
}

// Save stores content under id.
func (m *MemoryStore) Save(ctx context.Context, id, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.BeforeSave != nil {
		if err := m.BeforeSave(id, content); err != nil {
			return fmt.Errorf("document: write %s: %w", id, err)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = content
	m.saves = append(m.saves, id)
	return nil
}

// Glob matches pattern against the stored identifiers.
func (m *MemoryStore) Glob(pattern string) ([]string, error) {
	if !IsPattern(pattern) {
		return []string{pattern}, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("document: invalid pattern %q", pattern)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for id := range m.docs {
		if ok, _ := doublestar.Match(pattern, id); ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Put replaces a document without recording a save.
func (m *MemoryStore) Put(id, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = content
}

// Get returns a document's current content.
func (m *MemoryStore) Get(id string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.docs[id]
	return content, ok
}

// Snapshot copies every document.
func (m *MemoryStore) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.docs))
	for id, content := range m.docs {
		out[id] = content
	}
	return out
}

// Saves lists the identifiers written so far, in order.
func (m *MemoryStore) Saves() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.saves...)
}
