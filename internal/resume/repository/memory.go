package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/resumate/resumate/internal/resume"
)

// MemoryRepo keeps documents in a map. Used by tests and `serve --memory`.
// Stored documents are never handed out directly; callers get copies.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*resume.Document
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*resume.Document), now: time.Now}
}

func cloneDoc(d *resume.Document) *resume.Document {
	cp := *d
	cp.Content = *d.Content.Clone()
	return &cp
}

func (m *MemoryRepo) List(_ context.Context, owner string) ([]*resume.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*resume.Document, 0)
	for _, d := range m.store {
		if d.OwnerID == owner {
			out = append(out, cloneDoc(d))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastUpdated.After(out[j].LastUpdated) })
	return out, nil
}

func (m *MemoryRepo) FindByTitle(_ context.Context, owner, title string) (*resume.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.store {
		if d.OwnerID == owner && d.Title == title {
			return cloneDoc(d), nil
		}
	}
	return nil, nil
}

func (m *MemoryRepo) Insert(_ context.Context, doc *resume.Document) (*resume.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.store {
		if d.OwnerID == doc.OwnerID && d.Title == doc.Title {
			return nil, ErrDuplicateTitle
		}
	}
	d := cloneDoc(doc)
	d.ID = uuid.NewString()
	d.Version = 1
	now := m.now()
	d.CreatedAt, d.UpdatedAt, d.LastUpdated = now, now, now
	d.Content.Normalize()
	m.store[d.ID] = d
	return cloneDoc(d), nil
}

func (m *MemoryRepo) Get(_ context.Context, owner, id string) (*resume.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.store[id]
	if !ok || d.OwnerID != owner {
		return nil, ErrNotFound
	}
	return cloneDoc(d), nil
}

func (m *MemoryRepo) ReplaceContent(_ context.Context, owner, id string, content resume.Template, expectedVersion *int64) (*resume.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok || d.OwnerID != owner {
		return nil, ErrNotFound
	}
	if expectedVersion != nil && *expectedVersion != d.Version {
		return nil, ErrVersionMismatch
	}
	d.Content = *content.Clone()
	d.Content.Normalize()
	d.Version++
	now := m.now()
	d.UpdatedAt = now
	if now.After(d.LastUpdated) {
		d.LastUpdated = now
	}
	return cloneDoc(d), nil
}

func (m *MemoryRepo) Delete(_ context.Context, owner, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok || d.OwnerID != owner {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
