// Package editor holds the client side of a resume editing session: an
// in-memory copy of one document, the section editors that mutate it, and the
// load/save protocol that keeps it in sync with the resume API. The server
// binary does not import it; it is the library for editing front ends, which
// pair it with resumeclient.Client or, in process, with ServiceStore.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/resumate/resumate/internal/apperr"
	"github.com/resumate/resumate/internal/resume"
	"github.com/resumate/resumate/pkg/logger"
)

// State is the lifecycle of a Session.
type State int

const (
	Unloaded State = iota
	Loading
	Ready
	Saving
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Saving:
		return "saving"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrNotReady is returned for edits before Load has finished.
var ErrNotReady = errors.New("editor: session not loaded")

// ErrUnsavedChanges is returned by Load when local edits have not been saved.
var ErrUnsavedChanges = errors.New("editor: unsaved local changes")

// Store is the remote side of the save/load protocol.
type Store interface {
	Get(ctx context.Context, id string) (*resume.Document, error)
	Update(ctx context.Context, id string, content *resume.Template) (*resume.Document, error)
}

// DefaultPreviewDelay is the quiet period before a preview notification.
const DefaultPreviewDelay = 300 * time.Millisecond

type Option func(*Session)

// WithPreview calls fn with a snapshot once edits pause for delay.
func WithPreview(delay time.Duration, fn func(*resume.Template)) Option {
	return func(s *Session) {
		s.onPreview = fn
		s.preview = NewDebouncer(delay)
	}
}

// Session mirrors one resume document for the length of an editing session.
// Edits are local and immediate; Save pushes the whole template.
type Session struct {
	id    string
	store Store

	onPreview func(*resume.Template)
	preview   *Debouncer

	// saveSlot admits one Save at a time
	saveSlot chan struct{}

	mu       sync.Mutex
	state    State
	content  *resume.Template
	version  int64
	rev      uint64 // bumped by every local mutation
	savedRev uint64 // highest rev the store has acknowledged
}

// NewSession opens a session on document id. Content starts at the defaults.
func NewSession(id string, store Store, opts ...Option) *Session {
	s := &Session{
		id:       id,
		store:    store,
		saveSlot: make(chan struct{}, 1),
		content:  resume.NewTemplate(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Session) ID() string { return s.id }

// Load hydrates the session from the store. On failure the defaults stay in
// place, the session still becomes Ready, and the error is returned. Reloading
// a dirty session is refused with ErrUnsavedChanges; Save first.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state == Loading || s.state == Saving {
		s.mu.Unlock()
		return fmt.Errorf("editor: load while %s", s.state)
	}
	if s.rev > s.savedRev {
		s.mu.Unlock()
		return ErrUnsavedChanges
	}
	s.state = Loading
	s.mu.Unlock()

	doc, err := s.store.Get(ctx, s.id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Ready
	if err != nil {
		logger.Warnf("editor: load %s: %v", s.id, err)
		return err
	}
	content := doc.Content.Clone()
	content.Normalize()
	s.content = content
	s.version = doc.Version
	s.savedRev = s.rev
	return nil
}

// mutate applies fn under the lock and schedules a preview.
func (s *Session) mutate(fn func(t *resume.Template) error) error {
	s.mu.Lock()
	if s.state == Unloaded || s.state == Loading {
		s.mu.Unlock()
		return ErrNotReady
	}
	if err := fn(s.content); err != nil {
		s.mu.Unlock()
		return err
	}
	s.rev++
	s.mu.Unlock()
	s.schedulePreview()
	return nil
}

func (s *Session) schedulePreview() {
	if s.preview == nil {
		return
	}
	s.preview.Trigger(s.firePreview)
}

func (s *Session) firePreview() {
	s.onPreview(s.Snapshot())
}

// Edit replaces one section locally without validation or persistence.
// value is whatever resume.Template.Set accepts for key.
func (s *Session) Edit(key resume.SectionKey, value any) error {
	return s.mutate(func(t *resume.Template) error { return t.Set(key, value) })
}

func (s *Session) EditPersonalDetails(pd resume.PersonalDetails) error {
	return s.Edit(resume.KeyPersonalDetails, pd)
}

// ClearSection hides and empties a section locally.
func (s *Session) ClearSection(key resume.SectionKey) error {
	return s.mutate(func(t *resume.Template) error { return t.Clear(key) })
}

// Submit validates a section editor's value, merges it and saves the document.
// A bare entry list makes the section visible.
func (s *Session) Submit(ctx context.Context, key resume.SectionKey, value any) error {
	if err := resume.ValidateSection(key, value); err != nil {
		return err
	}
	if err := s.Edit(key, value); err != nil {
		return err
	}
	return s.Save(ctx)
}

func (s *Session) SubmitPersonalDetails(ctx context.Context, pd resume.PersonalDetails) error {
	return s.Submit(ctx, resume.KeyPersonalDetails, pd)
}

// Save pushes the full template to the store. Saves run one at a time; a
// caller whose edits were already carried by a later snapshot returns without
// another round trip.
func (s *Session) Save(ctx context.Context) error {
	if s.id == "" {
		return apperr.Invalid("id", "Missing resume ID")
	}

	s.mu.Lock()
	if s.state == Unloaded || s.state == Loading {
		s.mu.Unlock()
		return ErrNotReady
	}
	want := s.rev
	s.mu.Unlock()

	select {
	case s.saveSlot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.saveSlot }()

	s.mu.Lock()
	if s.savedRev >= want {
		s.mu.Unlock()
		return nil
	}
	snap := s.content.Clone()
	rev := s.rev
	s.state = Saving
	s.mu.Unlock()

	doc, err := s.store.Update(ctx, s.id, snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Ready
	if err != nil {
		logger.Errorf("editor: save %s: %v", s.id, err)
		return err
	}
	s.savedRev = rev
	s.version = doc.Version
	return nil
}

// Snapshot returns a deep copy of the current template.
func (s *Session) Snapshot() *resume.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content.Clone()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dirty reports local edits the store has not acknowledged.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev > s.savedRev
}

// Version is the document version of the last successful load or save.
func (s *Session) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Close flushes a pending preview and stops the debouncer.
func (s *Session) Close() {
	if s.preview == nil {
		return
	}
	s.preview.Flush(s.firePreview)
	s.preview.Stop()
}
