package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/resumate/resumate/internal/apperr"
	"github.com/resumate/resumate/internal/lock"
	"github.com/resumate/resumate/internal/resume"
	"github.com/resumate/resumate/internal/resume/repository"
	"github.com/resumate/resumate/pkg/logger"
	"github.com/resumate/resumate/pkg/metrics"
)

// Service implements the resume business operations used by the handler layer.
// Every operation is scoped to the caller identity passed as owner.
type Service struct {
	repo   repository.Repository
	locker lock.Locker
}

// New wires a Service. A nil locker falls back to an in-process KeyedMutex.
func New(repo repository.Repository, locker lock.Locker) *Service {
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	return &Service{repo: repo, locker: locker}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() *Service {
	return New(repository.NewMemoryRepo(), nil)
}

func requireOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return &apperr.AuthError{Reason: "missing identity"}
	}
	return nil
}

func validID(id string) error {
	switch strings.TrimSpace(id) {
	case "", "undefined", "null":
		return apperr.Invalid("id", "invalid resume id")
	}
	return nil
}

func notFound(id string) error {
	return &apperr.NotFoundError{Resource: "resume", ID: id}
}

func (s *Service) List(ctx context.Context, owner string) ([]resume.Summary, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	docs, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]resume.Summary, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Summary())
	}
	return out, nil
}

// Create upserts by (owner, title): an existing document with the same title gets
// its content replaced and created is false.
func (s *Service) Create(ctx context.Context, owner, title string, content *resume.Template) (doc *resume.Document, created bool, err error) {
	if err := requireOwner(owner); err != nil {
		return nil, false, err
	}
	if content == nil {
		return nil, false, apperr.Invalid("resumeData", "is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = resume.DefaultTitle
	}
	defer func() { recordWrite("create", err) }()

	unlock, err := s.locker.Lock(ctx, "resume-title:"+owner+":"+title)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	// A document can disappear between the lookup and the write (concurrent
	// delete) or appear (another replica inserting the same title), so retry once.
	for attempt := 0; ; attempt++ {
		existing, err := s.repo.FindByTitle(ctx, owner, title)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			doc, err = s.replaceByTitle(ctx, owner, existing.ID, content)
			if err == nil {
				logger.Debugf("resume %s: replaced by title %q", doc.ID, title)
				return doc, false, nil
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, false, s.mapErr(ctx, owner, existing.ID, nil, err)
			}
			logger.Debugf("resume %s: deleted during upsert of %q, inserting", existing.ID, title)
		}
		doc, err = s.repo.Insert(ctx, &resume.Document{OwnerID: owner, Title: title, Content: *content})
		if errors.Is(err, repository.ErrDuplicateTitle) && attempt == 0 {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		logger.Debugf("resume %s: created for %s", doc.ID, owner)
		return doc, true, nil
	}
}

// replaceByTitle takes the same per-document lock as Update and Delete.
func (s *Service) replaceByTitle(ctx context.Context, owner, id string, content *resume.Template) (*resume.Document, error) {
	unlock, err := s.locker.Lock(ctx, "resume:"+id)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.repo.ReplaceContent(ctx, owner, id, *content, nil)
}

func (s *Service) Get(ctx context.Context, owner, id string) (*resume.Document, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if err := validID(id); err != nil {
		return nil, err
	}
	d, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return nil, s.mapErr(ctx, owner, id, nil, err)
	}
	return d, nil
}

// Update replaces the whole template. Writes to one id are serialized; when
// expectedVersion is set and stale the write is refused with a ConflictError.
func (s *Service) Update(ctx context.Context, owner, id string, content *resume.Template, expectedVersion *int64) (doc *resume.Document, err error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if err := validID(id); err != nil {
		return nil, err
	}
	if content == nil {
		return nil, apperr.Invalid("resumeData", "is required")
	}
	defer func() { recordWrite("update", err) }()

	unlock, err := s.locker.Lock(ctx, "resume:"+id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	doc, err = s.repo.ReplaceContent(ctx, owner, id, *content, expectedVersion)
	if err != nil {
		return nil, s.mapErr(ctx, owner, id, expectedVersion, err)
	}
	return doc, nil
}

func (s *Service) Delete(ctx context.Context, owner, id string) (err error) {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if err := validID(id); err != nil {
		return err
	}
	defer func() { recordWrite("delete", err) }()

	unlock, err := s.locker.Lock(ctx, "resume:"+id)
	if err != nil {
		return err
	}
	defer unlock()
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return s.mapErr(ctx, owner, id, nil, err)
	}
	return nil
}

func (s *Service) mapErr(ctx context.Context, owner, id string, expected *int64, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound(id)
	case errors.Is(err, repository.ErrVersionMismatch):
		ce := &apperr.ConflictError{ID: id}
		if expected != nil {
			ce.Expected = *expected
		}
		if cur, gerr := s.repo.Get(ctx, owner, id); gerr == nil {
			ce.Actual = cur.Version
		}
		return ce
	}
	return err
}

func recordWrite(op string, err error) {
	outcome := "ok"
	switch apperr.HTTPStatus(err) {
	case http.StatusOK:
	case http.StatusConflict:
		outcome = "conflict"
	case http.StatusNotFound:
		outcome = "not_found"
	case http.StatusBadRequest:
		outcome = "invalid"
	default:
		outcome = "error"
		logger.Errorf("resume %s failed: %v", op, err)
	}
	metrics.ResumeWrites.WithLabelValues(op, outcome).Inc()
}
