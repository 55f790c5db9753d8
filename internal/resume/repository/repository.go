package repository

import (
	"context"
	"errors"

	"github.com/resumate/resumate/internal/resume"
)

var (
	ErrNotFound        = errors.New("resume not found")
	ErrVersionMismatch = errors.New("resume version mismatch")
	ErrDuplicateTitle  = errors.New("resume title already exists")
)

// Repository persists resume documents. Every lookup is scoped to an owner: a
// document belonging to someone else is reported as ErrNotFound.
type Repository interface {
	// List returns the owner's documents, most recently updated first.
	List(ctx context.Context, owner string) ([]*resume.Document, error)
	// FindByTitle returns (nil, nil) when the owner has no document with that title.
	FindByTitle(ctx context.Context, owner, title string) (*resume.Document, error)
	// Insert assigns ID, Version=1 and timestamps and stores doc. Titles are
	// unique per owner; a clash returns ErrDuplicateTitle.
	Insert(ctx context.Context, doc *resume.Document) (*resume.Document, error)
	Get(ctx context.Context, owner, id string) (*resume.Document, error)
	// ReplaceContent swaps the whole template and bumps the version. When
	// expectedVersion is non-nil and differs from the stored one, nothing is
	// written and ErrVersionMismatch is returned.
	ReplaceContent(ctx context.Context, owner, id string, content resume.Template, expectedVersion *int64) (*resume.Document, error)
	Delete(ctx context.Context, owner, id string) error
}
