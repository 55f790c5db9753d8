package editor

import (
	"context"

	"github.com/resumate/resumate/internal/resume"
	"github.com/resumate/resumate/internal/resume/service"
)

// ServiceStore drives a Session against an in-process resume service on
// behalf of one owner.
type ServiceStore struct {
	svc   *service.Service
	owner string
}

func NewServiceStore(svc *service.Service, owner string) *ServiceStore {
	return &ServiceStore{svc: svc, owner: owner}
}

func (s *ServiceStore) Get(ctx context.Context, id string) (*resume.Document, error) {
	return s.svc.Get(ctx, s.owner, id)
}

func (s *ServiceStore) Update(ctx context.Context, id string, content *resume.Template) (*resume.Document, error) {
	return s.svc.Update(ctx, s.owner, id, content, nil)
}
