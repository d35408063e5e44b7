package job

import (
	"context"
	"fmt"

	"github.com/openhire/jobdesk/internal/domain"
)

// Service exposes the candidate-facing job catalog
type Service interface {
	// List returns every visible job with its company summary
	List(ctx context.Context) ([]domain.JobView, error)

	// Get returns one job with its company summary
	Get(ctx context.Context, id domain.JobID) (domain.JobView, error)
}

// NewService builds the public job catalog service
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("job.Service: repository is required")
	}
	return &service{repo: repo}, nil
}

type service struct {
	repo Repository
}

func (s *service) List(ctx context.Context) ([]domain.JobView, error) {
	views, err := s.repo.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list visible jobs: %w", err)
	}
	return views, nil
}

func (s *service) Get(ctx context.Context, id domain.JobID) (domain.JobView, error) {
	view, err := s.repo.ViewByID(ctx, id)
	if err != nil {
		return domain.JobView{}, fmt.Errorf("load job %s: %w", id, err)
	}
	return view, nil
}
