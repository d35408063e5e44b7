package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openhire/jobdesk/internal/domain"
	"github.com/openhire/jobdesk/pkg/logging"
)

// Uploader stores a binary and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, folder, filename string, data []byte) (string, error)
}

// SyncAction enumerates auth-provider webhook event kinds
type SyncAction string

const (
	SyncCreated SyncAction = "user.created"
	SyncUpdated SyncAction = "user.updated"
	SyncDeleted SyncAction = "user.deleted"
)

// SyncEvent mirrors one auth-provider user event
type SyncEvent struct {
	Action     SyncAction
	ExternalID string
	Name       string
	Email      string
	ImageURL   string
}

// Service exposes the candidate-facing operations
type Service interface {
	// Sync applies an auth-provider user event to local storage
	Sync(ctx context.Context, ev SyncEvent) error

	// Get loads the caller's user record
	Get(ctx context.Context, id domain.UserID) (domain.User, error)

	// GetByExternalID resolves an auth-provider ID to the local record
	GetByExternalID(ctx context.Context, externalID string) (domain.User, error)

	// Apply submits an application for a job. At most one application may
	// exist per (user, job); a second attempt fails with ErrConflict.
	Apply(ctx context.Context, userID domain.UserID, jobID domain.JobID) (domain.Application, error)

	// Applications lists the caller's applications with job and company views
	Applications(ctx context.Context, userID domain.UserID) ([]domain.ApplicationView, error)

	// UpdateResume uploads a new resume and overwrites the stored reference
	UpdateResume(ctx context.Context, userID domain.UserID, filename string, data []byte) (string, error)
}

// NewService builds the user service
func NewService(repo Repository, apps Applications, jobs Jobs, uploader Uploader, logger *logging.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user.Service: repository is required")
	}
	if apps == nil {
		return nil, fmt.Errorf("user.Service: application storage is required")
	}
	if jobs == nil {
		return nil, fmt.Errorf("user.Service: job storage is required")
	}
	if logger == nil {
		logger = logging.New("info")
	}

	return &service{
		repo:     repo,
		apps:     apps,
		jobs:     jobs,
		uploader: uploader,
		logger:   logger,
		clock:    time.Now,
	}, nil
}

type service struct {
	repo     Repository
	apps     Applications
	jobs     Jobs
	uploader Uploader
	logger   *logging.Logger
	clock    func() time.Time
}

func (s *service) Sync(ctx context.Context, ev SyncEvent) error {
	if ev.ExternalID == "" {
		return fmt.Errorf("%w: external id is required", domain.ErrInvalidArgument)
	}

	switch ev.Action {
	case SyncCreated, SyncUpdated:
		u := domain.User{
			ID:         uuid.New(),
			ExternalID: ev.ExternalID,
			Name:       ev.Name,
			Email:      ev.Email,
			ImageURL:   ev.ImageURL,
			CreatedAt:  s.clock(),
		}
		if err := s.repo.Upsert(ctx, u); err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}
		s.logger.Info("user synced", "external_id", ev.ExternalID, "action", ev.Action)
		return nil
	case SyncDeleted:
		if err := s.repo.Delete(ctx, ev.ExternalID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		s.logger.Info("user deleted", "external_id", ev.ExternalID)
		return nil
	default:
		return fmt.Errorf("%w: unknown sync action %q", domain.ErrInvalidArgument, ev.Action)
	}
}

func (s *service) Get(ctx context.Context, id domain.UserID) (domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("load user %s: %w", id, err)
	}
	return u, nil
}

func (s *service) GetByExternalID(ctx context.Context, externalID string) (domain.User, error) {
	u, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return domain.User{}, fmt.Errorf("load user %s: %w", externalID, err)
	}
	return u, nil
}

func (s *service) Apply(ctx context.Context, userID domain.UserID, jobID domain.JobID) (domain.Application, error) {
	j, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Application{}, fmt.Errorf("%w: job not found", domain.ErrNotFound)
		}
		return domain.Application{}, fmt.Errorf("load job %s: %w", jobID, err)
	}

	app := domain.Application{
		ID:        uuid.New(),
		JobID:     jobID,
		UserID:    userID,
		CompanyID: j.CompanyID,
		Status:    domain.StatusPending,
		CreatedAt: s.clock(),
	}

	if err := s.apps.CreateUnique(ctx, app); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Application{}, fmt.Errorf("%w: already applied for this job", domain.ErrConflict)
		}
		return domain.Application{}, fmt.Errorf("create application: %w", err)
	}

	s.logger.Info("application submitted", "user_id", userID, "job_id", jobID)
	return app, nil
}

func (s *service) Applications(ctx context.Context, userID domain.UserID) ([]domain.ApplicationView, error) {
	views, err := s.apps.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return views, nil
}

func (s *service) UpdateResume(ctx context.Context, userID domain.UserID, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: no file uploaded", domain.ErrInvalidArgument)
	}

	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return "", fmt.Errorf("load user %s: %w", userID, err)
	}

	if s.uploader == nil {
		return "", fmt.Errorf("%w: resume storage unavailable", domain.ErrUpstreamUnavailable)
	}

	url, err := s.uploader.Upload(ctx, "resumes", filename, data)
	if err != nil {
		return "", fmt.Errorf("%w: upload resume: %v", domain.ErrUpstreamUnavailable, err)
	}

	if err := s.repo.SetResumeURL(ctx, userID, url); err != nil {
		return "", fmt.Errorf("store resume url: %w", err)
	}

	s.logger.Info("resume updated", "user_id", userID)
	return url, nil
}
