package user

import (
	"context"

	"github.com/openhire/jobdesk/internal/domain"
)

// Repository persists and loads candidate users
type Repository interface {
	// Upsert creates or updates a user keyed by its auth-provider ID
	Upsert(ctx context.Context, u domain.User) error

	// Delete removes a user by its auth-provider ID
	Delete(ctx context.Context, externalID string) error

	// FindByID loads a user by local ID
	FindByID(ctx context.Context, id domain.UserID) (domain.User, error)

	// FindByExternalID loads a user by its auth-provider ID
	FindByExternalID(ctx context.Context, externalID string) (domain.User, error)

	// SetResumeURL overwrites the user's resume reference
	SetResumeURL(ctx context.Context, id domain.UserID, url string) error

	// ListAll loads every registered user
	ListAll(ctx context.Context) ([]domain.User, error)
}

// Applications is the slice of application storage the user service
// needs. CreateUnique must enforce the one-application-per-(user, job)
// invariant atomically against concurrent identical requests.
type Applications interface {
	CreateUnique(ctx context.Context, app domain.Application) error
	ListByUser(ctx context.Context, userID domain.UserID) ([]domain.ApplicationView, error)
}

// Jobs is the slice of job storage the user service needs
type Jobs interface {
	FindByID(ctx context.Context, id domain.JobID) (domain.Job, error)
}
