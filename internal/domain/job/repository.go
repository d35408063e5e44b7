package job

import (
	"context"

	"github.com/openhire/jobdesk/internal/domain"
)

// Repository persists and loads jobs from storage
type Repository interface {
	// Create stores a new job
	Create(ctx context.Context, j domain.Job) error

	// FindByID loads one job, visible or not
	FindByID(ctx context.Context, id domain.JobID) (domain.Job, error)

	// ListVisible loads all visible jobs with their owning companies
	ListVisible(ctx context.Context) ([]domain.JobView, error)

	// ViewByID loads one job joined with its owning company
	ViewByID(ctx context.Context, id domain.JobID) (domain.JobView, error)

	// ListByCompany loads a company's jobs with applicant counts
	ListByCompany(ctx context.Context, companyID domain.CompanyID) ([]domain.JobWithApplicants, error)

	// SetVisibility flips the visibility flag and returns the updated job
	SetVisibility(ctx context.Context, id domain.JobID, visible bool) (domain.Job, error)
}
