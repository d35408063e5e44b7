package company

import (
	"context"

	"github.com/openhire/jobdesk/internal/domain"
)

// Repository persists and loads company accounts
type Repository interface {
	// Create stores a new company. Returns domain.ErrConflict if the
	// email is already registered.
	Create(ctx context.Context, c domain.Company) error

	// FindByEmail loads a company by its unique email
	FindByEmail(ctx context.Context, email string) (domain.Company, error)

	// FindByID loads a company by ID
	FindByID(ctx context.Context, id domain.CompanyID) (domain.Company, error)
}

// Applications is the slice of application storage the company service
// needs: listing a company's applicant pool and moving one application
// through its status transitions.
type Applications interface {
	ListByCompany(ctx context.Context, companyID domain.CompanyID) ([]domain.ApplicationView, error)
	FindByID(ctx context.Context, id domain.ApplicationID) (domain.Application, error)
	UpdateStatus(ctx context.Context, id domain.ApplicationID, status domain.ApplicationStatus) error
}
