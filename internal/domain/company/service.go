package company

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/openhire/jobdesk/internal/domain"
	"github.com/openhire/jobdesk/internal/domain/job"
	"github.com/openhire/jobdesk/pkg/logging"
)

// Uploader stores a binary and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, folder, filename string, data []byte) (string, error)
}

// Notifier broadcasts a job-posted event to the user base. Dispatch is
// fire-and-forget relative to the job-creation result.
type Notifier interface {
	JobPosted(ctx context.Context, j domain.Job, c domain.Company)
}

// RegisterInput carries the fields of a company registration request
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	LogoName string
	Logo     []byte
}

// JobDraft carries the fields of a job posting request
type JobDraft struct {
	Title       string
	Description string
	Location    string
	Category    string
	Level       string
	Salary      int64
}

// Service exposes the recruiter-facing operations
type Service interface {
	Register(ctx context.Context, in RegisterInput) (domain.Company, error)
	Login(ctx context.Context, email, password string) (domain.Company, error)
	Get(ctx context.Context, id domain.CompanyID) (domain.Company, error)
	PostJob(ctx context.Context, companyID domain.CompanyID, draft JobDraft) (domain.Job, error)
	ListJobs(ctx context.Context, companyID domain.CompanyID) ([]domain.JobWithApplicants, error)
	Applicants(ctx context.Context, companyID domain.CompanyID) ([]domain.ApplicationView, error)
	ChangeStatus(ctx context.Context, companyID domain.CompanyID, applicationID domain.ApplicationID, status domain.ApplicationStatus) error
	ChangeVisibility(ctx context.Context, companyID domain.CompanyID, jobID domain.JobID) (domain.Job, error)
}

// Option configures Service
type Option func(*config)

type config struct {
	repo     Repository
	jobs     job.Repository
	apps     Applications
	uploader Uploader
	notifier Notifier
	logger   *logging.Logger
	clock    func() time.Time
}

// WithRepository sets the company repository
func WithRepository(repo Repository) Option {
	return func(c *config) { c.repo = repo }
}

// WithJobs sets the job repository
func WithJobs(jobs job.Repository) Option {
	return func(c *config) { c.jobs = jobs }
}

// WithApplications sets the application storage
func WithApplications(apps Applications) Option {
	return func(c *config) { c.apps = apps }
}

// WithUploader sets the binary store for company logos
func WithUploader(u Uploader) Option {
	return func(c *config) { c.uploader = u }
}

// WithNotifier sets the job-posted broadcast dispatcher
func WithNotifier(n Notifier) Option {
	return func(c *config) { c.notifier = n }
}

// WithLogger sets the service logger
func WithLogger(l *logging.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *config) { c.clock = clock }
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.repo == nil {
		return nil, fmt.Errorf("company.Service: repository is required")
	}
	if cfg.jobs == nil {
		return nil, fmt.Errorf("company.Service: job repository is required")
	}
	if cfg.apps == nil {
		return nil, fmt.Errorf("company.Service: application storage is required")
	}
	if cfg.logger == nil {
		cfg.logger = logging.New("info")
	}

	return &service{
		repo:     cfg.repo,
		jobs:     cfg.jobs,
		apps:     cfg.apps,
		uploader: cfg.uploader,
		notifier: cfg.notifier,
		logger:   cfg.logger,
		clock:    cfg.clock,
	}, nil
}

type service struct {
	repo     Repository
	jobs     job.Repository
	apps     Applications
	uploader Uploader
	notifier Notifier
	logger   *logging.Logger
	clock    func() time.Time
}

func (s *service) Register(ctx context.Context, in RegisterInput) (domain.Company, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if in.Name == "" || in.Email == "" || in.Password == "" || len(in.Logo) == 0 {
		return domain.Company{}, fmt.Errorf("%w: name, email, password and logo are required", domain.ErrInvalidArgument)
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return domain.Company{}, fmt.Errorf("%w: company already exists", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Company{}, fmt.Errorf("check existing company: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Company{}, fmt.Errorf("hash password: %w", err)
	}

	logoURL := ""
	if s.uploader != nil {
		logoURL, err = s.uploader.Upload(ctx, "companies", in.LogoName, in.Logo)
		if err != nil {
			return domain.Company{}, fmt.Errorf("upload logo: %w", err)
		}
	}

	c := domain.Company{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		LogoURL:      logoURL,
		CreatedAt:    s.clock(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return domain.Company{}, fmt.Errorf("create company: %w", err)
	}

	s.logger.Info("company registered", "company_id", c.ID, "email", c.Email)
	return c, nil
}

func (s *service) Login(ctx context.Context, email, password string) (domain.Company, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	c, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Same message as a wrong password so the response does not
			// reveal which emails are registered.
			return domain.Company{}, fmt.Errorf("%w: invalid email or password", domain.ErrNotAuthorized)
		}
		return domain.Company{}, fmt.Errorf("load company: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return domain.Company{}, fmt.Errorf("%w: invalid email or password", domain.ErrNotAuthorized)
	}

	return c, nil
}

func (s *service) Get(ctx context.Context, id domain.CompanyID) (domain.Company, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Company{}, fmt.Errorf("load company %s: %w", id, err)
	}
	return c, nil
}

func (s *service) PostJob(ctx context.Context, companyID domain.CompanyID, draft JobDraft) (domain.Job, error) {
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Description) == "" {
		return domain.Job{}, fmt.Errorf("%w: title and description are required", domain.ErrInvalidArgument)
	}

	c, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		return domain.Job{}, fmt.Errorf("load company %s: %w", companyID, err)
	}

	j := domain.Job{
		ID:          uuid.New(),
		Title:       draft.Title,
		Description: draft.Description,
		Location:    draft.Location,
		Category:    draft.Category,
		Level:       draft.Level,
		Salary:      draft.Salary,
		CompanyID:   companyID,
		Visible:     true,
		CreatedAt:   s.clock(),
	}

	if err := s.jobs.Create(ctx, j); err != nil {
		return domain.Job{}, fmt.Errorf("create job: %w", err)
	}

	s.logger.Info("job posted", "job_id", j.ID, "company_id", companyID, "title", j.Title)

	if s.notifier != nil {
		s.notifier.JobPosted(ctx, j, c)
	}

	return j, nil
}

func (s *service) ListJobs(ctx context.Context, companyID domain.CompanyID) ([]domain.JobWithApplicants, error) {
	rows, err := s.jobs.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company jobs: %w", err)
	}
	return rows, nil
}

func (s *service) Applicants(ctx context.Context, companyID domain.CompanyID) ([]domain.ApplicationView, error) {
	views, err := s.apps.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	return views, nil
}

func (s *service) ChangeStatus(ctx context.Context, companyID domain.CompanyID, applicationID domain.ApplicationID, status domain.ApplicationStatus) error {
	if !domain.ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, status)
	}

	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("load application %s: %w", applicationID, err)
	}

	if app.CompanyID != companyID {
		return fmt.Errorf("%w: application belongs to another company", domain.ErrNotAuthorized)
	}

	if err := s.apps.UpdateStatus(ctx, applicationID, status); err != nil {
		return fmt.Errorf("update application status: %w", err)
	}

	s.logger.Info("application status changed", "application_id", applicationID, "status", status)
	return nil
}

func (s *service) ChangeVisibility(ctx context.Context, companyID domain.CompanyID, jobID domain.JobID) (domain.Job, error) {
	j, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return domain.Job{}, fmt.Errorf("load job %s: %w", jobID, err)
	}

	if j.CompanyID != companyID {
		return domain.Job{}, fmt.Errorf("%w: job belongs to another company", domain.ErrNotAuthorized)
	}

	updated, err := s.jobs.SetVisibility(ctx, jobID, !j.Visible)
	if err != nil {
		return domain.Job{}, fmt.Errorf("toggle visibility: %w", err)
	}

	s.logger.Info("job visibility changed", "job_id", jobID, "visible", updated.Visible)
	return updated, nil
}
