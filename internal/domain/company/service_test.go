package company

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhire/jobdesk/internal/domain"
)

type memoryCompanies struct {
	byEmail map[string]domain.Company
}

func newMemoryCompanies() *memoryCompanies {
	return &memoryCompanies{byEmail: map[string]domain.Company{}}
}

func (r *memoryCompanies) Create(ctx context.Context, c domain.Company) error {
	if _, ok := r.byEmail[c.Email]; ok {
		return fmt.Errorf("%w: email taken", domain.ErrConflict)
	}
	r.byEmail[c.Email] = c
	return nil
}

func (r *memoryCompanies) FindByEmail(ctx context.Context, email string) (domain.Company, error) {
	c, ok := r.byEmail[email]
	if !ok {
		return domain.Company{}, fmt.Errorf("%w: company", domain.ErrNotFound)
	}
	return c, nil
}

func (r *memoryCompanies) FindByID(ctx context.Context, id domain.CompanyID) (domain.Company, error) {
	for _, c := range r.byEmail {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Company{}, fmt.Errorf("%w: company", domain.ErrNotFound)
}

type memoryJobs struct {
	jobs map[domain.JobID]domain.Job
}

func newMemoryJobs() *memoryJobs {
	return &memoryJobs{jobs: map[domain.JobID]domain.Job{}}
}

func (r *memoryJobs) Create(ctx context.Context, j domain.Job) error {
	r.jobs[j.ID] = j
	return nil
}

func (r *memoryJobs) FindByID(ctx context.Context, id domain.JobID) (domain.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, fmt.Errorf("%w: job", domain.ErrNotFound)
	}
	return j, nil
}

func (r *memoryJobs) ListVisible(ctx context.Context) ([]domain.JobView, error) {
	return nil, nil
}

func (r *memoryJobs) ViewByID(ctx context.Context, id domain.JobID) (domain.JobView, error) {
	return domain.JobView{}, fmt.Errorf("%w: job", domain.ErrNotFound)
}

func (r *memoryJobs) ListByCompany(ctx context.Context, companyID domain.CompanyID) ([]domain.JobWithApplicants, error) {
	var out []domain.JobWithApplicants
	for _, j := range r.jobs {
		if j.CompanyID == companyID {
			out = append(out, domain.JobWithApplicants{Job: j})
		}
	}
	return out, nil
}

func (r *memoryJobs) SetVisibility(ctx context.Context, id domain.JobID, visible bool) (domain.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, fmt.Errorf("%w: job", domain.ErrNotFound)
	}
	j.Visible = visible
	r.jobs[id] = j
	return j, nil
}

type memoryAppStore struct {
	apps map[domain.ApplicationID]domain.Application
}

func newMemoryAppStore() *memoryAppStore {
	return &memoryAppStore{apps: map[domain.ApplicationID]domain.Application{}}
}

func (r *memoryAppStore) ListByCompany(ctx context.Context, companyID domain.CompanyID) ([]domain.ApplicationView, error) {
	return nil, nil
}

func (r *memoryAppStore) FindByID(ctx context.Context, id domain.ApplicationID) (domain.Application, error) {
	a, ok := r.apps[id]
	if !ok {
		return domain.Application{}, fmt.Errorf("%w: application", domain.ErrNotFound)
	}
	return a, nil
}

func (r *memoryAppStore) UpdateStatus(ctx context.Context, id domain.ApplicationID, status domain.ApplicationStatus) error {
	a, ok := r.apps[id]
	if !ok {
		return fmt.Errorf("%w: application", domain.ErrNotFound)
	}
	a.Status = status
	r.apps[id] = a
	return nil
}

type stubUploader struct{}

func (stubUploader) Upload(ctx context.Context, folder, filename string, data []byte) (string, error) {
	return "https://cdn.test/" + folder + "/" + filename, nil
}

type recordingNotifier struct {
	posted []domain.JobID
}

func (n *recordingNotifier) JobPosted(ctx context.Context, j domain.Job, c domain.Company) {
	n.posted = append(n.posted, j.ID)
}

type deps struct {
	companies *memoryCompanies
	jobs      *memoryJobs
	apps      *memoryAppStore
	notifier  *recordingNotifier
}

func newService(t *testing.T) (Service, *deps) {
	t.Helper()

	d := &deps{
		companies: newMemoryCompanies(),
		jobs:      newMemoryJobs(),
		apps:      newMemoryAppStore(),
		notifier:  &recordingNotifier{},
	}

	svc, err := NewService(
		WithRepository(d.companies),
		WithJobs(d.jobs),
		WithApplications(d.apps),
		WithUploader(stubUploader{}),
		WithNotifier(d.notifier),
	)
	require.NoError(t, err)
	return svc, d
}

func register(t *testing.T, svc Service) domain.Company {
	t.Helper()
	c, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Acme",
		Email:    "jobs@acme.test",
		Password: "hunter22",
		LogoName: "logo.png",
		Logo:     []byte{0x89, 0x50, 0x4e, 0x47},
	})
	require.NoError(t, err)
	return c
}

func TestRegisterHashesPasswordAndUploadsLogo(t *testing.T) {
	svc, _ := newService(t)

	c := register(t, svc)
	assert.NotEqual(t, "hunter22", c.PasswordHash)
	assert.Equal(t, "https://cdn.test/companies/logo.png", c.LogoURL)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Acme Again",
		Email:    "JOBS@acme.test", // emails are case-insensitive
		Password: "other",
		LogoName: "logo.png",
		Logo:     []byte{1},
	})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Acme"})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	created := register(t, svc)

	c, err := svc.Login(context.Background(), "jobs@acme.test", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, created.ID, c.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc)

	_, err := svc.Login(context.Background(), "jobs@acme.test", "wrong")
	require.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc)

	_, wrongPass := svc.Login(context.Background(), "jobs@acme.test", "wrong")
	_, unknown := svc.Login(context.Background(), "nobody@acme.test", "wrong")

	// Both paths must be indistinguishable to the caller
	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestPostJobVisibleByDefaultAndBroadcast(t *testing.T) {
	svc, d := newService(t)
	c := register(t, svc)

	j, err := svc.PostJob(context.Background(), c.ID, JobDraft{
		Title:       "Backend Engineer",
		Description: "<p>Go and Neo4j</p>",
		Location:    "Berlin",
		Salary:      80000,
	})
	require.NoError(t, err)

	assert.True(t, j.Visible)
	assert.Equal(t, c.ID, j.CompanyID)
	assert.Equal(t, []domain.JobID{j.ID}, d.notifier.posted)
}

func TestPostJobRequiresTitleAndDescription(t *testing.T) {
	svc, d := newService(t)
	c := register(t, svc)

	_, err := svc.PostJob(context.Background(), c.ID, JobDraft{Title: "  "})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Empty(t, d.notifier.posted)
}

func TestChangeStatus(t *testing.T) {
	svc, d := newService(t)
	c := register(t, svc)

	appID := uuid.New()
	d.apps.apps[appID] = domain.Application{
		ID:        appID,
		CompanyID: c.ID,
		Status:    domain.StatusPending,
	}

	err := svc.ChangeStatus(context.Background(), c.ID, appID, domain.StatusInterview)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInterview, d.apps.apps[appID].Status)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	svc, _ := newService(t)
	c := register(t, svc)

	err := svc.ChangeStatus(context.Background(), c.ID, uuid.New(), "Ghosted")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestChangeStatusForeignApplication(t *testing.T) {
	svc, d := newService(t)
	c := register(t, svc)

	appID := uuid.New()
	d.apps.apps[appID] = domain.Application{
		ID:        appID,
		CompanyID: uuid.New(), // someone else's applicant
		Status:    domain.StatusPending,
	}

	err := svc.ChangeStatus(context.Background(), c.ID, appID, domain.StatusAccepted)
	require.ErrorIs(t, err, domain.ErrNotAuthorized)
	assert.Equal(t, domain.StatusPending, d.apps.apps[appID].Status)
}

func TestChangeVisibilityToggles(t *testing.T) {
	svc, _ := newService(t)
	c := register(t, svc)

	j, err := svc.PostJob(context.Background(), c.ID, JobDraft{Title: "QA", Description: "test things"})
	require.NoError(t, err)
	require.True(t, j.Visible)

	hidden, err := svc.ChangeVisibility(context.Background(), c.ID, j.ID)
	require.NoError(t, err)
	assert.False(t, hidden.Visible)

	shown, err := svc.ChangeVisibility(context.Background(), c.ID, j.ID)
	require.NoError(t, err)
	assert.True(t, shown.Visible)
}

func TestChangeVisibilityForeignJob(t *testing.T) {
	svc, _ := newService(t)
	c := register(t, svc)

	j, err := svc.PostJob(context.Background(), c.ID, JobDraft{Title: "QA", Description: "test things"})
	require.NoError(t, err)

	_, err = svc.ChangeVisibility(context.Background(), uuid.New(), j.ID)
	require.ErrorIs(t, err, domain.ErrNotAuthorized)

	current, err := svc.ChangeVisibility(context.Background(), c.ID, j.ID)
	require.NoError(t, err)
	assert.False(t, current.Visible) // only the owner's toggle went through
}
