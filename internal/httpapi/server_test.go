package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/openhire/jobdesk/internal/domain"
	"github.com/openhire/jobdesk/internal/domain/company"
	"github.com/openhire/jobdesk/internal/domain/screening"
	"github.com/openhire/jobdesk/internal/domain/user"
	"github.com/openhire/jobdesk/pkg/logging"
)

type stubCompanySvc struct {
	company domain.Company
	job     domain.Job
	err     error
}

func (s *stubCompanySvc) Register(ctx context.Context, in company.RegisterInput) (domain.Company, error) {
	return s.company, s.err
}

func (s *stubCompanySvc) Login(ctx context.Context, email, password string) (domain.Company, error) {
	return s.company, s.err
}

func (s *stubCompanySvc) Get(ctx context.Context, id domain.CompanyID) (domain.Company, error) {
	return s.company, s.err
}

func (s *stubCompanySvc) PostJob(ctx context.Context, companyID domain.CompanyID, draft company.JobDraft) (domain.Job, error) {
	return s.job, s.err
}

func (s *stubCompanySvc) ListJobs(ctx context.Context, companyID domain.CompanyID) ([]domain.JobWithApplicants, error) {
	return nil, s.err
}

func (s *stubCompanySvc) Applicants(ctx context.Context, companyID domain.CompanyID) ([]domain.ApplicationView, error) {
	return nil, s.err
}

func (s *stubCompanySvc) ChangeStatus(ctx context.Context, companyID domain.CompanyID, applicationID domain.ApplicationID, status domain.ApplicationStatus) error {
	return s.err
}

func (s *stubCompanySvc) ChangeVisibility(ctx context.Context, companyID domain.CompanyID, jobID domain.JobID) (domain.Job, error) {
	return s.job, s.err
}

type stubJobSvc struct {
	views []domain.JobView
	err   error
}

func (s *stubJobSvc) List(ctx context.Context) ([]domain.JobView, error) {
	return s.views, s.err
}

func (s *stubJobSvc) Get(ctx context.Context, id domain.JobID) (domain.JobView, error) {
	for _, v := range s.views {
		if v.Job.ID == id {
			return v, nil
		}
	}
	return domain.JobView{}, fmt.Errorf("%w: job", domain.ErrNotFound)
}

type stubUserSvc struct {
	user   domain.User
	err    error
	synced int
}

func (s *stubUserSvc) Sync(ctx context.Context, ev user.SyncEvent) error {
	s.synced++
	return s.err
}

func (s *stubUserSvc) Get(ctx context.Context, id domain.UserID) (domain.User, error) {
	return s.user, s.err
}

func (s *stubUserSvc) GetByExternalID(ctx context.Context, externalID string) (domain.User, error) {
	return s.user, s.err
}

func (s *stubUserSvc) Apply(ctx context.Context, userID domain.UserID, jobID domain.JobID) (domain.Application, error) {
	return domain.Application{}, s.err
}

func (s *stubUserSvc) Applications(ctx context.Context, userID domain.UserID) ([]domain.ApplicationView, error) {
	return nil, s.err
}

func (s *stubUserSvc) UpdateResume(ctx context.Context, userID domain.UserID, filename string, data []byte) (string, error) {
	return "", s.err
}

type stubScreeningSvc struct {
	summary domain.ShortlistSummary
	err     error
}

func (s *stubScreeningSvc) Analyze(ctx context.Context, companyID domain.CompanyID, jobID domain.JobID, topN int) (domain.ShortlistSummary, error) {
	return s.summary, s.err
}

var _ screening.Service = (*stubScreeningSvc)(nil)

const webhookTestSecret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

type serverFixture struct {
	companies *stubCompanySvc
	jobs      *stubJobSvc
	users     *stubUserSvc
	screening *stubScreeningSvc
	tokens    *TokenIssuer
	webhooks  *svix.Webhook
	handler   http.Handler
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	f := &serverFixture{
		companies: &stubCompanySvc{},
		jobs:      &stubJobSvc{},
		users:     &stubUserSvc{},
		screening: &stubScreeningSvc{},
	}

	tokens, err := NewTokenIssuer("test-secret")
	require.NoError(t, err)
	f.tokens = tokens

	webhooks, err := svix.NewWebhook(webhookTestSecret)
	require.NoError(t, err)
	f.webhooks = webhooks

	srv, err := NewServer("127.0.0.1", "0", f.companies, f.jobs, f.users, f.screening, tokens, webhooks, logging.New("error"))
	require.NoError(t, err)
	f.handler = srv.httpServer.Handler
	return f
}

// postWebhook delivers payload with a valid svix signature
func (f *serverFixture) postWebhook(t *testing.T, payload string) *httptest.ResponseRecorder {
	t.Helper()

	msgID := "msg_" + uuid.New().String()
	now := time.Now()
	signature, err := f.webhooks.Sign(msgID, now, []byte(payload))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhooks", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("svix-id", msgID)
	req.Header.Set("svix-timestamp", fmt.Sprintf("%d", now.Unix()))
	req.Header.Set("svix-signature", signature)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *serverFixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestListJobsPublic(t *testing.T) {
	f := newServerFixture(t)
	f.jobs.views = []domain.JobView{
		{
			Job:     domain.Job{ID: uuid.New(), Title: "Backend Engineer", Visible: true, CreatedAt: time.Now()},
			Company: domain.CompanySummary{ID: uuid.New(), Name: "Acme"},
		},
	}

	rec := f.do(t, http.MethodGet, "/api/jobs", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Jobs    []struct {
			Title   string `json:"title"`
			Company struct {
				Name string `json:"name"`
			} `json:"companyId"`
		} `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Jobs, 1)
	assert.Equal(t, "Backend Engineer", body.Jobs[0].Title)
	assert.Equal(t, "Acme", body.Jobs[0].Company.Name)
}

func TestGetJobUnknownID(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodGet, "/api/jobs/"+uuid.New().String(), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJobMalformedID(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodGet, "/api/jobs/not-a-uuid", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompanyRoutesRequireToken(t *testing.T) {
	f := newServerFixture(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/company/company"},
		{http.MethodPost, "/api/company/post-job"},
		{http.MethodGet, "/api/company/applicants"},
		{http.MethodGet, "/api/company/list-jobs"},
		{http.MethodPost, "/api/company/change-status"},
		{http.MethodPost, "/api/company/change-visibility"},
		{http.MethodPost, "/api/company/analyze-resumes"},
	} {
		rec := f.do(t, route.method, route.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestUserTokenRejectedOnCompanyRoute(t *testing.T) {
	f := newServerFixture(t)

	token, err := f.tokens.Issue("auth|1", RoleUser)
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/company/company", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnalyzeResumesEndpoint(t *testing.T) {
	f := newServerFixture(t)
	f.screening.summary = domain.ShortlistSummary{AcceptedCount: 3}

	token, err := f.tokens.Issue(uuid.New().String(), RoleCompany)
	require.NoError(t, err)

	body := fmt.Sprintf(`{"jobId":%q,"topN":3}`, uuid.New())
	rec := f.do(t, http.MethodPost, "/api/company/analyze-resumes", token, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success  bool `json:"success"`
		Accepted int  `json:"accepted"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Accepted)
}

func TestAnalyzeResumesErrorMapping(t *testing.T) {
	f := newServerFixture(t)

	token, err := f.tokens.Issue(uuid.New().String(), RoleCompany)
	require.NoError(t, err)

	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: topN must be at least 1", domain.ErrInvalidArgument), http.StatusBadRequest},
		{fmt.Errorf("%w: job not found", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: job belongs to another company", domain.ErrNotAuthorized), http.StatusUnauthorized},
		{fmt.Errorf("%w: scorer down", domain.ErrUpstreamUnavailable), http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		f.screening.err = tc.err
		body := fmt.Sprintf(`{"jobId":%q,"topN":1}`, uuid.New())
		rec := f.do(t, http.MethodPost, "/api/company/analyze-resumes", token, body)
		assert.Equal(t, tc.want, rec.Code, "error %v", tc.err)
	}
}

func TestApplyConflictMapsTo409(t *testing.T) {
	f := newServerFixture(t)
	f.users.user = domain.User{ID: uuid.New(), ExternalID: "auth|1"}
	f.users.err = fmt.Errorf("%w: already applied for this job", domain.ErrConflict)

	token, err := f.tokens.Issue("auth|1", RoleUser)
	require.NoError(t, err)

	body := fmt.Sprintf(`{"jobId":%q}`, uuid.New())
	rec := f.do(t, http.MethodPost, "/api/users/apply", token, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWebhookIgnoresUnknownEvent(t *testing.T) {
	f := newServerFixture(t)

	rec := f.postWebhook(t, `{"type":"session.created","data":{"id":"auth|1"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ignored")
}

func TestWebhookSyncsUser(t *testing.T) {
	f := newServerFixture(t)

	payload := `{
		"type": "user.created",
		"data": {
			"id": "auth|42",
			"first_name": "Ada",
			"last_name": "Perez",
			"email_addresses": [{"email_address": "ada@example.test"}]
		}
	}`
	rec := f.postWebhook(t, payload)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "synced")
}

func TestWebhookRejectsUnsignedDelivery(t *testing.T) {
	f := newServerFixture(t)
	f.users.synced = 0

	rec := f.do(t, http.MethodPost, "/webhooks", "", `{"type":"user.deleted","data":{"id":"seed|ada"}}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, f.users.synced, "an unsigned delivery must never reach storage")
}

func TestWebhookRejectsTamperedPayload(t *testing.T) {
	f := newServerFixture(t)

	payload := `{"type":"user.deleted","data":{"id":"seed|ada"}}`
	msgID := "msg_" + uuid.New().String()
	now := time.Now()
	signature, err := f.webhooks.Sign(msgID, now, []byte(`{"type":"user.updated","data":{"id":"auth|1"}}`))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhooks", strings.NewReader(payload))
	req.Header.Set("svix-id", msgID)
	req.Header.Set("svix-timestamp", fmt.Sprintf("%d", now.Unix()))
	req.Header.Set("svix-signature", signature)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, f.users.synced)
}

func TestWebhookRejectedWhenVerifierMissing(t *testing.T) {
	f := newServerFixture(t)

	srv, err := NewServer("127.0.0.1", "0", f.companies, f.jobs, f.users, f.screening, f.tokens, nil, logging.New("error"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhooks", strings.NewReader(`{"type":"user.deleted","data":{"id":"seed|ada"}}`))
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, f.users.synced)
}
