package screening

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openhire/jobdesk/internal/domain"
	"github.com/openhire/jobdesk/pkg/htmltext"
	"github.com/openhire/jobdesk/pkg/logging"
)

const (
	defaultConcurrency = 4
	defaultCallTimeout = 30 * time.Second
)

// Jobs is the slice of job storage the pipeline needs
type Jobs interface {
	FindByID(ctx context.Context, id domain.JobID) (domain.Job, error)
}

// Applications is the slice of application storage the pipeline needs
type Applications interface {
	ListByJob(ctx context.Context, jobID domain.JobID, status domain.ApplicationStatus) ([]domain.Application, error)
	UpdateStatus(ctx context.Context, id domain.ApplicationID, status domain.ApplicationStatus) error
}

// Users loads applicant records for resume references and notification
type Users interface {
	FindByID(ctx context.Context, id domain.UserID) (domain.User, error)
}

// Scorer submits one resume against a plain-text job description and
// returns the external match analysis
type Scorer interface {
	Score(ctx context.Context, resume []byte, filename, jobDescription string) (domain.ResumeAnalysis, error)
}

// ResumeFetcher loads raw resume bytes from a document URL
type ResumeFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Shortlister sends the shortlist notification to one accepted candidate
type Shortlister interface {
	Shortlisted(ctx context.Context, u domain.User, j domain.Job) error
}

// Service runs the resume ranking and shortlisting pipeline
type Service interface {
	// Analyze scores every pending applicant of the job, accepts the top
	// N by score, notifies them, and reports how many were accepted.
	Analyze(ctx context.Context, companyID domain.CompanyID, jobID domain.JobID, topN int) (domain.ShortlistSummary, error)
}

// Option configures Service
type Option func(*config)

type config struct {
	jobs        Jobs
	apps        Applications
	users       Users
	scorer      Scorer
	fetcher     ResumeFetcher
	shortlister Shortlister
	logger      *logging.Logger
	concurrency int
	callTimeout time.Duration
}

// WithJobs sets the job storage
func WithJobs(jobs Jobs) Option {
	return func(c *config) { c.jobs = jobs }
}

// WithApplications sets the application storage
func WithApplications(apps Applications) Option {
	return func(c *config) { c.apps = apps }
}

// WithUsers sets the user storage
func WithUsers(users Users) Option {
	return func(c *config) { c.users = users }
}

// WithScorer sets the external scoring client
func WithScorer(s Scorer) Option {
	return func(c *config) { c.scorer = s }
}

// WithResumeFetcher sets the resume document fetcher
func WithResumeFetcher(f ResumeFetcher) Option {
	return func(c *config) { c.fetcher = f }
}

// WithShortlister sets the shortlist notifier
func WithShortlister(s Shortlister) Option {
	return func(c *config) { c.shortlister = s }
}

// WithLogger sets the service logger
func WithLogger(l *logging.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithConcurrency caps the per-candidate fetch+score fan-out
func WithConcurrency(n int) Option {
	return func(c *config) { c.concurrency = n }
}

// WithCallTimeout bounds each outbound fetch or score call
func WithCallTimeout(d time.Duration) Option {
	return func(c *config) { c.callTimeout = d }
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{
		concurrency: defaultConcurrency,
		callTimeout: defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.jobs == nil {
		return nil, fmt.Errorf("screening.Service: job storage is required")
	}
	if cfg.apps == nil {
		return nil, fmt.Errorf("screening.Service: application storage is required")
	}
	if cfg.users == nil {
		return nil, fmt.Errorf("screening.Service: user storage is required")
	}
	if cfg.scorer == nil {
		return nil, fmt.Errorf("screening.Service: scorer is required")
	}
	if cfg.fetcher == nil {
		return nil, fmt.Errorf("screening.Service: resume fetcher is required")
	}
	if cfg.logger == nil {
		cfg.logger = logging.New("info")
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}

	return &service{cfg: *cfg}, nil
}

type service struct {
	cfg config
}

// scored pairs a result with its fetch order so ties keep insertion order
type scored struct {
	index  int
	result domain.ScoreResult
	user   domain.User
}

func (s *service) Analyze(ctx context.Context, companyID domain.CompanyID, jobID domain.JobID, topN int) (domain.ShortlistSummary, error) {
	if topN < 1 {
		return domain.ShortlistSummary{}, fmt.Errorf("%w: topN must be at least 1", domain.ErrInvalidArgument)
	}

	j, err := s.cfg.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ShortlistSummary{}, fmt.Errorf("%w: job not found", domain.ErrNotFound)
		}
		return domain.ShortlistSummary{}, fmt.Errorf("load job %s: %w", jobID, err)
	}

	if j.CompanyID != companyID {
		return domain.ShortlistSummary{}, fmt.Errorf("%w: job belongs to another company", domain.ErrNotAuthorized)
	}

	apps, err := s.cfg.apps.ListByJob(ctx, jobID, domain.StatusPending)
	if err != nil {
		return domain.ShortlistSummary{}, fmt.Errorf("list applications: %w", err)
	}

	if len(apps) == 0 {
		return domain.ShortlistSummary{AcceptedCount: 0}, nil
	}

	description := htmltext.Strip(j.Description)
	results := s.scoreAll(ctx, apps, description)

	// Descending by score; SliceStable keeps fetch order on ties since
	// the scorer defines no tie-break of its own.
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].result.Analysis.Score > results[b].result.Analysis.Score
	})

	take := topN
	if take > len(results) {
		take = len(results)
	}

	accepted := 0
	for _, cand := range results[:take] {
		appID := cand.result.Application.ID
		if err := s.cfg.apps.UpdateStatus(ctx, appID, domain.StatusAccepted); err != nil {
			s.cfg.logger.Error("failed to accept application", "application_id", appID, "err", err)
			continue
		}
		accepted++

		if s.cfg.shortlister != nil {
			if err := s.cfg.shortlister.Shortlisted(ctx, cand.user, j); err != nil {
				s.cfg.logger.Warn("shortlist notification failed", "application_id", appID, "err", err)
			}
		}
	}

	s.cfg.logger.Info("screening pass finished",
		"job_id", jobID,
		"applications", len(apps),
		"scored", len(results),
		"accepted", accepted,
	)

	return domain.ShortlistSummary{AcceptedCount: accepted}, nil
}

// scoreAll fetches and scores every candidate with a bounded fan-out.
// Individual failures are logged and excluded; they never abort the pass.
func (s *service) scoreAll(ctx context.Context, apps []domain.Application, description string) []scored {
	var (
		mu      sync.Mutex
		results []scored
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.concurrency)

	for i, app := range apps {
		g.Go(func() error {
			res, u, ok := s.scoreOne(gctx, app, description)
			if !ok {
				return nil
			}
			mu.Lock()
			results = append(results, scored{index: i, result: res, user: u})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(a, b int) bool {
		return results[a].index < results[b].index
	})

	return results
}

func (s *service) scoreOne(ctx context.Context, app domain.Application, description string) (domain.ScoreResult, domain.User, bool) {
	u, err := s.cfg.users.FindByID(ctx, app.UserID)
	if err != nil {
		s.cfg.logger.Warn("skipping applicant: user lookup failed", "application_id", app.ID, "err", err)
		return domain.ScoreResult{}, domain.User{}, false
	}

	if u.ResumeURL == "" {
		s.cfg.logger.Debug("skipping applicant: no resume on file", "application_id", app.ID)
		return domain.ScoreResult{}, domain.User{}, false
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.callTimeout)
	resume, err := s.cfg.fetcher.Fetch(fetchCtx, u.ResumeURL)
	cancel()
	if err != nil {
		s.cfg.logger.Warn("skipping applicant: resume fetch failed", "application_id", app.ID, "err", err)
		return domain.ScoreResult{}, domain.User{}, false
	}

	scoreCtx, cancel := context.WithTimeout(ctx, s.cfg.callTimeout)
	analysis, err := s.cfg.scorer.Score(scoreCtx, resume, resumeFilename(u), description)
	cancel()
	if err != nil {
		s.cfg.logger.Warn("skipping applicant: scoring failed", "application_id", app.ID, "err", err)
		return domain.ScoreResult{}, domain.User{}, false
	}

	return domain.ScoreResult{Application: app, Analysis: analysis}, u, true
}

func resumeFilename(u domain.User) string {
	return fmt.Sprintf("resume-%s.pdf", u.ID)
}
