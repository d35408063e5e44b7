package notify

import (
	"context"
	"fmt"

	"github.com/openhire/jobdesk/internal/domain"
	"github.com/openhire/jobdesk/pkg/logging"
)

// Mailer delivers one email
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Publisher hands a job-posted event to the broadcast queue
type Publisher interface {
	Publish(ctx context.Context, ev domain.JobPostedEvent) error
}

// Users is the slice of user storage the notifier needs
type Users interface {
	ListAll(ctx context.Context) ([]domain.User, error)
}

// Service dispatches job-posted broadcasts and shortlist notifications.
// All deliveries are best-effort: per-recipient failures are logged and
// never abort the batch or the triggering request.
type Service struct {
	users     Users
	mailer    Mailer
	publisher Publisher
	logger    *logging.Logger
}

// NewService builds the notification service. publisher may be nil; in
// that case broadcasts are delivered inline on a background goroutine.
func NewService(users Users, mailer Mailer, publisher Publisher, logger *logging.Logger) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("notify.Service: user storage is required")
	}
	if mailer == nil {
		return nil, fmt.Errorf("notify.Service: mailer is required")
	}
	if logger == nil {
		logger = logging.New("info")
	}

	return &Service{
		users:     users,
		mailer:    mailer,
		publisher: publisher,
		logger:    logger,
	}, nil
}

// JobPosted queues the broadcast for a newly created job. It never fails
// the caller: a publish error falls back to inline background delivery.
func (s *Service) JobPosted(ctx context.Context, j domain.Job, c domain.Company) {
	ev := domain.JobPostedEvent{
		JobID:       j.ID,
		Title:       j.Title,
		Location:    j.Location,
		CompanyName: c.Name,
		PostedAt:    j.CreatedAt,
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ev); err == nil {
			return
		} else {
			s.logger.Warn("broadcast publish failed, delivering inline", "job_id", ev.JobID, "err", err)
		}
	}

	// Outlives the job-creation request on purpose.
	bg := context.WithoutCancel(ctx)
	go func() {
		if err := s.DeliverJobPosted(bg, ev); err != nil {
			s.logger.Error("inline broadcast delivery failed", "job_id", ev.JobID, "err", err)
		}
	}()
}

// DeliverJobPosted sends one job-posted email to every registered user
// with a non-empty address. Consumed from the broadcast queue.
func (s *Service) DeliverJobPosted(ctx context.Context, ev domain.JobPostedEvent) error {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list users for broadcast: %w", err)
	}

	subject := fmt.Sprintf("New job posted: %s", ev.Title)
	body := fmt.Sprintf(
		"A new position just went live.\r\n\r\nRole: %s\r\nCompany: %s\r\nLocation: %s\r\n\r\nLog in to apply.\r\n",
		ev.Title, ev.CompanyName, ev.Location,
	)

	sent := 0
	for _, u := range users {
		if u.Email == "" {
			continue
		}
		if err := s.mailer.Send(ctx, u.Email, subject, body); err != nil {
			s.logger.Warn("job-posted email failed", "job_id", ev.JobID, "to", u.Email, "err", err)
			continue
		}
		sent++
	}

	s.logger.Info("job-posted broadcast delivered", "job_id", ev.JobID, "recipients", sent, "users", len(users))
	return nil
}

// Shortlisted emails one accepted candidate
func (s *Service) Shortlisted(ctx context.Context, u domain.User, j domain.Job) error {
	if u.Email == "" {
		return fmt.Errorf("user %s has no email", u.ID)
	}

	subject := fmt.Sprintf("You have been shortlisted for %s", j.Title)
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nGood news: your application for %s (%s) made the shortlist. The recruiter will be in touch with next steps.\r\n",
		u.Name, j.Title, j.Location,
	)

	if err := s.mailer.Send(ctx, u.Email, subject, body); err != nil {
		return fmt.Errorf("%w: send shortlist email: %v", domain.ErrUpstreamUnavailable, err)
	}
	return nil
}
