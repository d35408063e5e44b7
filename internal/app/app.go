package app

import (
	"context"
	"fmt"

	svix "github.com/svix/svix-webhooks/go"

	"github.com/openhire/jobdesk/internal/config"
	"github.com/openhire/jobdesk/internal/domain"
	"github.com/openhire/jobdesk/internal/domain/company"
	"github.com/openhire/jobdesk/internal/domain/job"
	"github.com/openhire/jobdesk/internal/domain/notify"
	"github.com/openhire/jobdesk/internal/domain/screening"
	"github.com/openhire/jobdesk/internal/domain/user"
	"github.com/openhire/jobdesk/internal/httpapi"
	"github.com/openhire/jobdesk/internal/queue"
	storage "github.com/openhire/jobdesk/internal/storage/neo4j"
	"github.com/openhire/jobdesk/pkg/blob"
	"github.com/openhire/jobdesk/pkg/logging"
	"github.com/openhire/jobdesk/pkg/mailer"
	n4j "github.com/openhire/jobdesk/pkg/neo4j"
	"github.com/openhire/jobdesk/pkg/scorer"
)

// App bundles the running parts of the service
type App struct {
	Server    *httpapi.Server
	Broadcast *queue.Broadcast
	Notify    *notify.Service
	Neo4j     *n4j.Client

	logger *logging.Logger
}

// Build constructs the full object graph from config. Optional
// integrations (Cloudinary, Gmail, RabbitMQ) degrade to local fallbacks
// when unconfigured.
func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	client, err := n4j.NewClient(n4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("connect neo4j: %w", err)
	}

	companyRepo := storage.NewCompanyRepository(client)
	userRepo := storage.NewUserRepository(client)
	jobRepo := storage.NewJobRepository(client)
	appRepo := storage.NewApplicationRepository(client)

	uploader, err := buildUploader(cfg, logger)
	if err != nil {
		return nil, err
	}
	mail := buildMailer(ctx, cfg, logger)

	var broadcast *queue.Broadcast
	if cfg.RabbitMQ.URL != "" {
		broadcast, err = queue.NewBroadcast(cfg.RabbitMQ.URL, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable, broadcasts deliver inline", "err", err)
			broadcast = nil
		}
	}

	var publisher notify.Publisher
	if broadcast != nil {
		publisher = broadcast
	}
	notifier, err := notify.NewService(userRepo, mail, publisher, logger)
	if err != nil {
		return nil, err
	}

	companySvc, err := company.NewService(
		company.WithRepository(companyRepo),
		company.WithJobs(jobRepo),
		company.WithApplications(appRepo),
		company.WithUploader(uploader),
		company.WithNotifier(notifier),
		company.WithLogger(logger.Named("company")),
	)
	if err != nil {
		return nil, err
	}

	jobSvc, err := job.NewService(jobRepo)
	if err != nil {
		return nil, err
	}

	userSvc, err := user.NewService(userRepo, appRepo, jobRepo, uploader, logger.Named("user"))
	if err != nil {
		return nil, err
	}

	scorerClient, err := scorer.NewClient(scorer.Config{BaseURL: cfg.Scorer.BaseURL})
	if err != nil {
		return nil, err
	}

	screeningSvc, err := screening.NewService(
		screening.WithJobs(jobRepo),
		screening.WithApplications(appRepo),
		screening.WithUsers(userRepo),
		screening.WithScorer(scorerAdapter{scorerClient}),
		screening.WithResumeFetcher(screening.NewHTTPResumeFetcher(nil)),
		screening.WithShortlister(notifier),
		screening.WithLogger(logger.Named("screening")),
		screening.WithConcurrency(cfg.Screening.Concurrency),
		screening.WithCallTimeout(cfg.Screening.CallTimeout),
	)
	if err != nil {
		return nil, err
	}

	tokens, err := httpapi.NewTokenIssuer(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	var webhooks *svix.Webhook
	if cfg.Webhook.Secret != "" {
		webhooks, err = svix.NewWebhook(cfg.Webhook.Secret)
		if err != nil {
			return nil, fmt.Errorf("webhook secret: %w", err)
		}
	} else {
		logger.Warn("webhook secret not configured, sync deliveries are rejected")
	}

	server, err := httpapi.NewServer(cfg.Host, cfg.Port, companySvc, jobSvc, userSvc, screeningSvc, tokens, webhooks, logger.Named("http"))
	if err != nil {
		return nil, err
	}

	return &App{
		Server:    server,
		Broadcast: broadcast,
		Notify:    notifier,
		Neo4j:     client,
		logger:    logger,
	}, nil
}

// StartConsumer begins draining the broadcast queue, if one is connected
func (a *App) StartConsumer(ctx context.Context) error {
	if a.Broadcast == nil {
		return nil
	}
	return a.Broadcast.Consume(ctx, a.Notify.DeliverJobPosted)
}

// Shutdown closes the broker connection and the database driver
func (a *App) Shutdown(ctx context.Context) error {
	if a.Broadcast != nil {
		if err := a.Broadcast.Close(); err != nil {
			a.logger.Warn("closing broadcast queue", "err", err)
		}
	}
	return a.Neo4j.Close(ctx)
}

// scorerAdapter narrows the scorer client to the screening interface
type scorerAdapter struct {
	client *scorer.Client
}

func (a scorerAdapter) Score(ctx context.Context, resume []byte, filename, jobDescription string) (domain.ResumeAnalysis, error) {
	res, err := a.client.Analyze(ctx, resume, filename, jobDescription)
	if err != nil {
		return domain.ResumeAnalysis{}, err
	}
	return domain.ResumeAnalysis{
		Score:         res.Score,
		Summary:       res.Summary,
		Strengths:     res.Strengths,
		Weaknesses:    res.Weaknesses,
		MatchedSkills: res.MatchedSkills,
		MissingSkills: res.MissingSkills,
	}, nil
}

func buildUploader(cfg config.Config, logger *logging.Logger) (company.Uploader, error) {
	if cfg.Cloudinary.URL == "" {
		logger.Warn("cloudinary not configured, file uploads disabled")
		return disabledUploader{}, nil
	}
	store, err := blob.NewCloudinaryStore(cfg.Cloudinary.URL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return store, nil
}

func buildMailer(ctx context.Context, cfg config.Config, logger *logging.Logger) notify.Mailer {
	if cfg.Gmail.CredentialsPath == "" {
		logger.Warn("gmail not configured, emails are logged only")
		return logMailer{logger}
	}
	client, err := mailer.NewClient(ctx, mailer.Config{
		From:            cfg.Gmail.From,
		CredentialsPath: cfg.Gmail.CredentialsPath,
	})
	if err != nil {
		logger.Warn("gmail unavailable, emails are logged only", "err", err)
		return logMailer{logger}
	}
	return client
}

// disabledUploader rejects uploads when no blob store is configured
type disabledUploader struct{}

func (disabledUploader) Upload(ctx context.Context, folder, filename string, data []byte) (string, error) {
	return "", fmt.Errorf("%w: file storage is not configured", domain.ErrUpstreamUnavailable)
}

// logMailer records outbound mail instead of sending it
type logMailer struct {
	logger *logging.Logger
}

func (m logMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info("email suppressed", "to", to, "subject", subject)
	return nil
}
