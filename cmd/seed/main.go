// Command seed loads a small demo dataset: one company, a few open
// jobs and two candidate users. Safe to re-run, every record is keyed
// so a second pass finds the existing rows and leaves them alone.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/openhire/jobdesk/internal/config"
	"github.com/openhire/jobdesk/internal/domain"
	storage "github.com/openhire/jobdesk/internal/storage/neo4j"
	"github.com/openhire/jobdesk/pkg/logging"
	n4j "github.com/openhire/jobdesk/pkg/neo4j"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := n4j.NewClient(n4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	})
	if err != nil {
		logger.Fatal("connect neo4j", "err", err)
	}
	defer func() { _ = client.Close(ctx) }()

	companies := storage.NewCompanyRepository(client)
	users := storage.NewUserRepository(client)
	jobs := storage.NewJobRepository(client)

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("hash demo password", "err", err)
	}

	co := domain.Company{
		ID:           uuid.New(),
		Name:         "Acme Robotics",
		Email:        "recruiting@acme-robotics.test",
		PasswordHash: string(hash),
		LogoURL:      "https://placehold.co/128x128",
		CreatedAt:    time.Now(),
	}
	switch err := companies.Create(ctx, co); {
	case err == nil:
		logger.Info("seeded company", "email", co.Email)
	case errors.Is(err, domain.ErrConflict):
		existing, err := companies.FindByEmail(ctx, co.Email)
		if err != nil {
			logger.Fatal("load existing company", "err", err)
		}
		co = existing
		logger.Info("company already present", "email", co.Email)
	default:
		logger.Fatal("seed company", "err", err)
	}

	for _, j := range demoJobs(co.ID) {
		// demo jobs carry fixed IDs, so a re-run finds them and moves on
		if _, err := jobs.FindByID(ctx, j.ID); err == nil {
			logger.Info("job already present", "title", j.Title)
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			logger.Fatal("check existing job", "title", j.Title, "err", err)
		}
		if err := jobs.Create(ctx, j); err != nil {
			logger.Warn("seed job", "title", j.Title, "err", err)
			continue
		}
		logger.Info("seeded job", "title", j.Title)
	}

	for _, u := range demoUsers() {
		if err := users.Upsert(ctx, u); err != nil {
			logger.Warn("seed user", "email", u.Email, "err", err)
			continue
		}
		logger.Info("seeded user", "email", u.Email)
	}

	logger.Info("seed complete")
}

func demoJobs(companyID domain.CompanyID) []domain.Job {
	now := time.Now()
	drafts := []struct {
		id                                            string
		title, description, location, category, level string
		salary                                        int64
	}{
		{
			"5b0d2f0e-6d0a-4f3e-9a01-0b7c5a1d9a01",
			"Backend Engineer",
			"<p>Build and operate the services behind our fulfilment platform. Strong Go or Java background expected.</p>",
			"Berlin", "Programming", "Intermediate", 82000,
		},
		{
			"5b0d2f0e-6d0a-4f3e-9a01-0b7c5a1d9a02",
			"Data Engineer",
			"<p>Own the ingestion pipelines feeding our warehouse. Airflow and dbt experience is a plus.</p>",
			"Remote", "Data Science", "Senior", 98000,
		},
		{
			"5b0d2f0e-6d0a-4f3e-9a01-0b7c5a1d9a03",
			"QA Analyst",
			"<p>Design test plans for robot firmware releases and drive automation coverage.</p>",
			"Munich", "Programming", "Beginner", 54000,
		},
	}

	out := make([]domain.Job, 0, len(drafts))
	for i, d := range drafts {
		out = append(out, domain.Job{
			ID:          uuid.MustParse(d.id),
			Title:       d.title,
			Description: d.description,
			Location:    d.location,
			Category:    d.category,
			Level:       d.level,
			Salary:      d.salary,
			CompanyID:   companyID,
			Visible:     true,
			CreatedAt:   now.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

func demoUsers() []domain.User {
	now := time.Now()
	return []domain.User{
		{
			ID:         uuid.New(),
			ExternalID: "seed|ada",
			Name:       "Ada Perez",
			Email:      "ada.perez@example.test",
			ImageURL:   "https://placehold.co/64x64",
			CreatedAt:  now,
		},
		{
			ID:         uuid.New(),
			ExternalID: "seed|tomas",
			Name:       "Tomas Keller",
			Email:      "tomas.keller@example.test",
			ImageURL:   "https://placehold.co/64x64",
			CreatedAt:  now,
		},
	}
}
