//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/openhire/jobdesk/internal/config"
	storage "github.com/openhire/jobdesk/internal/storage/neo4j"
	n4j "github.com/openhire/jobdesk/pkg/neo4j"
)

// Repositories groups the storage layer for injection into Build
type Repositories struct {
	Companies    *storage.CompanyRepository
	Users        *storage.UserRepository
	Jobs         *storage.JobRepository
	Applications *storage.ApplicationRepository
	Client       *n4j.Client
}

// InitializeRepositories wires the Neo4j client and repositories
func InitializeRepositories(cfg config.Config) (*Repositories, error) {
	wire.Build(
		provideNeo4jConfig,
		n4j.NewClient,

		storage.NewCompanyRepository,
		storage.NewUserRepository,
		storage.NewJobRepository,
		storage.NewApplicationRepository,

		newRepositories,
	)

	return &Repositories{}, nil
}

func provideNeo4jConfig(cfg config.Config) n4j.Config {
	return n4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	}
}

func newRepositories(
	companies *storage.CompanyRepository,
	users *storage.UserRepository,
	jobs *storage.JobRepository,
	applications *storage.ApplicationRepository,
	client *n4j.Client,
) *Repositories {
	return &Repositories{
		Companies:    companies,
		Users:        users,
		Jobs:         jobs,
		Applications: applications,
		Client:       client,
	}
}
