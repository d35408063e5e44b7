package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/openhire/jobdesk/internal/domain"
	"github.com/openhire/jobdesk/internal/domain/company"
	pkgneo4j "github.com/openhire/jobdesk/pkg/neo4j"
)

var _ company.Repository = (*CompanyRepository)(nil)

// CompanyRepository implements company.Repository with Neo4j
type CompanyRepository struct {
	client *pkgneo4j.Client
}

// NewCompanyRepository creates a CompanyRepository with a Neo4j client
func NewCompanyRepository(client *pkgneo4j.Client) *CompanyRepository {
	return &CompanyRepository{client: client}
}

// Create stores a new company. Uniqueness is keyed on email: a MERGE that
// does not create means the address is already registered.
func (r *CompanyRepository) Create(ctx context.Context, c domain.Company) error {
	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	query := `
		MERGE (c:Company {email: $email})
		ON CREATE SET c.id = $id,
		              c.name = $name,
		              c.passwordHash = $passwordHash,
		              c.logoUrl = $logoUrl,
		              c.createdAt = $createdAt,
		              c.wasCreated = true
		WITH c, coalesce(c.wasCreated, false) AS created
		REMOVE c.wasCreated
		RETURN created
	`

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{
			"id":           c.ID.String(),
			"name":         c.Name,
			"email":        c.Email,
			"passwordHash": c.PasswordHash,
			"logoUrl":      c.LogoURL,
			"createdAt":    c.CreatedAt,
		})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		created, _ := record.Get("created")
		return created, nil
	})
	if err != nil {
		return fmt.Errorf("create company: %w", err)
	}

	if created, ok := result.(bool); !ok || !created {
		return fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}
	return nil
}

// FindByEmail loads a company by its unique email
func (r *CompanyRepository) FindByEmail(ctx context.Context, email string) (domain.Company, error) {
	return r.findOne(ctx, `MATCH (c:Company {email: $key}) RETURN c`, email)
}

// FindByID loads a company by ID
func (r *CompanyRepository) FindByID(ctx context.Context, id domain.CompanyID) (domain.Company, error) {
	return r.findOne(ctx, `MATCH (c:Company {id: $key}) RETURN c`, id.String())
}

func (r *CompanyRepository) findOne(ctx context.Context, query, key string) (domain.Company, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	records, err := readRecords(ctx, session, query, map[string]any{"key": key})
	if err != nil {
		return domain.Company{}, fmt.Errorf("load company: %w", err)
	}
	if len(records) == 0 {
		return domain.Company{}, fmt.Errorf("%w: company", domain.ErrNotFound)
	}

	node, ok := nodeFrom(records[0], "c")
	if !ok {
		return domain.Company{}, fmt.Errorf("load company: unexpected record shape")
	}
	return companyFromNode(node), nil
}

func companyFromNode(node neo4j.Node) domain.Company {
	props := node.Props
	return domain.Company{
		ID:           asUUID(props, "id"),
		Name:         asString(props, "name"),
		Email:        asString(props, "email"),
		PasswordHash: asString(props, "passwordHash"),
		LogoURL:      asString(props, "logoUrl"),
		CreatedAt:    asTime(props, "createdAt"),
	}
}

func companySummaryFromNode(node neo4j.Node) domain.CompanySummary {
	props := node.Props
	return domain.CompanySummary{
		ID:      asUUID(props, "id"),
		Name:    asString(props, "name"),
		Email:   asString(props, "email"),
		LogoURL: asString(props, "logoUrl"),
	}
}
