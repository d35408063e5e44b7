package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/openhire/jobdesk/internal/domain"
	"github.com/openhire/jobdesk/internal/domain/user"
	pkgneo4j "github.com/openhire/jobdesk/pkg/neo4j"
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository with Neo4j
type UserRepository struct {
	client *pkgneo4j.Client
}

// NewUserRepository creates a UserRepository with a Neo4j client
func NewUserRepository(client *pkgneo4j.Client) *UserRepository {
	return &UserRepository{client: client}
}

// Upsert creates or updates a user keyed by its auth-provider ID. The
// resume reference survives profile updates; only an explicit
// SetResumeURL overwrites it.
func (r *UserRepository) Upsert(ctx context.Context, u domain.User) error {
	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	query := `
		MERGE (u:User {externalId: $externalId})
		ON CREATE SET u.id = $id,
		              u.resumeUrl = "",
		              u.createdAt = $createdAt
		SET u.name = $name,
		    u.email = $email,
		    u.imageUrl = $imageUrl
	`

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{
			"id":         u.ID.String(),
			"externalId": u.ExternalID,
			"name":       u.Name,
			"email":      u.Email,
			"imageUrl":   u.ImageURL,
			"createdAt":  u.CreatedAt,
		})
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// Delete removes a user by its auth-provider ID along with its
// application links. Application records stay for the owning company.
func (r *UserRepository) Delete(ctx context.Context, externalID string) error {
	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User {externalId: $externalId})
		DETACH DELETE u
	`

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"externalId": externalID})
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// FindByID loads a user by local ID
func (r *UserRepository) FindByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	return r.findOne(ctx, `MATCH (u:User {id: $key}) RETURN u`, id.String())
}

// FindByExternalID loads a user by its auth-provider ID
func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (domain.User, error) {
	return r.findOne(ctx, `MATCH (u:User {externalId: $key}) RETURN u`, externalID)
}

// SetResumeURL overwrites the user's resume reference
func (r *UserRepository) SetResumeURL(ctx context.Context, id domain.UserID, url string) error {
	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User {id: $id})
		SET u.resumeUrl = $url
		RETURN count(u) AS updated
	`

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"id": id.String(), "url": url})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		updated, _ := record.Get("updated")
		return updated, nil
	})
	if err != nil {
		return fmt.Errorf("set resume url: %w", err)
	}

	if n, ok := result.(int64); !ok || n == 0 {
		return fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	return nil
}

// ListAll loads every registered user
func (r *UserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	records, err := readRecords(ctx, session, `MATCH (u:User) RETURN u ORDER BY u.createdAt`, nil)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]domain.User, 0, len(records))
	for _, record := range records {
		node, ok := nodeFrom(record, "u")
		if !ok {
			continue
		}
		users = append(users, userFromNode(node))
	}
	return users, nil
}

func (r *UserRepository) findOne(ctx context.Context, query, key string) (domain.User, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	records, err := readRecords(ctx, session, query, map[string]any{"key": key})
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	if len(records) == 0 {
		return domain.User{}, fmt.Errorf("%w: user", domain.ErrNotFound)
	}

	node, ok := nodeFrom(records[0], "u")
	if !ok {
		return domain.User{}, fmt.Errorf("load user: unexpected record shape")
	}
	return userFromNode(node), nil
}

func userFromNode(node neo4j.Node) domain.User {
	props := node.Props
	return domain.User{
		ID:         asUUID(props, "id"),
		ExternalID: asString(props, "externalId"),
		Name:       asString(props, "name"),
		Email:      asString(props, "email"),
		ResumeURL:  asString(props, "resumeUrl"),
		ImageURL:   asString(props, "imageUrl"),
		CreatedAt:  asTime(props, "createdAt"),
	}
}
