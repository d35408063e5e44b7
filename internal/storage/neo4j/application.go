package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/openhire/jobdesk/internal/domain"
	"github.com/openhire/jobdesk/internal/domain/company"
	"github.com/openhire/jobdesk/internal/domain/user"
	pkgneo4j "github.com/openhire/jobdesk/pkg/neo4j"
)

var (
	_ company.Applications = (*ApplicationRepository)(nil)
	_ user.Applications    = (*ApplicationRepository)(nil)
)

// ApplicationRepository persists job applications in Neo4j
type ApplicationRepository struct {
	client *pkgneo4j.Client
}

// NewApplicationRepository creates an ApplicationRepository with a Neo4j client
func NewApplicationRepository(client *pkgneo4j.Client) *ApplicationRepository {
	return &ApplicationRepository{client: client}
}

// CreateUnique stores a new application. The MERGE is keyed on
// (userId, jobId) inside one write transaction, so concurrent identical
// applies collapse to a single record and the loser sees ErrConflict.
func (r *ApplicationRepository) CreateUnique(ctx context.Context, app domain.Application) error {
	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (u:User {id: $userId})
		MATCH (j:Job {id: $jobId})
		MERGE (a:Application {userId: $userId, jobId: $jobId})
		ON CREATE SET a.id = $id,
		              a.companyId = $companyId,
		              a.status = $status,
		              a.createdAt = $createdAt,
		              a.wasCreated = true
		MERGE (u)-[:SUBMITTED]->(a)
		MERGE (a)-[:FOR_JOB]->(j)
		WITH a, coalesce(a.wasCreated, false) AS created
		REMOVE a.wasCreated
		RETURN created
	`

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{
			"id":        app.ID.String(),
			"userId":    app.UserID.String(),
			"jobId":     app.JobID.String(),
			"companyId": app.CompanyID.String(),
			"status":    string(app.Status),
			"createdAt": app.CreatedAt,
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	records := result.([]*neo4j.Record)
	if len(records) == 0 {
		// MATCH found no user or job node.
		return fmt.Errorf("%w: user or job", domain.ErrNotFound)
	}

	if created, _ := records[0].Get("created"); created != true {
		return fmt.Errorf("%w: application already exists", domain.ErrConflict)
	}
	return nil
}

// FindByID loads a single application
func (r *ApplicationRepository) FindByID(ctx context.Context, id domain.ApplicationID) (domain.Application, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	records, err := readRecords(ctx, session,
		`MATCH (a:Application {id: $id}) RETURN a`,
		map[string]any{"id": id.String()})
	if err != nil {
		return domain.Application{}, fmt.Errorf("load application: %w", err)
	}
	if len(records) == 0 {
		return domain.Application{}, fmt.Errorf("%w: application", domain.ErrNotFound)
	}

	node, ok := nodeFrom(records[0], "a")
	if !ok {
		return domain.Application{}, fmt.Errorf("load application: unexpected record shape")
	}
	return applicationFromNode(node), nil
}

// UpdateStatus moves one application to a new status
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id domain.ApplicationID, status domain.ApplicationStatus) error {
	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (a:Application {id: $id})
		SET a.status = $status
		RETURN count(a) AS updated
	`

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"id": id.String(), "status": string(status)})
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
		return fmt.Errorf("update application status: %w", err)
	}

	if n, ok := result.(int64); !ok || n == 0 {
		return fmt.Errorf("%w: application", domain.ErrNotFound)
	}
	return nil
}

// ListByJob loads a job's applications in one status, oldest first so a
// screening pass sees a stable insertion order.
func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID domain.JobID, status domain.ApplicationStatus) ([]domain.Application, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (a:Application {jobId: $jobId, status: $status})
		RETURN a
		ORDER BY a.createdAt
	`

	records, err := readRecords(ctx, session, query, map[string]any{
		"jobId":  jobID.String(),
		"status": string(status),
	})
	if err != nil {
		return nil, fmt.Errorf("list applications for job: %w", err)
	}

	apps := make([]domain.Application, 0, len(records))
	for _, record := range records {
		node, ok := nodeFrom(record, "a")
		if !ok {
			continue
		}
		apps = append(apps, applicationFromNode(node))
	}
	return apps, nil
}

// ListByUser loads a user's applications with job and company views
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID domain.UserID) ([]domain.ApplicationView, error) {
	query := `
		MATCH (u:User {id: $key})-[:SUBMITTED]->(a:Application)-[:FOR_JOB]->(j:Job)-[:POSTED_BY]->(c:Company)
		RETURN a, u, j, c
		ORDER BY a.createdAt DESC
	`
	return r.listViews(ctx, query, userID.String())
}

// ListByCompany loads every application across a company's jobs
func (r *ApplicationRepository) ListByCompany(ctx context.Context, companyID domain.CompanyID) ([]domain.ApplicationView, error) {
	query := `
		MATCH (a:Application {companyId: $key})-[:FOR_JOB]->(j:Job)-[:POSTED_BY]->(c:Company)
		MATCH (u:User)-[:SUBMITTED]->(a)
		RETURN a, u, j, c
		ORDER BY a.createdAt DESC
	`
	return r.listViews(ctx, query, companyID.String())
}

func (r *ApplicationRepository) listViews(ctx context.Context, query, key string) ([]domain.ApplicationView, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	records, err := readRecords(ctx, session, query, map[string]any{"key": key})
	if err != nil {
		return nil, fmt.Errorf("list application views: %w", err)
	}

	views := make([]domain.ApplicationView, 0, len(records))
	for _, record := range records {
		appNode, okA := nodeFrom(record, "a")
		userNode, okU := nodeFrom(record, "u")
		jobNode, okJ := nodeFrom(record, "j")
		companyNode, okC := nodeFrom(record, "c")
		if !okA || !okU || !okJ || !okC {
			continue
		}
		views = append(views, domain.ApplicationView{
			Application: applicationFromNode(appNode),
			User:        userFromNode(userNode),
			Job:         jobFromNode(jobNode),
			Company:     companySummaryFromNode(companyNode),
		})
	}
	return views, nil
}

func applicationFromNode(node neo4j.Node) domain.Application {
	props := node.Props
	return domain.Application{
		ID:        asUUID(props, "id"),
		JobID:     asUUID(props, "jobId"),
		UserID:    asUUID(props, "userId"),
		CompanyID: asUUID(props, "companyId"),
		Status:    domain.ApplicationStatus(asString(props, "status")),
		CreatedAt: asTime(props, "createdAt"),
	}
}
