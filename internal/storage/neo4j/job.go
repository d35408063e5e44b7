package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/openhire/jobdesk/internal/domain"
	"github.com/openhire/jobdesk/internal/domain/job"
	pkgneo4j "github.com/openhire/jobdesk/pkg/neo4j"
)

var _ job.Repository = (*JobRepository)(nil)

// JobRepository implements job.Repository with Neo4j
type JobRepository struct {
	client *pkgneo4j.Client
}

// NewJobRepository creates a JobRepository with a Neo4j client
func NewJobRepository(client *pkgneo4j.Client) *JobRepository {
	return &JobRepository{client: client}
}

// Create stores a new job linked to its owning company
func (r *JobRepository) Create(ctx context.Context, j domain.Job) error {
	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (c:Company {id: $companyId})
		CREATE (j:Job {
			id: $id,
			title: $title,
			description: $description,
			location: $location,
			category: $category,
			level: $level,
			salary: $salary,
			companyId: $companyId,
			visible: $visible,
			createdAt: $createdAt
		})
		CREATE (j)-[:POSTED_BY]->(c)
		RETURN j.id AS id
	`

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{
			"id":          j.ID.String(),
			"title":       j.Title,
			"description": j.Description,
			"location":    j.Location,
			"category":    j.Category,
			"level":       j.Level,
			"salary":      j.Salary,
			"companyId":   j.CompanyID.String(),
			"visible":     j.Visible,
			"createdAt":   j.CreatedAt,
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}

	if records := result.([]*neo4j.Record); len(records) == 0 {
		return fmt.Errorf("%w: company", domain.ErrNotFound)
	}
	return nil
}

// FindByID loads one job, visible or not
func (r *JobRepository) FindByID(ctx context.Context, id domain.JobID) (domain.Job, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	records, err := readRecords(ctx, session,
		`MATCH (j:Job {id: $id}) RETURN j`,
		map[string]any{"id": id.String()})
	if err != nil {
		return domain.Job{}, fmt.Errorf("load job: %w", err)
	}
	if len(records) == 0 {
		return domain.Job{}, fmt.Errorf("%w: job", domain.ErrNotFound)
	}

	node, ok := nodeFrom(records[0], "j")
	if !ok {
		return domain.Job{}, fmt.Errorf("load job: unexpected record shape")
	}
	return jobFromNode(node), nil
}

// ListVisible loads all visible jobs with their owning companies
func (r *JobRepository) ListVisible(ctx context.Context) ([]domain.JobView, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (j:Job {visible: true})-[:POSTED_BY]->(c:Company)
		RETURN j, c
		ORDER BY j.createdAt DESC
	`

	records, err := readRecords(ctx, session, query, nil)
	if err != nil {
		return nil, fmt.Errorf("list visible jobs: %w", err)
	}
	return jobViews(records), nil
}

// ViewByID loads one job joined with its owning company
func (r *JobRepository) ViewByID(ctx context.Context, id domain.JobID) (domain.JobView, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (j:Job {id: $id})-[:POSTED_BY]->(c:Company)
		RETURN j, c
	`

	records, err := readRecords(ctx, session, query, map[string]any{"id": id.String()})
	if err != nil {
		return domain.JobView{}, fmt.Errorf("load job view: %w", err)
	}
	if len(records) == 0 {
		return domain.JobView{}, fmt.Errorf("%w: job", domain.ErrNotFound)
	}

	views := jobViews(records[:1])
	if len(views) == 0 {
		return domain.JobView{}, fmt.Errorf("load job view: unexpected record shape")
	}
	return views[0], nil
}

// ListByCompany loads a company's jobs with applicant counts
func (r *JobRepository) ListByCompany(ctx context.Context, companyID domain.CompanyID) ([]domain.JobWithApplicants, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (j:Job)-[:POSTED_BY]->(:Company {id: $companyId})
		OPTIONAL MATCH (a:Application)-[:FOR_JOB]->(j)
		RETURN j, count(a) AS applicants
		ORDER BY j.createdAt DESC
	`

	records, err := readRecords(ctx, session, query, map[string]any{"companyId": companyID.String()})
	if err != nil {
		return nil, fmt.Errorf("list company jobs: %w", err)
	}

	rows := make([]domain.JobWithApplicants, 0, len(records))
	for _, record := range records {
		node, ok := nodeFrom(record, "j")
		if !ok {
			continue
		}
		count := int64(0)
		if v, ok := record.Get("applicants"); ok {
			if n, ok := v.(int64); ok {
				count = n
			}
		}
		rows = append(rows, domain.JobWithApplicants{
			Job:        jobFromNode(node),
			Applicants: int(count),
		})
	}
	return rows, nil
}

// SetVisibility flips the visibility flag and returns the updated job
func (r *JobRepository) SetVisibility(ctx context.Context, id domain.JobID, visible bool) (domain.Job, error) {
	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (j:Job {id: $id})
		SET j.visible = $visible
		RETURN j
	`

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"id": id.String(), "visible": visible})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return domain.Job{}, fmt.Errorf("set visibility: %w", err)
	}

	records := result.([]*neo4j.Record)
	if len(records) == 0 {
		return domain.Job{}, fmt.Errorf("%w: job", domain.ErrNotFound)
	}

	node, ok := nodeFrom(records[0], "j")
	if !ok {
		return domain.Job{}, fmt.Errorf("set visibility: unexpected record shape")
	}
	return jobFromNode(node), nil
}

func jobViews(records []*neo4j.Record) []domain.JobView {
	views := make([]domain.JobView, 0, len(records))
	for _, record := range records {
		jobNode, ok := nodeFrom(record, "j")
		if !ok {
			continue
		}
		companyNode, ok := nodeFrom(record, "c")
		if !ok {
			continue
		}
		views = append(views, domain.JobView{
			Job:     jobFromNode(jobNode),
			Company: companySummaryFromNode(companyNode),
		})
	}
	return views
}

func jobFromNode(node neo4j.Node) domain.Job {
	props := node.Props
	return domain.Job{
		ID:          asUUID(props, "id"),
		Title:       asString(props, "title"),
		Description: asString(props, "description"),
		Location:    asString(props, "location"),
		Category:    asString(props, "category"),
		Level:       asString(props, "level"),
		Salary:      asInt64(props, "salary"),
		CompanyID:   asUUID(props, "companyId"),
		Visible:     asBool(props, "visible"),
		CreatedAt:   asTime(props, "createdAt"),
	}
}
