package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository"
)

const projectColumns = `id, name, description, team_id, creator_id, status, start_date, planned_end_date, completed_at, created_at`

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed implementation of ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	project, err := scanProject(conn(ctx, r.pool).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("project", id)
	}
	return project, err
}

func (r *projectRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE team_id = $1 ORDER BY created_at, id`
	rows, err := conn(ctx, r.pool).Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

func (r *projectRepository) ExistsByName(ctx context.Context, teamID, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM projects WHERE team_id = $1 AND name = $2)`
	var exists bool
	if err := conn(ctx, r.pool).QueryRow(ctx, query, teamID, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *projectRepository) Save(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO projects (id, name, description, team_id, creator_id, status, start_date, planned_end_date, completed_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		description = EXCLUDED.description,
		status = EXCLUDED.status,
		start_date = EXCLUDED.start_date,
		planned_end_date = EXCLUDED.planned_end_date,
		completed_at = EXCLUDED.completed_at
	`

	_, err := conn(ctx, r.pool).Exec(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.TeamID,
		project.CreatorID,
		string(project.Status),
		project.StartDate,
		project.PlannedEndDate,
		nullTime(project.CompletedAt),
		project.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Validation(fmt.Sprintf("duplicate name: a project named %q already exists in this team", project.Name))
		}
		return err
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM projects WHERE id = $1`
	tag, err := conn(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("project", id)
	}
	return nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		project domain.Project
		status  string
	)
	if err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.TeamID,
		&project.CreatorID,
		&status,
		&project.StartDate,
		&project.PlannedEndDate,
		&project.CompletedAt,
		&project.CreatedAt,
	); err != nil {
		return nil, err
	}
	project.Status = domain.ProjectStatus(status)
	return &project, nil
}
