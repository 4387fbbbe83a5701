package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository"
)

const taskColumns = `id, title, description, project_id, creator_id, assignee_id, status, priority, due_date, completed_at, created_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(conn(ctx, r.pool).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("task", id)
	}
	return task, err
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 ORDER BY created_at, id`, projectID)
}

func (r *taskRepository) ListByAssignee(ctx context.Context, userID string) ([]domain.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE assignee_id = $1 ORDER BY created_at, id`, userID)
}

func (r *taskRepository) ListByCreator(ctx context.Context, userID string) ([]domain.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE creator_id = $1 ORDER BY created_at, id`, userID)
}

func (r *taskRepository) Save(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, title, description, project_id, creator_id, assignee_id, status, priority, due_date, completed_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE
	SET title = EXCLUDED.title,
		description = EXCLUDED.description,
		assignee_id = EXCLUDED.assignee_id,
		status = EXCLUDED.status,
		priority = EXCLUDED.priority,
		due_date = EXCLUDED.due_date,
		completed_at = EXCLUDED.completed_at
	`

	_, err := conn(ctx, r.pool).Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.ProjectID,
		task.CreatorID,
		nullString(task.AssigneeID),
		string(task.Status),
		string(task.Priority),
		nullTime(task.DueDate),
		nullTime(task.CompletedAt),
		task.CreatedAt,
	)
	return err
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := conn(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("task", id)
	}
	return nil
}

func (r *taskRepository) list(ctx context.Context, query string, arg string) ([]domain.Task, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task     domain.Task
		assignee *string
		status   string
		priority string
	)
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.ProjectID,
		&task.CreatorID,
		&assignee,
		&status,
		&priority,
		&task.DueDate,
		&task.CompletedAt,
		&task.CreatedAt,
	); err != nil {
		return nil, err
	}
	if assignee != nil {
		task.AssigneeID = *assignee
	}
	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	return &task, nil
}
