package boltdb

import (
	"context"
	"sort"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/planner/domain"
)

type projectRepository struct {
	store *Store
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		found, err := getJSON(tx, bucketProjects, id, &project)
		if err != nil {
			return err
		}
		if !found {
			return domain.NotFound("project", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Project, error) {
	var projects []domain.Project
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		return scan(tx, bucketProjects, func(p domain.Project) {
			if p.TeamID == teamID {
				projects = append(projects, p)
			}
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return olderFirst(projects[i].CreatedAt.UnixNano(), projects[j].CreatedAt.UnixNano(), projects[i].ID, projects[j].ID)
	})
	return projects, nil
}

func (r *projectRepository) ExistsByName(ctx context.Context, teamID, name string) (bool, error) {
	var exists bool
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		return scan(tx, bucketProjects, func(p domain.Project) {
			if p.TeamID == teamID && p.Name == name {
				exists = true
			}
		})
	})
	return exists, err
}

func (r *projectRepository) Save(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	return r.store.update(ctx, func(tx *bolt.Tx) error {
		return putJSON(tx, bucketProjects, project.ID, project)
	})
}

// Delete removes the project together with its tasks.
func (r *projectRepository) Delete(ctx context.Context, id string) error {
	return r.store.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketProjects)
		if b.Get([]byte(id)) == nil {
			return domain.NotFound("project", id)
		}
		var orphans []string
		if err := scan(tx, bucketTasks, func(t domain.Task) {
			if t.ProjectID == id {
				orphans = append(orphans, t.ID)
			}
		}); err != nil {
			return err
		}
		for _, taskID := range orphans {
			if err := tx.Bucket(bucketTasks).Delete([]byte(taskID)); err != nil {
				return err
			}
		}
		return b.Delete([]byte(id))
	})
}

type taskRepository struct {
	store *Store
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		found, err := getJSON(tx, bucketTasks, id, &task)
		if err != nil {
			return err
		}
		if !found {
			return domain.NotFound("task", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	return r.list(ctx, func(t domain.Task) bool { return t.ProjectID == projectID })
}

func (r *taskRepository) ListByAssignee(ctx context.Context, userID string) ([]domain.Task, error) {
	return r.list(ctx, func(t domain.Task) bool { return t.AssigneeID != "" && t.AssigneeID == userID })
}

func (r *taskRepository) ListByCreator(ctx context.Context, userID string) ([]domain.Task, error) {
	return r.list(ctx, func(t domain.Task) bool { return t.CreatorID == userID })
}

func (r *taskRepository) Save(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	return r.store.update(ctx, func(tx *bolt.Tx) error {
		return putJSON(tx, bucketTasks, task.ID, task)
	})
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	return r.store.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTasks)
		if b.Get([]byte(id)) == nil {
			return domain.NotFound("task", id)
		}
		return b.Delete([]byte(id))
	})
}

func (r *taskRepository) list(ctx context.Context, match func(domain.Task) bool) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		return scan(tx, bucketTasks, func(t domain.Task) {
			if match(t) {
				tasks = append(tasks, t)
			}
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return olderFirst(tasks[i].CreatedAt.UnixNano(), tasks[j].CreatedAt.UnixNano(), tasks[i].ID, tasks[j].ID)
	})
	return tasks, nil
}

func olderFirst(a, b int64, idA, idB string) bool {
	if a != b {
		return a < b
	}
	return idA < idB
}
