package task

import (
	"context"

	"github.com/fastygo/planner/domain"
)

// resolver builds task views, loading each referenced project and user once.
type resolver struct {
	uc       *UseCase
	projects map[string]*domain.Project
	users    map[string]*domain.User
}

func newResolver(uc *UseCase, known *domain.Project) *resolver {
	r := &resolver{
		uc:       uc,
		projects: make(map[string]*domain.Project),
		users:    make(map[string]*domain.User),
	}
	if known != nil {
		r.projects[known.ID] = known
	}
	return r
}

func (r *resolver) views(ctx context.Context, tasks []domain.Task) ([]domain.TaskView, error) {
	out := make([]domain.TaskView, 0, len(tasks))
	for i := range tasks {
		view, err := r.view(ctx, &tasks[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *view)
	}
	return out, nil
}

func (r *resolver) view(ctx context.Context, task *domain.Task) (*domain.TaskView, error) {
	project, err := r.project(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	creator, err := r.user(ctx, task.CreatorID)
	if err != nil {
		return nil, err
	}
	view := &domain.TaskView{Task: *task, ProjectName: project.Name, Creator: creator.Summary()}
	if task.AssigneeID != "" {
		assignee, err := r.user(ctx, task.AssigneeID)
		if err != nil {
			return nil, err
		}
		view.Assignee = assignee.Summary()
	}
	return view, nil
}

func (r *resolver) project(ctx context.Context, id string) (*domain.Project, error) {
	if p, ok := r.projects[id]; ok {
		return p, nil
	}
	p, err := r.uc.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.projects[id] = p
	return p, nil
}

func (r *resolver) user(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	u, err := r.uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.users[id] = u
	return u, nil
}
