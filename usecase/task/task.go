package task

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository"
	"github.com/fastygo/planner/usecase/membership"
)

// Input carries the validated create/update payload. An empty AssigneeID
// leaves the task unassigned.
type Input struct {
	Title       string
	Description string
	ProjectID   string
	AssigneeID  string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	DueDate     *time.Time
}

type UseCase struct {
	tasks     repository.TaskRepository
	projects  repository.ProjectRepository
	users     repository.UserRepository
	authority *membership.Authority
	tx        repository.TxManager
	now       func() time.Time
	logger    *zap.Logger
}

func New(store repository.Store, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:     store.Tasks,
		projects:  store.Projects,
		users:     store.Users,
		authority: membership.NewAuthority(store.Members),
		tx:        store.Tx,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock replaces the time source used for creation and completion dates.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

func (uc *UseCase) CreateTask(ctx context.Context, in Input, actingEmail string) (*domain.TaskView, error) {
	var view *domain.TaskView
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		project, err := uc.projects.GetByID(ctx, in.ProjectID)
		if err != nil {
			return err
		}
		creator, err := uc.users.GetByEmail(ctx, actingEmail)
		if err != nil {
			return err
		}
		ok, err := uc.authority.IsMember(ctx, project.TeamID, creator.ID)
		if err != nil {
			return err
		}
		if !ok {
			// reported as a business rule, not a permission failure
			return domain.Validation("creator must be a member of the project's team")
		}

		assignee, err := uc.checkAssignee(ctx, project, in.AssigneeID)
		if err != nil {
			return err
		}
		if err := checkDueDate(project, in.DueDate); err != nil {
			return err
		}

		now := uc.now()
		task := &domain.Task{
			ID:          uuid.NewString(),
			Title:       in.Title,
			Description: in.Description,
			ProjectID:   project.ID,
			CreatorID:   creator.ID,
			AssigneeID:  in.AssigneeID,
			Priority:    in.Priority,
			DueDate:     in.DueDate,
			CreatedAt:   now,
		}
		task.SetStatus(in.Status, now)

		if err := uc.tasks.Save(ctx, task); err != nil {
			return fmt.Errorf("save task: %w", err)
		}
		view = &domain.TaskView{
			Task:        *task,
			ProjectName: project.Name,
			Creator:     creator.Summary(),
			Assignee:    assignee.Summary(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("task created", zap.String("task_id", view.ID), zap.String("project_id", view.ProjectID))
	return view, nil
}

func (uc *UseCase) UpdateTask(ctx context.Context, id string, in Input, actingEmail string) (*domain.TaskView, error) {
	var view *domain.TaskView
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		task, project, actor, err := uc.load(ctx, id, actingEmail)
		if err != nil {
			return err
		}
		if err := uc.requireCreatorOrLeader(ctx, task, project, actor, "only the creator or a team leader can update this task"); err != nil {
			return err
		}

		if in.ProjectID != task.ProjectID {
			return domain.Validation("project is immutable")
		}
		if _, err := uc.checkAssignee(ctx, project, in.AssigneeID); err != nil {
			return err
		}
		if err := checkDueDate(project, in.DueDate); err != nil {
			return err
		}

		task.Title = in.Title
		task.Description = in.Description
		task.AssigneeID = in.AssigneeID
		task.Priority = in.Priority
		task.DueDate = in.DueDate
		task.SetStatus(in.Status, uc.now())

		if err := uc.tasks.Save(ctx, task); err != nil {
			return fmt.Errorf("save task: %w", err)
		}
		view, err = newResolver(uc, project).view(ctx, task)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("task updated", zap.String("task_id", id))
	return view, nil
}

func (uc *UseCase) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus, actingEmail string) (*domain.TaskView, error) {
	var view *domain.TaskView
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		task, project, actor, err := uc.load(ctx, id, actingEmail)
		if err != nil {
			return err
		}
		if !task.IsAssignedTo(actor.ID) {
			if err := uc.requireCreatorOrLeader(ctx, task, project, actor, "only the assignee, the creator or a team leader can change this task's status"); err != nil {
				return err
			}
		}

		if err := domain.ValidateTaskTransition(task.Status, status); err != nil {
			return err
		}
		task.SetStatus(status, uc.now())

		if err := uc.tasks.Save(ctx, task); err != nil {
			return fmt.Errorf("save task: %w", err)
		}
		view, err = newResolver(uc, project).view(ctx, task)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("task status changed", zap.String("task_id", id), zap.String("status", string(status)))
	return view, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, id, actingEmail string) error {
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		task, project, actor, err := uc.load(ctx, id, actingEmail)
		if err != nil {
			return err
		}
		if err := uc.requireCreatorOrLeader(ctx, task, project, actor, "only the creator or a team leader can delete this task"); err != nil {
			return err
		}
		return uc.tasks.Delete(ctx, task.ID)
	})
	if err != nil {
		return err
	}
	uc.logger.Info("task deleted", zap.String("task_id", id))
	return nil
}

func (uc *UseCase) GetTask(ctx context.Context, id, actingEmail string) (*domain.TaskView, error) {
	var view *domain.TaskView
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		task, project, actor, err := uc.load(ctx, id, actingEmail)
		if err != nil {
			return err
		}
		ok, err := uc.authority.IsMember(ctx, project.TeamID, actor.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Forbidden("no access to this task")
		}
		view, err = newResolver(uc, project).view(ctx, task)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (uc *UseCase) ListByProject(ctx context.Context, projectID, actingEmail string) ([]domain.TaskView, error) {
	var views []domain.TaskView
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		project, err := uc.projects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		actor, err := uc.users.GetByEmail(ctx, actingEmail)
		if err != nil {
			return err
		}
		ok, err := uc.authority.IsMember(ctx, project.TeamID, actor.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Forbidden("no access to this project")
		}

		tasks, err := uc.tasks.ListByProject(ctx, project.ID)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		views, err = newResolver(uc, project).views(ctx, tasks)
		return err
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// ListAssigned returns every task assigned to the acting user across all
// teams. No team scoping is applied.
func (uc *UseCase) ListAssigned(ctx context.Context, actingEmail string) ([]domain.TaskView, error) {
	return uc.listForUser(ctx, actingEmail, uc.tasks.ListByAssignee)
}

// ListCreated returns every task created by the acting user across all teams.
func (uc *UseCase) ListCreated(ctx context.Context, actingEmail string) ([]domain.TaskView, error) {
	return uc.listForUser(ctx, actingEmail, uc.tasks.ListByCreator)
}

func (uc *UseCase) listForUser(ctx context.Context, actingEmail string, list func(context.Context, string) ([]domain.Task, error)) ([]domain.TaskView, error) {
	var views []domain.TaskView
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		actor, err := uc.users.GetByEmail(ctx, actingEmail)
		if err != nil {
			return err
		}
		tasks, err := list(ctx, actor.ID)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		views, err = newResolver(uc, nil).views(ctx, tasks)
		return err
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// load resolves the task, the acting user and the owning project, in that order.
func (uc *UseCase) load(ctx context.Context, id, actingEmail string) (*domain.Task, *domain.Project, *domain.User, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	actor, err := uc.users.GetByEmail(ctx, actingEmail)
	if err != nil {
		return nil, nil, nil, err
	}
	project, err := uc.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, nil, nil, err
	}
	return task, project, actor, nil
}

func (uc *UseCase) requireCreatorOrLeader(ctx context.Context, task *domain.Task, project *domain.Project, actor *domain.User, reason string) error {
	if task.CreatorID == actor.ID {
		return nil
	}
	ok, err := uc.authority.IsLeader(ctx, project.TeamID, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		uc.logger.Warn("task mutation denied", zap.String("task_id", task.ID), zap.String("user_id", actor.ID))
		return domain.Forbidden(reason)
	}
	return nil
}

// checkAssignee resolves the assignee, if any, and requires membership in the
// project's team.
func (uc *UseCase) checkAssignee(ctx context.Context, project *domain.Project, assigneeID string) (*domain.User, error) {
	if assigneeID == "" {
		return nil, nil
	}
	assignee, err := uc.users.GetByID(ctx, assigneeID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.NotFound("assignee", assigneeID)
		}
		return nil, err
	}
	ok, err := uc.authority.IsMember(ctx, project.TeamID, assignee.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Validation("assignee must be a member of the project's team")
	}
	return assignee, nil
}

func checkDueDate(project *domain.Project, due *time.Time) error {
	probe := domain.Task{DueDate: due}
	if !probe.DueWithin(project.PlannedEndDate) {
		return domain.Validation("due date must not be after the project's planned end date")
	}
	return nil
}
