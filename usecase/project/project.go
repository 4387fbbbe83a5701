package project

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

// Input carries the validated create/update payload.
type Input struct {
	Name           string
	Description    string
	TeamID         string
	StartDate      time.Time
	PlannedEndDate time.Time
	Status         domain.ProjectStatus
}

type UseCase struct {
	projects  repository.ProjectRepository
	teams     repository.TeamRepository
	users     repository.UserRepository
	members   repository.MemberRepository
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
		projects:  store.Projects,
		teams:     store.Teams,
		users:     store.Users,
		members:   store.Members,
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

func (uc *UseCase) CreateProject(ctx context.Context, in Input, actingEmail string) (*domain.ProjectView, error) {
	var view *domain.ProjectView
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		team, err := uc.teams.GetByID(ctx, in.TeamID)
		if err != nil {
			return err
		}
		creator, err := uc.users.GetByEmail(ctx, actingEmail)
		if err != nil {
			return err
		}

		isMember, err := uc.authority.IsMember(ctx, team.ID, creator.ID)
		if err != nil {
			return err
		}
		if !isMember {
			uc.logger.Warn("project create denied: not a member", zap.String("team_id", team.ID), zap.String("user_id", creator.ID))
			return domain.Forbidden("not a team member")
		}
		isLeader, err := uc.authority.IsLeader(ctx, team.ID, creator.ID)
		if err != nil {
			return err
		}
		if !isLeader {
			uc.logger.Warn("project create denied: not a leader", zap.String("team_id", team.ID), zap.String("user_id", creator.ID))
			return domain.Forbidden("only team leaders can create projects")
		}

		members, err := uc.members.ListByTeam(ctx, team.ID)
		if err != nil {
			return fmt.Errorf("list team members: %w", err)
		}
		if len(members) == 0 {
			return domain.Validation("team has no members")
		}
		if err := uc.ensureUniqueName(ctx, team.ID, in.Name); err != nil {
			return err
		}
		if err := checkDates(in); err != nil {
			return err
		}

		now := uc.now()
		project := &domain.Project{
			ID:             uuid.NewString(),
			Name:           in.Name,
			Description:    in.Description,
			TeamID:         team.ID,
			CreatorID:      creator.ID,
			StartDate:      in.StartDate,
			PlannedEndDate: in.PlannedEndDate,
			CreatedAt:      now,
		}
		project.SetStatus(in.Status, now)

		if err := uc.projects.Save(ctx, project); err != nil {
			return fmt.Errorf("save project: %w", err)
		}
		view = &domain.ProjectView{Project: *project, TeamName: team.Name, Creator: creator.Summary()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("project created", zap.String("project_id", view.ID), zap.String("team_id", view.TeamID))
	return view, nil
}

func (uc *UseCase) UpdateProject(ctx context.Context, id string, in Input, actingEmail string) (*domain.ProjectView, error) {
	var view *domain.ProjectView
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		project, err := uc.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		actor, err := uc.users.GetByEmail(ctx, actingEmail)
		if err != nil {
			return err
		}
		if err := uc.requireLeader(ctx, project, actor, "only team leaders can modify projects"); err != nil {
			return err
		}

		if in.TeamID != project.TeamID {
			return domain.Validation("team is immutable")
		}
		if in.Name != project.Name {
			if err := uc.ensureUniqueName(ctx, project.TeamID, in.Name); err != nil {
				return err
			}
		}
		if err := checkDates(in); err != nil {
			return err
		}

		project.Name = in.Name
		project.Description = in.Description
		project.StartDate = in.StartDate
		project.PlannedEndDate = in.PlannedEndDate
		project.SetStatus(in.Status, uc.now())

		if err := uc.projects.Save(ctx, project); err != nil {
			return fmt.Errorf("save project: %w", err)
		}
		view, err = uc.resolve(ctx, project, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("project updated", zap.String("project_id", id))
	return view, nil
}

func (uc *UseCase) DeleteProject(ctx context.Context, id, actingEmail string) error {
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		project, err := uc.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		actor, err := uc.users.GetByEmail(ctx, actingEmail)
		if err != nil {
			return err
		}
		if err := uc.requireLeader(ctx, project, actor, "only team leaders can delete projects"); err != nil {
			return err
		}
		return uc.projects.Delete(ctx, project.ID)
	})
	if err != nil {
		return err
	}
	uc.logger.Info("project deleted", zap.String("project_id", id))
	return nil
}

func (uc *UseCase) ListByTeam(ctx context.Context, teamID, actingEmail string) ([]domain.ProjectView, error) {
	var views []domain.ProjectView
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		team, err := uc.teams.GetByID(ctx, teamID)
		if err != nil {
			return err
		}
		actor, err := uc.users.GetByEmail(ctx, actingEmail)
		if err != nil {
			return err
		}
		ok, err := uc.authority.IsMember(ctx, team.ID, actor.ID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.Forbidden("not a team member")
		}

		projects, err := uc.projects.ListByTeam(ctx, team.ID)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		views = make([]domain.ProjectView, 0, len(projects))
		for i := range projects {
			view, err := uc.resolve(ctx, &projects[i], team)
			if err != nil {
				return err
			}
			views = append(views, *view)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (uc *UseCase) GetProject(ctx context.Context, id, actingEmail string) (*domain.ProjectView, error) {
	var view *domain.ProjectView
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		project, err := uc.projects.GetByID(ctx, id)
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
		view, err = uc.resolve(ctx, project, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (uc *UseCase) requireLeader(ctx context.Context, project *domain.Project, actor *domain.User, reason string) error {
	ok, err := uc.authority.IsLeader(ctx, project.TeamID, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		uc.logger.Warn("project mutation denied", zap.String("project_id", project.ID), zap.String("user_id", actor.ID))
		return domain.Forbidden(reason)
	}
	return nil
}

func (uc *UseCase) ensureUniqueName(ctx context.Context, teamID, name string) error {
	exists, err := uc.projects.ExistsByName(ctx, teamID, name)
	if err != nil {
		return fmt.Errorf("check project name: %w", err)
	}
	if exists {
		return domain.Validation(fmt.Sprintf("duplicate name: a project named %q already exists in this team", name))
	}
	return nil
}

// resolve builds the response view. team may be passed when already loaded.
func (uc *UseCase) resolve(ctx context.Context, project *domain.Project, team *domain.Team) (*domain.ProjectView, error) {
	if team == nil {
		var err error
		if team, err = uc.teams.GetByID(ctx, project.TeamID); err != nil {
			return nil, err
		}
	}
	creator, err := uc.users.GetByID(ctx, project.CreatorID)
	if err != nil {
		return nil, err
	}
	return &domain.ProjectView{Project: *project, TeamName: team.Name, Creator: creator.Summary()}, nil
}

func checkDates(in Input) error {
	span := domain.Project{StartDate: in.StartDate, PlannedEndDate: in.PlannedEndDate}
	if !span.DatesOrdered() {
		return domain.Validation("date ordering: start date must not be after the planned end date")
	}
	return nil
}
