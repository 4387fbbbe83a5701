package membership

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository"
)

// Authority answers membership and leadership questions from the current
// membership records. It holds no state between calls.
type Authority struct {
	members repository.MemberRepository
}

func NewAuthority(members repository.MemberRepository) *Authority {
	return &Authority{members: members}
}

// IsMember reports whether a membership record exists for the pair.
func (a *Authority) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	ok, err := a.members.Exists(ctx, teamID, userID)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return ok, nil
}

// IsLeader reports whether the pair has a membership record with the LEADER
// role. A missing record yields false, never an error.
func (a *Authority) IsLeader(ctx context.Context, teamID, userID string) (bool, error) {
	member, err := a.members.Get(ctx, teamID, userID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check leadership: %w", err)
	}
	return member.IsLeader(), nil
}

// UseCase serves the read-only team member listing.
type UseCase struct {
	authority *Authority
	users     repository.UserRepository
	teams     repository.TeamRepository
	members   repository.MemberRepository
	tx        repository.TxManager
	logger    *zap.Logger
}

func New(store repository.Store, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		authority: NewAuthority(store.Members),
		users:     store.Users,
		teams:     store.Teams,
		members:   store.Members,
		tx:        store.Tx,
		logger:    logger,
	}
}

// ListMembers returns the members of a team to one of its members.
func (uc *UseCase) ListMembers(ctx context.Context, teamID, actingEmail string) ([]domain.MemberView, error) {
	var views []domain.MemberView
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := uc.teams.GetByID(ctx, teamID); err != nil {
			return err
		}
		actor, err := uc.users.GetByEmail(ctx, actingEmail)
		if err != nil {
			return err
		}
		ok, err := uc.authority.IsMember(ctx, teamID, actor.ID)
		if err != nil {
			return err
		}
		if !ok {
			uc.logger.Warn("member listing denied", zap.String("team_id", teamID), zap.String("user_id", actor.ID))
			return domain.Forbidden("not a team member")
		}

		members, err := uc.members.ListByTeam(ctx, teamID)
		if err != nil {
			return err
		}
		views = make([]domain.MemberView, 0, len(members))
		for _, m := range members {
			user, err := uc.users.GetByID(ctx, m.UserID)
			if err != nil {
				return err
			}
			views = append(views, domain.MemberView{
				TeamID:   m.TeamID,
				Role:     m.Role,
				User:     user.Summary(),
				JoinedAt: m.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
