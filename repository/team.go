package repository

import (
	"context"

	"github.com/fastygo/planner/domain"
)

type TeamRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Team, error)
}

// MemberRepository exposes team membership. Membership is maintained outside
// this service, so the interface is read-only.
type MemberRepository interface {
	Get(ctx context.Context, teamID, userID string) (*domain.Member, error)
	Exists(ctx context.Context, teamID, userID string) (bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]domain.Member, error)
}
