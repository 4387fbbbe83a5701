package repository

import (
	"context"

	"github.com/fastygo/planner/domain"
)

type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListByTeam(ctx context.Context, teamID string) ([]domain.Project, error)
	ExistsByName(ctx context.Context, teamID, name string) (bool, error)
	Save(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id string) error
}
