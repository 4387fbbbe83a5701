package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository"
)

type teamRepository struct {
	pool *pgxpool.Pool
}

func NewTeamRepository(pool *pgxpool.Pool) repository.TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	const query = `SELECT id, name, created_at FROM teams WHERE id = $1`
	var team domain.Team
	if err := conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(&team.ID, &team.Name, &team.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("team", id)
		}
		return nil, err
	}
	return &team, nil
}

type memberRepository struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) repository.MemberRepository {
	return &memberRepository{pool: pool}
}

func (r *memberRepository) Get(ctx context.Context, teamID, userID string) (*domain.Member, error) {
	const query = `
	SELECT team_id, user_id, role, created_at
	FROM team_members
	WHERE team_id = $1 AND user_id = $2
	`
	var m domain.Member
	if err := conn(ctx, r.pool).QueryRow(ctx, query, teamID, userID).Scan(&m.TeamID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("member", teamID+"/"+userID)
		}
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) Exists(ctx context.Context, teamID, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)`
	var exists bool
	if err := conn(ctx, r.pool).QueryRow(ctx, query, teamID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *memberRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Member, error) {
	const query = `
	SELECT team_id, user_id, role, created_at
	FROM team_members
	WHERE team_id = $1
	ORDER BY created_at
	`
	rows, err := conn(ctx, r.pool).Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
