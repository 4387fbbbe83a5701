package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fastygo/planner/domain"
)

// Seed describes directory data (users, teams, memberships) loaded into an
// empty store for local development.
type Seed struct {
	Users   []domain.User   `json:"users"`
	Teams   []domain.Team   `json:"teams"`
	Members []domain.Member `json:"members"`
}

// LoadSeedFile reads a JSON seed document.
func LoadSeedFile(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seed Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", path, err)
	}
	return &seed, nil
}

// ApplySeed writes the seed records in one transaction.
func (s *Store) ApplySeed(ctx context.Context, seed *Seed) error {
	if seed == nil {
		return nil
	}
	return s.RunInTx(ctx, func(ctx context.Context) error {
		for _, u := range seed.Users {
			if err := s.PutUser(ctx, u); err != nil {
				return err
			}
		}
		for _, t := range seed.Teams {
			if err := s.PutTeam(ctx, t); err != nil {
				return err
			}
		}
		for _, m := range seed.Members {
			if !m.Role.Valid() {
				return fmt.Errorf("seed member %s/%s: unknown role %q", m.TeamID, m.UserID, m.Role)
			}
			if err := s.PutMember(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
}
