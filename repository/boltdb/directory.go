package boltdb

import (
	"context"
	"encoding/json"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/planner/domain"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		found, err := getJSON(tx, bucketUsers, id, &user)
		if err != nil {
			return err
		}
		if !found {
			return domain.NotFound("user", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		id := tx.Bucket(bucketUserEmails).Get([]byte(normalizeEmail(email)))
		if id == nil {
			return domain.NotFound("user", email)
		}
		found, err := getJSON(tx, bucketUsers, string(id), &user)
		if err != nil {
			return err
		}
		if !found {
			return domain.NotFound("user", email)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type teamRepository struct {
	store *Store
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	var team domain.Team
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		found, err := getJSON(tx, bucketTeams, id, &team)
		if err != nil {
			return err
		}
		if !found {
			return domain.NotFound("team", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

type memberRepository struct {
	store *Store
}

// Memberships live in one nested bucket per team, keyed by user id.
func teamMembers(tx *bolt.Tx, teamID string) *bolt.Bucket {
	if teamID == "" {
		return nil
	}
	return tx.Bucket(bucketMembers).Bucket([]byte(teamID))
}

func (r *memberRepository) Get(ctx context.Context, teamID, userID string) (*domain.Member, error) {
	var member domain.Member
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		b := teamMembers(tx, teamID)
		if b == nil {
			return domain.NotFound("member", teamID+":"+userID)
		}
		raw := b.Get([]byte(userID))
		if raw == nil {
			return domain.NotFound("member", teamID+":"+userID)
		}
		return json.Unmarshal(raw, &member)
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) Exists(ctx context.Context, teamID, userID string) (bool, error) {
	var exists bool
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		if b := teamMembers(tx, teamID); b != nil && userID != "" {
			exists = b.Get([]byte(userID)) != nil
		}
		return nil
	})
	return exists, err
}

func (r *memberRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.Member, error) {
	var members []domain.Member
	err := r.store.view(ctx, func(tx *bolt.Tx) error {
		b := teamMembers(tx, teamID)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var m domain.Member
			if err := json.Unmarshal(v, &m); err != nil {
				return err
			}
			members = append(members, m)
			return nil
		})
	})
	return members, err
}

// PutUser inserts or replaces a user and its email index entry.
func (s *Store) PutUser(ctx context.Context, user domain.User) error {
	return s.update(ctx, func(tx *bolt.Tx) error {
		var previous domain.User
		found, err := getJSON(tx, bucketUsers, user.ID, &previous)
		if err != nil {
			return err
		}
		if found && normalizeEmail(previous.Email) != normalizeEmail(user.Email) {
			if err := tx.Bucket(bucketUserEmails).Delete([]byte(normalizeEmail(previous.Email))); err != nil {
				return err
			}
		}
		if err := putJSON(tx, bucketUsers, user.ID, user); err != nil {
			return err
		}
		return tx.Bucket(bucketUserEmails).Put([]byte(normalizeEmail(user.Email)), []byte(user.ID))
	})
}

// PutTeam inserts or replaces a team.
func (s *Store) PutTeam(ctx context.Context, team domain.Team) error {
	return s.update(ctx, func(tx *bolt.Tx) error {
		return putJSON(tx, bucketTeams, team.ID, team)
	})
}

// PutMember inserts or replaces the membership of a user in a team.
func (s *Store) PutMember(ctx context.Context, member domain.Member) error {
	if member.TeamID == "" || member.UserID == "" {
		return domain.Validation("membership requires a team and a user")
	}
	payload, err := json.Marshal(member)
	if err != nil {
		return err
	}
	return s.update(ctx, func(tx *bolt.Tx) error {
		b, err := tx.Bucket(bucketMembers).CreateBucketIfNotExists([]byte(member.TeamID))
		if err != nil {
			return err
		}
		return b.Put([]byte(member.UserID), payload)
	})
}

// RemoveMember deletes a membership record.
func (s *Store) RemoveMember(ctx context.Context, teamID, userID string) error {
	return s.update(ctx, func(tx *bolt.Tx) error {
		b := teamMembers(tx, teamID)
		if b == nil || userID == "" {
			return nil
		}
		return b.Delete([]byte(userID))
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
