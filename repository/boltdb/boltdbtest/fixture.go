// Package boltdbtest provides a seeded bolt store for use case tests.
package boltdbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository"
	"github.com/fastygo/planner/repository/boltdb"
)

// Identities seeded by New.
const (
	TeamCore  = "team-core"
	TeamOps   = "team-ops"
	TeamEmpty = "team-empty"

	Alice = "alice@example.com" // leader of Core
	Bob   = "bob@example.com"   // member of Core
	Carol = "carol@example.com" // leader of Ops
	Dave  = "dave@example.com"  // member of Ops
	Erin  = "erin@example.com"  // no team
)

// Now is the fixed instant returned by Clock.
var Now = time.Date(2025, time.January, 10, 9, 30, 0, 0, time.UTC)

// Clock returns Now.
func Clock() time.Time { return Now }

// Date returns the UTC midnight of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Fixture is an open store with the standard directory data.
type Fixture struct {
	Store *boltdb.Store
	Repos repository.Store
}

// New opens a store under t.TempDir and seeds two staffed teams, one empty
// team and five users.
func New(t *testing.T) *Fixture {
	t.Helper()

	store, err := boltdb.Open(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	seed := &boltdb.Seed{
		Users: []domain.User{
			{ID: UserID(Alice), Name: "Alice", Email: Alice},
			{ID: UserID(Bob), Name: "Bob", Email: Bob},
			{ID: UserID(Carol), Name: "Carol", Email: Carol},
			{ID: UserID(Dave), Name: "Dave", Email: Dave},
			{ID: UserID(Erin), Name: "Erin", Email: Erin},
		},
		Teams: []domain.Team{
			{ID: TeamCore, Name: "Core"},
			{ID: TeamOps, Name: "Ops"},
			{ID: TeamEmpty, Name: "Empty"},
		},
		Members: []domain.Member{
			{TeamID: TeamCore, UserID: UserID(Alice), Role: domain.TeamRoleLeader},
			{TeamID: TeamCore, UserID: UserID(Bob), Role: domain.TeamRoleMember},
			{TeamID: TeamOps, UserID: UserID(Carol), Role: domain.TeamRoleLeader},
			{TeamID: TeamOps, UserID: UserID(Dave), Role: domain.TeamRoleMember},
		},
	}
	require.NoError(t, store.ApplySeed(context.Background(), seed))

	return &Fixture{Store: store, Repos: store.Repositories()}
}

// UserID maps a seeded email to its user id.
func UserID(email string) string {
	return "user-" + email[:len(email)-len("@example.com")]
}
