package boltdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/planner/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "planner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestUserLookupByEmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	repos := store.Repositories()

	require.NoError(t, store.PutUser(ctx, domain.User{ID: "u1", Name: "Lena", Email: "Lena@Example.com"}))

	user, err := repos.Users.GetByEmail(ctx, "lena@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = repos.Users.GetByEmail(ctx, "nobody@example.com")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	// changing the email drops the old index entry
	require.NoError(t, store.PutUser(ctx, domain.User{ID: "u1", Name: "Lena", Email: "lena@new.example.com"}))
	_, err = repos.Users.GetByEmail(ctx, "lena@example.com")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestMembersListedPerTeam(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	repos := store.Repositories()

	require.NoError(t, store.PutMember(ctx, domain.Member{TeamID: "t1", UserID: "u1", Role: domain.TeamRoleLeader}))
	require.NoError(t, store.PutMember(ctx, domain.Member{TeamID: "t1", UserID: "u2", Role: domain.TeamRoleMember}))
	require.NoError(t, store.PutMember(ctx, domain.Member{TeamID: "t10", UserID: "u3", Role: domain.TeamRoleMember}))

	members, err := repos.Members.ListByTeam(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, members, 2)

	ok, err := repos.Members.Exists(ctx, "t1", "u3")
	require.NoError(t, err)
	assert.False(t, ok)

	m, err := repos.Members.Get(ctx, "t1", "u1")
	require.NoError(t, err)
	assert.True(t, m.IsLeader())

	require.NoError(t, store.RemoveMember(ctx, "t1", "u2"))
	_, err = repos.Members.Get(ctx, "t1", "u2")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestMembersOfTeamsWithSeparatorInID(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	repos := store.Repositories()

	require.NoError(t, store.PutMember(ctx, domain.Member{TeamID: "org", UserID: "u1", Role: domain.TeamRoleLeader}))
	require.NoError(t, store.PutMember(ctx, domain.Member{TeamID: "org/ops", UserID: "u2", Role: domain.TeamRoleMember}))
	require.NoError(t, store.PutMember(ctx, domain.Member{TeamID: "org/", UserID: "u3", Role: domain.TeamRoleMember}))

	members, err := repos.Members.ListByTeam(ctx, "org")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "u1", members[0].UserID)

	ok, err := repos.Members.Exists(ctx, "org", "ops/u2")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = repos.Members.Exists(ctx, "org/ops", "u2")
	require.NoError(t, err)
	assert.True(t, ok)

	members, err = repos.Members.ListByTeam(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, members)

	err = store.PutMember(ctx, domain.Member{UserID: "u4", Role: domain.TeamRoleMember})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	repos := store.Repositories()

	boom := errors.New("boom")
	err := repos.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := repos.Projects.Save(ctx, &domain.Project{ID: "p1", TeamID: "t1", Name: "Alpha"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repos.Projects.GetByID(ctx, "p1")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestProjectNamesAndCascadeDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	repos := store.Repositories()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repos.Projects.Save(ctx, &domain.Project{ID: "p2", TeamID: "t1", Name: "Beta", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repos.Projects.Save(ctx, &domain.Project{ID: "p1", TeamID: "t1", Name: "Alpha", CreatedAt: base}))
	require.NoError(t, repos.Projects.Save(ctx, &domain.Project{ID: "p3", TeamID: "t2", Name: "Alpha", CreatedAt: base}))

	exists, err := repos.Projects.ExistsByName(ctx, "t1", "Alpha")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repos.Projects.ExistsByName(ctx, "t1", "alpha")
	require.NoError(t, err)
	assert.False(t, exists, "names are compared case-sensitively")

	projects, err := repos.Projects.ListByTeam(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "p1", projects[0].ID)

	require.NoError(t, repos.Tasks.Save(ctx, &domain.Task{ID: "k1", ProjectID: "p1", CreatorID: "u1"}))
	require.NoError(t, repos.Tasks.Save(ctx, &domain.Task{ID: "k2", ProjectID: "p2", CreatorID: "u1", AssigneeID: "u2"}))

	require.NoError(t, repos.Projects.Delete(ctx, "p1"))
	_, err = repos.Tasks.GetByID(ctx, "k1")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	created, err := repos.Tasks.ListByCreator(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, created, 1)
	assigned, err := repos.Tasks.ListByAssignee(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, assigned, 1)

	err = repos.Tasks.Delete(ctx, "missing")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestApplySeed(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	repos := store.Repositories()

	seed := &Seed{
		Users:   []domain.User{{ID: "u1", Email: "lead@example.com"}},
		Teams:   []domain.Team{{ID: "t1", Name: "Core"}},
		Members: []domain.Member{{TeamID: "t1", UserID: "u1", Role: domain.TeamRoleLeader}},
	}
	require.NoError(t, store.ApplySeed(ctx, seed))

	team, err := repos.Teams.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Core", team.Name)

	bad := &Seed{Members: []domain.Member{{TeamID: "t1", UserID: "u9", Role: "OWNER"}}}
	assert.Error(t, store.ApplySeed(ctx, bad))
	ok, err := repos.Members.Exists(ctx, "t1", "u9")
	require.NoError(t, err)
	assert.False(t, ok)
}
