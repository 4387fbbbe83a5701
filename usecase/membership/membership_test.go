package membership

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/repository/boltdb/boltdbtest"
)

func TestAuthority(t *testing.T) {
	ctx := context.Background()
	fx := boltdbtest.New(t)
	authority := NewAuthority(fx.Repos.Members)

	tests := []struct {
		name   string
		team   string
		email  string
		member bool
		leader bool
	}{
		{name: "leader", team: boltdbtest.TeamCore, email: boltdbtest.Alice, member: true, leader: true},
		{name: "member", team: boltdbtest.TeamCore, email: boltdbtest.Bob, member: true},
		{name: "leader elsewhere", team: boltdbtest.TeamCore, email: boltdbtest.Carol},
		{name: "no team", team: boltdbtest.TeamOps, email: boltdbtest.Erin},
		{name: "unknown team", team: "nope", email: boltdbtest.Alice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID := boltdbtest.UserID(tt.email)

			member, err := authority.IsMember(ctx, tt.team, userID)
			require.NoError(t, err)
			assert.Equal(t, tt.member, member)

			leader, err := authority.IsLeader(ctx, tt.team, userID)
			require.NoError(t, err)
			assert.Equal(t, tt.leader, leader)
		})
	}
}

func TestAuthorityReadsCurrentMembership(t *testing.T) {
	ctx := context.Background()
	fx := boltdbtest.New(t)
	authority := NewAuthority(fx.Repos.Members)
	bob := boltdbtest.UserID(boltdbtest.Bob)

	require.NoError(t, fx.Store.PutMember(ctx, domain.Member{TeamID: boltdbtest.TeamCore, UserID: bob, Role: domain.TeamRoleLeader}))
	leader, err := authority.IsLeader(ctx, boltdbtest.TeamCore, bob)
	require.NoError(t, err)
	assert.True(t, leader)

	require.NoError(t, fx.Store.RemoveMember(ctx, boltdbtest.TeamCore, bob))
	member, err := authority.IsMember(ctx, boltdbtest.TeamCore, bob)
	require.NoError(t, err)
	assert.False(t, member)
}

func TestListMembers(t *testing.T) {
	ctx := context.Background()
	fx := boltdbtest.New(t)
	uc := New(fx.Repos, nil)

	views, err := uc.ListMembers(ctx, boltdbtest.TeamCore, boltdbtest.Bob)
	require.NoError(t, err)
	require.Len(t, views, 2)

	roles := map[string]domain.TeamRole{}
	for _, v := range views {
		roles[v.User.Email] = v.Role
	}
	assert.Equal(t, map[string]domain.TeamRole{
		boltdbtest.Alice: domain.TeamRoleLeader,
		boltdbtest.Bob:   domain.TeamRoleMember,
	}, roles)
}

func TestListMembersErrors(t *testing.T) {
	ctx := context.Background()
	fx := boltdbtest.New(t)
	uc := New(fx.Repos, nil)

	_, err := uc.ListMembers(ctx, boltdbtest.TeamCore, boltdbtest.Dave)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))

	_, err = uc.ListMembers(ctx, "nope", boltdbtest.Dave)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	_, err = uc.ListMembers(ctx, boltdbtest.TeamCore, "ghost@example.com")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}
