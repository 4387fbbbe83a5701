package domain

import "time"

// TeamRole is the role a user holds inside a team.
type TeamRole string

const (
	TeamRoleLeader TeamRole = "LEADER"
	TeamRoleMember TeamRole = "MEMBER"
)

func (r TeamRole) Valid() bool {
	return r == TeamRoleLeader || r == TeamRoleMember
}

// Team groups users collaborating on projects.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Member links a user to a team. At most one record exists per (team, user).
type Member struct {
	TeamID    string    `json:"team_id"`
	UserID    string    `json:"user_id"`
	Role      TeamRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Member) IsLeader() bool {
	return m != nil && m.Role == TeamRoleLeader
}

// MemberView is a membership record resolved with its user.
type MemberView struct {
	TeamID   string       `json:"team_id"`
	Role     TeamRole     `json:"role"`
	User     *UserSummary `json:"user"`
	JoinedAt time.Time    `json:"joined_at"`
}
