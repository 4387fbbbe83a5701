package domain

import "time"

type ProjectStatus string

const (
	ProjectPlanned    ProjectStatus = "PLANNED"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectOnHold     ProjectStatus = "ON_HOLD"
	ProjectCompleted  ProjectStatus = "COMPLETED"
	ProjectCancelled  ProjectStatus = "CANCELLED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanned, ProjectInProgress, ProjectOnHold, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// Project is a dated unit of work owned by a team.
type Project struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	TeamID         string        `json:"team_id"`
	CreatorID      string        `json:"creator_id"`
	Status         ProjectStatus `json:"status"`
	StartDate      time.Time     `json:"start_date"`
	PlannedEndDate time.Time     `json:"planned_end_date"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// SetStatus moves the project to status and keeps CompletedAt in step with it:
// set to today on entering COMPLETED (unless already set), cleared otherwise.
func (p *Project) SetStatus(status ProjectStatus, now time.Time) {
	p.Status = status
	p.CompletedAt = completionDate(p.CompletedAt, status == ProjectCompleted, now)
}

// DatesOrdered reports whether StartDate is not after PlannedEndDate.
func (p *Project) DatesOrdered() bool {
	return !p.StartDate.After(p.PlannedEndDate)
}

// ProjectView is a project resolved with its team and creator.
type ProjectView struct {
	Project
	TeamName string       `json:"team_name"`
	Creator  *UserSummary `json:"creator"`
}

// Today truncates t to its UTC calendar date.
func Today(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func completionDate(current *time.Time, completed bool, now time.Time) *time.Time {
	if !completed {
		return nil
	}
	if current != nil {
		return current
	}
	today := Today(now)
	return &today
}
