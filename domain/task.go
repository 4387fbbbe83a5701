package domain

import "time"

type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskReview     TaskStatus = "REVIEW"
	TaskCompleted  TaskStatus = "COMPLETED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskReview, TaskCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow      TaskPriority = "LOW"
	PriorityMedium   TaskPriority = "MEDIUM"
	PriorityHigh     TaskPriority = "HIGH"
	PriorityCritical TaskPriority = "CRITICAL"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Task is a unit of work within a project.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	ProjectID   string       `json:"project_id"`
	CreatorID   string       `json:"creator_id"`
	AssigneeID  string       `json:"assignee_id,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// SetStatus moves the task to status and keeps CompletedAt in step with it.
// Every write path that changes a task status goes through here.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	t.Status = status
	t.CompletedAt = completionDate(t.CompletedAt, status == TaskCompleted, now)
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == TaskCompleted
}

// IsAssignedTo reports whether userID is the current assignee.
func (t *Task) IsAssignedTo(userID string) bool {
	return t != nil && t.AssigneeID != "" && t.AssigneeID == userID
}

// DueWithin reports whether the due date, if any, falls on or before limit.
func (t *Task) DueWithin(limit time.Time) bool {
	return t.DueDate == nil || !t.DueDate.After(limit)
}

// TaskView is a task resolved with its project, creator and assignee.
type TaskView struct {
	Task
	ProjectName string       `json:"project_name"`
	Creator     *UserSummary `json:"creator"`
	Assignee    *UserSummary `json:"assignee,omitempty"`
}
