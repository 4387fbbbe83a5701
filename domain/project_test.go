package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	morning = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	later   = time.Date(2024, 3, 12, 17, 0, 0, 0, time.UTC)
)

func TestProjectSetStatusCompletion(t *testing.T) {
	p := &Project{Status: ProjectPlanned}

	p.SetStatus(ProjectInProgress, morning)
	assert.Nil(t, p.CompletedAt)

	p.SetStatus(ProjectCompleted, morning)
	require.NotNil(t, p.CompletedAt)
	assert.Equal(t, Today(morning), *p.CompletedAt)

	// staying completed keeps the original date
	p.SetStatus(ProjectCompleted, later)
	assert.Equal(t, Today(morning), *p.CompletedAt)

	p.SetStatus(ProjectOnHold, later)
	assert.Nil(t, p.CompletedAt)
}

func TestProjectDatesOrdered(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, (&Project{StartDate: start, PlannedEndDate: end}).DatesOrdered())
	assert.True(t, (&Project{StartDate: start, PlannedEndDate: start}).DatesOrdered())
	assert.False(t, (&Project{StartDate: end, PlannedEndDate: start}).DatesOrdered())
}

func TestTaskSetStatusCompletion(t *testing.T) {
	task := &Task{Status: TaskReview}

	task.SetStatus(TaskCompleted, morning)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.IsCompleted())

	task.SetStatus(TaskPending, later)
	assert.Nil(t, task.CompletedAt)
	assert.False(t, task.IsCompleted())
}

func TestTaskDueWithin(t *testing.T) {
	limit := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	before := limit.AddDate(0, 0, -1)
	after := limit.AddDate(0, 0, 1)

	assert.True(t, (&Task{}).DueWithin(limit))
	assert.True(t, (&Task{DueDate: &before}).DueWithin(limit))
	assert.True(t, (&Task{DueDate: &limit}).DueWithin(limit))
	assert.False(t, (&Task{DueDate: &after}).DueWithin(limit))
}

func TestIsDomainError(t *testing.T) {
	err := NotFound("team", "t-1")
	assert.True(t, IsDomainError(err, ErrCodeNotFound))
	assert.False(t, IsDomainError(err, ErrCodeForbidden))
	assert.Equal(t, "team not found: t-1", err.Error())

	wrapped := WrapError(ErrCodeInternal, "save project", assert.AnError)
	assert.ErrorIs(t, wrapped, assert.AnError)
}
