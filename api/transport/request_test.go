package transport

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/planner/domain"
)

func TestProjectRequestParse(t *testing.T) {
	req := ProjectRequest{
		Name:           "Sprint1",
		TeamID:         "t1",
		StartDate:      "2025-01-01",
		PlannedEndDate: "2025-03-31",
		Status:         "planned",
	}

	out, err := req.Parse()
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectPlanned, out.Status)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), out.PlannedEndDate)
}

func TestProjectRequestParseCollectsEveryProblem(t *testing.T) {
	req := ProjectRequest{
		Name:        "ab",
		Description: strings.Repeat("x", 501),
		StartDate:   "01/01/2025",
		Status:      "DONE",
	}

	_, err := req.Parse()
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	for _, want := range []string{"name must be between", "description must not exceed", "team_id is required", `status "DONE"`, "start_date must be a date", "planned_end_date is required"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestTaskRequestParse(t *testing.T) {
	tests := []struct {
		name    string
		req     TaskRequest
		wantErr string
	}{
		{
			name: "minimal",
			req:  TaskRequest{Title: "Fix bug", ProjectID: "p1", Status: "PENDING", Priority: "HIGH"},
		},
		{
			name: "with due date",
			req:  TaskRequest{Title: "Fix bug", ProjectID: "p1", Status: "PENDING", Priority: "LOW", DueDate: "2025-02-01"},
		},
		{
			name:    "unknown priority",
			req:     TaskRequest{Title: "Fix bug", ProjectID: "p1", Status: "PENDING", Priority: "URGENT"},
			wantErr: "priority",
		},
		{
			name:    "bad due date",
			req:     TaskRequest{Title: "Fix bug", ProjectID: "p1", Status: "PENDING", Priority: "LOW", DueDate: "tomorrow"},
			wantErr: "due_date must be a date",
		},
		{
			name:    "title too long",
			req:     TaskRequest{Title: strings.Repeat("t", 101), ProjectID: "p1", Status: "PENDING", Priority: "LOW"},
			wantErr: "title must be between",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.req.Parse()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req.DueDate != "", out.DueDate != nil)
		})
	}
}

func TestStatusRequestParse(t *testing.T) {
	status, err := StatusRequest{Status: "review"}.Parse()
	require.NoError(t, err)
	assert.Equal(t, domain.TaskReview, status)

	_, err = StatusRequest{}.Parse()
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}
