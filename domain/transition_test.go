package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTaskTransition(t *testing.T) {
	cases := []struct {
		from, to TaskStatus
		legal    bool
	}{
		{TaskPending, TaskCompleted, false},
		{TaskReview, TaskInProgress, false},
		{TaskPending, TaskInProgress, true},
		{TaskInProgress, TaskReview, true},
		{TaskReview, TaskCompleted, true},
		{TaskCompleted, TaskPending, true},
		{TaskCompleted, TaskInProgress, true},
		{TaskInProgress, TaskPending, true},
		{TaskPending, TaskReview, true},
		{TaskPending, TaskPending, true},
		{TaskReview, TaskReview, true},
		{TaskCompleted, TaskCompleted, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			err := ValidateTaskTransition(tc.from, tc.to)
			if tc.legal {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsDomainError(err, ErrCodeInvalid))
			assert.Contains(t, err.Error(), string(tc.from))
			assert.Contains(t, err.Error(), string(tc.to))
		})
	}
}
