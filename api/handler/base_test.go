package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fastygo/planner/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "not found", err: domain.NotFound("project", "p1"), status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "forbidden", err: domain.Forbidden("not a team member"), status: http.StatusForbidden, code: "FORBIDDEN"},
		{name: "validation", err: domain.Validation("duplicate name"), status: http.StatusBadRequest, code: "INVALID"},
		{name: "unauthorized", err: domain.ErrUnauthorized, status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "conflict", err: domain.NewError(domain.ErrCodeConflict, "concurrent update"), status: http.StatusConflict, code: "CONFLICT"},
		{name: "wrapped domain error", err: fmt.Errorf("save: %w", domain.Validation("x")), status: http.StatusBadRequest, code: "INVALID"},
		{name: "infrastructure", err: errors.New("connection reset"), status: http.StatusInternalServerError, code: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := mapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}
