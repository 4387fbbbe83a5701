package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/fastygo/planner/domain"
)

func TestErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	serialization := &pgconn.PgError{Code: "40001"}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(serialization))
	assert.True(t, isSerializationFailure(serialization))

	assert.True(t, domain.IsDomainError(asConflict(serialization), domain.ErrCodeConflict))
	plain := errors.New("boom")
	assert.Same(t, plain, asConflict(plain))
}

func TestNullables(t *testing.T) {
	assert.Nil(t, nullString(""))
	assert.Equal(t, "u1", nullString("u1"))

	assert.Nil(t, nullTime(nil))
	assert.Nil(t, nullTime(&time.Time{}))
	now := time.Now()
	assert.Equal(t, now, nullTime(&now))
}
