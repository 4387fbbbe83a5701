package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewListNeverSendsNull(t *testing.T) {
	var none []string
	env := NewList(none)

	assert.Equal(t, `{"status":"success","data":[],"meta":{"count":0}}`, env.String())
}

func TestNewError(t *testing.T) {
	env := NewError("FORBIDDEN", "not a team member", nil)

	assert.Equal(t, `{"status":"error","code":"FORBIDDEN","error":"not a team member"}`, env.String())
}
