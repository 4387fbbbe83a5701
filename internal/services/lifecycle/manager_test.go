package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownRunsHooksInReverseOrder(t *testing.T) {
	m := New(0, nil)
	var order []string
	for _, name := range []string{"bolt", "monitor", "http_server"} {
		name := name
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	m.Register("ignored", nil)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http_server", "monitor", "bolt"}, order)
}

func TestShutdownJoinsErrorsAndContinues(t *testing.T) {
	m := New(0, nil)
	boom := errors.New("close failed")
	ran := false
	m.Register("postgres", func(context.Context) error { ran = true; return nil })
	m.Register("redis", func(context.Context) error { return boom })

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, ran)
}

func TestCloserAndHooksRunOnce(t *testing.T) {
	m := New(0, nil)
	closed := 0
	m.Register("bolt", Closer(func() error { closed++; return nil }))

	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, 1, closed)
}
