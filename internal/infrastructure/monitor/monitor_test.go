package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(name string, required bool, err error) Probe {
	return Probe{Name: name, Required: required, Check: func(context.Context) error { return err }}
}

func TestRefreshReportsEveryComponent(t *testing.T) {
	m := New("bolt", time.Second, nil,
		probe("bolt", true, nil),
		probe("redis", false, errors.New("connection refused")),
	)

	m.Refresh(context.Background())

	status := m.GetStatus()
	assert.Equal(t, "bolt", status.Storage)
	assert.True(t, status.Online)
	assert.Equal(t, map[string]bool{"bolt": true, "redis": false}, status.Components)
	assert.False(t, status.LastCheck.IsZero())
}

func TestRequiredProbeFailureTakesServiceOffline(t *testing.T) {
	m := New("postgres", time.Second, nil, probe("postgres", true, errors.New("down")))

	m.Refresh(context.Background())

	assert.False(t, m.IsOnline())
}

func TestGetStatusReturnsCopy(t *testing.T) {
	m := New("bolt", time.Second, nil, probe("bolt", true, nil))
	m.Refresh(context.Background())

	status := m.GetStatus()
	status.Components["bolt"] = false

	assert.True(t, m.GetStatus().Components["bolt"])
}

func TestStartAndStop(t *testing.T) {
	m := New("bolt", time.Second, nil, probe("bolt", true, nil))
	m.Start()
	assert.True(t, m.IsOnline())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Stop(ctx))
}
