package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Probe checks one backing component.
type Probe struct {
	Name string
	// Required probes decide IsOnline; optional ones are reported only.
	Required bool
	Check    func(ctx context.Context) error
}

// Monitor refreshes component health on a cron schedule.
type Monitor struct {
	storage  string
	probes   []Probe
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	cron     *cron.Cron

	mu     sync.RWMutex
	status Status
}

func New(storage string, interval time.Duration, logger *zap.Logger, probes ...Probe) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		storage:  storage,
		probes:   probes,
		interval: interval,
		timeout:  3 * time.Second,
		logger:   logger,
		cron:     cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", max(1, int(interval.Seconds())))
	_, _ = m.cron.AddFunc(schedule, func() {
		m.Refresh(context.Background())
	})
	return m
}

// Start runs one synchronous refresh and then launches the scheduler.
func (m *Monitor) Start() {
	m.Refresh(context.Background())
	m.cron.Start()
	m.logger.Info("health monitor started", zap.Duration("interval", m.interval))
}

// Stop waits for a running refresh to finish or ctx to expire.
func (m *Monitor) Stop(ctx context.Context) error {
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Online
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.clone()
}

// Refresh runs every probe concurrently and stores the result.
func (m *Monitor) Refresh(ctx context.Context) {
	results := make([]bool, len(m.probes))

	var g errgroup.Group
	for i, probe := range m.probes {
		i, probe := i, probe
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()
			if err := probe.Check(probeCtx); err != nil {
				m.logger.Warn("health probe failed", zap.String("component", probe.Name), zap.Error(err))
				return nil
			}
			results[i] = true
			return nil
		})
	}
	_ = g.Wait()

	status := Status{
		Storage:    m.storage,
		Online:     true,
		Components: make(map[string]bool, len(m.probes)),
		LastCheck:  time.Now(),
	}
	for i, probe := range m.probes {
		status.Components[probe.Name] = results[i]
		if probe.Required && !results[i] {
			status.Online = false
		}
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}
