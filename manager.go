package supervisor

import (
	"context"
	"sync"
	"time"
)

// Manager runs operations on many processes of one daemon concurrently.
// It provides bulk operations with configurable concurrency and timeouts.
// Every operation is still one round trip per process; use the *Group and
// *All methods of Supervisor when the daemon can do the fan-out itself.
type Manager struct {
	// Supervisor is the daemon the operations are sent to
	Supervisor *Supervisor
	// Concurrency is the maximum number of concurrent calls
	Concurrency int
	// Timeout is the per-call timeout
	Timeout time.Duration
	// Wait is passed to start and stop calls
	Wait bool
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithConcurrency sets the maximum number of concurrent calls
func WithConcurrency(n int) ManagerOption {
	return func(m *Manager) {
		m.Concurrency = n
	}
}

// WithTimeout sets the per-call timeout
func WithTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.Timeout = d
	}
}

// WithWait sets whether start and stop calls wait for the state transition
func WithWait(wait bool) ManagerOption {
	return func(m *Manager) {
		m.Wait = wait
	}
}

// NewManager creates a new Manager for sup with default settings
func NewManager(sup *Supervisor, opts ...ManagerOption) *Manager {
	m := &Manager{
		Supervisor:  sup,
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		Wait:        true,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.Concurrency < 1 {
		m.Concurrency = 1
	}

	return m
}

// execute runs op once per name, at most Concurrency at a time
func (m *Manager) execute(ctx context.Context, names []string, op func(context.Context, string) error) error {
	if len(names) == 0 {
		return nil
	}

	// Semaphore for concurrency control
	sem := make(chan struct{}, m.Concurrency)

	var wg sync.WaitGroup
	var mu sync.Mutex
	merr := &MultiError{}

	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			// Acquire semaphore slot
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				merr.Add(ctx.Err())
				mu.Unlock()
				return
			}

			opCtx := ctx
			if m.Timeout > 0 {
				var cancel context.CancelFunc
				opCtx, cancel = context.WithTimeout(ctx, m.Timeout)
				defer cancel()
			}

			if err := op(opCtx, name); err != nil {
				mu.Lock()
				merr.Add(err)
				mu.Unlock()
			}
		}(name)
	}

	wg.Wait()

	return merr.Err()
}

// Start starts the named processes
func (m *Manager) Start(ctx context.Context, names ...string) error {
	return m.execute(ctx, names, func(ctx context.Context, name string) error {
		_, err := m.Supervisor.StartProcess(ctx, name, m.Wait)
		return err
	})
}

// Stop stops the named processes
func (m *Manager) Stop(ctx context.Context, names ...string) error {
	return m.execute(ctx, names, func(ctx context.Context, name string) error {
		_, err := m.Supervisor.StopProcess(ctx, name, m.Wait)
		return err
	})
}

// Restart stops then starts each named process. A NOT_RUNNING fault from
// the stop is ignored.
func (m *Manager) Restart(ctx context.Context, names ...string) error {
	return m.execute(ctx, names, func(ctx context.Context, name string) error {
		if _, err := m.Supervisor.StopProcess(ctx, name, true); err != nil && !IsFault(err, FaultNotRunning) {
			return err
		}
		_, err := m.Supervisor.StartProcess(ctx, name, m.Wait)
		return err
	})
}

// Signal sends signal to the named processes
func (m *Manager) Signal(ctx context.Context, signal string, names ...string) error {
	return m.execute(ctx, names, func(ctx context.Context, name string) error {
		_, err := m.Supervisor.SignalProcess(ctx, name, signal)
		return err
	})
}

// Processes retrieves the named processes, keyed by the name given
func (m *Manager) Processes(ctx context.Context, names ...string) (map[string]Process, error) {
	var mu sync.Mutex
	results := make(map[string]Process, len(names))

	err := m.execute(ctx, names, func(ctx context.Context, name string) error {
		p, err := m.Supervisor.GetProcess(ctx, name)
		if err != nil {
			return err
		}
		mu.Lock()
		results[name] = p
		mu.Unlock()
		return nil
	})

	return results, err
}
