package supervisor

import (
	"context"
	"time"

	"vawter.tech/stopper"
)

// WatchEvent reports a change in one process between two polls
type WatchEvent struct {
	// Process is the process as of the latest poll, or its last known
	// value when Removed is set
	Process Process
	// Previous is the process as of the prior poll; zero for new processes
	Previous Process
	// Removed reports that the process is no longer listed
	Removed bool
	// Err is set when a poll failed; the other fields are zero
	Err error
}

// WatchCleanupFunc stops a watch and waits for its goroutine to exit
type WatchCleanupFunc func() error

// processWatch tracks the last seen process list of a Watch
type processWatch struct {
	sup   *Supervisor
	known map[string]Process
	order []string
}

// poll fetches the process list and diffs it against the previous one
func (w *processWatch) poll(ctx context.Context) []WatchEvent {
	processes, err := w.sup.GetAllProcesses(ctx)
	if err != nil {
		return []WatchEvent{{Err: err}}
	}

	var events []WatchEvent
	current := make(map[string]Process, len(processes))
	order := make([]string, 0, len(processes))
	for _, p := range processes {
		key := p.FullName()
		current[key] = p
		order = append(order, key)

		prev, seen := w.known[key]
		if !seen || processChanged(prev, p) {
			events = append(events, WatchEvent{Process: p, Previous: prev})
		}
	}
	for _, key := range w.order {
		if _, ok := current[key]; !ok {
			events = append(events, WatchEvent{Process: w.known[key], Removed: true})
		}
	}

	w.known = current
	w.order = order
	return events
}

// processChanged ignores fields that move on every poll, such as "now"
func processChanged(prev, cur Process) bool {
	return prev.State() != cur.State() ||
		prev.PID() != cur.PID() ||
		!prev.Start().Equal(cur.Start()) ||
		!prev.Stop().Equal(cur.Stop()) ||
		prev.ExitStatus() != cur.ExitStatus() ||
		prev.SpawnErr() != cur.SpawnErr()
}

// Watch polls the process list every interval and sends an event for each
// process that appears, changes state, or disappears. The first poll reports
// every listed process. Poll failures are sent as events and polling goes on.
// The channel is closed after cleanup is called or ctx is done.
func (s *Supervisor) Watch(ctx context.Context, interval time.Duration) (<-chan WatchEvent, WatchCleanupFunc, error) {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	ch := make(chan WatchEvent, 16)

	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		close(ch)
	})

	cleanup := func() error {
		sctx.Stop(100 * time.Millisecond)
		return sctx.Wait()
	}

	w := &processWatch{sup: s, known: make(map[string]Process)}

	sctx.Go(func(sctx *stopper.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for !sctx.IsStopping() {
			for _, event := range w.poll(sctx) {
				select {
				case ch <- event:
				case <-sctx.Stopping():
					return nil
				case <-sctx.Done():
					return nil
				}
			}

			select {
			case <-sctx.Stopping():
				return nil
			case <-sctx.Done():
				return nil
			case <-ticker.C:
			}
		}
		return nil
	})

	return ch, cleanup, nil
}

// Wait blocks until the named process reaches one of states, polling every
// interval. With no states it waits for the process state to change.
//
// Example:
//
//	// Wait for the worker to come up
//	p, err := sup.Wait(ctx, "workers:worker_1", time.Second, ProcessRunning)
func (s *Supervisor) Wait(ctx context.Context, name string, interval time.Duration, states ...ProcessState) (Process, error) {
	initial, err := s.GetProcess(ctx, name)
	if err != nil {
		return Process{}, err
	}
	if matchesState(initial, states) {
		return initial, nil
	}

	events, cleanup, err := s.Watch(ctx, interval)
	if err != nil {
		return Process{}, err
	}
	defer func() { _ = cleanup() }()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return Process{}, ctx.Err()
			}
			if event.Err != nil {
				return Process{}, event.Err
			}
			if event.Process.FullName() != name && event.Process.Name() != name {
				continue
			}
			if event.Removed {
				return Process{}, &OpError{Method: ProcedureName(NamespaceSupervisor, methodGetAllProcessInfo), Err: ErrNoProcess}
			}
			if len(states) == 0 {
				if event.Process.State() != initial.State() {
					return event.Process, nil
				}
				continue
			}
			if matchesState(event.Process, states) {
				return event.Process, nil
			}
		case <-ctx.Done():
			return Process{}, ctx.Err()
		}
	}
}

func matchesState(p Process, states []ProcessState) bool {
	for _, st := range states {
		if p.CheckState(st) {
			return true
		}
	}
	return false
}
