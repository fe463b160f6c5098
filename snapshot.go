package supervisor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/renameio/v2"
)

// Snapshot is the daemon state and process list captured in one round trip
type Snapshot struct {
	// Taken is the local time the snapshot was received
	Taken time.Time `json:"taken"`
	// State is the daemon state at that time
	State StateInfo `json:"state"`
	// Processes is the process list in daemon order
	Processes []Process `json:"processes"`
}

// Snapshot fetches getState and getAllProcessInfo through one system.multicall
func (s *Supervisor) Snapshot(ctx context.Context) (Snapshot, error) {
	raw, err := s.Multicall(ctx, []MulticallCall{
		NewMulticallCall(NamespaceSupervisor, methodGetState),
		NewMulticallCall(NamespaceSupervisor, methodGetAllProcessInfo),
	})
	if err != nil {
		return Snapshot{}, err
	}

	results, err := DecodeMulticallResults(raw)
	if err != nil {
		return Snapshot{}, err
	}
	if len(results) != 2 {
		return Snapshot{}, decodeError(NamespaceSystem, methodMulticall, raw)
	}
	for _, r := range results {
		if r.Fault != nil {
			return Snapshot{}, r.Fault
		}
	}

	state, ok := decodeStateInfo(results[0].Value)
	if !ok {
		return Snapshot{}, decodeError(NamespaceSupervisor, methodGetState, results[0].Value)
	}
	processes, err := decodeProcesses(results[1].Value)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{Taken: time.Now(), State: state, Processes: processes}, nil
}

// Process returns the process with the given full name ("group:name") or plain name
func (sn Snapshot) Process(name string) (Process, bool) {
	for _, p := range sn.Processes {
		if p.FullName() == name || p.Name() == name {
			return p, true
		}
	}
	return Process{}, false
}

// WriteFile atomically writes the snapshot as JSON to path
func (sn Snapshot) WriteFile(path string) error {
	data, err := json.MarshalIndent(sn, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := renameio.WriteFile(path, append(data, '\n'), FileMode); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads a snapshot written by WriteFile
func ReadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	var sn Snapshot
	if err := json.Unmarshal(data, &sn); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return sn, nil
}
