package supervisor

import (
	"encoding/json"
	"maps"
	"reflect"
	"time"
)

// ProcessState is the state of a single supervised process
type ProcessState int

const (
	// ProcessStopped indicates the process has been stopped or was never started
	ProcessStopped ProcessState = 0
	// ProcessStarting indicates the process is starting due to a start request
	ProcessStarting ProcessState = 10
	// ProcessRunning indicates the process is running
	ProcessRunning ProcessState = 20
	// ProcessBackoff indicates the process entered starting but exited too quickly
	ProcessBackoff ProcessState = 30
	// ProcessStopping indicates the process is stopping due to a stop request
	ProcessStopping ProcessState = 40
	// ProcessExited indicates the process exited from running, expectedly or not
	ProcessExited ProcessState = 100
	// ProcessFatal indicates the process could not be started successfully
	ProcessFatal ProcessState = 200
	// ProcessUnknown indicates the process is in an unknown state
	ProcessUnknown ProcessState = 1000
)

// ProcessState string constants
const (
	processStoppedStr  = "STOPPED"
	processStartingStr = "STARTING"
	processRunningStr  = "RUNNING"
	processBackoffStr  = "BACKOFF"
	processStoppingStr = "STOPPING"
	processExitedStr   = "EXITED"
	processFatalStr    = "FATAL"
	processUnknownStr  = "UNKNOWN"
)

// String returns the daemon's name for the process state
func (s ProcessState) String() string {
	switch s {
	case ProcessStopped:
		return processStoppedStr
	case ProcessStarting:
		return processStartingStr
	case ProcessRunning:
		return processRunningStr
	case ProcessBackoff:
		return processBackoffStr
	case ProcessStopping:
		return processStoppingStr
	case ProcessExited:
		return processExitedStr
	case ProcessFatal:
		return processFatalStr
	default:
		return processUnknownStr
	}
}

// Process attribute keys, as returned by getProcessInfo
const (
	keyName          = "name"
	keyGroup         = "group"
	keyDescription   = "description"
	keyStart         = "start"
	keyStop          = "stop"
	keyNow           = "now"
	keyState         = "state"
	keyStateName     = "statename"
	keySpawnErr      = "spawnerr"
	keyExitStatus    = "exitstatus"
	keyLogfile       = "logfile"
	keyStdoutLogfile = "stdout_logfile"
	keyStderrLogfile = "stderr_logfile"
	keyPID           = "pid"
)

// Process is an immutable view of one supervised process, built from the
// mapping the daemon returns. Missing or mistyped attributes read as zero
// values; the daemon controls the shape and may add or drop keys.
type Process struct {
	raw map[string]any
}

// NewProcess wraps a raw process info mapping. The mapping is copied.
func NewProcess(raw map[string]any) Process {
	return Process{raw: maps.Clone(raw)}
}

func (p Process) str(key string) string {
	s, _ := p.raw[key].(string)
	return s
}

func (p Process) num(key string) int {
	n, _ := toInt(p.raw[key])
	return n
}

func (p Process) unix(key string) time.Time {
	n := p.num(key)
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(int64(n), 0)
}

// Name returns the process name
func (p Process) Name() string { return p.str(keyName) }

// Group returns the name of the process group
func (p Process) Group() string { return p.str(keyGroup) }

// FullName returns "group:name", the form the daemon accepts for grouped processes
func (p Process) FullName() string {
	if g := p.Group(); g != "" {
		return g + ":" + p.Name()
	}
	return p.Name()
}

// Description returns the daemon's human-readable description
func (p Process) Description() string { return p.str(keyDescription) }

// PID returns the process ID, or 0 if the process is not running
func (p Process) PID() int { return p.num(keyPID) }

// State returns the process state code
func (p Process) State() ProcessState { return ProcessState(p.num(keyState)) }

// StateName returns the state name as reported by the daemon
func (p Process) StateName() string { return p.str(keyStateName) }

// Start returns when the process was last started, or the zero time
func (p Process) Start() time.Time { return p.unix(keyStart) }

// Stop returns when the process last ended, or the zero time
func (p Process) Stop() time.Time { return p.unix(keyStop) }

// Now returns the daemon's clock at the time of the query
func (p Process) Now() time.Time { return p.unix(keyNow) }

// Uptime returns how long the process has been running as seen by the daemon
func (p Process) Uptime() time.Duration {
	if p.State() != ProcessRunning {
		return 0
	}
	start, now := p.Start(), p.Now()
	if start.IsZero() || now.Before(start) {
		return 0
	}
	return now.Sub(start)
}

// SpawnErr returns the spawn error text, or "" if there was none
func (p Process) SpawnErr() string { return p.str(keySpawnErr) }

// ExitStatus returns the exit status of the last run
func (p Process) ExitStatus() int { return p.num(keyExitStatus) }

// StdoutLogfile returns the stdout log path. Older daemons only send "logfile".
func (p Process) StdoutLogfile() string {
	if s := p.str(keyStdoutLogfile); s != "" {
		return s
	}
	return p.str(keyLogfile)
}

// StderrLogfile returns the stderr log path
func (p Process) StderrLogfile() string { return p.str(keyStderrLogfile) }

// IsRunning reports whether the process is in the RUNNING state
func (p Process) IsRunning() bool {
	return p.CheckState(ProcessRunning)
}

// CheckState reports whether the process is in the given state
func (p Process) CheckState(state ProcessState) bool {
	return p.State() == state
}

// Get returns a raw attribute, for keys without an accessor
func (p Process) Get(key string) (any, bool) {
	v, ok := p.raw[key]
	return v, ok
}

// Raw returns a copy of the underlying mapping
func (p Process) Raw() map[string]any {
	return maps.Clone(p.raw)
}

// Equal reports whether both processes wrap equal mappings
func (p Process) Equal(other Process) bool {
	if len(p.raw) == 0 && len(other.raw) == 0 {
		return true
	}
	return reflect.DeepEqual(p.raw, other.raw)
}

// String returns the full process name
func (p Process) String() string {
	return p.FullName()
}

// MarshalJSON encodes the raw mapping
func (p Process) MarshalJSON() ([]byte, error) {
	if p.raw == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.raw)
}

// UnmarshalJSON decodes a raw mapping
func (p *Process) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.raw = raw
	return nil
}
