package supervisor

import (
	"time"
)

// Defaults for the optional helpers built on top of the facade
const (
	// DefaultWatchInterval is the default polling interval for Watch
	DefaultWatchInterval = 1 * time.Second

	// DefaultConcurrency is the default maximum number of concurrent Manager calls
	DefaultConcurrency = 10

	// DefaultTimeout is the default per-call timeout used by Manager
	DefaultTimeout = 5 * time.Second

	// FileMode is the mode for files written by Snapshot.WriteFile
	FileMode = 0o644
)

// Method names in the system namespace
const (
	methodListMethods     = "listMethods"
	methodMethodHelp      = "methodHelp"
	methodMethodSignature = "methodSignature"
	methodMulticall       = "multicall"
)

// Method names in the supervisor namespace
const (
	methodGetAPIVersion        = "getAPIVersion"
	methodGetSupervisorVersion = "getSupervisorVersion"
	methodGetIdentification    = "getIdentification"
	methodGetState             = "getState"
	methodGetPID               = "getPID"
	methodReadLog              = "readLog"
	methodClearLog             = "clearLog"
	methodShutdown             = "shutdown"
	methodRestart              = "restart"
	methodGetProcessInfo       = "getProcessInfo"
	methodGetAllProcessInfo    = "getAllProcessInfo"
	methodStartProcess         = "startProcess"
	methodStartAllProcesses    = "startAllProcesses"
	methodStartProcessGroup    = "startProcessGroup"
	methodStopProcess          = "stopProcess"
	methodStopProcessGroup     = "stopProcessGroup"
	methodStopAllProcesses     = "stopAllProcesses"
	methodSignalProcess        = "signalProcess"
	methodSignalProcessGroup   = "signalProcessGroup"
	methodSignalAllProcesses   = "signalAllProcesses"
	methodSendProcessStdin     = "sendProcessStdin"
	methodSendRemoteCommEvent  = "sendRemoteCommEvent"
	methodReloadConfig         = "reloadConfig"
	methodAddProcessGroup      = "addProcessGroup"
	methodRemoveProcessGroup   = "removeProcessGroup"
	methodReadProcessStdoutLog = "readProcessStdoutLog"
	methodReadProcessStderrLog = "readProcessStderrLog"
	methodTailProcessStdoutLog = "tailProcessStdoutLog"
	methodTailProcessStderrLog = "tailProcessStderrLog"
	methodClearProcessLogs     = "clearProcessLogs"
	methodClearAllProcessLogs  = "clearAllProcessLogs"
)

// State is the overall run state of the daemon, as reported by getState
type State int

const (
	// StateShutdown indicates the daemon is shutting down
	StateShutdown State = -1
	// StateRestarting indicates the daemon is restarting
	StateRestarting State = 0
	// StateRunning indicates the daemon is running normally
	StateRunning State = 1
	// StateFatal indicates the daemon hit an unrecoverable error
	StateFatal State = 2
)

// State string constants
const (
	stateShutdownStr   = "SHUTDOWN"
	stateRestartingStr = "RESTARTING"
	stateRunningStr    = "RUNNING"
	stateFatalStr      = "FATAL"
	stateUnknownStr    = "UNKNOWN"
)

// String returns the daemon's name for the state
func (s State) String() string {
	switch s {
	case StateShutdown:
		return stateShutdownStr
	case StateRestarting:
		return stateRestartingStr
	case StateRunning:
		return stateRunningStr
	case StateFatal:
		return stateFatalStr
	default:
		return stateUnknownStr
	}
}

// Known reports whether s is one of the states the daemon defines
func (s State) Known() bool {
	return s >= StateShutdown && s <= StateFatal
}

// StateInfo is the decoded response of getState
type StateInfo struct {
	// Code is the numeric state
	Code State `json:"statecode"`
	// Name is the state name as reported by the daemon
	Name string `json:"statename"`
}

// decodeStateInfo decodes a getState mapping. statecode is required, statename is not.
func decodeStateInfo(raw any) (StateInfo, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return StateInfo{}, false
	}
	code, ok := toInt(m["statecode"])
	if !ok {
		return StateInfo{}, false
	}
	name, _ := m["statename"].(string)
	return StateInfo{Code: State(code), Name: name}, true
}
