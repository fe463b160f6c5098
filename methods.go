package supervisor

import (
	"context"
)

// Typed wrappers for the supervisor namespace. Each one forwards through
// Invoke and decodes the documented response shape.

// ProcessStatus is the per-process result of group and bulk operations
type ProcessStatus struct {
	Name        string
	Group       string
	Status      int
	Description string
}

// Fault classifies the status code; statuses other than SUCCESS describe a failure
func (ps ProcessStatus) Fault() *Fault {
	return Classify(ps.Status, ps.Description)
}

// LogTail is the result of a tail*Log call
type LogTail struct {
	// Data is the log text read
	Data string
	// Offset is the offset to pass to the next tail call
	Offset int
	// Overflow reports whether more than the requested length was available
	Overflow bool
}

// ConfigChanges lists the group names affected by reloadConfig
type ConfigChanges struct {
	Added   []string
	Changed []string
	Removed []string
}

func (s *Supervisor) invokeBool(ctx context.Context, method string, args ...any) (bool, error) {
	raw, err := s.Invoke(ctx, method, args...)
	if err != nil {
		return false, err
	}
	b, ok := raw.(bool)
	if !ok {
		return false, decodeError(NamespaceSupervisor, method, raw)
	}
	return b, nil
}

func (s *Supervisor) invokeString(ctx context.Context, method string, args ...any) (string, error) {
	raw, err := s.Invoke(ctx, method, args...)
	if err != nil {
		return "", err
	}
	str, ok := toString(raw)
	if !ok {
		return "", decodeError(NamespaceSupervisor, method, raw)
	}
	return str, nil
}

func (s *Supervisor) invokeInt(ctx context.Context, method string, args ...any) (int, error) {
	raw, err := s.Invoke(ctx, method, args...)
	if err != nil {
		return 0, err
	}
	n, ok := toInt(raw)
	if !ok {
		return 0, decodeError(NamespaceSupervisor, method, raw)
	}
	return n, nil
}

func (s *Supervisor) invokeStatuses(ctx context.Context, method string, args ...any) ([]ProcessStatus, error) {
	raw, err := s.Invoke(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	infos, ok := toMaps(raw)
	if !ok {
		return nil, decodeError(NamespaceSupervisor, method, raw)
	}
	statuses := make([]ProcessStatus, 0, len(infos))
	for _, info := range infos {
		ps := ProcessStatus{}
		ps.Name, _ = info["name"].(string)
		ps.Group, _ = info["group"].(string)
		ps.Status, _ = toInt(info["status"])
		ps.Description, _ = info["description"].(string)
		statuses = append(statuses, ps)
	}
	return statuses, nil
}

func (s *Supervisor) invokeTail(ctx context.Context, method string, args ...any) (LogTail, error) {
	raw, err := s.Invoke(ctx, method, args...)
	if err != nil {
		return LogTail{}, err
	}
	parts, ok := raw.([]any)
	if !ok || len(parts) != 3 {
		return LogTail{}, decodeError(NamespaceSupervisor, method, raw)
	}
	data, ok1 := toString(parts[0])
	offset, ok2 := toInt(parts[1])
	overflow, ok3 := parts[2].(bool)
	if !ok1 || !ok2 || !ok3 {
		return LogTail{}, decodeError(NamespaceSupervisor, method, raw)
	}
	return LogTail{Data: data, Offset: offset, Overflow: overflow}, nil
}

// GetAPIVersion returns the version of the RPC API used by the daemon
func (s *Supervisor) GetAPIVersion(ctx context.Context) (string, error) {
	return s.invokeString(ctx, methodGetAPIVersion)
}

// GetSupervisorVersion returns the version of the daemon
func (s *Supervisor) GetSupervisorVersion(ctx context.Context) (string, error) {
	return s.invokeString(ctx, methodGetSupervisorVersion)
}

// GetIdentification returns the identifying string of the daemon
func (s *Supervisor) GetIdentification(ctx context.Context) (string, error) {
	return s.invokeString(ctx, methodGetIdentification)
}

// GetState returns the daemon's current state
func (s *Supervisor) GetState(ctx context.Context) (StateInfo, error) {
	raw, err := s.Invoke(ctx, methodGetState)
	if err != nil {
		return StateInfo{}, err
	}
	info, ok := decodeStateInfo(raw)
	if !ok {
		return StateInfo{}, decodeError(NamespaceSupervisor, methodGetState, raw)
	}
	return info, nil
}

// GetPID returns the PID of the daemon
func (s *Supervisor) GetPID(ctx context.Context) (int, error) {
	return s.invokeInt(ctx, methodGetPID)
}

// ReadLog reads length bytes of the main log starting at offset
func (s *Supervisor) ReadLog(ctx context.Context, offset, length int) (string, error) {
	return s.invokeString(ctx, methodReadLog, offset, length)
}

// ClearLog clears the main log
func (s *Supervisor) ClearLog(ctx context.Context) (bool, error) {
	return s.invokeBool(ctx, methodClearLog)
}

// Shutdown shuts the daemon down
func (s *Supervisor) Shutdown(ctx context.Context) (bool, error) {
	return s.invokeBool(ctx, methodShutdown)
}

// Restart restarts the daemon
func (s *Supervisor) Restart(ctx context.Context) (bool, error) {
	return s.invokeBool(ctx, methodRestart)
}

// GetProcessInfo is an alias for GetProcess
func (s *Supervisor) GetProcessInfo(ctx context.Context, name string) (Process, error) {
	return s.GetProcess(ctx, name)
}

// GetAllProcessInfo is an alias for GetAllProcesses
func (s *Supervisor) GetAllProcessInfo(ctx context.Context) ([]Process, error) {
	return s.GetAllProcesses(ctx)
}

// StartProcess starts a process. With wait, the call returns once it is fully started.
func (s *Supervisor) StartProcess(ctx context.Context, name string, wait bool) (bool, error) {
	return s.invokeBool(ctx, methodStartProcess, name, wait)
}

// StartAllProcesses starts every process in the configuration
func (s *Supervisor) StartAllProcesses(ctx context.Context, wait bool) ([]ProcessStatus, error) {
	return s.invokeStatuses(ctx, methodStartAllProcesses, wait)
}

// StartProcessGroup starts every process in a group
func (s *Supervisor) StartProcessGroup(ctx context.Context, name string, wait bool) ([]ProcessStatus, error) {
	return s.invokeStatuses(ctx, methodStartProcessGroup, name, wait)
}

// StopProcess stops a process. With wait, the call returns once it is fully stopped.
func (s *Supervisor) StopProcess(ctx context.Context, name string, wait bool) (bool, error) {
	return s.invokeBool(ctx, methodStopProcess, name, wait)
}

// StopProcessGroup stops every process in a group
func (s *Supervisor) StopProcessGroup(ctx context.Context, name string, wait bool) ([]ProcessStatus, error) {
	return s.invokeStatuses(ctx, methodStopProcessGroup, name, wait)
}

// StopAllProcesses stops every process
func (s *Supervisor) StopAllProcesses(ctx context.Context, wait bool) ([]ProcessStatus, error) {
	return s.invokeStatuses(ctx, methodStopAllProcesses, wait)
}

// SignalProcess sends a signal, by name ("HUP") or number, to a process
func (s *Supervisor) SignalProcess(ctx context.Context, name, signal string) (bool, error) {
	return s.invokeBool(ctx, methodSignalProcess, name, signal)
}

// SignalProcessGroup sends a signal to every process in a group
func (s *Supervisor) SignalProcessGroup(ctx context.Context, name, signal string) ([]ProcessStatus, error) {
	return s.invokeStatuses(ctx, methodSignalProcessGroup, name, signal)
}

// SignalAllProcesses sends a signal to every process
func (s *Supervisor) SignalAllProcesses(ctx context.Context, signal string) ([]ProcessStatus, error) {
	return s.invokeStatuses(ctx, methodSignalAllProcesses, signal)
}

// SendProcessStdin writes chars to the stdin of a process
func (s *Supervisor) SendProcessStdin(ctx context.Context, name, chars string) (bool, error) {
	return s.invokeBool(ctx, methodSendProcessStdin, name, chars)
}

// SendRemoteCommEvent emits a REMOTE_COMMUNICATION event to event listeners
func (s *Supervisor) SendRemoteCommEvent(ctx context.Context, eventType, data string) (bool, error) {
	return s.invokeBool(ctx, methodSendRemoteCommEvent, eventType, data)
}

// ReloadConfig rereads the configuration and reports which groups changed.
// The changes are not applied until groups are added or removed.
func (s *Supervisor) ReloadConfig(ctx context.Context) (ConfigChanges, error) {
	raw, err := s.Invoke(ctx, methodReloadConfig)
	if err != nil {
		return ConfigChanges{}, err
	}
	outer, ok := raw.([]any)
	if !ok || len(outer) != 1 {
		return ConfigChanges{}, decodeError(NamespaceSupervisor, methodReloadConfig, raw)
	}
	lists, ok := outer[0].([]any)
	if !ok || len(lists) != 3 {
		return ConfigChanges{}, decodeError(NamespaceSupervisor, methodReloadConfig, raw)
	}
	added, ok1 := toStrings(lists[0])
	changed, ok2 := toStrings(lists[1])
	removed, ok3 := toStrings(lists[2])
	if !ok1 || !ok2 || !ok3 {
		return ConfigChanges{}, decodeError(NamespaceSupervisor, methodReloadConfig, raw)
	}
	return ConfigChanges{Added: added, Changed: changed, Removed: removed}, nil
}

// AddProcessGroup activates a group added to the configuration
func (s *Supervisor) AddProcessGroup(ctx context.Context, name string) (bool, error) {
	return s.invokeBool(ctx, methodAddProcessGroup, name)
}

// RemoveProcessGroup removes a stopped group from the active configuration
func (s *Supervisor) RemoveProcessGroup(ctx context.Context, name string) (bool, error) {
	return s.invokeBool(ctx, methodRemoveProcessGroup, name)
}

// ReadProcessStdoutLog reads length bytes of a process's stdout log starting at offset
func (s *Supervisor) ReadProcessStdoutLog(ctx context.Context, name string, offset, length int) (string, error) {
	return s.invokeString(ctx, methodReadProcessStdoutLog, name, offset, length)
}

// ReadProcessStderrLog reads length bytes of a process's stderr log starting at offset
func (s *Supervisor) ReadProcessStderrLog(ctx context.Context, name string, offset, length int) (string, error) {
	return s.invokeString(ctx, methodReadProcessStderrLog, name, offset, length)
}

// TailProcessStdoutLog reads the tail of a process's stdout log
func (s *Supervisor) TailProcessStdoutLog(ctx context.Context, name string, offset, length int) (LogTail, error) {
	return s.invokeTail(ctx, methodTailProcessStdoutLog, name, offset, length)
}

// TailProcessStderrLog reads the tail of a process's stderr log
func (s *Supervisor) TailProcessStderrLog(ctx context.Context, name string, offset, length int) (LogTail, error) {
	return s.invokeTail(ctx, methodTailProcessStderrLog, name, offset, length)
}

// ClearProcessLogs clears the stdout and stderr logs of a process
func (s *Supervisor) ClearProcessLogs(ctx context.Context, name string) (bool, error) {
	return s.invokeBool(ctx, methodClearProcessLogs, name)
}

// ClearAllProcessLogs clears the logs of every process
func (s *Supervisor) ClearAllProcessLogs(ctx context.Context) ([]ProcessStatus, error) {
	return s.invokeStatuses(ctx, methodClearAllProcessLogs)
}
