package supervisor

import (
	"context"
)

// Supervisor is the client facade for one daemon. The explicit methods cover
// connectivity, state and process listing; Invoke reaches any other method
// in the supervisor namespace, and Call reaches any namespace at all.
//
// A Supervisor holds no mutable state. It is safe for concurrent use if its
// Connector is.
type Supervisor struct {
	connector Connector
}

// New creates a Supervisor that sends every call through c
func New(c Connector) *Supervisor {
	return &Supervisor{connector: c}
}

// NewWithTransport creates a Supervisor on top of an RPCConnector for t
func NewWithTransport(t Transport) *Supervisor {
	return New(NewConnector(t))
}

// IsConnected probes the daemon with system.listMethods. Any error, fault or
// otherwise, yields false.
func (s *Supervisor) IsConnected(ctx context.Context) bool {
	_, err := s.connector.Call(ctx, NamespaceSystem, methodListMethods)
	return err == nil
}

// Call invokes namespace.method directly
func (s *Supervisor) Call(ctx context.Context, namespace, method string, args ...any) (any, error) {
	return s.connector.Call(ctx, namespace, method, args...)
}

// Invoke forwards method to the supervisor namespace with args unchanged.
// The method name is not checked; the daemon answers unknown names with an
// UNKNOWN_METHOD fault.
func (s *Supervisor) Invoke(ctx context.Context, method string, args ...any) (any, error) {
	return s.connector.Call(ctx, NamespaceSupervisor, method, args...)
}

// IsRunning reports whether the daemon is in the RUNNING state
func (s *Supervisor) IsRunning(ctx context.Context) (bool, error) {
	return s.CheckState(ctx, StateRunning)
}

// CheckState reports whether the daemon's statecode equals expected. A
// response without a readable statecode is a mismatch, not an error.
func (s *Supervisor) CheckState(ctx context.Context, expected State) (bool, error) {
	raw, err := s.Invoke(ctx, methodGetState)
	if err != nil {
		return false, err
	}
	info, ok := decodeStateInfo(raw)
	if !ok {
		return false, nil
	}
	return info.Code == expected, nil
}

// GetAllProcesses returns every process in the order the daemon lists them
func (s *Supervisor) GetAllProcesses(ctx context.Context) ([]Process, error) {
	raw, err := s.Invoke(ctx, methodGetAllProcessInfo)
	if err != nil {
		return nil, err
	}
	return decodeProcesses(raw)
}

// GetProcess returns one process. name may be "group:name".
func (s *Supervisor) GetProcess(ctx context.Context, name string) (Process, error) {
	raw, err := s.Invoke(ctx, methodGetProcessInfo, name)
	if err != nil {
		return Process{}, err
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return Process{}, decodeError(NamespaceSupervisor, methodGetProcessInfo, raw)
	}
	return NewProcess(m), nil
}

// ListMethods returns the names of every method the daemon exposes
func (s *Supervisor) ListMethods(ctx context.Context) ([]string, error) {
	raw, err := s.connector.Call(ctx, NamespaceSystem, methodListMethods)
	if err != nil {
		return nil, err
	}
	names, ok := toStrings(raw)
	if !ok {
		return nil, decodeError(NamespaceSystem, methodListMethods, raw)
	}
	return names, nil
}

// MethodHelp returns the documentation of a method
func (s *Supervisor) MethodHelp(ctx context.Context, name string) (string, error) {
	raw, err := s.connector.Call(ctx, NamespaceSystem, methodMethodHelp, name)
	if err != nil {
		return "", err
	}
	help, ok := toString(raw)
	if !ok {
		return "", decodeError(NamespaceSystem, methodMethodHelp, raw)
	}
	return help, nil
}

// MethodSignature returns the signature of a method as [rtype, ptype, ...]
func (s *Supervisor) MethodSignature(ctx context.Context, name string) ([]string, error) {
	raw, err := s.connector.Call(ctx, NamespaceSystem, methodMethodSignature, name)
	if err != nil {
		return nil, err
	}
	sig, ok := toStrings(raw)
	if !ok {
		return nil, decodeError(NamespaceSystem, methodMethodSignature, raw)
	}
	return sig, nil
}

// Multicall sends calls as one system.multicall request. The daemon answers
// with one entry per call, in order: a one-element array holding the result,
// or a fault record. Entries are returned as received; see
// DecodeMulticallResults to split them. A response that is not a list fails
// with ErrDecode.
func (s *Supervisor) Multicall(ctx context.Context, calls []MulticallCall) ([]any, error) {
	raw, err := s.connector.Call(ctx, NamespaceSystem, methodMulticall, calls)
	if err != nil {
		return nil, err
	}
	results, ok := raw.([]any)
	if !ok {
		return nil, decodeError(NamespaceSystem, methodMulticall, raw)
	}
	return results, nil
}

func decodeProcesses(raw any) ([]Process, error) {
	infos, ok := toMaps(raw)
	if !ok {
		return nil, decodeError(NamespaceSupervisor, methodGetAllProcessInfo, raw)
	}
	processes := make([]Process, 0, len(infos))
	for _, info := range infos {
		processes = append(processes, NewProcess(info))
	}
	return processes, nil
}
