package supervisor

import (
	"context"
	"errors"
)

// Namespaces used by the daemon's RPC interface
const (
	// NamespaceSystem holds the introspection and multicall methods
	NamespaceSystem = "system"

	// NamespaceSupervisor holds the process control, status and logging methods
	NamespaceSupervisor = "supervisor"

	// methodSeparator joins a namespace and a method into a procedure name
	methodSeparator = "."
)

// Transport sends a named remote procedure call with positional arguments.
// It returns the decoded response value, a ProtocolFault error when the
// daemon reports a fault, or any other error for connection, timeout or
// decoding failures. Timeouts, retries and authentication belong to the
// Transport.
type Transport interface {
	Invoke(ctx context.Context, name string, args []any) (any, error)
}

// ProtocolFault is implemented by transport errors that carry a fault
// reported by the remote side, as opposed to a failure of the transport itself.
type ProtocolFault interface {
	error
	FaultCode() int
	FaultString() string
}

// Connector turns a namespaced call into a remote procedure call
type Connector interface {
	Call(ctx context.Context, namespace, method string, args ...any) (any, error)
}

// RPCConnector is a stateless Connector on top of a Transport. Protocol
// faults are classified into *Fault; every other transport error is returned
// unchanged. It is safe for concurrent use if the Transport is.
type RPCConnector struct {
	transport Transport
}

// NewConnector creates a Connector that forwards calls to t
func NewConnector(t Transport) *RPCConnector {
	return &RPCConnector{transport: t}
}

// ProcedureName joins namespace and method into the remote procedure name
func ProcedureName(namespace, method string) string {
	return namespace + methodSeparator + method
}

// Call invokes namespace.method with args in the given order and returns the
// decoded response as-is.
func (c *RPCConnector) Call(ctx context.Context, namespace, method string, args ...any) (any, error) {
	if args == nil {
		args = []any{}
	}

	result, err := c.transport.Invoke(ctx, ProcedureName(namespace, method), args)
	if err != nil {
		var pf ProtocolFault
		if errors.As(err, &pf) {
			return nil, Classify(pf.FaultCode(), pf.FaultString())
		}
		return nil, err
	}

	return result, nil
}
