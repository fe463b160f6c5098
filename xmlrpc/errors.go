package xmlrpc

import (
	"errors"
	"fmt"

	kolo "github.com/kolo/xmlrpc"
)

// Common errors returned by the transport
var (
	// ErrMalformedResponse indicates the response body is not a valid methodResponse
	ErrMalformedResponse = errors.New("xmlrpc: malformed response")

	// ErrUnsupportedType indicates a parameter cannot be encoded
	ErrUnsupportedType = errors.New("xmlrpc: unsupported type")

	// ErrUnsupportedScheme indicates the endpoint URL scheme is not http, https or unix
	ErrUnsupportedScheme = errors.New("xmlrpc: unsupported endpoint scheme")
)

// Fault is a <fault> response from the server. It implements
// supervisor.ProtocolFault.
type Fault struct {
	Code   int
	String string
}

func newFault(f kolo.FaultError) *Fault {
	return &Fault{Code: f.Code, String: f.String}
}

// Error returns a formatted error message
func (f *Fault) Error() string {
	return fmt.Sprintf("xmlrpc fault %d: %s", f.Code, f.String)
}

// FaultCode returns the fault code
func (f *Fault) FaultCode() int {
	return f.Code
}

// FaultString returns the fault string
func (f *Fault) FaultString() string {
	return f.String
}

// HTTPError is a non-200 HTTP response, e.g. 401 when credentials are missing
type HTTPError struct {
	StatusCode int
	Status     string
}

// Error returns a formatted error message
func (e *HTTPError) Error() string {
	return "xmlrpc: http " + e.Status
}

// CallError wraps a failed call with the procedure name
type CallError struct {
	Method string
	Err    error
}

// Error returns a formatted error message
func (e *CallError) Error() string {
	return fmt.Sprintf("xmlrpc %s: %v", e.Method, e.Err)
}

// Unwrap returns the underlying error
func (e *CallError) Unwrap() error {
	return e.Err
}
