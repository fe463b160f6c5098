package supervisor

import (
	"context"
	"fmt"
	"sync"
)

// invocation records one call seen by a fake
type invocation struct {
	Name string
	Args []any
}

// fakeTransport records every Invoke and answers with a fixed result or error
type fakeTransport struct {
	mu     sync.Mutex
	calls  []invocation
	result any
	err    error
}

func (t *fakeTransport) Invoke(_ context.Context, name string, args []any) (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, invocation{Name: name, Args: args})
	return t.result, t.err
}

// testFault implements ProtocolFault the way a transport would
type testFault struct {
	code int
	msg  string
}

func (f *testFault) Error() string       { return fmt.Sprintf("fault %d: %s", f.code, f.msg) }
func (f *testFault) FaultCode() int      { return f.code }
func (f *testFault) FaultString() string { return f.msg }

// responder answers one procedure
type responder func(args []any) (any, error)

// fakeConnector answers by procedure name and records every call in order
type fakeConnector struct {
	mu        sync.Mutex
	calls     []invocation
	responses map[string]responder
}

func newFakeConnector() *fakeConnector {
	return &fakeConnector{responses: make(map[string]responder)}
}

// on registers a fixed answer for namespace.method
func (c *fakeConnector) on(namespace, method string, result any, err error) *fakeConnector {
	return c.onFunc(namespace, method, func([]any) (any, error) { return result, err })
}

func (c *fakeConnector) onFunc(namespace, method string, r responder) *fakeConnector {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[ProcedureName(namespace, method)] = r
	return c
}

func (c *fakeConnector) Call(_ context.Context, namespace, method string, args ...any) (any, error) {
	name := ProcedureName(namespace, method)

	c.mu.Lock()
	c.calls = append(c.calls, invocation{Name: name, Args: args})
	r, ok := c.responses[name]
	c.mu.Unlock()

	if !ok {
		return nil, Classify(1, "UNKNOWN_METHOD")
	}
	return r(args)
}

func (c *fakeConnector) recorded() []invocation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]invocation(nil), c.calls...)
}

// sequence answers with each result in turn, repeating the last one
func sequence(results ...any) responder {
	var mu sync.Mutex
	i := 0
	return func([]any) (any, error) {
		mu.Lock()
		defer mu.Unlock()
		r := results[i]
		if i < len(results)-1 {
			i++
		}
		if err, ok := r.(error); ok {
			return nil, err
		}
		return r, nil
	}
}

// processInfo builds a raw process mapping as the daemon sends it
func processInfo(group, name string, state ProcessState, pid int) map[string]any {
	return map[string]any{
		"name":      name,
		"group":     group,
		"state":     int(state),
		"statename": state.String(),
		"pid":       pid,
	}
}
