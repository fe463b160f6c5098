// Package supervisor provides a Go client for controlling and inspecting a
// supervisord-style process supervision daemon over its RPC interface.
//
// The core functionality centers around the Supervisor type, which wraps a
// Connector and exposes the daemon's API:
//
//	transport, err := xmlrpc.New("http://localhost:9001")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sup := supervisor.NewWithTransport(transport)
//
//	// Check the daemon
//	running, err := sup.IsRunning(ctx)
//
//	// List processes
//	processes, err := sup.GetAllProcesses(ctx)
//	for _, p := range processes {
//	    fmt.Printf("%s: %s (pid %d)\n", p.FullName(), p.StateName(), p.PID())
//	}
//
// # Reaching the whole API
//
// The daemon exposes around thirty methods in the "supervisor" namespace.
// Typed wrappers exist for the documented ones (StartProcess,
// TailProcessStdoutLog, ReloadConfig, ...). Any method, including ones added
// by newer daemons or plugins, is reachable through Invoke:
//
//	v, err := sup.Invoke(ctx, "startProcess", "web", true)
//
// and any namespace through Call:
//
//	v, err := sup.Call(ctx, "twiddler", "getAPIVersion")
//
// # Faults
//
// Faults reported by the daemon are returned as *Fault, classified by the
// identifier at the start of the fault string (BAD_NAME, NOT_RUNNING, ...)
// with the numeric code as fallback. Use errors.Is with the sentinels or
// IsFault to branch on them:
//
//	if _, err := sup.StartProcess(ctx, "web", true); errors.Is(err, supervisor.ErrAlreadyStarted) {
//	    // nothing to do
//	}
//
// Transport failures (connection refused, timeouts, HTTP errors) are
// returned unchanged. Only IsConnected swallows errors.
//
// # Helpers
//
// Snapshot captures state and processes in one multicall, Watch and Wait
// poll for process changes, and Manager fans calls out over many process
// names with bounded concurrency. All are optional; the Supervisor type
// provides all core functionality.
package supervisor
