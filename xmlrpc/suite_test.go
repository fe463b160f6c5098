package xmlrpc_test

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	supervisor "github.com/axondata/go-supervisor"
	"github.com/axondata/go-supervisor/xmlrpc"
)

// statefulDaemon is a fake daemon that tracks process states across calls
type statefulDaemon struct {
	mu      sync.Mutex
	states  map[string]supervisor.ProcessState
	pids    map[string]int
	nextPID int
}

func newStatefulDaemon(names ...string) *statefulDaemon {
	d := &statefulDaemon{
		states:  make(map[string]supervisor.ProcessState),
		pids:    make(map[string]int),
		nextPID: 1000,
	}
	for _, name := range names {
		d.states[name] = supervisor.ProcessStopped
	}
	return d
}

func (d *statefulDaemon) set(name string, state supervisor.ProcessState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.states[name] = state
	if state == supervisor.ProcessRunning {
		d.nextPID++
		d.pids[name] = d.nextPID
	} else {
		d.pids[name] = 0
	}
}

type methodCall struct {
	MethodName string `xml:"methodName"`
	Params     []struct {
		String string `xml:"value>string"`
	} `xml:"params>param"`
}

func (d *statefulDaemon) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var call methodCall
	if err := xml.Unmarshal(body, &call); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var name string
	if len(call.Params) > 0 {
		name = call.Params[0].String
	}
	w.Header().Set("Content-Type", "text/xml")
	_, _ = io.WriteString(w, d.answer(call.MethodName, name))
}

func (d *statefulDaemon) answer(method, name string) string {
	switch method {
	case "system.listMethods":
		return result(`<array><data><value>supervisor.getState</value></data></array>`)
	case "supervisor.getState":
		return result(`<struct><member><name>statecode</name><value><int>1</int></value></member></struct>`)
	case "supervisor.getAllProcessInfo":
		d.mu.Lock()
		names := make([]string, 0, len(d.states))
		for n := range d.states {
			names = append(names, n)
		}
		sort.Strings(names)
		var b strings.Builder
		for _, n := range names {
			b.WriteString("<value>" + processXML(n, n, int(d.states[n]), d.pids[n]) + "</value>")
		}
		d.mu.Unlock()
		return result("<array><data>" + b.String() + "</data></array>")
	}

	d.mu.Lock()
	state, ok := d.states[name]
	pid := d.pids[name]
	d.mu.Unlock()
	if !ok {
		return fault(10, "BAD_NAME: "+name)
	}

	switch method {
	case "supervisor.getProcessInfo":
		return result(processXML(name, name, int(state), pid))
	case "supervisor.startProcess":
		if state == supervisor.ProcessRunning {
			return fault(60, "ALREADY_STARTED: "+name)
		}
		d.set(name, supervisor.ProcessRunning)
		return result("<boolean>1</boolean>")
	case "supervisor.stopProcess":
		if state != supervisor.ProcessRunning {
			return fault(70, "NOT_RUNNING: "+name)
		}
		d.set(name, supervisor.ProcessStopped)
		return result("<boolean>1</boolean>")
	case "supervisor.signalProcess":
		if state != supervisor.ProcessRunning {
			return fault(70, "NOT_RUNNING: "+name)
		}
		return result("<boolean>1</boolean>")
	}
	return fault(1, "UNKNOWN_METHOD")
}

// DaemonTestSuite drives the library against a fake daemon on a unix socket
type DaemonTestSuite struct {
	suite.Suite
	dir    string
	socket string
	daemon *statefulDaemon
	server *http.Server
	sup    *supervisor.Supervisor
}

func (s *DaemonTestSuite) SetupSuite() {
	// Socket paths are length limited; t.TempDir can be too deep
	dir, err := os.MkdirTemp("", "svd")
	s.Require().NoError(err)
	s.dir = dir
	s.socket = filepath.Join(dir, "supervisor.sock")

	s.daemon = newStatefulDaemon()
	s.server = &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.daemon.ServeHTTP(w, r)
	}), ReadHeaderTimeout: time.Second}

	client, err := xmlrpc.New("unix://" + s.socket)
	s.Require().NoError(err)
	s.sup = supervisor.NewWithTransport(client)

	// Start listening after the client is waiting for the socket
	ready := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		ready <- client.WaitForSocket(ctx)
	}()

	ln, err := net.Listen("unix", s.socket)
	s.Require().NoError(err)
	go func() { _ = s.server.Serve(ln) }()

	s.Require().NoError(<-ready)
}

func (s *DaemonTestSuite) TearDownSuite() {
	if s.server != nil {
		_ = s.server.Close()
	}
	_ = os.RemoveAll(s.dir)
}

func (s *DaemonTestSuite) SetupTest() {
	d := newStatefulDaemon("web", "worker_1", "worker_2")
	s.daemon.mu.Lock()
	s.daemon.states = d.states
	s.daemon.pids = d.pids
	s.daemon.mu.Unlock()
}

func TestDaemon(t *testing.T) {
	suite.Run(t, new(DaemonTestSuite))
}

func (s *DaemonTestSuite) TestConnected() {
	ctx := context.Background()
	s.True(s.sup.IsConnected(ctx))

	running, err := s.sup.IsRunning(ctx)
	s.Require().NoError(err)
	s.True(running)
}

func (s *DaemonTestSuite) TestStartStopFaults() {
	ctx := context.Background()

	ok, err := s.sup.StartProcess(ctx, "web", true)
	s.Require().NoError(err)
	s.True(ok)

	_, err = s.sup.StartProcess(ctx, "web", true)
	s.ErrorIs(err, supervisor.ErrAlreadyStarted)

	_, err = s.sup.StopProcess(ctx, "worker_1", true)
	s.ErrorIs(err, supervisor.ErrNotRunning)

	_, err = s.sup.GetProcess(ctx, "nope")
	s.ErrorIs(err, supervisor.ErrBadName)

	p, err := s.sup.GetProcess(ctx, "web")
	s.Require().NoError(err)
	s.True(p.IsRunning())
	s.Positive(p.PID())
}

func (s *DaemonTestSuite) TestManager() {
	ctx := context.Background()
	names := []string{"web", "worker_1", "worker_2"}
	mgr := supervisor.NewManager(s.sup, supervisor.WithConcurrency(2))

	s.Require().NoError(mgr.Start(ctx, names...))

	processes, err := mgr.Processes(ctx, names...)
	s.Require().NoError(err)
	s.Len(processes, 3)
	for _, name := range names {
		s.True(processes[name].IsRunning(), name)
	}

	s.Require().NoError(mgr.Signal(ctx, "HUP", names...))

	// Restart tolerates processes that are already down
	s.Require().NoError(mgr.Stop(ctx, "worker_2"))
	s.Require().NoError(mgr.Restart(ctx, names...))

	err = mgr.Start(ctx, "web", "missing")
	s.ErrorIs(err, supervisor.ErrAlreadyStarted)
	s.ErrorIs(err, supervisor.ErrBadName)
}

func (s *DaemonTestSuite) TestWaitForRunning() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s.daemon.set("worker_1", supervisor.ProcessStarting)
	go func() {
		time.Sleep(50 * time.Millisecond)
		s.daemon.set("worker_1", supervisor.ProcessRunning)
	}()

	p, err := s.sup.Wait(ctx, "worker_1", 10*time.Millisecond, supervisor.ProcessRunning)
	s.Require().NoError(err)
	s.Equal(supervisor.ProcessRunning, p.State())
	s.Positive(p.PID())
}

func (s *DaemonTestSuite) TestWatch() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	events, cleanup, err := s.sup.Watch(ctx, 10*time.Millisecond)
	s.Require().NoError(err)
	defer func() { s.NoError(cleanup()) }()

	seen := map[string]bool{}
	for len(seen) < 3 {
		select {
		case event := <-events:
			s.Require().NoError(event.Err)
			seen[event.Process.FullName()] = true
		case <-ctx.Done():
			s.FailNow(fmt.Sprintf("initial events: got %d", len(seen)))
		}
	}

	_, err = s.sup.StartProcess(ctx, "worker_2", false)
	s.Require().NoError(err)

	for {
		select {
		case event := <-events:
			s.Require().NoError(event.Err)
			if event.Process.FullName() != "worker_2:worker_2" {
				continue
			}
			s.Equal(supervisor.ProcessRunning, event.Process.State())
			s.Equal(supervisor.ProcessStopped, event.Previous.State())
			return
		case <-ctx.Done():
			s.FailNow("no change event for worker_2")
		}
	}
}
