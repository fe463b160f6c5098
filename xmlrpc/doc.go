// Package xmlrpc is an XML-RPC transport for the supervisor daemon's HTTP
// interface. It implements supervisor.Transport:
//
//	client, err := xmlrpc.New("unix:///var/run/supervisor.sock")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sup := supervisor.NewWithTransport(client)
//
// TCP endpoints take the form http://host:9001; the request path defaults
// to /RPC2. Faults reported by the daemon are returned as *Fault, which the
// supervisor package classifies. Connection, HTTP and decoding failures are
// returned as *CallError.
package xmlrpc
