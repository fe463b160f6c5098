package xmlrpc

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	kolo "github.com/kolo/xmlrpc"
)

// methodCallDoc is the server's view of a methodCall document
type methodCallDoc struct {
	MethodName string `xml:"methodName"`
	Params     []struct {
		Inner string `xml:",innerxml"`
	} `xml:"params>param"`
}

// decodeCall parses a methodCall document the way a server would, decoding
// each param through the response decoder
func decodeCall(data []byte) (string, []any, error) {
	var call methodCallDoc
	if err := xml.Unmarshal(data, &call); err != nil {
		return "", nil, err
	}

	var args []any
	for i, p := range call.Params {
		v, err := DecodeResponse([]byte("<methodResponse><params><param>" + p.Inner + "</param></params></methodResponse>"))
		if err != nil {
			return "", nil, fmt.Errorf("param %d: %w", i, err)
		}
		args = append(args, v)
	}
	return call.MethodName, args, nil
}

// valueXML encodes v as one <value> element
func valueXML(v any) string {
	body, err := kolo.EncodeMethodCall("value", v)
	if err != nil {
		panic(err)
	}
	doc := string(body)
	start := strings.Index(doc, "<param>") + len("<param>")
	end := strings.LastIndex(doc, "</param>")
	return doc[start:end]
}

// responseDoc builds a methodResponse carrying v
func responseDoc(v any) []byte {
	return []byte(xml.Header + "<methodResponse><params><param>" + valueXML(v) + "</param></params></methodResponse>")
}

// faultDoc builds a methodResponse carrying a fault
func faultDoc(code int, msg string) []byte {
	return []byte(xml.Header + "<methodResponse><fault>" +
		valueXML(map[string]any{"faultCode": code, "faultString": msg}) +
		"</fault></methodResponse>")
}

// handlerFunc answers one procedure; a non-nil *Fault becomes a fault response
type handlerFunc func(args []any) (any, *Fault)

// fakeServer is a minimal XML-RPC server keyed by procedure name
type fakeServer struct {
	mu       sync.Mutex
	handlers map[string]handlerFunc
	requests []*http.Request
	username string
	password string
}

func newFakeServer() *fakeServer {
	return &fakeServer{handlers: make(map[string]handlerFunc)}
}

func (s *fakeServer) handle(name string, h handlerFunc) *fakeServer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[name] = h
	return s
}

func (s *fakeServer) requireAuth(username, password string) *fakeServer {
	s.username = username
	s.password = password
	return s
}

func (s *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r)
	s.mu.Unlock()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.username != "" {
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.username || pass != s.password {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name, args, err := decodeCall(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	h, ok := s.handlers[name]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/xml")
	if !ok {
		_, _ = w.Write(faultDoc(1, "UNKNOWN_METHOD"))
		return
	}
	result, fault := h(args)
	if fault != nil {
		_, _ = w.Write(faultDoc(fault.Code, fault.String))
		return
	}
	_, _ = w.Write(responseDoc(result))
}

func (s *fakeServer) lastRequest() *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}
