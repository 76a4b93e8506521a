// Package odoofake runs an in-process XML-RPC server that answers the Odoo
// common/object endpoints for tests.
package odoofake

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Fault is returned by a Handler to answer with an XML-RPC fault.
type Fault struct {
	Code    int
	Message string
}

func (f *Fault) Error() string { return f.Message }

// Handler answers execute_kw for one model.method.
type Handler func(args []any, kwargs map[string]any) (any, error)

// Call records one request received by the server.
type Call struct {
	Path   string
	Method string
	Params []any
	// Model and ModelMethod are set for execute_kw.
	Model       string
	ModelMethod string
	Kwargs      map[string]any
}

// Server is a fake Odoo server.
type Server struct {
	*httptest.Server

	Database string
	Username string
	APIKey   string
	UID      int64
	Version  map[string]any

	mu       sync.Mutex
	handlers map[string]Handler
	calls    []Call
	drops    int
	authFail bool
}

// Start launches a server accepting db/user/key and returning uid 2.
func Start(db, user, key string) *Server {
	s := &Server{
		Database: db,
		Username: user,
		APIKey:   key,
		UID:      2,
		Version: map[string]any{
			"server_version":      "17.0",
			"server_version_info": []any{int64(17), int64(0), int64(0), "final", int64(0), ""},
			"server_serie":        "17.0",
			"protocol_version":    int64(1),
		},
		handlers: make(map[string]Handler),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Handle registers fn for model.method.
func (s *Server) Handle(model, method string, fn Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[model+"."+method] = fn
}

// DropConnections makes the next n requests close the TCP connection without
// answering.
func (s *Server) DropConnections(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drops = n
}

// RejectAuth makes authenticate answer false.
func (s *Server) RejectAuth(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authFail = reject
}

// Calls returns a copy of every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Count returns how many requests invoked method ("version",
// "authenticate", or "model.method" for execute_kw).
func (s *Server) Count(method string) int {
	n := 0
	for _, c := range s.Calls() {
		name := c.Method
		if c.Model != "" {
			name = c.Model + "." + c.ModelMethod
		}
		if name == method {
			n++
		}
	}
	return n
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	drop := s.drops > 0
	if drop {
		s.drops--
	}
	s.mu.Unlock()

	if drop {
		if hj, ok := w.(http.Hijacker); ok {
			if conn, _, err := hj.Hijack(); err == nil {
				_ = conn.Close()
				return
			}
		}
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	method, params, err := decodeCall(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	call := Call{Path: r.URL.Path, Method: method, Params: params}
	if method == "execute_kw" && len(params) >= 6 {
		call.Model, _ = params[3].(string)
		call.ModelMethod, _ = params[4].(string)
		if len(params) > 6 {
			call.Kwargs, _ = params[6].(map[string]any)
		}
	}
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()

	result, err := s.dispatch(r.URL.Path, call)
	w.Header().Set("Content-Type", "text/xml")
	if err != nil {
		f, ok := err.(*Fault)
		if !ok {
			f = &Fault{Code: 1, Message: err.Error()}
		}
		_, _ = w.Write(encodeFault(f))
		return
	}
	_, _ = w.Write(encodeResponse(result))
}

func (s *Server) dispatch(path string, c Call) (any, error) {
	switch {
	case strings.HasSuffix(path, "/xmlrpc/2/common"):
		switch c.Method {
		case "version":
			return s.Version, nil
		case "authenticate":
			s.mu.Lock()
			reject := s.authFail
			s.mu.Unlock()
			if reject || len(c.Params) < 3 ||
				c.Params[0] != s.Database || c.Params[1] != s.Username || c.Params[2] != s.APIKey {
				return false, nil
			}
			return s.UID, nil
		}
	case strings.HasSuffix(path, "/xmlrpc/2/object"):
		if c.Method != "execute_kw" {
			break
		}
		if len(c.Params) < 6 {
			return nil, &Fault{Code: 2, Message: "execute_kw expects at least 6 params"}
		}
		uid, _ := c.Params[1].(int64)
		if c.Params[0] != s.Database || uid != s.UID || c.Params[2] != s.APIKey {
			return nil, &Fault{Code: 3, Message: "odoo.exceptions.AccessDenied: Access Denied"}
		}
		s.mu.Lock()
		h := s.handlers[c.Model+"."+c.ModelMethod]
		s.mu.Unlock()
		if h == nil {
			return nil, &Fault{Code: 4, Message: fmt.Sprintf("The method '%s' does not exist on the model '%s'", c.ModelMethod, c.Model)}
		}
		args, _ := c.Params[5].([]any)
		return h(args, c.Kwargs)
	}
	return nil, &Fault{Code: 5, Message: "unknown method " + c.Method}
}

// wire types for decoding method calls

type methodCall struct {
	Name   string  `xml:"methodName"`
	Params []value `xml:"params>param>value"`
}

type value struct {
	Int     *string      `xml:"int"`
	I4      *string      `xml:"i4"`
	I8      *string      `xml:"i8"`
	String  *string      `xml:"string"`
	Boolean *string      `xml:"boolean"`
	Double  *string      `xml:"double"`
	Nil     *struct{}    `xml:"nil"`
	Array   *arrayValue  `xml:"array"`
	Struct  *structValue `xml:"struct"`
	Date    *string      `xml:"dateTime.iso8601"`
	Text    string       `xml:",chardata"`
}

type arrayValue struct {
	Values []value `xml:"data>value"`
}

type structValue struct {
	Members []member `xml:"member"`
}

type member struct {
	Name  string `xml:"name"`
	Value value  `xml:"value"`
}

func decodeCall(body []byte) (string, []any, error) {
	var mc methodCall
	if err := xml.Unmarshal(body, &mc); err != nil {
		return "", nil, err
	}
	params := make([]any, 0, len(mc.Params))
	for _, v := range mc.Params {
		params = append(params, v.native())
	}
	return strings.TrimSpace(mc.Name), params, nil
}

func (v value) native() any {
	switch {
	case v.Int != nil:
		n, _ := strconv.ParseInt(strings.TrimSpace(*v.Int), 10, 64)
		return n
	case v.I4 != nil:
		n, _ := strconv.ParseInt(strings.TrimSpace(*v.I4), 10, 64)
		return n
	case v.I8 != nil:
		n, _ := strconv.ParseInt(strings.TrimSpace(*v.I8), 10, 64)
		return n
	case v.String != nil:
		return *v.String
	case v.Boolean != nil:
		return strings.TrimSpace(*v.Boolean) == "1"
	case v.Double != nil:
		f, _ := strconv.ParseFloat(strings.TrimSpace(*v.Double), 64)
		return f
	case v.Nil != nil:
		return nil
	case v.Array != nil:
		out := make([]any, 0, len(v.Array.Values))
		for _, e := range v.Array.Values {
			out = append(out, e.native())
		}
		return out
	case v.Struct != nil:
		out := make(map[string]any, len(v.Struct.Members))
		for _, m := range v.Struct.Members {
			out[m.Name] = m.Value.native()
		}
		return out
	case v.Date != nil:
		return *v.Date
	default:
		return v.Text
	}
}

func encodeResponse(result any) []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0"?><methodResponse><params><param>`)
	encodeValue(&b, result)
	b.WriteString(`</param></params></methodResponse>`)
	return b.Bytes()
}

func encodeFault(f *Fault) []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0"?><methodResponse><fault>`)
	encodeValue(&b, map[string]any{"faultCode": f.Code, "faultString": f.Message})
	b.WriteString(`</fault></methodResponse>`)
	return b.Bytes()
}

func encodeValue(b *bytes.Buffer, v any) {
	b.WriteString("<value>")
	switch t := v.(type) {
	case nil:
		b.WriteString("<nil/>")
	case bool:
		if t {
			b.WriteString("<boolean>1</boolean>")
		} else {
			b.WriteString("<boolean>0</boolean>")
		}
	case int:
		fmt.Fprintf(b, "<int>%d</int>", t)
	case int64:
		fmt.Fprintf(b, "<int>%d</int>", t)
	case float64:
		fmt.Fprintf(b, "<double>%s</double>", strconv.FormatFloat(t, 'f', -1, 64))
	case string:
		fmt.Fprintf(b, "<string>%s</string>", html.EscapeString(t))
	case []any:
		b.WriteString("<array><data>")
		for _, e := range t {
			encodeValue(b, e)
		}
		b.WriteString("</data></array>")
	case []map[string]any:
		b.WriteString("<array><data>")
		for _, e := range t {
			encodeValue(b, e)
		}
		b.WriteString("</data></array>")
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("<struct>")
		for _, k := range keys {
			fmt.Fprintf(b, "<member><name>%s</name>", html.EscapeString(k))
			encodeValue(b, t[k])
			b.WriteString("</member>")
		}
		b.WriteString("</struct>")
	default:
		fmt.Fprintf(b, "<string>%s</string>", html.EscapeString(fmt.Sprint(t)))
	}
	b.WriteString("</value>")
}
