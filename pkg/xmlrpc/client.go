// Package xmlrpc provides the transport used to reach an Odoo server: one
// Client per XML-RPC endpoint ("common" for version/authenticate, "object"
// for execute_kw). Values travel as plain Go values: ints decode as int64,
// structs as map[string]any, arrays as []any.
package xmlrpc

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/rpc"
	"strings"
	"time"

	"github.com/kolo/xmlrpc"
	"go.uber.org/zap"
)

const (
	// CommonPath serves version() and authenticate().
	CommonPath = "/xmlrpc/2/common"
	// ObjectPath serves execute_kw().
	ObjectPath = "/xmlrpc/2/object"
)

// Endpoint is a single remote XML-RPC endpoint.
type Endpoint interface {
	// Call invokes method with positional params and returns the decoded result.
	Call(ctx context.Context, method string, params ...any) (any, error)
	// Close releases the endpoint. Calls after Close fail.
	Close() error
}

// Dialer opens endpoints by URL. The client core depends on this interface so
// tests can substitute in-memory endpoints.
type Dialer interface {
	Dial(url string) (Endpoint, error)
}

// Client is an Endpoint backed by github.com/kolo/xmlrpc.
type Client struct {
	url string
	rpc *xmlrpc.Client
}

// NewClient creates a client for the endpoint URL using transport (the
// default HTTP transport when nil). No request is sent until the first Call.
func NewClient(endpoint string, transport http.RoundTripper) (*Client, error) {
	c, err := xmlrpc.NewClient(endpoint, transport)
	if err != nil {
		return nil, err
	}
	return &Client{url: endpoint, rpc: c}, nil
}

// URL returns the endpoint URL.
func (c *Client) URL() string { return c.url }

// Call invokes method and waits for the response or for ctx to end. When ctx
// ends first the request keeps running in the background and its result is
// dropped.
func (c *Client) Call(ctx context.Context, method string, params ...any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var reply any
	args := params
	if args == nil {
		args = []any{}
	}
	call := c.rpc.Go(method, args, &reply, make(chan *rpc.Call, 1))

	select {
	case <-call.Done:
		if call.Error != nil {
			zap.L().Debug("xmlrpc call failed", zap.String("url", c.url), zap.String("method", method), zap.Error(call.Error))
			return nil, call.Error
		}
		return reply, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close shuts the client down. Closing twice is not an error.
func (c *Client) Close() error {
	if c == nil || c.rpc == nil {
		return nil
	}
	if err := c.rpc.Close(); err != nil && !errors.Is(err, rpc.ErrShutdown) {
		return err
	}
	return nil
}

// HTTPDialer dials real XML-RPC endpoints over HTTP(S).
type HTTPDialer struct {
	Transport http.RoundTripper
}

// NewHTTPDialer returns a dialer whose transport applies dial as the
// connect/TLS timeout and response as the wait for response headers.
func NewHTTPDialer(dial, response time.Duration) *HTTPDialer {
	return &HTTPDialer{Transport: NewTransport(dial, response)}
}

// Dial implements Dialer.
func (d *HTTPDialer) Dial(url string) (Endpoint, error) {
	return NewClient(url, d.Transport)
}

// NewTransport builds the HTTP transport shared by both endpoints.
func NewTransport(dial, response time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dial,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   dial,
		ResponseHeaderTimeout: response,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
	}
}

// JoinURL appends an endpoint path to a server base URL.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

// IsFault reports whether err is a fault returned by the server (as opposed
// to a transport failure) and returns its text.
func IsFault(err error) (string, bool) {
	var se rpc.ServerError
	if errors.As(err, &se) {
		return string(se), true
	}
	var fe xmlrpc.FaultError
	if errors.As(err, &fe) {
		return fe.String, true
	}
	return "", false
}
