// Package config defines the runtime configuration for the SDK: the Odoo
// server location and credentials, rate limiting, retry policy, debug mode
// and transport timeouts. It also provides validation and defaulting helpers.
package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/shamank/odoo-sdk-go/pkg/rpcerr"
)

// Config holds all SDK settings required to reach an Odoo server.
// Use Validate to fill implicit defaults and to check for required fields.
type Config struct {
	// URL is the base URL of the Odoo server, e.g. https://erp.example.com (required).
	URL string `json:"url" yaml:"url"`
	// Database is the Odoo database name (required).
	Database string `json:"database" yaml:"database"`
	// Username is the login of the integration user (required).
	Username string `json:"username" yaml:"username"`
	// APIKey is the user's API key or password (required). Never logged.
	APIKey string `json:"api_key" yaml:"api_key"`
	// Debug enables verbose logging.
	Debug bool `json:"debug" yaml:"debug"`
	// RateLimit controls spacing between outgoing calls.
	RateLimit RateLimit `json:"rate_limit" yaml:"rate_limit"`
	// Retry controls reconnect-and-retry on transient connection faults.
	Retry Retry `json:"retry" yaml:"retry"`
	// Timeouts configures transport deadlines. See Timeouts.WithDefaults for defaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
}

// RateLimit sets the minimum spacing between two RPC calls issued through one
// client. A negative MinInterval disables the gate.
type RateLimit struct {
	MinInterval time.Duration `json:"min_interval" yaml:"min_interval"`
}

// Retry sets how many attempts a call gets and the base of the linear backoff
// between them (attempt n sleeps Delay*n).
type Retry struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
	Delay      time.Duration `json:"delay" yaml:"delay"`
}

// Timeouts controls transport deadlines.
// Zero values will be replaced by sane defaults in WithDefaults.
type Timeouts struct {
	Dial     time.Duration `json:"dial" yaml:"dial"`         // TCP/TLS connect
	Call     time.Duration `json:"call" yaml:"call"`         // waiting for a response
	Mutation time.Duration `json:"mutation" yaml:"mutation"` // hint sent to the server for create/write/unlink
}

const (
	DefaultMinInterval = 100 * time.Millisecond
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 500 * time.Millisecond
)

// Validate trims URL, Database, Username and APIKey, checks that they are set
// and that URL is an absolute http(s) URL, then applies defaults to the
// tunables.
// The returned error is an rpcerr configuration error naming the first
// offending field.
func (c *Config) Validate() error {
	c.URL = strings.TrimSpace(c.URL)
	c.Database = strings.TrimSpace(c.Database)
	c.Username = strings.TrimSpace(c.Username)
	c.APIKey = strings.TrimSpace(c.APIKey)

	if c.URL == "" {
		return rpcerr.Configuration("url", "server URL is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return rpcerr.Configuration("url", "server URL is malformed: "+err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return rpcerr.Configuration("url", "server URL must use the http or https scheme")
	}
	if u.Host == "" {
		return rpcerr.Configuration("url", "server URL has no host")
	}
	if c.Database == "" {
		return rpcerr.Configuration("database", "database name is required")
	}
	if c.Username == "" {
		return rpcerr.Configuration("username", "username is required")
	}
	if c.APIKey == "" {
		return rpcerr.Configuration("api_key", "API key is required")
	}

	c.URL = strings.TrimRight(c.URL, "/")
	c.RateLimit = c.RateLimit.WithDefaults()
	c.Retry = c.Retry.WithDefaults()
	c.Timeouts = c.Timeouts.WithDefaults()
	return nil
}

// WithDefaults returns a copy of r with a zero MinInterval replaced by 100ms
// and a negative one clamped to zero (no gate).
func (r RateLimit) WithDefaults() RateLimit {
	rr := r
	if rr.MinInterval == 0 {
		rr.MinInterval = DefaultMinInterval
	}
	if rr.MinInterval < 0 {
		rr.MinInterval = 0
	}
	return rr
}

// WithDefaults returns a copy of r with zero values replaced by defaults:
//
//	MaxRetries: 3
//	Delay:      500ms
func (r Retry) WithDefaults() Retry {
	rr := r
	if rr.MaxRetries <= 0 {
		rr.MaxRetries = DefaultMaxRetries
	}
	if rr.Delay == 0 {
		rr.Delay = DefaultRetryDelay
	}
	if rr.Delay < 0 {
		rr.Delay = 0
	}
	return rr
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	Dial:     10s
//	Call:     120s
//	Mutation: 300s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.Dial == 0 {
		tt.Dial = 10 * time.Second
	}
	if tt.Call == 0 {
		tt.Call = 120 * time.Second
	}
	if tt.Mutation == 0 {
		tt.Mutation = 300 * time.Second
	}
	return tt
}

// Redacted returns a copy of c safe for logging.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "***"
	}
	return c
}
