package client

import (
	"context"
	"strings"
	"sync"

	"github.com/juju/clock"
	"go.uber.org/zap"

	"github.com/shamank/odoo-sdk-go/pkg/config"
	"github.com/shamank/odoo-sdk-go/pkg/rpcerr"
	"github.com/shamank/odoo-sdk-go/pkg/xmlrpc"
)

// Connector hands out sessions to the executor. *ConnectionManager is the
// production implementation.
type Connector interface {
	// EnsureSession returns the live session, connecting if there is none.
	// Every returned session must be given back with Release.
	EnsureSession(ctx context.Context) (*Session, error)
	// Release ends one use of s.
	Release(s *Session)
	// Invalidate resets the connection if s is still the live session.
	Invalidate(s *Session)
}

// ConnectionManager owns the single authenticated Session to one Odoo server.
//
// All session mutations happen under mu. The lock is held for the whole
// connect handshake, so concurrent callers that find no session wait for one
// handshake instead of each authenticating. A replaced session stays open
// until its last user releases it.
type ConnectionManager struct {
	cfg    *config.Config
	dialer xmlrpc.Dialer
	clock  clock.Clock

	mu       sync.Mutex
	session  *Session
	connects int
	resets   int
}

// ConnectionStats is a snapshot of the manager's counters.
type ConnectionStats struct {
	Connected bool
	Connects  int
	Resets    int
}

// NewConnectionManager returns a manager for cfg, which must already be
// validated. A nil dialer dials real HTTP endpoints with cfg's timeouts.
func NewConnectionManager(cfg *config.Config, dialer xmlrpc.Dialer, clk clock.Clock) *ConnectionManager {
	if dialer == nil {
		dialer = xmlrpc.NewHTTPDialer(cfg.Timeouts.Dial, cfg.Timeouts.Call)
	}
	if clk == nil {
		clk = clock.WallClock
	}
	return &ConnectionManager{cfg: cfg, dialer: dialer, clock: clk}
}

// Connect opens both endpoints, records the server version and
// authenticates, replacing any existing session. Transport failures are
// connection errors; a falsy authenticate result is an auth error.
func (m *ConnectionManager) Connect(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectLocked(ctx)
}

// EnsureSession implements Connector.
func (m *ConnectionManager) EnsureSession(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		if _, err := m.connectLocked(ctx); err != nil {
			return nil, err
		}
	}
	m.session.refs++
	return m.session, nil
}

// Release implements Connector.
func (m *ConnectionManager) Release(s *Session) {
	if s == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s.refs--
	if s.stale && s.refs <= 0 {
		s.close()
	}
}

// Invalidate implements Connector. A failure observed on an already replaced
// session does not tear down its successor.
func (m *ConnectionManager) Invalidate(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s == nil || s != m.session {
		return
	}
	m.resets++
	m.dropLocked()
}

// Session returns the live session or nil.
func (m *ConnectionManager) Session() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Reset drops the session so the next call reconnects from scratch. Safe to
// call at any time and from any goroutine.
func (m *ConnectionManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
	m.dropLocked()
}

// Close drops the session without counting a reset.
func (m *ConnectionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropLocked()
}

// Stats returns the manager's counters.
func (m *ConnectionManager) Stats() ConnectionStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ConnectionStats{Connected: m.session != nil, Connects: m.connects, Resets: m.resets}
}

func (m *ConnectionManager) connectLocked(ctx context.Context) (*Session, error) {
	m.dropLocked()

	common, err := m.dialer.Dial(xmlrpc.JoinURL(m.cfg.URL, xmlrpc.CommonPath))
	if err != nil {
		return nil, rpcerr.Connection("dial", err)
	}
	defer func() {
		if err := common.Close(); err != nil {
			zap.L().Debug("close common endpoint", zap.Error(err))
		}
	}()
	object, err := m.dialer.Dial(xmlrpc.JoinURL(m.cfg.URL, xmlrpc.ObjectPath))
	if err != nil {
		return nil, rpcerr.Connection("dial", err)
	}
	fail := func(err error) (*Session, error) {
		_ = object.Close()
		return nil, err
	}

	raw, err := common.Call(ctx, "version")
	if err != nil {
		return fail(rpcerr.Connection("version", err))
	}
	version := ParseVersion(raw)
	if warn := version.Compatible(); warn != "" {
		zap.L().Warn("unexpected Odoo server version", zap.String("version", version.String()), zap.String("reason", warn))
	} else {
		zap.L().Debug("Odoo server version", zap.String("version", version.String()))
	}

	res, err := common.Call(ctx, "authenticate", m.cfg.Database, m.cfg.Username, m.cfg.APIKey, map[string]any{})
	if err != nil {
		if fault, ok := xmlrpc.IsFault(err); ok && strings.Contains(strings.ToLower(fault), "accessdenied") {
			return fail(rpcerr.Auth(m.cfg.Database, m.cfg.Username))
		}
		return fail(rpcerr.Connection("authenticate", err))
	}
	uid, ok := sessionHandle(res)
	if !ok {
		zap.L().Error("Odoo authentication rejected", zap.String("database", m.cfg.Database), zap.String("username", m.cfg.Username))
		return fail(rpcerr.Auth(m.cfg.Database, m.cfg.Username))
	}

	m.session = &Session{
		UID:       uid,
		Version:   version,
		CreatedAt: m.clock.Now(),
		object:    object,
	}
	m.connects++
	zap.L().Info("connected to Odoo",
		zap.String("url", m.cfg.URL),
		zap.String("database", m.cfg.Database),
		zap.Int64("uid", uid),
		zap.String("version", version.String()))
	return m.session, nil
}

// dropLocked detaches the live session. Its endpoint closes now if nobody
// is using it, otherwise on the last Release.
func (m *ConnectionManager) dropLocked() {
	s := m.session
	m.session = nil
	if s == nil {
		return
	}
	s.stale = true
	if s.refs <= 0 {
		s.close()
	}
}
