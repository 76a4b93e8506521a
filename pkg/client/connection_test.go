package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shamank/odoo-sdk-go/internal/testutil/odoofake"
	"github.com/shamank/odoo-sdk-go/pkg/config"
	"github.com/shamank/odoo-sdk-go/pkg/ratelimit"
	"github.com/shamank/odoo-sdk-go/pkg/rpcerr"
)

func fakeConfig(t *testing.T, srv *odoofake.Server) *config.Config {
	t.Helper()
	cfg := &config.Config{
		URL:       srv.URL,
		Database:  srv.Database,
		Username:  srv.Username,
		APIKey:    srv.APIKey,
		RateLimit: config.RateLimit{MinInterval: -1},
		Retry:     config.Retry{MaxRetries: 3, Delay: time.Millisecond},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return cfg
}

func TestConnectionManager_Connect(t *testing.T) {
	srv := odoofake.Start("erp", "bot@example.com", "secret")
	defer srv.Close()

	m := NewConnectionManager(fakeConfig(t, srv), nil, nil)
	defer m.Close()

	s, err := m.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if s.UID != srv.UID {
		t.Fatalf("UID = %d, want %d", s.UID, srv.UID)
	}
	if s.Version.Major != 17 || s.Version.Compatible() != "" {
		t.Fatalf("unexpected version %+v", s.Version)
	}
	if m.Session() != s {
		t.Fatalf("Session() should return the live session")
	}
	if got := srv.Count("version"); got != 1 {
		t.Fatalf("version calls = %d, want 1", got)
	}

	calls := srv.Calls()
	auth := calls[len(calls)-1]
	if auth.Method != "authenticate" || len(auth.Params) != 4 {
		t.Fatalf("unexpected authenticate call %+v", auth)
	}
	if _, ok := auth.Params[3].(map[string]any); !ok {
		t.Fatalf("authenticate should receive an empty user agent env, got %T", auth.Params[3])
	}
}

func TestConnectionManager_RejectedAuth(t *testing.T) {
	srv := odoofake.Start("erp", "bot@example.com", "secret")
	defer srv.Close()
	srv.RejectAuth(true)

	cfg := fakeConfig(t, srv)
	m := NewConnectionManager(cfg, nil, nil)
	defer m.Close()
	e := NewExecutor(cfg, m, ratelimit.New(0, nil))

	_, err := e.Execute(context.Background(), "res.partner", "search", []any{[]any{}}, nil)
	var ee *rpcerr.Error
	if !errors.As(err, &ee) || ee.Kind != rpcerr.KindAuth {
		t.Fatalf("expected auth error, got %v", err)
	}
	if ee.Field != "" || ee.Op != "authenticate" {
		t.Fatalf("unexpected auth error fields %+v", ee)
	}
	if got := srv.Count("authenticate"); got != 1 {
		t.Fatalf("authenticate calls = %d, want 1 (no retry)", got)
	}
	if st := m.Stats(); st.Resets != 0 || st.Connected {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestConnectionManager_WrongKeyIsAuthError(t *testing.T) {
	srv := odoofake.Start("erp", "bot@example.com", "secret")
	defer srv.Close()

	cfg := fakeConfig(t, srv)
	cfg.APIKey = "wrong"
	m := NewConnectionManager(cfg, nil, nil)

	if _, err := m.Connect(context.Background()); !rpcerr.IsKind(err, rpcerr.KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestConnectionManager_UnreachableIsConnectionError(t *testing.T) {
	srv := odoofake.Start("erp", "bot@example.com", "secret")
	cfg := fakeConfig(t, srv)
	srv.Close()

	m := NewConnectionManager(cfg, nil, nil)
	_, err := m.Connect(context.Background())
	var ee *rpcerr.Error
	if !errors.As(err, &ee) || ee.Kind != rpcerr.KindConnection || ee.Op != "version" {
		t.Fatalf("expected connection error from version, got %v", err)
	}
	if !IsTransient(err) {
		t.Fatalf("refused connection should classify as transient: %v", err)
	}
}

func TestConnectionManager_ResetAndInvalidate(t *testing.T) {
	srv := odoofake.Start("erp", "bot@example.com", "secret")
	defer srv.Close()
	m := NewConnectionManager(fakeConfig(t, srv), nil, nil)
	ctx := context.Background()

	first, err := m.EnsureSession(ctx)
	if err != nil {
		t.Fatalf("EnsureSession: %v", err)
	}
	m.Release(first)

	m.Reset()
	if m.Session() != nil {
		t.Fatalf("Reset should drop the session")
	}

	second, err := m.EnsureSession(ctx)
	if err != nil {
		t.Fatalf("EnsureSession after reset: %v", err)
	}
	defer m.Release(second)
	if second == first {
		t.Fatalf("expected a new session after reset")
	}

	// A late failure on the replaced session leaves the new one alone.
	m.Invalidate(first)
	if m.Session() != second {
		t.Fatalf("stale invalidate dropped the live session")
	}

	st := m.Stats()
	if st.Connects != 2 || st.Resets != 1 || !st.Connected {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestConnectionManager_ConcurrentEnsureAuthenticatesOnce(t *testing.T) {
	srv := odoofake.Start("erp", "bot@example.com", "secret")
	defer srv.Close()
	m := NewConnectionManager(fakeConfig(t, srv), nil, nil)
	defer m.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := m.EnsureSession(context.Background())
			if err != nil {
				t.Errorf("EnsureSession: %v", err)
				return
			}
			m.Release(s)
		}()
	}
	wg.Wait()

	if got := srv.Count("authenticate"); got != 1 {
		t.Fatalf("authenticate calls = %d, want 1", got)
	}
}

func TestExecutor_ReconnectsAfterDroppedConnection(t *testing.T) {
	srv := odoofake.Start("erp", "bot@example.com", "secret")
	defer srv.Close()
	srv.Handle("res.partner", "search_count", func(args []any, kwargs map[string]any) (any, error) {
		return int64(42), nil
	})

	cfg := fakeConfig(t, srv)
	m := NewConnectionManager(cfg, nil, nil)
	defer m.Close()
	e := NewExecutor(cfg, m, ratelimit.New(0, nil))
	ctx := context.Background()

	if _, err := m.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	// The first execute_kw and the version call of the reconnect are cut.
	srv.DropConnections(2)

	got, err := e.Execute(ctx, "res.partner", "search_count", []any{[]any{}}, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != int64(42) {
		t.Fatalf("result = %v, want 42", got)
	}
	if st := m.Stats(); st.Resets != 1 || st.Connects != 2 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if n := srv.Count("res.partner.search_count"); n != 1 {
		t.Fatalf("server saw %d answered search_count calls, want 1", n)
	}
}

func TestExecutor_RemoteFaultIsExecutionError(t *testing.T) {
	srv := odoofake.Start("erp", "bot@example.com", "secret")
	defer srv.Close()
	srv.Handle("res.partner", "read", func(args []any, kwargs map[string]any) (any, error) {
		return nil, &odoofake.Fault{Code: 2, Message: "ValueError: Invalid field name 'nickname'"}
	})

	cfg := fakeConfig(t, srv)
	m := NewConnectionManager(cfg, nil, nil)
	defer m.Close()
	e := NewExecutor(cfg, m, ratelimit.New(0, nil))

	_, err := e.Execute(context.Background(), "res.partner", "read", []any{[]any{int64(1)}}, nil)
	var ee *rpcerr.Error
	if !errors.As(err, &ee) || ee.Kind != rpcerr.KindExecution || ee.Attempts != 1 {
		t.Fatalf("expected single-attempt execution error, got %v", err)
	}
	if got := rpcerr.HTTPStatus(err); got != 400 {
		t.Fatalf("HTTPStatus = %d, want 400 for a validation fault", got)
	}
	if srv.Count("res.partner.read") != 1 {
		t.Fatalf("fault should not be retried")
	}
}
