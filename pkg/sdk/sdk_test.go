package sdk

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/shamank/odoo-sdk-go/internal/testutil/odoofake"
	"github.com/shamank/odoo-sdk-go/pkg/config"
	"github.com/shamank/odoo-sdk-go/pkg/manager"
	"github.com/shamank/odoo-sdk-go/pkg/model"
	"github.com/shamank/odoo-sdk-go/pkg/rpcerr"
)

func newCore(t *testing.T, srv *odoofake.Server, opts ...Option) *Core {
	t.Helper()
	cfg := &config.Config{
		URL:       srv.URL,
		Database:  srv.Database,
		Username:  srv.Username,
		APIKey:    srv.APIKey,
		RateLimit: config.RateLimit{MinInterval: -1},
		Retry:     config.Retry{MaxRetries: 3, Delay: time.Millisecond},
	}
	core, err := NewSDK(cfg, opts...)
	if err != nil {
		t.Fatalf("NewSDK: %v", err)
	}
	t.Cleanup(core.Close)
	return core
}

func TestNewSDK_InvalidConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantField string
	}{
		{name: "nil", cfg: nil, wantField: "config"},
		{name: "missing url", cfg: &config.Config{Database: "db", Username: "u", APIKey: "k"}, wantField: "url"},
		{name: "missing key", cfg: &config.Config{URL: "https://erp.example.com", Database: "db", Username: "u"}, wantField: "api_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSDK(tt.cfg)
			e, ok := err.(*rpcerr.Error)
			if !ok || e.Kind != rpcerr.KindConfiguration {
				t.Fatalf("expected configuration error, got %v", err)
			}
			if e.Field != tt.wantField {
				t.Fatalf("Field = %q, want %q", e.Field, tt.wantField)
			}
		})
	}
}

func TestCore_LazyConnectAndManagers(t *testing.T) {
	srv := odoofake.Start("erp", "bot", "secret")
	defer srv.Close()
	srv.Handle("res.partner", "search_read", func(args []any, kwargs map[string]any) (any, error) {
		return []any{map[string]any{"id": int64(1), "name": "Ada", "email": "ada@example.com", "active": true}}, nil
	})
	srv.Handle("res.partner", "fields_get", func(args []any, kwargs map[string]any) (any, error) {
		return map[string]any{"name": map[string]any{"string": "Name", "type": "char"}}, nil
	})

	core := newCore(t, srv)
	if srv.Count("authenticate") != 0 {
		t.Fatalf("NewSDK must not connect")
	}

	partners, err := core.Partners().Search(context.Background(), model.Where("active", "=", true), manager.Query{Limit: 5})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(partners) != 1 || partners[0].Email != "ada@example.com" {
		t.Fatalf("unexpected partners %+v", partners)
	}
	if srv.Count("authenticate") != 1 {
		t.Fatalf("first call should authenticate once, got %d", srv.Count("authenticate"))
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := core.Fields().Fields(ctx, "res.partner", false); err != nil {
			t.Fatalf("Fields: %v", err)
		}
	}
	if n := srv.Count("res.partner.fields_get"); n != 1 {
		t.Fatalf("fields_get calls = %d, want 1", n)
	}
}

func TestCore_Healthcheck(t *testing.T) {
	srv := odoofake.Start("erp", "bot", "secret")
	defer srv.Close()
	core := newCore(t, srv)
	ctx := context.Background()

	h, err := core.Healthcheck(ctx)
	if err != nil {
		t.Fatalf("Healthcheck: %v", err)
	}
	if h.Connected || h.Version.Major != 17 {
		t.Fatalf("unexpected health before connect %+v", h)
	}
	if srv.Count("authenticate") != 0 {
		t.Fatalf("Healthcheck must not authenticate")
	}

	if _, err := core.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	h, err = core.Healthcheck(ctx)
	if err != nil {
		t.Fatalf("Healthcheck: %v", err)
	}
	if !h.Connected || h.UID != srv.UID {
		t.Fatalf("unexpected health after connect %+v", h)
	}
}

func TestCore_HealthcheckUnreachable(t *testing.T) {
	srv := odoofake.Start("erp", "bot", "secret")
	core := newCore(t, srv)
	srv.Close()

	if _, err := core.Healthcheck(context.Background()); !rpcerr.IsKind(err, rpcerr.KindConnection) {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestCore_WithRegisterer(t *testing.T) {
	srv := odoofake.Start("erp", "bot", "secret")
	defer srv.Close()
	srv.Handle("product.product", "search_count", func([]any, map[string]any) (any, error) { return int64(3), nil })

	reg := prometheus.NewRegistry()
	core := newCore(t, srv, WithRegisterer(reg))

	got, err := core.Execute(context.Background(), "product.product", "search_count", []any{[]any{}}, nil)
	if err != nil || got != int64(3) {
		t.Fatalf("Execute = %v, %v", got, err)
	}
	n, err := testutil.GatherAndCount(reg, "odoo_rpc_calls_total")
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one calls_total series, got %d", n)
	}
	if st := core.Stats(); st.Connects != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestNewSDK_DebugLevelFollowsConfig(t *testing.T) {
	cfg := func(debug bool) *config.Config {
		return &config.Config{URL: "https://erp.example.com", Database: "db", Username: "u", APIKey: "k", Debug: debug}
	}
	t.Cleanup(func() { logLevel.SetLevel(zap.InfoLevel) })

	debugCore, err := NewSDK(cfg(true))
	if err != nil {
		t.Fatalf("NewSDK: %v", err)
	}
	defer debugCore.Close()
	if got := logLevel.Level(); got != zap.DebugLevel {
		t.Fatalf("level = %v, want debug", got)
	}

	quietCore, err := NewSDK(cfg(false))
	if err != nil {
		t.Fatalf("NewSDK: %v", err)
	}
	defer quietCore.Close()
	if got := logLevel.Level(); got != zap.InfoLevel {
		t.Fatalf("level = %v, want info after a non-debug config", got)
	}
}
