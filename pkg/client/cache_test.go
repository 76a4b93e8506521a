package client

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/shamank/odoo-sdk-go/pkg/rpcerr"
)

// callerFunc adapts a function to Caller.
type callerFunc func(ctx context.Context, model, method string, args []any, kwargs map[string]any) (any, error)

func (f callerFunc) Execute(ctx context.Context, model, method string, args []any, kwargs map[string]any) (any, error) {
	return f(ctx, model, method, args, kwargs)
}

func fieldsReply() map[string]any {
	return map[string]any{
		"name":  map[string]any{"string": "Name", "type": "char", "required": true},
		"email": map[string]any{"string": "Email", "type": "char"},
	}
}

func TestFieldsCache(t *testing.T) {
	var mu sync.Mutex
	fetches := 0
	var lastKwargs map[string]any
	caller := callerFunc(func(_ context.Context, model, method string, _ []any, kwargs map[string]any) (any, error) {
		mu.Lock()
		defer mu.Unlock()
		if method != "fields_get" {
			t.Errorf("unexpected method %s", method)
		}
		fetches++
		lastKwargs = kwargs
		return fieldsReply(), nil
	})
	m, err := NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	c := NewFieldsCache(caller, m)
	ctx := context.Background()

	f, err := c.Fields(ctx, "res.partner", false)
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if !f["name"].Required || f["email"].Type != "char" {
		t.Fatalf("unexpected fields %v", f)
	}
	if !reflect.DeepEqual(lastKwargs["attributes"], FieldAttributes) {
		t.Fatalf("attributes = %v", lastKwargs["attributes"])
	}

	if _, err := c.Fields(ctx, "res.partner", false); err != nil {
		t.Fatalf("Fields (cached): %v", err)
	}
	if fetches != 1 {
		t.Fatalf("second lookup should be served from cache, fetches=%d", fetches)
	}

	if _, err := c.Fields(ctx, "res.partner", true); err != nil {
		t.Fatalf("Fields (refresh): %v", err)
	}
	if fetches != 2 {
		t.Fatalf("force refresh should refetch, fetches=%d", fetches)
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}

	c.Invalidate("res.partner")
	if c.Len() != 0 {
		t.Fatalf("Invalidate should drop the entry")
	}

	if got := testutil.ToFloat64(m.cacheLookup.WithLabelValues("hit")); got != 1 {
		t.Fatalf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.cacheLookup.WithLabelValues("miss")); got != 2 {
		t.Fatalf("misses = %v, want 2", got)
	}
}

func TestFieldsCache_ErrorsAreNotCached(t *testing.T) {
	calls := 0
	caller := callerFunc(func(context.Context, string, string, []any, map[string]any) (any, error) {
		calls++
		if calls == 1 {
			return nil, rpcerr.Execution("x.model", "fields_get", 1, errors.New("boom"))
		}
		return "not a map", nil
	})
	c := NewFieldsCache(caller, nil)

	if _, err := c.Fields(context.Background(), "x.model", false); !rpcerr.IsKind(err, rpcerr.KindExecution) {
		t.Fatalf("expected execution error, got %v", err)
	}
	if _, err := c.Fields(context.Background(), "x.model", false); !rpcerr.IsKind(err, rpcerr.KindData) {
		t.Fatalf("expected data error for malformed reply, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("failed lookups must not be cached")
	}
}

func TestFieldsCache_ResultIsCallerOwned(t *testing.T) {
	caller := callerFunc(func(context.Context, string, string, []any, map[string]any) (any, error) {
		return fieldsReply(), nil
	})
	c := NewFieldsCache(caller, nil)
	ctx := context.Background()

	first, err := c.Fields(ctx, "res.partner", false)
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	delete(first, "name")

	second, err := c.Fields(ctx, "res.partner", false)
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("cached schema changed through a returned map: %v", second)
	}
	delete(second, "email")
	if third, _ := c.Fields(ctx, "res.partner", false); len(third) != 2 {
		t.Fatalf("cache hit shares its map with the caller: %v", third)
	}
}
