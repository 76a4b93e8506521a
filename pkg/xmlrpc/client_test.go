package xmlrpc

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shamank/odoo-sdk-go/internal/testutil/odoofake"
)

func TestClient_CallAndFault(t *testing.T) {
	srv := odoofake.Start("erp", "bot", "secret")
	defer srv.Close()

	d := NewHTTPDialer(time.Second, 5*time.Second)
	common, err := d.Dial(JoinURL(srv.URL+"/", CommonPath))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer common.Close()

	raw, err := common.Call(context.Background(), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	info, ok := raw.(map[string]any)
	if !ok || info["server_version"] != "17.0" {
		t.Fatalf("unexpected version reply %#v", raw)
	}

	uid, err := common.Call(context.Background(), "authenticate", "erp", "bot", "secret", map[string]any{})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if uid != int64(2) {
		t.Fatalf("uid = %#v, want int64(2)", uid)
	}

	object, err := d.Dial(JoinURL(srv.URL, ObjectPath))
	if err != nil {
		t.Fatalf("Dial object: %v", err)
	}
	defer object.Close()
	_, err = object.Call(context.Background(), "execute_kw", "erp", int64(2), "wrong", "res.partner", "search", []any{}, map[string]any{})
	msg, ok := IsFault(err)
	if !ok {
		t.Fatalf("expected a fault, got %v", err)
	}
	if !strings.Contains(msg, "AccessDenied") {
		t.Fatalf("fault text = %q", msg)
	}
}

func TestClient_CallHonoursContext(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:1/xmlrpc/2/common", nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Call(ctx, "version"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestClient_CloseTwice(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:1/xmlrpc/2/common", nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestIsFault_TransportErrorIsNotFault(t *testing.T) {
	if _, ok := IsFault(errors.New("dial tcp: connection refused")); ok {
		t.Fatalf("plain transport error reported as fault")
	}
}

func TestJoinURL(t *testing.T) {
	if got := JoinURL("https://erp.example.com/", CommonPath); got != "https://erp.example.com/xmlrpc/2/common" {
		t.Fatalf("JoinURL = %q", got)
	}
}
