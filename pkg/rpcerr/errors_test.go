package rpcerr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestErrorMessageCarriesContext(t *testing.T) {
	err := Execution("res.partner", "write", 1, errors.New("Invalid field name 'foo'"))
	msg := err.Error()
	for _, want := range []string{"execution", "res.partner.write", "Invalid field name 'foo'"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
	if strings.Count(msg, "Invalid field name") != 1 {
		t.Fatalf("original message duplicated: %q", msg)
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	base := Auth("prod", "bot@example.com")
	wrapped := fmt.Errorf("sync partners: %w", base)

	if !IsKind(wrapped, KindAuth) {
		t.Fatalf("expected auth kind, got %q", KindOf(wrapped))
	}
	if IsKind(wrapped, KindConnection) {
		t.Fatal("auth error must not report connection kind")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatal("plain errors have no kind")
	}
	if IsKind(nil, KindAuth) {
		t.Fatal("nil is never a kind")
	}
}

func TestUnwrapReachesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Connection("version", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to reach the transport cause")
	}
	if !strings.Contains(err.Error(), "[version]") {
		t.Fatalf("expected op in message: %q", err.Error())
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"configuration", Configuration("url", "missing"), http.StatusInternalServerError},
		{"connection", Connection("dial", errors.New("timeout")), http.StatusServiceUnavailable},
		{"auth", Auth("db", "u"), http.StatusBadGateway},
		{"execution server fault", Execution("account.move", "action_post", 1, errors.New("psycopg2.OperationalError")), http.StatusBadGateway},
		{"execution validation fault", Execution("res.partner", "create", 1, errors.New("odoo.exceptions.ValidationError: bad vat")), http.StatusBadRequest},
		{"data", Data("account.move", "invoice 7 not found"), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Fatalf("HTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}
