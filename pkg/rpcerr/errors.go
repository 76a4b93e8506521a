// Package rpcerr defines the error taxonomy shared by the SDK: every failure
// surfaced by the client core or by the domain managers is an *Error carrying
// a machine-readable Kind and a human-readable message.
package rpcerr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// KindConfiguration indicates invalid or missing configuration. Fatal at
	// construction, never retried.
	KindConfiguration Kind = "configuration"
	// KindConnection indicates a transport-level failure while opening
	// endpoints or calling version/authenticate.
	KindConnection Kind = "connection"
	// KindAuth indicates that authenticate returned no usable session handle.
	KindAuth Kind = "auth"
	// KindExecution indicates a failed execute_kw dispatch.
	KindExecution Kind = "execution"
	// KindData indicates a successful call whose result could not be
	// interpreted (e.g. an expected record is missing).
	KindData Kind = "data"
)

// Error wraps an underlying failure with its kind and call context.
type Error struct {
	Kind Kind
	// Model and Method identify the RPC for execution and data errors.
	Model  string
	Method string
	// Field names the offending config field for configuration errors.
	Field string
	// Op names the connection step for connection errors ("dial", "version", "authenticate").
	Op       string
	Message  string
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(" error")
	switch {
	case e.Model != "" && e.Method != "":
		fmt.Fprintf(&b, " [%s.%s]", e.Model, e.Method)
	case e.Model != "":
		fmt.Fprintf(&b, " [%s]", e.Model)
	case e.Field != "":
		fmt.Fprintf(&b, " [%s]", e.Field)
	case e.Op != "":
		fmt.Fprintf(&b, " [%s]", e.Op)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil && (e.Message == "" || !strings.Contains(e.Message, e.Err.Error())) {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Configuration reports an invalid config field.
func Configuration(field, msg string) *Error {
	return &Error{Kind: KindConfiguration, Field: field, Message: msg}
}

// Connection reports a transport failure during the given connection step.
func Connection(op string, err error) *Error {
	return &Error{Kind: KindConnection, Op: op, Err: err}
}

// Auth reports that the remote refused the credentials.
func Auth(database, username string) *Error {
	return &Error{
		Kind:    KindAuth,
		Op:      "authenticate",
		Message: fmt.Sprintf("no session returned for user %q on database %q", username, database),
	}
}

// Execution reports a failed dispatch of model.method after the given number
// of attempts. The original failure message is kept verbatim.
func Execution(model, method string, attempts int, err error) *Error {
	e := &Error{Kind: KindExecution, Model: model, Method: method, Attempts: attempts, Err: err}
	if err != nil {
		e.Message = err.Error()
	}
	return e
}

// Data reports a result that could not be interpreted for the given model.
func Data(model, msg string) *Error {
	return &Error{Kind: KindData, Model: model, Message: msg}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// userFaultMarkers are substrings of remote faults raised for invalid input
// rather than server trouble.
var userFaultMarkers = []string{
	"validationerror",
	"usererror",
	"invalid field",
	"accesserror",
	"missingerror",
}

// HTTPStatus maps err to the status code an HTTP layer should answer with.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindConnection:
		return http.StatusServiceUnavailable
	case KindAuth:
		return http.StatusBadGateway
	case KindExecution:
		msg := strings.ToLower(e.Message)
		for _, m := range userFaultMarkers {
			if strings.Contains(msg, m) {
				return http.StatusBadRequest
			}
		}
		return http.StatusBadGateway
	case KindData:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
