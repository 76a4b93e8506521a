// Package client is the core of the SDK: it owns the authenticated session
// to an Odoo server and runs every model call through it.
//
// # Components
//
//   - ConnectionManager dials the common and object endpoints, checks the
//     server version and authenticates. It keeps at most one live Session.
//   - Executor runs execute_kw. Each attempt waits on the rate gate,
//     obtains the session (connecting lazily) and dispatches the call.
//   - FieldsCache memoises fields_get per model.
//
// # Retries
//
// A failure whose text or type marks it as a dropped or refused connection
// is transient: the session is invalidated, the executor sleeps
// Retry.Delay*attempt and tries again up to Retry.MaxRetries attempts.
// Everything else, remote faults included, fails after one attempt. An
// auth failure is returned as it is and never retried.
//
// Retried calls are not deduplicated. A create that reached the server
// before its connection dropped may be applied twice.
//
// # Keyword arguments
//
// Calls without kwargs["context"] receive a copy of DefaultContext, and
// create/write/unlink/copy receive kwargs["timeout"] in whole seconds from
// Timeouts.Mutation. Caller maps are never modified.
//
// # Observability
//
// Every Execute logs through zap.L() with a call id, opens an OpenTelemetry
// span "odoo.execute_kw" and, when WithMetrics is given, updates the
// odoo_rpc_* Prometheus collectors.
package client
