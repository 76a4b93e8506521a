// Package sdk provides the high-level entry point for talking to an Odoo
// server over XML-RPC.
//
// The SDK hides the connection handshake, rate limiting and reconnects
// behind one Core value and exposes typed managers for the records most
// integrations touch: partners, products, customer invoices and
// subscriptions.
//
// # Quick Start
//
//	import (
//		"github.com/shamank/odoo-sdk-go/pkg/config"
//		"github.com/shamank/odoo-sdk-go/pkg/sdk"
//	)
//
//	func main() {
//		cfg := &config.Config{
//			URL:      "https://erp.example.com",
//			Database: "production",
//			Username: "integration@example.com",
//			APIKey:   os.Getenv("ODOO_API_KEY"),
//		}
//
//		core, err := sdk.NewSDK(cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer core.Close()
//
//		p, err := core.Partners().FindByEmail(ctx, "ada@example.com")
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(p.Name)
//	}
//
// # Architecture
//
// NewSDK wires, in order:
//
//   - ratelimit.Limiter: spaces calls at least RateLimit.MinInterval apart
//   - client.ConnectionManager: dials /xmlrpc/2/common and /xmlrpc/2/object,
//     checks version() and authenticates, lazily on the first call
//   - client.Executor: runs execute_kw with reconnect-and-retry on
//     transient connection faults
//   - client.FieldsCache: memoised fields_get per model
//   - manager.*: typed operations built on the executor
//
// Execute is available for any model method the managers do not cover:
//
//	n, err := core.Execute(ctx, "crm.lead", "search_count",
//		[]any{model.Where("stage_id.is_won", "=", true).List()}, nil)
//
// # Errors
//
// Every failure is an *rpcerr.Error whose Kind tells configuration,
// connection, auth, execution and data problems apart:
//
//	if rpcerr.IsKind(err, rpcerr.KindAuth) {
//		// rotate the API key
//	}
//
// # Logging
//
// The package installs a console zap logger at info level in init. Set
// Config.Debug for debug output, or pass WithLogger to install your own.
//
// # Metrics
//
// Pass WithRegisterer to export odoo_rpc_* Prometheus metrics: calls by
// outcome, retries, reconnects, call durations and fields cache lookups.
//
// # Healthcheck
//
// Healthcheck calls version() on a fresh endpoint without authenticating
// and reports whether a session is currently live.
package sdk
