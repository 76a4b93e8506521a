// Package manager implements the business operations the SDK exposes on top
// of the raw executor: partners (res.partner), products (product.product),
// customer invoices (account.move) and subscriptions (sale.order with a
// recurring plan).
//
// Managers only build arguments and decode replies into pkg/model types.
// Rate limiting, reconnects and retries belong to the executor they are
// given. Since a retried create may run twice on the server, multi-call
// flows such as InvoiceManager.CreateAndPost report which step failed and
// the id of anything already created so callers can reconcile.
//
// A read that finds no record returns an rpcerr data error.
package manager
