package sdk

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shamank/odoo-sdk-go/pkg/client"
	"github.com/shamank/odoo-sdk-go/pkg/rpcerr"
	"github.com/shamank/odoo-sdk-go/pkg/xmlrpc"
)

// Health is the result of a Healthcheck.
type Health struct {
	// Version is what the server reported.
	Version client.ServerVersion `json:"version"`
	// Connected reports whether an authenticated session is live.
	Connected bool `json:"connected"`
	// UID of the live session, zero when not connected.
	UID int64 `json:"uid,omitempty"`
	// Latency of the version() round trip.
	Latency time.Duration `json:"latency"`
}

// Healthcheck calls version() on a fresh common endpoint, bypassing the
// session, and reports whether a session is live. It does not authenticate.
func (c *Core) Healthcheck(ctx context.Context) (Health, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Health{}, err
	}
	common, err := c.dialer.Dial(xmlrpc.JoinURL(c.URL, xmlrpc.CommonPath))
	if err != nil {
		return Health{}, rpcerr.Connection("dial", err)
	}
	defer func() {
		if err := common.Close(); err != nil {
			zap.L().Debug("close healthcheck endpoint", zap.Error(err))
		}
	}()

	start := time.Now()
	raw, err := common.Call(ctx, "version")
	if err != nil {
		zap.L().Warn("Odoo healthcheck failed", zap.String("url", c.URL), zap.Error(err))
		return Health{}, rpcerr.Connection("version", err)
	}
	h := Health{
		Version: client.ParseVersion(raw),
		Latency: time.Since(start),
	}
	if s := c.conn.Session(); s != nil {
		h.Connected = true
		h.UID = s.UID
	}
	if c.Debug {
		zap.L().Debug("Odoo healthcheck",
			zap.String("version", h.Version.String()),
			zap.Bool("connected", h.Connected),
			zap.Duration("latency", h.Latency))
	}
	return h, nil
}
