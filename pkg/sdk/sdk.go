package sdk

import (
	"context"

	"github.com/juju/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/shamank/odoo-sdk-go/pkg/client"
	"github.com/shamank/odoo-sdk-go/pkg/config"
	"github.com/shamank/odoo-sdk-go/pkg/manager"
	"github.com/shamank/odoo-sdk-go/pkg/ratelimit"
	"github.com/shamank/odoo-sdk-go/pkg/rpcerr"
	"github.com/shamank/odoo-sdk-go/pkg/xmlrpc"
)

// logLevel is the level of the global logger installed by init. Each NewSDK
// sets it from Config.Debug: debug when set, info otherwise.
var logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

// init configures a default global zap logger for the SDK. Applications may
// replace it with zap.ReplaceGlobals(...) or WithLogger if they need custom
// logging.
func init() {
	c := zap.Config{
		Level:            logLevel,
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

// Option customises NewSDK.
type Option func(*options)

type options struct {
	registerer prometheus.Registerer
	dialer     xmlrpc.Dialer
	clock      clock.Clock
	logger     *zap.Logger
	tracer     trace.Tracer
}

// WithRegisterer enables Prometheus metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithDialer replaces the HTTP dialer, e.g. to add TLS settings or a proxy.
func WithDialer(d xmlrpc.Dialer) Option {
	return func(o *options) { o.dialer = d }
}

// WithClock replaces the clock used for rate limiting and backoff.
func WithClock(clk clock.Clock) Option {
	return func(o *options) { o.clock = clk }
}

// WithLogger installs logger as the global zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTracer sets the tracer for call spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// Core is the SDK entry point. It owns one connection to one Odoo database
// and is safe for concurrent use.
type Core struct {
	*config.Config

	dialer   xmlrpc.Dialer
	limiter  *ratelimit.Limiter
	conn     *client.ConnectionManager
	executor *client.Executor
	fields   *client.FieldsCache

	partners      *manager.PartnerManager
	products      *manager.ProductManager
	invoices      *manager.InvoiceManager
	subscriptions *manager.SubscriptionManager
}

// NewSDK validates cfg and wires the client stack. No request is sent until
// the first call or Connect. An invalid config yields an rpcerr
// configuration error.
func NewSDK(cfg *config.Config, opts ...Option) (*Core, error) {
	if cfg == nil {
		return nil, rpcerr.Configuration("config", "config is required")
	}
	o := options{clock: clock.WallClock}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		zap.ReplaceGlobals(o.logger)
	}

	if err := cfg.Validate(); err != nil {
		zap.L().Error("Invalid config", zap.Error(err))
		return nil, err
	}
	if cfg.Debug {
		logLevel.SetLevel(zap.DebugLevel)
		zap.L().Debug("SDK config", zap.Any("config", cfg.Redacted()))
	} else {
		logLevel.SetLevel(zap.InfoLevel)
	}

	var metrics *client.Metrics
	if o.registerer != nil {
		m, err := client.NewMetrics(o.registerer)
		if err != nil {
			return nil, err
		}
		metrics = m
	}
	if o.dialer == nil {
		o.dialer = xmlrpc.NewHTTPDialer(cfg.Timeouts.Dial, cfg.Timeouts.Call)
	}

	limiter := ratelimit.New(cfg.RateLimit.MinInterval, o.clock)
	conn := client.NewConnectionManager(cfg, o.dialer, o.clock)
	execOpts := []client.ExecutorOption{client.WithClock(o.clock), client.WithMetrics(metrics)}
	if o.tracer != nil {
		execOpts = append(execOpts, client.WithTracer(o.tracer))
	}
	ex := client.NewExecutor(cfg, conn, limiter, execOpts...)

	return &Core{
		Config:        cfg,
		dialer:        o.dialer,
		limiter:       limiter,
		conn:          conn,
		executor:      ex,
		fields:        client.NewFieldsCache(ex, metrics),
		partners:      manager.NewPartnerManager(ex),
		products:      manager.NewProductManager(ex),
		invoices:      manager.NewInvoiceManager(ex),
		subscriptions: manager.NewSubscriptionManager(ex),
	}, nil
}

// Connect authenticates now instead of on the first call.
func (c *Core) Connect(ctx context.Context) (*client.Session, error) {
	return c.conn.Connect(ctx)
}

// Execute runs model.method through the rate limiter and retry policy.
func (c *Core) Execute(ctx context.Context, model, method string, args []any, kwargs map[string]any) (any, error) {
	return c.executor.Execute(ctx, model, method, args, kwargs)
}

// Fields returns the field schema cache.
func (c *Core) Fields() *client.FieldsCache { return c.fields }

// Partners returns the res.partner manager.
func (c *Core) Partners() *manager.PartnerManager { return c.partners }

// Products returns the product.product manager.
func (c *Core) Products() *manager.ProductManager { return c.products }

// Invoices returns the customer invoice manager.
func (c *Core) Invoices() *manager.InvoiceManager { return c.invoices }

// Subscriptions returns the subscription manager.
func (c *Core) Subscriptions() *manager.SubscriptionManager { return c.subscriptions }

// Stats returns connection counters.
func (c *Core) Stats() client.ConnectionStats { return c.conn.Stats() }

// Close drops the session. The Core may still be used afterwards; the next
// call reconnects.
func (c *Core) Close() {
	c.conn.Close()
	_ = zap.L().Sync()
}
