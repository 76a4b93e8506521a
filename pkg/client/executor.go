package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/shamank/odoo-sdk-go/pkg/config"
	"github.com/shamank/odoo-sdk-go/pkg/rpcerr"
)

// Caller is the operation domain code depends on. *Executor implements it.
type Caller interface {
	Execute(ctx context.Context, model, method string, args []any, kwargs map[string]any) (any, error)
}

// Gate is the rate limiter consulted before every attempt.
type Gate interface {
	Wait(ctx context.Context) error
}

// Executor runs execute_kw calls with rate limiting, lazy connection and
// reconnect-and-retry on transient connection faults.
//
// Mutating calls are retried like any other: a create that reached the
// server before the connection dropped may be applied twice.
type Executor struct {
	cfg     *config.Config
	conn    Connector
	gate    Gate
	clock   clock.Clock
	metrics *Metrics
	tracer  trace.Tracer
}

// ExecutorOption customises an Executor.
type ExecutorOption func(*Executor)

// WithMetrics records call metrics.
func WithMetrics(m *Metrics) ExecutorOption {
	return func(e *Executor) { e.metrics = m }
}

// WithClock replaces the clock used for backoff sleeps.
func WithClock(clk clock.Clock) ExecutorOption {
	return func(e *Executor) { e.clock = clk }
}

// WithTracer replaces the tracer; the global otel provider is used otherwise.
func WithTracer(t trace.Tracer) ExecutorOption {
	return func(e *Executor) { e.tracer = t }
}

// NewExecutor returns an executor over conn and gate. cfg must already be
// validated.
func NewExecutor(cfg *config.Config, conn Connector, gate Gate, opts ...ExecutorOption) *Executor {
	e := &Executor{
		cfg:   cfg,
		conn:  conn,
		gate:  gate,
		clock: clock.WallClock,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer("github.com/shamank/odoo-sdk-go/pkg/client")
	}
	return e
}

// Execute calls model.method with positional args and keyword kwargs and
// returns the decoded result.
//
// Each attempt waits on the rate gate, makes sure a session exists and
// dispatches execute_kw. A transient connection fault drops the session and,
// while attempts remain, sleeps Retry.Delay*attempt before the next one.
// Any other failure stops immediately. Auth errors and connection errors
// from the handshake are returned as they are; dispatch failures are
// wrapped in an execution error naming model and method.
func (e *Executor) Execute(ctx context.Context, model, method string, args []any, kwargs map[string]any) (any, error) {
	callID := uuid.NewString()
	ctx, span := e.tracer.Start(ctx, "odoo.execute_kw", trace.WithAttributes(
		attribute.String("odoo.model", model),
		attribute.String("odoo.method", method),
		attribute.String("odoo.call_id", callID),
	))
	defer span.End()

	log := zap.L().With(zap.String("call_id", callID), zap.String("model", model), zap.String("method", method))
	start := e.clock.Now()
	finish := func(result any, err error) (any, error) {
		outcome := "ok"
		if err != nil {
			outcome = string(rpcerr.KindOf(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		e.metrics.observeCall(model, method, outcome, e.clock.Now().Sub(start))
		return result, err
	}

	if args == nil {
		args = []any{}
	}
	kw := prepareKwargs(method, kwargs, e.cfg.Timeouts.Mutation)
	maxAttempts := e.cfg.Retry.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		span.SetAttributes(attribute.Int("odoo.attempt", attempt))

		if err := e.gate.Wait(ctx); err != nil {
			return finish(nil, rpcerr.Execution(model, method, attempt, err))
		}

		result, err := e.attempt(ctx, model, method, args, kw)
		if err == nil {
			if attempt > 1 {
				log.Info("odoo call succeeded after retry", zap.Int("attempt", attempt))
			}
			return finish(result, nil)
		}
		lastErr = err

		if rpcerr.IsKind(err, rpcerr.KindAuth) {
			log.Error("odoo authentication failed", zap.Int("attempt", attempt), zap.Error(err))
			return finish(nil, err)
		}
		if ctx.Err() != nil || !IsTransient(err) {
			log.Error("odoo call failed", zap.Int("attempt", attempt), zap.Bool("transient", false), zap.Error(err))
			return finish(nil, e.wrap(model, method, attempt, err))
		}

		log.Warn("odoo call hit a connection fault",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Bool("transient", true),
			zap.Error(err))

		if attempt == maxAttempts {
			break
		}
		e.metrics.observeRetry(model, method)
		delay := e.cfg.Retry.Delay * time.Duration(attempt)
		if err := e.sleep(ctx, delay); err != nil {
			return finish(nil, rpcerr.Execution(model, method, attempt, err))
		}
	}

	log.Error("odoo call gave up", zap.Int("attempts", maxAttempts), zap.Error(lastErr))
	return finish(nil, e.exhausted(model, method, maxAttempts, lastErr))
}

// attempt runs one dispatch. A transient failure invalidates the session it
// was made on.
func (e *Executor) attempt(ctx context.Context, model, method string, args []any, kwargs map[string]any) (any, error) {
	sess, err := e.conn.EnsureSession(ctx)
	if err != nil {
		return nil, err
	}
	defer e.conn.Release(sess)

	result, err := sess.object.Call(ctx, "execute_kw",
		e.cfg.Database, sess.UID, e.cfg.APIKey, model, method, args, kwargs)
	if err != nil && ctx.Err() == nil && IsTransient(err) {
		e.conn.Invalidate(sess)
		e.metrics.observeReconnect()
	}
	return result, err
}

func (e *Executor) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-e.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// wrap turns a non-retried failure into the error returned to the caller.
// Handshake errors keep their own kind.
func (e *Executor) wrap(model, method string, attempts int, err error) error {
	if rpcerr.IsKind(err, rpcerr.KindConnection) {
		return err
	}
	return rpcerr.Execution(model, method, attempts, err)
}

// exhausted builds the error returned when every attempt hit a transient fault.
func (e *Executor) exhausted(model, method string, attempts int, last error) error {
	if rpcerr.IsKind(last, rpcerr.KindConnection) {
		return last
	}
	ee := rpcerr.Execution(model, method, attempts, last)
	ee.Message = fmt.Sprintf("all %d attempts failed: %v", attempts, last)
	return ee
}
