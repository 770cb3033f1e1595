package mongodb

import (
	"context"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/kart-io/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/kart-io/docbridge/pkg/errors"
	mongodbopts "github.com/kart-io/docbridge/pkg/options/mongodb"
)

// failure classifies a failed connection attempt.
type failure int

const (
	failurePermanent failure = iota
	failureConnectivity
	failureOperation
)

func (f failure) String() string {
	switch f {
	case failureConnectivity:
		return "connectivity"
	case failureOperation:
		return "operation"
	default:
		return "permanent"
	}
}

// classify sorts a driver error into connectivity, operation or permanent.
func classify(err error) failure {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, topology.ErrServerSelectionTimeout) {
		return failureConnectivity
	}

	var selErr topology.ServerSelectionError
	if errors.As(err, &selErr) {
		return failureConnectivity
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return failureConnectivity
	}

	var srvErr mongo.ServerError
	if errors.As(err, &srvErr) {
		return failureOperation
	}

	return failurePermanent
}

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithDialer replaces the driver dialer.
func WithDialer(d Dialer) ConnectorOption {
	return func(c *Connector) {
		if d != nil {
			c.dialer = d
		}
	}
}

// Connector opens sessions with bounded fixed-delay retry. It holds a private
// copy of its options and is safe for concurrent use.
type Connector struct {
	opts   *mongodbopts.Options
	dialer Dialer
}

// NewConnector copies, completes and validates opts.
func NewConnector(opts *mongodbopts.Options, fns ...ConnectorOption) (*Connector, error) {
	if opts == nil {
		return nil, errors.ErrInvalidConfig.WithMessage("mongodb options cannot be nil")
	}

	o := opts.Clone()
	if err := o.Complete(); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	c := &Connector{
		opts:   o,
		dialer: driverDialer{},
	}
	for _, fn := range fns {
		fn(c)
	}

	return c, nil
}

// Options returns a copy of the connector options.
func (c *Connector) Options() *mongodbopts.Options {
	return c.opts.Clone()
}

// Connect dials until a session is established or the retry budget is spent.
// Every call opens a new client.
func (c *Connector) Connect(ctx context.Context) (*Session, error) {
	var (
		client   *mongo.Client
		attempts int
		lastErr  error
		kind     failure
	)

	maxRetries := c.opts.MaxRetries
	uri := mongodbopts.Redact(mongodbopts.BuildURI(c.opts))

	op := func() error {
		attempts++
		cl, err := c.dialer.Dial(ctx, c.opts)
		if err == nil {
			client = cl
			return nil
		}

		lastErr, kind = err, classify(err)
		logger.Debugw("mongodb connection attempt failed",
			"uri", uri,
			"attempt", attempts,
			"kind", kind.String(),
			"error", err,
		)
		if kind == failurePermanent {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, delay time.Duration) {
		logger.Warnw("retrying mongodb connection",
			"uri", uri,
			"attempt", attempts,
			"max_retries", maxRetries,
			"delay", delay.String(),
			"error", err,
		)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.opts.RetryDelay), uint64(maxRetries)),
		ctx,
	)

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, c.failed(ctx, err, lastErr, kind, attempts)
	}

	logger.Infow("connected to mongodb",
		"uri", uri,
		"database", c.opts.Database,
		"attempts", attempts,
	)

	return newSession(client, c.opts), nil
}

func (c *Connector) failed(ctx context.Context, err, lastErr error, kind failure, attempts int) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.Warnw("mongodb connection cancelled", "attempts", attempts, "error", ctxErr)
		return errors.ErrConnectionFailure.
			WithMessagef("connection cancelled after %d attempts", attempts).
			WithCause(ctxErr)
	}

	if lastErr == nil {
		lastErr = err
	}

	var errno *errors.Errno
	if errors.As(lastErr, &errno) {
		return lastErr
	}

	logger.Errorw("mongodb connection failed",
		"attempts", attempts,
		"max_retries", c.opts.MaxRetries,
		"kind", kind.String(),
		"error", lastErr,
	)

	switch kind {
	case failureOperation:
		return errors.ErrOperationFailure.
			WithMessagef("max number of retries (%d) reached after %d attempts", c.opts.MaxRetries, attempts).
			WithCause(lastErr)
	case failureConnectivity:
		return errors.ErrConnectionFailure.
			WithMessagef("max number of retries (%d) reached after %d attempts", c.opts.MaxRetries, attempts).
			WithCause(lastErr)
	default:
		return errors.ErrConnectionFailure.
			WithMessage("connection failed with a non-retryable error").
			WithCause(lastErr)
	}
}
