package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	mongodbopts "github.com/kart-io/docbridge/pkg/options/mongodb"
)

// Dialer opens a client for a single connection attempt.
type Dialer interface {
	Dial(ctx context.Context, opts *mongodbopts.Options) (*mongo.Client, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, opts *mongodbopts.Options) (*mongo.Client, error)

// Dial implements Dialer.
func (f DialerFunc) Dial(ctx context.Context, opts *mongodbopts.Options) (*mongo.Client, error) {
	return f(ctx, opts)
}

// driverDialer connects with the official driver and pings the primary.
type driverDialer struct{}

func (driverDialer) Dial(ctx context.Context, opts *mongodbopts.Options) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, ClientOptions(opts))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

// ClientOptions builds driver options from opts.
func ClientOptions(opts *mongodbopts.Options) *mongoopts.ClientOptions {
	clientOpts := mongoopts.Client().ApplyURI(mongodbopts.BuildURI(opts))

	if opts.HasCredentials() {
		clientOpts.SetAuth(mongoopts.Credential{
			Username:   opts.Username,
			Password:   opts.Password,
			AuthSource: opts.AuthSource,
		})
	}

	// Apply connection pool settings
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(opts.MinPoolSize)
	}
	if opts.MaxConnIdleTime > 0 {
		clientOpts.SetMaxConnIdleTime(opts.MaxConnIdleTime)
	}

	// Apply timeout settings
	if opts.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(opts.ConnectTimeout)
	}
	if opts.SocketTimeout > 0 {
		clientOpts.SetSocketTimeout(opts.SocketTimeout)
	}
	if opts.ServerSelectionTimeout > 0 {
		clientOpts.SetServerSelectionTimeout(opts.ServerSelectionTimeout)
	}

	return clientOpts
}
