package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kart-io/docbridge/pkg/errors"
	mongodbopts "github.com/kart-io/docbridge/pkg/options/mongodb"
)

// Session is an established connection bound to the configured database.
type Session struct {
	client   *mongo.Client
	database *mongo.Database
	opts     *mongodbopts.Options
}

func newSession(client *mongo.Client, opts *mongodbopts.Options) *Session {
	return &Session{
		client:   client,
		database: client.Database(opts.Database),
		opts:     opts,
	}
}

// Name returns the storage type identifier.
func (s *Session) Name() string {
	return "mongodb"
}

// Ping checks that the primary is reachable.
func (s *Session) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client. It is safe to call more than once.
func (s *Session) Close(ctx context.Context) error {
	err := s.client.Disconnect(ctx)
	if errors.Is(err, mongo.ErrClientDisconnected) {
		return nil
	}
	return err
}

// Database returns the configured database.
func (s *Session) Database() *mongo.Database {
	return s.database
}

// Collection returns a collection from the configured database.
func (s *Session) Collection(name string) *mongo.Collection {
	return s.database.Collection(name)
}

// Bucket returns a GridFS bucket with the given name in the configured database.
func (s *Session) Bucket(name string) (*gridfs.Bucket, error) {
	return gridfs.NewBucket(s.database, mongoopts.GridFSBucket().SetName(name))
}
