package mongodb

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"

	"github.com/kart-io/docbridge/pkg/errors"
)

// Mode is the access mode a guarded connection is bound to.
type Mode int

const (
	// ModeUnset means no handle has been requested yet.
	ModeUnset Mode = iota
	// ModeQuery hands out a collection for document queries.
	ModeQuery
	// ModeLargeObject hands out a GridFS bucket for chunked file storage.
	ModeLargeObject
)

func (m Mode) String() string {
	switch m {
	case ModeQuery:
		return "query"
	case ModeLargeObject:
		return "large-object"
	default:
		return "unset"
	}
}

// Guard binds a connection to the first mode requested from it. Handles are
// created once and cached; asking for the other mode fails with
// errors.ErrInvalidMode without touching the server. The underlying Session
// is never handed out.
type Guard struct {
	connector *Connector

	mu         sync.Mutex
	mode       Mode
	session    *Session
	collection *mongo.Collection
	bucket     *gridfs.Bucket
}

// NewGuard creates an unbound Guard.
func NewGuard(c *Connector) *Guard {
	return &Guard{connector: c}
}

// Mode returns the bound mode, or ModeUnset.
func (g *Guard) Mode() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

// AsQuery returns the collection named by Options.Collection.
func (g *Guard) AsQuery(ctx context.Context) (*mongo.Collection, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.bind(ModeQuery); err != nil {
		return nil, err
	}
	if g.collection != nil {
		return g.collection, nil
	}

	s, err := g.connect(ctx)
	if err != nil {
		return nil, err
	}
	g.collection = s.Collection(g.connector.opts.Collection)
	return g.collection, nil
}

// AsLargeObjectStore returns the GridFS bucket named by Options.Collection.
func (g *Guard) AsLargeObjectStore(ctx context.Context) (*gridfs.Bucket, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.bind(ModeLargeObject); err != nil {
		return nil, err
	}
	if g.bucket != nil {
		return g.bucket, nil
	}

	s, err := g.connect(ctx)
	if err != nil {
		return nil, err
	}
	bucket, err := s.Bucket(g.connector.opts.Collection)
	if err != nil {
		return nil, errors.ErrOperationFailure.WithMessage("cannot open gridfs bucket").WithCause(err)
	}
	g.bucket = bucket
	return g.bucket, nil
}

// Ping connects if needed and checks that the primary is reachable. It
// neither binds nor checks the mode and hands out no handle.
func (g *Guard) Ping(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.connect(ctx)
	if err != nil {
		return err
	}
	if err := s.Ping(ctx); err != nil {
		return wrapPing(err)
	}
	return nil
}

// Close disconnects the session and drops cached handles. The mode stays bound.
func (g *Guard) Close(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.session == nil {
		return nil
	}
	err := g.session.Close(ctx)
	g.session, g.collection, g.bucket = nil, nil, nil
	return err
}

// bind must be called with mu held.
func (g *Guard) bind(m Mode) error {
	if g.mode == ModeUnset {
		g.mode = m
		return nil
	}
	if g.mode != m {
		return errors.ErrInvalidMode.WithMessagef("connection is bound to %s mode, %s requested", g.mode, m)
	}
	return nil
}

// connect must be called with mu held.
func (g *Guard) connect(ctx context.Context) (*Session, error) {
	if g.session != nil {
		return g.session, nil
	}
	s, err := g.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	g.session = s
	return s, nil
}

func wrapPing(err error) error {
	if classify(err) == failureOperation {
		return errors.ErrOperationFailure.WithMessage("ping failed").WithCause(err)
	}
	return errors.ErrConnectionFailure.WithMessage("ping failed").WithCause(err)
}
