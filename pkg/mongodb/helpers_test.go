package mongodb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	mongodbopts "github.com/kart-io/docbridge/pkg/options/mongodb"
)

// lazyClient returns a client that has not performed any I/O.
func lazyClient(t *testing.T) *mongo.Client {
	t.Helper()

	client, err := mongo.Connect(context.Background(),
		mongoopts.Client().
			ApplyURI("mongodb://127.0.0.1:1").
			SetServerSelectionTimeout(50*time.Millisecond))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})
	return client
}

// fakeDialer fails with the queued errors in order, then succeeds.
type fakeDialer struct {
	t    *testing.T
	mu   sync.Mutex
	errs []error
	all  error
	n    int
}

func (d *fakeDialer) Dial(_ context.Context, _ *mongodbopts.Options) (*mongo.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.n++
	if d.all != nil {
		return nil, d.all
	}
	if d.n <= len(d.errs) && d.errs[d.n-1] != nil {
		return nil, d.errs[d.n-1]
	}
	return lazyClient(d.t), nil
}

func (d *fakeDialer) calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.n
}

func testOptions() *mongodbopts.Options {
	o := mongodbopts.NewOptions()
	o.RetryDelay = time.Millisecond
	return o
}

func newTestConnector(t *testing.T, d *fakeDialer, mutate ...func(*mongodbopts.Options)) *Connector {
	t.Helper()

	d.t = t
	o := testOptions()
	for _, fn := range mutate {
		fn(o)
	}

	c, err := NewConnector(o, WithDialer(d))
	require.NoError(t, err)
	return c
}
