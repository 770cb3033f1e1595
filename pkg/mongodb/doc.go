// Package mongodb opens MongoDB connections with bounded retry and pins each
// guarded connection to a single access mode.
//
// A Connector turns Options into a live Session. Each attempt dials the
// server and pings the primary so that network and authentication problems
// surface inside the retry loop. Failures are classified:
//
//   - connectivity (network errors, timeouts, server selection): retried,
//     then reported as errors.ErrConnectionFailure
//   - operation (server command errors such as failed authentication):
//     retried, then reported as errors.ErrOperationFailure
//   - anything else: not retried
//
// The delay between attempts is fixed (Options.RetryDelay) and at most
// Options.MaxRetries retries follow the first attempt.
//
// # Basic Usage
//
//	opts := mongodbopts.NewOptions()
//	opts.Host = "db.internal"
//
//	conn, err := mongodb.NewConnector(opts)
//	if err != nil {
//	    return err
//	}
//	session, err := conn.Connect(ctx)
//	if err != nil {
//	    return err
//	}
//	defer session.Close(ctx)
//
// # Mode Guard
//
// A Guard hands out either a query handle (a collection) or a large object
// handle (a GridFS bucket), never both. The first request binds the mode;
// a request for the other mode fails with errors.ErrInvalidMode.
//
//	guard := mongodb.NewGuard(conn)
//	coll, err := guard.AsQuery(ctx)
//	_, err = guard.AsLargeObjectStore(ctx) // errors.ErrInvalidMode
package mongodb
