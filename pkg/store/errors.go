package store

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kart-io/docbridge/pkg/errors"
)

// wrap converts a driver error from op into an Errno.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	var errno *errors.Errno
	if errors.As(err, &errno) {
		return err
	}

	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return errors.ErrConnectionFailure.WithMessagef("%s failed", op).WithCause(err)
	}
	return errors.ErrOperationFailure.WithMessagef("%s failed", op).WithCause(err)
}
