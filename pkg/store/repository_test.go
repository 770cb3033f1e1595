package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/kart-io/docbridge/pkg/errors"
	"github.com/kart-io/docbridge/pkg/filter"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find", func(mt *mtest.T) {
		id1, id2 := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id1}, {Key: "name", Value: "a"}},
			bson.D{{Key: "_id", Value: id2}, {Key: "name", Value: "b"}},
		))

		repo := NewRepository(mt.Coll)
		docs, err := repo.Find(ctx, filter.Document{"name": bson.M{"$in": []interface{}{"a", "b"}}},
			FindOptions{Limit: 10, Offset: 5, Sort: []string{"-name"}})
		require.NoError(mt, err)
		require.Len(mt, docs, 2)
		assert.Equal(mt, "a", docs[0]["name"])
		assert.Equal(mt, id2, docs[1]["_id"])

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, int64(10), cmd.Lookup("limit").AsInt64())
		assert.Equal(mt, int64(5), cmd.Lookup("skip").AsInt64())
		assert.Equal(mt, int64(-1), cmd.Lookup("sort", "name").AsInt64())
	})

	mt.Run("find empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		docs, err := NewRepository(mt.Coll).Find(ctx, nil, FindOptions{})
		require.NoError(mt, err)
		assert.Empty(mt, docs)
		assert.NotNil(mt, docs)
	})

	mt.Run("find server error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "unknown operator",
		}))

		_, err := NewRepository(mt.Coll).Find(ctx, filter.Document{}, FindOptions{})
		assert.ErrorIs(mt, err, errors.ErrOperationFailure)
	})

	mt.Run("get", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id}, {Key: "name", Value: "a"}},
		))

		doc, err := NewRepository(mt.Coll).Get(ctx, id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, "a", doc["name"])
	})

	mt.Run("get missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := NewRepository(mt.Coll).Get(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, errors.ErrDoesNotExist)
	})

	mt.Run("get bad id", func(mt *mtest.T) {
		_, err := NewRepository(mt.Coll).Get(ctx, "not-an-id")
		assert.ErrorIs(mt, err, errors.ErrMalformedQuery)
	})

	mt.Run("count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(3)}},
		))

		n, err := NewRepository(mt.Coll).Count(ctx, filter.Document{"active": true})
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})

	mt.Run("save inserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := NewRepository(mt.Coll).Save(ctx, bson.M{"name": "new"})
		require.NoError(mt, err)
		assert.NotNil(mt, id)
		assert.Equal(mt, "insert", mt.GetStartedEvent().CommandName)
	})

	mt.Run("save replaces", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		oid := primitive.NewObjectID()
		id, err := NewRepository(mt.Coll).Save(ctx, bson.M{"_id": oid, "name": "old"})
		require.NoError(mt, err)
		assert.Equal(mt, oid, id)
		assert.Equal(mt, "update", mt.GetStartedEvent().CommandName)
	})

	mt.Run("save nil", func(mt *mtest.T) {
		_, err := NewRepository(mt.Coll).Save(ctx, nil)
		assert.ErrorIs(mt, err, errors.ErrValueNotSupported)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		err := NewRepository(mt.Coll).Delete(ctx, primitive.NewObjectID().Hex())
		assert.NoError(mt, err)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := NewRepository(mt.Coll).Delete(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, errors.ErrDoesNotExist)
	})
}

func TestFindOptionsFrom(t *testing.T) {
	opts, err := FindOptionsFrom(filter.Values{"limit": {"10"}, "offset": {"20"}, "name": {"x"}})
	require.NoError(t, err)
	assert.Equal(t, FindOptions{Limit: 10, Offset: 20}, opts)

	opts, err = FindOptionsFrom(filter.Map{})
	require.NoError(t, err)
	assert.Equal(t, FindOptions{}, opts)

	_, err = FindOptionsFrom(filter.Map{"limit": "ten"})
	assert.ErrorIs(t, err, errors.ErrMalformedQuery)

	_, err = FindOptionsFrom(filter.Map{"offset": "-1"})
	assert.ErrorIs(t, err, errors.ErrMalformedQuery)
}
