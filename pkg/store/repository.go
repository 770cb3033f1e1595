package store

import (
	"context"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kart-io/docbridge/pkg/errors"
	"github.com/kart-io/docbridge/pkg/filter"
)

// Request parameters read by FindOptionsFrom.
const (
	LimitKey  = "limit"
	OffsetKey = "offset"
)

// FindOptions pages and orders a Find.
type FindOptions struct {
	Limit  int64
	Offset int64
	// Sort lists field names; a leading "-" sorts descending.
	Sort []string
}

// FindOptionsFrom reads limit and offset from request parameters.
func FindOptionsFrom(src filter.Source) (FindOptions, error) {
	var opts FindOptions

	for key, dst := range map[string]*int64{LimitKey: &opts.Limit, OffsetKey: &opts.Offset} {
		raw, ok := src.Get(key)
		if !ok || raw == nil {
			continue
		}
		s, isString := raw.(string)
		if !isString || s == "" {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			return FindOptions{}, errors.ErrMalformedQuery.WithMessagef("%s must be a non-negative integer, got %q", key, s)
		}
		*dst = n
	}

	return opts, nil
}

func (o FindOptions) driverOptions() *options.FindOptions {
	fo := options.Find()
	if o.Limit > 0 {
		fo.SetLimit(o.Limit)
	}
	if o.Offset > 0 {
		fo.SetSkip(o.Offset)
	}
	if len(o.Sort) > 0 {
		sort := bson.D{}
		for _, field := range o.Sort {
			if name, ok := strings.CutPrefix(field, "-"); ok {
				sort = append(sort, bson.E{Key: name, Value: -1})
			} else {
				sort = append(sort, bson.E{Key: field, Value: 1})
			}
		}
		fo.SetSort(sort)
	}
	return fo
}

// Repository reads and writes documents in a single collection.
type Repository struct {
	coll *mongo.Collection
}

// NewRepository creates a Repository over coll.
func NewRepository(coll *mongo.Collection) *Repository {
	return &Repository{coll: coll}
}

// Collection returns the underlying collection.
func (r *Repository) Collection() *mongo.Collection {
	return r.coll
}

// Find returns every document matching query.
func (r *Repository) Find(ctx context.Context, query filter.Document, opts FindOptions) ([]bson.M, error) {
	cursor, err := r.coll.Find(ctx, orEmpty(query), opts.driverOptions())
	if err != nil {
		return nil, wrap("find", err)
	}

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrap("find", err)
	}
	return docs, nil
}

// FindOne returns the first document matching query.
func (r *Repository) FindOne(ctx context.Context, query filter.Document) (bson.M, error) {
	var doc bson.M
	err := r.coll.FindOne(ctx, orEmpty(query)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.ErrDoesNotExist.WithMessage("no document matches the query")
	}
	if err != nil {
		return nil, wrap("find one", err)
	}
	return doc, nil
}

// Get returns the document whose _id is the given ObjectID hex string.
func (r *Repository) Get(ctx context.Context, id string) (bson.M, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	doc, err := r.FindOne(ctx, filter.Document{"_id": oid})
	if errors.Is(err, errors.ErrDoesNotExist) {
		return nil, errors.ErrDoesNotExist.WithMessagef("document %s does not exist", id)
	}
	return doc, err
}

// Count returns the number of documents matching query.
func (r *Repository) Count(ctx context.Context, query filter.Document) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, orEmpty(query))
	if err != nil {
		return 0, wrap("count", err)
	}
	return n, nil
}

// Save inserts doc, or replaces the stored document with the same _id.
// It returns the document _id.
func (r *Repository) Save(ctx context.Context, doc bson.M) (interface{}, error) {
	if doc == nil {
		return nil, errors.ErrValueNotSupported.WithMessage("cannot save a nil document")
	}

	id, ok := doc["_id"]
	if !ok {
		res, err := r.coll.InsertOne(ctx, doc)
		if err != nil {
			return nil, wrap("insert", err)
		}
		return res.InsertedID, nil
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, wrap("replace", err)
	}
	return id, nil
}

// Delete removes the document whose _id is the given ObjectID hex string.
func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrap("delete", err)
	}
	if res.DeletedCount == 0 {
		return errors.ErrDoesNotExist.WithMessagef("document %s does not exist", id)
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errors.ErrMalformedQuery.WithMessagef("invalid object id %q", id).WithCause(err)
	}
	return oid, nil
}

func orEmpty(query filter.Document) filter.Document {
	if query == nil {
		return filter.Document{}
	}
	return query
}
