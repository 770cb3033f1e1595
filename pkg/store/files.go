package store

import (
	"context"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kart-io/docbridge/pkg/errors"
	"github.com/kart-io/docbridge/pkg/filter"
)

// FileInfo is a GridFS files collection entry.
type FileInfo struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Name       string             `bson:"filename" json:"filename"`
	Length     int64              `bson:"length" json:"length"`
	ChunkSize  int32              `bson:"chunkSize" json:"chunk_size"`
	UploadDate time.Time          `bson:"uploadDate" json:"upload_date"`
	Metadata   bson.M             `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// FileStore stores files in a GridFS bucket.
type FileStore struct {
	bucket *gridfs.Bucket
}

// NewFileStore creates a FileStore over bucket.
func NewFileStore(bucket *gridfs.Bucket) *FileStore {
	return &FileStore{bucket: bucket}
}

// Put uploads r under name and returns the new file id.
func (s *FileStore) Put(name string, r io.Reader, metadata bson.M) (primitive.ObjectID, error) {
	opts := options.GridFSUpload()
	if len(metadata) > 0 {
		opts.SetMetadata(metadata)
	}

	id, err := s.bucket.UploadFromStream(name, r, opts)
	if err != nil {
		return primitive.NilObjectID, wrap("upload", err)
	}
	return id, nil
}

// List returns the files matching query, newest first.
func (s *FileStore) List(ctx context.Context, query filter.Document) ([]FileInfo, error) {
	return s.find(ctx, query, options.GridFSFind().SetSort(bson.D{{Key: "uploadDate", Value: -1}}))
}

// Exists reports whether any file matches query.
func (s *FileStore) Exists(ctx context.Context, query filter.Document) (bool, error) {
	files, err := s.find(ctx, query, options.GridFSFind().SetLimit(1))
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// LastVersion returns the most recently uploaded file matching query.
func (s *FileStore) LastVersion(ctx context.Context, query filter.Document) (*FileInfo, error) {
	files, err := s.find(ctx, query, options.GridFSFind().
		SetSort(bson.D{{Key: "uploadDate", Value: -1}}).
		SetLimit(1))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.ErrDoesNotExist.WithMessage("no file matches the query")
	}
	return &files[0], nil
}

// Open returns a reader for the file with the given ObjectID hex string.
func (s *FileStore) Open(id string) (*gridfs.DownloadStream, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	stream, err := s.bucket.OpenDownloadStream(oid)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, errors.ErrDoesNotExist.WithMessagef("file %s does not exist", id)
	}
	if err != nil {
		return nil, wrap("open file", err)
	}
	return stream, nil
}

// Delete removes the file with the given ObjectID hex string and its chunks.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	err = s.bucket.DeleteContext(ctx, oid)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return errors.ErrDoesNotExist.WithMessagef("file %s does not exist", id)
	}
	return wrap("delete file", err)
}

func (s *FileStore) find(ctx context.Context, query filter.Document, opts *options.GridFSFindOptions) ([]FileInfo, error) {
	cursor, err := s.bucket.FindContext(ctx, orEmpty(query), opts)
	if err != nil {
		return nil, wrap("find files", err)
	}

	files := []FileInfo{}
	if err := cursor.All(ctx, &files); err != nil {
		return nil, wrap("find files", err)
	}
	return files, nil
}
