// Package store runs translated filters against MongoDB.
//
// Repository works on a document collection (the query mode of a guarded
// connection) and FileStore works on a GridFS bucket (the large object
// mode). Both report a missing document or file as errors.ErrDoesNotExist.
package store
