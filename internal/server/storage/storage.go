// Package storage abstracts the external blob store the upload pipeline
// writes to. The pipeline is written against this contract; failure modes and
// latency of the real backend stay behind it.
package storage

import (
	"context"
	"io"
)

// ObjectInfo describes a stored object as reported by the blob store.
type ObjectInfo struct {
	// Key is the store-assigned object identifier.
	Key string
	// URL and SecureURL are where the object can be fetched from.
	URL       string
	SecureURL string
}

// BlobStore is the upload pipeline's view of the object store. Both calls are
// the pipeline's only suspension points and must respect ctx deadlines.
type BlobStore interface {
	// Upload stores body under key and returns the resulting descriptor.
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (*ObjectInfo, error)
	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}
