// Package models defines server-side data models persisted in the database.
package models

import "time"

// Photo describes metadata for one uploaded image. The binary itself lives in
// object storage under ObjectKey; a Photo row and its object are created and
// deleted as a pair.
type Photo struct {
	ID string
	// OwnerID is the identity that uploaded the photo. Immutable.
	OwnerID string

	// ObjectKey is the object-storage key of the stored image.
	ObjectKey string
	URL       string
	SecureURL string

	Format string
	Bytes  int64
	Width  int
	Height int

	Caption   string
	CreatedAt time.Time
}

// Orphan records a photo whose object-storage blob and metadata row have
// diverged, for out-of-band reconciliation.
type Orphan struct {
	ID        string
	ObjectKey string
	// Reason is which half survived: "metadata_persist_failed" means the blob
	// exists without a row, "partial_delete" means the row outlived the blob.
	Reason    string
	Detail    string
	CreatedAt time.Time
}

const (
	OrphanReasonPersistFailed = "metadata_persist_failed"
	OrphanReasonPartialDelete = "partial_delete"
)

// UploaderStats is the admin aggregate for the most active uploader.
type UploaderStats struct {
	UserID      string
	Name        string
	Email       string
	UploadCount int64
}
