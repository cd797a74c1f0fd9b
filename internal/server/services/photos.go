package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"time"

	// register the image formats accepted for upload; DecodeConfig reads only
	// the header, never the full payload
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dmitrijs2005/photoframe/internal/common"
	"github.com/dmitrijs2005/photoframe/internal/logging"
	"github.com/dmitrijs2005/photoframe/internal/server/config"
	"github.com/dmitrijs2005/photoframe/internal/server/models"
	"github.com/dmitrijs2005/photoframe/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/photoframe/internal/server/storage"
	"github.com/google/uuid"
)

type PhotoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blob        storage.BlobStore
	logger      logging.Logger
	config      *config.Config
}

func NewPhotoService(db *sql.DB, rm repomanager.RepositoryManager, blob storage.BlobStore, logger logging.Logger, cfg *config.Config) *PhotoService {
	return &PhotoService{
		db:          db,
		repomanager: rm,
		blob:        blob,
		logger:      logger.With("module", "photo_service"),
		config:      cfg,
	}
}

// storageKey builds the object key for a new upload: date prefix plus uuid.
func storageKey() string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// Stats is the read-only aggregate returned to admins. MostActive and Largest
// are nil when no photos exist yet.
type Stats struct {
	TotalUploads int64
	MostActive   *models.UploaderStats
	Largest      *models.Photo
}

// Upload runs the two-step write path: store the payload in the blob store,
// then persist the metadata record owned by ownerID. The two systems share no
// transaction; if the metadata write fails after a successful remote write,
// the remote object is deleted best-effort and any survivor is recorded as an
// orphan for out-of-band reconciliation. Once the remote write is dispatched
// the pipeline runs to completion even if the caller goes away.
func (s *PhotoService) Upload(ctx context.Context, ownerID string, payload []byte, caption string) (*models.Photo, error) {

	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", common.ErrorValidation)
	}
	if s.config.MaxUploadBytes > 0 && int64(len(payload)) > s.config.MaxUploadBytes {
		return nil, fmt.Errorf("%w: payload exceeds %d bytes", common.ErrorValidation, s.config.MaxUploadBytes)
	}

	dims, format, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: unsupported image format", common.ErrorValidation)
	}

	key := storageKey()

	uploadCtx, cancel := context.WithTimeout(ctx, s.config.ExternalCallTimeout)
	defer cancel()

	info, err := s.blob.Upload(uploadCtx, key, bytes.NewReader(payload), "image/"+format)
	if err != nil {
		// nothing persisted anywhere, no compensation needed
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUpload, err)
	}

	photo := &models.Photo{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		ObjectKey: info.Key,
		URL:       info.URL,
		SecureURL: info.SecureURL,
		Format:    format,
		Bytes:     int64(len(payload)),
		Width:     dims.Width,
		Height:    dims.Height,
		Caption:   caption,
	}

	created, err := s.repomanager.Photos(s.db).Create(ctx, photo)
	if err != nil {
		s.compensateUpload(ctx, info.Key, err)
		return nil, fmt.Errorf("%w: %v", common.ErrMetadataPersist, err)
	}

	s.logger.Info(ctx, "photo uploaded", "photo_id", created.ID, "owner_id", ownerID, "bytes", created.Bytes)
	return created, nil
}

// compensateUpload removes the remote object left behind by a failed metadata
// write. Runs detached from the caller's cancellation: the request may already
// be gone, but the blob must not leak silently.
func (s *PhotoService) compensateUpload(ctx context.Context, key string, cause error) {
	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ExternalCallTimeout)
	defer cancel()

	if err := s.blob.Delete(detached, key); err != nil {
		s.logger.Error(ctx, "orphaned remote object: compensating delete failed",
			"object_key", key, "cause", cause.Error(), "delete_error", err.Error())
		s.recordOrphan(detached, key, models.OrphanReasonPersistFailed, cause.Error())
		return
	}

	s.logger.Warn(ctx, "metadata persist failed, remote object removed", "object_key", key, "cause", cause.Error())
}

// Delete is the dual of Upload with the same two-step hazard: remove the
// remote object, then the metadata row. A row that outlives its object is
// surfaced as common.ErrPartialDelete and recorded for reconciliation.
func (s *PhotoService) Delete(ctx context.Context, ownerID string, id string) error {

	photo, err := s.repomanager.Photos(s.db).GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}

	deleteCtx, cancel := context.WithTimeout(ctx, s.config.ExternalCallTimeout)
	defer cancel()

	if err := s.blob.Delete(deleteCtx, photo.ObjectKey); err != nil {
		// record and row are still consistent, nothing diverged yet
		return fmt.Errorf("%w: %v", common.ErrStorageDelete, err)
	}

	if err := s.repomanager.Photos(s.db).DeleteByIDAndOwner(ctx, id, ownerID); err != nil {
		s.logger.Error(ctx, "metadata row outlived deleted object",
			"photo_id", id, "object_key", photo.ObjectKey, "error", err.Error())
		s.recordOrphan(ctx, photo.ObjectKey, models.OrphanReasonPartialDelete, err.Error())
		return fmt.Errorf("%w: %v", common.ErrPartialDelete, err)
	}

	s.logger.Info(ctx, "photo deleted", "photo_id", id, "owner_id", ownerID)
	return nil
}

// recordOrphan persists the diverged pair, best effort. The pipeline has
// already logged the condition; a failure here must not mask the original one.
func (s *PhotoService) recordOrphan(ctx context.Context, key string, reason string, detail string) {
	orphan := &models.Orphan{
		ID:        uuid.NewString(),
		ObjectKey: key,
		Reason:    reason,
		Detail:    detail,
	}
	if err := s.repomanager.Orphans(s.db).Create(ctx, orphan); err != nil {
		s.logger.Error(ctx, "failed to record orphan", "object_key", key, "error", err.Error())
	}
}

// Get returns one of the caller's photos. Someone else's photo is a not-found.
func (s *PhotoService) Get(ctx context.Context, ownerID string, id string) (*models.Photo, error) {
	return s.repomanager.Photos(s.db).GetByIDAndOwner(ctx, id, ownerID)
}

// List returns one page of the caller's photos, newest first, plus the
// caller's total for the pagination block.
func (s *PhotoService) List(ctx context.Context, ownerID string, page int, limit int) ([]*models.Photo, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	repo := s.repomanager.Photos(s.db)

	items, err := repo.ListByOwner(ctx, ownerID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// AdminStats aggregates upload statistics across all identities.
func (s *PhotoService) AdminStats(ctx context.Context) (*Stats, error) {
	repo := s.repomanager.Photos(s.db)

	total, err := repo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalUploads: total}

	mostActive, err := repo.MostActiveUploader(ctx)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	stats.MostActive = mostActive

	largest, err := repo.LargestPhoto(ctx)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	stats.Largest = largest

	return stats, nil
}
