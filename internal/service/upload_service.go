package service

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"pixhost/internal/config"
	"pixhost/internal/domain"
	"pixhost/internal/metrics"
	"pixhost/internal/repository"
	"pixhost/pkg/shortid"
	"pixhost/pkg/transcode"
)

// UploadService is the ingestion pipeline plus the small retrieval
// operations built on the same key scheme.
type UploadService interface {
	Upload(ctx context.Context, in domain.UploadInput) (*domain.UploadResult, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	// StorageURL resolves a public path segment to the storage-facing
	// URL the viewer fetches bytes from.
	StorageURL(id string) string
	// PageURL builds the front-facing short link for a key.
	PageURL(key string) string
}

type uploadService struct {
	repo  repository.ObjectRepository
	trans transcode.Transcoder
	newID func() (string, error)
	cfg   *config.Config
	obs   metrics.Observer
	log   *zap.Logger
}

func NewUploadService(repo repository.ObjectRepository, trans transcode.Transcoder, cfg *config.Config, obs metrics.Observer, log *zap.Logger) UploadService {
	if obs == nil {
		obs = metrics.Nop{}
	}
	return &uploadService{
		repo:  repo,
		trans: trans,
		newID: shortid.New,
		cfg:   cfg,
		obs:   obs,
		log:   log,
	}
}

// Upload runs the pipeline for one file: validate, transcode, mint a
// key, persist, compose the public URL. Strictly linear, single
// attempt: a human clicking "upload" again is the retry mechanism.
func (s *uploadService) Upload(ctx context.Context, in domain.UploadInput) (*domain.UploadResult, error) {
	start := time.Now()
	result, err := s.upload(ctx, in)
	s.obs.RecordUpload(time.Since(start), in.Size, processedSize(result), err)
	return result, err
}

func (s *uploadService) upload(ctx context.Context, in domain.UploadInput) (*domain.UploadResult, error) {
	// Cheap header checks first; obviously invalid input never costs a
	// decode.
	if err := s.validate(in); err != nil {
		return nil, err
	}

	asset, err := s.trans.Transcode(in.Data)
	if err != nil {
		s.log.Warn("Transcoding failed",
			zap.String("filename", in.Filename),
			zap.String("content_type", in.ContentType),
			zap.Error(err))
		return nil, domain.ProcessingError("cannot decode or re-encode image", err)
	}

	id, err := s.newID()
	if err != nil {
		return nil, domain.UpstreamError("cannot generate identifier", err)
	}
	key := id + transcode.Ext

	if err := s.repo.Put(ctx, key, asset.Data, transcode.MimeType); err != nil {
		return nil, domain.UpstreamError("cannot store image", err)
	}

	result := &domain.UploadResult{
		URL:           s.PageURL(key),
		ID:            id,
		Key:           key,
		OriginalSize:  in.Size,
		ProcessedSize: int64(len(asset.Data)),
		Width:         asset.Width,
		Height:        asset.Height,
	}

	s.log.Info("Image uploaded",
		zap.String("id", id),
		zap.String("key", key),
		zap.Int64("original_size", result.OriginalSize),
		zap.Int64("processed_size", result.ProcessedSize),
		zap.Int("width", result.Width),
		zap.Int("height", result.Height))

	return result, nil
}

func (s *uploadService) validate(in domain.UploadInput) error {
	if len(in.Data) == 0 {
		return domain.ValidationError("no image file provided")
	}
	if in.Size > s.cfg.App.MaxUploadSize {
		return domain.ValidationError("file exceeds the maximum upload size")
	}

	declared := strings.ToLower(strings.TrimSpace(in.ContentType))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	allowed := false
	for _, t := range s.cfg.App.AllowedTypes {
		if declared == t {
			allowed = true
			break
		}
	}
	if !allowed {
		return domain.ValidationError("only image files are allowed (jpeg, png, gif, webp)")
	}

	if ext := strings.ToLower(filepath.Ext(in.Filename)); !allowedExt(ext) {
		return domain.ValidationError("file extension does not match an accepted image format")
	}

	return nil
}

// Delete removes the object for id. Absent keys are fine; the store's
// delete is idempotent.
func (s *uploadService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, WithExt(id))
	if err != nil {
		err = domain.UpstreamError("cannot delete image", err)
	}
	s.obs.RecordDelete(err)
	return err
}

func (s *uploadService) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.Exists(ctx, WithExt(id))
	if err != nil {
		return false, domain.UpstreamError("cannot check image", err)
	}
	return ok, nil
}

func (s *uploadService) StorageURL(id string) string {
	return s.repo.PublicURL(WithExt(id))
}

func (s *uploadService) PageURL(key string) string {
	return strings.TrimRight(s.cfg.App.PublicBaseURL, "/") + "/i/" + key
}

// WithExt appends the canonical extension to a path segment that has
// no recognised image extension. Callers treat the segment as opaque,
// so short links work with or without the suffix.
func WithExt(id string) string {
	if allowedExt(strings.ToLower(filepath.Ext(id))) {
		return id
	}
	return id + transcode.Ext
}

func allowedExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

func processedSize(r *domain.UploadResult) int64 {
	if r == nil {
		return 0
	}
	return r.ProcessedSize
}
