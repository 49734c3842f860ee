package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/jobs"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/mediaportal/portal-backend/pkg/cache"
	"github.com/mediaportal/portal-backend/pkg/imaging"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
	"github.com/mediaportal/portal-backend/pkg/storage"
)

const sniffLength = 512

// GalleryConfig bounds uploads
type GalleryConfig struct {
	MaxUploadBytes int64
	ThumbnailWidth int
}

// UploadFile is an uploaded file as the handler received it
type UploadFile struct {
	Name   string
	Size   int64
	Reader io.ReadSeeker
}

// GalleryService manages gallery items and their stored images
type GalleryService struct {
	*ContentService[domain.GalleryItem, *domain.GalleryItem]
	repo  repository.ContentRepository[domain.GalleryItem, *domain.GalleryItem]
	store storage.ObjectStore
	jobs  jobs.Enqueuer
	cfg   GalleryConfig
	now   func() time.Time
}

// NewGalleryService creates a new GalleryService; store may be nil when storage is not configured
func NewGalleryService(
	repo repository.ContentRepository[domain.GalleryItem, *domain.GalleryItem],
	versions VersionRecorder,
	enqueuer jobs.Enqueuer,
	cacheService cache.Service,
	store storage.ObjectStore,
	cfg GalleryConfig,
) *GalleryService {
	if cfg.ThumbnailWidth <= 0 {
		cfg.ThumbnailWidth = 400
	}
	return &GalleryService{
		ContentService: NewContentService(repo, versions, enqueuer, cacheService),
		repo:           repo,
		store:          store,
		jobs:           enqueuer,
		cfg:            cfg,
		now:            time.Now,
	}
}

// Upload validates and stores an image, creates its gallery item and queues thumbnail generation
func (s *GalleryService) Upload(ctx context.Context, actor *Actor, form *domain.GalleryUploadForm, file UploadFile) (*domain.GalleryItem, error) {
	if actor == nil {
		return nil, common.ErrUnauthorized
	}
	if s.store == nil {
		return nil, common.ErrStorageDisabled
	}
	if s.cfg.MaxUploadBytes > 0 && file.Size > s.cfg.MaxUploadBytes {
		return nil, common.ErrFileTooLarge
	}

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(file.Reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", common.ErrInvalidFileType)
		}
		return nil, err
	}
	mimeType, err := imaging.DetectType(file.Name, head[:n])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidFileType, err)
	}
	if _, err := file.Reader.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	key := storage.GenerateKey("gallery", file.Name, s.now())
	uploaded, err := s.store.Upload(ctx, key, file.Reader, mimeType, file.Size)
	if err != nil {
		return nil, err
	}

	req := &domain.ContentRequest{
		Title:       form.Title,
		Slug:        form.Slug,
		Content:     form.Description,
		Status:      form.Status,
		AuthorID:    form.AuthorID,
		CategoryIDs: form.CategoryIDs,
		TagIDs:      form.TagIDs,
	}
	item, err := s.Create(ctx, actor, req, func(g *domain.GalleryItem) {
		g.ImageKey = uploaded.Key
		g.ImageURL = uploaded.URL
		g.MimeType = mimeType
		g.FileSize = file.Size
		g.AltText = form.AltText
	})
	if err != nil {
		s.removeObjects(ctx, uploaded.Key)
		return nil, err
	}

	if err := s.jobs.EnqueueImageProcess(ctx, item.ID); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Uint64("gallery_item_id", item.ID).Msg("enqueue image processing failed")
	}
	return item, nil
}

// UpdateItem updates the metadata of a gallery item; the image itself is immutable
func (s *GalleryService) UpdateItem(ctx context.Context, actor *Actor, id uint64, req *domain.UpdateGalleryItemRequest) (*domain.GalleryItem, error) {
	return s.Update(ctx, actor, id, &req.UpdateContentRequest, func(g *domain.GalleryItem) {
		if req.AltText != nil {
			g.AltText = *req.AltText
		}
	})
}

// DeleteItem deletes the item and then its stored objects
func (s *GalleryService) DeleteItem(ctx context.Context, actor *Actor, id uint64) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Delete(ctx, actor, id); err != nil {
		return err
	}
	s.removeObjects(ctx, item.ImageKey, item.ThumbnailKey)
	return nil
}

// ProcessImage builds the thumbnail of an uploaded image and records its dimensions
func (s *GalleryService) ProcessImage(ctx context.Context, id uint64) error {
	if s.store == nil {
		return common.ErrStorageDisabled
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	body, err := s.store.Download(ctx, item.ImageKey)
	if err != nil {
		return err
	}
	defer body.Close()

	thumb, err := imaging.MakeThumbnail(body, s.cfg.ThumbnailWidth)
	if err != nil {
		// 디코딩 불가 이미지는 재시도해도 같은 결과
		return fmt.Errorf("%w: %v", common.ErrInvalidFileType, err)
	}

	thumbKey := storage.ThumbnailKey(item.ImageKey)
	uploaded, err := s.store.Upload(ctx, thumbKey, bytes.NewReader(thumb.Data), "image/jpeg", int64(len(thumb.Data)))
	if err != nil {
		return err
	}

	err = s.repo.UpdateColumns(ctx, id, map[string]interface{}{
		"thumbnail_key": uploaded.Key,
		"thumbnail_url": uploaded.URL,
		"width":         thumb.OriginalWidth,
		"height":        thumb.OriginalHeight,
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *GalleryService) removeObjects(ctx context.Context, keys ...string) {
	if s.store == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("object delete failed")
		}
	}
}
