package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/media"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

var (
	ErrUploadValidation = errors.New("upload validation failed")
	ErrGalleryNotFound  = errors.New("gallery item not found")
)

const defaultMaxUploadBytes = int64(10 * 1024 * 1024)

var defaultAllowedMIMEs = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
}

type GalleryServiceConfig struct {
	Bucket            string
	MaxUploadBytes    int64
	AllowedMIMETypes  []string
	ImageProcessor    media.Processor
	ImageMaxDimension int
}

type ImageUpload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
	Caption     string
}

type GalleryService struct {
	gallery  ports.GalleryRepository
	storage  ports.ObjectStorage
	activity *ActivityRecorder

	bucket            string
	maxUploadBytes    int64
	allowedMIMEs      map[string]struct{}
	imageProcessor    media.Processor
	imageMaxDimension int
	now               func() time.Time
}

func NewGalleryService(gallery ports.GalleryRepository, storage ports.ObjectStorage, activity *ActivityRecorder, cfg GalleryServiceConfig) *GalleryService {
	maxBytes := cfg.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	allowed := cfg.AllowedMIMETypes
	if len(allowed) == 0 {
		allowed = defaultAllowedMIMEs
	}
	mimeSet := make(map[string]struct{}, len(allowed))
	for _, mt := range allowed {
		mimeSet[strings.ToLower(strings.TrimSpace(mt))] = struct{}{}
	}
	maxDimension := cfg.ImageMaxDimension
	if maxDimension <= 0 {
		maxDimension = media.DefaultMaxDimension
	}
	return &GalleryService{
		gallery:           gallery,
		storage:           storage,
		activity:          activity,
		bucket:            strings.TrimSpace(cfg.Bucket),
		maxUploadBytes:    maxBytes,
		allowedMIMEs:      mimeSet,
		imageProcessor:    cfg.ImageProcessor,
		imageMaxDimension: maxDimension,
		now:               time.Now,
	}
}

func (s *GalleryService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Upload stores an image in object storage and registers it in the gallery.
func (s *GalleryService) Upload(ctx context.Context, upload ImageUpload) (*domain.GalleryItem, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("%w: object storage is not configured", ErrUploadValidation)
	}
	contentType := media.NormalizeContentType(upload.ContentType, upload.FileName)
	if upload.Reader == nil || upload.Size <= 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrUploadValidation)
	}
	if upload.Size > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds size limit (%d bytes)", ErrUploadValidation, s.maxUploadBytes)
	}
	if _, ok := s.allowedMIMEs[contentType]; !ok {
		return nil, fmt.Errorf("%w: unsupported content type %s", ErrUploadValidation, contentType)
	}

	reader, size, storedType, err := s.normalizeImage(ctx, media.Upload{
		Reader:      upload.Reader,
		Size:        upload.Size,
		FileName:    upload.FileName,
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadValidation, err)
	}

	now := s.now().UTC()
	objectKey := fmt.Sprintf("uploads/%04d/%02d/%d-%s%s", now.Year(), int(now.Month()), now.UnixNano(), uuid.NewString(), safeImageExtension(storedType, upload.FileName))
	url, err := s.storage.Upload(ctx, s.bucket, objectKey, storedType, reader, size)
	if err != nil {
		return nil, err
	}

	item, err := s.gallery.Create(ctx, &domain.GalleryItem{
		Path:      url,
		ObjectKey: objectKey,
		Caption:   strings.TrimSpace(upload.Caption),
	})
	if err != nil {
		s.removeObject(objectKey)
		return nil, err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionCreate,
		Resource:   domain.ResourceGallery,
		ResourceID: item.ID.String(),
		Details:    fmt.Sprintf("Uploaded %s", objectKey),
	})
	return item, nil
}

// normalizeImage downscales oversized images when a processor is configured
// and otherwise passes the upload through untouched.
func (s *GalleryService) normalizeImage(ctx context.Context, upload media.Upload) (io.Reader, int64, string, error) {
	if s.imageProcessor == nil {
		return upload.Reader, upload.Size, upload.ContentType, nil
	}
	result, err := s.imageProcessor.Process(ctx, upload, s.imageMaxDimension)
	if err != nil {
		return nil, 0, "", err
	}
	return bytes.NewReader(result.Bytes), int64(len(result.Bytes)), result.ContentType, nil
}

func (s *GalleryService) List(ctx context.Context) ([]domain.GalleryItem, error) {
	items, err := s.gallery.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.GalleryItem{}
	}
	return items, nil
}

func (s *GalleryService) UpdateCaption(ctx context.Context, id uuid.UUID, caption string) (*domain.GalleryItem, error) {
	current, err := s.gallery.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}
	caption = strings.TrimSpace(caption)
	item, err := s.gallery.UpdateCaption(ctx, id, caption)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrGalleryNotFound
		}
		return nil, err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionUpdate,
		Resource:   domain.ResourceGallery,
		ResourceID: id.String(),
		Details:    "Updated gallery caption",
		Changes:    domain.ChangeSet{"caption": {From: current.Caption, To: caption}},
	})
	return item, nil
}

// Delete removes the gallery entry; the stored object is removed best-effort.
func (s *GalleryService) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.gallery.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrGalleryNotFound
		}
		return err
	}
	if err := s.gallery.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrGalleryNotFound
		}
		return err
	}
	if item.ObjectKey != "" {
		s.removeObject(item.ObjectKey)
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionDelete,
		Resource:   domain.ResourceGallery,
		ResourceID: id.String(),
		Details:    fmt.Sprintf("Deleted gallery item %s", item.Path),
	})
	return nil
}

func (s *GalleryService) removeObject(objectKey string) {
	if s.storage == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.storage.Remove(ctx, s.bucket, objectKey); err != nil {
		log.Printf("gallery: failed to remove object %s: %v", objectKey, err)
	}
}

func safeImageExtension(contentType, fileName string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	if ext := strings.ToLower(filepath.Ext(fileName)); ext != "" {
		return ext
	}
	return ".bin"
}
