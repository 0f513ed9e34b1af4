package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"
	"time"

	"screen-ai/apperr"
	"screen-ai/metrics"
	"screen-ai/models"
	"screen-ai/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "golang.org/x/image/tiff"
	"gorm.io/gorm"
)

// ImageInput registriert ein Bild, das bereits im Blob-Store liegt.
type ImageInput struct {
	StorageKey       *string  `json:"storage_key"`
	ThumbnailKey     *string  `json:"thumbnail_key"`
	FieldIndex       int      `json:"field_index"`
	Channel          *string  `json:"channel"`
	ChannelIndex     int      `json:"channel_index"`
	Width            *int     `json:"width"`
	Height           *int     `json:"height"`
	PixelSizeUM      *float64 `json:"pixel_size_um"`
	OriginalFilename *string  `json:"original_filename"`
}

// Upload ist eine hochgeladene Datei.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

// UploadInput beschreibt einen Multipart-Upload mit optionalem Vorschaubild.
type UploadInput struct {
	File         Upload
	Thumbnail    *Upload
	Channel      string
	FieldIndex   int
	ChannelIndex int
	PixelSizeUM  *float64
}

type ImageService struct {
	DB         *gorm.DB
	Logger     *zap.Logger
	Repos      *Repos
	Guard      *Guard
	Store      storage.Store
	Cleaner    *BlobCleaner
	PresignTTL time.Duration
}

func NewImageService(db *gorm.DB, logger *zap.Logger, r *Repos, guard *Guard, store storage.Store, cleaner *BlobCleaner, presignTTL time.Duration) *ImageService {
	return &ImageService{
		DB:         db,
		Logger:     logger.With(zap.String("service", "ImageService")),
		Repos:      r,
		Guard:      guard,
		Store:      store,
		Cleaner:    cleaner,
		PresignTTL: presignTTL,
	}
}

func imageRef(id string) Ref { return Ref{Kind: models.KindImage, ID: id} }

func (s *ImageService) List(ctx context.Context, userID, wellID string, page Page) (*List[*models.Image], error) {
	var out *List[*models.Image]
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, WellRef(wellID)); err != nil {
			return err
		}
		items, total, err := s.Repos.Images.ListByWell(ctx, tx, wellID, page)
		if err != nil {
			return err
		}
		out = newList(items, total, page)
		return nil
	})
	return out, err
}

func (s *ImageService) Get(ctx context.Context, userID, imageID string) (*models.Image, error) {
	var out *models.Image
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = s.load(ctx, tx, userID, imageID)
		return err
	})
	return out, err
}

func (s *ImageService) load(ctx context.Context, tx *gorm.DB, userID, imageID string) (*models.Image, error) {
	if err := s.Guard.Check(ctx, tx, userID, imageRef(imageID)); err != nil {
		return nil, err
	}
	img, err := s.Repos.Images.GetByID(ctx, tx, imageID)
	if err != nil {
		return nil, notFound(err, "image")
	}
	return img, nil
}

// Create registriert Metadaten zu einem bereits abgelegten Objekt.
func (s *ImageService) Create(ctx context.Context, userID, wellID string, in ImageInput) (*models.Image, error) {
	key, err := requireName("storage_key", in.StorageKey)
	if err != nil {
		return nil, err
	}
	channel, err := requireName("channel", in.Channel)
	if err != nil {
		return nil, err
	}
	if in.FieldIndex < 0 || in.ChannelIndex < 0 {
		return nil, apperr.Validation("field_index and channel_index must not be negative")
	}
	img := &models.Image{
		WellID:           wellID,
		StorageKey:       key,
		ThumbnailKey:     emptyToNil(in.ThumbnailKey),
		FieldIndex:       in.FieldIndex,
		Channel:          channel,
		ChannelIndex:     in.ChannelIndex,
		Width:            in.Width,
		Height:           in.Height,
		PixelSizeUM:      in.PixelSizeUM,
		OriginalFilename: in.OriginalFilename,
	}
	if err := s.insert(ctx, userID, img); err != nil {
		return nil, err
	}
	return img, nil
}

// UploadImage legt Datei und Vorschaubild im Blob-Store ab und registriert
// das Bild. Scheitert das Einfügen, werden die Objekte wieder entfernt.
func (s *ImageService) UploadImage(ctx context.Context, userID, wellID string, in UploadInput) (*models.Image, error) {
	channel := strings.TrimSpace(in.Channel)
	if channel == "" {
		return nil, apperr.Validation("channel is required")
	}
	if in.FieldIndex < 0 || in.ChannelIndex < 0 {
		return nil, apperr.Validation("field_index and channel_index must not be negative")
	}
	// Vorab prüfen, damit fremde Wells keine Objekte im Store hinterlassen.
	if err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.Guard.Check(ctx, tx, userID, WellRef(wellID))
	}); err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("wells/%s/%s", wellID, uuid.NewString())
	filename := path.Base(in.File.Filename)
	img := &models.Image{
		WellID:           wellID,
		StorageKey:       prefix + "/" + filename,
		FieldIndex:       in.FieldIndex,
		Channel:          channel,
		ChannelIndex:     in.ChannelIndex,
		PixelSizeUM:      in.PixelSizeUM,
		OriginalFilename: &filename,
	}
	if cfg, _, err := image.DecodeConfig(in.File.Body); err == nil {
		img.Width, img.Height = &cfg.Width, &cfg.Height
	}
	if _, err := in.File.Body.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	if err := s.Store.Put(ctx, img.StorageKey, in.File.Body, in.File.Size, in.File.ContentType); err != nil {
		return nil, err
	}
	if in.Thumbnail != nil {
		key := prefix + "/thumb_" + path.Base(in.Thumbnail.Filename)
		if err := s.Store.Put(ctx, key, in.Thumbnail.Body, in.Thumbnail.Size, in.Thumbnail.ContentType); err != nil {
			s.Cleaner.Remove(ctx, img.Keys())
			return nil, err
		}
		img.ThumbnailKey = &key
	}

	if err := s.insert(ctx, userID, img); err != nil {
		s.Cleaner.Remove(ctx, img.Keys())
		return nil, err
	}
	metrics.ImagesUploaded.Inc()
	s.Logger.Info("Image uploaded", zap.String("image_id", img.ID), zap.String("key", img.StorageKey))
	return img, nil
}

func (s *ImageService) insert(ctx context.Context, userID string, img *models.Image) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, WellRef(img.WellID)); err != nil {
			return err
		}
		return s.Repos.Images.Create(ctx, tx, img)
	})
}

// ContentURL liefert eine vorsignierte Download-URL für das Originalbild.
func (s *ImageService) ContentURL(ctx context.Context, userID, imageID string) (string, error) {
	img, err := s.Get(ctx, userID, imageID)
	if err != nil {
		return "", err
	}
	return s.presign(ctx, img.StorageKey, "image content")
}

// ThumbnailURL liefert eine vorsignierte URL für das Vorschaubild.
func (s *ImageService) ThumbnailURL(ctx context.Context, userID, imageID string) (string, error) {
	img, err := s.Get(ctx, userID, imageID)
	if err != nil {
		return "", err
	}
	if img.ThumbnailKey == nil {
		return "", apperr.NotFound("thumbnail")
	}
	return s.presign(ctx, *img.ThumbnailKey, "thumbnail")
}

func (s *ImageService) presign(ctx context.Context, key, resource string) (string, error) {
	url, err := s.Store.PresignURL(ctx, key, s.PresignTTL)
	if errors.Is(err, storage.ErrNotFound) {
		return "", apperr.NotFound(resource)
	}
	return url, err
}

func (s *ImageService) Delete(ctx context.Context, userID, imageID string) error {
	var keys []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		img, err := s.load(ctx, tx, userID, imageID)
		if err != nil {
			return err
		}
		keys = img.Keys()
		return notFound(s.Repos.Images.Delete(ctx, tx, imageID), "image")
	})
	if err != nil {
		return err
	}
	s.Cleaner.Remove(ctx, keys)
	return nil
}
