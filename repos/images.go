package repos

import (
	"context"

	"screen-ai/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const imageOrder = "field_index, channel_index, created_at"

type ImageRepo struct {
	crud[models.Image]
}

func NewImageRepo(db *gorm.DB, log *zap.Logger) *ImageRepo {
	return &ImageRepo{newCrud[models.Image](db, log, "ImageRepo")}
}

func (r *ImageRepo) ListByWell(ctx context.Context, tx *gorm.DB, wellID string, page Page) ([]*models.Image, int64, error) {
	return r.list(ctx, tx, where("well_id = ?", wellID), imageOrder, page)
}

// AllByWell liefert alle Bilder eines Wells, sortiert nach Feld und Kanal.
func (r *ImageRepo) AllByWell(ctx context.Context, tx *gorm.DB, wellID string) ([]*models.Image, error) {
	images := []*models.Image{}
	err := r.conn(ctx, tx).Where("well_id = ?", wellID).Order(imageOrder).Find(&images).Error
	return images, err
}

// KeysUnder sammelt die Blob-Keys aller Bilder unterhalb der Ressource
// (kind, id), z.B. aller Bilder eines Projekts.
func (r *ImageRepo) KeysUnder(ctx context.Context, tx *gorm.DB, kind models.ResourceKind, id string) ([]string, error) {
	q, err := JoinUp(r.conn(ctx, tx).Model(&models.Image{}), models.KindImage, kind)
	if err != nil {
		return nil, err
	}
	var images []models.Image
	if err := q.Select("images.storage_key", "images.thumbnail_key").
		Where(kind.Table()+".id = ?", id).
		Find(&images).Error; err != nil {
		return nil, err
	}
	var keys []string
	for i := range images {
		keys = append(keys, images[i].Keys()...)
	}
	return keys, nil
}
