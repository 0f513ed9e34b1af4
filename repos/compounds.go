package repos

import (
	"context"

	"screen-ai/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompoundRepo struct {
	crud[models.Compound]
}

func NewCompoundRepo(db *gorm.DB, log *zap.Logger) *CompoundRepo {
	return &CompoundRepo{newCrud[models.Compound](db, log, "CompoundRepo")}
}

func (r *CompoundRepo) List(ctx context.Context, tx *gorm.DB, page Page) ([]*models.Compound, int64, error) {
	return r.list(ctx, tx, all, "external_id", page)
}

func (r *CompoundRepo) GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*models.Compound, error) {
	var c models.Compound
	if err := r.conn(ctx, tx).Where("external_id = ?", externalID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
