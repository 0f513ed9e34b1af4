package repos

import (
	"context"

	"screen-ai/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PlateRepo struct {
	crud[models.Plate]
}

func NewPlateRepo(db *gorm.DB, log *zap.Logger) *PlateRepo {
	return &PlateRepo{newCrud[models.Plate](db, log, "PlateRepo")}
}

func (r *PlateRepo) ListByExperiment(ctx context.Context, tx *gorm.DB, experimentID string, page Page) ([]*models.Plate, int64, error) {
	return r.list(ctx, tx, where("experiment_id = ?", experimentID), "created_at, id", page)
}
