package repos

import (
	"context"

	"screen-ai/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CurveRepo struct {
	crud[models.DoseResponseCurve]
}

func NewCurveRepo(db *gorm.DB, log *zap.Logger) *CurveRepo {
	return &CurveRepo{newCrud[models.DoseResponseCurve](db, log, "CurveRepo")}
}

func (r *CurveRepo) ListByExperiment(ctx context.Context, tx *gorm.DB, experimentID string, page Page) ([]*models.DoseResponseCurve, int64, error) {
	return r.list(ctx, tx, where("experiment_id = ?", experimentID), "created_at, id", page)
}

// ExistsFor prüft, ob für (Experiment, Substanz) bereits eine Kurve existiert.
func (r *CurveRepo) ExistsFor(ctx context.Context, tx *gorm.DB, experimentID, compoundID string) (bool, error) {
	var n int64
	err := r.conn(ctx, tx).Model(&models.DoseResponseCurve{}).
		Where("experiment_id = ? AND compound_id = ?", experimentID, compoundID).
		Count(&n).Error
	return n > 0, err
}

// ReferencesCompound prüft, ob irgendeine Kurve die Substanz verwendet.
func (r *CurveRepo) ReferencesCompound(ctx context.Context, tx *gorm.DB, compoundID string) (bool, error) {
	var n int64
	err := r.conn(ctx, tx).Model(&models.DoseResponseCurve{}).
		Where("compound_id = ?", compoundID).
		Count(&n).Error
	return n > 0, err
}
