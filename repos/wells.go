package repos

import (
	"context"

	"screen-ai/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Raster-Reihenfolge: zeilenweise von links nach rechts.
const wellOrder = "row_index, column_index"

type WellRepo struct {
	crud[models.Well]
}

func NewWellRepo(db *gorm.DB, log *zap.Logger) *WellRepo {
	return &WellRepo{newCrud[models.Well](db, log, "WellRepo")}
}

func (r *WellRepo) ListByPlate(ctx context.Context, tx *gorm.DB, plateID string, page Page) ([]*models.Well, int64, error) {
	return r.list(ctx, tx, where("plate_id = ?", plateID), wellOrder, page)
}

// AllByPlate liefert alle Wells einer Platte in Raster-Reihenfolge.
func (r *WellRepo) AllByPlate(ctx context.Context, tx *gorm.DB, plateID string) ([]*models.Well, error) {
	wells := []*models.Well{}
	err := r.conn(ctx, tx).Where("plate_id = ?", plateID).Order(wellOrder).Find(&wells).Error
	return wells, err
}

// ExistsAt prüft, ob die Position auf der Platte bereits belegt ist.
func (r *WellRepo) ExistsAt(ctx context.Context, tx *gorm.DB, plateID string, row, column int) (bool, error) {
	var count int64
	err := r.conn(ctx, tx).Model(&models.Well{}).
		Where("plate_id = ? AND row_index = ? AND column_index = ?", plateID, row, column).
		Count(&count).Error
	return count > 0, err
}

// GetWithCompound lädt das Well samt referenzierter Substanz.
func (r *WellRepo) GetWithCompound(ctx context.Context, tx *gorm.DB, id string) (*models.Well, error) {
	var w models.Well
	if err := r.conn(ctx, tx).Preload("Compound").Where("id = ?", id).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}
