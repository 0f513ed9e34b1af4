package repos

import (
	"context"

	"screen-ai/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reihenfolge, in der die letzte Analyse eines Wells zuletzt kommt.
const analysisOrder = "created_at, id"

type AnalysisRepo struct {
	crud[models.Analysis]
}

func NewAnalysisRepo(db *gorm.DB, log *zap.Logger) *AnalysisRepo {
	return &AnalysisRepo{newCrud[models.Analysis](db, log, "AnalysisRepo")}
}

func (r *AnalysisRepo) ListByWell(ctx context.Context, tx *gorm.DB, wellID string, page Page) ([]*models.Analysis, int64, error) {
	return r.list(ctx, tx, where("well_id = ?", wellID), analysisOrder, page)
}

// LatestByPlate liefert pro Well der Platte die jüngste Analyse
// (größtes created_at, bei Gleichstand größte id). Wells ohne Analyse fehlen in der Map.
// Ältere Läufe filtert bereits die Datenbank heraus.
func (r *AnalysisRepo) LatestByPlate(ctx context.Context, tx *gorm.DB, plateID string) (map[string]*models.Analysis, error) {
	var rows []*models.Analysis
	err := r.conn(ctx, tx).
		Select("analyses.*").
		Joins("JOIN wells ON wells.id = analyses.well_id").
		Where("wells.plate_id = ?", plateID).
		Where(`NOT EXISTS (SELECT 1 FROM analyses newer WHERE newer.well_id = analyses.well_id
			AND (newer.created_at > analyses.created_at
				OR (newer.created_at = analyses.created_at AND newer.id > analyses.id)))`).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	latest := make(map[string]*models.Analysis, len(rows))
	for _, a := range rows {
		latest[a.WellID] = a
	}
	return latest, nil
}
