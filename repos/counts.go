package repos

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CountRepo zählt direkte Kinder einer Ressource. Die Werte werden bei jedem
// Lesen neu berechnet und nirgends zwischengespeichert.
type CountRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCountRepo(db *gorm.DB, log *zap.Logger) *CountRepo {
	return &CountRepo{db: db, log: log.With(zap.String("repo", "CountRepo"))}
}

// Children zählt die Zeilen von table mit parentKey = parentID.
func (r *CountRepo) Children(ctx context.Context, tx *gorm.DB, table, parentKey, parentID string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var n int64
	err := tx.WithContext(ctx).Table(table).Where(parentKey+" = ?", parentID).Count(&n).Error
	return n, err
}

// ChildrenGrouped zählt für mehrere Eltern auf einmal; fehlende Eltern haben 0.
func (r *CountRepo) ChildrenGrouped(ctx context.Context, tx *gorm.DB, table, parentKey string, parentIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return out, nil
	}
	if tx == nil {
		tx = r.db
	}
	var rows []struct {
		ParentID string
		N        int64
	}
	err := tx.WithContext(ctx).Table(table).
		Select(parentKey+" AS parent_id, COUNT(*) AS n").
		Where(parentKey+" IN ?", parentIDs).
		Group(parentKey).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ParentID] = row.N
	}
	return out, nil
}
