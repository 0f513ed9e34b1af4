package repos

import (
	"context"

	"screen-ai/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	crud[models.Project]
}

func NewProjectRepo(db *gorm.DB, log *zap.Logger) *ProjectRepo {
	return &ProjectRepo{newCrud[models.Project](db, log, "ProjectRepo")}
}

// ListByOwner liefert nur Projekte des Besitzers, neueste zuerst.
func (r *ProjectRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID string, page Page) ([]*models.Project, int64, error) {
	return r.list(ctx, tx, where("owner_id = ?", ownerID), "created_at DESC, id", page)
}
