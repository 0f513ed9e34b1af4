package repos

import (
	"context"

	"screen-ai/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ExperimentRepo struct {
	crud[models.Experiment]
}

func NewExperimentRepo(db *gorm.DB, log *zap.Logger) *ExperimentRepo {
	return &ExperimentRepo{newCrud[models.Experiment](db, log, "ExperimentRepo")}
}

func (r *ExperimentRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID string, page Page) ([]*models.Experiment, int64, error) {
	return r.list(ctx, tx, where("project_id = ?", projectID), "created_at DESC, id", page)
}
