package services

import (
	"screen-ai/config"
	"screen-ai/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services enthält alle fachlichen Services, verdrahtet mit denselben
// Repositories, Guard und Blob-Store.
type Services struct {
	Repos       *Repos
	Guard       *Guard
	Tokens      *TokenService
	Auth        *AuthService
	Aggregation *AggregationService
	Projects    *ProjectService
	Experiments *ExperimentService
	Plates      *PlateService
	Wells       *WellService
	Compounds   *CompoundService
	Images      *ImageService
	Analyses    *AnalysisService
	Curves      *CurveService
}

// New erstellt alle Services aus der einmal geladenen Konfiguration.
func New(cfg *config.Config, db *gorm.DB, logger *zap.Logger, store storage.Store) *Services {
	r := NewRepos(db, logger)
	guard := NewGuard(logger)
	tokens := NewTokenService(cfg.SecretKey, cfg.JWTIssuer, cfg.AccessTokenTTL())
	agg := NewAggregationService(db, logger, r, guard)
	cleaner := NewBlobCleaner(store, logger)

	return &Services{
		Repos:       r,
		Guard:       guard,
		Tokens:      tokens,
		Auth:        NewAuthService(db, logger, r, tokens),
		Aggregation: agg,
		Projects:    NewProjectService(db, logger, r, guard, agg, cleaner),
		Experiments: NewExperimentService(db, logger, r, guard, agg, cleaner),
		Plates:      NewPlateService(db, logger, r, guard, agg, cleaner),
		Wells:       NewWellService(db, logger, r, guard, cleaner),
		Compounds:   NewCompoundService(db, logger, r),
		Images:      NewImageService(db, logger, r, guard, store, cleaner, cfg.S3PresignTTL),
		Analyses:    NewAnalysisService(db, logger, r, guard),
		Curves:      NewCurveService(db, logger, r, guard),
	}
}
