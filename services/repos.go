package services

import (
	"context"
	"strings"

	"screen-ai/apperr"
	"screen-ai/database"
	"screen-ai/repos"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repos bündelt alle Repositories, die von den Services gemeinsam genutzt werden.
type Repos struct {
	Users       *repos.UserRepo
	Projects    *repos.ProjectRepo
	Experiments *repos.ExperimentRepo
	Plates      *repos.PlateRepo
	Wells       *repos.WellRepo
	Compounds   *repos.CompoundRepo
	Images      *repos.ImageRepo
	Analyses    *repos.AnalysisRepo
	Curves      *repos.CurveRepo
	Counts      *repos.CountRepo
}

// NewRepos erstellt alle Repositories auf derselben Verbindung.
func NewRepos(db *gorm.DB, logger *zap.Logger) *Repos {
	return &Repos{
		Users:       repos.NewUserRepo(db, logger),
		Projects:    repos.NewProjectRepo(db, logger),
		Experiments: repos.NewExperimentRepo(db, logger),
		Plates:      repos.NewPlateRepo(db, logger),
		Wells:       repos.NewWellRepo(db, logger),
		Compounds:   repos.NewCompoundRepo(db, logger),
		Images:      repos.NewImageRepo(db, logger),
		Analyses:    repos.NewAnalysisRepo(db, logger),
		Curves:      repos.NewCurveRepo(db, logger),
		Counts:      repos.NewCountRepo(db, logger),
	}
}

// Page ist die Paginierung, wie sie von der API durchgereicht wird.
type Page = repos.Page

// List ist das Ergebnis einer paginierten Abfrage.
type List[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
}

func newList[T any](items []T, total int64, page Page) *List[T] {
	if items == nil {
		items = []T{}
	}
	return &List[T]{Items: items, Total: total, Skip: page.Skip, Limit: page.Limit}
}

// notFound übersetzt fehlende Datensätze in apperr.NotFound.
func notFound(err error, resource string) error {
	if repos.IsNotFound(err) {
		return apperr.NotFound(resource)
	}
	return err
}

func isNotFound(err error) bool { return repos.IsNotFound(err) }

// conflict übersetzt Unique-Verletzungen in apperr.Conflict.
func conflict(err error, msg string) error {
	if database.IsUniqueViolation(err) {
		return apperr.Conflict(msg)
	}
	return err
}

// requireName prüft Pflicht-Namen und entfernt Leerraum.
func requireName(field string, value *string) (string, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "", apperr.Validation("%s is required", field)
	}
	return strings.TrimSpace(*value), nil
}

// requireCompound prüft, ob eine referenzierte Substanz existiert. nil ist erlaubt.
func requireCompound(ctx context.Context, tx *gorm.DB, r *Repos, compoundID *string) error {
	if compoundID == nil {
		return nil
	}
	if _, err := r.Compounds.GetByID(ctx, tx, *compoundID); err != nil {
		if repos.IsNotFound(err) {
			return apperr.Validation("compound %s does not exist", *compoundID)
		}
		return err
	}
	return nil
}
