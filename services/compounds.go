package services

import (
	"context"
	"strings"

	"screen-ai/apperr"
	"screen-ai/database"
	"screen-ai/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	externalIDTaken = "compound with this external_id already exists"
	compoundInUse   = "compound is referenced by dose response curves"
)

type CompoundInput struct {
	ExternalID *string `json:"external_id"`
	Name       *string `json:"name"`
}

// CompoundService verwaltet die gemeinsame Substanzbibliothek. Substanzen
// gehören keinem Benutzer; jeder angemeldete Benutzer darf sie pflegen.
type CompoundService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Repos  *Repos
}

func NewCompoundService(db *gorm.DB, logger *zap.Logger, r *Repos) *CompoundService {
	return &CompoundService{DB: db, Logger: logger.With(zap.String("service", "CompoundService")), Repos: r}
}

func (s *CompoundService) List(ctx context.Context, page Page) (*List[*models.Compound], error) {
	items, total, err := s.Repos.Compounds.List(ctx, s.DB, page)
	if err != nil {
		return nil, err
	}
	return newList(items, total, page), nil
}

func (s *CompoundService) Get(ctx context.Context, compoundID string) (*models.Compound, error) {
	c, err := s.Repos.Compounds.GetByID(ctx, s.DB, compoundID)
	if err != nil {
		return nil, notFound(err, "compound")
	}
	return c, nil
}

func (s *CompoundService) Create(ctx context.Context, in CompoundInput) (*models.Compound, error) {
	externalID, err := requireName("external_id", in.ExternalID)
	if err != nil {
		return nil, err
	}
	c := &models.Compound{ExternalID: externalID, Name: in.Name}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.Repos.Compounds.GetByExternalID(ctx, tx, externalID); err == nil {
			return apperr.Conflict(externalIDTaken)
		} else if !isNotFound(err) {
			return err
		}
		return conflict(s.Repos.Compounds.Create(ctx, tx, c), externalIDTaken)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Upsert legt die Substanz an oder aktualisiert ihren Namen (Seed-Import).
func (s *CompoundService) Upsert(ctx context.Context, externalID string, name *string) (*models.Compound, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, false, apperr.Validation("external_id is required")
	}
	var out *models.Compound
	created := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.Repos.Compounds.GetByExternalID(ctx, tx, externalID)
		switch {
		case err == nil:
			out = c
			if name == nil {
				return nil
			}
			return s.Repos.Compounds.Update(ctx, tx, c, map[string]any{"name": *name})
		case isNotFound(err):
			out = &models.Compound{ExternalID: externalID, Name: name}
			created = true
			return s.Repos.Compounds.Create(ctx, tx, out)
		default:
			return err
		}
	})
	return out, created, err
}

func (s *CompoundService) Update(ctx context.Context, compoundID string, in CompoundInput) (*models.Compound, error) {
	fields := map[string]any{}
	if in.ExternalID != nil {
		externalID, err := requireName("external_id", in.ExternalID)
		if err != nil {
			return nil, err
		}
		fields["external_id"] = externalID
	}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	var out *models.Compound
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.Repos.Compounds.GetByID(ctx, tx, compoundID)
		if err != nil {
			return notFound(err, "compound")
		}
		if err := s.Repos.Compounds.Update(ctx, tx, c, fields); err != nil {
			return conflict(err, externalIDTaken)
		}
		out = c
		return nil
	})
	return out, err
}

// Delete entfernt die Substanz; Wells verlieren die Referenz. Solange eine
// Dosis-Wirkungs-Kurve (auch eines anderen Benutzers) sie verwendet, wird das
// Löschen abgelehnt.
func (s *CompoundService) Delete(ctx context.Context, compoundID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.Repos.Compounds.GetByID(ctx, tx, compoundID); err != nil {
			return notFound(err, "compound")
		}
		used, err := s.Repos.Curves.ReferencesCompound(ctx, tx, compoundID)
		if err != nil {
			return err
		}
		if used {
			return apperr.Conflict(compoundInUse)
		}
		err = s.Repos.Compounds.Delete(ctx, tx, compoundID)
		if database.IsForeignKeyViolation(err) {
			return apperr.Conflict(compoundInUse)
		}
		return notFound(err, "compound")
	})
}
