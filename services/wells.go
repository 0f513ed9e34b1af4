package services

import (
	"context"
	"fmt"

	"screen-ai/apperr"
	"screen-ai/metrics"
	"screen-ai/models"
	"screen-ai/platemap"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const positionTaken = "well already exists at this position"

// WellInput ist der Body von POST/PATCH /api/plates/{plate_id}/wells.
// Row und Column werden nur beim Anlegen gelesen.
type WellInput struct {
	Row               *int     `json:"row"`
	Column            *int     `json:"column"`
	CompoundID        *string  `json:"compound_id"`
	Concentration     *float64 `json:"concentration"`
	ConcentrationUnit *string  `json:"concentration_unit"`
	WellType          *string  `json:"well_type"`
}

type WellService struct {
	DB      *gorm.DB
	Logger  *zap.Logger
	Repos   *Repos
	Guard   *Guard
	Cleaner *BlobCleaner
}

func NewWellService(db *gorm.DB, logger *zap.Logger, r *Repos, guard *Guard, cleaner *BlobCleaner) *WellService {
	return &WellService{DB: db, Logger: logger.With(zap.String("service", "WellService")), Repos: r, Guard: guard, Cleaner: cleaner}
}

func (s *WellService) List(ctx context.Context, userID, plateID string, page Page) (*List[WellView], error) {
	var out *List[WellView]
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, PlateRef(plateID)); err != nil {
			return err
		}
		wells, total, err := s.Repos.Wells.ListByPlate(ctx, tx, plateID, page)
		if err != nil {
			return err
		}
		items := make([]WellView, len(wells))
		for i, w := range wells {
			items[i] = newWellView(w)
		}
		out = newList(items, total, page)
		return nil
	})
	return out, err
}

// Get lädt das Well samt Substanz.
func (s *WellService) Get(ctx context.Context, userID, plateID, wellID string) (*WellView, error) {
	var out *WellView
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, WellRef(wellID), PlateRef(plateID)); err != nil {
			return err
		}
		w, err := s.Repos.Wells.GetWithCompound(ctx, tx, wellID)
		if err != nil {
			return notFound(err, "well")
		}
		view := newWellView(w)
		out = &view
		return nil
	})
	return out, err
}

// Create legt ein Well an:
//  1. Platte laden (NotFound, wenn sie fehlt oder nicht dem Benutzer gehört)
//  2. 0 <= row < rows und 0 <= column < columns prüfen
//  3. belegte Position ablehnen
//  4. einfügen; der Unique-Index (plate_id, row, column) fängt parallele Anlagen ab
func (s *WellService) Create(ctx context.Context, userID, plateID string, in WellInput) (*WellView, error) {
	if in.Row == nil || in.Column == nil {
		return nil, apperr.Validation("row and column are required")
	}
	wellType := models.WellTypeSample
	if in.WellType != nil {
		wellType = *in.WellType
	}
	if !models.ValidWellType(wellType) {
		return nil, invalidWellType()
	}
	unit := "uM"
	if in.ConcentrationUnit != nil && *in.ConcentrationUnit != "" {
		unit = *in.ConcentrationUnit
	}

	w := &models.Well{
		PlateID:           plateID,
		Row:               *in.Row,
		Column:            *in.Column,
		CompoundID:        emptyToNil(in.CompoundID),
		Concentration:     in.Concentration,
		ConcentrationUnit: unit,
		WellType:          wellType,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, PlateRef(plateID)); err != nil {
			return err
		}
		plate, err := s.Repos.Plates.GetByID(ctx, tx, plateID)
		if err != nil {
			return notFound(err, "plate")
		}
		if err := platemap.ValidatePosition(plate.Rows, plate.Columns, w.Row, w.Column); err != nil {
			return apperr.Validation("%s", err.Error())
		}
		if err := requireCompound(ctx, tx, s.Repos, w.CompoundID); err != nil {
			return err
		}
		taken, err := s.Repos.Wells.ExistsAt(ctx, tx, plateID, w.Row, w.Column)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict(positionTaken)
		}
		return conflict(s.Repos.Wells.Create(ctx, tx, w), positionTaken)
	})
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			metrics.WellConflicts.Inc()
		}
		return nil, err
	}
	metrics.WellsCreated.Inc()
	view := newWellView(w)
	return &view, nil
}

// Update ändert Substanz, Konzentration und Typ. Die Position ist fix.
func (s *WellService) Update(ctx context.Context, userID, plateID, wellID string, in WellInput) (*WellView, error) {
	if in.Row != nil || in.Column != nil {
		return nil, apperr.Validation("well position cannot be changed")
	}
	fields := map[string]any{}
	if in.CompoundID != nil {
		fields["compound_id"] = emptyToNil(in.CompoundID)
	}
	if in.Concentration != nil {
		fields["concentration"] = *in.Concentration
	}
	if in.ConcentrationUnit != nil {
		fields["concentration_unit"] = *in.ConcentrationUnit
	}
	if in.WellType != nil {
		if !models.ValidWellType(*in.WellType) {
			return nil, invalidWellType()
		}
		fields["well_type"] = *in.WellType
	}

	var out *WellView
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, WellRef(wellID), PlateRef(plateID)); err != nil {
			return err
		}
		if err := requireCompound(ctx, tx, s.Repos, emptyToNil(in.CompoundID)); err != nil {
			return err
		}
		w, err := s.Repos.Wells.GetByID(ctx, tx, wellID)
		if err != nil {
			return notFound(err, "well")
		}
		if err := s.Repos.Wells.Update(ctx, tx, w, fields); err != nil {
			return err
		}
		view := newWellView(w)
		out = &view
		return nil
	})
	return out, err
}

func (s *WellService) Delete(ctx context.Context, userID, plateID, wellID string) error {
	var keys []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, WellRef(wellID), PlateRef(plateID)); err != nil {
			return err
		}
		var err error
		if keys, err = s.Repos.Images.KeysUnder(ctx, tx, models.KindWell, wellID); err != nil {
			return err
		}
		return notFound(s.Repos.Wells.Delete(ctx, tx, wellID), "well")
	})
	if err != nil {
		return err
	}
	s.Cleaner.Remove(ctx, keys)
	return nil
}

// Thumbnails listet die Bilder eines Wells nach Feld und Kanal sortiert.
func (s *WellService) Thumbnails(ctx context.Context, userID, plateID, wellID string) ([]Thumbnail, error) {
	var out []Thumbnail
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, WellRef(wellID), PlateRef(plateID)); err != nil {
			return err
		}
		images, err := s.Repos.Images.AllByWell(ctx, tx, wellID)
		if err != nil {
			return err
		}
		out = make([]Thumbnail, len(images))
		for i, img := range images {
			out[i] = Thumbnail{ID: img.ID, Channel: img.Channel, ChannelIndex: img.ChannelIndex, FieldIndex: img.FieldIndex}
			if img.ThumbnailKey != nil {
				url := fmt.Sprintf("/api/images/%s/thumbnail", img.ID)
				out[i].ThumbnailURL = &url
			}
		}
		return nil
	})
	return out, err
}

func invalidWellType() error {
	return apperr.Validation("well_type must be one of %s, %s, %s, %s",
		models.WellTypeSample, models.WellTypePositiveControl, models.WellTypeNegativeControl, models.WellTypeEmpty)
}
