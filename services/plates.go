package services

import (
	"context"

	"screen-ai/apperr"
	"screen-ai/models"
	"screen-ai/platemap"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const barcodeTaken = "plate with this barcode already exists"

// PlateInput ist der Body für Anlegen und Ändern einer Platte. Rows und
// Columns werden nur beim Anlegen gelesen; fehlen sie, gilt 16 x 24.
type PlateInput struct {
	Name        *string `json:"name"`
	Barcode     *string `json:"barcode"`
	Description *string `json:"description"`
	Rows        *int    `json:"rows"`
	Columns     *int    `json:"columns"`
}

type PlateService struct {
	DB          *gorm.DB
	Logger      *zap.Logger
	Repos       *Repos
	Guard       *Guard
	Aggregation *AggregationService
	Cleaner     *BlobCleaner
}

func NewPlateService(db *gorm.DB, logger *zap.Logger, r *Repos, guard *Guard, agg *AggregationService, cleaner *BlobCleaner) *PlateService {
	return &PlateService{DB: db, Logger: logger.With(zap.String("service", "PlateService")), Repos: r, Guard: guard, Aggregation: agg, Cleaner: cleaner}
}

func (s *PlateService) List(ctx context.Context, userID, experimentID string, page Page) (*List[PlateView], error) {
	var out *List[PlateView]
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, ExperimentRef(experimentID)); err != nil {
			return err
		}
		plates, total, err := s.Repos.Plates.ListByExperiment(ctx, tx, experimentID, page)
		if err != nil {
			return err
		}
		ids := make([]string, len(plates))
		for i, p := range plates {
			ids[i] = p.ID
		}
		counts, err := s.Aggregation.WellCounts(ctx, tx, ids)
		if err != nil {
			return err
		}
		items := make([]PlateView, len(plates))
		for i, p := range plates {
			items[i] = newPlateView(p, counts[p.ID])
		}
		out = newList(items, total, page)
		return nil
	})
	return out, err
}

func (s *PlateService) Get(ctx context.Context, userID, experimentID, plateID string) (*PlateView, error) {
	var out *PlateView
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = s.load(ctx, tx, userID, experimentID, plateID)
		return err
	})
	return out, err
}

func (s *PlateService) load(ctx context.Context, tx *gorm.DB, userID, experimentID, plateID string) (*PlateView, error) {
	if err := s.Guard.Check(ctx, tx, userID, PlateRef(plateID), ExperimentRef(experimentID)); err != nil {
		return nil, err
	}
	p, err := s.Repos.Plates.GetByID(ctx, tx, plateID)
	if err != nil {
		return nil, notFound(err, "plate")
	}
	n, err := s.Aggregation.WellCount(ctx, tx, plateID)
	if err != nil {
		return nil, err
	}
	view := newPlateView(p, n)
	return &view, nil
}

func (s *PlateService) Create(ctx context.Context, userID, experimentID string, in PlateInput) (*PlateView, error) {
	name, err := requireName("name", in.Name)
	if err != nil {
		return nil, err
	}
	rows, columns := platemap.DefaultRows, platemap.DefaultColumns
	if in.Rows != nil {
		rows = *in.Rows
	}
	if in.Columns != nil {
		columns = *in.Columns
	}
	if err := platemap.ValidateDimensions(rows, columns); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	p := &models.Plate{
		Name:         name,
		Barcode:      emptyToNil(in.Barcode),
		Description:  in.Description,
		ExperimentID: experimentID,
		Rows:         rows,
		Columns:      columns,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, ExperimentRef(experimentID)); err != nil {
			return err
		}
		return conflict(s.Repos.Plates.Create(ctx, tx, p), barcodeTaken)
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Plate created", zap.String("plate_id", p.ID), zap.String("format", p.FormatName()))
	view := newPlateView(p, 0)
	return &view, nil
}

// Update ändert nur Name, Barcode und Beschreibung; die Abmessungen sind fix.
func (s *PlateService) Update(ctx context.Context, userID, experimentID, plateID string, in PlateInput) (*PlateView, error) {
	if in.Rows != nil || in.Columns != nil {
		return nil, apperr.Validation("plate dimensions cannot be changed")
	}
	fields := map[string]any{}
	if in.Name != nil {
		name, err := requireName("name", in.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if in.Barcode != nil {
		fields["barcode"] = emptyToNil(in.Barcode)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}

	var out *PlateView
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		view, err := s.load(ctx, tx, userID, experimentID, plateID)
		if err != nil {
			return err
		}
		if err := s.Repos.Plates.Update(ctx, tx, &view.Plate, fields); err != nil {
			return conflict(err, barcodeTaken)
		}
		updated := newPlateView(&view.Plate, view.WellCount)
		out = &updated
		return nil
	})
	return out, err
}

func (s *PlateService) Delete(ctx context.Context, userID, experimentID, plateID string) error {
	var keys []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, PlateRef(plateID), ExperimentRef(experimentID)); err != nil {
			return err
		}
		var err error
		if keys, err = s.Repos.Images.KeysUnder(ctx, tx, models.KindPlate, plateID); err != nil {
			return err
		}
		return notFound(s.Repos.Plates.Delete(ctx, tx, plateID), "plate")
	})
	if err != nil {
		return err
	}
	s.Cleaner.Remove(ctx, keys)
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
