package services

import (
	"context"

	"screen-ai/apperr"
	"screen-ai/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const curveTaken = "dose response curve already exists for this compound"

// CurveInput enthält extern gefittete Parameter einer Dosis-Wirkungs-Kurve.
type CurveInput struct {
	CompoundID *string            `json:"compound_id"`
	IC50       *float64           `json:"ic50"`
	EC50       *float64           `json:"ec50"`
	HillSlope  *float64           `json:"hill_slope"`
	Top        *float64           `json:"top"`
	Bottom     *float64           `json:"bottom"`
	RSquared   *float64           `json:"r_squared"`
	DataPoints []models.DataPoint `json:"data_points"`
}

func (in CurveInput) validate() error {
	if in.RSquared != nil && (*in.RSquared < 0 || *in.RSquared > 1) {
		return apperr.Validation("r_squared must be between 0 and 1")
	}
	for _, p := range in.DataPoints {
		if p.Concentration < 0 {
			return apperr.Validation("data point concentration must not be negative")
		}
	}
	return nil
}

type CurveService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Repos  *Repos
	Guard  *Guard
}

func NewCurveService(db *gorm.DB, logger *zap.Logger, r *Repos, guard *Guard) *CurveService {
	return &CurveService{DB: db, Logger: logger.With(zap.String("service", "CurveService")), Repos: r, Guard: guard}
}

func curveRef(id string) Ref { return Ref{Kind: models.KindCurve, ID: id} }

func (s *CurveService) List(ctx context.Context, userID, experimentID string, page Page) (*List[*models.DoseResponseCurve], error) {
	var out *List[*models.DoseResponseCurve]
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, ExperimentRef(experimentID)); err != nil {
			return err
		}
		items, total, err := s.Repos.Curves.ListByExperiment(ctx, tx, experimentID, page)
		if err != nil {
			return err
		}
		out = newList(items, total, page)
		return nil
	})
	return out, err
}

func (s *CurveService) Get(ctx context.Context, userID, experimentID, curveID string) (*models.DoseResponseCurve, error) {
	var out *models.DoseResponseCurve
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = s.load(ctx, tx, userID, experimentID, curveID)
		return err
	})
	return out, err
}

func (s *CurveService) load(ctx context.Context, tx *gorm.DB, userID, experimentID, curveID string) (*models.DoseResponseCurve, error) {
	if err := s.Guard.Check(ctx, tx, userID, curveRef(curveID), ExperimentRef(experimentID)); err != nil {
		return nil, err
	}
	c, err := s.Repos.Curves.GetByID(ctx, tx, curveID)
	if err != nil {
		return nil, notFound(err, "dose response curve")
	}
	return c, nil
}

// Create speichert die Kurve; pro (Experiment, Substanz) gibt es höchstens eine.
func (s *CurveService) Create(ctx context.Context, userID, experimentID string, in CurveInput) (*models.DoseResponseCurve, error) {
	compoundID, err := requireName("compound_id", in.CompoundID)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	c := &models.DoseResponseCurve{
		ExperimentID: experimentID,
		CompoundID:   compoundID,
		IC50:         in.IC50,
		EC50:         in.EC50,
		HillSlope:    in.HillSlope,
		Top:          in.Top,
		Bottom:       in.Bottom,
		RSquared:     in.RSquared,
		DataPoints:   datatypes.JSONSlice[models.DataPoint](nonNilPoints(in.DataPoints)),
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, ExperimentRef(experimentID)); err != nil {
			return err
		}
		if err := requireCompound(ctx, tx, s.Repos, &compoundID); err != nil {
			return err
		}
		exists, err := s.Repos.Curves.ExistsFor(ctx, tx, experimentID, compoundID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict(curveTaken)
		}
		return conflict(s.Repos.Curves.Create(ctx, tx, c), curveTaken)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Update ändert die Fit-Parameter; die Zuordnung zu Experiment und Substanz bleibt.
func (s *CurveService) Update(ctx context.Context, userID, experimentID, curveID string, in CurveInput) (*models.DoseResponseCurve, error) {
	if in.CompoundID != nil {
		return nil, apperr.Validation("compound_id cannot be changed")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	for column, v := range map[string]*float64{
		"ic50":       in.IC50,
		"ec50":       in.EC50,
		"hill_slope": in.HillSlope,
		"top":        in.Top,
		"bottom":     in.Bottom,
		"r_squared":  in.RSquared,
	} {
		if v != nil {
			fields[column] = *v
		}
	}
	if in.DataPoints != nil {
		fields["data_points"] = datatypes.JSONSlice[models.DataPoint](in.DataPoints)
	}

	var out *models.DoseResponseCurve
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.load(ctx, tx, userID, experimentID, curveID)
		if err != nil {
			return err
		}
		if err := s.Repos.Curves.Update(ctx, tx, c, fields); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func (s *CurveService) Delete(ctx context.Context, userID, experimentID, curveID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, curveRef(curveID), ExperimentRef(experimentID)); err != nil {
			return err
		}
		return notFound(s.Repos.Curves.Delete(ctx, tx, curveID), "dose response curve")
	})
}

func nonNilPoints(points []models.DataPoint) []models.DataPoint {
	if points == nil {
		return []models.DataPoint{}
	}
	return points
}
