package services

import (
	"context"

	"screen-ai/apperr"
	"screen-ai/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalysisInput enthält extern berechnete Ergebnisse für ein Well.
type AnalysisInput struct {
	Name            *string           `json:"name"`
	AnalysisType    *string           `json:"analysis_type"`
	CellCount       *int              `json:"cell_count"`
	Viability       *float64          `json:"viability"`
	ZScore          *float64          `json:"z_score"`
	MeanIntensity   *float64          `json:"mean_intensity"`
	MedianIntensity *float64          `json:"median_intensity"`
	StdIntensity    *float64          `json:"std_intensity"`
	PercentEffect   *float64          `json:"percent_effect"`
	Metrics         datatypes.JSONMap `json:"metrics"`
	RawData         datatypes.JSON    `json:"raw_data"`
}

func (in AnalysisInput) validate() error {
	if in.Viability != nil && (*in.Viability < 0 || *in.Viability > 100) {
		return apperr.Validation("viability must be between 0 and 100")
	}
	if in.CellCount != nil && *in.CellCount < 0 {
		return apperr.Validation("cell_count must not be negative")
	}
	return nil
}

type AnalysisService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Repos  *Repos
	Guard  *Guard
}

func NewAnalysisService(db *gorm.DB, logger *zap.Logger, r *Repos, guard *Guard) *AnalysisService {
	return &AnalysisService{DB: db, Logger: logger.With(zap.String("service", "AnalysisService")), Repos: r, Guard: guard}
}

func (s *AnalysisService) List(ctx context.Context, userID, wellID string, page Page) (*List[*models.Analysis], error) {
	var out *List[*models.Analysis]
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, WellRef(wellID)); err != nil {
			return err
		}
		items, total, err := s.Repos.Analyses.ListByWell(ctx, tx, wellID, page)
		if err != nil {
			return err
		}
		out = newList(items, total, page)
		return nil
	})
	return out, err
}

func (s *AnalysisService) Get(ctx context.Context, userID, analysisID string) (*models.Analysis, error) {
	var out *models.Analysis
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = s.load(ctx, tx, userID, analysisID)
		return err
	})
	return out, err
}

func (s *AnalysisService) load(ctx context.Context, tx *gorm.DB, userID, analysisID string) (*models.Analysis, error) {
	if err := s.Guard.Check(ctx, tx, userID, Ref{Kind: models.KindAnalysis, ID: analysisID}); err != nil {
		return nil, err
	}
	a, err := s.Repos.Analyses.GetByID(ctx, tx, analysisID)
	if err != nil {
		return nil, notFound(err, "analysis")
	}
	return a, nil
}

func (s *AnalysisService) Create(ctx context.Context, userID, wellID string, in AnalysisInput) (*models.Analysis, error) {
	name, err := requireName("name", in.Name)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	analysisType := models.AnalysisTypePrimary
	if in.AnalysisType != nil && *in.AnalysisType != "" {
		analysisType = *in.AnalysisType
	}
	a := &models.Analysis{
		WellID:          wellID,
		Name:            name,
		AnalysisType:    analysisType,
		CellCount:       in.CellCount,
		Viability:       in.Viability,
		ZScore:          in.ZScore,
		MeanIntensity:   in.MeanIntensity,
		MedianIntensity: in.MedianIntensity,
		StdIntensity:    in.StdIntensity,
		PercentEffect:   in.PercentEffect,
		Metrics:         in.Metrics,
		RawData:         in.RawData,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, WellRef(wellID)); err != nil {
			return err
		}
		return s.Repos.Analyses.Create(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AnalysisService) Update(ctx context.Context, userID, analysisID string, in AnalysisInput) (*models.Analysis, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if in.Name != nil {
		name, err := requireName("name", in.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if in.AnalysisType != nil {
		fields["analysis_type"] = *in.AnalysisType
	}
	setFloat := func(column string, v *float64) {
		if v != nil {
			fields[column] = *v
		}
	}
	if in.CellCount != nil {
		fields["cell_count"] = *in.CellCount
	}
	setFloat("viability", in.Viability)
	setFloat("z_score", in.ZScore)
	setFloat("mean_intensity", in.MeanIntensity)
	setFloat("median_intensity", in.MedianIntensity)
	setFloat("std_intensity", in.StdIntensity)
	setFloat("percent_effect", in.PercentEffect)
	if in.Metrics != nil {
		fields["metrics"] = in.Metrics
	}
	if in.RawData != nil {
		fields["raw_data"] = in.RawData
	}

	var out *models.Analysis
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := s.load(ctx, tx, userID, analysisID)
		if err != nil {
			return err
		}
		if err := s.Repos.Analyses.Update(ctx, tx, a, fields); err != nil {
			return err
		}
		out = a
		return nil
	})
	return out, err
}

func (s *AnalysisService) Delete(ctx context.Context, userID, analysisID string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, Ref{Kind: models.KindAnalysis, ID: analysisID}); err != nil {
			return err
		}
		return notFound(s.Repos.Analyses.Delete(ctx, tx, analysisID), "analysis")
	})
}
