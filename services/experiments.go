package services

import (
	"context"
	"time"

	"screen-ai/apperr"
	"screen-ai/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// ExperimentInput ist der Body für Anlegen und Ändern eines Experiments.
// ExperimentDate hat das Format YYYY-MM-DD.
type ExperimentInput struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	ExperimentDate *string `json:"experiment_date"`
}

func (in ExperimentInput) date() (*time.Time, error) {
	if in.ExperimentDate == nil || *in.ExperimentDate == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, *in.ExperimentDate)
	if err != nil {
		return nil, apperr.Validation("experiment_date must have the format YYYY-MM-DD")
	}
	return &d, nil
}

type ExperimentService struct {
	DB          *gorm.DB
	Logger      *zap.Logger
	Repos       *Repos
	Guard       *Guard
	Aggregation *AggregationService
	Cleaner     *BlobCleaner
}

func NewExperimentService(db *gorm.DB, logger *zap.Logger, r *Repos, guard *Guard, agg *AggregationService, cleaner *BlobCleaner) *ExperimentService {
	return &ExperimentService{DB: db, Logger: logger.With(zap.String("service", "ExperimentService")), Repos: r, Guard: guard, Aggregation: agg, Cleaner: cleaner}
}

func (s *ExperimentService) List(ctx context.Context, userID, projectID string, page Page) (*List[ExperimentView], error) {
	var out *List[ExperimentView]
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, ProjectRef(projectID)); err != nil {
			return err
		}
		experiments, total, err := s.Repos.Experiments.ListByProject(ctx, tx, projectID, page)
		if err != nil {
			return err
		}
		ids := make([]string, len(experiments))
		for i, e := range experiments {
			ids[i] = e.ID
		}
		counts, err := s.Aggregation.PlateCounts(ctx, tx, ids)
		if err != nil {
			return err
		}
		items := make([]ExperimentView, len(experiments))
		for i, e := range experiments {
			items[i] = ExperimentView{Experiment: *e, PlateCount: counts[e.ID]}
		}
		out = newList(items, total, page)
		return nil
	})
	return out, err
}

func (s *ExperimentService) Get(ctx context.Context, userID, projectID, experimentID string) (*ExperimentView, error) {
	var out *ExperimentView
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = s.load(ctx, tx, userID, projectID, experimentID)
		return err
	})
	return out, err
}

func (s *ExperimentService) load(ctx context.Context, tx *gorm.DB, userID, projectID, experimentID string) (*ExperimentView, error) {
	if err := s.Guard.Check(ctx, tx, userID, ExperimentRef(experimentID), ProjectRef(projectID)); err != nil {
		return nil, err
	}
	e, err := s.Repos.Experiments.GetByID(ctx, tx, experimentID)
	if err != nil {
		return nil, notFound(err, "experiment")
	}
	n, err := s.Aggregation.PlateCount(ctx, tx, experimentID)
	if err != nil {
		return nil, err
	}
	return &ExperimentView{Experiment: *e, PlateCount: n}, nil
}

func (s *ExperimentService) Create(ctx context.Context, userID, projectID string, in ExperimentInput) (*ExperimentView, error) {
	name, err := requireName("name", in.Name)
	if err != nil {
		return nil, err
	}
	date, err := in.date()
	if err != nil {
		return nil, err
	}
	e := &models.Experiment{Name: name, Description: in.Description, ExperimentDate: date, ProjectID: projectID}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, ProjectRef(projectID)); err != nil {
			return err
		}
		return s.Repos.Experiments.Create(ctx, tx, e)
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("Experiment created", zap.String("experiment_id", e.ID), zap.String("project_id", projectID))
	return &ExperimentView{Experiment: *e}, nil
}

func (s *ExperimentService) Update(ctx context.Context, userID, projectID, experimentID string, in ExperimentInput) (*ExperimentView, error) {
	fields := map[string]any{}
	if in.Name != nil {
		name, err := requireName("name", in.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.ExperimentDate != nil {
		date, err := in.date()
		if err != nil {
			return nil, err
		}
		fields["experiment_date"] = date
	}

	var out *ExperimentView
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		view, err := s.load(ctx, tx, userID, projectID, experimentID)
		if err != nil {
			return err
		}
		if err := s.Repos.Experiments.Update(ctx, tx, &view.Experiment, fields); err != nil {
			return err
		}
		out = view
		return nil
	})
	return out, err
}

func (s *ExperimentService) Delete(ctx context.Context, userID, projectID, experimentID string) error {
	var keys []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, ExperimentRef(experimentID), ProjectRef(projectID)); err != nil {
			return err
		}
		var err error
		if keys, err = s.Repos.Images.KeysUnder(ctx, tx, models.KindExperiment, experimentID); err != nil {
			return err
		}
		return notFound(s.Repos.Experiments.Delete(ctx, tx, experimentID), "experiment")
	})
	if err != nil {
		return err
	}
	s.Cleaner.Remove(ctx, keys)
	return nil
}
