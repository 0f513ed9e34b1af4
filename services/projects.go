package services

import (
	"context"

	"screen-ai/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProjectInput ist der Body für Anlegen und Ändern eines Projekts.
type ProjectInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ProjectService struct {
	DB          *gorm.DB
	Logger      *zap.Logger
	Repos       *Repos
	Guard       *Guard
	Aggregation *AggregationService
	Cleaner     *BlobCleaner
}

func NewProjectService(db *gorm.DB, logger *zap.Logger, r *Repos, guard *Guard, agg *AggregationService, cleaner *BlobCleaner) *ProjectService {
	return &ProjectService{DB: db, Logger: logger.With(zap.String("service", "ProjectService")), Repos: r, Guard: guard, Aggregation: agg, Cleaner: cleaner}
}

func (s *ProjectService) List(ctx context.Context, userID string, page Page) (*List[ProjectView], error) {
	var out *List[ProjectView]
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects, total, err := s.Repos.Projects.ListByOwner(ctx, tx, userID, page)
		if err != nil {
			return err
		}
		ids := make([]string, len(projects))
		for i, p := range projects {
			ids[i] = p.ID
		}
		counts, err := s.Aggregation.ExperimentCounts(ctx, tx, ids)
		if err != nil {
			return err
		}
		items := make([]ProjectView, len(projects))
		for i, p := range projects {
			items[i] = ProjectView{Project: *p, ExperimentCount: counts[p.ID]}
		}
		out = newList(items, total, page)
		return nil
	})
	return out, err
}

func (s *ProjectService) Get(ctx context.Context, userID, projectID string) (*ProjectView, error) {
	var out *ProjectView
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = s.load(ctx, tx, userID, projectID)
		return err
	})
	return out, err
}

func (s *ProjectService) load(ctx context.Context, tx *gorm.DB, userID, projectID string) (*ProjectView, error) {
	if err := s.Guard.Check(ctx, tx, userID, ProjectRef(projectID)); err != nil {
		return nil, err
	}
	p, err := s.Repos.Projects.GetByID(ctx, tx, projectID)
	if err != nil {
		return nil, notFound(err, "project")
	}
	n, err := s.Aggregation.ExperimentCount(ctx, tx, projectID)
	if err != nil {
		return nil, err
	}
	return &ProjectView{Project: *p, ExperimentCount: n}, nil
}

func (s *ProjectService) Create(ctx context.Context, userID string, in ProjectInput) (*ProjectView, error) {
	name, err := requireName("name", in.Name)
	if err != nil {
		return nil, err
	}
	p := &models.Project{Name: name, Description: in.Description, OwnerID: userID}
	if err := s.Repos.Projects.Create(ctx, s.DB, p); err != nil {
		return nil, err
	}
	s.Logger.Info("Project created", zap.String("project_id", p.ID), zap.String("user_id", userID))
	return &ProjectView{Project: *p}, nil
}

func (s *ProjectService) Update(ctx context.Context, userID, projectID string, in ProjectInput) (*ProjectView, error) {
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

	var out *ProjectView
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		view, err := s.load(ctx, tx, userID, projectID)
		if err != nil {
			return err
		}
		if err := s.Repos.Projects.Update(ctx, tx, &view.Project, fields); err != nil {
			return err
		}
		out = view
		return nil
	})
	return out, err
}

// Delete löscht das Projekt samt aller Nachkommen und danach die Bilddateien.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID string) error {
	var keys []string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, ProjectRef(projectID)); err != nil {
			return err
		}
		var err error
		if keys, err = s.Repos.Images.KeysUnder(ctx, tx, models.KindProject, projectID); err != nil {
			return err
		}
		return notFound(s.Repos.Projects.Delete(ctx, tx, projectID), "project")
	})
	if err != nil {
		return err
	}
	s.Logger.Info("Project deleted", zap.String("project_id", projectID), zap.Int("blobs", len(keys)))
	s.Cleaner.Remove(ctx, keys)
	return nil
}
