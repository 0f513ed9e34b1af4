package services

import (
	"context"

	"screen-ai/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GridItem ist eine Zelle der Heatmap-Ansicht einer Platte.
type GridItem struct {
	ID            string   `json:"id"`
	Row           int      `json:"row"`
	Column        int      `json:"column"`
	Position      string   `json:"position"`
	WellType      string   `json:"well_type"`
	CompoundID    *string  `json:"compound_id"`
	Concentration *float64 `json:"concentration"`
	CellCount     *int     `json:"cell_count"`
	Viability     *float64 `json:"viability"`
	ZScore        *float64 `json:"z_score"`
}

// AggregationService berechnet abgeleitete Zählwerte und die Grid-Ansicht.
type AggregationService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Repos  *Repos
	Guard  *Guard
}

func NewAggregationService(db *gorm.DB, logger *zap.Logger, r *Repos, guard *Guard) *AggregationService {
	return &AggregationService{DB: db, Logger: logger.With(zap.String("service", "AggregationService")), Repos: r, Guard: guard}
}

// PlateGrid liefert ein Element pro Well in Raster-Reihenfolge. Wells ohne
// Analyse haben null in cell_count, viability und z_score.
func (s *AggregationService) PlateGrid(ctx context.Context, userID, experimentID, plateID string) ([]GridItem, error) {
	var grid []GridItem
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Guard.Check(ctx, tx, userID, PlateRef(plateID), ExperimentRef(experimentID)); err != nil {
			return err
		}
		var err error
		grid, err = s.buildGrid(ctx, tx, plateID)
		return err
	})
	return grid, err
}

func (s *AggregationService) buildGrid(ctx context.Context, tx *gorm.DB, plateID string) ([]GridItem, error) {
	wells, err := s.Repos.Wells.AllByPlate(ctx, tx, plateID)
	if err != nil {
		return nil, err
	}
	latest, err := s.Repos.Analyses.LatestByPlate(ctx, tx, plateID)
	if err != nil {
		return nil, err
	}
	grid := make([]GridItem, 0, len(wells))
	for _, w := range wells {
		grid = append(grid, gridItem(w, latest[w.ID]))
	}
	return grid, nil
}

func gridItem(w *models.Well, a *models.Analysis) GridItem {
	item := GridItem{
		ID:            w.ID,
		Row:           w.Row,
		Column:        w.Column,
		Position:      w.Position(),
		WellType:      w.WellType,
		CompoundID:    w.CompoundID,
		Concentration: w.Concentration,
	}
	if a != nil {
		item.CellCount = a.CellCount
		item.Viability = a.Viability
		item.ZScore = a.ZScore
	}
	return item
}

func (s *AggregationService) ExperimentCount(ctx context.Context, tx *gorm.DB, projectID string) (int64, error) {
	return s.Repos.Counts.Children(ctx, tx, "experiments", "project_id", projectID)
}

func (s *AggregationService) PlateCount(ctx context.Context, tx *gorm.DB, experimentID string) (int64, error) {
	return s.Repos.Counts.Children(ctx, tx, "plates", "experiment_id", experimentID)
}

// WellCount zählt die tatsächlich angelegten Wells, nicht die Kapazität.
func (s *AggregationService) WellCount(ctx context.Context, tx *gorm.DB, plateID string) (int64, error) {
	return s.Repos.Counts.Children(ctx, tx, "wells", "plate_id", plateID)
}

func (s *AggregationService) ExperimentCounts(ctx context.Context, tx *gorm.DB, projectIDs []string) (map[string]int64, error) {
	return s.Repos.Counts.ChildrenGrouped(ctx, tx, "experiments", "project_id", projectIDs)
}

func (s *AggregationService) PlateCounts(ctx context.Context, tx *gorm.DB, experimentIDs []string) (map[string]int64, error) {
	return s.Repos.Counts.ChildrenGrouped(ctx, tx, "plates", "experiment_id", experimentIDs)
}

func (s *AggregationService) WellCounts(ctx context.Context, tx *gorm.DB, plateIDs []string) (map[string]int64, error) {
	return s.Repos.Counts.ChildrenGrouped(ctx, tx, "wells", "plate_id", plateIDs)
}
