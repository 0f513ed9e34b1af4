package models

import "gorm.io/datatypes"

const AnalysisTypePrimary = "primary"

// Analysis speichert extern berechnete Ergebnisse für ein Well. Ein Well kann
// mehrere Analysen haben; die jüngste speist die Grid-Ansicht.
type Analysis struct {
	Base
	WellID          string            `json:"well_id" gorm:"type:varchar(36);index;not null"`
	Name            string            `json:"name" gorm:"size:255;not null"`
	AnalysisType    string            `json:"analysis_type" gorm:"size:100;not null"`
	CellCount       *int              `json:"cell_count"`
	Viability       *float64          `json:"viability" gorm:"check:chk_analyses_viability,viability IS NULL OR (viability >= 0 AND viability <= 100)"`
	ZScore          *float64          `json:"z_score"`
	MeanIntensity   *float64          `json:"mean_intensity"`
	MedianIntensity *float64          `json:"median_intensity"`
	StdIntensity    *float64          `json:"std_intensity"`
	PercentEffect   *float64          `json:"percent_effect"`
	Metrics         datatypes.JSONMap `json:"metrics"`
	RawData         datatypes.JSON    `json:"raw_data"`
}

func (Analysis) TableName() string { return "analyses" }
