package models

import "gorm.io/datatypes"

// DataPoint ist ein Messpunkt einer Dosis-Wirkungs-Kurve.
type DataPoint struct {
	Concentration float64  `json:"concentration"`
	Response      float64  `json:"response"`
	StdError      *float64 `json:"std_error,omitempty"`
}

// DoseResponseCurve speichert extern gefittete Parameter; pro (Experiment, Compound) höchstens eine.
// Eine referenzierte Substanz kann nicht gelöscht werden.
type DoseResponseCurve struct {
	Base
	ExperimentID string                         `json:"experiment_id" gorm:"type:varchar(36);not null;index:idx_curves_experiment_compound,unique,priority:1"`
	CompoundID   string                         `json:"compound_id" gorm:"type:varchar(36);not null;index:idx_curves_experiment_compound,unique,priority:2"`
	IC50         *float64                       `json:"ic50" gorm:"column:ic50"`
	EC50         *float64                       `json:"ec50" gorm:"column:ec50"`
	HillSlope    *float64                       `json:"hill_slope"`
	Top          *float64                       `json:"top"`
	Bottom       *float64                       `json:"bottom"`
	RSquared     *float64                       `json:"r_squared" gorm:"column:r_squared"`
	DataPoints   datatypes.JSONSlice[DataPoint] `json:"data_points"`

	Compound *Compound `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
}

func (DoseResponseCurve) TableName() string { return "dose_response_curves" }
