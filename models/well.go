package models

import "screen-ai/platemap"

const (
	WellTypeSample          = "sample"
	WellTypePositiveControl = "positive_control"
	WellTypeNegativeControl = "negative_control"
	WellTypeEmpty           = "empty"
)

// Well ist eine Zelle einer Platte. (plate_id, row, column) ist eindeutig;
// Labels werden bei jedem Lesen aus row/column abgeleitet und nie gespeichert.
type Well struct {
	Base
	PlateID           string   `json:"plate_id" gorm:"type:varchar(36);not null;index:idx_wells_plate_position,unique,priority:1"`
	Row               int      `json:"row" gorm:"column:row_index;not null;index:idx_wells_plate_position,unique,priority:2;check:chk_wells_row,row_index >= 0"`
	Column            int      `json:"column" gorm:"column:column_index;not null;index:idx_wells_plate_position,unique,priority:3;check:chk_wells_column,column_index >= 0"`
	CompoundID        *string  `json:"compound_id" gorm:"type:varchar(36);index"`
	Concentration     *float64 `json:"concentration"`
	ConcentrationUnit string   `json:"concentration_unit" gorm:"size:20;not null"`
	WellType          string   `json:"well_type" gorm:"size:50;not null;check:chk_wells_type,well_type IN ('sample','positive_control','negative_control','empty')"`

	Compound *Compound  `json:"compound,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Images   []Image    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Analyses []Analysis `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Well) TableName() string { return "wells" }

func (w *Well) RowLabel() string    { return platemap.RowLabel(w.Row) }
func (w *Well) ColumnLabel() string { return platemap.ColumnLabel(w.Column) }
func (w *Well) Position() string    { return platemap.Position(w.Row, w.Column) }

// ValidWellType prüft gegen die vier bekannten Well-Typen.
func ValidWellType(t string) bool {
	switch t {
	case WellTypeSample, WellTypePositiveControl, WellTypeNegativeControl, WellTypeEmpty:
		return true
	}
	return false
}
