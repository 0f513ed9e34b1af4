package models

import "screen-ai/platemap"

// Plate ist ein rows x columns Raster. Die Abmessungen sind nach dem Anlegen fix.
type Plate struct {
	Base
	Name         string  `json:"name" gorm:"size:255;index;not null"`
	Barcode      *string `json:"barcode" gorm:"size:100;uniqueIndex"`
	Description  *string `json:"description" gorm:"type:text"`
	ExperimentID string  `json:"experiment_id" gorm:"type:varchar(36);index;not null"`
	Rows         int     `json:"rows" gorm:"column:num_rows;not null;check:chk_plates_rows,num_rows >= 1"`
	Columns      int     `json:"columns" gorm:"column:num_columns;not null;check:chk_plates_columns,num_columns >= 1"`

	Wells []Well `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Plate) TableName() string { return "plates" }

// Capacity ist rows * columns.
func (p *Plate) Capacity() int { return platemap.WellCount(p.Rows, p.Columns) }

func (p *Plate) FormatName() string { return platemap.FormatName(p.Rows, p.Columns) }
