package models

import "time"

type Experiment struct {
	Base
	Name           string     `json:"name" gorm:"size:255;index;not null"`
	Description    *string    `json:"description" gorm:"type:text"`
	ExperimentDate *time.Time `json:"experiment_date" gorm:"type:date"`
	ProjectID      string     `json:"project_id" gorm:"type:varchar(36);index;not null"`

	Plates []Plate             `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Curves []DoseResponseCurve `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Experiment) TableName() string { return "experiments" }
