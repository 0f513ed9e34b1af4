package models

// Project gehört genau einem User und ist die Wurzel der Besitzkette.
type Project struct {
	Base
	Name        string  `json:"name" gorm:"size:255;index;not null"`
	Description *string `json:"description" gorm:"type:text"`
	OwnerID     string  `json:"owner_id" gorm:"type:varchar(36);index;not null"`

	Experiments []Experiment `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Project) TableName() string { return "projects" }
