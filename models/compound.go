package models

// Compound ist ein Eintrag der Substanzbibliothek, identifiziert über ExternalID.
type Compound struct {
	Base
	ExternalID string  `json:"external_id" gorm:"size:100;uniqueIndex;not null"`
	Name       *string `json:"name" gorm:"size:255"`
}

func (Compound) TableName() string { return "compounds" }
