package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base enthält Primärschlüssel und Zeitstempel, die jede Tabelle trägt.
type Base struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate vergibt eine UUID, falls noch keine gesetzt ist.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// All listet die Modelle in Migrationsreihenfolge (Eltern vor Kindern).
func All() []any {
	return []any{
		&User{},
		&Project{},
		&Experiment{},
		&Compound{},
		&Plate{},
		&Well{},
		&Image{},
		&Analysis{},
		&DoseResponseCurve{},
	}
}
