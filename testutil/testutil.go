// Package testutil stellt migrierte In-Memory-Datenbanken und Fixtures für Tests bereit.
package testutil

import (
	"testing"

	"screen-ai/database"
	"screen-ai/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB öffnet eine eigene SQLite-In-Memory-Datenbank pro Test und migriert sie.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := database.OpenDialector(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Password ist das Klartext-Passwort aller Fixture-Benutzer.
const Password = "secret-pass"

// CreateUser legt einen aktiven Benutzer mit Password an.
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Email: email, HashedPassword: string(hash), FullName: email, IsActive: true, Role: models.RoleScientist}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Tree ist eine vollständige Besitzkette Project -> Experiment -> Plate.
type Tree struct {
	Project    *models.Project
	Experiment *models.Experiment
	Plate      *models.Plate
}

// CreateTree legt für owner eine Kette mit einer rows x columns Platte an.
func CreateTree(t *testing.T, db *gorm.DB, owner *models.User, rows, columns int) *Tree {
	t.Helper()
	p := &models.Project{Name: "Project " + owner.Email, OwnerID: owner.ID}
	require.NoError(t, db.Create(p).Error)
	e := &models.Experiment{Name: "Experiment", ProjectID: p.ID}
	require.NoError(t, db.Create(e).Error)
	pl := &models.Plate{Name: "Plate", ExperimentID: e.ID, Rows: rows, Columns: columns}
	require.NoError(t, db.Create(pl).Error)
	return &Tree{Project: p, Experiment: e, Plate: pl}
}

// CreateWell legt direkt (ohne Service) ein Well an.
func CreateWell(t *testing.T, db *gorm.DB, plateID string, row, column int) *models.Well {
	t.Helper()
	w := &models.Well{PlateID: plateID, Row: row, Column: column, WellType: models.WellTypeSample, ConcentrationUnit: "uM"}
	require.NoError(t, db.Create(w).Error)
	return w
}
