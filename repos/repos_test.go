package repos

import (
	"context"
	"testing"
	"time"

	"screen-ai/database"
	"screen-ai/models"
	"screen-ai/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestJoinUpRejectsUnrelatedKinds(t *testing.T) {
	db := testutil.NewDB(t)
	_, err := JoinUp(db.Table("projects"), models.KindProject, models.KindWell)
	assert.Error(t, err)

	_, err = JoinUp(db.Table("images"), models.KindImage, models.KindProject)
	assert.NoError(t, err)
}

func TestWellPositionIsUniqueInStore(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "u1@example.com")
	tree := testutil.CreateTree(t, db, owner, 2, 3)
	wells := NewWellRepo(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, wells.Create(ctx, nil, &models.Well{PlateID: tree.Plate.ID, Row: 1, Column: 2, WellType: models.WellTypeSample, ConcentrationUnit: "uM"}))
	err := wells.Create(ctx, nil, &models.Well{PlateID: tree.Plate.ID, Row: 1, Column: 2, WellType: models.WellTypeEmpty, ConcentrationUnit: "uM"})
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))

	exists, err := wells.ExistsAt(ctx, nil, tree.Plate.ID, 1, 2)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = wells.ExistsAt(ctx, nil, tree.Plate.ID, 0, 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWellTypeCheckConstraint(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "u1@example.com")
	tree := testutil.CreateTree(t, db, owner, 2, 2)
	err := db.Create(&models.Well{PlateID: tree.Plate.ID, WellType: "bogus", ConcentrationUnit: "uM"}).Error
	assert.Error(t, err)
}

func TestAllByPlateIsRasterOrdered(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "u1@example.com")
	tree := testutil.CreateTree(t, db, owner, 2, 2)
	for _, pos := range [][2]int{{1, 1}, {0, 1}, {1, 0}, {0, 0}} {
		testutil.CreateWell(t, db, tree.Plate.ID, pos[0], pos[1])
	}

	wells, err := NewWellRepo(db, zap.NewNop()).AllByPlate(context.Background(), nil, tree.Plate.ID)
	require.NoError(t, err)
	var got []string
	for _, w := range wells {
		got = append(got, w.Position())
	}
	assert.Equal(t, []string{"A1", "A2", "B1", "B2"}, got)
}

func TestListPaginates(t *testing.T) {
	db := testutil.NewDB(t)
	compounds := NewCompoundRepo(db, zap.NewNop())
	ctx := context.Background()
	for _, id := range []string{"C-3", "C-1", "C-2", "C-4"} {
		require.NoError(t, compounds.Create(ctx, nil, &models.Compound{ExternalID: id}))
	}

	items, total, err := compounds.List(ctx, nil, Page{Skip: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, items, 2)
	assert.Equal(t, "C-2", items[0].ExternalID)
	assert.Equal(t, "C-3", items[1].ExternalID)

	got, err := compounds.GetByExternalID(ctx, nil, "C-4")
	require.NoError(t, err)
	assert.Equal(t, "C-4", got.ExternalID)

	_, err = compounds.GetByExternalID(ctx, nil, "missing")
	assert.True(t, IsNotFound(err))
}

func TestUpdateAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	compounds := NewCompoundRepo(db, zap.NewNop())
	ctx := context.Background()
	c := &models.Compound{ExternalID: "C-1"}
	require.NoError(t, compounds.Create(ctx, nil, c))

	require.NoError(t, compounds.Update(ctx, nil, c, map[string]any{"name": "Staurosporine"}))
	require.NotNil(t, c.Name)
	assert.Equal(t, "Staurosporine", *c.Name)

	require.NoError(t, compounds.Delete(ctx, nil, c.ID))
	assert.True(t, IsNotFound(compounds.Delete(ctx, nil, c.ID)))
	_, err := compounds.GetByID(ctx, nil, c.ID)
	assert.True(t, IsNotFound(err))
}

func TestLatestByPlatePicksNewestAnalysis(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "u1@example.com")
	tree := testutil.CreateTree(t, db, owner, 2, 2)
	a1 := testutil.CreateWell(t, db, tree.Plate.ID, 0, 0)
	testutil.CreateWell(t, db, tree.Plate.ID, 0, 1)
	b1 := testutil.CreateWell(t, db, tree.Plate.ID, 1, 0)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	analyses := []*models.Analysis{
		{WellID: a1.ID, Name: "old", AnalysisType: "primary", CellCount: intPtr(10)},
		{WellID: a1.ID, Name: "new", AnalysisType: "primary", CellCount: intPtr(20)},
		{Base: models.Base{ID: "00000000-0000-0000-0000-000000000001"}, WellID: b1.ID, Name: "tie-low", AnalysisType: "primary"},
		{Base: models.Base{ID: "ffffffff-0000-0000-0000-000000000001"}, WellID: b1.ID, Name: "tie-high", AnalysisType: "primary"},
	}
	analyses[0].CreatedAt = base
	analyses[1].CreatedAt = base.Add(time.Minute)
	analyses[2].CreatedAt = base
	analyses[3].CreatedAt = base
	for _, a := range analyses {
		require.NoError(t, db.Create(a).Error)
	}

	latest, err := NewAnalysisRepo(db, zap.NewNop()).LatestByPlate(context.Background(), nil, tree.Plate.ID)
	require.NoError(t, err)
	assert.Len(t, latest, 2)
	assert.Equal(t, "new", latest[a1.ID].Name)
	assert.Equal(t, "tie-high", latest[b1.ID].Name)
}

func TestLatestByPlateReadsOneRowPerWell(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "u1@example.com")
	tree := testutil.CreateTree(t, db, owner, 2, 2)
	a1 := testutil.CreateWell(t, db, tree.Plate.ID, 0, 0)
	b2 := testutil.CreateWell(t, db, tree.Plate.ID, 1, 1)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, wellID := range []string{a1.ID, a1.ID, a1.ID, b2.ID, b2.ID} {
		a := &models.Analysis{WellID: wellID, Name: "run", AnalysisType: "primary", CellCount: intPtr(i)}
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(a).Error)
	}

	var loaded int64
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:count_analyses", func(tx *gorm.DB) {
		if tx.Statement.Table == "analyses" {
			loaded += tx.Statement.RowsAffected
		}
	}))

	latest, err := NewAnalysisRepo(db, zap.NewNop()).LatestByPlate(context.Background(), nil, tree.Plate.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, loaded)
	require.Len(t, latest, 2)
	assert.Equal(t, 2, *latest[a1.ID].CellCount)
	assert.Equal(t, 4, *latest[b2.ID].CellCount)
}

func TestCounts(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "u1@example.com")
	tree := testutil.CreateTree(t, db, owner, 2, 2)
	other := &models.Plate{Name: "empty", ExperimentID: tree.Experiment.ID, Rows: 1, Columns: 1}
	require.NoError(t, db.Create(other).Error)
	testutil.CreateWell(t, db, tree.Plate.ID, 0, 0)
	testutil.CreateWell(t, db, tree.Plate.ID, 1, 1)

	counts := NewCountRepo(db, zap.NewNop())
	ctx := context.Background()

	n, err := counts.Children(ctx, nil, "plates", "experiment_id", tree.Experiment.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	grouped, err := counts.ChildrenGrouped(ctx, nil, "wells", "plate_id", []string{tree.Plate.ID, other.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, grouped[tree.Plate.ID])
	assert.EqualValues(t, 0, grouped[other.ID])

	empty, err := counts.ChildrenGrouped(ctx, nil, "wells", "plate_id", nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestKeysUnderAndCascade(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "u1@example.com")
	tree := testutil.CreateTree(t, db, owner, 2, 2)
	well := testutil.CreateWell(t, db, tree.Plate.ID, 0, 0)
	images := NewImageRepo(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, images.Create(ctx, nil, &models.Image{WellID: well.ID, StorageKey: "k1", ThumbnailKey: strPtr("t1"), Channel: "DAPI"}))
	require.NoError(t, images.Create(ctx, nil, &models.Image{WellID: well.ID, StorageKey: "k2", Channel: "GFP", ChannelIndex: 1}))
	require.NoError(t, db.Create(&models.Analysis{WellID: well.ID, Name: "a", AnalysisType: "primary"}).Error)

	keys, err := images.KeysUnder(ctx, nil, models.KindProject, tree.Project.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"k1", "t1", "k2"}, keys)

	keys, err = images.KeysUnder(ctx, nil, models.KindPlate, "does-not-exist")
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, NewProjectRepo(db, zap.NewNop()).Delete(ctx, nil, tree.Project.ID))
	for _, table := range []string{"experiments", "plates", "wells", "images", "analyses"} {
		var n int64
		require.NoError(t, db.Table(table).Count(&n).Error)
		assert.Zero(t, n, table)
	}
}

func TestCompoundDeleteNullsWellReference(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "u1@example.com")
	tree := testutil.CreateTree(t, db, owner, 1, 1)
	c := &models.Compound{ExternalID: "C-1"}
	require.NoError(t, db.Create(c).Error)
	w := &models.Well{PlateID: tree.Plate.ID, CompoundID: &c.ID, WellType: models.WellTypeSample, ConcentrationUnit: "uM"}
	require.NoError(t, db.Create(w).Error)

	require.NoError(t, db.Delete(&models.Compound{}, "id = ?", c.ID).Error)

	got, err := NewWellRepo(db, zap.NewNop()).GetWithCompound(context.Background(), nil, w.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CompoundID)
	assert.Nil(t, got.Compound)
}
