package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"screen-ai/apperr"
	"screen-ai/metrics"
	"screen-ai/models"
	"screen-ai/testutil"

	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func countWells(t *testing.T, f *fixture, plateID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Well{}).Where("plate_id = ?", plateID).Count(&n).Error)
	return n
}

func TestCreateWellRejectsOutOfRangePositions(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	tree := testutil.CreateTree(t, f.db, owner, 2, 3)
	ctx := context.Background()

	cases := []struct {
		row, column int
		message     string
	}{
		{2, 0, "row must be between 0 and 1"},
		{3, 0, "row must be between 0 and 1"},
		{-1, 0, "row must be between 0 and 1"},
		{0, 3, "column must be between 0 and 2"},
		{0, -1, "column must be between 0 and 2"},
	}
	for _, tc := range cases {
		_, err := f.svc.Wells.Create(ctx, owner.ID, tree.Plate.ID, WellInput{Row: ptr(tc.row), Column: ptr(tc.column)})
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "%d,%d", tc.row, tc.column)
		assert.Equal(t, tc.message, err.Error())
	}
	assert.Zero(t, countWells(t, f, tree.Plate.ID))
}

func TestCreateWellDefaultsAndLabels(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	tree := testutil.CreateTree(t, f.db, owner, 16, 24)

	before := promtest.ToFloat64(metrics.WellsCreated)
	view, err := f.svc.Wells.Create(context.Background(), owner.ID, tree.Plate.ID, WellInput{Row: ptr(15), Column: ptr(23)})
	require.NoError(t, err)
	assert.Equal(t, "P", view.RowLabel)
	assert.Equal(t, "24", view.ColumnLabel)
	assert.Equal(t, "P24", view.Position)
	assert.Equal(t, models.WellTypeSample, view.WellType)
	assert.Equal(t, "uM", view.ConcentrationUnit)
	assert.Equal(t, before+1, promtest.ToFloat64(metrics.WellsCreated))
}

func TestCreateWellDuplicatePositionConflicts(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	tree := testutil.CreateTree(t, f.db, owner, 2, 2)
	ctx := context.Background()

	_, err := f.svc.Wells.Create(ctx, owner.ID, tree.Plate.ID, WellInput{Row: ptr(1), Column: ptr(1)})
	require.NoError(t, err)

	before := promtest.ToFloat64(metrics.WellConflicts)
	_, err = f.svc.Wells.Create(ctx, owner.ID, tree.Plate.ID, WellInput{Row: ptr(1), Column: ptr(1), WellType: ptr(models.WellTypeEmpty)})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "well already exists at this position", err.Error())
	assert.Equal(t, before+1, promtest.ToFloat64(metrics.WellConflicts))
	assert.EqualValues(t, 1, countWells(t, f, tree.Plate.ID))
}

func TestCreateWellConcurrentSamePosition(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	tree := testutil.CreateTree(t, f.db, owner, 4, 4)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Wells.Create(context.Background(), owner.ID, tree.Plate.ID, WellInput{Row: ptr(2), Column: ptr(3)})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperr.Is(err, apperr.KindConflict), err.Error())
	}
	assert.Equal(t, 1, succeeded)
	assert.EqualValues(t, 1, countWells(t, f, tree.Plate.ID))
}

// Ein zweiter Schreiber belegt die Position zwischen Vorab-Prüfung und Insert;
// dann muss der Unique-Index den Konflikt liefern.
func TestCreateWellIndexCatchesRaceAfterPreCheck(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	tree := testutil.CreateTree(t, f.db, owner, 4, 4)

	fired := false
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:competing_well", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "wells" {
			return
		}
		fired = true
		now := time.Now().UTC()
		_, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			"INSERT INTO wells (id, created_at, updated_at, plate_id, row_index, column_index, concentration_unit, well_type) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			uuid.NewString(), now, now, tree.Plate.ID, 3, 0, "uM", models.WellTypeSample)
		if err != nil {
			tx.AddError(err)
		}
	}))

	before := promtest.ToFloat64(metrics.WellConflicts)
	_, err := f.svc.Wells.Create(context.Background(), owner.ID, tree.Plate.ID, WellInput{Row: ptr(3), Column: ptr(0)})
	require.True(t, fired)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict), err.Error())
	assert.Equal(t, positionTaken, err.Error())
	assert.Equal(t, before+1, promtest.ToFloat64(metrics.WellConflicts))
}

func TestCreateWellValidatesInput(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	tree := testutil.CreateTree(t, f.db, owner, 2, 2)
	ctx := context.Background()

	_, err := f.svc.Wells.Create(ctx, owner.ID, tree.Plate.ID, WellInput{Row: ptr(0)})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.Wells.Create(ctx, owner.ID, tree.Plate.ID, WellInput{Row: ptr(0), Column: ptr(0), WellType: ptr("blank")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.Wells.Create(ctx, owner.ID, tree.Plate.ID, WellInput{Row: ptr(0), Column: ptr(0), CompoundID: ptr("no-such-compound")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	stranger := f.user(t, "stranger@example.com")
	_, err = f.svc.Wells.Create(ctx, stranger.ID, tree.Plate.ID, WellInput{Row: ptr(0), Column: ptr(0)})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	assert.Zero(t, countWells(t, f, tree.Plate.ID))
}

func TestWellGetUpdateDelete(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	tree := testutil.CreateTree(t, f.db, owner, 2, 2)
	ctx := context.Background()
	compound, err := f.svc.Compounds.Create(ctx, CompoundInput{ExternalID: ptr("CMP-7"), Name: ptr("Taxol")})
	require.NoError(t, err)

	created, err := f.svc.Wells.Create(ctx, owner.ID, tree.Plate.ID, WellInput{Row: ptr(0), Column: ptr(1), CompoundID: &compound.ID, Concentration: ptr(1.5)})
	require.NoError(t, err)

	got, err := f.svc.Wells.Get(ctx, owner.ID, tree.Plate.ID, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Compound)
	assert.Equal(t, "CMP-7", got.Compound.ExternalID)
	assert.Equal(t, "A2", got.Position)

	_, err = f.svc.Wells.Update(ctx, owner.ID, tree.Plate.ID, created.ID, WellInput{Row: ptr(1)})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	updated, err := f.svc.Wells.Update(ctx, owner.ID, tree.Plate.ID, created.ID, WellInput{WellType: ptr(models.WellTypePositiveControl), CompoundID: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, models.WellTypePositiveControl, updated.WellType)
	assert.Nil(t, updated.CompoundID)

	other := testutil.CreateTree(t, f.db, owner, 2, 2)
	_, err = f.svc.Wells.Get(ctx, owner.ID, other.Plate.ID, created.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, f.db.Create(&models.Image{WellID: created.ID, StorageKey: "wells/x/a.tif", Channel: "DAPI"}).Error)
	require.NoError(t, f.store.Put(ctx, "wells/x/a.tif", strings.NewReader("tiff"), 4, "image/tiff"))
	require.NoError(t, f.svc.Wells.Delete(ctx, owner.ID, tree.Plate.ID, created.ID))
	assert.False(t, f.store.Has("wells/x/a.tif"))
	assert.Zero(t, countWells(t, f, tree.Plate.ID))
}

func TestWellThumbnails(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com")
	tree := testutil.CreateTree(t, f.db, owner, 1, 1)
	well := testutil.CreateWell(t, f.db, tree.Plate.ID, 0, 0)
	second := &models.Image{WellID: well.ID, StorageKey: "b", Channel: "GFP", FieldIndex: 1}
	first := &models.Image{WellID: well.ID, StorageKey: "a", ThumbnailKey: ptr("a-thumb"), Channel: "DAPI"}
	require.NoError(t, f.db.Create(second).Error)
	require.NoError(t, f.db.Create(first).Error)

	thumbs, err := f.svc.Wells.Thumbnails(context.Background(), owner.ID, tree.Plate.ID, well.ID)
	require.NoError(t, err)
	require.Len(t, thumbs, 2)
	assert.Equal(t, first.ID, thumbs[0].ID)
	require.NotNil(t, thumbs[0].ThumbnailURL)
	assert.Equal(t, "/api/images/"+first.ID+"/thumbnail", *thumbs[0].ThumbnailURL)
	assert.Nil(t, thumbs[1].ThumbnailURL)
}
