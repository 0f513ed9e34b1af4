package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestNewRegistryGathersRuntimeAndDomainMetrics(t *testing.T) {
	reg := NewRegistry()
	WellsCreated.Add(0)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
	assert.True(t, names["screen_ai_wells_created_total"])
	assert.True(t, names["screen_ai_well_conflicts_total"])
}

func TestNewRegistryCanBeCalledTwice(t *testing.T) {
	assert.NotPanics(t, func() {
		NewRegistry()
		NewRegistry()
	})
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/plates/:plate_id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/plates/:plate_id", "204")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/plates/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	assert.Equal(t, before+3, testutil.ToFloat64(counter))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsInFlight))
}

func TestGORMCallbacksCountStatements(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, RegisterGORMCallbacks(db))

	type sample struct {
		ID   uint
		Name string
	}
	require.NoError(t, db.AutoMigrate(&sample{}))

	creates := dbQueriesTotal.WithLabelValues("create", "samples")
	queries := dbQueriesTotal.WithLabelValues("query", "samples")
	createsBefore := testutil.ToFloat64(creates)
	queriesBefore := testutil.ToFloat64(queries)

	require.NoError(t, db.Create(&sample{Name: "x"}).Error)
	var got []sample
	require.NoError(t, db.Find(&got).Error)

	assert.Equal(t, createsBefore+1, testutil.ToFloat64(creates))
	assert.Equal(t, queriesBefore+1, testutil.ToFloat64(queries))
}

func TestDBStatsCollectorStopsWithContext(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())

	ctx, cancel := context.WithCancel(context.Background())
	StartDBStatsCollector(ctx, sqlDB, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(dbConnectionsOpen) >= 1
	}, time.Second, 5*time.Millisecond)
	cancel()
}
