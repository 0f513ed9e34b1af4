package services

import (
	"testing"
	"time"

	"screen-ai/config"
	"screen-ai/models"
	"screen-ai/storage"
	"screen-ai/testutil"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	svc   *Services
	store *storage.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	store := storage.NewMemoryStore()
	cfg := &config.Config{
		SecretKey:                "test-secret",
		JWTIssuer:                "screen-ai-test",
		AccessTokenExpireMinutes: 60,
		S3PresignTTL:             time.Minute,
	}
	return &fixture{db: db, svc: New(cfg, db, zap.NewNop(), store), store: store}
}

func (f *fixture) user(t *testing.T, email string) *models.User {
	return testutil.CreateUser(t, f.db, email)
}

func ptr[T any](v T) *T { return &v }
