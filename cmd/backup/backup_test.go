package main

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"screen-ai/config"
	"screen-ai/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fakeDump(content string) DumpFunc {
	return func(_ context.Context, _ *config.Config, w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	}
}

func TestBackupRunUploadsAndRotates(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "wells/w1/image.tif", strings.NewReader("img"), 3, ""))

	start := time.Date(2026, 1, 1, 3, 0, 0, 0, time.UTC)
	runs := 0
	b := &Backup{
		Config: &config.Config{DBDriver: "postgres"},
		Store:  store,
		Prefix: "backups/",
		Keep:   2,
		Logger: zap.NewNop(),
		Dump:   fakeDump("CREATE TABLE wells();"),
		now:    func() time.Time { return start.Add(time.Duration(runs) * time.Hour) },
	}
	for runs = 0; runs < 4; runs++ {
		require.NoError(t, b.Run(ctx))
	}

	objects, err := store.List(ctx, "backups/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "backups/backup-2026-01-01T05-00-00Z.sql.gz", objects[0].Key)
	assert.Equal(t, "backups/backup-2026-01-01T06-00-00Z.sql.gz", objects[1].Key)
	assert.True(t, store.Has("wells/w1/image.tif"))

	rc, err := store.Get(ctx, objects[1].Key)
	require.NoError(t, err)
	defer rc.Close()
	gz, err := gzip.NewReader(rc)
	require.NoError(t, err)
	plain, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE wells();", string(plain))
}

func TestBackupDumpFailure(t *testing.T) {
	store := storage.NewMemoryStore()
	b := &Backup{
		Config: &config.Config{},
		Store:  store,
		Prefix: "backups/",
		Keep:   2,
		Logger: zap.NewNop(),
		Dump: func(context.Context, *config.Config, io.Writer) error {
			return errors.New("pg_dump: connection refused")
		},
	}
	err := b.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create dump")

	objects, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestDumpSQLiteCopiesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab.db")
	require.NoError(t, os.WriteFile(path, []byte("SQLite format 3"), 0o600))

	var sb strings.Builder
	require.NoError(t, dumpDatabase(context.Background(), &config.Config{DBDriver: "sqlite", SQLitePath: path}, &sb))
	assert.Equal(t, "SQLite format 3", sb.String())

	b := &Backup{Config: &config.Config{DBDriver: "sqlite"}, Prefix: "b/"}
	assert.Equal(t, "b/backup-2026-02-03T04-05-06Z.sqlite.gz", b.key(time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)))
}
