package services

import (
	"context"

	"screen-ai/metrics"
	"screen-ai/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const blobDeleteParallelism = 8

// BlobCleaner entfernt Blob-Objekte, deren Zeilen bereits gelöscht sind.
// Fehler werden nur geloggt: die Datenbank ist zu diesem Zeitpunkt schon committed.
type BlobCleaner struct {
	Store  storage.Store
	Logger *zap.Logger
}

func NewBlobCleaner(store storage.Store, logger *zap.Logger) *BlobCleaner {
	return &BlobCleaner{Store: store, Logger: logger.With(zap.String("service", "BlobCleaner"))}
}

// Remove löscht keys parallel und liefert die Anzahl der Fehlschläge.
func (c *BlobCleaner) Remove(ctx context.Context, keys []string) int {
	if len(keys) == 0 {
		return 0
	}
	ctx = context.WithoutCancel(ctx)
	failed := make([]bool, len(keys))

	var g errgroup.Group
	g.SetLimit(blobDeleteParallelism)
	for i, key := range keys {
		g.Go(func() error {
			if err := c.Store.Delete(ctx, key); err != nil {
				failed[i] = true
				metrics.BlobDeleteFailures.Inc()
				c.Logger.Warn("Failed to delete blob", zap.String("key", key), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	n := 0
	for _, f := range failed {
		if f {
			n++
		}
	}
	if n == 0 {
		c.Logger.Debug("Blobs removed", zap.Int("count", len(keys)))
	}
	return n
}
