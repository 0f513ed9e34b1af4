// Package storage legt Mikroskopie-Bilder und Backups in einem Blob-Store ab.
// Keys sind opake Strings; die Datenbank speichert nur den Key.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"screen-ai/config"
)

// ErrNotFound wird geliefert, wenn kein Objekt unter dem Key liegt.
var ErrNotFound = errors.New("storage: object not found")

// Object beschreibt ein gespeichertes Objekt.
type Object struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Store ist die schmale S3-artige Schnittstelle, die Services und Tools nutzen.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete ist idempotent: ein fehlender Key ist kein Fehler.
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]Object, error)
	// PresignURL liefert eine zeitlich begrenzte Download-URL.
	PresignURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// New wählt das Backend anhand von BLOB_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.BlobDriver {
	case "s3":
		return NewS3Store(ctx, S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported BLOB_DRIVER %q", cfg.BlobDriver)
	}
}
