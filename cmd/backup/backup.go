package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"screen-ai/config"
	"screen-ai/storage"

	"go.uber.org/zap"
)

// DumpFunc schreibt einen unkomprimierten Dump der Datenbank nach w.
type DumpFunc func(ctx context.Context, cfg *config.Config, w io.Writer) error

// Backup erstellt Sicherungen unter Prefix und behält die jüngsten Keep.
type Backup struct {
	Config *config.Config
	Store  storage.Store
	Prefix string
	Keep   int
	Logger *zap.Logger
	Dump   DumpFunc
	now    func() time.Time
}

// Run erstellt eine Sicherung, lädt sie hoch und rotiert alte Sicherungen.
func (b *Backup) Run(ctx context.Context) error {
	b.Logger.Info("Starting backup...")

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := b.Dump(ctx, b.Config, gz); err != nil {
		return fmt.Errorf("create dump: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("compress dump: %w", err)
	}

	key := b.key(b.clock())
	if err := b.Store.Put(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "application/gzip"); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	b.Logger.Info("Backup uploaded", zap.String("key", key), zap.Int("bytes", buf.Len()))

	return b.rotate(ctx)
}

func (b *Backup) clock() time.Time {
	if b.now != nil {
		return b.now()
	}
	return time.Now()
}

func (b *Backup) key(t time.Time) string {
	ext := "sql.gz"
	if b.Config.DBDriver == "sqlite" {
		ext = "sqlite.gz"
	}
	return fmt.Sprintf("%sbackup-%s.%s", b.Prefix, t.UTC().Format("2006-01-02T15-04-05Z"), ext)
}

// rotate löscht alle Sicherungen außer den Keep jüngsten. Die Keys enthalten
// einen sortierbaren Zeitstempel.
func (b *Backup) rotate(ctx context.Context) error {
	objects, err := b.Store.List(ctx, b.Prefix)
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}
	var backups []storage.Object
	for _, obj := range objects {
		if strings.HasPrefix(strings.TrimPrefix(obj.Key, b.Prefix), "backup-") {
			backups = append(backups, obj)
		}
	}
	if len(backups) <= b.Keep {
		b.Logger.Info("No rotation needed", zap.Int("backups", len(backups)), zap.Int("keep", b.Keep))
		return nil
	}

	sort.Slice(backups, func(i, j int) bool { return backups[i].Key > backups[j].Key })
	for _, obj := range backups[b.Keep:] {
		b.Logger.Info("Deleting old backup", zap.String("key", obj.Key))
		if err := b.Store.Delete(ctx, obj.Key); err != nil {
			b.Logger.Error("Failed to delete backup", zap.String("key", obj.Key), zap.Error(err))
		}
	}
	return nil
}

// dumpDatabase ruft pg_dump auf bzw. kopiert die SQLite-Datei.
func dumpDatabase(ctx context.Context, cfg *config.Config, w io.Writer) error {
	if cfg.DBDriver == "sqlite" {
		f, err := os.Open(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	}

	cmd := exec.CommandContext(ctx, "pg_dump",
		"-h", cfg.DBHost,
		"-p", fmt.Sprint(cfg.DBPort),
		"-U", cfg.DBUser,
		"-d", cfg.DBName,
		"-w", // Passwort kommt über PGPASSWORD
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+cfg.DBPassword)
	cmd.Stdout = w
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pg_dump: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
