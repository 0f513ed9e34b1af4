// Command backup sichert die Labordatenbank gzip-komprimiert in den
// Blob-Store und rotiert alte Sicherungen. Mit BACKUP_SCHEDULE läuft es als
// Dienst und sichert nach Cron-Ausdruck, sonst genau einmal.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"screen-ai/config"
	"screen-ai/storage"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type BackupConfig struct {
	KeepBackups int    `envconfig:"KEEP_BACKUPS" default:"4"`
	Prefix      string `envconfig:"BACKUP_PREFIX" default:"backups/"`
	Schedule    string `envconfig:"BACKUP_SCHEDULE"`
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}
	var bcfg BackupConfig
	if err := envconfig.Process("", &bcfg); err != nil {
		logging.Fatal("Backup config load error", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, cfg)
	if err != nil {
		logging.Fatal("Blob store setup failed", zap.Error(err))
	}
	b := &Backup{Config: cfg, Store: store, Prefix: bcfg.Prefix, Keep: bcfg.KeepBackups, Logger: logging, Dump: dumpDatabase}

	if bcfg.Schedule == "" {
		if err := b.Run(ctx); err != nil {
			logging.Fatal("Backup failed", zap.Error(err))
		}
		return
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(bcfg.Schedule, func() {
		if err := b.Run(ctx); err != nil {
			logging.Error("Scheduled backup failed", zap.Error(err))
		}
	}); err != nil {
		logging.Fatal("Invalid BACKUP_SCHEDULE", zap.String("schedule", bcfg.Schedule), zap.Error(err))
	}
	scheduler.Start()
	logging.Info("Backup scheduler started", zap.String("schedule", bcfg.Schedule))

	<-ctx.Done()
	<-scheduler.Stop().Done()
	logging.Info("Backup scheduler stopped")
}
