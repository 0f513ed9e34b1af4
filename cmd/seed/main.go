// Command seed legt den Admin-Benutzer an und importiert die
// Substanzbibliothek aus einer YAML-Datei. Mehrfaches Ausführen ist sicher.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"screen-ai/config"
	"screen-ai/database"
	"screen-ai/services"
	"screen-ai/storage"

	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "cmd/seed/fixtures.yaml", "YAML fixture with admin and compounds")
	flag.Parse()

	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	f, err := os.Open(*file)
	if err != nil {
		logging.Fatal("Cannot open fixture", zap.String("file", *file), zap.Error(err))
	}
	fx, err := LoadFixture(f)
	f.Close()
	if err != nil {
		logging.Fatal("Invalid fixture", zap.String("file", *file), zap.Error(err))
	}

	db, err := database.Open(cfg, logging)
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}

	// Seed schreibt keine Blobs.
	svc := services.New(cfg, db, logging, storage.NewMemoryStore())
	res, err := Apply(context.Background(), svc, cfg, fx)
	if err != nil {
		logging.Fatal("Seeding failed", zap.Error(err))
	}
	logging.Info("Seeding completed",
		zap.Bool("admin", res.Admin),
		zap.Int("compounds_created", res.CompoundsCreated),
		zap.Int("compounds_updated", res.CompoundsUpdated))
}
