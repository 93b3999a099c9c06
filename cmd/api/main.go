package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"progeval/adapters/postgres"
	"progeval/adapters/tabular"
	"progeval/app"
	"progeval/domain/study"
	"progeval/internal"
	"progeval/internal/config"
	"progeval/internal/studygen"
	"progeval/ports"
	"progeval/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	var archive ports.ReportArchive
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(context.Background(), cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		archive = postgres.NewReportArchive(db)
		logger.Info("report archive enabled")
	} else {
		logger.Warn("DATABASE_URL not set, reports will not be archived")
	}

	ds, source, err := loadDataset(cfg)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	logger.Info("loaded %s (%d records)", source, ds.Len())

	svc := app.NewEvaluationService(archive, logger)
	server := ui.NewServer(svc, ds, source, app.AnalysisSpec{
		GroupColumn:    cfg.Data.GroupColumn,
		PretestColumn:  cfg.Data.PretestColumn,
		PosttestColumn: cfg.Data.PosttestColumn,
		FollowupColumn: cfg.Data.FollowupColumn,
	})

	logger.Info("starting API server on :%s", cfg.Server.APIPort)
	if err := server.Run(":" + cfg.Server.APIPort); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func loadDataset(cfg *config.Config) (*study.Dataset, string, error) {
	if cfg.Data.File != "" {
		var reader ports.DatasetReader = tabular.NewDataReader(cfg.Data.File)
		ds, err := reader.Read()
		if err != nil {
			return nil, "", err
		}
		return ds, cfg.Data.File, nil
	}
	ds, err := studygen.Generate(studygen.DefaultConfig())
	if err != nil {
		return nil, "", err
	}
	return ds, "generated", nil
}
