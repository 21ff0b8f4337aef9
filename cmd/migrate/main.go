package main

import (
	"context"
	"time"

	"tradejournal/internal/config"
	"tradejournal/internal/db"
	"tradejournal/internal/logging"

	zlog "github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("info", false)
		zlog.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.Production())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect database")
	}
	defer database.Close()

	applied, err := migrate(ctx, database, cfg.MigrationsDir)
	if err != nil {
		zlog.Fatal().Err(err).Msg("migration failed")
	}
	zlog.Info().Int("applied", applied).Str("dir", cfg.MigrationsDir).Msg("migrations up to date")
}
