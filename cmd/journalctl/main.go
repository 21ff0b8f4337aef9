package main

import (
	"context"
	"os"
	"time"

	"tradejournal/internal/auth"
	"tradejournal/internal/config"
	"tradejournal/internal/db"
	"tradejournal/internal/logging"
	"tradejournal/internal/services"
	"tradejournal/internal/store"

	zlog "github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd(connect).Execute(); err != nil {
		os.Exit(1)
	}
}

// connect builds the services the operator commands need from the same
// environment the API server reads.
func connect(ctx context.Context) (userAdmin, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.Production())

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	database, err := db.Connect(connectCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	users := store.NewUserStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	admin := operator{
		AuthService: services.NewAuthService(txRunner, users, audit, issuer),
		UserService: services.NewUserService(
			txRunner,
			users,
			store.NewTradingPlanStore(database),
			store.NewTradeStore(database),
			store.NewJournalStore(database),
			store.NewPerformanceStore(database),
			audit,
		),
	}
	closeFn := func() {
		if err := database.Close(); err != nil {
			zlog.Warn().Err(err).Msg("close database")
		}
	}
	return admin, closeFn, nil
}

type operator struct {
	*services.AuthService
	*services.UserService
}
