package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradejournal/internal/auth"
	"tradejournal/internal/config"
	"tradejournal/internal/db"
	"tradejournal/internal/handlers"
	"tradejournal/internal/logging"
	"tradejournal/internal/services"
	"tradejournal/internal/store"
	"tradejournal/internal/websocket"

	zlog "github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("info", false)
		zlog.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.Production())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect database")
	}
	defer database.Close()

	users := store.NewUserStore(database)
	plans := store.NewTradingPlanStore(database)
	strategies := store.NewStrategyStore(database)
	trades := store.NewTradeStore(database)
	journals := store.NewJournalStore(database)
	performances := store.NewPerformanceStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	handler := handlers.New(
		cfg,
		services.NewAuthService(txRunner, users, audit, issuer),
		services.NewUserService(txRunner, users, plans, trades, journals, performances, audit),
		services.NewPlanService(txRunner, plans, trades, journals, performances, hub),
		services.NewStrategyService(txRunner, strategies, trades, performances, hub),
		services.NewTradeService(txRunner, plans, trades, journals, strategies, hub),
		services.NewJournalService(txRunner, plans, trades, journals, hub),
		services.NewPerformanceService(txRunner, plans, trades, strategies, performances, hub),
		users,
		hub,
	)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info().Str("addr", server.Addr).Str("env", cfg.AppEnv).Msg("trading journal API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal().Err(err).Msg("server error")
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zlog.Fatal().Err(err).Msg("shutdown error")
	}
	zlog.Info().Msg("server stopped")
}
