package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iraycd/sway-backend/internal/config"
	"github.com/iraycd/sway-backend/internal/connections"
	"github.com/iraycd/sway-backend/internal/handlers"
	redisinfra "github.com/iraycd/sway-backend/internal/infrastructure/redis"
	"github.com/iraycd/sway-backend/internal/logger"
	"github.com/iraycd/sway-backend/internal/services/analyzer"
	"github.com/iraycd/sway-backend/internal/services/chat"
	"github.com/iraycd/sway-backend/internal/services/completion"
	"github.com/iraycd/sway-backend/internal/services/decomposer"
	"github.com/iraycd/sway-backend/internal/services/oauth"
	"github.com/iraycd/sway-backend/internal/store"
	"github.com/iraycd/sway-backend/pkg/ratelimit"
)

func main() {
	logger.Init()

	cfg := config.Load()

	db, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not open database")
	}

	gateway := completion.NewService(cfg)
	pipeline := chat.NewService(
		gateway,
		analyzer.NewService(gateway, cfg),
		decomposer.NewService(gateway, cfg),
		cfg,
	)

	var limiter ratelimit.Limiter
	if client := redisinfra.NewClient(cfg); client != nil {
		limiter = ratelimit.NewRedisLimiter(client, cfg.RateLimitWindow, cfg.RateLimitMaxHits)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitWindow, cfg.RateLimitMaxHits)
	}

	manager := connections.NewManager(connections.DefaultTimeouts)

	router := handlers.NewRouter(&handlers.Services{
		Auth:        oauth.NewService(cfg),
		Store:       db,
		Pipeline:    pipeline,
		Limiter:     limiter,
		Connections: manager,
	})

	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", cfg.ServerAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	manager.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
}
