package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/cube4/internal/config"
	"github.com/iamasit07/cube4/internal/repository/redis"
	"github.com/iamasit07/cube4/internal/repository/sqldb"
	"github.com/iamasit07/cube4/internal/service/bot"
	"github.com/iamasit07/cube4/internal/service/cleanup"
	"github.com/iamasit07/cube4/internal/service/history"
	"github.com/iamasit07/cube4/internal/service/move"
	transportHttp "github.com/iamasit07/cube4/internal/transport/http"
	"github.com/iamasit07/cube4/internal/transport/http/middleware"
	"github.com/iamasit07/cube4/internal/transport/websocket"
	"github.com/iamasit07/cube4/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	envErr := godotenv.Load()
	if envErr != nil {
		envErr = godotenv.Load("../.env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		log.Info().Msg("no .env file found")
	}
	gin.SetMode(gin.ReleaseMode)

	// 1. Engine
	engineOpts, err := cfg.Search.EngineOptions()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid search settings")
	}
	engine, err := bot.NewEngine(engineOpts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build engine")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	moveOpts := []move.Option{move.WithDefaultDifficulty(cfg.Search.DefaultDifficulty())}

	// 2. Decision history (optional)
	var lister transportHttp.DecisionLister
	var recorder *history.Recorder
	if cfg.Database.URL != "" {
		db, err := sqldb.Open(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("database unreachable")
		}
		defer db.Close()

		log.Info().Msg("running database migrations")
		if err := sqldb.RunMigrations(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}

		decisionRepo := sqldb.NewDecisionRepo(db)
		lister = decisionRepo
		recorder = history.NewRecorder(decisionRepo, cfg.History.BufferSize)
		recorder.Start()
		moveOpts = append(moveOpts, move.WithRecorder(recorder))

		cleanupWorker := cleanup.NewWorker(decisionRepo, cfg.History.RetentionDays, cfg.History.CleanupInterval)
		go cleanupWorker.Start(ctx)
	} else {
		log.Info().Msg("DATABASE_URL not set, decision history disabled")
	}

	// 3. Decision cache (optional)
	if err := redis.InitRedis(cfg.Redis); err != nil {
		log.Warn().Err(err).Msg("failed to initialize redis")
	}
	defer redis.CloseRedis()
	if redis.IsRedisEnabled() && redis.RedisClient != nil {
		moveOpts = append(moveOpts, move.WithCache(redis.NewRedisCache(redis.RedisClient), cfg.Redis.CacheTTL))
	}

	moveService := move.NewService(engine, moveOpts...)

	// 4. Transport
	wsHandler := websocket.NewHandler(moveService, cfg.Auth.RequireAuth, cfg.Auth.JWTSecret, cfg.Server.AllowedOrigins)
	router := transportHttp.NewRouter(transportHttp.RouterConfig{
		Moves:       moveService,
		History:     lister,
		WebSocket:   wsHandler.HandleWebSocket,
		RequireAuth: cfg.Auth.RequireAuth,
		JWTSecret:   cfg.Auth.JWTSecret,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: middleware.CORS(cfg.Server.AllowedOrigins, router),
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("server is shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if recorder != nil {
		recorder.Stop()
	}

	log.Info().Msg("server exited gracefully")
}
