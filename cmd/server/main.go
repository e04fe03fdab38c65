package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "movieapi/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"movieapi/internal/auth"
	"movieapi/internal/cache"
	"movieapi/internal/config"
	"movieapi/internal/db"
	"movieapi/internal/handler"
	"movieapi/internal/logger"
	"movieapi/internal/repository"
	"movieapi/internal/router"
	"movieapi/internal/service"
)

// @title Movies API
// @version 1.0
// @description Movies and users API with token-gated movie listing.
// @host localhost:3000
// @BasePath /
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		zl.Fatal("database init", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gormDB); err != nil {
			zl.Fatal("auto-migrate", zap.Error(err))
		}
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		zl.Warn("redis unavailable, serving without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	cancelPing()
	defer func() { _ = cacheClient.Close() }()

	codec, err := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		zl.Fatal("token codec", zap.Error(err))
	}
	hasher, err := auth.NewPasswordHasher(cfg.PasswordScheme)
	if err != nil {
		zl.Fatal("password hasher", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	movieRepo := repository.NewMovieRepository(gormDB)

	// Initialize services
	authService := service.NewAuthService(userRepo, codec, hasher, zl)
	userService := service.NewUserService(userRepo, cacheClient)
	movieService := service.NewMovieService(movieRepo, cacheClient)

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		cfg,
		codec,
		zl,
		handler.NewAuthHandler(authService, zl, cfg.GenericAuthErrors),
		handler.NewUserHandler(userService, zl),
		handler.NewMovieHandler(movieService, zl),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		zl.Info("server listening",
			zap.String("addr", addr),
			zap.String("swagger", "http://localhost:"+cfg.ServerPort+"/api-doc/index.html"),
			zap.String("token_lookup", cfg.TokenLookup),
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}
}
