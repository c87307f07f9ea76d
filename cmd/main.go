package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"animeapi/config"
	"animeapi/internal/api/anime"
	"animeapi/internal/api/router"
	"animeapi/internal/api/user"
	"animeapi/internal/pkg/cache"
	"animeapi/internal/pkg/database"
	"animeapi/internal/pkg/logger"
	"animeapi/internal/pkg/token"
	"animeapi/internal/repository/animerepo"
	"animeapi/internal/repository/userrepo"
	"animeapi/internal/service/animeservice"
	"animeapi/internal/service/userservice"
)

// @title Anime API
// @version 1.0
// @description CRUD API for the anime catalog with role-based authorization.
// @BasePath /
func main() {
	if err := godotenv.Load(); err != nil {
		// Not fatal: in containers the variables come from the environment.
		stdlog.Println("no .env file found, reading configuration from the environment")
	}

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	log.Info("configuration loaded", map[string]interface{}{"env": cfg.Environment})

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to the database", err)
	}
	defer db.Close()
	log.Info("postgres connection established", nil)

	cacheClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect to redis", err)
	}
	log.Info("redis connection established", nil)

	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	animeRepo := animerepo.NewAnimeRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
	animeSvc := animeservice.NewService(animeRepo, log)
	animeHandler := anime.NewHandler(animeSvc, log)

	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	userSvc := userservice.NewService(userRepo, tokenSvc, log)
	userHandler := user.NewHandler(userSvc, log)

	handler := router.New(animeHandler, userHandler, tokenSvc, cacheClient,
		cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced server shutdown", err)
	}

	log.Info("server stopped", nil)
}
