package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/devhire/backend/internal/api"
	"github.com/devhire/backend/internal/cache"
	"github.com/devhire/backend/internal/config"
	"github.com/devhire/backend/internal/mail"
	"github.com/devhire/backend/internal/realtime"
	"github.com/devhire/backend/internal/repository/postgres"
	"github.com/devhire/backend/internal/service"
	"github.com/devhire/backend/internal/session"
	"github.com/devhire/backend/internal/storage"
	"github.com/devhire/backend/internal/token"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO [main] no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL [main] failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL [main] failed to connect to database: %v", err)
	}
	repos := postgres.NewRepositories(db)

	redisCache, err := cache.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("FATAL [main] failed to connect to redis: %v", err)
	}
	defer redisCache.Close()

	tokens, err := token.NewService(cfg)
	if err != nil {
		log.Fatalf("FATAL [main] failed to build token service: %v", err)
	}
	sessions := session.NewStore(redisCache, cfg.SessionTTL)

	mailer, err := mail.NewSMTPMailer(cfg)
	if err != nil {
		log.Fatalf("FATAL [main] failed to build mailer: %v", err)
	}

	imageStore, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		log.Fatalf("FATAL [main] failed to build image store: %v", err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	services := service.NewServices(service.Dependencies{
		Repos:      repos,
		Cache:      redisCache,
		Sessions:   sessions,
		Tokens:     tokens,
		Mailer:     mailer,
		ImageStore: imageStore,
		Hub:        hub,
		Config:     cfg,
	})

	router := api.NewRouter(services, tokens, sessions, hub, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("INFO [main] server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL [main] server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("INFO [main] shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR [main] graceful shutdown failed: %v", err)
	}
}
