package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"userapi/internal/config"
	"userapi/internal/handlers"
	"userapi/internal/repositories"
	"userapi/pkg/database"
)

const version = "1.0.0"

func main() {
	cfgPath := os.Getenv("USERAPI_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create database connection pool
	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(pool)

	userRepo := repositories.NewUserRepo(pool)
	if err := userRepo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to prepare schema: %v", err)
	}

	e := handlers.NewRouter(handlers.RouterConfig{
		Version:    version,
		HomeURL:    cfg.Redirect.Home,
		FaviconURL: cfg.Redirect.Favicon,
		BodyLimit:  cfg.Server.BodyLimit,
	}, userRepo, pool)

	go func() {
		log.Printf("userapi server v%s starting on %s", version, cfg.Address())
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("ERROR: server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace())
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
