package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techzeon/internal/api"
	"techzeon/internal/config"
	"techzeon/internal/logger"
	"techzeon/internal/validation"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if len(os.Args) > 1 && os.Args[1] == "validate" {
		runValidation(cfg, os.Args[2:])
		return
	}

	server, err := api.NewServer(cfg)
	if err != nil {
		logger.Fatal("Failed to start server", "error", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Get().Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Get().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Get().Error("Server forced to shutdown", "error", err)
	}

	if err := server.Cleanup(); err != nil {
		logger.Get().Error("Error during cleanup", "error", err)
	}

	logger.Get().Info("Server stopped")
}

// runValidation checks a running instance: api validate -url http://host:5000
func runValidation(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	baseURL := fs.String("url", "http://localhost:"+cfg.Port, "Base URL for API validation")
	email := fs.String("admin-email", cfg.Admin.Email, "Administrator email")
	password := fs.String("admin-password", cfg.Admin.Password, "Administrator password")
	prefix := fs.String("ticket-prefix", cfg.Ticket.Prefix, "Expected ticket id prefix")
	_ = fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	v := validation.NewContractValidator(*baseURL, *email, *password).WithTicketPrefix(*prefix)
	if err := v.ValidateAll(ctx); err != nil {
		logger.Fatal("API validation failed", "error", err)
	}
}
