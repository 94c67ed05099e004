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

	"github.com/senyehor/yamdb/internal/auth"
	"github.com/senyehor/yamdb/internal/config"
	httpserver "github.com/senyehor/yamdb/internal/http"
	"github.com/senyehor/yamdb/internal/logger"
	"github.com/senyehor/yamdb/internal/mailer"
	"github.com/senyehor/yamdb/internal/repository"
	"github.com/senyehor/yamdb/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logOpts := []logger.Option{}
	if cfg.IsDevelopment() {
		logOpts = append(logOpts, logger.WithDevelopment())
	}
	slogger := logger.New("yamdb", logOpts...)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	st, err := store.New(dbCtx, cfg.DB, slogger)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx, cfg.DB.MigrationsPath); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	var sender mailer.Sender
	if cfg.Mailer.PostmarkServerToken != "" {
		sender, err = mailer.NewPostmarkSender(cfg.Mailer)
		if err != nil {
			log.Fatalf("init mailer: %v", err)
		}
	} else {
		slogger.Warn("postmark token not set, writing emails to disk", "dir", cfg.Mailer.DevEmailDir)
		sender = mailer.NewDevSender(cfg.Mailer.DevEmailDir)
	}

	repo := repository.New(st)
	tokens := auth.NewTokenIssuer(cfg.Auth)
	authSvc := auth.NewService(repo.EmailCodes, repo.Users, sender, tokens, slogger)
	server := httpserver.New(cfg, st, repo, authSvc, tokens, slogger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			slogger.Error("server error", "error", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slogger.Error("graceful shutdown error", "error", err)
	}
}
