package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"clubsignup/internal/commerce7"
	"clubsignup/internal/config"
	"clubsignup/internal/httpserver"
	"clubsignup/internal/logging"
	addresssvc "clubsignup/internal/service/address"
	customersvc "clubsignup/internal/service/customer"
	membershipsvc "clubsignup/internal/service/membership"
	signupsvc "clubsignup/internal/service/signup"
	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	client := commerce7.NewClient(cfg.Commerce7, logger.Named("commerce7"))
	signupService := signupsvc.New(
		customersvc.New(client, logger.Named("customer")),
		addresssvc.New(client, logger.Named("address")),
		membershipsvc.New(client, cfg.PickupLocationID, logger.Named("membership")),
		client,
		logger.Named("signup"),
	)

	srv := httpserver.New(cfg, logger.Named("http"), httpserver.Deps{
		Signup: signupService,
		Auth:   client,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", srv.Addr()), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
