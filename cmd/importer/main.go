package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clubsignup/internal/commerce7"
	"clubsignup/internal/config"
	"clubsignup/internal/importer"
	"clubsignup/internal/logging"
	addresssvc "clubsignup/internal/service/address"
	customersvc "clubsignup/internal/service/customer"
	membershipsvc "clubsignup/internal/service/membership"
	signupsvc "clubsignup/internal/service/signup"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		filePath   string
		configPath string
		dryRun     bool
	)
	flag.StringVar(&filePath, "file", "", "Path to signup CSV")
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.BoolVar(&dryRun, "dry-run", false, "Validate rows without calling Commerce7")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		return 2
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Error("open file", zap.Error(err))
		return 1
	}
	defer f.Close()

	client := commerce7.NewClient(cfg.Commerce7, logger.Named("commerce7"))
	signupService := signupsvc.New(
		customersvc.New(client, logger.Named("customer")),
		addresssvc.New(client, logger.Named("address")),
		membershipsvc.New(client, cfg.PickupLocationID, logger.Named("membership")),
		client,
		logger.Named("signup"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	imp := importer.NewCSVImporter(f, signupService, dryRun, logger.Named("importer"))

	start := time.Now()
	report, err := imp.Run(ctx)
	if err != nil {
		logger.Error("import failed", zap.Error(err))
	}

	for _, row := range report.Rows {
		if row.Err != nil {
			fmt.Printf("row %d (%s): %v\n", row.Row, logging.RedactEmail(row.Email), row.Err)
		}
	}
	fmt.Printf("Processed %d signups (%d failed) in %s\n",
		report.Succeeded+report.Failed, report.Failed, time.Since(start).Truncate(time.Millisecond))

	if err != nil || report.Failed > 0 {
		return 1
	}
	return 0
}
