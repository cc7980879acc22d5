package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/OldStager01/bikeshare-dashboard/internal/logger"
	"github.com/OldStager01/bikeshare-dashboard/internal/simulator"
	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	def := simulator.DefaultConfig()

	out := flag.String("out", "dashboard", "output directory")
	format := flag.String("format", simulator.FormatCSV, "output format: csv or xlsx")
	start := flag.String("start", def.Start.Format(models.DateLayout), "first date (YYYY-MM-DD)")
	days := flag.Int("days", def.Days, "number of days")
	base := flag.Int("base", def.BaseDaily, "baseline rides per day")
	pattern := flag.String("pattern", "realistic", "demand pattern: steady, weekly, seasonal, growth, realistic")
	seed := flag.Int64("seed", def.Seed, "random seed")
	geo := flag.Bool("geo", true, "add lat/long columns to the hourly table")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger.Setup(*logLevel, "development")

	startDate, err := time.Parse(models.DateLayout, *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}

	cfg := def
	cfg.Start = startDate
	cfg.Days = *days
	cfg.BaseDaily = *base
	cfg.Pattern = simulator.ParsePattern(*pattern)
	cfg.Seed = *seed
	cfg.Geo = *geo

	logger.WithFields(map[string]interface{}{
		"days":    cfg.Days,
		"pattern": cfg.Pattern.Name(),
		"seed":    cfg.Seed,
		"geo":     cfg.Geo,
	}).Info("Generating synthetic bike-share dataset")

	paths, err := simulator.Write(simulator.Generate(cfg), *out, *format)
	if err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}

	logger.Infof("Wrote %s and %s", paths.Daily, paths.Hourly)
	return nil
}
