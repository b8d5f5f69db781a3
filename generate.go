package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"qsr-forecast/config"
	"qsr-forecast/generator/qsr"
	"qsr-forecast/metrics"
	"qsr-forecast/models"
	"qsr-forecast/services"
	"qsr-forecast/storage"
	"qsr-forecast/tracking"
	"qsr-forecast/utils"
)

func runGenerate(ctx context.Context, logger *utils.Logger, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.LogLevel)

	logger.Info("=== QSR Synthetic Data Generator starting ===")
	logger.Info("Config — stores: %d | range: %s to %s | seed: %d | growth: %.1f%%/yr | out: %s",
		cfg.Generator.Stores, cfg.Generator.StartDate, cfg.Generator.EndDate,
		cfg.Generator.Seed, cfg.Generator.GrowthRate*100, cfg.Data.Dir)

	m := metrics.NewGeneratorMetrics()
	began := time.Now()

	ds, err := generateAndStore(ctx, cfg, logger)
	if err != nil {
		m.ObserveFailure(time.Since(began))
		writeMetrics(cfg, m, logger)
		return err
	}
	m.ObserveSuccess(ds, time.Since(began))
	writeMetrics(cfg, m, logger)

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(ds)

	if cfg.MLflow.LogGeneration {
		if err := recordRun(ctx, cfg, ds, report, logger); err != nil {
			logger.Warn("Could not record generation run: %v", err)
		}
	}

	if err := insightSvc.Print(os.Stdout, report); err != nil {
		logger.Warn("Summary report failed: %v", err)
	}

	fmt.Printf("  Done. %d records → %s\n\n", len(ds.Sales), cfg.Data.Dir)
	return nil
}

// generateAndStore simulates the dataset and hands it to persist.
func generateAndStore(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*models.Dataset, error) {
	start, end, err := cfg.Generator.Dates()
	if err != nil {
		return nil, err
	}
	dateRange, err := qsr.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}

	gen, err := qsr.New(qsr.Params{
		Seed:       cfg.Generator.Seed,
		Stores:     cfg.Generator.Stores,
		Range:      dateRange,
		GrowthRate: cfg.Generator.GrowthRate,
	}, logger)
	if err != nil {
		return nil, err
	}

	ds, err := gen.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	if err := persist(ctx, cfg, ds, logger); err != nil {
		return nil, err
	}
	return ds, nil
}

// persist validates ds and exports it. Nothing is written unless the whole
// dataset passes validation.
func persist(ctx context.Context, cfg *config.Config, ds *models.Dataset, logger *utils.Logger) error {
	if err := services.NewDataValidator(logger).Validate(ds).Err(); err != nil {
		return err
	}

	exporters := []storage.Exporter{storage.NewDatasetWriter(cfg.DataPaths(), logger)}

	var pg *storage.PostgresWriter
	if cfg.Postgres.Enabled {
		var err error
		if pg, err = connectPostgres(ctx, cfg, logger); err != nil {
			return err
		}
		exporters = append(exporters, pg)
	}

	for _, e := range exporters {
		defer e.Close()
	}
	for _, e := range exporters {
		if err := e.Export(ctx, ds); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	if pg != nil {
		stored, err := pg.CountSales(ctx)
		if err != nil {
			return err
		}
		if stored != len(ds.Sales) {
			return fmt.Errorf("postgres: stored %d sales rows, generated %d", stored, len(ds.Sales))
		}
		logger.Info("Sales stored in PostgreSQL (table: daily_sales, %d rows)", stored)
	}
	return nil
}

func connectPostgres(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*storage.PostgresWriter, error) {
	retry := &utils.RetryConfig{
		MaxAttempts: 10,
		BaseDelay:   time.Second,
		MaxDelay:    5 * time.Second,
		Logger:      logger,
	}
	pg, err := storage.NewPostgresWriter(ctx, cfg.Postgres.DSN(), retry, logger)
	if err != nil {
		logger.Error("Make sure PostgreSQL is running: docker compose up -d")
		return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
	}
	return pg, nil
}

func recordRun(ctx context.Context, cfg *config.Config, ds *models.Dataset, report *models.SummaryReport, logger *utils.Logger) error {
	store, err := tracking.Open(cfg.MLflow.TrackingDB)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Record(ctx, tracking.RunRecord{
		Experiment: cfg.MLflow.ExperimentName,
		Name:       "generate-" + time.Now().UTC().Format("20060102T150405"),
		Params: map[string]string{
			"seed":        strconv.FormatUint(cfg.Generator.Seed, 10),
			"stores":      strconv.Itoa(cfg.Generator.Stores),
			"start_date":  cfg.Generator.StartDate,
			"end_date":    cfg.Generator.EndDate,
			"growth_rate": strconv.FormatFloat(cfg.Generator.GrowthRate, 'f', -1, 64),
		},
		Metrics: map[string]float64{
			"records":            float64(len(ds.Sales)),
			"train_records":      float64(len(ds.Train)),
			"validation_records": float64(len(ds.Validation)),
			"mean_sales":         report.MeanSales,
			"mean_guests":        report.MeanGuests,
			"mean_ticket":        report.MeanTicket,
		},
	})
	if err != nil {
		return err
	}
	logger.Info("Recorded generation run %s in experiment %q", id, cfg.MLflow.ExperimentName)
	return nil
}

func writeMetrics(cfg *config.Config, m *metrics.GeneratorMetrics, logger *utils.Logger) {
	if cfg.Metrics.Textfile == "" {
		return
	}
	if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logger.Warn("%v", err)
	}
}
