package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/upaylabs/fraudwatch/internal/config"
	"github.com/upaylabs/fraudwatch/internal/engine"
	"github.com/upaylabs/fraudwatch/internal/heuristic"
	"github.com/upaylabs/fraudwatch/internal/intake"
	"github.com/upaylabs/fraudwatch/internal/llm"
	"github.com/upaylabs/fraudwatch/internal/storage"
)

// initStore opens the record store and applies migrations.
func initStore(ctx context.Context) (*storage.SQLiteStore, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/fraudwatch/fraudwatch.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initProcessor wires the classification engine and the intake processor.
func initProcessor(store *storage.SQLiteStore) (*intake.Processor, error) {
	logger := slog.Default()

	offline := heuristic.NewScorer(nil, logger.With("component", "offline"))

	timeout := viper.GetDuration("llm.timeout")
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	online, err := llm.NewClassifier(llm.Config{
		Provider:    viper.GetString("llm.provider"),
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		Timeout:     timeout,
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}, logger.With("component", "online"))
	if err != nil {
		return nil, fmt.Errorf("failed to create online classifier: %w", err)
	}

	eng := engine.New(offline, online, logger.With("component", "engine"))

	opts := []intake.Option{}
	if hour := viper.GetInt("afterhours.start"); hour > 0 {
		opts = append(opts, intake.WithAfterHoursStart(hour))
	}

	return intake.NewProcessor(store, eng, logger.With("component", "intake"), opts...), nil
}

// scannerSettings reads the scan schedule from config with defaults.
func scannerSettings() (time.Duration, int) {
	interval := viper.GetDuration("scanner.interval")
	if interval == 0 {
		interval = time.Minute
	}
	batchSize := viper.GetInt("scanner.batch_size")
	if batchSize == 0 {
		batchSize = 100
	}
	return interval, batchSize
}
