package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/upaylabs/fraudwatch/internal/intake"
	"github.com/upaylabs/fraudwatch/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP intake server and background scanner",
		Long: `Start the HTTP API and the periodic scanner that drains pending
records from the store. Both shut down gracefully on SIGINT/SIGTERM.`,
		RunE: runServe,
	}

	cmd.Flags().String("listen", "", "listen address (default :8000)")
	cmd.Flags().Bool("no-scanner", false, "disable the background scanner")

	_ = viper.BindPFlag("server.listen", cmd.Flags().Lookup("listen"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	processor, err := initProcessor(store)
	if err != nil {
		return err
	}

	noScanner, _ := cmd.Flags().GetBool("no-scanner")
	var scanner *intake.Scanner
	if !noScanner {
		interval, batchSize := scannerSettings()
		scanner = intake.NewScanner(store, processor, interval, batchSize, slog.Default().With("component", "scanner"))
		if err := scanner.Start(ctx); err != nil {
			return err
		}
	}

	addr := viper.GetString("server.listen")
	if addr == "" {
		addr = ":8000"
	}

	srv := server.New(processor, store, slog.Default().With("component", "server"))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(addr) }()

	select {
	case err := <-errCh:
		if scanner != nil {
			<-scanner.Stop().Done()
		}
		return err
	case <-ctx.Done():
	}

	if scanner != nil {
		<-scanner.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("Shutdown complete")
	return nil
}
