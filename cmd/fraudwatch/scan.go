package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Drain pending records from the store",
		Long: `Process records still marked new (or missing a result) through the
classification pipeline, exactly as the background scanner would.`,
		RunE: runScan,
	}

	cmd.Flags().Int("batch-size", 100, "maximum records per batch")

	return cmd
}

func runScan(cmd *cobra.Command, _ []string) error {
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

	batchSize, _ := cmd.Flags().GetInt("batch-size")

	records, err := store.FindUnprocessed(ctx, batchSize)
	if err != nil {
		return fmt.Errorf("failed to query pending records: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No pending records.")
		return nil
	}

	bar := progressbar.Default(int64(len(records)), "classifying")
	processed := 0
	for _, record := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if _, err := processor.ProcessRecord(ctx, record); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "record %d skipped: %v\n", record.ID, err)
		} else {
			processed++
		}
		_ = bar.Add(1)
	}

	fmt.Printf("\nProcessed %d of %d pending records.\n", processed, len(records))
	return nil
}
