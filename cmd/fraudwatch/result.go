package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func resultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "result <id>",
		Short: "Show a stored classification record",
		Args:  cobra.ExactArgs(1),
		RunE:  runResult,
	}
}

func runResult(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}

	ctx := cmd.Context()
	store, err := initStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	record, err := store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
