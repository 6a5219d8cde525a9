package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/upaylabs/fraudwatch/internal/intake"
	"github.com/upaylabs/fraudwatch/internal/model"
)

var (
	fraudStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	notFraudStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	mediateStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	metaStyle     = lipgloss.NewStyle().Faint(true)
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [text]",
		Short: "Classify a message from the terminal",
		Long: `Classify a single message, or start an interactive session when no
text is given. Messages are recorded with source=terminal.`,
		RunE: runClassify,
	}

	cmd.Flags().Bool("json", false, "print the full result payload as JSON")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
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

	asJSON, _ := cmd.Flags().GetBool("json")

	if len(args) > 0 {
		payload, err := processor.Process(ctx, model.SourceTerminal, strings.Join(args, " "))
		if err != nil {
			return err
		}
		printPayload(payload, asJSON)
		return nil
	}

	// Interactive mode.
	fmt.Println("Interactive mode. Type 'exit' to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("message> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			break
		}

		payload, err := processor.Process(ctx, model.SourceTerminal, text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		printPayload(payload, asJSON)

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
	return scanner.Err()
}

func printPayload(payload intake.Payload, asJSON bool) {
	if asJSON {
		out, _ := json.MarshalIndent(payload, "", "  ")
		fmt.Println(string(out))
		return
	}

	fmt.Println(labelStyle(payload.Result).Render(string(payload.Result)))
	origin, _ := payload.Meta["origin"].(string)
	fmt.Println(metaStyle.Render(fmt.Sprintf("origin=%s after_hours=%t id=%s", origin, payload.AfterHours, payload.ID)))
}

func labelStyle(label model.Label) lipgloss.Style {
	switch label {
	case model.LabelFraud:
		return fraudStyle
	case model.LabelNotFraud:
		return notFraudStyle
	default:
		return mediateStyle
	}
}
