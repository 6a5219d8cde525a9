package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/upaylabs/fraudwatch/internal/model"
)

const promptTemplate = "You are an expert fraud classifier. Classify the given text as exactly one of: " +
	"Fraud, Not Fraud, Mediate. Reply with ONLY one of these EXACT labels.\n\n" +
	"Text: %s\n\nAnswer:"

const strictSuffix = "\nReturn only 'Fraud' or 'Not Fraud' or 'Mediate'."

// Classifier is the online classification adapter. When no credential is
// configured it stays disabled and every prediction comes back absent.
type Classifier struct {
	client Client
	logger *slog.Logger
}

// NewClassifier creates the online classifier for the configured provider.
// An empty API key yields a disabled classifier rather than an error.
func NewClassifier(cfg Config, logger *slog.Logger) (*Classifier, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.APIKey == "" {
		logger.Warn("no API key configured; online classifier disabled")
		return &Classifier{logger: logger}, nil
	}

	var client Client
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		client, err = newOpenAIClient(cfg)
	case "gemini", "":
		client, err = newGeminiClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return &Classifier{client: client, logger: logger}, nil
}

// NewClassifierWithClient wires a pre-built provider client. Used by tests
// and by callers that manage provider construction themselves.
func NewClassifierWithClient(client Client, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{client: client, logger: logger}
}

// Enabled reports whether the classifier has a usable provider client.
func (c *Classifier) Enabled() bool {
	return c.client != nil
}

// Predict asks the external service for a label. The call is made once, and
// retried a single time with a stricter instruction when the reply cannot be
// normalized. Any failure comes back as an absent label.
func (c *Classifier) Predict(ctx context.Context, text string) (model.Label, bool) {
	if c.client == nil {
		return "", false
	}

	prompt := fmt.Sprintf(promptTemplate, text)

	raw, err := c.client.Complete(ctx, prompt)
	if err != nil {
		c.logger.Error("online classification call failed", "error", err)
		return "", false
	}

	if label, ok := model.ParseLabel(raw); ok {
		c.logger.Info("online classification", "raw", raw, "label", label)
		return label, true
	}

	raw2, err := c.client.Complete(ctx, prompt+strictSuffix)
	if err != nil {
		c.logger.Error("online classification retry failed", "error", err)
		return "", false
	}

	label, ok := model.ParseLabel(raw2)
	if !ok {
		c.logger.Warn("online classifier output not recognized", "raw", raw, "retry_raw", raw2)
		return "", false
	}

	c.logger.Info("online classification (strict retry)", "raw", raw2, "label", label)
	return label, true
}
