// Package engine implements the staged classification pipeline that drives
// every message through offline scoring, optional online escalation, and the
// finalize policy.
package engine

import (
	"context"
	"log/slog"

	"github.com/upaylabs/fraudwatch/internal/model"
)

// stage identifies a node in the classification state machine.
type stage int

const (
	stageOffline stage = iota
	stageOnline
	stageFinalize
)

// Engine sequences the classification stages for a single message. Stateless
// between runs; safe for concurrent use across independent messages.
type Engine struct {
	offline OfflineClassifier
	online  OnlineClassifier
	logger  *slog.Logger
}

// New creates a classification engine with the given stage implementations.
func New(offline OfflineClassifier, online OnlineClassifier, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		offline: offline,
		online:  online,
		logger:  logger,
	}
}

// Classify runs one message through the pipeline. The online stage is only
// consulted when the offline label is absent or Mediate; stage ordering
// within a message is strict. A stage that fails contributes an absent label
// and the pipeline always reaches finalize.
func (e *Engine) Classify(ctx context.Context, text string, afterHours bool) model.Decision {
	var offlineLabel, onlineLabel model.Label

	current := stageOffline
	for current != stageFinalize {
		switch current {
		case stageOffline:
			if label, ok := e.offline.Predict(text); ok {
				offlineLabel = label
			}
			e.logger.Info("offline stage complete", "label", labelOrNone(offlineLabel))
			current = routeAfterOffline(offlineLabel)
		case stageOnline:
			if label, ok := e.online.Predict(ctx, text); ok {
				onlineLabel = label
			}
			e.logger.Info("online stage complete", "label", labelOrNone(onlineLabel))
			current = stageFinalize
		case stageFinalize:
		}
	}

	decision := Finalize(offlineLabel, onlineLabel, afterHours)
	e.logger.Info("final label",
		"label", decision.Label,
		"origin", decision.Origin,
		"after_hours", decision.AfterHours)
	return decision
}

// routeAfterOffline decides whether the costed online call can be skipped.
// A confident offline label (Fraud or Not Fraud) finalizes directly.
func routeAfterOffline(offlineLabel model.Label) stage {
	if !offlineLabel.IsSet() || offlineLabel == model.LabelMediate {
		return stageOnline
	}
	return stageFinalize
}

func labelOrNone(l model.Label) string {
	if !l.IsSet() {
		return "none"
	}
	return string(l)
}
