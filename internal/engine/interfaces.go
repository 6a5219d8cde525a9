package engine

import (
	"context"

	"github.com/upaylabs/fraudwatch/internal/model"
)

// OfflineClassifier is the local, always-available classification stage.
// A false return means the stage produced no usable signal.
type OfflineClassifier interface {
	Predict(text string) (model.Label, bool)
}

// OnlineClassifier is the external, service-backed classification stage,
// consulted only when the offline stage is inconclusive.
type OnlineClassifier interface {
	Predict(ctx context.Context, text string) (model.Label, bool)
}
