package engine

import "github.com/upaylabs/fraudwatch/internal/model"

// Finalize combines the two raw stage labels and the after-hours flag into
// the final decision. Deterministic for fixed inputs.
//
// The offline label wins outright unless it is absent or Mediate; otherwise
// the online label is used when present, and Mediate is the default. An
// unresolved Mediate arriving after hours is escalated to Fraud, with the
// origin left untouched for audit.
func Finalize(offlineLabel, onlineLabel model.Label, afterHours bool) model.Decision {
	var chosen model.Label
	var origin model.Origin

	switch {
	case offlineLabel.IsSet() && offlineLabel != model.LabelMediate:
		chosen = offlineLabel
		origin = model.OriginOffline
	case onlineLabel.IsSet():
		chosen = onlineLabel
		origin = model.OriginOnline
	default:
		chosen = model.LabelMediate
		origin = model.OriginDefault
	}

	if afterHours && chosen == model.LabelMediate {
		chosen = model.LabelFraud
	}

	return model.Decision{
		Label:        chosen,
		Origin:       origin,
		OfflineLabel: offlineLabel,
		OnlineLabel:  onlineLabel,
		AfterHours:   afterHours,
	}
}
