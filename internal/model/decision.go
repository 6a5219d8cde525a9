package model

// Origin records which stage produced the final label before any override.
type Origin string

// Decision origins.
const (
	OriginOffline Origin = "offline"
	OriginOnline  Origin = "online"
	OriginDefault Origin = "default"
)

// Decision is the audit record attached to every classified message.
type Decision struct {
	Label        Label
	Origin       Origin
	OfflineLabel Label
	OnlineLabel  Label
	AfterHours   bool
}

// Meta flattens the decision into the persisted metadata map.
func (d Decision) Meta() map[string]any {
	meta := map[string]any{
		"origin":      string(d.Origin),
		"after_hours": d.AfterHours,
	}
	if d.OfflineLabel.IsSet() {
		meta["offline_label"] = string(d.OfflineLabel)
	} else {
		meta["offline_label"] = nil
	}
	if d.OnlineLabel.IsSet() {
		meta["online_label"] = string(d.OnlineLabel)
	} else {
		meta["online_label"] = nil
	}
	return meta
}
