// Package model defines the core domain models used throughout the application.
package model

import "strings"

// Label is the closed classification outcome for a message.
type Label string

// Label constants. The zero value means "no label".
const (
	LabelFraud    Label = "Fraud"
	LabelNotFraud Label = "Not Fraud"
	LabelMediate  Label = "Mediate"
)

// IsSet reports whether the label holds one of the three known outcomes.
func (l Label) IsSet() bool {
	return l == LabelFraud || l == LabelNotFraud || l == LabelMediate
}

// exact matches checked before any substring rules.
var exactLabels = map[string]Label{
	"fraud":     LabelFraud,
	"not fraud": LabelNotFraud,
	"mediate":   LabelMediate,
}

// ParseLabel canonicalizes arbitrary classifier output into a Label.
// Matching is case-insensitive and ignores periods and apostrophes.
// The "not"+"fraud" rule must run before the bare "fraud" rule so that
// "not fraud" variants do not collapse to Fraud.
func ParseLabel(raw string) (Label, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "'", "")
	if s == "" {
		return "", false
	}

	if label, ok := exactLabels[s]; ok {
		return label, true
	}
	if strings.Contains(s, "not") && strings.Contains(s, "fraud") {
		return LabelNotFraud, true
	}
	if strings.Contains(s, "mediate") {
		return LabelMediate, true
	}
	if strings.Contains(s, "fraud") || strings.Contains(s, "scam") || strings.Contains(s, "spam") {
		return LabelFraud, true
	}
	return "", false
}
