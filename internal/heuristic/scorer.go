// Package heuristic implements the local, dependency-free fraud scorer that
// runs on every inbound message before any external classifier is consulted.
package heuristic

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/upaylabs/fraudwatch/internal/model"
)

// LocalModel is an optional trained-model strategy. When configured, its
// output is normalized and used in place of the keyword heuristics. The
// return value may be any scalar-ish prediction; it is stringified before
// normalization.
type LocalModel interface {
	Predict(text string) (any, error)
}

// fraudKeywords each add 2 to the score when present in the message.
var fraudKeywords = []string{
	"otp", "kyc", "urgent", "immediately", "verify", "verification",
	"blocked", "suspend", "suspended", "lottery", "gift", "refund",
	"click", "link", "qr", "scan", "pin", "password", "cvv",
	"update account", "reset", "collect request", "upi collect",
	"call", "whatsapp", "telegram", "send money", "transfer",
	"prize", "winner", "free", "limited time", "offer", "bonus",
	"bank manager", "customer care", "support",
}

// mediateSignals mark a message as ambiguous when the score is inconclusive.
var mediateSignals = []string{
	"unknown", "unexpected", "strange", "suspicious",
}

// safePatterns describe ordinary transaction notifications. A match caps an
// otherwise low-scoring message at Not Fraud.
var safePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)UPI payment received`),
	regexp.MustCompile(`(?i)credited to your account`),
	regexp.MustCompile(`(?i)debit of INR .* via UPI`),
	regexp.MustCompile(`(?i)transaction id|txn id|utr`),
	regexp.MustCompile(`(?i)payment successful`),
	regexp.MustCompile(`(?i)thank you for using`),
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	linkRe       = regexp.MustCompile(`https?://|\bbit\.ly\b|tinyurl|\.link\b|\d{10}\b`)
	amountRe     = regexp.MustCompile(`inr\s*\d+|rs\.?\s*\d+|\b\d{3,}\b`)
	emailRe      = regexp.MustCompile(`[a-z0-9_.-]+@[a-z]+`)
)

// Scorer is the offline classifier. Safe for concurrent use; the local model
// handle is read-only after construction.
type Scorer struct {
	local  LocalModel
	logger *slog.Logger
}

// NewScorer creates an offline scorer. The local model may be nil, in which
// case only the keyword heuristics run.
func NewScorer(local LocalModel, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{local: local, logger: logger}
}

// normalize collapses whitespace, lowercases and trims the input.
func normalize(text string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
}

// Score computes the integer fraud-signal score for a message.
func (s *Scorer) Score(text string) int {
	t := normalize(text)
	score := 0
	for _, kw := range fraudKeywords {
		if strings.Contains(t, kw) {
			score += 2
		}
	}
	if linkRe.MatchString(t) {
		score += 3
	}
	if amountRe.MatchString(t) && (strings.Contains(t, "urgent") || strings.Contains(t, "immediately")) {
		score += 2
	}
	if emailRe.MatchString(t) {
		score += 1
	}
	return score
}

func isSafeLike(t string) bool {
	for _, pat := range safePatterns {
		if pat.MatchString(t) {
			return true
		}
	}
	return false
}

// Predict classifies a message locally. The second return is false only for
// empty input or when no usable signal could be produced; the caller routes
// such messages to the online stage.
func (s *Scorer) Predict(text string) (model.Label, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	if s.local != nil {
		if label, ok := s.predictLocal(text); ok {
			return label, true
		}
	}

	t := normalize(text)
	score := s.Score(t)
	s.logger.Debug("offline score computed", "score", score)

	// Rule order matters: the safe-pattern cap can override a nonzero score.
	switch {
	case isSafeLike(t) && score <= 1:
		return model.LabelNotFraud, true
	case score >= 5:
		return model.LabelFraud, true
	case containsAny(t, mediateSignals):
		return model.LabelMediate, true
	case score >= 2 && score <= 4:
		return model.LabelMediate, true
	default:
		return model.LabelNotFraud, true
	}
}

// predictLocal asks the trained model and normalizes whatever it returns.
// Any fault or unrecognizable output falls through to the heuristics.
func (s *Scorer) predictLocal(text string) (model.Label, bool) {
	pred, err := s.local.Predict(text)
	if err != nil {
		s.logger.Warn("local model prediction failed, falling back to heuristics", "error", err)
		return "", false
	}

	label, ok := model.ParseLabel(fmt.Sprint(pred))
	if !ok {
		s.logger.Warn("local model output not recognized, falling back to heuristics", "raw", fmt.Sprint(pred))
		return "", false
	}

	s.logger.Info("local model prediction", "label", label)
	return label, true
}

func containsAny(t string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(t, term) {
			return true
		}
	}
	return false
}
