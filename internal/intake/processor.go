// Package intake accepts messages from every entry point, drives them
// through the classification engine, and owns the persisted record
// lifecycle.
package intake

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/upaylabs/fraudwatch/internal/common"
	"github.com/upaylabs/fraudwatch/internal/engine"
	"github.com/upaylabs/fraudwatch/internal/model"
	"github.com/upaylabs/fraudwatch/internal/service"
)

// DefaultAfterHoursStart is the local hour from which unresolved ambiguity
// is treated conservatively.
const DefaultAfterHoursStart = 21

// Payload is the response handed back for one processed message.
type Payload struct {
	Meta       map[string]any `json:"meta"`
	ID         string         `json:"id,omitempty"`
	Source     model.Source   `json:"source"`
	Message    string         `json:"message"`
	Result     model.Label    `json:"result"`
	AfterHours bool           `json:"after_hours"`
}

// Processor runs messages through the engine and persists outcomes. It is
// the only writer of record status, result, and error fields.
type Processor struct {
	store           service.Store
	engine          *engine.Engine
	now             func() time.Time
	logger          *slog.Logger
	afterHoursStart int
}

// Option configures a Processor.
type Option func(*Processor)

// WithClock overrides the clock used for the after-hours rule.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithAfterHoursStart overrides the hour at which after-hours begins.
func WithAfterHoursStart(hour int) Option {
	return func(p *Processor) { p.afterHoursStart = hour }
}

// NewProcessor creates a processor over the given store and engine.
func NewProcessor(store service.Store, eng *engine.Engine, logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		store:           store,
		engine:          eng,
		now:             time.Now,
		logger:          logger,
		afterHoursStart: DefaultAfterHoursStart,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// isAfterHours applies the local-clock rule: hour >= start is after-hours.
func (p *Processor) isAfterHours() bool {
	return p.now().Hour() >= p.afterHoursStart
}

// Process handles a direct intake call. A record is created up front, the
// message is classified, and the outcome persisted. Classification and
// persistence faults are recovered; the caller always receives a best-effort
// label. Only empty input is surfaced as an error.
func (p *Processor) Process(ctx context.Context, source model.Source, text string) (Payload, error) {
	if strings.TrimSpace(text) == "" {
		return Payload{}, common.ErrEmptyInput
	}

	afterHours := p.isAfterHours()

	var recordID int64
	inserted := false
	if id, err := p.store.Insert(ctx, source, text, afterHours); err != nil {
		p.logger.Error("failed to insert message record", "source", source, "error", err)
	} else {
		recordID = id
		inserted = true
	}

	payload := p.classify(ctx, source, text, afterHours)
	if inserted {
		payload.ID = strconv.FormatInt(recordID, 10)
		p.persist(ctx, recordID, payload)
	}
	return payload, nil
}

// ProcessRecord re-runs classification for a stored pending record, reusing
// its message, source, and after-hours flag, and updates it in place.
func (p *Processor) ProcessRecord(ctx context.Context, record model.Record) (Payload, error) {
	if strings.TrimSpace(record.Message) == "" {
		return Payload{}, common.ErrEmptyInput
	}

	payload := p.classify(ctx, record.Source, record.Message, record.AfterHours)
	payload.ID = strconv.FormatInt(record.ID, 10)
	p.persist(ctx, record.ID, payload)
	return payload, nil
}

// classify runs the engine and shapes the payload. A fault inside the
// pipeline is recovered into a default Mediate result with an error note in
// the meta, never propagated.
func (p *Processor) classify(ctx context.Context, source model.Source, text string, afterHours bool) (payload Payload) {
	payload = Payload{
		Source:     source,
		Message:    text,
		AfterHours: afterHours,
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("classification fault recovered", "source", source, "panic", r)
			payload.Result = model.LabelMediate
			payload.Meta = map[string]any{"error": fmt.Sprint(r)}
		}
	}()

	decision := p.engine.Classify(ctx, text, afterHours)
	payload.Result = decision.Label
	payload.Meta = decision.Meta()
	return payload
}

// persist writes the outcome. A persistence fault is converted into a
// best-effort error marker and never affects the returned payload.
func (p *Processor) persist(ctx context.Context, id int64, payload Payload) {
	found, err := p.store.UpdateResult(ctx, id, payload.Result, payload.Meta)
	if err != nil {
		p.logger.Error("failed to persist result", "id", id, "error", err)
		p.store.MarkError(ctx, id, err.Error())
		return
	}
	if !found {
		p.logger.Warn("result update matched no record", "id", id)
	}
}
