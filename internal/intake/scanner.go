package intake

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/upaylabs/fraudwatch/internal/service"
)

// Scanner periodically drains pending records through the processor. One
// long-lived background worker; batches run sequentially and never overlap.
//
// There is no atomic claim step between reading a pending record and writing
// its result, so a scan racing a direct-intake write to the same record can
// process it more than once. Processing is at-least-once.
type Scanner struct {
	store     service.Store
	processor *Processor
	cron      *cron.Cron
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// NewScanner creates a background scanner with the given schedule.
func NewScanner(store service.Store, processor *Processor, interval time.Duration, batchSize int, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Scanner{
		store:     store,
		processor: processor,
		logger:    logger,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start schedules the scan loop. Returns an error if the schedule cannot be
// registered.
func (s *Scanner) Start(ctx context.Context) error {
	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.RunBatch(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule scan: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scanner started", "interval", s.interval, "batch_size", s.batchSize)
	return nil
}

// Stop signals the scanner to halt. The stop takes effect between batches; a
// batch already in flight finishes first. The returned context is done once
// any running batch completes.
func (s *Scanner) Stop() context.Context {
	if s.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	s.logger.Info("scanner stopping")
	return s.cron.Stop()
}

// RunBatch processes one batch of pending records sequentially. A transient
// store fault is logged and the batch is retried on the next tick.
func (s *Scanner) RunBatch(ctx context.Context) {
	records, err := s.store.FindUnprocessed(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("failed to query pending records", "error", err)
		return
	}

	if len(records) == 0 {
		return
	}

	s.logger.Info("scanning pending records", "count", len(records))
	for _, record := range records {
		select {
		case <-ctx.Done():
			s.logger.Info("scan interrupted", "remaining", len(records))
			return
		default:
		}

		if _, err := s.processor.ProcessRecord(ctx, record); err != nil {
			s.logger.Error("failed to process pending record", "id", record.ID, "error", err)
		}
	}
}
