package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upaylabs/fraudwatch/internal/model"
)

func TestScannerRunBatch(t *testing.T) {
	store := newMockStore()
	ctx := context.Background()

	for _, msg := range []string{"first pending", "second pending", "third pending"} {
		_, err := store.Insert(ctx, model.SourceDatabase, msg, false)
		require.NoError(t, err)
	}

	p := NewProcessor(store, newEngine(model.LabelNotFraud, true, "", false), nil, WithClock(dayClock()))
	s := NewScanner(store, p, time.Minute, 10, nil)

	s.RunBatch(ctx)

	for id := int64(1); id <= 3; id++ {
		record := store.record(t, id)
		assert.Equal(t, model.StatusProcessed, record.Status)
		assert.Equal(t, model.LabelNotFraud, record.Result)
	}
}

func TestScannerRunBatchHonorsLimit(t *testing.T) {
	store := newMockStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Insert(ctx, model.SourceDatabase, "pending", false)
		require.NoError(t, err)
	}

	p := NewProcessor(store, newEngine(model.LabelNotFraud, true, "", false), nil, WithClock(dayClock()))
	s := NewScanner(store, p, time.Minute, 2, nil)

	s.RunBatch(ctx)

	processed := 0
	for id := int64(1); id <= 5; id++ {
		if store.record(t, id).Status == model.StatusProcessed {
			processed++
		}
	}
	assert.Equal(t, 2, processed)
}

func TestScannerStoreFaultIsRetriedNextTick(t *testing.T) {
	store := newMockStore()
	ctx := context.Background()

	_, err := store.Insert(ctx, model.SourceDatabase, "pending", false)
	require.NoError(t, err)

	p := NewProcessor(store, newEngine(model.LabelNotFraud, true, "", false), nil, WithClock(dayClock()))
	s := NewScanner(store, p, time.Minute, 10, nil)

	// First tick fails at the query; nothing is touched.
	store.findErr = errors.New("connection reset")
	s.RunBatch(ctx)
	assert.Equal(t, model.StatusNew, store.record(t, 1).Status)

	// Next tick succeeds.
	store.findErr = nil
	s.RunBatch(ctx)
	assert.Equal(t, model.StatusProcessed, store.record(t, 1).Status)
}

func TestScannerStartAndStop(t *testing.T) {
	store := newMockStore()
	ctx := context.Background()

	_, err := store.Insert(ctx, model.SourceDatabase, "pending", false)
	require.NoError(t, err)

	p := NewProcessor(store, newEngine(model.LabelNotFraud, true, "", false), nil, WithClock(dayClock()))
	s := NewScanner(store, p, 10*time.Millisecond, 10, nil)

	require.NoError(t, s.Start(ctx))

	// @every schedules shorter than a second are rounded up to a second.
	require.Eventually(t, func() bool {
		return store.record(t, 1).Status == model.StatusProcessed
	}, 5*time.Second, 20*time.Millisecond)

	stopCtx := s.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scanner did not stop in time")
	}
}

func TestScannerStopBeforeStart(t *testing.T) {
	s := NewScanner(newMockStore(), nil, time.Minute, 10, nil)
	select {
	case <-s.Stop().Done():
	default:
		t.Fatal("stop before start should be a no-op")
	}
}
