package intake

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upaylabs/fraudwatch/internal/common"
	"github.com/upaylabs/fraudwatch/internal/engine"
	"github.com/upaylabs/fraudwatch/internal/model"
)

// mockStore is an in-memory service.Store for intake tests.
type mockStore struct {
	records   map[int64]*model.Record
	marked    map[int64]string
	insertErr error
	updateErr error
	findErr   error
	nextID    int64
	mu        sync.Mutex
}

func newMockStore() *mockStore {
	return &mockStore{
		records: make(map[int64]*model.Record),
		marked:  make(map[int64]string),
	}
}

func (m *mockStore) Insert(_ context.Context, source model.Source, message string, afterHours bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.nextID++
	now := time.Now().UTC()
	m.records[m.nextID] = &model.Record{
		ID:         m.nextID,
		Source:     source,
		Message:    message,
		AfterHours: afterHours,
		Status:     model.StatusNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return m.nextID, nil
}

func (m *mockStore) FindUnprocessed(_ context.Context, limit int) ([]model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []model.Record
	for id := int64(1); id <= m.nextID && len(out) < limit; id++ {
		r, ok := m.records[id]
		if ok && (r.Status == model.StatusNew || !r.Result.IsSet()) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateResult(_ context.Context, id int64, label model.Label, meta map[string]any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return false, m.updateErr
	}
	r, ok := m.records[id]
	if !ok {
		return false, nil
	}
	r.Status = model.StatusProcessed
	r.Result = label
	r.Meta = meta
	r.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *mockStore) MarkError(_ context.Context, id int64, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marked[id] = errMsg
	if r, ok := m.records[id]; ok {
		r.Status = model.StatusError
		r.Error = errMsg
	}
}

func (m *mockStore) GetByID(_ context.Context, id int64) (*model.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *mockStore) Migrate(_ context.Context) error { return nil }
func (m *mockStore) Close() error                    { return nil }

func (m *mockStore) record(t *testing.T, id int64) model.Record {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	require.True(t, ok, "record %d missing", id)
	return *r
}

func dayClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 6, 1, 14, 0, 0, 0, time.Local)
	}
}

func nightClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 6, 1, 22, 30, 0, 0, time.Local)
	}
}

func newEngine(offline model.Label, offlineOK bool, online model.Label, onlineOK bool) *engine.Engine {
	return engine.New(
		engine.NewMockOfflineClassifier(offline, offlineOK),
		engine.NewMockOnlineClassifier(online, onlineOK),
		nil,
	)
}

func TestProcessHappyPath(t *testing.T) {
	store := newMockStore()
	p := NewProcessor(store, newEngine(model.LabelNotFraud, true, "", false), nil, WithClock(dayClock()))

	payload, err := p.Process(context.Background(), model.SourceWebsite, "UPI payment received")
	require.NoError(t, err)

	assert.Equal(t, "1", payload.ID)
	assert.Equal(t, model.SourceWebsite, payload.Source)
	assert.Equal(t, model.LabelNotFraud, payload.Result)
	assert.False(t, payload.AfterHours)
	assert.Equal(t, "offline", payload.Meta["origin"])

	record := store.record(t, 1)
	assert.Equal(t, model.StatusProcessed, record.Status)
	assert.Equal(t, model.LabelNotFraud, record.Result)
}

func TestProcessEmptyInput(t *testing.T) {
	store := newMockStore()
	p := NewProcessor(store, newEngine(model.LabelNotFraud, true, "", false), nil)

	_, err := p.Process(context.Background(), model.SourceApp, "   ")
	assert.True(t, errors.Is(err, common.ErrEmptyInput))
	assert.Zero(t, store.nextID, "no record should be created for empty input")
}

func TestProcessAfterHoursOverride(t *testing.T) {
	store := newMockStore()
	// Offline says Mediate, online has nothing: the 22:30 clock escalates to Fraud.
	p := NewProcessor(store, newEngine(model.LabelMediate, true, "", false), nil, WithClock(nightClock()))

	payload, err := p.Process(context.Background(), model.SourceApp, "something odd")
	require.NoError(t, err)

	assert.True(t, payload.AfterHours)
	assert.Equal(t, model.LabelFraud, payload.Result)
	assert.Equal(t, "default", payload.Meta["origin"])
}

func TestProcessCustomAfterHoursStart(t *testing.T) {
	store := newMockStore()
	p := NewProcessor(store, newEngine(model.LabelMediate, true, "", false), nil,
		WithClock(dayClock()), WithAfterHoursStart(14))

	payload, err := p.Process(context.Background(), model.SourceApp, "something odd")
	require.NoError(t, err)
	assert.True(t, payload.AfterHours)
	assert.Equal(t, model.LabelFraud, payload.Result)
}

func TestProcessInsertFailureStillClassifies(t *testing.T) {
	store := newMockStore()
	store.insertErr = errors.New("store down")
	p := NewProcessor(store, newEngine(model.LabelFraud, true, "", false), nil, WithClock(dayClock()))

	payload, err := p.Process(context.Background(), model.SourceTerminal, "verify otp now")
	require.NoError(t, err)

	assert.Empty(t, payload.ID)
	assert.Equal(t, model.LabelFraud, payload.Result)
}

func TestProcessPersistenceFailureMarksError(t *testing.T) {
	store := newMockStore()
	store.updateErr = errors.New("disk full")
	p := NewProcessor(store, newEngine(model.LabelFraud, true, "", false), nil, WithClock(dayClock()))

	payload, err := p.Process(context.Background(), model.SourceApp, "verify otp now")
	require.NoError(t, err)

	// The caller still gets the classification result.
	assert.Equal(t, model.LabelFraud, payload.Result)
	assert.Equal(t, "disk full", store.marked[1])
}

func TestProcessRecordUpdatesInPlace(t *testing.T) {
	store := newMockStore()
	id, err := store.Insert(context.Background(), model.SourceDatabase, "pending message", true)
	require.NoError(t, err)

	p := NewProcessor(store, newEngine(model.LabelMediate, true, "", false), nil, WithClock(dayClock()))

	payload, err := p.ProcessRecord(context.Background(), store.record(t, id))
	require.NoError(t, err)

	// The stored after-hours flag is reused, not recomputed from the clock.
	assert.True(t, payload.AfterHours)
	assert.Equal(t, model.LabelFraud, payload.Result)

	record := store.record(t, id)
	assert.Equal(t, model.StatusProcessed, record.Status)
	assert.Equal(t, model.LabelFraud, record.Result)
}

type panickyOffline struct{}

func (panickyOffline) Predict(string) (model.Label, bool) { panic("classifier blew up") }

func TestProcessRecoversClassificationFault(t *testing.T) {
	store := newMockStore()
	eng := engine.New(panickyOffline{}, engine.NewMockOnlineClassifier("", false), nil)
	p := NewProcessor(store, eng, nil, WithClock(dayClock()))

	payload, err := p.Process(context.Background(), model.SourceApp, "anything")
	require.NoError(t, err)

	assert.Equal(t, model.LabelMediate, payload.Result)
	assert.Contains(t, payload.Meta["error"], "classifier blew up")

	record := store.record(t, 1)
	assert.Equal(t, model.StatusProcessed, record.Status)
	assert.Equal(t, model.LabelMediate, record.Result)
}
