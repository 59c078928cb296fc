package audit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nulzo/model-capability-api/internal/audit"
	"github.com/nulzo/model-capability-api/internal/store"
	"github.com/nulzo/model-capability-api/internal/store/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRepo satisfies store.Repository and captures everything written.
type fakeRepo struct {
	mu        sync.Mutex
	entries   []*model.ResolutionLog
	batches   int
	lastLimit int
}

func (f *fakeRepo) APIKeys() store.APIKeyRepository         { return nil }
func (f *fakeRepo) Resolutions() store.ResolutionRepository { return f }
func (f *fakeRepo) Close() error                            { return nil }

func (f *fakeRepo) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	return fn(f)
}

func (f *fakeRepo) Log(ctx context.Context, entry *model.ResolutionLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeRepo) LogBatch(ctx context.Context, entries []*model.ResolutionLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches++
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeRepo) GetRecent(ctx context.Context, limit int) ([]model.ResolutionLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	return nil, nil
}

func (f *fakeRepo) GetDecisionStats(ctx context.Context, days int) ([]model.DecisionStats, error) {
	return nil, nil
}

func (f *fakeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func TestIngestorFlushesOnStop(t *testing.T) {
	repo := &fakeRepo{}
	ing := audit.NewIngestor(zap.NewNop(), repo)

	ing.Start(context.Background())
	ing.Record(&model.ResolutionLog{ID: "1", RequestedModel: "o3"})
	ing.Record(&model.ResolutionLog{ID: "2", RequestedModel: "o3-mini"})
	ing.Record(&model.ResolutionLog{ID: "3", RequestedModel: "nope"})
	ing.Stop()

	require.Eventually(t, func() bool {
		return repo.count() == 3
	}, time.Second, 10*time.Millisecond)
}

func TestIngestorFlushesFullBatches(t *testing.T) {
	repo := &fakeRepo{}
	ing := audit.NewIngestor(zap.NewNop(), repo)

	ing.Start(context.Background())
	for i := 0; i < 50; i++ {
		ing.Record(&model.ResolutionLog{ID: "x", RequestedModel: "o3"})
	}

	// a full batch flushes without waiting for the ticker or Stop
	require.Eventually(t, func() bool {
		return repo.count() == 50
	}, time.Second, 10*time.Millisecond)

	repo.mu.Lock()
	batches := repo.batches
	repo.mu.Unlock()
	assert.GreaterOrEqual(t, batches, 1)

	ing.Stop()
}

func TestNopIngestorDiscards(t *testing.T) {
	var ing audit.Ingestor = audit.Nop{}
	ing.Start(context.Background())
	ing.Record(&model.ResolutionLog{ID: "ignored"})
	ing.Stop()
}

func TestServiceClampsLimits(t *testing.T) {
	repo := &fakeRepo{}
	svc := audit.NewService(repo)

	_, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)

	_, err = svc.Recent(context.Background(), 9999)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)

	_, err = svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastLimit)
}
