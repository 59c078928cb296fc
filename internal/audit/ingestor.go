package audit

import (
	"context"
	"time"

	"github.com/nulzo/model-capability-api/internal/store"
	"github.com/nulzo/model-capability-api/internal/store/model"
	"go.uber.org/zap"
)

// Ingestor handles the asynchronous persistence of resolution decisions.
type Ingestor interface {
	Record(entry *model.ResolutionLog)
	Start(ctx context.Context)
	Stop()
}

type ingestor struct {
	logger    *zap.Logger
	repo      store.Repository
	entryChan chan *model.ResolutionLog
	batchSize int
	flushTime time.Duration
}

func NewIngestor(logger *zap.Logger, repo store.Repository) Ingestor {
	return &ingestor{
		logger:    logger,
		repo:      repo,
		entryChan: make(chan *model.ResolutionLog, 10000),
		batchSize: 50,
		flushTime: 5 * time.Second,
	}
}

// Record never blocks the request path; entries are dropped when the
// buffer is full.
func (i *ingestor) Record(entry *model.ResolutionLog) {
	select {
	case i.entryChan <- entry:
	default:
		i.logger.Warn("Audit buffer full, dropping entry", zap.String("requested_model", entry.RequestedModel))
	}
}

func (i *ingestor) Start(ctx context.Context) {
	go i.worker(ctx)
}

func (i *ingestor) Stop() {
	close(i.entryChan)
}

func (i *ingestor) worker(ctx context.Context) {
	batch := make([]*model.ResolutionLog, 0, i.batchSize)
	ticker := time.NewTicker(i.flushTime)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		err := i.repo.WithTx(context.Background(), func(repo store.Repository) error {
			return repo.Resolutions().LogBatch(context.Background(), batch)
		})
		if err != nil {
			i.logger.Error("Failed to persist resolution batch", zap.Int("count", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry, ok := <-i.entryChan:
			if !ok {
				flush()
				return
			}
			batch = append(batch, entry)
			if len(batch) >= i.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			flush()
			return
		}
	}
}

// Nop discards every entry. Used in tests and cache-only deployments.
type Nop struct{}

func (Nop) Record(*model.ResolutionLog) {}
func (Nop) Start(context.Context)       {}
func (Nop) Stop()                       {}

var _ Ingestor = Nop{}
