package api

import "sync"

// batchHolder is the request-scoped cache of the latest evaluation run.
// It is the only shared mutable state in the service: evaluate swaps the
// whole batch atomically, reads never see a partial result.
type batchHolder struct {
	mu    sync.RWMutex
	batch *Batch
}

func newBatchHolder() *batchHolder {
	return &batchHolder{}
}

func (b *batchHolder) set(batch *Batch) {
	b.mu.Lock()
	b.batch = batch
	b.mu.Unlock()
}

func (b *batchHolder) get() (*Batch, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.batch, b.batch != nil
}
