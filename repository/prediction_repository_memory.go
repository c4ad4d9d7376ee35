package repository

import (
	"context"
	"sync"

	"loan-approval/domain"
)

// PredictionRepositoryMemory is an in-memory implementation of PredictionRepository.
// It keeps at most capacity records; counters cover every saved record.
type PredictionRepositoryMemory struct {
	mu       sync.RWMutex
	capacity int
	data     []domain.PredictionRecord
	stats    domain.PredictionStats
}

// NewPredictionRepositoryMemory creates a new in-memory prediction repository.
func NewPredictionRepositoryMemory(capacity int) *PredictionRepositoryMemory {
	return &PredictionRepositoryMemory{
		capacity: capacity,
		data:     []domain.PredictionRecord{},
	}
}

// Save stores the prediction in memory, dropping the oldest one when full.
func (r *PredictionRepositoryMemory) Save(_ context.Context, record domain.PredictionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = append(r.data, record)
	if r.capacity > 0 && len(r.data) > r.capacity {
		r.data = r.data[len(r.data)-r.capacity:]
	}

	r.stats.Total++
	if record.Decision == domain.Approved {
		r.stats.Approved++
	} else {
		r.stats.Rejected++
	}
	return nil
}

func (r *PredictionRepositoryMemory) List(_ context.Context, limit int) ([]domain.PredictionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.data)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.PredictionRecord, 0, n)
	for i := len(r.data) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.data[i])
	}
	return out, nil
}

func (r *PredictionRepositoryMemory) Stats(_ context.Context) (domain.PredictionStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats, nil
}
