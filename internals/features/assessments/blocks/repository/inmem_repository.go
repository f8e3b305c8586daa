package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingku_backend/internals/features/assessments/blocks/model"
)

type InMemRepository struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	items map[uuid.UUID]model.BlockModel
}

func NewInMemRepository() *InMemRepository {
	return &InMemRepository{items: map[uuid.UUID]model.BlockModel{}}
}

// Seed menambah block langsung tanpa validasi bobot (untuk menyiapkan data test).
func (r *InMemRepository) Seed(blocks ...model.BlockModel) {
	for i := range blocks {
		_ = r.Create(context.Background(), &blocks[i])
	}
}

func (r *InMemRepository) Create(_ context.Context, m *model.BlockModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.BlockID == uuid.Nil {
		m.BlockID = uuid.New()
	}
	now := time.Now()
	if m.BlockCreatedAt.IsZero() {
		m.BlockCreatedAt = now.Add(time.Duration(len(r.items)) * time.Microsecond)
	}
	m.BlockUpdatedAt = now
	r.items[m.BlockID] = *m
	return nil
}

func (r *InMemRepository) Save(_ context.Context, m *model.BlockModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.BlockUpdatedAt = time.Now()
	r.items[m.BlockID] = *m
	return nil
}

func (r *InMemRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *InMemRepository) FindByID(_ context.Context, id uuid.UUID) (*model.BlockModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *InMemRepository) ListByBranch(_ context.Context, branchID uuid.UUID, activeOnly bool) ([]model.BlockModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.BlockModel{}
	for _, m := range r.items {
		if m.BlockBranchID != branchID || (activeOnly && !m.BlockIsActive) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BlockCreatedAt.Before(out[j].BlockCreatedAt) })
	return out, nil
}

func (r *InMemRepository) SumActiveWeights(_ context.Context, branchID uuid.UUID, excludeID *uuid.UUID) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum float64
	for _, m := range r.items {
		if m.BlockBranchID != branchID || !m.BlockIsActive {
			continue
		}
		if excludeID != nil && m.BlockID == *excludeID {
			continue
		}
		sum += m.BlockWeight
	}
	return sum, nil
}

func (r *InMemRepository) WithBranchLock(_ context.Context, _ uuid.UUID, fn func(tx Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(r)
}
