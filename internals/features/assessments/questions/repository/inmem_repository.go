package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingku_backend/internals/features/assessments/questions/model"
)

// InMemRepository untuk test service & controller.
type InMemRepository struct {
	mu     sync.RWMutex
	items  map[uuid.UUID]model.QuestionModel
	Locked map[uuid.UUID]bool
}

func NewInMemRepository() *InMemRepository {
	return &InMemRepository{
		items:  map[uuid.UUID]model.QuestionModel{},
		Locked: map[uuid.UUID]bool{},
	}
}

func (r *InMemRepository) Create(_ context.Context, m *model.QuestionModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.QuestionID == uuid.Nil {
		m.QuestionID = uuid.New()
	}
	now := time.Now()
	m.QuestionCreatedAt, m.QuestionUpdatedAt = now, now
	r.items[m.QuestionID] = *m
	return nil
}

func (r *InMemRepository) Save(_ context.Context, m *model.QuestionModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.QuestionUpdatedAt = time.Now()
	r.items[m.QuestionID] = *m
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

func (r *InMemRepository) FindByID(_ context.Context, id uuid.UUID) (*model.QuestionModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *InMemRepository) FindByIDs(_ context.Context, branchID uuid.UUID, ids []uuid.UUID) ([]model.QuestionModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.QuestionModel
	for _, id := range ids {
		if m, ok := r.items[id]; ok && m.QuestionBranchID == branchID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *InMemRepository) List(_ context.Context, f ListFilter) ([]model.QuestionModel, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []model.QuestionModel
	for _, m := range r.items {
		if m.QuestionBranchID != f.BranchID {
			continue
		}
		if f.BlockID != nil && (m.QuestionBlockID == nil || *m.QuestionBlockID != *f.BlockID) {
			continue
		}
		if f.Type != "" && m.QuestionType != f.Type {
			continue
		}
		if f.Q != "" && !strings.Contains(strings.ToLower(m.QuestionStatement), strings.ToLower(f.Q)) {
			continue
		}
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].QuestionCreatedAt.After(all[j].QuestionCreatedAt) })

	total := int64(len(all))
	if f.Offset >= len(all) {
		return []model.QuestionModel{}, total, nil
	}
	end := len(all)
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return all[f.Offset:end], total, nil
}

func (r *InMemRepository) UsedByLockedAssessment(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Locked[id], nil
}
