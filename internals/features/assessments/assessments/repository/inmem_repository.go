package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingku_backend/internals/features/assessments/assessments/model"
)

type InMemRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]model.AssessmentModel
}

func NewInMemRepository() *InMemRepository {
	return &InMemRepository{items: map[uuid.UUID]model.AssessmentModel{}}
}

func (r *InMemRepository) Create(_ context.Context, m *model.AssessmentModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.AssessmentID == uuid.Nil {
		m.AssessmentID = uuid.New()
	}
	now := time.Now()
	m.AssessmentCreatedAt, m.AssessmentUpdatedAt = now, now
	r.items[m.AssessmentID] = *m
	return nil
}

func (r *InMemRepository) Save(_ context.Context, m *model.AssessmentModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.AssessmentUpdatedAt = time.Now()
	r.items[m.AssessmentID] = *m
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

func (r *InMemRepository) FindByID(_ context.Context, id uuid.UUID) (*model.AssessmentModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *InMemRepository) List(_ context.Context, f ListFilter) ([]model.AssessmentModel, int64, error) {
	all := r.filter(func(m model.AssessmentModel) bool {
		if m.AssessmentBranchID != f.BranchID {
			return false
		}
		if f.Locked != nil && m.AssessmentIsLocked != *f.Locked {
			return false
		}
		return f.Q == "" || strings.Contains(strings.ToLower(m.AssessmentName), strings.ToLower(f.Q))
	})
	sort.Slice(all, func(i, j int) bool { return all[i].AssessmentCreatedAt.After(all[j].AssessmentCreatedAt) })

	total := int64(len(all))
	if f.Offset >= len(all) {
		return []model.AssessmentModel{}, total, nil
	}
	end := len(all)
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return all[f.Offset:end], total, nil
}

func (r *InMemRepository) ListOpen(_ context.Context, branchID uuid.UUID, now time.Time) ([]model.AssessmentModel, error) {
	return r.filter(func(m model.AssessmentModel) bool {
		return m.AssessmentBranchID == branchID && m.IsOpen(now)
	}), nil
}

func (r *InMemRepository) Lock(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok || m.AssessmentIsLocked {
		return false, nil
	}
	m.AssessmentIsLocked = true
	m.AssessmentLockedAt = &at
	r.items[id] = m
	return true, nil
}

func (r *InMemRepository) ListDueForAnnouncement(_ context.Context, now time.Time, limit int) ([]model.AssessmentModel, error) {
	due := r.filter(func(m model.AssessmentModel) bool {
		return m.AssessmentAnnouncedAt == nil && m.IsOpen(now)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *InMemRepository) MarkAnnounced(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok || m.AssessmentAnnouncedAt != nil {
		return false, nil
	}
	m.AssessmentAnnouncedAt = &at
	r.items[id] = m
	return true, nil
}

func (r *InMemRepository) filter(keep func(model.AssessmentModel) bool) []model.AssessmentModel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.AssessmentModel{}
	for _, m := range r.items {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}
