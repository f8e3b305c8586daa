package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingku_backend/internals/features/assessments/subtests/model"
)

type InMemRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]model.SubtestModel
}

func NewInMemRepository() *InMemRepository {
	return &InMemRepository{items: map[uuid.UUID]model.SubtestModel{}}
}

func (r *InMemRepository) CreateMany(_ context.Context, items []model.SubtestModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for i := range items {
		if items[i].SubtestID == uuid.Nil {
			items[i].SubtestID = uuid.New()
		}
		items[i].SubtestCreatedAt, items[i].SubtestUpdatedAt = now, now
		r.items[items[i].SubtestID] = items[i]
	}
	return nil
}

// Put menimpa satu record apa adanya. Dipakai test untuk menyiapkan data.
func (r *InMemRepository) Put(m model.SubtestModel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.SubtestID == uuid.Nil {
		m.SubtestID = uuid.New()
	}
	r.items[m.SubtestID] = m
}

func (r *InMemRepository) FindByID(_ context.Context, id uuid.UUID) (*model.SubtestModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *InMemRepository) FindLive(_ context.Context, assessmentID, userID, blockID uuid.UUID) (*model.SubtestModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.items {
		if m.SubtestAssessmentID == assessmentID && m.SubtestUserID == userID &&
			m.SubtestBlockID == blockID && !m.IsSuperseded() {
			return &m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *InMemRepository) List(_ context.Context, f ListFilter) ([]model.SubtestModel, int64, error) {
	r.mu.RLock()
	out := []model.SubtestModel{}
	for _, m := range r.items {
		if f.BranchID != nil && m.SubtestBranchID != *f.BranchID {
			continue
		}
		if f.UserID != nil && m.SubtestUserID != *f.UserID {
			continue
		}
		if f.AssessmentID != nil && m.SubtestAssessmentID != *f.AssessmentID {
			continue
		}
		if f.Status != "" && m.Status() != f.Status {
			continue
		}
		if f.Status == "" && !f.IncludeSuperseded && m.IsSuperseded() {
			continue
		}
		out = append(out, m)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].SubtestCreatedAt.After(out[j].SubtestCreatedAt) })
	total := int64(len(out))
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []model.SubtestModel{}, total, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r *InMemRepository) ListSubmitted(_ context.Context, userID, branchID uuid.UUID) ([]model.SubtestModel, error) {
	r.mu.RLock()
	out := []model.SubtestModel{}
	for _, m := range r.items {
		if m.SubtestUserID == userID && m.SubtestBranchID == branchID && m.Status() == model.StatusSubmitted {
			out = append(out, m)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].SubtestSubmittedAt.Before(*out[j].SubtestSubmittedAt) })
	return out, nil
}

func (r *InMemRepository) Submit(_ context.Context, id uuid.UUID, s model.Submission) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok || m.IsSubmitted() || m.IsSuperseded() {
		return false, nil
	}
	s.Apply(&m)
	m.SubtestUpdatedAt = time.Now()
	r.items[id] = m
	return true, nil
}

func (r *InMemRepository) Supersede(_ context.Context, oldID uuid.UUID, next *model.SubtestModel, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.items[oldID]
	if !ok || old.IsSuperseded() {
		return false, nil
	}
	if next.SubtestID == uuid.Nil {
		next.SubtestID = uuid.New()
	}
	old.SubtestSupersededAt = &at
	old.SubtestSupersededBy = &next.SubtestID
	r.items[oldID] = old

	next.SubtestCreatedAt, next.SubtestUpdatedAt = at, at
	r.items[next.SubtestID] = *next
	return true, nil
}
