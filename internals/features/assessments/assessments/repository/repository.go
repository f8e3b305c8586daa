package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"trainingku_backend/internals/features/assessments/assessments/model"
)

type ListFilter struct {
	BranchID uuid.UUID
	Locked   *bool
	Q        string
	Limit    int
	Offset   int
}

// Repository assessment. Record tidak ada → gorm.ErrRecordNotFound.
type Repository interface {
	Create(ctx context.Context, m *model.AssessmentModel) error
	Save(ctx context.Context, m *model.AssessmentModel) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AssessmentModel, error)
	List(ctx context.Context, f ListFilter) ([]model.AssessmentModel, int64, error)
	ListOpen(ctx context.Context, branchID uuid.UUID, now time.Time) ([]model.AssessmentModel, error)

	// Lock: conditional update WHERE is_locked = false. false kalau sudah terkunci.
	Lock(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	// ListDueForAnnouncement: publication <= now, belum expired, announced_at NULL.
	ListDueForAnnouncement(ctx context.Context, now time.Time, limit int) ([]model.AssessmentModel, error)
	// MarkAnnounced: conditional update WHERE announced_at IS NULL. false = proses lain menang.
	MarkAnnounced(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}
