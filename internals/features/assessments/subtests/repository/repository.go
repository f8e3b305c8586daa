package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"trainingku_backend/internals/features/assessments/subtests/model"
)

type ListFilter struct {
	BranchID          *uuid.UUID
	UserID            *uuid.UUID
	AssessmentID      *uuid.UUID
	Status            model.Status // kosong = semua yang live
	IncludeSuperseded bool
	Limit             int
	Offset            int
}

// Repository subtest. Record tidak ada → gorm.ErrRecordNotFound.
type Repository interface {
	CreateMany(ctx context.Context, items []model.SubtestModel) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SubtestModel, error)
	// FindLive: subtest yang belum di-supersede untuk kombinasi assessment/user/block.
	FindLive(ctx context.Context, assessmentID, userID, blockID uuid.UUID) (*model.SubtestModel, error)
	List(ctx context.Context, f ListFilter) ([]model.SubtestModel, int64, error)
	// ListSubmitted: submitted & live milik user di branch, urut submitted_at.
	ListSubmitted(ctx context.Context, userID, branchID uuid.UUID) ([]model.SubtestModel, error)

	// Submit: UPDATE ... WHERE submitted_at IS NULL AND superseded_at IS NULL.
	// false kalau tidak ada baris yang berubah.
	Submit(ctx context.Context, id uuid.UUID, s model.Submission) (bool, error)
	// Supersede menandai subtest lama dan membuat penggantinya dalam satu transaksi.
	// false kalau subtest lama sudah di-supersede.
	Supersede(ctx context.Context, oldID uuid.UUID, next *model.SubtestModel, at time.Time) (bool, error)
}

// ResetLogStore menyimpan jejak audit reset.
type ResetLogStore interface {
	Insert(ctx context.Context, l *model.ResetLog) error
	// ListBySubtest: log yang menyentuh subtest ini (sebagai lama maupun pengganti).
	ListBySubtest(ctx context.Context, subtestID uuid.UUID) ([]model.ResetLog, error)
}
