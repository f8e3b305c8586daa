package repository

import (
	"context"

	"github.com/google/uuid"

	"trainingku_backend/internals/features/assessments/blocks/model"
)

// Repository konfigurasi block. Record tidak ada → gorm.ErrRecordNotFound.
type Repository interface {
	Create(ctx context.Context, m *model.BlockModel) error
	Save(ctx context.Context, m *model.BlockModel) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BlockModel, error)
	ListByBranch(ctx context.Context, branchID uuid.UUID, activeOnly bool) ([]model.BlockModel, error)

	// SumActiveWeights: excludeID (boleh nil) tidak ikut dihitung, dipakai saat PATCH.
	SumActiveWeights(ctx context.Context, branchID uuid.UUID, excludeID *uuid.UUID) (float64, error)

	// WithBranchLock menjalankan fn dalam transaksi yang menserialkan perubahan bobot satu branch.
	WithBranchLock(ctx context.Context, branchID uuid.UUID, fn func(tx Repository) error) error
}
