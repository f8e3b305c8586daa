package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingku_backend/internals/features/assessments/blocks/model"
)

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, m *model.BlockModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *gormRepository) Save(ctx context.Context, m *model.BlockModel) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("block_id = ?", id).Delete(&model.BlockModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BlockModel, error) {
	var m model.BlockModel
	if err := r.db.WithContext(ctx).Where("block_id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) ListByBranch(ctx context.Context, branchID uuid.UUID, activeOnly bool) ([]model.BlockModel, error) {
	q := r.db.WithContext(ctx).Where("block_branch_id = ?", branchID)
	if activeOnly {
		q = q.Where("block_is_active = TRUE")
	}
	var out []model.BlockModel
	err := q.Order("block_created_at ASC").Find(&out).Error
	return out, err
}

func (r *gormRepository) SumActiveWeights(ctx context.Context, branchID uuid.UUID, excludeID *uuid.UUID) (float64, error) {
	var sum float64
	q := r.db.WithContext(ctx).
		Model(&model.BlockModel{}).
		Where("block_branch_id = ? AND block_is_active = TRUE", branchID).
		Select("COALESCE(SUM(block_weight), 0)")

	if excludeID != nil && *excludeID != uuid.Nil {
		q = q.Where("block_id <> ?", *excludeID)
	}
	if err := q.Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *gormRepository) WithBranchLock(ctx context.Context, branchID uuid.UUID, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// lock dilepas otomatis saat transaksi selesai
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "blocks:"+branchID.String()).Error; err != nil {
			return err
		}
		return fn(&gormRepository{db: tx})
	})
}
