package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingku_backend/internals/features/assessments/assessments/model"
)

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, m *model.AssessmentModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *gormRepository) Save(ctx context.Context, m *model.AssessmentModel) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// Delete soft delete; subtest milik assessment ini tidak ikut terhapus.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("assessment_id = ?", id).Delete(&model.AssessmentModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AssessmentModel, error) {
	var m model.AssessmentModel
	if err := r.db.WithContext(ctx).Where("assessment_id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) List(ctx context.Context, f ListFilter) ([]model.AssessmentModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AssessmentModel{}).
		Where("assessment_branch_id = ?", f.BranchID)
	if f.Locked != nil {
		q = q.Where("assessment_is_locked = ?", *f.Locked)
	}
	if s := strings.TrimSpace(f.Q); s != "" {
		q = q.Where("assessment_name ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []model.AssessmentModel
	err := q.Order("assessment_created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&out).Error
	return out, total, err
}

func (r *gormRepository) ListOpen(ctx context.Context, branchID uuid.UUID, now time.Time) ([]model.AssessmentModel, error) {
	var out []model.AssessmentModel
	err := r.db.WithContext(ctx).
		Where("assessment_branch_id = ?", branchID).
		Where("assessment_publication_date IS NOT NULL AND assessment_publication_date <= ?", now).
		Where("(assessment_expiration_date IS NULL OR assessment_expiration_date > ?)", now).
		Order("assessment_publication_date DESC").
		Find(&out).Error
	return out, err
}

func (r *gormRepository) Lock(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.AssessmentModel{}).
		Where("assessment_id = ? AND assessment_is_locked = FALSE", id).
		Updates(map[string]any{
			"assessment_is_locked": true,
			"assessment_locked_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *gormRepository) ListDueForAnnouncement(ctx context.Context, now time.Time, limit int) ([]model.AssessmentModel, error) {
	var out []model.AssessmentModel
	err := r.db.WithContext(ctx).
		Where("assessment_announced_at IS NULL").
		Where("assessment_publication_date IS NOT NULL AND assessment_publication_date <= ?", now).
		Where("(assessment_expiration_date IS NULL OR assessment_expiration_date > ?)", now).
		Order("assessment_publication_date ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *gormRepository) MarkAnnounced(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.AssessmentModel{}).
		Where("assessment_id = ? AND assessment_announced_at IS NULL", id).
		Update("assessment_announced_at", at)
	return res.RowsAffected > 0, res.Error
}
