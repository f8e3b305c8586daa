package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingku_backend/internals/features/assessments/questions/model"
)

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, m *model.QuestionModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *gormRepository) Save(ctx context.Context, m *model.QuestionModel) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("question_id = ?", id).Delete(&model.QuestionModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.QuestionModel, error) {
	var m model.QuestionModel
	if err := r.db.WithContext(ctx).Where("question_id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) FindByIDs(ctx context.Context, branchID uuid.UUID, ids []uuid.UUID) ([]model.QuestionModel, error) {
	var out []model.QuestionModel
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Where("question_branch_id = ? AND question_id IN ?", branchID, ids).
		Find(&out).Error
	return out, err
}

func (r *gormRepository) List(ctx context.Context, f ListFilter) ([]model.QuestionModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.QuestionModel{}).
		Where("question_branch_id = ?", f.BranchID)

	if f.BlockID != nil && *f.BlockID != uuid.Nil {
		q = q.Where("question_block_id = ?", *f.BlockID)
	}
	if t := strings.TrimSpace(f.Type); t != "" {
		q = q.Where("question_type = ?", t)
	}
	if s := strings.TrimSpace(f.Q); s != "" {
		q = q.Where("question_statement ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []model.QuestionModel
	err := q.Order("question_created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&out).Error
	return out, total, err
}

func (r *gormRepository) UsedByLockedAssessment(ctx context.Context, id uuid.UUID) (bool, error) {
	var used bool
	// snapshot disimpan sebagai array JSONB [{id:...}, ...]
	needle := fmt.Sprintf(`[{"id":%q}]`, id.String())
	err := r.db.WithContext(ctx).Raw(`
		SELECT EXISTS (
			SELECT 1 FROM assessments
			WHERE assessment_is_locked = TRUE
			  AND assessment_deleted_at IS NULL
			  AND assessment_questions @> ?::jsonb
		)`, needle).Scan(&used).Error
	return used, err
}
