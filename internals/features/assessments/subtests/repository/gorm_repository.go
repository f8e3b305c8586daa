package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trainingku_backend/internals/features/assessments/subtests/model"
)

var errLostRace = errors.New("subtest sudah di-supersede")

type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateMany(ctx context.Context, items []model.SubtestModel) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&items, 200).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SubtestModel, error) {
	var m model.SubtestModel
	if err := r.db.WithContext(ctx).Where("subtest_id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) FindLive(ctx context.Context, assessmentID, userID, blockID uuid.UUID) (*model.SubtestModel, error) {
	var m model.SubtestModel
	err := r.db.WithContext(ctx).
		Where("subtest_assessment_id = ? AND subtest_user_id = ? AND subtest_block_id = ?", assessmentID, userID, blockID).
		Where("subtest_superseded_at IS NULL").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) List(ctx context.Context, f ListFilter) ([]model.SubtestModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.SubtestModel{})
	if f.BranchID != nil {
		q = q.Where("subtest_branch_id = ?", *f.BranchID)
	}
	if f.UserID != nil {
		q = q.Where("subtest_user_id = ?", *f.UserID)
	}
	if f.AssessmentID != nil {
		q = q.Where("subtest_assessment_id = ?", *f.AssessmentID)
	}

	switch f.Status {
	case model.StatusPending:
		q = q.Where("subtest_submitted_at IS NULL AND subtest_superseded_at IS NULL")
	case model.StatusSubmitted:
		q = q.Where("subtest_submitted_at IS NOT NULL AND subtest_superseded_at IS NULL")
	case model.StatusSuperseded:
		q = q.Where("subtest_superseded_at IS NOT NULL")
	default:
		if !f.IncludeSuperseded {
			q = q.Where("subtest_superseded_at IS NULL")
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []model.SubtestModel
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	err := q.Order("subtest_created_at DESC").Find(&out).Error
	return out, total, err
}

func (r *gormRepository) ListSubmitted(ctx context.Context, userID, branchID uuid.UUID) ([]model.SubtestModel, error) {
	var out []model.SubtestModel
	err := r.db.WithContext(ctx).
		Where("subtest_user_id = ? AND subtest_branch_id = ?", userID, branchID).
		Where("subtest_submitted_at IS NOT NULL AND subtest_superseded_at IS NULL").
		Order("subtest_submitted_at ASC").
		Find(&out).Error
	return out, err
}

func (r *gormRepository) Submit(ctx context.Context, id uuid.UUID, s model.Submission) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.SubtestModel{}).
		Where("subtest_id = ? AND subtest_submitted_at IS NULL AND subtest_superseded_at IS NULL", id).
		Updates(map[string]any{
			"subtest_submitted_at":    s.SubmittedAt,
			"subtest_answers":         s.Answers,
			"subtest_score":           s.Score,
			"subtest_correct_count":   s.Correct,
			"subtest_total_questions": s.Total,
			"subtest_correct_map":     s.CorrectMap,
			"subtest_grading_details": s.Details,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *gormRepository) Supersede(ctx context.Context, oldID uuid.UUID, next *model.SubtestModel, at time.Time) (bool, error) {
	if next.SubtestID == uuid.Nil {
		next.SubtestID = uuid.New()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// kunci baris lama supaya reset paralel antre
		var cur model.SubtestModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("subtest_id = ?", oldID).
			First(&cur).Error; err != nil {
			return err
		}
		if cur.IsSuperseded() {
			return errLostRace
		}

		res := tx.Model(&model.SubtestModel{}).
			Where("subtest_id = ? AND subtest_superseded_at IS NULL", oldID).
			Updates(map[string]any{
				"subtest_superseded_at": at,
				"subtest_superseded_by": next.SubtestID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errLostRace
		}
		return tx.Create(next).Error
	})
	if errors.Is(err, errLostRace) {
		return false, nil
	}
	return err == nil, err
}
