// file: internals/features/assessments/questions/repository/repository.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"trainingku_backend/internals/features/assessments/questions/model"
)

type ListFilter struct {
	BranchID uuid.UUID
	BlockID  *uuid.UUID
	Type     string
	Q        string
	Limit    int
	Offset   int
}

// Repository bank soal. Record tidak ada → gorm.ErrRecordNotFound.
type Repository interface {
	Create(ctx context.Context, m *model.QuestionModel) error
	Save(ctx context.Context, m *model.QuestionModel) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.QuestionModel, error)
	FindByIDs(ctx context.Context, branchID uuid.UUID, ids []uuid.UUID) ([]model.QuestionModel, error)
	List(ctx context.Context, f ListFilter) ([]model.QuestionModel, int64, error)

	// UsedByLockedAssessment: soal sudah tersalin ke assessment yang terkunci.
	UsedByLockedAssessment(ctx context.Context, id uuid.UUID) (bool, error)
}
