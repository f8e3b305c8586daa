package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingku_backend/internals/features/assessments/blocks/dto"
	"trainingku_backend/internals/features/assessments/blocks/model"
	"trainingku_backend/internals/features/assessments/blocks/repository"
)

func boolPtr(b bool) *bool { return &b }
func floatPtr(f float64) *float64 { return &f }

func isValidation(err error) bool {
	var fe *fiber.Error
	return errors.As(err, &fe) && fe.Code == fiber.StatusUnprocessableEntity
}

func TestBlockService_ActiveWeightsCannotExceed100(t *testing.T) {
	svc := NewBlockService(repository.NewInMemRepository())
	branch := uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateBlockRequest{BranchID: branch, Label: "Teori", Weight: 60})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.CreateBlockRequest{BranchID: branch, Label: "Praktik", Weight: 40})
	require.NoError(t, err)

	_, err = svc.Create(ctx, dto.CreateBlockRequest{BranchID: branch, Label: "Bonus", Weight: 1})
	assert.True(t, isValidation(err))

	// block non-aktif tidak dihitung
	_, err = svc.Create(ctx, dto.CreateBlockRequest{BranchID: branch, Label: "Arsip", Weight: 50, IsActive: boolPtr(false)})
	require.NoError(t, err)

	report, err := svc.WeightsReport(ctx, branch)
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.Total)
	assert.True(t, report.Complete)
	assert.Equal(t, 2, report.ActiveCount)
}

func TestBlockService_PatchExcludesItself(t *testing.T) {
	svc := NewBlockService(repository.NewInMemRepository())
	branch := uuid.New()
	ctx := context.Background()

	a, err := svc.Create(ctx, dto.CreateBlockRequest{BranchID: branch, Label: "Teori", Weight: 60})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.CreateBlockRequest{BranchID: branch, Label: "Praktik", Weight: 30})
	require.NoError(t, err)

	a, err = svc.Patch(ctx, a, dto.PatchBlockRequest{Weight: floatPtr(70)})
	require.NoError(t, err)
	assert.Equal(t, 70.0, a.BlockWeight)

	_, err = svc.Patch(ctx, a, dto.PatchBlockRequest{Weight: floatPtr(71)})
	assert.True(t, isValidation(err))
}

func TestBlockService_ReactivateChecksBudget(t *testing.T) {
	svc := NewBlockService(repository.NewInMemRepository())
	branch := uuid.New()
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateBlockRequest{BranchID: branch, Label: "Teori", Weight: 80})
	require.NoError(t, err)
	off, err := svc.Create(ctx, dto.CreateBlockRequest{BranchID: branch, Label: "Lama", Weight: 30, IsActive: boolPtr(false)})
	require.NoError(t, err)

	_, err = svc.Patch(ctx, off, dto.PatchBlockRequest{IsActive: boolPtr(true)})
	assert.True(t, isValidation(err))

	report, err := svc.WeightsReport(ctx, branch)
	require.NoError(t, err)
	assert.False(t, report.Complete)
	assert.Equal(t, 20.0, report.Remaining)
}

func TestBlockService_DeleteUnknown(t *testing.T) {
	svc := NewBlockService(repository.NewInMemRepository())
	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), ErrBlockNotFound)
}

// checkFailRepo meniru Postgres yang menolak baris lewat CHECK block_weight.
type checkFailRepo struct {
	*repository.InMemRepository
}

func (r checkFailRepo) WithBranchLock(_ context.Context, _ uuid.UUID, fn func(tx repository.Repository) error) error {
	return fn(r)
}

func (r checkFailRepo) Create(context.Context, *model.BlockModel) error {
	return &pgconn.PgError{Code: "23514", ConstraintName: "chk_blocks_block_weight"}
}

func (r checkFailRepo) Save(context.Context, *model.BlockModel) error {
	return fmt.Errorf("save block: %w", &pgconn.PgError{Code: "23514"})
}

func TestBlockService_CheckViolationIsValidationError(t *testing.T) {
	svc := NewBlockService(checkFailRepo{repository.NewInMemRepository()})
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateBlockRequest{BranchID: uuid.New(), Label: "Teori", Weight: 10})
	assert.ErrorIs(t, err, ErrBlockWeightInvalid)

	m := &model.BlockModel{BlockID: uuid.New(), BlockBranchID: uuid.New(), BlockLabel: "Teori", BlockWeight: 10, BlockIsActive: true}
	_, err = svc.Patch(ctx, m, dto.PatchBlockRequest{Weight: floatPtr(20)})
	assert.True(t, isValidation(err))
}
