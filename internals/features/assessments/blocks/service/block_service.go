// file: internals/features/assessments/blocks/service/block_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingku_backend/internals/features/assessments/blocks/dto"
	"trainingku_backend/internals/features/assessments/blocks/model"
	"trainingku_backend/internals/features/assessments/blocks/repository"
	helper "trainingku_backend/internals/helpers"
)

const (
	MaxTotalWeight = 100.0
	weightEpsilon  = 1e-6
)

var (
	ErrBlockNotFound      = fiber.NewError(fiber.StatusNotFound, "Block tidak ditemukan")
	ErrBlockWeightInvalid = fiber.NewError(fiber.StatusUnprocessableEntity, "Bobot block harus lebih dari 0 dan maksimal 100")
)

type BlockService struct {
	repo repository.Repository
}

func NewBlockService(repo repository.Repository) *BlockService {
	return &BlockService{repo: repo}
}

// WeightsComplete: total bobot aktif tepat 100.
func WeightsComplete(total float64) bool {
	return math.Abs(total-MaxTotalWeight) < weightEpsilon
}

func weightOverflow(current, add float64) error {
	if current+add > MaxTotalWeight+weightEpsilon {
		return fiber.NewError(fiber.StatusUnprocessableEntity,
			fmt.Sprintf("Total bobot block aktif melebihi 100 (terpakai %.2f, sisa %.2f)", current, math.Max(0, MaxTotalWeight-current)))
	}
	return nil
}

// mapWriteError: CHECK constraint bobot di DB → 422, sama seperti validasi DTO.
func mapWriteError(err error) error {
	if helper.IsCheckViolation(err) {
		return ErrBlockWeightInvalid
	}
	return err
}

func (s *BlockService) Get(ctx context.Context, id uuid.UUID) (*model.BlockModel, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, fmt.Errorf("find block: %w", err)
	}
	return m, nil
}

func (s *BlockService) ListByBranch(ctx context.Context, branchID uuid.UUID, activeOnly bool) ([]model.BlockModel, error) {
	return s.repo.ListByBranch(ctx, branchID, activeOnly)
}

func (s *BlockService) Create(ctx context.Context, req dto.CreateBlockRequest) (*model.BlockModel, error) {
	m := req.ToModel()
	err := s.repo.WithBranchLock(ctx, m.BlockBranchID, func(tx repository.Repository) error {
		if m.BlockIsActive {
			sum, err := tx.SumActiveWeights(ctx, m.BlockBranchID, nil)
			if err != nil {
				return err
			}
			if err := weightOverflow(sum, m.BlockWeight); err != nil {
				return err
			}
		}
		return tx.Create(ctx, m)
	})
	if err != nil {
		return nil, mapWriteError(err)
	}
	return m, nil
}

func (s *BlockService) Patch(ctx context.Context, m *model.BlockModel, req dto.PatchBlockRequest) (*model.BlockModel, error) {
	req.Apply(m)
	err := s.repo.WithBranchLock(ctx, m.BlockBranchID, func(tx repository.Repository) error {
		if m.BlockIsActive {
			sum, err := tx.SumActiveWeights(ctx, m.BlockBranchID, &m.BlockID)
			if err != nil {
				return err
			}
			if err := weightOverflow(sum, m.BlockWeight); err != nil {
				return err
			}
		}
		return tx.Save(ctx, m)
	})
	if err != nil {
		return nil, mapWriteError(err)
	}
	return m, nil
}

// Delete soft delete. Subtest lama tetap menyimpan label block sebagai snapshot.
func (s *BlockService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlockNotFound
		}
		return fmt.Errorf("delete block: %w", err)
	}
	return nil
}

func (s *BlockService) WeightsReport(ctx context.Context, branchID uuid.UUID) (dto.WeightsReport, error) {
	active, err := s.repo.ListByBranch(ctx, branchID, true)
	if err != nil {
		return dto.WeightsReport{}, err
	}
	var total float64
	for _, b := range active {
		total += b.BlockWeight
	}
	return dto.WeightsReport{
		BranchID:    branchID,
		Total:       total,
		Complete:    WeightsComplete(total),
		Remaining:   math.Max(0, MaxTotalWeight-total),
		ActiveCount: len(active),
		Blocks:      dto.FromModels(active),
	}, nil
}
