// file: internals/features/assessments/assessments/service/assessment_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingku_backend/internals/features/assessments/assessments/dto"
	"trainingku_backend/internals/features/assessments/assessments/model"
	"trainingku_backend/internals/features/assessments/assessments/repository"
	blockModel "trainingku_backend/internals/features/assessments/blocks/model"
	"trainingku_backend/internals/features/assessments/grading"
)

var (
	ErrAssessmentNotFound = fiber.NewError(fiber.StatusNotFound, "Assessment tidak ditemukan")
	ErrAssessmentLocked   = fiber.NewError(fiber.StatusConflict, "Assessment sudah terkunci, soal & komponen tidak bisa diubah")
	ErrAlreadyLocked      = fiber.NewError(fiber.StatusConflict, "Assessment sudah terkunci")
	ErrNothingToLock      = fiber.NewError(fiber.StatusUnprocessableEntity, "Assessment tanpa soal tidak bisa dikunci")
	ErrInvalidWindow      = fiber.NewError(fiber.StatusUnprocessableEntity, "expiration_date harus setelah publication_date")
)

// QuestionSnapshotter menyalin soal dari bank soal.
type QuestionSnapshotter interface {
	Snapshot(ctx context.Context, branchID uuid.UUID, ids []uuid.UUID) ([]grading.Question, error)
}

type BlockLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*blockModel.BlockModel, error)
}

type AssessmentService struct {
	repo      repository.Repository
	questions QuestionSnapshotter
	blocks    BlockLookup
	now       func() time.Time
}

func NewAssessmentService(repo repository.Repository, questions QuestionSnapshotter, blocks BlockLookup) *AssessmentService {
	return &AssessmentService{
		repo:      repo,
		questions: questions,
		blocks:    blocks,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock untuk test.
func (s *AssessmentService) WithClock(now func() time.Time) *AssessmentService {
	s.now = now
	return s
}

func (s *AssessmentService) Get(ctx context.Context, id uuid.UUID) (*model.AssessmentModel, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("find assessment: %w", err)
	}
	return m, nil
}

func (s *AssessmentService) List(ctx context.Context, f repository.ListFilter) ([]model.AssessmentModel, int64, error) {
	return s.repo.List(ctx, f)
}

// ListOpen assessment yang sedang berjalan (untuk peserta).
func (s *AssessmentService) ListOpen(ctx context.Context, branchID uuid.UUID) ([]model.AssessmentModel, error) {
	return s.repo.ListOpen(ctx, branchID, s.now())
}

func (s *AssessmentService) Create(ctx context.Context, req dto.CreateAssessmentRequest, actor uuid.UUID) (*model.AssessmentModel, error) {
	if err := validateWindow(req.PublicationDate, req.ExpirationDate); err != nil {
		return nil, err
	}
	comps := dto.ToComponents(req.Components)
	if err := s.validateComponents(ctx, req.BranchID, comps); err != nil {
		return nil, err
	}
	qs, err := s.questions.Snapshot(ctx, req.BranchID, req.QuestionIDs)
	if err != nil {
		return nil, err
	}

	m := &model.AssessmentModel{
		AssessmentBranchID:        req.BranchID,
		AssessmentName:            req.Name,
		AssessmentDescription:     req.Description,
		AssessmentPublicationDate: req.PublicationDate,
		AssessmentExpirationDate:  req.ExpirationDate,
	}
	if actor != uuid.Nil {
		m.AssessmentCreatedBy = &actor
	}
	m.SetComponents(comps)
	if err := m.SetQuestions(qs); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}
	log.Printf("[AssessmentService] created id=%s branch=%s questions=%d", m.AssessmentID, m.AssessmentBranchID, len(qs))
	return m, nil
}

func (s *AssessmentService) Patch(ctx context.Context, m *model.AssessmentModel, req dto.PatchAssessmentRequest) (*model.AssessmentModel, error) {
	if req.TouchesContent() && m.AssessmentIsLocked {
		return nil, ErrAssessmentLocked
	}

	if req.Name != nil {
		m.AssessmentName = *req.Name
	}
	if req.Description != nil {
		m.AssessmentDescription = req.Description
	}
	if req.PublicationDate != nil {
		m.AssessmentPublicationDate = req.PublicationDate
	}
	if req.ExpirationDate != nil {
		m.AssessmentExpirationDate = req.ExpirationDate
	}
	if err := validateWindow(m.AssessmentPublicationDate, m.AssessmentExpirationDate); err != nil {
		return nil, err
	}

	if req.Components != nil {
		comps := dto.ToComponents(*req.Components)
		if err := s.validateComponents(ctx, m.AssessmentBranchID, comps); err != nil {
			return nil, err
		}
		m.SetComponents(comps)
	}
	if req.QuestionIDs != nil {
		qs, err := s.questions.Snapshot(ctx, m.AssessmentBranchID, *req.QuestionIDs)
		if err != nil {
			return nil, err
		}
		if err := m.SetQuestions(qs); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}
	return m, nil
}

// Delete soft delete. Subtest yang sudah dibuat tetap ada (punya snapshot sendiri).
func (s *AssessmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssessmentNotFound
		}
		return fmt.Errorf("delete assessment: %w", err)
	}
	return nil
}

// Lock mengunci soal & komponen. Tidak bisa dibuka lagi.
func (s *AssessmentService) Lock(ctx context.Context, m *model.AssessmentModel) (*model.AssessmentModel, error) {
	if m.AssessmentIsLocked {
		return nil, ErrAlreadyLocked
	}
	if err := s.EnsureLocked(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// EnsureLocked idempotent; dipakai saat subtest dibagikan.
func (s *AssessmentService) EnsureLocked(ctx context.Context, m *model.AssessmentModel) error {
	if m.AssessmentIsLocked {
		return nil
	}
	qs, err := m.Questions()
	if err != nil {
		return fmt.Errorf("decode questions: %w", err)
	}
	if len(qs) == 0 {
		return ErrNothingToLock
	}

	at := s.now()
	if _, err := s.repo.Lock(ctx, m.AssessmentID, at); err != nil {
		return fmt.Errorf("lock assessment: %w", err)
	}
	// kalah race dengan request lain tetap berarti terkunci
	m.AssessmentIsLocked = true
	if m.AssessmentLockedAt == nil {
		m.AssessmentLockedAt = &at
	}
	return nil
}

func (s *AssessmentService) validateComponents(ctx context.Context, branchID uuid.UUID, comps []model.Component) error {
	if len(comps) == 0 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "components minimal 1 block")
	}
	seen := map[uuid.UUID]bool{}
	for _, c := range comps {
		if seen[c.BlockID] {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "block duplikat di components: "+c.BlockID.String())
		}
		seen[c.BlockID] = true

		b, err := s.blocks.Get(ctx, c.BlockID)
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code == fiber.StatusNotFound {
				return fiber.NewError(fiber.StatusUnprocessableEntity, "block tidak ditemukan: "+c.BlockID.String())
			}
			return err
		}
		if b.BlockBranchID != branchID {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "block bukan milik branch ini: "+c.BlockID.String())
		}
	}
	return nil
}

func validateWindow(pub, exp *time.Time) error {
	if pub != nil && exp != nil && !exp.After(*pub) {
		return ErrInvalidWindow
	}
	return nil
}
