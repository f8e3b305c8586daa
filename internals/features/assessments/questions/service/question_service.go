// file: internals/features/assessments/questions/service/question_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"trainingku_backend/internals/features/assessments/grading"
	"trainingku_backend/internals/features/assessments/questions/dto"
	"trainingku_backend/internals/features/assessments/questions/model"
	"trainingku_backend/internals/features/assessments/questions/repository"
	helperOSS "trainingku_backend/internals/helpers/oss"
)

var (
	ErrQuestionNotFound = fiber.NewError(fiber.StatusNotFound, "Soal tidak ditemukan")
	ErrQuestionLocked   = fiber.NewError(fiber.StatusConflict, "Soal sudah dipakai assessment yang terkunci")
)

type QuestionService struct {
	repo repository.Repository
	blob helperOSS.BlobService // boleh nil (OSS belum dikonfigurasi)
}

func NewQuestionService(repo repository.Repository, blob helperOSS.BlobService) *QuestionService {
	return &QuestionService{repo: repo, blob: blob}
}

func (s *QuestionService) Get(ctx context.Context, id uuid.UUID) (*model.QuestionModel, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("find question: %w", err)
	}
	return m, nil
}

func (s *QuestionService) List(ctx context.Context, f repository.ListFilter) ([]model.QuestionModel, int64, error) {
	return s.repo.List(ctx, f)
}

func (s *QuestionService) Create(ctx context.Context, req dto.CreateQuestionRequest) (*model.QuestionModel, error) {
	draft := req.Draft()
	if err := draft.ValidateShape(); err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	m := &model.QuestionModel{
		QuestionBranchID: req.BranchID,
		QuestionBlockID:  req.BlockID,
	}
	if err := dto.FillModel(m, draft); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	log.Printf("[QuestionService] created id=%s type=%s branch=%s", m.QuestionID, m.QuestionType, m.QuestionBranchID)
	return m, nil
}

func (s *QuestionService) Patch(ctx context.Context, m *model.QuestionModel, req dto.PatchQuestionRequest) (*model.QuestionModel, error) {
	if err := s.ensureEditable(ctx, m.QuestionID); err != nil {
		return nil, err
	}

	current, err := m.ToGrading()
	if err != nil {
		return nil, err
	}
	next := req.Apply(current)
	if err := next.ValidateShape(); err != nil {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	if err := dto.FillModel(m, next); err != nil {
		return nil, err
	}

	switch {
	case req.ClearBlock:
		m.QuestionBlockID = nil
	case req.BlockID != nil:
		m.QuestionBlockID = req.BlockID
	}

	if err := s.repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save question: %w", err)
	}
	return m, nil
}

func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.ensureEditable(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

// UploadAttachment mengganti lampiran soal. Lampiran lama dihapus best-effort.
func (s *QuestionService) UploadAttachment(ctx context.Context, m *model.QuestionModel, fh *multipart.FileHeader) (*model.QuestionModel, error) {
	if s.blob == nil {
		return nil, helperOSS.ErrStorageNotConfigured
	}
	if err := s.ensureEditable(ctx, m.QuestionID); err != nil {
		return nil, err
	}

	dir := fmt.Sprintf("branches/%s/questions", m.QuestionBranchID)
	stored, err := s.blob.UploadAttachment(ctx, dir, fh)
	if err != nil {
		return nil, err
	}

	var old grading.Attachment
	if len(m.QuestionAttachment) > 0 {
		_ = json.Unmarshal(m.QuestionAttachment, &old)
	}

	b, _ := json.Marshal(grading.Attachment{Type: stored.Type, URL: stored.URL, Name: stored.Name})
	m.QuestionAttachment = datatypes.JSON(b)
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save question attachment: %w", err)
	}

	if old.URL != "" {
		if err := s.blob.DeleteByPublicURL(ctx, old.URL); err != nil {
			log.Printf("[QuestionService] gagal hapus lampiran lama %s: %v", old.URL, err)
		}
	}
	return m, nil
}

// Snapshot menyalin soal (urutan mengikuti ids) untuk disematkan ke assessment.
func (s *QuestionService) Snapshot(ctx context.Context, branchID uuid.UUID, ids []uuid.UUID) ([]grading.Question, error) {
	rows, err := s.repo.FindByIDs(ctx, branchID, ids)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	byID := make(map[uuid.UUID]*model.QuestionModel, len(rows))
	for i := range rows {
		byID[rows[i].QuestionID] = &rows[i]
	}

	var missing []string
	out := make([]grading.Question, 0, len(ids))
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		m, ok := byID[id]
		if !ok {
			missing = append(missing, id.String())
			continue
		}
		q, err := m.ToGrading()
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if len(missing) > 0 {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "question_ids tidak ditemukan di branch ini: "+strings.Join(missing, ", "))
	}
	return out, nil
}

func (s *QuestionService) ensureEditable(ctx context.Context, id uuid.UUID) error {
	locked, err := s.repo.UsedByLockedAssessment(ctx, id)
	if err != nil {
		return fmt.Errorf("check locked reference: %w", err)
	}
	if locked {
		return ErrQuestionLocked
	}
	return nil
}
