// file: internals/features/assessments/subtests/service/subtest_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	assessmentModel "trainingku_backend/internals/features/assessments/assessments/model"
	blockModel "trainingku_backend/internals/features/assessments/blocks/model"
	"trainingku_backend/internals/features/assessments/grading"
	"trainingku_backend/internals/features/assessments/subtests/model"
	"trainingku_backend/internals/features/assessments/subtests/repository"
	"trainingku_backend/internals/features/realtime/broadcaster"
	helper "trainingku_backend/internals/helpers"
	helperOSS "trainingku_backend/internals/helpers/oss"
)

var (
	ErrSubtestNotFound   = fiber.NewError(fiber.StatusNotFound, "Subtest tidak ditemukan")
	ErrNotOwner          = fiber.NewError(fiber.StatusForbidden, "Subtest ini bukan milik Anda")
	ErrAlreadySubmitted  = fiber.NewError(fiber.StatusConflict, "Subtest sudah dikumpulkan")
	ErrSubtestSuperseded = fiber.NewError(fiber.StatusConflict, "Subtest sudah di-reset, gunakan subtest terbaru")
	ErrAlreadyReset      = fiber.NewError(fiber.StatusConflict, "Subtest sudah di-reset sebelumnya")
	ErrNoComponents      = fiber.NewError(fiber.StatusUnprocessableEntity, "Assessment belum punya komponen block")
	ErrAlreadyAssigned   = fiber.NewError(fiber.StatusConflict, "Subtest sedang dibagikan oleh proses lain, coba lagi")
)

// AssessmentSource: bagian AssessmentService yang dibutuhkan saat membagikan subtest.
type AssessmentSource interface {
	Get(ctx context.Context, id uuid.UUID) (*assessmentModel.AssessmentModel, error)
	EnsureLocked(ctx context.Context, m *assessmentModel.AssessmentModel) error
}

type BlockLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*blockModel.BlockModel, error)
}

type Deps struct {
	Repo        repository.Repository
	ResetLogs   repository.ResetLogStore
	Assessments AssessmentSource
	Blocks      BlockLookup
	Comparer    grading.Comparer        // nil = soal open dengan jawaban ideal dinilai salah
	Hub         broadcaster.Broadcaster // nil = tanpa realtime
	Blob        helperOSS.BlobService   // nil = reset tanpa lampiran
}

type SubtestService struct {
	Deps
	now func() time.Time
}

func NewSubtestService(d Deps) *SubtestService {
	return &SubtestService{Deps: d, now: func() time.Time { return time.Now().UTC() }}
}

func (s *SubtestService) WithClock(now func() time.Time) *SubtestService {
	s.now = now
	return s
}

func (s *SubtestService) Get(ctx context.Context, id uuid.UUID) (*model.SubtestModel, error) {
	m, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubtestNotFound
		}
		return nil, fmt.Errorf("find subtest: %w", err)
	}
	return m, nil
}

func (s *SubtestService) List(ctx context.Context, f repository.ListFilter) ([]model.SubtestModel, int64, error) {
	return s.Repo.List(ctx, f)
}

/* =========================================================
   GENERATE
========================================================= */

// Generate membagikan satu subtest per (user, block komponen). Assessment otomatis dikunci.
// Subtest live yang sudah ada tidak diduplikasi.
func (s *SubtestService) Generate(ctx context.Context, a *assessmentModel.AssessmentModel, userIDs []uuid.UUID) ([]model.SubtestModel, int, error) {
	comps, err := a.Components()
	if err != nil {
		return nil, 0, fmt.Errorf("decode components: %w", err)
	}
	if len(comps) == 0 {
		return nil, 0, ErrNoComponents
	}
	if err := s.Assessments.EnsureLocked(ctx, a); err != nil {
		return nil, 0, err
	}
	qs, err := a.Questions()
	if err != nil {
		return nil, 0, fmt.Errorf("decode questions: %w", err)
	}

	labels := make(map[uuid.UUID]string, len(comps))
	for _, c := range comps {
		b, err := s.Blocks.Get(ctx, c.BlockID)
		if err != nil {
			return nil, 0, fiber.NewError(fiber.StatusUnprocessableEntity, "block komponen tidak ditemukan: "+c.BlockID.String())
		}
		labels[c.BlockID] = b.BlockLabel
	}
	byBlock := PartitionQuestions(qs, comps)

	var created []model.SubtestModel
	skipped := 0
	seen := map[uuid.UUID]bool{}
	for _, userID := range userIDs {
		if userID == uuid.Nil || seen[userID] {
			continue
		}
		seen[userID] = true

		for _, c := range comps {
			_, err := s.Repo.FindLive(ctx, a.AssessmentID, userID, c.BlockID)
			if err == nil {
				skipped++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, fmt.Errorf("find live subtest: %w", err)
			}

			st := model.SubtestModel{
				SubtestID:             uuid.New(),
				SubtestAssessmentID:   a.AssessmentID,
				SubtestUserID:         userID,
				SubtestBlockID:        c.BlockID,
				SubtestBranchID:       a.AssessmentBranchID,
				SubtestAssessmentName: a.AssessmentName,
				SubtestBlockLabel:     labels[c.BlockID],
				SubtestAttemptNo:      1,
			}
			if err := st.SetQuestions(byBlock[c.BlockID]); err != nil {
				return nil, 0, err
			}
			created = append(created, st)
		}
	}

	if err := s.Repo.CreateMany(ctx, created); err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, 0, ErrAlreadyAssigned
		}
		return nil, 0, fmt.Errorf("create subtests: %w", err)
	}
	log.Printf("[SubtestService] generate assessment=%s created=%d skipped=%d", a.AssessmentID, len(created), skipped)
	return created, skipped, nil
}

// PartitionQuestions membagi snapshot soal ke block komponen.
// Soal tanpa block, atau dengan block di luar komponen, masuk ke komponen pertama.
func PartitionQuestions(qs []grading.Question, comps []assessmentModel.Component) map[uuid.UUID][]grading.Question {
	out := make(map[uuid.UUID][]grading.Question, len(comps))
	if len(comps) == 0 {
		return out
	}
	inComps := make(map[string]uuid.UUID, len(comps))
	for _, c := range comps {
		inComps[c.BlockID.String()] = c.BlockID
		out[c.BlockID] = []grading.Question{}
	}
	first := comps[0].BlockID
	for _, q := range qs {
		target := first
		if id, ok := inComps[q.BlockID]; ok {
			target = id
		}
		out[target] = append(out[target], q)
	}
	return out
}

/* =========================================================
   SUBMIT
========================================================= */

// Submit menilai jawaban lalu menulis hasilnya sekali saja (conditional write).
// Tulis kedua dan seterusnya → 409, skor tersimpan tidak berubah.
func (s *SubtestService) Submit(ctx context.Context, id, userID uuid.UUID, answers map[int]grading.Answer) (*model.SubtestModel, grading.Result, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, grading.Result{}, err
	}
	if m.SubtestUserID != userID {
		return nil, grading.Result{}, ErrNotOwner
	}
	if err := stateError(m); err != nil {
		return nil, grading.Result{}, err
	}

	qs, err := m.Questions()
	if err != nil {
		return nil, grading.Result{}, fmt.Errorf("decode questions: %w", err)
	}
	res := grading.Grade(ctx, qs, answers, s.Comparer)

	sub, err := model.NewSubmission(s.now(), answers, res)
	if err != nil {
		return nil, grading.Result{}, err
	}
	won, err := s.Repo.Submit(ctx, id, sub)
	if err != nil {
		return nil, grading.Result{}, fmt.Errorf("submit subtest: %w", err)
	}
	if !won {
		// kalah race: baca ulang untuk pesan yang tepat
		latest, err := s.Get(ctx, id)
		if err != nil {
			return nil, grading.Result{}, err
		}
		if err := stateError(latest); err != nil {
			return nil, grading.Result{}, err
		}
		return nil, grading.Result{}, ErrAlreadySubmitted
	}
	sub.Apply(m)

	log.Printf("[SubtestService] submitted id=%s user=%s score=%d (%d/%d)",
		m.SubtestID, userID, res.Score, res.CorrectCount, res.TotalQuestions)

	broadcaster.Notify(ctx, s.Hub, m.SubtestBranchID, broadcaster.EventSubtestSubmitted, map[string]any{
		"subtest_id":      m.SubtestID,
		"assessment_id":   m.SubtestAssessmentID,
		"user_id":         m.SubtestUserID,
		"block_id":        m.SubtestBlockID,
		"score":           res.Score,
		"correct_count":   res.CorrectCount,
		"total_questions": res.TotalQuestions,
	})
	return m, res, nil
}

func stateError(m *model.SubtestModel) error {
	switch m.Status() {
	case model.StatusSuperseded:
		return ErrSubtestSuperseded
	case model.StatusSubmitted:
		return ErrAlreadySubmitted
	}
	return nil
}

/* =========================================================
   RESET
========================================================= */

// Reset membuat subtest Pending baru (attempt+1). Subtest lama tetap disimpan sebagai riwayat.
func (s *SubtestService) Reset(ctx context.Context, m *model.SubtestModel, actor uuid.UUID, reason string, files []*multipart.FileHeader) (*model.SubtestModel, *model.ResetLog, error) {
	if m.IsSuperseded() {
		return nil, nil, ErrAlreadyReset
	}
	if len(files) > 0 && s.Blob == nil {
		return nil, nil, helperOSS.ErrStorageNotConfigured
	}

	dir := fmt.Sprintf("branches/%s/subtest-resets/%s", m.SubtestBranchID, m.SubtestID)
	uploaded := make([]model.ResetAttachment, 0, len(files))
	for _, fh := range files {
		obj, err := s.Blob.UploadAttachment(ctx, dir, fh)
		if err != nil {
			s.discard(ctx, uploaded)
			return nil, nil, err
		}
		uploaded = append(uploaded, model.ResetAttachment{
			URL:         obj.URL,
			Key:         obj.Key,
			Name:        obj.Name,
			Type:        obj.Type,
			ContentType: obj.ContentType,
		})
	}

	at := s.now()
	next := &model.SubtestModel{
		SubtestID:             uuid.New(),
		SubtestAssessmentID:   m.SubtestAssessmentID,
		SubtestUserID:         m.SubtestUserID,
		SubtestBlockID:        m.SubtestBlockID,
		SubtestBranchID:       m.SubtestBranchID,
		SubtestAssessmentName: m.SubtestAssessmentName,
		SubtestBlockLabel:     m.SubtestBlockLabel,
		SubtestAttemptNo:      m.SubtestAttemptNo + 1,
		SubtestQuestions:      m.SubtestQuestions,
		SubtestTotalQuestions: m.SubtestTotalQuestions,
	}
	won, err := s.Repo.Supersede(ctx, m.SubtestID, next, at)
	if err != nil {
		s.discard(ctx, uploaded)
		return nil, nil, fmt.Errorf("supersede subtest: %w", err)
	}
	if !won {
		s.discard(ctx, uploaded)
		return nil, nil, ErrAlreadyReset
	}

	entry := &model.ResetLog{
		SubtestID:     m.SubtestID,
		NewSubtestID:  next.SubtestID,
		AssessmentID:  m.SubtestAssessmentID,
		BranchID:      m.SubtestBranchID,
		UserID:        m.SubtestUserID,
		Reason:        reason,
		Attachments:   uploaded,
		PreviousScore: m.SubtestScore,
		ActorID:       actor,
		At:            at,
	}
	if s.ResetLogs != nil {
		if err := s.ResetLogs.Insert(ctx, entry); err != nil {
			log.Printf("[SubtestService] ⚠️ simpan reset log gagal subtest=%s: %v", m.SubtestID, err)
		}
	}
	log.Printf("[SubtestService] reset id=%s → %s attempt=%d by=%s", m.SubtestID, next.SubtestID, next.SubtestAttemptNo, actor)

	broadcaster.Notify(ctx, s.Hub, m.SubtestBranchID, broadcaster.EventSubtestReset, map[string]any{
		"subtest_id":     m.SubtestID,
		"new_subtest_id": next.SubtestID,
		"assessment_id":  m.SubtestAssessmentID,
		"user_id":        m.SubtestUserID,
		"attempt_no":     next.SubtestAttemptNo,
	})
	return next, entry, nil
}

func (s *SubtestService) Resets(ctx context.Context, subtestID uuid.UUID) ([]model.ResetLog, error) {
	if s.ResetLogs == nil {
		return []model.ResetLog{}, nil
	}
	return s.ResetLogs.ListBySubtest(ctx, subtestID)
}

// discard: hapus lampiran yang sudah terlanjur di-upload (best-effort).
func (s *SubtestService) discard(ctx context.Context, atts []model.ResetAttachment) {
	for _, a := range atts {
		if err := s.Blob.DeleteByPublicURL(ctx, a.URL); err != nil {
			log.Printf("[SubtestService] hapus lampiran %s gagal: %v", a.URL, err)
		}
	}
}
