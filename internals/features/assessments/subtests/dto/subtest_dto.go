// file: internals/features/assessments/subtests/dto/subtest_dto.go
package dto

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"trainingku_backend/internals/features/assessments/grading"
	"trainingku_backend/internals/features/assessments/subtests/model"
)

/* =========================================================
   REQUESTS
========================================================= */

type GenerateSubtestsRequest struct {
	UserIDs []uuid.UUID `json:"user_ids" validate:"required,min=1,max=500"`
}

// SubmitRequest: answers dikunci per index soal, contoh {"0":"A","1":["A","B"],"2":{"nama":"x"}}.
type SubmitRequest struct {
	Answers map[string]grading.Answer `json:"answers" validate:"required"`
}

// Indexed mengubah key string menjadi index soal.
func (r *SubmitRequest) Indexed(totalQuestions int) (map[int]grading.Answer, error) {
	out := make(map[int]grading.Answer, len(r.Answers))
	for k, v := range r.Answers {
		i, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || i < 0 || i >= totalQuestions {
			return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "index jawaban tidak valid: "+k)
		}
		out[i] = v
	}
	return out, nil
}

type ResetRequest struct {
	Reason string `form:"reason" json:"reason" validate:"required,min=3,max=1000"`
}

func (r *ResetRequest) Normalize() { r.Reason = strings.TrimSpace(r.Reason) }

/* =========================================================
   RESPONSES
========================================================= */

type SubtestResponse struct {
	ID             uuid.UUID          `json:"id"`
	AssessmentID   uuid.UUID          `json:"assessment_id"`
	AssessmentName string             `json:"assessment_name"`
	BranchID       uuid.UUID          `json:"branch_id"`
	UserID         uuid.UUID          `json:"user_id"`
	BlockID        uuid.UUID          `json:"block_id"`
	BlockLabel     string             `json:"block_label"`
	AttemptNo      int                `json:"attempt_no"`
	Status         model.Status       `json:"status"`
	Questions      []grading.Question `json:"questions,omitempty"`
	TotalQuestions int                `json:"total_questions"`

	SubmittedAt    *time.Time      `json:"submitted_at,omitempty"`
	Answers        json.RawMessage `json:"answers,omitempty"`
	Score          *int            `json:"score,omitempty"`
	CorrectCount   *int            `json:"correct_count,omitempty"`
	CorrectMap     json.RawMessage `json:"correct_map,omitempty"`
	GradingDetails json.RawMessage `json:"grading_details,omitempty"`
	SupersededAt   *time.Time      `json:"superseded_at,omitempty"`
	SupersededBy   *uuid.UUID      `json:"superseded_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type ViewOptions struct {
	WithQuestions bool
	// RevealKeys: kunci jawaban ikut dikirim
	RevealKeys bool
}

// ForParticipant: soal dikirim, kunci disembunyikan selama masih pending.
func ForParticipant(m *model.SubtestModel) ViewOptions {
	return ViewOptions{WithQuestions: true, RevealKeys: m.IsSubmitted()}
}

func FromModel(m *model.SubtestModel, opt ViewOptions) SubtestResponse {
	resp := SubtestResponse{
		ID:             m.SubtestID,
		AssessmentID:   m.SubtestAssessmentID,
		AssessmentName: m.SubtestAssessmentName,
		BranchID:       m.SubtestBranchID,
		UserID:         m.SubtestUserID,
		BlockID:        m.SubtestBlockID,
		BlockLabel:     m.SubtestBlockLabel,
		AttemptNo:      m.SubtestAttemptNo,
		Status:         m.Status(),
		TotalQuestions: m.SubtestTotalQuestions,
		SubmittedAt:    m.SubtestSubmittedAt,
		Answers:        raw(m.SubtestAnswers),
		Score:          m.SubtestScore,
		CorrectCount:   m.SubtestCorrectCount,
		CorrectMap:     raw(m.SubtestCorrectMap),
		GradingDetails: raw(m.SubtestGradingDetails),
		SupersededAt:   m.SubtestSupersededAt,
		SupersededBy:   m.SubtestSupersededBy,
		CreatedAt:      m.SubtestCreatedAt,
	}
	if opt.WithQuestions {
		if qs, err := m.Questions(); err == nil {
			if !opt.RevealKeys {
				qs = StripKeys(qs)
			}
			resp.Questions = qs
		}
	}
	return resp
}

func FromModels(list []model.SubtestModel, opt ViewOptions) []SubtestResponse {
	out := make([]SubtestResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i], opt))
	}
	return out
}

// StripKeys menghapus kunci jawaban dari salinan soal.
func StripKeys(qs []grading.Question) []grading.Question {
	out := make([]grading.Question, len(qs))
	for i, q := range qs {
		q.CorrectAnswer = nil
		q.CorrectAnswerIA = ""
		out[i] = q
	}
	return out
}

type GenerateResponse struct {
	Created []SubtestResponse `json:"created"`
	Skipped int               `json:"skipped"`
}

type ResetResponse struct {
	Subtest SubtestResponse `json:"subtest"`
	Log     model.ResetLog  `json:"log"`
}

func raw(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	return json.RawMessage(b)
}
