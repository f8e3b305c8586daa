// file: internals/features/assessments/questions/dto/question_dto.go
package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"trainingku_backend/internals/features/assessments/grading"
	"trainingku_backend/internals/features/assessments/questions/model"
)

/* =========================================================
   REQUEST
========================================================= */

type CreateQuestionRequest struct {
	BranchID        uuid.UUID       `json:"branch_id" validate:"required"`
	BlockID         *uuid.UUID      `json:"block_id"`
	Statement       string          `json:"statement" validate:"required,min=3"`
	Type            string          `json:"type" validate:"required,oneof=multiple single open boolean form-dynamic"`
	Options         []string        `json:"options" validate:"omitempty,dive,required"`
	CorrectAnswer   *grading.Answer `json:"correct_answer"`
	CorrectAnswerIA *string         `json:"correct_answer_ia"`
}

func (r *CreateQuestionRequest) Normalize() {
	r.Statement = strings.TrimSpace(r.Statement)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Options = trimAll(r.Options)
	r.CorrectAnswerIA = trimPtr(r.CorrectAnswerIA)
}

// Draft: bentuk snapshot yang divalidasi sebelum disimpan.
func (r *CreateQuestionRequest) Draft() grading.Question {
	q := grading.Question{
		Statement:     r.Statement,
		Type:          grading.QuestionType(r.Type),
		Options:       r.Options,
		CorrectAnswer: r.CorrectAnswer,
	}
	if r.CorrectAnswerIA != nil {
		q.CorrectAnswerIA = *r.CorrectAnswerIA
	}
	return q
}

type PatchQuestionRequest struct {
	BlockID         *uuid.UUID      `json:"block_id"`
	ClearBlock      bool            `json:"clear_block"`
	Statement       *string         `json:"statement" validate:"omitempty,min=3"`
	Type            *string         `json:"type" validate:"omitempty,oneof=multiple single open boolean form-dynamic"`
	Options         *[]string       `json:"options"`
	CorrectAnswer   *grading.Answer `json:"correct_answer"`
	CorrectAnswerIA *string         `json:"correct_answer_ia"`
	ClearAnswerKey  bool            `json:"clear_answer_key"`
}

func (r *PatchQuestionRequest) Normalize() {
	if r.Statement != nil {
		s := strings.TrimSpace(*r.Statement)
		r.Statement = &s
	}
	if r.Type != nil {
		s := strings.ToLower(strings.TrimSpace(*r.Type))
		r.Type = &s
	}
	if r.Options != nil {
		o := trimAll(*r.Options)
		r.Options = &o
	}
	if r.CorrectAnswerIA != nil {
		s := strings.TrimSpace(*r.CorrectAnswerIA)
		r.CorrectAnswerIA = &s
	}
}

// Apply menimpa snapshot lama; hasilnya tetap harus lolos ValidateShape.
func (r *PatchQuestionRequest) Apply(q grading.Question) grading.Question {
	if r.Statement != nil {
		q.Statement = *r.Statement
	}
	if r.Type != nil {
		q.Type = grading.QuestionType(*r.Type)
	}
	if r.Options != nil {
		q.Options = *r.Options
	}
	if r.ClearAnswerKey {
		q.CorrectAnswer = nil
		q.CorrectAnswerIA = ""
	}
	if r.CorrectAnswer != nil && !r.CorrectAnswer.Empty() {
		q.CorrectAnswer = r.CorrectAnswer
	}
	if r.CorrectAnswerIA != nil {
		q.CorrectAnswerIA = *r.CorrectAnswerIA
	}
	return q
}

/* =========================================================
   MODEL MAPPING
========================================================= */

// FillModel menulis draft yang sudah tervalidasi ke kolom model.
func FillModel(m *model.QuestionModel, q grading.Question) error {
	m.QuestionStatement = q.Statement
	m.QuestionType = string(q.Type)
	m.QuestionOptions = pq.StringArray(q.Options)

	m.QuestionCorrectAnswer = nil
	if q.CorrectAnswer != nil {
		b, err := json.Marshal(q.CorrectAnswer)
		if err != nil {
			return err
		}
		m.QuestionCorrectAnswer = datatypes.JSON(b)
	}

	m.QuestionCorrectAnswerIA = nil
	if q.CorrectAnswerIA != "" {
		ia := q.CorrectAnswerIA
		m.QuestionCorrectAnswerIA = &ia
	}
	return nil
}

/* =========================================================
   RESPONSE
========================================================= */

type QuestionResponse struct {
	ID              uuid.UUID           `json:"id"`
	BranchID        uuid.UUID           `json:"branch_id"`
	BlockID         *uuid.UUID          `json:"block_id,omitempty"`
	Statement       string              `json:"statement"`
	Type            string              `json:"type"`
	Options         []string            `json:"options"`
	CorrectAnswer   *grading.Answer     `json:"correct_answer,omitempty"`
	CorrectAnswerIA string              `json:"correct_answer_ia,omitempty"`
	Attachment      *grading.Attachment `json:"attachment,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func FromModel(m *model.QuestionModel) QuestionResponse {
	resp := QuestionResponse{
		ID:        m.QuestionID,
		BranchID:  m.QuestionBranchID,
		BlockID:   m.QuestionBlockID,
		Statement: m.QuestionStatement,
		Type:      m.QuestionType,
		Options:   []string(m.QuestionOptions),
		CreatedAt: m.QuestionCreatedAt,
		UpdatedAt: m.QuestionUpdatedAt,
	}
	if resp.Options == nil {
		resp.Options = []string{}
	}
	// snapshot gagal di-decode → kirim kolom mentah saja
	if q, err := m.ToGrading(); err == nil {
		resp.CorrectAnswer = q.CorrectAnswer
		resp.CorrectAnswerIA = q.CorrectAnswerIA
		resp.Attachment = q.Attachment
	}
	return resp
}

func FromModels(list []model.QuestionModel) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}

/* =========================================================
   utils
========================================================= */

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}
