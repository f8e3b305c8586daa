// file: internals/features/assessments/assessments/dto/assessment_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"trainingku_backend/internals/features/assessments/assessments/model"
	"trainingku_backend/internals/features/assessments/grading"
)

/* =========================================================
   REQUEST
========================================================= */

type ComponentRequest struct {
	BlockID uuid.UUID `json:"block_id" validate:"required"`
	Weight  float64   `json:"weight" validate:"gte=0,lte=100"`
}

type CreateAssessmentRequest struct {
	BranchID        uuid.UUID          `json:"branch_id" validate:"required"`
	Name            string             `json:"name" validate:"required,min=3,max=200"`
	Description     *string            `json:"description"`
	Components      []ComponentRequest `json:"components" validate:"required,min=1,dive"`
	QuestionIDs     []uuid.UUID        `json:"question_ids" validate:"omitempty,dive,required"`
	PublicationDate *time.Time         `json:"publication_date"`
	ExpirationDate  *time.Time         `json:"expiration_date"`
}

func (r *CreateAssessmentRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = trimPtr(r.Description)
	r.PublicationDate = utcPtr(r.PublicationDate)
	r.ExpirationDate = utcPtr(r.ExpirationDate)
}

type PatchAssessmentRequest struct {
	Name            *string             `json:"name" validate:"omitempty,min=3,max=200"`
	Description     *string             `json:"description"`
	Components      *[]ComponentRequest `json:"components" validate:"omitempty,min=1,dive"`
	QuestionIDs     *[]uuid.UUID        `json:"question_ids"`
	PublicationDate *time.Time          `json:"publication_date"`
	ExpirationDate  *time.Time          `json:"expiration_date"`
}

func (r *PatchAssessmentRequest) Normalize() {
	if r.Name != nil {
		s := strings.TrimSpace(*r.Name)
		r.Name = &s
	}
	r.Description = trimPtr(r.Description)
	r.PublicationDate = utcPtr(r.PublicationDate)
	r.ExpirationDate = utcPtr(r.ExpirationDate)
}

// TouchesContent: mengubah soal atau komponen (ditolak kalau terkunci).
func (r *PatchAssessmentRequest) TouchesContent() bool {
	return r.Components != nil || r.QuestionIDs != nil
}

func ToComponents(in []ComponentRequest) []model.Component {
	out := make([]model.Component, 0, len(in))
	for _, c := range in {
		out = append(out, model.Component{BlockID: c.BlockID, Weight: c.Weight})
	}
	return out
}

/* =========================================================
   RESPONSE
========================================================= */

type AssessmentResponse struct {
	ID              uuid.UUID          `json:"id"`
	BranchID        uuid.UUID          `json:"branch_id"`
	Name            string             `json:"name"`
	Description     *string            `json:"description,omitempty"`
	Components      []model.Component  `json:"components"`
	Questions       []grading.Question `json:"questions,omitempty"`
	QuestionCount   int                `json:"question_count"`
	GradableCount   int                `json:"gradable_count"`
	PublicationDate *time.Time         `json:"publication_date,omitempty"`
	ExpirationDate  *time.Time         `json:"expiration_date,omitempty"`
	IsLocked        bool               `json:"is_locked"`
	LockedAt        *time.Time         `json:"locked_at,omitempty"`
	AnnouncedAt     *time.Time         `json:"announced_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// FromModel. withQuestions=false untuk list & tampilan peserta (kunci jawaban tidak ikut).
func FromModel(m *model.AssessmentModel, withQuestions bool) AssessmentResponse {
	comps, _ := m.Components()
	qs, _ := m.Questions()

	resp := AssessmentResponse{
		ID:              m.AssessmentID,
		BranchID:        m.AssessmentBranchID,
		Name:            m.AssessmentName,
		Description:     m.AssessmentDescription,
		Components:      comps,
		QuestionCount:   len(qs),
		GradableCount:   grading.CountAutoGradable(qs),
		PublicationDate: m.AssessmentPublicationDate,
		ExpirationDate:  m.AssessmentExpirationDate,
		IsLocked:        m.AssessmentIsLocked,
		LockedAt:        m.AssessmentLockedAt,
		AnnouncedAt:     m.AssessmentAnnouncedAt,
		CreatedAt:       m.AssessmentCreatedAt,
		UpdatedAt:       m.AssessmentUpdatedAt,
	}
	if withQuestions {
		resp.Questions = qs
	}
	return resp
}

func FromModels(list []model.AssessmentModel) []AssessmentResponse {
	out := make([]AssessmentResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i], false))
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

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
