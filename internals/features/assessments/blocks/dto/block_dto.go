package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"trainingku_backend/internals/features/assessments/blocks/model"
)

type CreateBlockRequest struct {
	BranchID uuid.UUID `json:"branch_id" validate:"required"`
	Label    string    `json:"label" validate:"required,min=2,max=120"`
	Weight   float64   `json:"weight" validate:"required,gt=0,lte=100"`
	IsActive *bool     `json:"is_active"`
}

func (r *CreateBlockRequest) Normalize() { r.Label = strings.TrimSpace(r.Label) }

func (r *CreateBlockRequest) ToModel() *model.BlockModel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &model.BlockModel{
		BlockBranchID: r.BranchID,
		BlockLabel:    r.Label,
		BlockWeight:   r.Weight,
		BlockIsActive: active,
	}
}

type PatchBlockRequest struct {
	Label    *string  `json:"label" validate:"omitempty,min=2,max=120"`
	Weight   *float64 `json:"weight" validate:"omitempty,gt=0,lte=100"`
	IsActive *bool    `json:"is_active"`
}

func (r *PatchBlockRequest) Normalize() {
	if r.Label != nil {
		s := strings.TrimSpace(*r.Label)
		r.Label = &s
	}
}

func (r *PatchBlockRequest) Apply(m *model.BlockModel) {
	if r.Label != nil {
		m.BlockLabel = *r.Label
	}
	if r.Weight != nil {
		m.BlockWeight = *r.Weight
	}
	if r.IsActive != nil {
		m.BlockIsActive = *r.IsActive
	}
}

type BlockResponse struct {
	ID        uuid.UUID `json:"id"`
	BranchID  uuid.UUID `json:"branch_id"`
	Label     string    `json:"label"`
	Weight    float64   `json:"weight"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModel(m *model.BlockModel) BlockResponse {
	return BlockResponse{
		ID:        m.BlockID,
		BranchID:  m.BlockBranchID,
		Label:     m.BlockLabel,
		Weight:    m.BlockWeight,
		IsActive:  m.BlockIsActive,
		CreatedAt: m.BlockCreatedAt,
		UpdatedAt: m.BlockUpdatedAt,
	}
}

func FromModels(list []model.BlockModel) []BlockResponse {
	out := make([]BlockResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}

// WeightsReport kelengkapan konfigurasi bobot satu branch.
type WeightsReport struct {
	BranchID    uuid.UUID       `json:"branch_id"`
	Total       float64         `json:"total"`
	Complete    bool            `json:"complete"`
	Remaining   float64         `json:"remaining"`
	ActiveCount int             `json:"active_count"`
	Blocks      []BlockResponse `json:"blocks"`
}
