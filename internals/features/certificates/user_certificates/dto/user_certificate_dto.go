package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"trainingku_backend/internals/features/certificates/user_certificates/model"
)

type SignOffRequest struct {
	BranchID uuid.UUID `json:"branch_id" validate:"required"`
	UserName string    `json:"user_name" validate:"omitempty,max=150"`
}

func (r *SignOffRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
}

type CertificateResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	BranchID    uuid.UUID `json:"branch_id"`
	UserName    string    `json:"user_name"`
	Serial      string    `json:"serial"`
	NotaGlobal  float64   `json:"nota_global"`
	BlockLabels []string  `json:"block_labels"`
	FileURL     *string   `json:"file_url,omitempty"`
	IssuedAt    time.Time `json:"issued_at"`
}

func FromModel(m *model.UserCertificateModel) CertificateResponse {
	labels := []string(m.UserCertBlockLabels)
	if labels == nil {
		labels = []string{}
	}
	return CertificateResponse{
		ID:          m.UserCertID,
		UserID:      m.UserCertUserID,
		BranchID:    m.UserCertBranchID,
		UserName:    m.UserCertUserName,
		Serial:      m.UserCertSerial,
		NotaGlobal:  m.UserCertNotaGlobal,
		BlockLabels: labels,
		FileURL:     m.UserCertFileURL,
		IssuedAt:    m.UserCertIssuedAt,
	}
}

func FromModels(ms []model.UserCertificateModel) []CertificateResponse {
	out := make([]CertificateResponse, 0, len(ms))
	for i := range ms {
		out = append(out, FromModel(&ms[i]))
	}
	return out
}
