// file: internals/features/assessments/assessments/model/assessment_model.go
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"trainingku_backend/internals/features/assessments/grading"
)

// Component: satu block yang dinilai oleh assessment ini.
type Component struct {
	BlockID uuid.UUID `json:"block_id"`
	Weight  float64   `json:"weight"`
}

type AssessmentModel struct {
	AssessmentID          uuid.UUID  `gorm:"column:assessment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"assessment_id"`
	AssessmentBranchID    uuid.UUID  `gorm:"column:assessment_branch_id;type:uuid;not null;index" json:"assessment_branch_id"`
	AssessmentName        string     `gorm:"column:assessment_name;type:varchar(200);not null" json:"assessment_name"`
	AssessmentDescription *string    `gorm:"column:assessment_description;type:text" json:"assessment_description,omitempty"`
	AssessmentCreatedBy   *uuid.UUID `gorm:"column:assessment_created_by;type:uuid" json:"assessment_created_by,omitempty"`

	// snapshot (owned value), bukan foreign key ke bank soal
	AssessmentComponents datatypes.JSON `gorm:"column:assessment_components;type:jsonb;not null;default:'[]'" json:"assessment_components"`
	AssessmentQuestions  datatypes.JSON `gorm:"column:assessment_questions;type:jsonb;not null;default:'[]'" json:"assessment_questions"`

	AssessmentPublicationDate *time.Time `gorm:"column:assessment_publication_date" json:"assessment_publication_date,omitempty"`
	AssessmentExpirationDate  *time.Time `gorm:"column:assessment_expiration_date" json:"assessment_expiration_date,omitempty"`

	AssessmentIsLocked bool       `gorm:"column:assessment_is_locked;not null;default:false" json:"assessment_is_locked"`
	AssessmentLockedAt *time.Time `gorm:"column:assessment_locked_at" json:"assessment_locked_at,omitempty"`

	// diisi announcer sekali saja (conditional update)
	AssessmentAnnouncedAt *time.Time `gorm:"column:assessment_announced_at;index" json:"assessment_announced_at,omitempty"`

	AssessmentCreatedAt time.Time      `gorm:"column:assessment_created_at;autoCreateTime" json:"assessment_created_at"`
	AssessmentUpdatedAt time.Time      `gorm:"column:assessment_updated_at;autoUpdateTime" json:"assessment_updated_at"`
	AssessmentDeletedAt gorm.DeletedAt `gorm:"column:assessment_deleted_at;index" json:"assessment_deleted_at,omitempty"`
}

func (AssessmentModel) TableName() string { return "assessments" }

func (m *AssessmentModel) Components() ([]Component, error) {
	out := []Component{}
	if len(m.AssessmentComponents) == 0 {
		return out, nil
	}
	err := json.Unmarshal(m.AssessmentComponents, &out)
	return out, err
}

func (m *AssessmentModel) SetComponents(cs []Component) {
	if cs == nil {
		cs = []Component{}
	}
	b, _ := json.Marshal(cs)
	m.AssessmentComponents = datatypes.JSON(b)
}

func (m *AssessmentModel) Questions() ([]grading.Question, error) {
	out := []grading.Question{}
	if len(m.AssessmentQuestions) == 0 {
		return out, nil
	}
	err := json.Unmarshal(m.AssessmentQuestions, &out)
	return out, err
}

func (m *AssessmentModel) SetQuestions(qs []grading.Question) error {
	if qs == nil {
		qs = []grading.Question{}
	}
	b, err := json.Marshal(qs)
	if err != nil {
		return err
	}
	m.AssessmentQuestions = datatypes.JSON(b)
	return nil
}

// IsPublished: tanggal publikasi sudah lewat (nil = belum dijadwalkan).
func (m *AssessmentModel) IsPublished(now time.Time) bool {
	return m.AssessmentPublicationDate != nil && !m.AssessmentPublicationDate.After(now)
}

func (m *AssessmentModel) IsExpired(now time.Time) bool {
	return m.AssessmentExpirationDate != nil && !m.AssessmentExpirationDate.After(now)
}

// IsOpen: bisa dikerjakan peserta.
func (m *AssessmentModel) IsOpen(now time.Time) bool {
	return m.IsPublished(now) && !m.IsExpired(now)
}
