// file: internals/features/assessments/blocks/model/block_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlockModel kategori penilaian per branch (mis. "Teori", "Praktik").
// Bobot aktif satu branch maksimal 100, idealnya tepat 100.
type BlockModel struct {
	BlockID       uuid.UUID `gorm:"column:block_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"block_id"`
	BlockBranchID uuid.UUID `gorm:"column:block_branch_id;type:uuid;not null;index" json:"block_branch_id"`
	BlockLabel    string    `gorm:"column:block_label;type:varchar(120);not null" json:"block_label"`
	BlockWeight   float64   `gorm:"column:block_weight;type:numeric(5,2);not null;check:block_weight > 0 AND block_weight <= 100" json:"block_weight"`
	BlockIsActive bool      `gorm:"column:block_is_active;not null;default:true" json:"block_is_active"`

	BlockCreatedAt time.Time      `gorm:"column:block_created_at;autoCreateTime" json:"block_created_at"`
	BlockUpdatedAt time.Time      `gorm:"column:block_updated_at;autoUpdateTime" json:"block_updated_at"`
	BlockDeletedAt gorm.DeletedAt `gorm:"column:block_deleted_at;index" json:"block_deleted_at,omitempty"`
}

func (BlockModel) TableName() string { return "blocks" }
