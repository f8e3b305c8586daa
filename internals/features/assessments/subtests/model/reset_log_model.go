package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ResetAttachment struct {
	URL         string `json:"url" bson:"url"`
	Key         string `json:"key" bson:"key"`
	Name        string `json:"name" bson:"name"`
	Type        string `json:"type" bson:"type"`
	ContentType string `json:"content_type" bson:"content_type"`
}

// ResetLog: jejak audit reset subtest oleh trainer/admin.
type ResetLog struct {
	ID            uuid.UUID         `json:"id"`
	SubtestID     uuid.UUID         `json:"subtest_id"`
	NewSubtestID  uuid.UUID         `json:"new_subtest_id"`
	AssessmentID  uuid.UUID         `json:"assessment_id"`
	BranchID      uuid.UUID         `json:"branch_id"`
	UserID        uuid.UUID         `json:"user_id"`
	Reason        string            `json:"reason"`
	Attachments   []ResetAttachment `json:"attachments"`
	PreviousScore *int              `json:"previous_score,omitempty"`
	ActorID       uuid.UUID         `json:"actor_id"`
	At            time.Time         `json:"at"`
}

// ResetLogModel dipakai kalau MongoDB tidak dikonfigurasi.
type ResetLogModel struct {
	ResetLogID            uuid.UUID      `gorm:"column:reset_log_id;type:uuid;primaryKey" json:"reset_log_id"`
	ResetLogSubtestID     uuid.UUID      `gorm:"column:reset_log_subtest_id;type:uuid;not null;index" json:"reset_log_subtest_id"`
	ResetLogNewSubtestID  uuid.UUID      `gorm:"column:reset_log_new_subtest_id;type:uuid;not null;index" json:"reset_log_new_subtest_id"`
	ResetLogAssessmentID  uuid.UUID      `gorm:"column:reset_log_assessment_id;type:uuid;not null" json:"reset_log_assessment_id"`
	ResetLogBranchID      uuid.UUID      `gorm:"column:reset_log_branch_id;type:uuid;not null" json:"reset_log_branch_id"`
	ResetLogUserID        uuid.UUID      `gorm:"column:reset_log_user_id;type:uuid;not null" json:"reset_log_user_id"`
	ResetLogReason        string         `gorm:"column:reset_log_reason;type:text;not null" json:"reset_log_reason"`
	ResetLogAttachments   datatypes.JSON `gorm:"column:reset_log_attachments;type:jsonb;not null;default:'[]'" json:"reset_log_attachments"`
	ResetLogPreviousScore *int           `gorm:"column:reset_log_previous_score" json:"reset_log_previous_score,omitempty"`
	ResetLogActorID       uuid.UUID      `gorm:"column:reset_log_actor_id;type:uuid;not null" json:"reset_log_actor_id"`
	ResetLogAt            time.Time      `gorm:"column:reset_log_at;not null" json:"reset_log_at"`
}

func (ResetLogModel) TableName() string { return "subtest_reset_logs" }
