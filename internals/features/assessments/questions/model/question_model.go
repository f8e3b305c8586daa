// file: internals/features/assessments/questions/model/question_model.go
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"trainingku_backend/internals/features/assessments/grading"
)

type QuestionModel struct {
	QuestionID        uuid.UUID      `gorm:"column:question_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"question_id"`
	QuestionBranchID  uuid.UUID      `gorm:"column:question_branch_id;type:uuid;not null;index" json:"question_branch_id"`
	QuestionBlockID   *uuid.UUID     `gorm:"column:question_block_id;type:uuid" json:"question_block_id,omitempty"`
	QuestionStatement string         `gorm:"column:question_statement;type:text;not null" json:"question_statement"`
	QuestionType      string         `gorm:"column:question_type;type:varchar(16);not null" json:"question_type"`
	QuestionOptions   pq.StringArray `gorm:"column:question_options;type:text[]" json:"question_options"`

	// string | []string | null
	QuestionCorrectAnswer   datatypes.JSON `gorm:"column:question_correct_answer;type:jsonb" json:"question_correct_answer,omitempty"`
	QuestionCorrectAnswerIA *string        `gorm:"column:question_correct_answer_ia;type:text" json:"question_correct_answer_ia,omitempty"`
	QuestionAttachment      datatypes.JSON `gorm:"column:question_attachment;type:jsonb" json:"question_attachment,omitempty"`

	QuestionCreatedAt time.Time      `gorm:"column:question_created_at;autoCreateTime" json:"question_created_at"`
	QuestionUpdatedAt time.Time      `gorm:"column:question_updated_at;autoUpdateTime" json:"question_updated_at"`
	QuestionDeletedAt gorm.DeletedAt `gorm:"column:question_deleted_at;index" json:"question_deleted_at,omitempty"`
}

func (QuestionModel) TableName() string { return "questions" }

// ToGrading membuat snapshot soal untuk disalin ke assessment/subtest.
func (m *QuestionModel) ToGrading() (grading.Question, error) {
	q := grading.Question{
		ID:        m.QuestionID.String(),
		Statement: m.QuestionStatement,
		Type:      grading.QuestionType(m.QuestionType),
		Options:   append([]string(nil), m.QuestionOptions...),
	}
	if m.QuestionBlockID != nil {
		q.BlockID = m.QuestionBlockID.String()
	}
	if m.QuestionCorrectAnswerIA != nil {
		q.CorrectAnswerIA = *m.QuestionCorrectAnswerIA
	}

	if len(m.QuestionCorrectAnswer) > 0 && string(m.QuestionCorrectAnswer) != "null" {
		var a grading.Answer
		if err := json.Unmarshal(m.QuestionCorrectAnswer, &a); err != nil {
			return q, fmt.Errorf("question %s: correct_answer rusak: %w", m.QuestionID, err)
		}
		if !a.Empty() {
			q.CorrectAnswer = &a
		}
	}

	if len(m.QuestionAttachment) > 0 && string(m.QuestionAttachment) != "null" {
		var att grading.Attachment
		if err := json.Unmarshal(m.QuestionAttachment, &att); err != nil {
			return q, fmt.Errorf("question %s: attachment rusak: %w", m.QuestionID, err)
		}
		q.Attachment = &att
	}
	return q, nil
}
