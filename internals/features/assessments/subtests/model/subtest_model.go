// file: internals/features/assessments/subtests/model/subtest_model.go
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"trainingku_backend/internals/features/assessments/grading"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusSubmitted  Status = "submitted"
	StatusSuperseded Status = "superseded"
)

// SubtestModel: satu block dari satu assessment untuk satu peserta.
// Tidak punya soft delete; riwayat dipertahankan lewat superseded_at.
type SubtestModel struct {
	SubtestID           uuid.UUID `gorm:"column:subtest_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"subtest_id"`
	SubtestAssessmentID uuid.UUID `gorm:"column:subtest_assessment_id;type:uuid;not null;uniqueIndex:uq_subtests_live,where:subtest_superseded_at IS NULL" json:"subtest_assessment_id"`
	SubtestUserID       uuid.UUID `gorm:"column:subtest_user_id;type:uuid;not null;uniqueIndex:uq_subtests_live;index:idx_subtests_user_branch" json:"subtest_user_id"`
	SubtestBlockID      uuid.UUID `gorm:"column:subtest_block_id;type:uuid;not null;uniqueIndex:uq_subtests_live" json:"subtest_block_id"`
	SubtestBranchID     uuid.UUID `gorm:"column:subtest_branch_id;type:uuid;not null;index:idx_subtests_user_branch" json:"subtest_branch_id"`

	// snapshot nama; tetap terbaca walau assessment / block dihapus
	SubtestAssessmentName string `gorm:"column:subtest_assessment_name;type:varchar(200);not null" json:"subtest_assessment_name"`
	SubtestBlockLabel     string `gorm:"column:subtest_block_label;type:varchar(120);not null" json:"subtest_block_label"`

	SubtestAttemptNo      int            `gorm:"column:subtest_attempt_no;not null;default:1" json:"subtest_attempt_no"`
	SubtestQuestions      datatypes.JSON `gorm:"column:subtest_questions;type:jsonb;not null;default:'[]'" json:"subtest_questions"`
	SubtestTotalQuestions int            `gorm:"column:subtest_total_questions;not null;default:0" json:"subtest_total_questions"`

	SubtestSubmittedAt    *time.Time     `gorm:"column:subtest_submitted_at" json:"subtest_submitted_at,omitempty"`
	SubtestAnswers        datatypes.JSON `gorm:"column:subtest_answers;type:jsonb" json:"subtest_answers,omitempty"`
	SubtestScore          *int           `gorm:"column:subtest_score" json:"subtest_score,omitempty"`
	SubtestCorrectCount   *int           `gorm:"column:subtest_correct_count" json:"subtest_correct_count,omitempty"`
	SubtestCorrectMap     datatypes.JSON `gorm:"column:subtest_correct_map;type:jsonb" json:"subtest_correct_map,omitempty"`
	SubtestGradingDetails datatypes.JSON `gorm:"column:subtest_grading_details;type:jsonb" json:"subtest_grading_details,omitempty"`

	SubtestSupersededAt *time.Time `gorm:"column:subtest_superseded_at" json:"subtest_superseded_at,omitempty"`
	SubtestSupersededBy *uuid.UUID `gorm:"column:subtest_superseded_by;type:uuid" json:"subtest_superseded_by,omitempty"`

	SubtestCreatedAt time.Time `gorm:"column:subtest_created_at;autoCreateTime" json:"subtest_created_at"`
	SubtestUpdatedAt time.Time `gorm:"column:subtest_updated_at;autoUpdateTime" json:"subtest_updated_at"`
}

func (SubtestModel) TableName() string { return "subtests" }

func (m *SubtestModel) IsSubmitted() bool { return m.SubtestSubmittedAt != nil }
func (m *SubtestModel) IsSuperseded() bool { return m.SubtestSupersededAt != nil }

func (m *SubtestModel) Status() Status {
	switch {
	case m.IsSuperseded():
		return StatusSuperseded
	case m.IsSubmitted():
		return StatusSubmitted
	}
	return StatusPending
}

func (m *SubtestModel) Questions() ([]grading.Question, error) {
	var out []grading.Question
	if len(m.SubtestQuestions) == 0 {
		return out, nil
	}
	err := json.Unmarshal(m.SubtestQuestions, &out)
	return out, err
}

func (m *SubtestModel) SetQuestions(qs []grading.Question) error {
	if qs == nil {
		qs = []grading.Question{}
	}
	b, err := json.Marshal(qs)
	if err != nil {
		return err
	}
	m.SubtestQuestions = datatypes.JSON(b)
	m.SubtestTotalQuestions = grading.CountAutoGradable(qs)
	return nil
}

// Submission: hasil grading yang ditulis sekali saja.
type Submission struct {
	SubmittedAt time.Time
	Answers     datatypes.JSON
	Score       int
	Correct     int
	Total       int
	CorrectMap  datatypes.JSON
	Details     datatypes.JSON
}

// NewSubmission membungkus hasil grading jadi kolom JSONB.
func NewSubmission(at time.Time, answers map[int]grading.Answer, res grading.Result) (Submission, error) {
	ans, err := json.Marshal(answers)
	if err != nil {
		return Submission{}, err
	}
	cm, err := json.Marshal(res.CorrectMap)
	if err != nil {
		return Submission{}, err
	}
	det, err := json.Marshal(res.Details)
	if err != nil {
		return Submission{}, err
	}
	return Submission{
		SubmittedAt: at,
		Answers:     datatypes.JSON(ans),
		Score:       res.Score,
		Correct:     res.CorrectCount,
		Total:       res.TotalQuestions,
		CorrectMap:  datatypes.JSON(cm),
		Details:     datatypes.JSON(det),
	}, nil
}

// Apply menyalin hasil submission ke model (setelah conditional write menang).
func (s Submission) Apply(m *SubtestModel) {
	at := s.SubmittedAt
	score, correct := s.Score, s.Correct
	m.SubtestSubmittedAt = &at
	m.SubtestAnswers = s.Answers
	m.SubtestScore = &score
	m.SubtestCorrectCount = &correct
	m.SubtestTotalQuestions = s.Total
	m.SubtestCorrectMap = s.CorrectMap
	m.SubtestGradingDetails = s.Details
}
