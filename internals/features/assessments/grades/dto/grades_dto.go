package dto

import (
	"time"

	"github.com/google/uuid"
)

type BlockGrade struct {
	BlockID  uuid.UUID `json:"block_id"`
	Label    string    `json:"label"`
	Weight   float64   `json:"weight"`
	Average  float64   `json:"average"`
	Weighted float64   `json:"weighted"`
	Count    int       `json:"count"`
}

type TestDetail struct {
	SubtestID      uuid.UUID `json:"subtest_id"`
	AssessmentID   uuid.UUID `json:"assessment_id"`
	AssessmentName string    `json:"assessment_name"`
	BlockID        uuid.UUID `json:"block_id"`
	BlockLabel     string    `json:"block_label"`
	AttemptNo      int       `json:"attempt_no"`
	SubmittedAt    time.Time `json:"submitted_at"`
	Score          int       `json:"score"`
	CorrectCount   int       `json:"correct_count"`
	TotalQuestions int       `json:"total_questions"`
}

// GradesSummary rekap nilai satu peserta di satu branch.
// NotaGlobal = jumlah weighted, tidak dinormalisasi walau bobot belum 100.
type GradesSummary struct {
	UserID          uuid.UUID    `json:"user_id"`
	BranchID        uuid.UUID    `json:"branch_id"`
	Blocks          []BlockGrade `json:"blocks"`
	NotaGlobal      float64      `json:"nota_global"`
	WeightsTotal    float64      `json:"weights_total"`
	WeightsComplete bool         `json:"weights_complete"`
	TestsDetail     []TestDetail `json:"tests_detail"`
}

func Empty(userID, branchID uuid.UUID) GradesSummary {
	return GradesSummary{
		UserID:      userID,
		BranchID:    branchID,
		Blocks:      []BlockGrade{},
		TestsDetail: []TestDetail{},
	}
}
