// file: internals/features/assessments/grades/service/grades_service.go
package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	blockModel "trainingku_backend/internals/features/assessments/blocks/model"
	blockService "trainingku_backend/internals/features/assessments/blocks/service"
	"trainingku_backend/internals/features/assessments/grades/dto"
	subtestModel "trainingku_backend/internals/features/assessments/subtests/model"
)

type SubmittedLister interface {
	ListSubmitted(ctx context.Context, userID, branchID uuid.UUID) ([]subtestModel.SubtestModel, error)
}

type BlockLister interface {
	ListByBranch(ctx context.Context, branchID uuid.UUID, activeOnly bool) ([]blockModel.BlockModel, error)
}

type GradesService struct {
	subtests SubmittedLister
	blocks   BlockLister
}

func NewGradesService(subtests SubmittedLister, blocks BlockLister) *GradesService {
	return &GradesService{subtests: subtests, blocks: blocks}
}

// Summary hanya membaca. User / branch kosong menghasilkan rekap kosong, bukan error.
func (s *GradesService) Summary(ctx context.Context, userID, branchID uuid.UUID) (dto.GradesSummary, error) {
	if userID == uuid.Nil || branchID == uuid.Nil {
		return dto.Empty(userID, branchID), nil
	}

	blocks, err := s.blocks.ListByBranch(ctx, branchID, true)
	if err != nil {
		return dto.GradesSummary{}, fmt.Errorf("list blocks: %w", err)
	}
	subtests, err := s.subtests.ListSubmitted(ctx, userID, branchID)
	if err != nil {
		return dto.GradesSummary{}, fmt.Errorf("list submitted subtests: %w", err)
	}

	sum := Summarize(blocks, subtests)
	sum.UserID, sum.BranchID = userID, branchID
	return sum, nil
}

// Summarize menghitung rata-rata per block, nilai berbobot, dan rincian tes.
// Subtest yang belum submit atau sudah di-supersede diabaikan.
func Summarize(blocks []blockModel.BlockModel, subtests []subtestModel.SubtestModel) dto.GradesSummary {
	out := dto.Empty(uuid.Nil, uuid.Nil)

	type acc struct {
		total int
		count int
	}
	perBlock := make(map[uuid.UUID]*acc, len(blocks))
	for _, b := range blocks {
		perBlock[b.BlockID] = &acc{}
	}

	for i := range subtests {
		st := &subtests[i]
		if st.Status() != subtestModel.StatusSubmitted || st.SubtestScore == nil {
			continue
		}
		if a, ok := perBlock[st.SubtestBlockID]; ok {
			a.total += *st.SubtestScore
			a.count++
		}

		correct := 0
		if st.SubtestCorrectCount != nil {
			correct = *st.SubtestCorrectCount
		}
		out.TestsDetail = append(out.TestsDetail, dto.TestDetail{
			SubtestID:      st.SubtestID,
			AssessmentID:   st.SubtestAssessmentID,
			AssessmentName: st.SubtestAssessmentName,
			BlockID:        st.SubtestBlockID,
			BlockLabel:     st.SubtestBlockLabel,
			AttemptNo:      st.SubtestAttemptNo,
			SubmittedAt:    *st.SubtestSubmittedAt,
			Score:          *st.SubtestScore,
			CorrectCount:   correct,
			TotalQuestions: st.SubtestTotalQuestions,
		})
	}

	var nota, weights float64
	for _, b := range blocks {
		a := perBlock[b.BlockID]
		avg := 0.0
		if a.count > 0 {
			avg = float64(a.total) / float64(a.count)
		}
		// pembulatan hanya untuk tampilan; nota dijumlah dari nilai mentah
		weighted := avg * b.BlockWeight / 100
		out.Blocks = append(out.Blocks, dto.BlockGrade{
			BlockID:  b.BlockID,
			Label:    b.BlockLabel,
			Weight:   b.BlockWeight,
			Average:  round2(avg),
			Weighted: round2(weighted),
			Count:    a.count,
		})
		nota += weighted
		weights += b.BlockWeight
	}

	out.NotaGlobal = round2(nota)
	out.WeightsTotal = round2(weights)
	out.WeightsComplete = blockService.WeightsComplete(out.WeightsTotal)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
