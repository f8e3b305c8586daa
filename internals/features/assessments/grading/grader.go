package grading

import (
	"context"
	"errors"
	"log"
	"math"
)

// Verdict hasil pembanding semantik untuk soal open.
type Verdict struct {
	IsCorrect bool   `json:"is_correct"`
	Reason    string `json:"reason"`
}

// Comparer membandingkan jawaban bebas dengan jawaban ideal.
type Comparer interface {
	CompareAnswers(ctx context.Context, submitted, ideal string) (Verdict, error)
}

var ErrComparerUnavailable = errors.New("pembanding semantik tidak dikonfigurasi")

type Status string

const (
	StatusCorrect       Status = "correct"
	StatusWrong         Status = "wrong"
	StatusUnanswered    Status = "unanswered"
	StatusMalformed     Status = "malformed"
	StatusNoAnswerKey   Status = "no_answer_key"
	StatusCompareFailed Status = "compare_failed"
	StatusManualReview  Status = "manual_review"
)

type QuestionResult struct {
	Index      int          `json:"index"`
	QuestionID string       `json:"question_id,omitempty"`
	Type       QuestionType `json:"type"`
	Status     Status       `json:"status"`
	IsCorrect  bool         `json:"is_correct"`
	Reason     string       `json:"reason,omitempty"`
}

// Graded: false untuk soal yang tidak ikut penyebut (form-dynamic / tipe asing).
func (r QuestionResult) Graded() bool { return r.Status != StatusManualReview }

type Result struct {
	CorrectMap     map[int]bool     `json:"correct_map"`
	CorrectCount   int              `json:"correct_count"`
	TotalQuestions int              `json:"total_questions"`
	Score          int              `json:"score"`
	Details        []QuestionResult `json:"details"`
}

// Grade menilai satu submission. Deterministik untuk semua tipe kecuali open,
// yang bergantung pada cmp. Kegagalan cmp tidak pernah menggagalkan keseluruhan.
func Grade(ctx context.Context, questions []Question, answers map[int]Answer, cmp Comparer) Result {
	res := Result{
		CorrectMap: make(map[int]bool, len(questions)),
		Details:    make([]QuestionResult, 0, len(questions)),
	}

	for i, q := range questions {
		ans, answered := answers[i]
		qr := gradeOne(ctx, q, ans, answered && !ans.Empty(), cmp)
		qr.Index = i
		qr.QuestionID = q.ID
		qr.Type = q.Type
		res.Details = append(res.Details, qr)

		if !qr.Graded() {
			continue
		}
		res.TotalQuestions++
		res.CorrectMap[i] = qr.IsCorrect
		if qr.IsCorrect {
			res.CorrectCount++
		}
	}

	res.Score = ScorePercent(res.CorrectCount, res.TotalQuestions)
	return res
}

// ScorePercent = round(correct/total*100); 0 kalau total 0.
func ScorePercent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

func gradeOne(ctx context.Context, q Question, ans Answer, answered bool, cmp Comparer) QuestionResult {
	if !q.Type.AutoGradable() {
		return QuestionResult{Status: StatusManualReview}
	}
	if !answered {
		return QuestionResult{Status: StatusUnanswered}
	}
	if ans.Kind == AnswerKindInvalid {
		return QuestionResult{Status: StatusMalformed, Reason: "bentuk jawaban tidak dikenali"}
	}

	switch q.Type {
	case QuestionTypeSingle, QuestionTypeBoolean:
		if ans.Kind != AnswerKindText {
			return QuestionResult{Status: StatusMalformed, Reason: "jawaban harus berupa teks"}
		}
		key, ok := textKey(q.CorrectAnswer)
		if !ok {
			return QuestionResult{Status: StatusNoAnswerKey}
		}
		return verdict(ans.Text == key)

	case QuestionTypeMultiple:
		if ans.Kind != AnswerKindChoices {
			return QuestionResult{Status: StatusMalformed, Reason: "jawaban harus berupa daftar pilihan"}
		}
		key, ok := choicesKey(q.CorrectAnswer)
		if !ok {
			return QuestionResult{Status: StatusNoAnswerKey}
		}
		return verdict(sameSet(ans.Choices, key))

	case QuestionTypeOpen:
		if ans.Kind != AnswerKindText {
			return QuestionResult{Status: StatusMalformed, Reason: "jawaban harus berupa teks"}
		}
		return gradeOpen(ctx, q, ans.Text, cmp)
	}

	return QuestionResult{Status: StatusManualReview}
}

func gradeOpen(ctx context.Context, q Question, text string, cmp Comparer) QuestionResult {
	if q.CorrectAnswerIA == "" {
		// tanpa jawaban ideal: fallback ke kunci teks biasa kalau ada
		key, ok := textKey(q.CorrectAnswer)
		if !ok {
			return QuestionResult{Status: StatusNoAnswerKey}
		}
		return verdict(text == key)
	}

	if cmp == nil {
		return QuestionResult{Status: StatusCompareFailed, Reason: ErrComparerUnavailable.Error()}
	}

	v, err := cmp.CompareAnswers(ctx, text, q.CorrectAnswerIA)
	if err != nil {
		log.Printf("[Grading] compare gagal question_id=%s: %v", q.ID, err)
		return QuestionResult{Status: StatusCompareFailed, Reason: err.Error()}
	}

	qr := verdict(v.IsCorrect)
	qr.Reason = v.Reason
	return qr
}

func verdict(ok bool) QuestionResult {
	if ok {
		return QuestionResult{Status: StatusCorrect, IsCorrect: true}
	}
	return QuestionResult{Status: StatusWrong}
}

func textKey(a *Answer) (string, bool) {
	if a == nil || a.Kind != AnswerKindText {
		return "", false
	}
	return a.Text, true
}

func choicesKey(a *Answer) ([]string, bool) {
	if a == nil {
		return nil, false
	}
	switch a.Kind {
	case AnswerKindChoices:
		if len(a.Choices) == 0 {
			return nil, false
		}
		return a.Choices, true
	case AnswerKindText:
		if a.Text == "" {
			return nil, false
		}
		return []string{a.Text}, true
	}
	return nil, false
}
