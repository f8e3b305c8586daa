package grading

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeComparer struct {
	verdict Verdict
	err     error
	calls   int
}

func (f *fakeComparer) CompareAnswers(ctx context.Context, submitted, ideal string) (Verdict, error) {
	f.calls++
	if f.err != nil {
		return Verdict{}, f.err
	}
	return f.verdict, nil
}

func textKeyPtr(s string) *Answer {
	a := TextAnswer(s)
	return &a
}

func choicesKeyPtr(cs ...string) *Answer {
	a := ChoicesAnswer(cs...)
	return &a
}

func TestGrade_EmptyQuestionsScoresZero(t *testing.T) {
	res := Grade(context.Background(), nil, map[int]Answer{0: TextAnswer("A")}, nil)

	assert.Equal(t, 0, res.TotalQuestions)
	assert.Equal(t, 0, res.CorrectCount)
	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.CorrectMap)
}

func TestGrade_OnlyFormDynamicScoresZero(t *testing.T) {
	qs := []Question{{ID: "f1", Type: QuestionTypeFormDynamic}}
	res := Grade(context.Background(), qs, map[int]Answer{0: FormAnswer(map[string]any{"a": "b"})}, nil)

	assert.Equal(t, 0, res.TotalQuestions)
	assert.Equal(t, 0, res.Score)
	require.Len(t, res.Details, 1)
	assert.Equal(t, StatusManualReview, res.Details[0].Status)
}

func TestGrade_SingleAndBooleanAreCaseSensitive(t *testing.T) {
	tests := []struct {
		name   string
		qType  QuestionType
		key    string
		answer Answer
		want   bool
		status Status
	}{
		{name: "single exact", qType: QuestionTypeSingle, key: "Paris", answer: TextAnswer("Paris"), want: true, status: StatusCorrect},
		{name: "single differs in case", qType: QuestionTypeSingle, key: "Paris", answer: TextAnswer("paris"), want: false, status: StatusWrong},
		{name: "single trailing space", qType: QuestionTypeSingle, key: "Paris", answer: TextAnswer("Paris "), want: false, status: StatusWrong},
		{name: "boolean exact", qType: QuestionTypeBoolean, key: "true", answer: TextAnswer("true"), want: true, status: StatusCorrect},
		{name: "boolean case", qType: QuestionTypeBoolean, key: "Verdadero", answer: TextAnswer("verdadero"), want: false, status: StatusWrong},
		{name: "single given list", qType: QuestionTypeSingle, key: "A", answer: ChoicesAnswer("A"), want: false, status: StatusMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := []Question{{ID: "q", Type: tt.qType, CorrectAnswer: textKeyPtr(tt.key)}}
			res := Grade(context.Background(), qs, map[int]Answer{0: tt.answer}, nil)

			assert.Equal(t, tt.want, res.CorrectMap[0])
			assert.Equal(t, tt.status, res.Details[0].Status)
			assert.Equal(t, 1, res.TotalQuestions)
		})
	}
}

func TestGrade_MultipleRequiresSetEquality(t *testing.T) {
	tests := []struct {
		name   string
		answer Answer
		want   bool
	}{
		{name: "same order", answer: ChoicesAnswer("A", "B"), want: true},
		{name: "reordered", answer: ChoicesAnswer("B", "A"), want: true},
		{name: "omission", answer: ChoicesAnswer("A"), want: false},
		{name: "extra", answer: ChoicesAnswer("A", "B", "C"), want: false},
		{name: "duplicate", answer: ChoicesAnswer("A", "A"), want: false},
		{name: "duplicate padding", answer: ChoicesAnswer("A", "B", "B"), want: false},
		{name: "string instead of list", answer: TextAnswer("A"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := []Question{{ID: "m", Type: QuestionTypeMultiple, CorrectAnswer: choicesKeyPtr("A", "B")}}
			res := Grade(context.Background(), qs, map[int]Answer{0: tt.answer}, nil)
			assert.Equal(t, tt.want, res.CorrectMap[0])
		})
	}
}

func TestGrade_InvalidShapeIsMalformed(t *testing.T) {
	qs := []Question{
		{ID: "q1", Type: QuestionTypeMultiple, CorrectAnswer: choicesKeyPtr("A")},
		{ID: "q2", Type: QuestionTypeSingle, CorrectAnswer: textKeyPtr("A")},
		{ID: "q3", Type: QuestionTypeFormDynamic},
	}
	answers := map[int]Answer{
		0: InvalidAnswer([]byte(`[1,2]`)),
		1: TextAnswer("A"),
		2: InvalidAnswer([]byte(`[{"row":1}]`)),
	}

	res := Grade(context.Background(), qs, answers, nil)

	assert.Equal(t, map[int]bool{0: false, 1: true}, res.CorrectMap)
	assert.Equal(t, StatusMalformed, res.Details[0].Status)
	assert.Equal(t, StatusManualReview, res.Details[2].Status)
	assert.Equal(t, 50, res.Score)
}

func TestGrade_UnansweredIsIncorrect(t *testing.T) {
	qs := []Question{
		{ID: "q1", Type: QuestionTypeSingle, CorrectAnswer: textKeyPtr("A")},
		{ID: "q2", Type: QuestionTypeMultiple, CorrectAnswer: choicesKeyPtr("A")},
	}
	res := Grade(context.Background(), qs, map[int]Answer{1: ChoicesAnswer()}, nil)

	assert.Equal(t, map[int]bool{0: false, 1: false}, res.CorrectMap)
	assert.Equal(t, StatusUnanswered, res.Details[0].Status)
	assert.Equal(t, StatusUnanswered, res.Details[1].Status)
	assert.Equal(t, 0, res.Score)
}

func TestGrade_MixedSubmission(t *testing.T) {
	qs := []Question{
		{ID: "q1", Type: QuestionTypeSingle, CorrectAnswer: textKeyPtr("A")},
		{ID: "q2", Type: QuestionTypeMultiple, CorrectAnswer: choicesKeyPtr("A", "C")},
		{ID: "q3", Type: QuestionTypeBoolean, CorrectAnswer: textKeyPtr("false")},
		{ID: "q4", Type: QuestionTypeFormDynamic},
		{ID: "q5", Type: QuestionTypeSingle, CorrectAnswer: textKeyPtr("D")},
	}
	answers := map[int]Answer{
		0: TextAnswer("A"),
		1: ChoicesAnswer("C", "A"),
		2: TextAnswer("true"),
		3: FormAnswer(map[string]any{"name": "x"}),
	}

	res := Grade(context.Background(), qs, answers, nil)

	assert.Equal(t, 4, res.TotalQuestions)
	assert.Equal(t, 2, res.CorrectCount)
	assert.Equal(t, 50, res.Score)
	_, hasForm := res.CorrectMap[3]
	assert.False(t, hasForm)
	assert.Len(t, res.CorrectMap, 4)
}

func TestGrade_ScoreRounding(t *testing.T) {
	assert.Equal(t, 33, ScorePercent(1, 3))
	assert.Equal(t, 67, ScorePercent(2, 3))
	assert.Equal(t, 100, ScorePercent(3, 3))
	assert.Equal(t, 0, ScorePercent(0, 0))
}

func TestGrade_OpenUsesComparer(t *testing.T) {
	qs := []Question{
		{ID: "o1", Type: QuestionTypeOpen, CorrectAnswerIA: "Water boils at 100 degrees Celsius"},
		{ID: "s1", Type: QuestionTypeSingle, CorrectAnswer: textKeyPtr("B")},
	}
	answers := map[int]Answer{0: TextAnswer("At sea level water boils at 100C"), 1: TextAnswer("B")}

	cmp := &fakeComparer{verdict: Verdict{IsCorrect: true, Reason: "equivalent"}}
	res := Grade(context.Background(), qs, answers, cmp)

	assert.Equal(t, 1, cmp.calls)
	assert.True(t, res.CorrectMap[0])
	assert.Equal(t, "equivalent", res.Details[0].Reason)
	assert.Equal(t, 100, res.Score)
}

func TestGrade_OpenComparerFailureIsNotFatal(t *testing.T) {
	qs := []Question{
		{ID: "o1", Type: QuestionTypeOpen, CorrectAnswerIA: "ideal"},
		{ID: "s1", Type: QuestionTypeSingle, CorrectAnswer: textKeyPtr("B")},
	}
	answers := map[int]Answer{0: TextAnswer("anything"), 1: TextAnswer("B")}

	cmp := &fakeComparer{err: errors.New("timeout")}
	res := Grade(context.Background(), qs, answers, cmp)

	assert.Equal(t, 1, cmp.calls)
	assert.False(t, res.CorrectMap[0])
	assert.Equal(t, StatusCompareFailed, res.Details[0].Status)
	assert.Equal(t, "timeout", res.Details[0].Reason)
	assert.Equal(t, 1, res.CorrectCount)
	assert.Equal(t, 50, res.Score)
}

func TestGrade_OpenWithoutComparer(t *testing.T) {
	qs := []Question{{ID: "o1", Type: QuestionTypeOpen, CorrectAnswerIA: "ideal"}}
	res := Grade(context.Background(), qs, map[int]Answer{0: TextAnswer("ideal")}, nil)

	assert.False(t, res.CorrectMap[0])
	assert.Equal(t, StatusCompareFailed, res.Details[0].Status)
}

func TestGrade_OpenWithoutIdealFallsBackToTextKey(t *testing.T) {
	qs := []Question{
		{ID: "o1", Type: QuestionTypeOpen, CorrectAnswer: textKeyPtr("42")},
		{ID: "o2", Type: QuestionTypeOpen},
	}
	cmp := &fakeComparer{verdict: Verdict{IsCorrect: true}}
	res := Grade(context.Background(), qs, map[int]Answer{0: TextAnswer("42"), 1: TextAnswer("x")}, cmp)

	assert.Equal(t, 0, cmp.calls)
	assert.True(t, res.CorrectMap[0])
	assert.False(t, res.CorrectMap[1])
	assert.Equal(t, StatusNoAnswerKey, res.Details[1].Status)
}
