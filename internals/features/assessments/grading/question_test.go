package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestion_ValidateShape(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{name: "single ok", q: Question{Type: QuestionTypeSingle, Options: []string{"A", "B"}, CorrectAnswer: textKeyPtr("A")}},
		{name: "single key outside options", q: Question{Type: QuestionTypeSingle, Options: []string{"A", "B"}, CorrectAnswer: textKeyPtr("C")}, wantErr: true},
		{name: "single list key", q: Question{Type: QuestionTypeSingle, Options: []string{"A", "B"}, CorrectAnswer: choicesKeyPtr("A")}, wantErr: true},
		{name: "boolean default options", q: Question{Type: QuestionTypeBoolean, CorrectAnswer: textKeyPtr("false")}},
		{name: "multiple ok", q: Question{Type: QuestionTypeMultiple, Options: []string{"A", "B", "C"}, CorrectAnswer: choicesKeyPtr("A", "C")}},
		{name: "multiple duplicate key", q: Question{Type: QuestionTypeMultiple, Options: []string{"A", "B"}, CorrectAnswer: choicesKeyPtr("A", "A")}, wantErr: true},
		{name: "multiple without key", q: Question{Type: QuestionTypeMultiple, Options: []string{"A", "B"}}, wantErr: true},
		{name: "open ideal only", q: Question{Type: QuestionTypeOpen, CorrectAnswerIA: "ideal"}},
		{name: "open without any key", q: Question{Type: QuestionTypeOpen}, wantErr: true},
		{name: "form-dynamic with key", q: Question{Type: QuestionTypeFormDynamic, CorrectAnswer: textKeyPtr("x")}, wantErr: true},
		{name: "form-dynamic ok", q: Question{Type: QuestionTypeFormDynamic}},
		{name: "unknown type", q: Question{Type: "essay"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.ValidateShape()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestQuestion_BooleanGetsDefaultOptions(t *testing.T) {
	q := Question{Type: QuestionTypeBoolean, CorrectAnswer: textKeyPtr("true")}
	assert.NoError(t, q.ValidateShape())
	assert.Equal(t, []string{"true", "false"}, q.Options)
}
