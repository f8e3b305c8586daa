package grading

import (
	"errors"
	"fmt"
)

type QuestionType string

const (
	QuestionTypeMultiple    QuestionType = "multiple"
	QuestionTypeSingle      QuestionType = "single"
	QuestionTypeOpen        QuestionType = "open"
	QuestionTypeBoolean     QuestionType = "boolean"
	QuestionTypeFormDynamic QuestionType = "form-dynamic"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMultiple, QuestionTypeSingle, QuestionTypeOpen, QuestionTypeBoolean, QuestionTypeFormDynamic:
		return true
	}
	return false
}

// AutoGradable: form-dynamic direview manual, tidak masuk penyebut skor.
func (t QuestionType) AutoGradable() bool {
	return t.Valid() && t != QuestionTypeFormDynamic
}

type Attachment struct {
	Type string `json:"type"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Question adalah snapshot soal yang dimiliki penuh oleh assessment / subtest.
// Tidak pernah menunjuk balik ke bank soal.
type Question struct {
	ID              string       `json:"id"`
	BlockID         string       `json:"block_id,omitempty"`
	Statement       string       `json:"statement"`
	Type            QuestionType `json:"type"`
	Options         []string     `json:"options,omitempty"`
	CorrectAnswer   *Answer      `json:"correct_answer,omitempty"`
	CorrectAnswerIA string       `json:"correct_answer_ia,omitempty"`
	Attachment      *Attachment  `json:"attachment,omitempty"`
}

// CountAutoGradable menghitung soal yang masuk penyebut skor.
func CountAutoGradable(questions []Question) int {
	n := 0
	for _, q := range questions {
		if q.Type.AutoGradable() {
			n++
		}
	}
	return n
}

// ValidateShape memastikan bentuk kunci jawaban cocok dengan tipe soal.
// Boolean tanpa opsi diberi opsi default "true"/"false".
func (q *Question) ValidateShape() error {
	if !q.Type.Valid() {
		return fmt.Errorf("tipe soal tidak dikenal: %q", q.Type)
	}

	switch q.Type {
	case QuestionTypeFormDynamic:
		if q.CorrectAnswer != nil || q.CorrectAnswerIA != "" {
			return errors.New("form-dynamic: correct_answer & correct_answer_ia harus kosong")
		}
		return nil

	case QuestionTypeOpen:
		if q.CorrectAnswer != nil && q.CorrectAnswer.Kind != AnswerKindText {
			return errors.New("open: correct_answer harus berupa teks")
		}
		if q.CorrectAnswer == nil && q.CorrectAnswerIA == "" {
			return errors.New("open: correct_answer_ia atau correct_answer wajib diisi")
		}
		return nil

	case QuestionTypeBoolean:
		if len(q.Options) == 0 {
			q.Options = []string{"true", "false"}
		}
		fallthrough

	case QuestionTypeSingle:
		if q.CorrectAnswerIA != "" {
			return fmt.Errorf("%s: correct_answer_ia hanya untuk soal open", q.Type)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%s: minimal 2 opsi", q.Type)
		}
		if q.CorrectAnswer == nil || q.CorrectAnswer.Kind != AnswerKindText {
			return fmt.Errorf("%s: correct_answer harus satu nilai teks", q.Type)
		}
		if !contains(q.Options, q.CorrectAnswer.Text) {
			return fmt.Errorf("%s: correct_answer tidak ada di options", q.Type)
		}
		return nil

	case QuestionTypeMultiple:
		if q.CorrectAnswerIA != "" {
			return errors.New("multiple: correct_answer_ia hanya untuk soal open")
		}
		if len(q.Options) < 2 {
			return errors.New("multiple: minimal 2 opsi")
		}
		if q.CorrectAnswer == nil || q.CorrectAnswer.Kind != AnswerKindChoices || len(q.CorrectAnswer.Choices) == 0 {
			return errors.New("multiple: correct_answer harus daftar pilihan")
		}
		seen := map[string]bool{}
		for _, c := range q.CorrectAnswer.Choices {
			if seen[c] {
				return fmt.Errorf("multiple: pilihan %q duplikat", c)
			}
			seen[c] = true
			if !contains(q.Options, c) {
				return fmt.Errorf("multiple: pilihan %q tidak ada di options", c)
			}
		}
		return nil
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
