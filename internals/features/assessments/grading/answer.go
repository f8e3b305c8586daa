package grading

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// AnswerKind membedakan bentuk jawaban: teks, daftar pilihan, atau form.
type AnswerKind string

const (
	AnswerKindNone    AnswerKind = ""
	AnswerKindText    AnswerKind = "text"
	AnswerKindChoices AnswerKind = "choices"
	AnswerKindForm    AnswerKind = "form"
	AnswerKindInvalid AnswerKind = "invalid"
)

// Answer adalah tagged union. Hanya field yang sesuai Kind yang bermakna.
type Answer struct {
	Kind    AnswerKind
	Text    string
	Choices []string
	Form    map[string]any
	Raw     json.RawMessage // hanya untuk AnswerKindInvalid
}

func TextAnswer(s string) Answer { return Answer{Kind: AnswerKindText, Text: s} }
func ChoicesAnswer(cs ...string) Answer { return Answer{Kind: AnswerKindChoices, Choices: cs} }
func FormAnswer(m map[string]any) Answer { return Answer{Kind: AnswerKindForm, Form: m} }

// Empty: jawaban tanpa isi diperlakukan sama dengan tidak menjawab.
func (a Answer) Empty() bool {
	switch a.Kind {
	case AnswerKindText:
		return a.Text == ""
	case AnswerKindChoices:
		return len(a.Choices) == 0
	case AnswerKindForm:
		return len(a.Form) == 0
	case AnswerKindInvalid:
		return false
	default:
		return true
	}
}

func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerKindText:
		return json.Marshal(a.Text)
	case AnswerKindChoices:
		if a.Choices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.Choices)
	case AnswerKindForm:
		return json.Marshal(a.Form)
	case AnswerKindInvalid:
		if len(a.Raw) == 0 {
			return []byte("null"), nil
		}
		return a.Raw, nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON menentukan Kind dari bentuk JSON:
// string/bool/number → text, array of string → choices, object → form.
// Bentuk lain (mis. array angka) tidak menggagalkan decode; disimpan sebagai
// AnswerKindInvalid agar hanya soal itu yang dinilai salah.
func (a *Answer) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*a = Answer{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*a = TextAnswer(s)
			return nil
		}
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(b, &v); err == nil {
			*a = TextAnswer(strconv.FormatBool(v))
			return nil
		}
	case '[':
		var cs []string
		if err := json.Unmarshal(b, &cs); err == nil {
			*a = ChoicesAnswer(cs...)
			return nil
		}
	case '{':
		var m map[string]any
		if err := json.Unmarshal(b, &m); err == nil {
			*a = FormAnswer(m)
			return nil
		}
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err == nil {
			*a = TextAnswer(n.String())
			return nil
		}
	}

	if !json.Valid(b) {
		return fmt.Errorf("jawaban bukan JSON valid: %s", string(b))
	}
	*a = InvalidAnswer(b)
	return nil
}

// InvalidAnswer menyimpan bentuk jawaban yang tidak dikenali apa adanya.
func InvalidAnswer(raw []byte) Answer {
	return Answer{Kind: AnswerKindInvalid, Raw: append(json.RawMessage(nil), raw...)}
}

// sameSet: sama persis sebagai himpunan. Duplikat di salah satu sisi dianggap tidak sama.
func sameSet(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	g := append([]string(nil), got...)
	w := append([]string(nil), want...)
	sort.Strings(g)
	sort.Strings(w)
	for i := range g {
		if i > 0 && g[i] == g[i-1] {
			return false
		}
		if g[i] != w[i] {
			return false
		}
	}
	return true
}
