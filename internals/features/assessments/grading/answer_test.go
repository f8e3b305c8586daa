package grading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswer_UnmarshalShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind AnswerKind
		text string
		list []string
	}{
		{name: "string", raw: `"A"`, kind: AnswerKindText, text: "A"},
		{name: "bool", raw: `true`, kind: AnswerKindText, text: "true"},
		{name: "number", raw: `3`, kind: AnswerKindText, text: "3"},
		{name: "list", raw: `["A","B"]`, kind: AnswerKindChoices, list: []string{"A", "B"}},
		{name: "null", raw: `null`, kind: AnswerKindNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Answer
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &a))
			assert.Equal(t, tt.kind, a.Kind)
			assert.Equal(t, tt.text, a.Text)
			assert.Equal(t, tt.list, a.Choices)
		})
	}
}

func TestAnswer_UnmarshalForm(t *testing.T) {
	var a Answer
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ana","age":{"years":30}}`), &a))

	assert.Equal(t, AnswerKindForm, a.Kind)
	assert.Equal(t, "Ana", a.Form["name"])
	assert.Contains(t, a.Form, "age")
}

func TestAnswer_UnknownShapesAreKeptAsInvalid(t *testing.T) {
	for _, in := range []string{`["A", 1]`, `[1,2]`, `[{"row":1}]`} {
		t.Run(in, func(t *testing.T) {
			var a Answer
			require.NoError(t, json.Unmarshal([]byte(in), &a))
			assert.Equal(t, AnswerKindInvalid, a.Kind)
			assert.False(t, a.Empty())

			out, err := json.Marshal(a)
			require.NoError(t, err)
			assert.JSONEq(t, in, string(out))
		})
	}
}

func TestQuestion_SnapshotRoundTrip(t *testing.T) {
	raw := `[{"id":"q1","statement":"Pick","type":"multiple","options":["A","B","C"],"correct_answer":["A","C"]},
	         {"id":"q2","statement":"Explain","type":"open","correct_answer_ia":"ideal"}]`

	var qs []Question
	require.NoError(t, json.Unmarshal([]byte(raw), &qs))
	require.Len(t, qs, 2)
	require.NotNil(t, qs[0].CorrectAnswer)
	assert.Equal(t, []string{"A", "C"}, qs[0].CorrectAnswer.Choices)
	assert.Nil(t, qs[1].CorrectAnswer)
	assert.Equal(t, 2, CountAutoGradable(qs))

	out, err := json.Marshal(qs[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"correct_answer":["A","C"]`)
}
