package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentBot-AI/internal/domain/priorart"
)

func TestDecodeCandidates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []priorart.Candidate
	}{
		{
			name: "bare array",
			text: `[{"number":"US1","title":"Widget","abstract":"A widget","date":"2020-01-01","assignee":"Acme"}]`,
			want: []priorart.Candidate{{Number: "US1", Title: "Widget", Abstract: "A widget", Date: "2020-01-01", Assignee: "Acme"}},
		},
		{
			name: "prose and code fence",
			text: "Here are the closest patents:\n```json\n[{\"number\":\"US2\",\"title\":\"Gadget\"}]\n```\nLet me know if you need more.",
			want: []priorart.Candidate{{Number: "US2", Title: "Gadget"}},
		},
		{
			name: "citation markers before the array",
			text: "Based on sources [1][2], results: [{\"number\":\"EP3\",\"title\":\"Sensor [array] layout\"}]",
			want: []priorart.Candidate{{Number: "EP3", Title: "Sensor [array] layout"}},
		},
		{
			name: "alternate keys and coercion",
			text: `[{"patent_number":1234567,"title":"Numbered","summary":"S","publication_date":null,"organization":["A Corp","B Ltd"]}]`,
			want: []priorart.Candidate{{Number: "1234567", Title: "Numbered", Abstract: "S", Assignee: "A Corp, B Ltd"}},
		},
		{
			name: "escaped quotes inside strings",
			text: `[{"number":"US4","title":"The \"best\" ] bracket"}]`,
			want: []priorart.Candidate{{Number: "US4", Title: `The "best" ] bracket`}},
		},
		{
			name: "entries without number and title dropped",
			text: `[{"abstract":"orphan"},{"title":"Kept"}]`,
			want: []priorart.Candidate{{Title: "Kept"}},
		},
		{
			name: "wrapped in an object",
			text: `{"patents":[{"publication_number":"WO5","title":"Wrapped"}]}`,
			want: []priorart.Candidate{{Number: "WO5", Title: "Wrapped"}},
		},
		{
			name: "empty array",
			text: "No relevant patents found: []",
			want: []priorart.Candidate{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCandidates(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCandidates_Unparseable(t *testing.T) {
	for _, text := range []string{
		"",
		"I could not find any patents.",
		"see [1] and [2]",
		`[{"number":"US1", "title": "truncated`,
	} {
		_, err := DecodeCandidates(text)
		assert.ErrorIs(t, err, ErrUnparseable, "input %q", text)
	}
}
