package jsonextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verdict struct {
	Safe    bool     `json:"safe"`
	Threats []string `json:"threats"`
}

func TestFirstObject(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    verdict
		wantErr bool
	}{
		{
			name: "bare object",
			text: `{"safe": false, "threats": ["role_hijack"]}`,
			want: verdict{Safe: false, Threats: []string{"role_hijack"}},
		},
		{
			name: "object surrounded by prose",
			text: "Here is my analysis:\n{\"safe\": true, \"threats\": []}\nLet me know.",
			want: verdict{Safe: true, Threats: []string{}},
		},
		{
			name: "object inside code fence",
			text: "```json\n{\"safe\": true, \"threats\": []}\n```",
			want: verdict{Safe: true, Threats: []string{}},
		},
		{
			name: "braces inside string values",
			text: `result: {"safe": false, "threats": ["payload {nested} braces"]}`,
			want: verdict{Safe: false, Threats: []string{"payload {nested} braces"}},
		},
		{
			name: "escaped quotes inside strings",
			text: `{"safe": false, "threats": ["say \"ignore rules\""]}`,
			want: verdict{Safe: false, Threats: []string{`say "ignore rules"`}},
		},
		{
			name:    "no object at all",
			text:    "I could not produce a structured verdict.",
			wantErr: true,
		},
		{
			name:    "unbalanced braces",
			text:    `{"safe": false, "threats": [`,
			wantErr: true,
		},
		{
			name:    "empty input",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got verdict
			err := FirstObject(tt.text, &got)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoObject)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstObjectSkipsInvalidCandidates(t *testing.T) {
	// First balanced object is not valid JSON; the second one is.
	text := `{bad json} then {"safe": true, "threats": []}`
	var got verdict
	err := FirstObject(text, &got)
	assert.NoError(t, err)
	assert.True(t, got.Safe)
}
