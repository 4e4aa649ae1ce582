package match

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid json untouched",
			input: `{"matches":[{"candidate_index":1,"match_score":7,"reason":"ok"}]}`,
			want:  `{"matches":[{"candidate_index":1,"match_score":7,"reason":"ok"}]}`,
		},
		{
			name:  "missing opening quote after brace",
			input: `{matches": []}`,
			want:  `{"matches": []}`,
		},
		{
			name:  "missing opening quote after comma",
			input: `{"candidate_index": 1, reason": "fit"}`,
			want:  `{"candidate_index": 1, "reason": "fit"}`,
		},
		{
			name:  "plain text untouched",
			input: "no json here",
			want:  "no json here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.input))
		})
	}
}

func TestRepairJSON_ResultParses(t *testing.T) {
	repaired := repairJSON(`{"matches":[{candidate_index": 2, match_score": 6, reason": "близкая сфера"}]}`)

	var out ranking
	assert.NoError(t, json.Unmarshal([]byte(repaired), &out))
	assert.Len(t, out.Matches, 1)
	assert.Equal(t, 2, out.Matches[0].CandidateIndex)
}
