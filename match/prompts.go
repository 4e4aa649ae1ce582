package match

import (
	"fmt"
	"strings"

	"github.com/poiesic/commatch/core"
)

const rankingResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "matches": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "candidate_index": {
            "type": "integer",
            "minimum": 1
          },
          "match_score": {
            "type": "number",
            "minimum": 1,
            "maximum": 10
          },
          "reason": {
            "type": "string"
          }
        },
        "required": ["candidate_index", "match_score", "reason"],
        "additionalProperties": false
      }
    }
  },
  "required": ["matches"],
  "additionalProperties": false
}`

const rankingPromptTemplate = `You match members of a professional community. Given one member's profile
and a numbered list of candidate profiles, select the candidates most useful for this
member to meet and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening brace {
and end with the closing brace }. Your output must exactly follow this schema:

%s

Rules:
- candidate_index refers to the candidate numbering in the request, starting at 1.
- Return at most %d matches, best first.
- match_score is a number from 1 (weak fit) to 10 (excellent fit). Judge by overlap between
  what the member is seeking and what the candidate is offering, and the reverse.
- reason is one or two sentences addressed to the member, written in the language of the
  member's profile, explaining concretely why this candidate is worth contacting.
- Never invent candidates. Only indices from the request may appear.
- If no candidate is a reasonable fit, return "matches": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous
  text outside the object.`

const summaryPromptTemplate = `You match members of a professional community. The member below has just
received a list of suggested contacts. Write a short friendly summary (2-4 sentences, in the
language of the member's profile) of why these people were picked for them. Address the member
directly. Output plain text only, no lists and no JSON.`

// buildRankingSystemPrompt creates the ranking system prompt with the
// response schema and result cap embedded.
func buildRankingSystemPrompt(topK int) string {
	return fmt.Sprintf(rankingPromptTemplate, rankingResponseSchema, topK)
}

// buildRankingUserPrompt renders the requester's profile followed by the
// 1-indexed candidate list.
func buildRankingUserPrompt(profile *core.Profile, candidates []*core.Candidate) string {
	var b strings.Builder
	b.WriteString("Member profile:\n")
	writeProfile(&b, profile)
	b.WriteString("\nCandidates:\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "\nCandidate %d:\n", i+1)
		writeProfile(&b, c.Profile)
	}
	return b.String()
}

func buildSummaryUserPrompt(profile *core.Profile, matches []core.Match) string {
	var b strings.Builder
	b.WriteString("Member profile:\n")
	writeProfile(&b, profile)
	b.WriteString("\nSuggested contacts:\n")
	for _, m := range matches {
		fmt.Fprintf(&b, "\n%s (score %.0f): %s\n", m.Profile.DisplayName(), m.Score, m.Reason)
		writeProfile(&b, m.Profile)
	}
	return b.String()
}

func writeProfile(b *strings.Builder, p *core.Profile) {
	fmt.Fprintf(b, "field: %s\nseeking: %s\noffering: %s\n", p.Field, p.Seeking, p.Offering)
}
