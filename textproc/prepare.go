package textproc

import "fmt"

// DefaultChunkThreshold is the structured-text length above which the text
// is chunked for embedding. Shorter profiles embed as a single chunk.
const DefaultChunkThreshold = 400

// PreparedProfile is the ephemeral output of profile preparation. Answers
// are normalized; Chunks feed the embedder and Keywords feed lexical
// retrieval. Nothing here is persisted except the answers and keywords,
// which the caller copies onto the profile record.
type PreparedProfile struct {
	Field    string
	Seeking  string
	Offering string

	// StructuredText is the labeled concatenation of the three answers,
	// the exact text the profile embedding represents.
	StructuredText string
	Chunks         []string
	Keywords       []string

	// TotalLength is the rune length of StructuredText.
	TotalLength int
}

// Preparer turns raw questionnaire answers into embedding and search
// inputs.
type Preparer struct {
	chunker   *Chunker
	keywords  *KeywordExtractor
	threshold int
}

// NewPreparer creates a preparer with the given collaborators. Nil
// collaborators and a non-positive threshold fall back to the defaults.
func NewPreparer(chunker *Chunker, keywords *KeywordExtractor, threshold int) *Preparer {
	if chunker == nil {
		chunker = NewChunker(DefaultChunkSize, DefaultChunkOverlap)
	}
	if keywords == nil {
		keywords = NewKeywordExtractor(DefaultKeywordConfig())
	}
	if threshold <= 0 {
		threshold = DefaultChunkThreshold
	}
	return &Preparer{chunker: chunker, keywords: keywords, threshold: threshold}
}

// Prepare normalizes the three answers, builds the structured text,
// chunks it when it exceeds the threshold, and extracts keywords from the
// concatenated answers.
func (p *Preparer) Prepare(field, seeking, offering string) PreparedProfile {
	field = Normalize(field)
	seeking = Normalize(seeking)
	offering = Normalize(offering)

	structured := StructuredText(field, seeking, offering)

	var chunks []string
	if runeLen(structured) > p.threshold {
		chunks = p.chunker.Chunk(structured)
	} else {
		chunks = []string{structured}
	}

	keywords := p.keywords.Extract(field + " " + seeking + " " + offering)

	return PreparedProfile{
		Field:          field,
		Seeking:        seeking,
		Offering:       offering,
		StructuredText: structured,
		Chunks:         chunks,
		Keywords:       keywords,
		TotalLength:    runeLen(structured),
	}
}

// StructuredText builds the labeled text whose embedding represents a
// profile. The labels keep the three answers distinguishable to the
// embedding model.
func StructuredText(field, seeking, offering string) string {
	return fmt.Sprintf("field: %s\nseeking: %s\noffering: %s", field, seeking, offering)
}
