package textproc

import (
	"regexp"
	"strings"
)

// Chunking defaults, sized for sentence-level embedding models.
const (
	DefaultChunkSize    = 1200
	DefaultChunkOverlap = 150
)

var sentenceTerminators = regexp.MustCompile(`[.!?]+\s*`)

// Chunker splits text into overlapping chunks aligned to sentence
// boundaries. Sizes are measured in runes. The zero value is not usable;
// use NewChunker.
type Chunker struct {
	maxSize int
	overlap int
}

// NewChunker creates a chunker. Non-positive arguments fall back to the
// defaults.
func NewChunker(maxSize, overlap int) *Chunker {
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}
	if overlap <= 0 {
		overlap = DefaultChunkOverlap
	}
	return &Chunker{maxSize: maxSize, overlap: overlap}
}

// Chunk splits text into chunks of at most the configured size. Text that
// already fits is returned as a single chunk. Longer text is split into
// sentences which are greedily packed; when a chunk fills up, the next one
// is seeded with the tail of the previous chunk so neighboring chunks
// share context. A single sentence longer than the chunk size is split on
// word boundaries without overlap.
func (c *Chunker) Chunk(text string) []string {
	if text == "" {
		return nil
	}
	if runeLen(text) <= c.maxSize {
		return []string{text}
	}

	var chunks []string
	var current string

	for _, sentence := range SplitSentences(text) {
		if runeLen(current)+runeLen(sentence) > c.maxSize {
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
				current = c.tail(current) + " " + sentence
				continue
			}
			if runeLen(sentence) > c.maxSize {
				pieces, rest := c.splitLongSentence(sentence)
				chunks = append(chunks, pieces...)
				current = rest
				continue
			}
			current = sentence
			continue
		}
		if current == "" {
			current = sentence
		} else {
			current += " " + sentence
		}
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}

// SplitSentences splits text on runs of terminal punctuation. The
// terminators are dropped and empty fragments discarded.
func SplitSentences(text string) []string {
	parts := sentenceTerminators.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// tail returns the trailing overlap runes of a chunk.
func (c *Chunker) tail(chunk string) string {
	runes := []rune(chunk)
	if len(runes) <= c.overlap {
		return chunk
	}
	return string(runes[len(runes)-c.overlap:])
}

// splitLongSentence word-splits a sentence that cannot fit in one chunk.
// It returns the full chunks plus the unfinished remainder.
func (c *Chunker) splitLongSentence(sentence string) (chunks []string, rest string) {
	var current string
	for _, word := range strings.Fields(sentence) {
		if runeLen(current)+runeLen(word)+1 > c.maxSize {
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
			}
			current = word
			continue
		}
		if current == "" {
			current = word
		} else {
			current += " " + word
		}
	}
	return chunks, current
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
