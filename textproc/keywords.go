package textproc

import (
	"sort"
	"strings"
	"unicode"
)

// Keyword extraction defaults. The reference deployment serves a
// Russian-speaking community, so the default alphabet is Cyrillic and the
// stop-word list is Russian. Both are configurable through KeywordConfig.
const (
	// DefaultMaxKeywords caps the number of keywords per profile.
	DefaultMaxKeywords = 10

	// minKeywordRunes is the shortest letter run considered a word at all;
	// words must additionally be longer than minKeywordRunes to survive the
	// final filter.
	minKeywordRunes = 3
)

// defaultStopWords are common Russian function words and auxiliaries that
// carry no matching signal.
var defaultStopWords = map[string]struct{}{
	"это": {}, "что": {}, "как": {}, "для": {}, "или": {}, "при": {},
	"все": {}, "еще": {}, "уже": {}, "где": {}, "кто": {}, "чем": {},
	"том": {}, "тем": {}, "так": {}, "был": {}, "была": {}, "было": {},
	"есть": {}, "быть": {}, "мне": {}, "нас": {}, "вас": {}, "них": {},
	"его": {}, "её": {}, "их": {}, "могу": {}, "можем": {}, "можете": {},
	"могут": {}, "хочу": {}, "хотим": {}, "хотите": {}, "хотят": {},
}

// KeywordConfig controls keyword extraction.
type KeywordConfig struct {
	// Alphabet reports whether a rune belongs to the keyword alphabet.
	// Words containing any rune outside the alphabet are skipped entirely.
	Alphabet func(r rune) bool

	// StopWords are dropped after tokenization.
	StopWords map[string]struct{}

	// MaxKeywords caps the result length.
	MaxKeywords int
}

// DefaultKeywordConfig returns the Cyrillic/Russian defaults.
func DefaultKeywordConfig() KeywordConfig {
	return KeywordConfig{
		Alphabet:    func(r rune) bool { return unicode.Is(unicode.Cyrillic, r) },
		StopWords:   defaultStopWords,
		MaxKeywords: DefaultMaxKeywords,
	}
}

// KeywordExtractor extracts frequency-ranked keywords from text.
// Extraction is deterministic: equal frequencies preserve first-seen order.
type KeywordExtractor struct {
	cfg KeywordConfig
}

// NewKeywordExtractor creates an extractor. Zero-value config fields fall
// back to the defaults.
func NewKeywordExtractor(cfg KeywordConfig) *KeywordExtractor {
	def := DefaultKeywordConfig()
	if cfg.Alphabet == nil {
		cfg.Alphabet = def.Alphabet
	}
	if cfg.StopWords == nil {
		cfg.StopWords = def.StopWords
	}
	if cfg.MaxKeywords <= 0 {
		cfg.MaxKeywords = def.MaxKeywords
	}
	return &KeywordExtractor{cfg: cfg}
}

// ExtractKeywords extracts keywords with the default configuration.
func ExtractKeywords(text string) []string {
	return NewKeywordExtractor(DefaultKeywordConfig()).Extract(text)
}

// Extract lower-cases the text, tokenizes it into maximal word-character
// runs, keeps runs made entirely of alphabet runes that are long enough,
// drops stop words, and returns up to MaxKeywords words ordered by
// descending frequency.
func (e *KeywordExtractor) Extract(text string) []string {
	if text == "" {
		return nil
	}

	counts := make(map[string]int)
	var order []string

	for _, word := range splitWords(strings.ToLower(text)) {
		n := 0
		inAlphabet := true
		for _, r := range word {
			n++
			if !e.cfg.Alphabet(r) {
				inAlphabet = false
			}
		}
		// Strictly longer than the run minimum: three-letter words are
		// tokenized but never kept.
		if !inAlphabet || n <= minKeywordRunes {
			continue
		}
		if _, stop := e.cfg.StopWords[word]; stop {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > e.cfg.MaxKeywords {
		order = order[:e.cfg.MaxKeywords]
	}
	return order
}

// splitWords returns the maximal runs of word characters (letters, digits,
// underscore) in text.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
