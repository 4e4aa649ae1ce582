package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunker_ShortTextSingleChunk(t *testing.T) {
	c := NewChunker(DefaultChunkSize, DefaultChunkOverlap)

	text := "Занимаюсь дизайном продуктов. Ищу единомышленников."
	got := c.Chunk(text)

	require.Len(t, got, 1)
	assert.Equal(t, text, got[0])
}

func TestChunker_EmptyText(t *testing.T) {
	c := NewChunker(DefaultChunkSize, DefaultChunkOverlap)
	assert.Nil(t, c.Chunk(""))
}

func TestChunker_OverlapSeedsNextChunk(t *testing.T) {
	c := NewChunker(20, 5)

	got := c.Chunk("one two three. four five six. seven eight nine.")

	assert.Equal(t, []string{
		"one two three",
		"three four five six",
		"e six seven eight nine",
	}, got)
}

func TestChunker_EverySentenceCovered(t *testing.T) {
	sentences := []string{
		"первое предложение о дизайне",
		"второе предложение о запуске продукта",
		"третье предложение о поиске команды",
		"четвертое предложение о менторстве",
	}
	text := strings.Join(sentences, ". ") + "."

	c := NewChunker(60, 15)
	chunks := c.Chunk(text)
	require.Greater(t, len(chunks), 1)

	for _, s := range sentences {
		found := false
		for _, chunk := range chunks {
			if strings.Contains(chunk, s) {
				found = true
				break
			}
		}
		assert.True(t, found, "sentence %q missing from all chunks", s)
	}
}

func TestChunker_TotalLengthBound(t *testing.T) {
	text := strings.Repeat("одно предложение про помощь сообществу. ", 20)

	overlap := 15
	c := NewChunker(80, overlap)
	chunks := c.Chunk(text)
	require.NotEmpty(t, chunks)

	total := 0
	for _, chunk := range chunks {
		total += len([]rune(chunk))
	}
	// Each chunk beyond the first may repeat at most overlap runes plus a
	// joining space.
	limit := len([]rune(text)) + (len(chunks)-1)*(overlap+1)
	assert.LessOrEqual(t, total, limit)
}

func TestChunker_OversizedSentenceWordSplit(t *testing.T) {
	// No terminal punctuation, so the whole text is one sentence.
	text := strings.TrimSpace(strings.Repeat("слово ", 40))

	c := NewChunker(50, 10)
	chunks := c.Chunk(text)
	require.Greater(t, len(chunks), 1)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 50)
	}
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(chunks, " ")))
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "terminators dropped",
			in:   "Первое. Второе! Третье?",
			want: []string{"Первое", "Второе", "Третье"},
		},
		{
			name: "terminator runs collapse",
			in:   "Что?! Правда...",
			want: []string{"Что", "Правда"},
		},
		{
			name: "no terminators",
			in:   "одна строка без точки",
			want: []string{"одна строка без точки"},
		},
		{
			name: "empty",
			in:   "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.in))
		})
	}
}
