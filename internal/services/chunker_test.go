package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText(t *testing.T) {
	chunker := NewTextChunker()

	t.Run("short text is a single chunk", func(t *testing.T) {
		chunks := chunker.ChunkText("one short paragraph", 1000, 200)
		require.Len(t, chunks, 1)
		assert.Equal(t, "one short paragraph", chunks[0])
	})

	t.Run("empty text yields no chunks", func(t *testing.T) {
		assert.Empty(t, chunker.ChunkText("", 1000, 200))
		assert.Empty(t, chunker.ChunkText("\n\n\n\n", 1000, 200))
	})

	t.Run("long text splits into multiple chunks", func(t *testing.T) {
		var paragraphs []string
		for i := 0; i < 10; i++ {
			paragraphs = append(paragraphs, strings.Repeat("word ", 60))
		}
		text := strings.Join(paragraphs, "\n\n")

		chunks := chunker.ChunkText(text, 500, 100)
		assert.Greater(t, len(chunks), 1)
	})

	t.Run("consecutive chunks share overlap text", func(t *testing.T) {
		var paragraphs []string
		for i := 0; i < 6; i++ {
			paragraphs = append(paragraphs, strings.Repeat("ab ", 100))
		}
		text := strings.Join(paragraphs, "\n\n")

		chunks := chunker.ChunkText(text, 400, 50)
		require.Greater(t, len(chunks), 1)

		tail := lastNRunes(chunks[0], 50)
		assert.True(t, strings.HasPrefix(chunks[1], tail))
	})
}

func TestLastNRunes(t *testing.T) {
	assert.Equal(t, "", lastNRunes("abc", 0))
	assert.Equal(t, "abc", lastNRunes("abc", 10))
	assert.Equal(t, "bc", lastNRunes("abc", 2))
}
