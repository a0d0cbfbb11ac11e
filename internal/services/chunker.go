package services

import (
	"strings"
	"unicode/utf8"
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs paragraphs into chunks of about maxChunkSize runes.
// Paragraphs longer than that are packed sentence by sentence instead. Every
// chunk after the first starts with the last overlap runes of the previous one,
// so a chunk may exceed maxChunkSize by up to overlap runes.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	b := &chunkBuilder{max: maxChunkSize, overlap: overlap}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			b.add(para, "\n\n")
			continue
		}

		for _, sentence := range splitIntoSentences(para) {
			b.add(sentence, " ")
		}
	}

	return b.finish()
}

type chunkBuilder struct {
	max     int
	overlap int
	chunks  []string
	current strings.Builder
	// fresh is true while current holds only carried-over overlap text.
	fresh bool
}

func (b *chunkBuilder) add(piece, sep string) {
	size := utf8.RuneCountInString(b.current.String())
	if size > 0 && size+len(sep)+utf8.RuneCountInString(piece) > b.max && !b.fresh {
		b.flush(sep)
	}

	if b.current.Len() > 0 {
		b.current.WriteString(sep)
	}
	b.current.WriteString(piece)
	b.fresh = false
}

func (b *chunkBuilder) flush(sep string) {
	prev := b.current.String()
	b.chunks = append(b.chunks, prev)
	b.current.Reset()

	if tail := lastRunes(prev, b.overlap); tail != "" {
		b.current.WriteString(tail)
		b.fresh = true
	}
}

func (b *chunkBuilder) finish() []string {
	if b.current.Len() > 0 && !b.fresh {
		b.chunks = append(b.chunks, b.current.String())
	}
	return b.chunks
}

func splitIntoSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
