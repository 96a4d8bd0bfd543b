// Package textutil provides pure text helpers for the retrieval pipeline:
// window chunking, cosine similarity, and preview truncation.
package textutil

import (
	"math"
	"strings"
	"unicode/utf8"
)

// SplitIntoChunks splits text into overlapping windows of chunkSize
// Unicode characters, advancing chunkSize-overlap characters per step.
// Windows that are empty after stripping whitespace are skipped; the
// final window may be shorter than chunkSize. Text shorter than
// chunkSize yields a single chunk; blank text yields none.
func SplitIntoChunks(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) < chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := string(runes[i:end])
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		chunks = append(chunks, chunk)
	}

	return chunks
}

// CosineSimilarity computes the cosine similarity of two vectors,
// accumulating in float64. It is 0 when the vectors differ in length,
// are empty, or either norm is zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// TruncateString truncates s to at most maxLen Unicode characters.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen])
}
