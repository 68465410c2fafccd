// Package textutil provides sentence segmentation for clarity scoring,
// preferring a trained neurosnap/sentences tokenizer and falling back to a
// regex split when no training data is configured.
package textutil

import (
	"os"
	"regexp"
	"strings"

	"github.com/neurosnap/sentences"
)

var fallbackSentenceRegex = regexp.MustCompile(`[.!?]+[\s]+`)

// SentenceSplitter segments text into sentences.
type SentenceSplitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSentenceSplitter builds a splitter from a neurosnap/sentences training
// file (e.g. an english.json produced by the project's training data). If
// trainingDataPath is empty or cannot be loaded, Split falls back to a
// punctuation regex so callers never need a nil check.
func NewSentenceSplitter(trainingDataPath string) *SentenceSplitter {
	if trainingDataPath == "" {
		return &SentenceSplitter{}
	}
	data, err := os.ReadFile(trainingDataPath)
	if err != nil {
		return &SentenceSplitter{}
	}
	storage, err := sentences.LoadTraining(data)
	if err != nil {
		return &SentenceSplitter{}
	}
	return &SentenceSplitter{tokenizer: sentences.NewSentenceTokenizer(storage)}
}

// Split returns the sentences in text.
func (s *SentenceSplitter) Split(text string) []string {
	if s.tokenizer != nil {
		tokenized := s.tokenizer.Tokenize(text)
		out := make([]string, 0, len(tokenized))
		for _, sent := range tokenized {
			if trimmed := strings.TrimSpace(sent.Text); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	}

	parts := fallbackSentenceRegex.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
