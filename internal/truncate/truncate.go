// Package truncate bounds LLM prompts by token count rather than character
// count, using tiktoken-go. Its one caller is the DocumentAnalyzer, which
// bounds page text before sending it to the LLM.
package truncate

import (
	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer wraps a cached tiktoken encoding.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// modelEncodings maps chat-model names to their tiktoken encoding, mirroring
// the teacher's textsplitter encoding table.
var modelEncodings = map[string]string{
	"gpt-4o":        "o200k_base",
	"gpt-4o-mini":   "o200k_base",
	"gpt-4":         "cl100k_base",
	"gpt-4-turbo":   "cl100k_base",
	"gpt-3.5-turbo": "cl100k_base",
}

// NewTokenizer loads the encoding for the given model, falling back to
// cl100k_base (the GPT-3.5/4 family encoding) if the model is unrecognized.
func NewTokenizer(model string) (*Tokenizer, error) {
	name, ok := modelEncodings[model]
	if !ok {
		name = "cl100k_base"
	}
	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, err
	}
	return &Tokenizer{enc: enc}, nil
}

// Count returns the token count of text.
func (t *Tokenizer) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// Truncate returns text trimmed to at most maxTokens tokens.
func (t *Tokenizer) Truncate(text string, maxTokens int) string {
	tokens := t.enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return t.enc.Decode(tokens[:maxTokens])
}
