package jsonextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFencedJSON(t *testing.T) {
	text := "Here is the answer:\n```json\n{\"a\": 1}\n```\nThanks."
	assert.Equal(t, `{"a": 1}`, Extract(text))
}

func TestExtractPlainFenced(t *testing.T) {
	text := "```\n{\"a\": 2}\n```"
	assert.Equal(t, `{"a": 2}`, Extract(text))
}

func TestExtractBareObject(t *testing.T) {
	text := `some prose {"a": 3} trailing text`
	assert.Equal(t, `{"a": 3}`, Extract(text))
}

func TestExtractBareArray(t *testing.T) {
	text := `prose [1, 2, 3] more prose`
	assert.Equal(t, `[1, 2, 3]`, Extract(text))
}

func TestExtractReturnsEmptyWhenNoJSON(t *testing.T) {
	assert.Equal(t, "", Extract("no json here at all"))
}
