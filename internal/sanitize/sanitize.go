// Package sanitize implements query-input validation: denylist scanning for
// prompt-injection and markup payloads before a query ever reaches an LLM.
package sanitize

import (
	"html"
	"strings"

	"github.com/aqua777/go-research-orchestrator/internal/researcherr"
)

// denylist mirrors the pattern classes a query is screened against: script
// tags, event handler attributes, and common prompt-injection phrasing.
var denylist = []string{
	"<script",
	"javascript:",
	"onerror=",
	"onload=",
	"ignore previous instructions",
	"ignore all previous instructions",
	"disregard previous instructions",
	"system prompt",
}

const maxQueryLen = 4000

// Query validates and trims a raw query string, decoding HTML entities first
// so an encoded payload (e.g. "&lt;script&gt;") cannot slip past the denylist.
func Query(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", researcherr.New(researcherr.KindValidation, "sanitize.Query", errEmpty)
	}
	if len(trimmed) > maxQueryLen {
		trimmed = trimmed[:maxQueryLen]
	}

	decoded := strings.ToLower(html.UnescapeString(trimmed))
	for _, bad := range denylist {
		if strings.Contains(decoded, bad) {
			return "", researcherr.New(researcherr.KindValidation, "sanitize.Query", errDenylisted)
		}
	}

	return trimmed, nil
}

var (
	errEmpty      = sanitizeError("query is empty")
	errDenylisted = sanitizeError("query contains disallowed content")
)

type sanitizeError string

func (e sanitizeError) Error() string { return string(e) }
