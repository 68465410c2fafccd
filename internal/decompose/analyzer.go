package decompose

import (
	"context"
	"fmt"
	"strings"

	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/internal/llmclient"
)

// QueryAnalyzer classifies a query's complexity and determines which
// specialists should handle it, falling back to an LLM call only for
// ambiguous cases the deterministic patterns miss.
type QueryAnalyzer struct {
	llm llmclient.Client
}

// NewQueryAnalyzer builds an analyzer backed by llm.
func NewQueryAnalyzer(llm llmclient.Client) *QueryAnalyzer {
	return &QueryAnalyzer{llm: llm}
}

// AnalyzeComplexity classifies query deterministically first, falling back
// to the LLM only when no pattern matches.
func (a *QueryAnalyzer) AnalyzeComplexity(ctx context.Context, query string) domain.Complexity {
	lower := strings.ToLower(query)
	for _, entry := range complexityPatterns {
		for _, pattern := range entry.patterns {
			if strings.Contains(lower, pattern) {
				return entry.complexity
			}
		}
	}
	return a.analyzeComplexityWithLLM(ctx, query)
}

func (a *QueryAnalyzer) analyzeComplexityWithLLM(ctx context.Context, query string) domain.Complexity {
	prompt := fmt.Sprintf(`Classify the complexity of this query for document research:

QUERY: %q

Classify as:
- simple: a direct question about a definition or concept
- moderate: a question about how something works or a process
- complex: a comparison or analysis of multiple aspects
- very_complex: a comprehensive analysis across multiple perspectives

Respond with exactly one of: simple, moderate, complex, very_complex`, query)

	resp, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return domain.ComplexityModerate
	}

	switch strings.TrimSpace(strings.ToLower(resp)) {
	case string(domain.ComplexitySimple):
		return domain.ComplexitySimple
	case string(domain.ComplexityModerate):
		return domain.ComplexityModerate
	case string(domain.ComplexityComplex):
		return domain.ComplexityComplex
	case string(domain.ComplexityVeryComplex):
		return domain.ComplexityVeryComplex
	default:
		return domain.ComplexityModerate
	}
}

// DetermineSpecialists picks up to three specialists for query, adjusting
// for complexity: simple queries get exactly one specialist, very-complex
// queries with only one match get a complementary general specialist.
func (a *QueryAnalyzer) DetermineSpecialists(query string, complexity domain.Complexity) []domain.SpecialistType {
	lower := strings.ToLower(query)
	var specialists []domain.SpecialistType
	for _, entry := range specialistPatterns {
		for _, pattern := range entry.patterns {
			if strings.Contains(lower, pattern) {
				specialists = append(specialists, entry.specialist)
				break
			}
		}
	}

	if len(specialists) == 0 {
		specialists = []domain.SpecialistType{domain.SpecialistGeneral}
	}

	switch {
	case complexity == domain.ComplexitySimple && len(specialists) > 1:
		specialists = specialists[:1]
	case complexity == domain.ComplexityVeryComplex && len(specialists) == 1 && specialists[0] != domain.SpecialistGeneral:
		specialists = append(specialists, domain.SpecialistGeneral)
	}

	if len(specialists) > 3 {
		specialists = specialists[:3]
	}
	return specialists
}

// ExtractKeyAspects asks the LLM for the 3-5 most important investigable
// aspects of query, falling back to the query itself on failure.
func (a *QueryAnalyzer) ExtractKeyAspects(ctx context.Context, query string) []string {
	prompt := fmt.Sprintf(`Extract the key aspects of this document-research query:

QUERY: %q

List the 3-5 most important aspects that should be investigated. Each aspect
should be specific and focused on information findable in documents.

Format: one aspect per line, no numbering.`, query)

	resp, err := a.llm.Complete(ctx, prompt)
	if err != nil || strings.TrimSpace(resp) == "" {
		return []string{query}
	}

	var aspects []string
	for _, line := range strings.Split(resp, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "-• ")
		if line != "" {
			aspects = append(aspects, line)
		}
	}
	if len(aspects) > 5 {
		aspects = aspects[:5]
	}
	if len(aspects) == 0 {
		return []string{query}
	}
	return aspects
}
