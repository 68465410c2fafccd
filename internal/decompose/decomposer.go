// Package decompose implements QueryAnalyzer and the Decomposer: turning a
// raw query into a classified complexity, a narrated research approach, and
// the concrete subagent tasks to dispatch.
package decompose

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/internal/llmclient"
)

// Decomposer turns a query into a full Decomposition.
type Decomposer struct {
	llm      llmclient.Client
	analyzer *QueryAnalyzer
}

// New builds a Decomposer backed by llm.
func New(llm llmclient.Client) *Decomposer {
	return &Decomposer{llm: llm, analyzer: NewQueryAnalyzer(llm)}
}

// Decompose runs the full pipeline: classify complexity, refine the query
// for vector search, determine the approach, build subagent tasks, and
// generate the synthesis guidance the coordinator will use once every task
// returns.
func (d *Decomposer) Decompose(ctx context.Context, query string) (domain.Decomposition, error) {
	complexity := d.analyzer.AnalyzeComplexity(ctx, query)
	refined := d.refineQuery(ctx, query)
	approach := d.determineApproach(ctx, query, complexity)
	tasks := d.createSubagentTasks(query, refined, approach)

	return domain.Decomposition{
		Complexity:            complexity,
		Approach:              approach,
		Tasks:                 tasks,
		SynthesisInstructions: d.generateSynthesisInstructions(query, approach, tasks),
		QualityCriteria:       defineQualityCriteria(complexity),
		FallbackStrategy:      fallbackStrategies[complexity],
	}, nil
}

func (d *Decomposer) refineQuery(ctx context.Context, query string) string {
	prompt := fmt.Sprintf(`Refine this query to optimize vector search over documents:

ORIGINAL QUERY: %q

Refinement goals:
1. Add useful semantic context
2. Include synonyms and related terms
3. Keep the question's main focus
4. Optimize for similarity search

Return only the refined query, with no explanation.`, query)

	refined, err := d.llm.Complete(ctx, prompt)
	if err != nil || strings.TrimSpace(refined) == "" {
		return query
	}
	return strings.TrimSpace(refined)
}

func (d *Decomposer) determineApproach(ctx context.Context, query string, complexity domain.Complexity) domain.RAGApproach {
	specialists := d.analyzer.DetermineSpecialists(query, complexity)
	keyAspects := d.analyzer.ExtractKeyAspects(ctx, query)

	documentTypes := make(map[domain.SpecialistType][]string, len(specialists))
	for _, s := range specialists {
		documentTypes[s] = documentTypesBySpecialist[s]
	}

	return domain.RAGApproach{
		Complexity:          complexity,
		Strategy:            strategyByComplexity[complexity],
		EstimatedSubagents:  subagentCounts[complexity],
		ApproachSteps:       generateApproachSteps(strategyByComplexity[complexity], specialists),
		KeyAspects:          keyAspects,
		DocumentTypesNeeded: documentTypes,
		RerankingStrategy:   rerankingStrategies[strategyByComplexity[complexity]],
		SynthesisApproach:   determineSynthesisApproach(complexity, specialists),
	}
}

func (d *Decomposer) createSubagentTasks(query, refined string, approach domain.RAGApproach) []domain.SubagentTask {
	specialists := d.analyzer.DetermineSpecialists(query, approach.Complexity)
	tasks := make([]domain.SubagentTask, 0, len(specialists))

	for i, specialist := range specialists {
		cfg := GetConfigForTask(approach.Complexity, specialist)

		var focusAreas, keywords []string
		if approach.Complexity != domain.ComplexitySimple {
			focusAreas = determineFocusAreas(specialist, approach.KeyAspects)
			keywords = generateKeywords(query, specialist, focusAreas)
		} else {
			focusAreas = specialistFocusAreas[specialist][:1]
			keywords = []string{query}
		}

		priority := domain.PriorityMedium
		if i == 0 {
			priority = domain.PriorityHigh
		}

		tasks = append(tasks, domain.SubagentTask{
			ID:                  uuid.New().String(),
			Specialist:          specialist,
			Objective:           refined,
			FocusAreas:          focusAreas,
			Keywords:            keywords,
			MaxIterations:       cfg.MaxIterations,
			SimilarityThresh:    cfg.SimilarityThreshold,
			MaxCandidates:       cfg.MaxCandidates,
			Priority:            priority,
			IterativeRefinement: approach.Complexity != domain.ComplexitySimple,
			SemanticContext:     strings.Join(approach.KeyAspects, ", "),
			ExpectedFindings:    expectedFindings(specialist, focusAreas),
		})
	}

	return tasks
}

// expectedFindings narrates, per specialist, the kind of material a
// sufficient search round should turn up. It is carried on the task as
// ExpectedFindings; no later stage reads it.
func expectedFindings(specialist domain.SpecialistType, focusAreas []string) []string {
	findings := make([]string, 0, len(focusAreas))
	for _, area := range focusAreas {
		findings = append(findings, fmt.Sprintf("%s coverage of %s", specialist, area))
	}
	return findings
}

func determineFocusAreas(specialist domain.SpecialistType, keyAspects []string) []string {
	base := specialistFocusAreas[specialist]
	if base == nil {
		base = []string{"general"}
	}

	var relevant []string
	for _, aspect := range keyAspects {
		lower := strings.ToLower(aspect)
		switch {
		case specialist == domain.SpecialistTechnical && containsAny(lower, "how", "implement", "technical", "methodology"):
			relevant = append(relevant, aspect)
		case specialist == domain.SpecialistComparative && containsAny(lower, "compare", "versus", "difference", "analysis"):
			relevant = append(relevant, aspect)
		case specialist == domain.SpecialistExamples && containsAny(lower, "example", "case", "application", "use case"):
			relevant = append(relevant, aspect)
		case specialist == domain.SpecialistConceptual && containsAny(lower, "concept", "definition", "understanding"):
			relevant = append(relevant, aspect)
		}
	}
	if len(relevant) > 2 {
		relevant = relevant[:2]
	}

	return append(append([]string{}, base...), relevant...)
}

func generateKeywords(query string, specialist domain.SpecialistType, focusAreas []string) []string {
	seen := map[string]bool{}
	var keywords []string
	add := func(k string) {
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		keywords = append(keywords, k)
	}

	add(query)
	for _, k := range specialistKeywords[specialist] {
		add(k)
	}
	for _, focus := range focusAreas {
		if strings.Contains(focus, "_") {
			add(strings.ReplaceAll(focus, "_", " "))
		}
		add(focus)
	}

	sort.Strings(keywords)
	if len(keywords) > 10 {
		keywords = keywords[:10]
	}
	return keywords
}

func generateApproachSteps(strategy string, specialists []domain.SpecialistType) []string {
	steps := []string{
		"1. Initial query analysis and semantic refinement",
		"2. Initial vector search with optimized embeddings",
		"3. Reranking of the most relevant candidates",
	}

	switch strategy {
	case "multi_perspective":
		names := make([]string, len(specialists))
		for i, s := range specialists {
			names[i] = string(s)
		}
		steps = append(steps,
			fmt.Sprintf("4. Parallel execution across specialists: %s", strings.Join(names, ", ")),
			"5. Consolidation of multiple perspectives",
		)
	case "comprehensive_coverage":
		steps = append(steps,
			"4. Exhaustive search across multiple semantic dimensions",
			"5. Coverage analysis and gap identification",
			"6. Complementary search to fill gaps",
		)
	}

	steps = append(steps, fmt.Sprintf("%d. Coordinated synthesis of results", len(steps)+1))
	return steps
}

func determineSynthesisApproach(complexity domain.Complexity, specialists []domain.SpecialistType) string {
	switch complexity {
	case domain.ComplexitySimple:
		return "direct answer synthesis from the primary specialist"
	case domain.ComplexityModerate:
		return "enhanced answer with supporting details"
	case domain.ComplexityComplex:
		return fmt.Sprintf("multi-perspective synthesis from %d specialists", len(specialists))
	default:
		return "comprehensive analysis with structured integration of all perspectives"
	}
}

func (d *Decomposer) generateSynthesisInstructions(query string, approach domain.RAGApproach, tasks []domain.SubagentTask) string {
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = string(t.Specialist)
	}

	return fmt.Sprintf(`SYNTHESIS INSTRUCTIONS FOR: %q

APPROACH: %s
SPECIALISTS: %s
COMPLEXITY: %s

GUIDELINES:
1. Integrate information from every specialist coherently
2. Stay focused on the user's original question
3. Highlight the most relevant and reliable information
4. Resolve conflicts by favoring sources with higher similarity scores
5. Include specific citations from the documents used
6. Keep an informative, precise tone

RESPONSE STRUCTURE:
- A direct answer to the main question
- Supporting detail organized by relevance
- Cited sources with specific pages`, query, approach.SynthesisApproach, strings.Join(names, ", "), approach.Complexity)
}

func defineQualityCriteria(complexity domain.Complexity) []string {
	criteria := []string{
		"Direct relevance to the original question",
		"Quality and reliability of the sources",
		"Coherence of the integrated information",
	}

	if complexity == domain.ComplexityComplex || complexity == domain.ComplexityVeryComplex {
		criteria = append(criteria,
			"Completeness of coverage of the key aspects",
			"Balance across different perspectives",
			"Identification and resolution of conflicts",
		)
	}

	if complexity == domain.ComplexityVeryComplex {
		criteria = append(criteria,
			"Critical analysis of limitations",
			"Methodological context",
		)
	}

	return criteria
}

func containsAny(s string, candidates ...string) bool {
	for _, c := range candidates {
		if strings.Contains(s, c) {
			return true
		}
	}
	return false
}
