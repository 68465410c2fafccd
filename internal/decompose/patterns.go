package decompose

import "github.com/aqua777/go-research-orchestrator/domain"

// complexityPatterns mirrors QueryAnalyzer.complexity_patterns: substring
// cues checked in order before falling back to the LLM.
var complexityPatterns = []struct {
	complexity domain.Complexity
	patterns   []string
}{
	{domain.ComplexitySimple, []string{"what is", "define", "meaning of", "explain"}},
	{domain.ComplexityModerate, []string{"how does", "why", "advantages", "disadvantages"}},
	{domain.ComplexityComplex, []string{"compare", "analyze", "evaluate", "assess"}},
	{domain.ComplexityVeryComplex, []string{"comprehensive analysis", "detailed comparison", "in-depth study"}},
}

// specialistPatterns mirrors QueryAnalyzer.specialist_patterns.
var specialistPatterns = []struct {
	specialist domain.SpecialistType
	patterns   []string
}{
	{domain.SpecialistConceptual, []string{"what is", "define", "concept", "theory", "principle"}},
	{domain.SpecialistComparative, []string{"compare", "versus", "vs", "difference", "alternative"}},
	{domain.SpecialistTechnical, []string{"how to", "implement", "architecture", "algorithm", "technical"}},
	{domain.SpecialistExamples, []string{"example", "case study", "use case", "application"}},
}

// specialistFocusAreas mirrors RAGDecomposer._determine_focus_areas'
// specialist_focus_mapping: a specialist's primary focus area shares its
// name.
var specialistFocusAreas = map[domain.SpecialistType][]string{
	domain.SpecialistConceptual:  {"conceptual", "definitions", "theoretical_background"},
	domain.SpecialistComparative: {"comparative", "alternatives", "differences"},
	domain.SpecialistTechnical:   {"technical", "architecture", "implementation"},
	domain.SpecialistExamples:    {"examples", "case_studies", "applications"},
	domain.SpecialistGeneral:     {"general", "overview", "broad_context"},
}

// specialistKeywords mirrors RAGDecomposer._generate_keywords'
// specialist_keywords.
var specialistKeywords = map[domain.SpecialistType][]string{
	domain.SpecialistConceptual:  {"definition", "concept", "theory", "meaning"},
	domain.SpecialistComparative: {"comparison", "versus", "alternative", "difference"},
	domain.SpecialistTechnical:   {"implementation", "technical", "architecture", "method"},
	domain.SpecialistExamples:    {"example", "case study", "application", "use case"},
	domain.SpecialistGeneral:     {"overview", "introduction", "general"},
}

// documentTypesBySpecialist mirrors _determine_document_types' type_mapping.
var documentTypesBySpecialist = map[domain.SpecialistType][]string{
	domain.SpecialistConceptual:  {"definitions", "introductions", "theoretical sections"},
	domain.SpecialistComparative: {"comparison tables", "analysis sections", "review papers"},
	domain.SpecialistTechnical:   {"methodology sections", "implementation details", "technical specifications"},
	domain.SpecialistExamples:    {"case studies", "examples", "applications", "use cases"},
	domain.SpecialistGeneral:     {"abstracts", "summaries", "overview sections"},
}

// subagentCounts mirrors _determine_approach's subagent_counts table.
var subagentCounts = map[domain.Complexity]int{
	domain.ComplexitySimple:      1,
	domain.ComplexityModerate:    1,
	domain.ComplexityComplex:     2,
	domain.ComplexityVeryComplex: 3,
}

// fallbackStrategies mirrors _define_fallback_strategy.
var fallbackStrategies = map[domain.Complexity]string{
	domain.ComplexitySimple:      "reduced-threshold search plus a generic answer",
	domain.ComplexityModerate:    "simplify to direct search plus basic synthesis",
	domain.ComplexityComplex:     "reduce to one specialist, focused on the primary aspect",
	domain.ComplexityVeryComplex: "decompose into simple sub-queries with sequential integration",
}

// rerankingStrategies mirrors _determine_reranking_strategy.
var rerankingStrategies = map[string]string{
	"direct_search":         "simple similarity-based reranking",
	"semantic_expansion":    "semantic relevance plus keyword matching",
	"multi_perspective":     "multi-perspective relevance scoring",
	"comprehensive_coverage": "coverage-optimized reranking",
}

// strategyByComplexity mirrors RAGDecomposer.strategy_mapping.
var strategyByComplexity = map[domain.Complexity]string{
	domain.ComplexitySimple:      "direct_search",
	domain.ComplexityModerate:    "semantic_expansion",
	domain.ComplexityComplex:     "multi_perspective",
	domain.ComplexityVeryComplex: "comprehensive_coverage",
}
