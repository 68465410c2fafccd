package decompose

import "github.com/aqua777/go-research-orchestrator/domain"

// TaskConfig is the unified per-(complexity, specialist) configuration a
// subagent task is built from, mirroring
// enhanced_unified_config.get_config_for_task. The enhanced system's own
// constant tables (enhanced_config.py / src/core/constants.py) ship empty in
// the source this was distilled from, so these defaults are this
// implementation's own choice: thresholds loosen and candidate/iteration
// budgets grow with complexity so harder queries cast a wider net.
type TaskConfig struct {
	SimilarityThreshold float64
	MaxCandidates       int
	MaxIterations       int
}

var similarityThresholdByComplexity = map[domain.Complexity]float64{
	domain.ComplexitySimple:      0.75,
	domain.ComplexityModerate:    0.70,
	domain.ComplexityComplex:     0.65,
	domain.ComplexityVeryComplex: 0.60,
}

var maxCandidatesByComplexity = map[domain.Complexity]int{
	domain.ComplexitySimple:      3,
	domain.ComplexityModerate:    5,
	domain.ComplexityComplex:     7,
	domain.ComplexityVeryComplex: 10,
}

var maxIterationsByComplexity = map[domain.Complexity]int{
	domain.ComplexitySimple:      1,
	domain.ComplexityModerate:    2,
	domain.ComplexityComplex:     3,
	domain.ComplexityVeryComplex: 4,
}

// specialistSimilarityOverride mirrors SPECIALIST_OPTIMIZATIONS entries that
// take priority over the complexity-keyed threshold: comparative and
// technical specialists use 0.68 at every complexity, looser than the simple
// and moderate thresholds and tighter than the complex and very complex ones.
var specialistSimilarityOverride = map[domain.SpecialistType]float64{
	domain.SpecialistComparative: 0.68,
	domain.SpecialistTechnical:   0.68,
}

// GetConfigForTask returns the unified task configuration for a
// (complexity, specialist) pair, applying the specialist-specific threshold
// override where one exists.
func GetConfigForTask(complexity domain.Complexity, specialist domain.SpecialistType) TaskConfig {
	threshold, ok := similarityThresholdByComplexity[complexity]
	if !ok {
		threshold = 0.65
	}
	if override, ok := specialistSimilarityOverride[specialist]; ok {
		threshold = override
	}

	candidates, ok := maxCandidatesByComplexity[complexity]
	if !ok {
		candidates = 5
	}

	iterations, ok := maxIterationsByComplexity[complexity]
	if !ok {
		iterations = 2
	}

	return TaskConfig{
		SimilarityThreshold: threshold,
		MaxCandidates:       candidates,
		MaxIterations:       iterations,
	}
}
