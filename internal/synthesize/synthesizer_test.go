package synthesize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/internal/llmclient"
)

func sampleResults() []domain.SubagentResult {
	return []domain.SubagentResult{
		{
			TaskID: "t1", Specialist: domain.SpecialistConceptual,
			FinalInformation: "Entropy measures disorder.", ConfidenceLevel: 0.8, Iterations: 1,
			Sources: []domain.PageRecord{{DocSource: "a.pdf", PageNum: 1}},
		},
		{
			TaskID: "t2", Specialist: domain.SpecialistTechnical,
			FinalInformation: "", ConfidenceLevel: 0, Iterations: 2, Err: errors.New("search failed"),
		},
	}
}

func sampleDecomposition() domain.Decomposition {
	return domain.Decomposition{
		Complexity: domain.ComplexityModerate,
		Approach: domain.RAGApproach{
			Strategy:      "semantic_expansion",
			ApproachSteps: []string{"step one", "step two"},
		},
		SynthesisInstructions: "Answer the question directly.",
		QualityCriteria:       []string{"direct relevance"},
		FallbackStrategy:      "simplify to direct search plus basic synthesis",
	}
}

func TestSynthesizeProducesFinalResult(t *testing.T) {
	llm := llmclient.NewMockClient(`{"conflict": false}`, "Entropy is a measure of disorder, per the analysis.")
	s := New(llm, "")

	result := s.Synthesize(context.Background(), "what is entropy", sampleDecomposition(), sampleResults())
	assert.Equal(t, "what is entropy", result.Query)
	assert.False(t, result.UsedFallback)
	assert.NotEmpty(t, result.Answer)
	require.Len(t, result.SourcesCited, 1)
	assert.InDelta(t, 0.8, result.Confidence, 0.0001)
	assert.NotEmpty(t, result.ReasoningTrace)
}

func TestSynthesizeAnswerFallsBackToFindingsOnLLMFailure(t *testing.T) {
	llm := &llmclient.MockClient{Err: errors.New("llm down")}
	s := New(llm, "")

	result := s.Synthesize(context.Background(), "what is entropy", sampleDecomposition(), sampleResults())
	assert.Contains(t, result.Answer, "Entropy measures disorder.")
}

func TestSynthesizeAnswerNoUsableFindings(t *testing.T) {
	llm := llmclient.NewMockClient()
	s := New(llm, "")

	allFailed := []domain.SubagentResult{{TaskID: "t1", Err: errors.New("fail")}}
	result := s.Synthesize(context.Background(), "query", sampleDecomposition(), allFailed)
	assert.Equal(t, "No usable findings were produced by any specialist.", result.Answer)
}

func TestSynthesizeFallbackIncludesPartialFindings(t *testing.T) {
	result := SynthesizeFallback("what is entropy", sampleDecomposition(), sampleResults(), errors.New("catastrophic failure"))
	assert.True(t, result.UsedFallback)
	assert.Contains(t, result.Answer, "simplify to direct search plus basic synthesis")
	assert.Contains(t, result.Answer, "Entropy measures disorder.")
}

func TestSynthesizeFallbackNoFindingsUsesReason(t *testing.T) {
	result := SynthesizeFallback("query", sampleDecomposition(), nil, errors.New("no subagents ran"))
	assert.Contains(t, result.Answer, "no subagents ran")
}

func TestCitedSourcesDedupsAndSorts(t *testing.T) {
	results := []domain.SubagentResult{
		{Sources: []domain.PageRecord{
			{DocSource: "b.pdf", PageNum: 2, QualityScore: 0.4},
			{DocSource: "a.pdf", PageNum: 1, QualityScore: 0.9},
		}},
		{Sources: []domain.PageRecord{{DocSource: "a.pdf", PageNum: 1, QualityScore: 0.9}}},
	}
	sources := citedSources(results)
	require.Len(t, sources, 2)
	assert.Equal(t, "a.pdf", sources[0].DocSource)
	assert.Equal(t, "b.pdf", sources[1].DocSource)
}

func TestCitedSourcesTiesBrokenByDocSourceAndPage(t *testing.T) {
	results := []domain.SubagentResult{
		{Sources: []domain.PageRecord{
			{DocSource: "b.pdf", PageNum: 1, QualityScore: 0.5},
			{DocSource: "a.pdf", PageNum: 2, QualityScore: 0.5},
			{DocSource: "a.pdf", PageNum: 1, QualityScore: 0.5},
		}},
	}
	sources := citedSources(results)
	require.Len(t, sources, 3)
	assert.Equal(t, domain.PageRecord{DocSource: "a.pdf", PageNum: 1, QualityScore: 0.5}, sources[0])
	assert.Equal(t, domain.PageRecord{DocSource: "a.pdf", PageNum: 2, QualityScore: 0.5}, sources[1])
	assert.Equal(t, domain.PageRecord{DocSource: "b.pdf", PageNum: 1, QualityScore: 0.5}, sources[2])
}

func TestWeightedConfidenceIgnoresErroredResults(t *testing.T) {
	got := weightedConfidence(sampleResults())
	assert.InDelta(t, 0.8, got, 0.0001)
}

func TestWeightedConfidenceAllErroredIsZero(t *testing.T) {
	got := weightedConfidence([]domain.SubagentResult{{Err: errors.New("x")}})
	assert.Equal(t, 0.0, got)
}
