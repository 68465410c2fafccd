package decompose

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/internal/llmclient"
)

func TestAnalyzeComplexityDeterministicPatterns(t *testing.T) {
	a := NewQueryAnalyzer(llmclient.NewMockClient())

	assert.Equal(t, domain.ComplexitySimple, a.AnalyzeComplexity(context.Background(), "What is entropy?"))
	assert.Equal(t, domain.ComplexityModerate, a.AnalyzeComplexity(context.Background(), "How does gradient descent work?"))
	assert.Equal(t, domain.ComplexityComplex, a.AnalyzeComplexity(context.Background(), "Compare SGD and Adam"))
	assert.Equal(t, domain.ComplexityVeryComplex, a.AnalyzeComplexity(context.Background(), "Give a comprehensive analysis of optimizers"))
}

func TestAnalyzeComplexityFallsBackToLLM(t *testing.T) {
	llm := llmclient.NewMockClient("complex")
	a := NewQueryAnalyzer(llm)

	got := a.AnalyzeComplexity(context.Background(), "some ambiguous phrase with no known cue")
	assert.Equal(t, domain.ComplexityComplex, got)
}

func TestAnalyzeComplexityLLMErrorDefaultsToModerate(t *testing.T) {
	llm := &llmclient.MockClient{Err: assertErr}
	a := NewQueryAnalyzer(llm)

	got := a.AnalyzeComplexity(context.Background(), "ambiguous text")
	assert.Equal(t, domain.ComplexityModerate, got)
}

func TestDetermineSpecialistsSimpleCapsAtOne(t *testing.T) {
	a := NewQueryAnalyzer(llmclient.NewMockClient())
	specialists := a.DetermineSpecialists("compare define versus technical implement", domain.ComplexitySimple)
	assert.Len(t, specialists, 1)
}

func TestDetermineSpecialistsVeryComplexAddsGeneral(t *testing.T) {
	a := NewQueryAnalyzer(llmclient.NewMockClient())
	specialists := a.DetermineSpecialists("what is a theory", domain.ComplexityVeryComplex)
	require.Len(t, specialists, 2)
	assert.Contains(t, specialists, domain.SpecialistGeneral)
}

func TestDetermineSpecialistsDefaultsToGeneral(t *testing.T) {
	a := NewQueryAnalyzer(llmclient.NewMockClient())
	specialists := a.DetermineSpecialists("tell me about the weather today", domain.ComplexityModerate)
	assert.Equal(t, []domain.SpecialistType{domain.SpecialistGeneral}, specialists)
}

func TestDecomposeSimpleQueryProducesOneTask(t *testing.T) {
	llm := llmclient.NewMockClient("refined query text")
	d := New(llm)

	decomposition, err := d.Decompose(context.Background(), "what is entropy")
	require.NoError(t, err)
	assert.Equal(t, domain.ComplexitySimple, decomposition.Complexity)
	require.Len(t, decomposition.Tasks, 1)
	assert.Equal(t, []string{"what is entropy"}, decomposition.Tasks[0].Keywords)
	assert.NotEmpty(t, decomposition.SynthesisInstructions)
	assert.Len(t, decomposition.QualityCriteria, 3)
}

func TestDecomposeVeryComplexQueryAddsCriteria(t *testing.T) {
	llm := llmclient.NewMockClient()
	d := New(llm)

	decomposition, err := d.Decompose(context.Background(), "comprehensive analysis of transformer architectures")
	require.NoError(t, err)
	assert.Equal(t, domain.ComplexityVeryComplex, decomposition.Complexity)
	assert.Len(t, decomposition.QualityCriteria, 8)
	for _, task := range decomposition.Tasks {
		assert.NotEmpty(t, task.ID)
		assert.NotEmpty(t, task.FocusAreas)
		assert.True(t, task.IterativeRefinement)
	}
}

func TestDecomposeAssignsHighPriorityToFirstTaskOnly(t *testing.T) {
	llm := llmclient.NewMockClient()
	d := New(llm)

	decomposition, err := d.Decompose(context.Background(), "comprehensive analysis of transformer architectures")
	require.NoError(t, err)
	require.NotEmpty(t, decomposition.Tasks)

	assert.Equal(t, domain.PriorityHigh, decomposition.Tasks[0].Priority)
	for _, task := range decomposition.Tasks[1:] {
		assert.Equal(t, domain.PriorityMedium, task.Priority)
	}
}

func TestDecomposeSimpleQueryTaskIsNotIterative(t *testing.T) {
	llm := llmclient.NewMockClient("refined query text")
	d := New(llm)

	decomposition, err := d.Decompose(context.Background(), "what is entropy")
	require.NoError(t, err)
	require.Len(t, decomposition.Tasks, 1)
	assert.False(t, decomposition.Tasks[0].IterativeRefinement)
	assert.Equal(t, domain.PriorityHigh, decomposition.Tasks[0].Priority)
}

func TestGenerateKeywordsDeduplicatesAndCaps(t *testing.T) {
	keywords := generateKeywords("define a concept", domain.SpecialistConceptual, []string{"conceptual", "definitions", "theoretical_background"})
	seen := map[string]bool{}
	for _, k := range keywords {
		assert.False(t, seen[k], "duplicate keyword %q", k)
		seen[k] = true
	}
	assert.LessOrEqual(t, len(keywords), 10)
}

var assertErr = &mockErr{}

type mockErr struct{}

func (e *mockErr) Error() string { return "mock llm failure" }
