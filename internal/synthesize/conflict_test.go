package synthesize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/internal/llmclient"
)

func TestResolveSkipsErroredOrEmptyResults(t *testing.T) {
	r := NewConflictResolver(llmclient.NewMockClient())
	results := []domain.SubagentResult{
		{TaskID: "1", Err: assertErrSynth},
		{TaskID: "2", FinalInformation: ""},
	}
	conflicts := r.Resolve(context.Background(), results)
	assert.Empty(t, conflicts)
}

func TestResolveDetectsConflictViaLLM(t *testing.T) {
	llm := llmclient.NewMockClient(`{"conflict": true, "conflict_type": "factual", "description": "disagree on the date"}`)
	r := NewConflictResolver(llm)

	results := []domain.SubagentResult{
		{TaskID: "1", Specialist: domain.SpecialistTechnical, FinalInformation: "it happened in 1990", ConfidenceLevel: 0.6},
		{TaskID: "2", Specialist: domain.SpecialistConceptual, FinalInformation: "it happened in 1991", ConfidenceLevel: 0.62},
	}
	conflicts := r.Resolve(context.Background(), results)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "factual", conflicts[0].ConflictType)
	assert.Contains(t, conflicts[0].Resolution, "too close to call")
}

func TestResolveNoConflictWhenLLMSaysSo(t *testing.T) {
	llm := llmclient.NewMockClient(`{"conflict": false}`)
	r := NewConflictResolver(llm)

	results := []domain.SubagentResult{
		{TaskID: "1", FinalInformation: "a"},
		{TaskID: "2", FinalInformation: "b"},
	}
	conflicts := r.Resolve(context.Background(), results)
	assert.Empty(t, conflicts)
}

func TestResolutionPrefersHigherConfidenceWhenDeltaLarge(t *testing.T) {
	a := domain.SubagentResult{Specialist: domain.SpecialistTechnical, ConfidenceLevel: 0.9}
	b := domain.SubagentResult{Specialist: domain.SpecialistConceptual, ConfidenceLevel: 0.5}
	got := resolution(a, b, "factual")
	assert.Contains(t, got, "technical")
}

func TestResolutionPresentsComplementaryWhenClose(t *testing.T) {
	a := domain.SubagentResult{Specialist: domain.SpecialistTechnical, ConfidenceLevel: 0.6}
	b := domain.SubagentResult{Specialist: domain.SpecialistConceptual, ConfidenceLevel: 0.61}
	got := resolution(a, b, "interpretive")
	assert.Contains(t, got, "complementary")
}

var assertErrSynth = &synthErr{}

type synthErr struct{}

func (e *synthErr) Error() string { return "boom" }
