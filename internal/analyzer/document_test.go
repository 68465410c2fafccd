package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/internal/llmclient"
)

func samplePage() domain.PageRecord {
	return domain.PageRecord{
		DocSource: "paper.pdf",
		PageNum:   3,
		Text:      "Entropy is a measure of disorder in a thermodynamic system. Higher entropy means more disorder.",
	}
}

func sampleTask() domain.SubagentTask {
	return domain.SubagentTask{
		Specialist: domain.SpecialistConceptual,
		Objective:  "explain entropy",
		FocusAreas: []string{"conceptual", "definitions"},
		Keywords:   []string{"entropy", "disorder"},
	}
}

func TestEvaluateUsesLLMJudgmentWhenAvailable(t *testing.T) {
	llm := llmclient.NewMockClient(`{"relevance_score": 0.9, "key_findings": ["defines entropy"], "coverage_areas": ["conceptual"], "quality_score": 0.8, "note": "solid"}`)
	a := New(llm)

	eval := a.Evaluate(context.Background(), sampleTask(), samplePage(), 0.5)
	assert.Equal(t, 0.9, eval.RelevanceScore)
	assert.Equal(t, 0.8, eval.QualityScore)
	assert.Equal(t, []string{"defines entropy"}, eval.KeyFindings)
}

func TestEvaluateFallsBackToHeuristicOnLLMError(t *testing.T) {
	llm := &llmclient.MockClient{Err: errBoom}
	a := New(llm)

	eval := a.Evaluate(context.Background(), sampleTask(), samplePage(), 0.6)
	assert.Contains(t, eval.ExtractionNote, "heuristic")
	assert.Greater(t, eval.RelevanceScore, 0.0)
}

func TestEvaluateFallsBackToHeuristicOnUnparsableResponse(t *testing.T) {
	llm := llmclient.NewMockClient("not json at all")
	a := New(llm)

	eval := a.Evaluate(context.Background(), sampleTask(), samplePage(), 0.6)
	assert.Contains(t, eval.ExtractionNote, "heuristic")
}

func TestEvaluateHeuristicallyBoostsOnKeywordOverlap(t *testing.T) {
	a := New(&llmclient.MockClient{Err: errBoom})
	task := sampleTask()

	withKeywords := a.evaluateHeuristically(task, samplePage(), 0.5)
	noMatchPage := samplePage()
	noMatchPage.Text = "completely unrelated content about gardening"
	withoutKeywords := a.evaluateHeuristically(task, noMatchPage, 0.5)

	require.Greater(t, withKeywords.RelevanceScore, withoutKeywords.RelevanceScore)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-1))
	assert.Equal(t, 1.0, clamp01(2))
	assert.Equal(t, 0.5, clamp01(0.5))
}

func TestTruncatePageTextLeavesShortTextUntouched(t *testing.T) {
	a := New(llmclient.NewMockClient())
	assert.Equal(t, "short page text", a.truncatePageText("short page text"))
}

var errBoom = &boomErr{}

type boomErr struct{}

func (e *boomErr) Error() string { return "boom" }
