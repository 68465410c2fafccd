package subagent

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/internal/llmclient"
	"github.com/aqua777/go-research-orchestrator/internal/sharedmem"
	"github.com/aqua777/go-research-orchestrator/storage/kvstore"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) GetTextEmbedding(ctx context.Context, text string) ([]float64, error) {
	return []float64{0.1, 0.2, 0.3}, f.err
}

func (f *fakeEmbedder) GetQueryEmbedding(ctx context.Context, query string) ([]float64, error) {
	return []float64{0.1, 0.2, 0.3}, f.err
}

type fakeStore struct {
	pages []domain.PageRecord
	score []float64
	err   error
}

func (f *fakeStore) AddPages(ctx context.Context, pages []domain.PageRecord) ([]string, error) {
	return nil, nil
}

func (f *fakeStore) Query(ctx context.Context, embedding []float32, topK int, docSource string) ([]domain.PageRecord, []float64, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.pages, f.score, nil
}

func (f *fakeStore) Delete(ctx context.Context, docSource string) error { return nil }

func newTestMemory() *sharedmem.Memory {
	return sharedmem.New(kvstore.NewSimpleKVStore(), 64, time.Hour)
}

func testTask() domain.SubagentTask {
	return domain.SubagentTask{
		ID:               "task-1",
		Specialist:       domain.SpecialistConceptual,
		Objective:        "explain entropy",
		FocusAreas:       []string{"conceptual"},
		Keywords:         []string{"entropy"},
		MaxIterations:    2,
		SimilarityThresh: 0.6,
		MaxCandidates:    3,
	}
}

func TestRunSucceedsOnFirstSufficientRound(t *testing.T) {
	store := &fakeStore{
		pages: []domain.PageRecord{{DocSource: "a.pdf", PageNum: 1, Text: "Entropy is a measure of disorder in a system."}},
		score: []float64{0.9},
	}
	llm := llmclient.NewMockClient(
		`{"relevance_score": 0.9, "key_findings": ["entropy measures disorder"], "coverage_areas": ["conceptual"], "quality_score": 0.85, "note": ""}`,
		`{"overall_relevance": 0.9, "coverage_completeness": 0.9, "critical_gaps": [], "refinement_suggestions": [], "next_keywords": [], "synthesis_guidance": "done"}`,
		"Entropy measures the disorder of a thermodynamic system.",
	)

	s := New(llm, store, &fakeEmbedder{}, newTestMemory(), 5, time.Minute, 2, 5*time.Second, slog.Default())
	result := s.Run(context.Background(), testTask())

	require.NoError(t, result.Err)
	assert.Equal(t, 1, result.Iterations)
	assert.NotEmpty(t, result.FinalInformation)
	assert.Len(t, result.Sources, 1)
}

func TestRunReturnsErrorWhenFirstRoundFails(t *testing.T) {
	store := &fakeStore{err: errors.New("vector store unavailable")}
	llm := llmclient.NewMockClient()

	s := New(llm, store, &fakeEmbedder{}, newTestMemory(), 5, time.Minute, 0, 5*time.Second, slog.Default())
	result := s.Run(context.Background(), testTask())

	require.Error(t, result.Err)
	assert.Equal(t, "task-1", result.TaskID)
}

func TestRunUsesCachedResultOnSecondCall(t *testing.T) {
	store := &fakeStore{
		pages: []domain.PageRecord{{DocSource: "a.pdf", PageNum: 1, Text: "Entropy is a measure of disorder."}},
		score: []float64{0.9},
	}
	llm := llmclient.NewMockClient(
		`{"relevance_score": 0.9, "key_findings": ["f1"], "coverage_areas": ["conceptual"], "quality_score": 0.8, "note": ""}`,
		`{"overall_relevance": 0.9, "coverage_completeness": 0.9, "critical_gaps": [], "refinement_suggestions": [], "next_keywords": [], "synthesis_guidance": ""}`,
		"summary one",
	)
	memory := newTestMemory()
	s := New(llm, store, &fakeEmbedder{}, memory, 5, time.Minute, 0, 5*time.Second, slog.Default())

	task := testTask()
	first := s.Run(context.Background(), task)
	require.NoError(t, first.Err)

	second := s.Run(context.Background(), task)
	require.NoError(t, second.Err)
	assert.Equal(t, first.FinalInformation, second.FinalInformation)
	assert.Equal(t, task.ID, second.TaskID)
}

func TestRefineAppliesNextKeywordsAndLowersThreshold(t *testing.T) {
	task := testTask()
	eval := domain.SearchEvaluation{Sufficient: false, NextKeywords: []string{"disorder", "thermodynamics"}}

	next := refine(task, eval)
	assert.Equal(t, []string{"disorder", "thermodynamics"}, next.Keywords)
	assert.InDelta(t, task.SimilarityThresh-0.05, next.SimilarityThresh, 0.0001)
	assert.Equal(t, task.Keywords, []string{"entropy"}, "original task must not be mutated")
}

func TestRefineDoesNotLowerThresholdBelowFloor(t *testing.T) {
	task := testTask()
	task.SimilarityThresh = 0.5
	eval := domain.SearchEvaluation{Sufficient: false}

	next := refine(task, eval)
	assert.Equal(t, 0.5, next.SimilarityThresh)
}

func TestPageKeyIsStableAcrossDocAndPage(t *testing.T) {
	a := pageKey(domain.PageRecord{DocSource: "x.pdf", PageNum: 4})
	b := pageKey(domain.PageRecord{DocSource: "x.pdf", PageNum: 4})
	c := pageKey(domain.PageRecord{DocSource: "x.pdf", PageNum: 5})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
