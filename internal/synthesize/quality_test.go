package synthesize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aqua777/go-research-orchestrator/domain"
)

func TestAssessOverallIsAverageOfSubscores(t *testing.T) {
	q := NewQualityAssessor("")
	results := []domain.SubagentResult{
		{Sources: []domain.PageRecord{{DocSource: "paper.pdf", PageNum: 1}}},
	}

	scores := q.Assess("what is entropy", "Entropy, as described in paper.pdf, measures disorder in a system. It always increases in isolated systems.",
		[]string{"direct relevance", "disorder"}, results)

	expected := (scores.QueryRelevance + scores.Completeness + scores.Coherence + scores.SourceUtilization + scores.Clarity) / 5.0
	assert.InDelta(t, expected, scores.Overall, 0.0001)
}

func TestQueryRelevanceNoKeywordsIsNeutral(t *testing.T) {
	q := NewQualityAssessor("")
	scores := q.Assess("", "some answer", nil, nil)
	assert.Equal(t, 0.5, scores.QueryRelevance)
}

func TestQueryRelevanceMatchesKeywords(t *testing.T) {
	q := NewQualityAssessor("")
	scores := q.Assess("explain entropy and disorder", "entropy and disorder are related concepts.", nil, nil)
	assert.InDelta(t, 2.0/3.0, scores.QueryRelevance, 0.0001)
}

func TestCompletenessNoCriteriaDefaultsToBaseline(t *testing.T) {
	q := NewQualityAssessor("")
	scores := q.Assess("query", "answer", nil, nil)
	assert.Equal(t, 0.75, scores.Completeness)
}

func TestSourceUtilizationNoSourcesIsNeutral(t *testing.T) {
	q := NewQualityAssessor("")
	scores := q.Assess("query", "answer", nil, []domain.SubagentResult{{FinalInformation: "x"}})
	assert.Equal(t, 0.5, scores.SourceUtilization)
}

func TestSourceUtilizationCountsCitedSources(t *testing.T) {
	q := NewQualityAssessor("")
	results := []domain.SubagentResult{
		{Sources: []domain.PageRecord{{DocSource: "a.pdf"}, {DocSource: "b.pdf"}}},
	}
	scores := q.Assess("query", "the answer cites a.pdf as its main source.", nil, results)
	assert.InDelta(t, 0.5, scores.SourceUtilization, 0.0001)
}

func TestClarityPenalizesVeryLongSentences(t *testing.T) {
	q := NewQualityAssessor("")
	long := "word "
	var sb string
	for i := 0; i < 80; i++ {
		sb += long
	}
	scores := q.Assess("query", sb+".", nil, nil)
	assert.Less(t, scores.Clarity, 0.5)
}
