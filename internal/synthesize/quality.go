package synthesize

import (
	"strings"

	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/internal/sharedmem"
	"github.com/aqua777/go-research-orchestrator/internal/textutil"
)

// idealSentenceLength is the sentence length (in words) clarity scoring
// treats as the sweet spot; scores fall off the further a sentence strays
// from it in either direction.
const idealSentenceLength = 20.0

// QualityAssessor scores a synthesized answer along five dimensions:
// relevance to the query, completeness against the quality criteria,
// coherence, how well it draws on the cited sources, and clarity.
type QualityAssessor struct {
	sentences *textutil.SentenceSplitter
}

// NewQualityAssessor builds a QualityAssessor. trainingDataPath is passed
// through to the sentence splitter (see textutil.NewSentenceSplitter); pass
// "" to use the regex fallback.
func NewQualityAssessor(trainingDataPath string) *QualityAssessor {
	return &QualityAssessor{sentences: textutil.NewSentenceSplitter(trainingDataPath)}
}

// Assess scores answer against query, the decomposition's quality criteria,
// and the results it was synthesized from.
func (q *QualityAssessor) Assess(query, answer string, criteria []string, results []domain.SubagentResult) domain.QualityScores {
	relevance := q.queryRelevance(query, answer)
	completeness := q.completeness(answer, criteria)
	coherence := q.coherence(answer)
	sourceUtil := q.sourceUtilization(answer, results)
	clarity := q.clarity(answer)

	overall := (relevance + completeness + coherence + sourceUtil + clarity) / 5.0

	return domain.QualityScores{
		QueryRelevance:    relevance,
		Completeness:      completeness,
		Coherence:         coherence,
		SourceUtilization: sourceUtil,
		Clarity:           clarity,
		Overall:           overall,
	}
}

func (q *QualityAssessor) queryRelevance(query, answer string) float64 {
	queryKeywords := sharedmem.ExtractKeywords(query)
	if len(queryKeywords) == 0 {
		return 0.5
	}
	answerLower := strings.ToLower(answer)
	matched := 0
	for _, kw := range queryKeywords {
		if strings.Contains(answerLower, kw) {
			matched++
		}
	}
	return clamp01(float64(matched) / float64(len(queryKeywords)))
}

func (q *QualityAssessor) completeness(answer string, criteria []string) float64 {
	if len(criteria) == 0 {
		return 0.75
	}
	answerLower := strings.ToLower(answer)
	addressed := 0
	for _, c := range criteria {
		for _, kw := range sharedmem.ExtractKeywords(c) {
			if strings.Contains(answerLower, kw) {
				addressed++
				break
			}
		}
	}
	return clamp01(float64(addressed) / float64(len(criteria)))
}

// coherence approximates structural coherence from the sentence count alone:
// no sentences scores 0, one sentence 0.5, and more score 0.6 plus 0.05 per
// sentence, counting at most eight.
func (q *QualityAssessor) coherence(answer string) float64 {
	sents := q.sentences.Split(answer)
	if len(sents) == 0 {
		return 0
	}
	if len(sents) == 1 {
		return 0.5
	}
	return clamp01(0.6 + 0.05*float64(min(len(sents), 8)))
}

func (q *QualityAssessor) sourceUtilization(answer string, results []domain.SubagentResult) float64 {
	totalSources := 0
	cited := 0
	seen := map[string]bool{}
	for _, r := range results {
		for _, src := range r.Sources {
			totalSources++
			key := src.DocSource
			if seen[key] {
				continue
			}
			if strings.Contains(answer, src.DocSource) {
				cited++
				seen[key] = true
			}
		}
	}
	if totalSources == 0 {
		return 0.5
	}
	return clamp01(float64(cited) / float64(min(totalSources, 5)))
}

// clarity scores how close the answer's average sentence length sits to
// idealSentenceLength; this is the one dimension the teacher's source left
// as a naive `.`-split and that this implementation enriches with a real
// sentence tokenizer (see textutil).
func (q *QualityAssessor) clarity(answer string) float64 {
	sents := q.sentences.Split(answer)
	if len(sents) == 0 {
		return 0
	}

	var totalWords float64
	for _, s := range sents {
		totalWords += float64(len(strings.Fields(s)))
	}
	avgLen := totalWords / float64(len(sents))

	deviation := avgLen - idealSentenceLength
	if deviation < 0 {
		deviation = -deviation
	}
	return clamp01(1.0 - deviation/idealSentenceLength)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
