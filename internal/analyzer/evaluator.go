package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/internal/jsonextract"
	"github.com/aqua777/go-research-orchestrator/internal/llmclient"
	"github.com/aqua777/go-research-orchestrator/internal/sharedmem"
)

// Sufficiency thresholds a round of document evaluations must clear before
// IterativeEvaluator calls the search loop done.
const (
	sufficiencyRelevanceMin = 0.65
	sufficiencyCoverageMin  = 0.75
	sufficiencyMaxGaps      = 2
)

// confidence weighting used by Confidence whether or not an LLM judged the
// round: relevance and the quality signal weigh 0.3 each, coverage and the
// inverse-gap term 0.2 each.
const (
	confidenceWeightRelevance = 0.3
	confidenceWeightCoverage  = 0.2
	confidenceWeightQuality   = 0.3
	confidenceWeightGaps      = 0.2
)

// IterativeEvaluator decides, after each search round, whether a subagent's
// evidence is sufficient to stop, and if not, what to refine next.
type IterativeEvaluator struct {
	llm llmclient.Client
}

// NewEvaluator builds an IterativeEvaluator backed by llm.
func NewEvaluator(llm llmclient.Client) *IterativeEvaluator {
	return &IterativeEvaluator{llm: llm}
}

// Evaluate assesses a round of document evaluations against task, returning
// the aggregate SearchEvaluation the subagent loop uses to decide whether to
// stop or refine.
func (e *IterativeEvaluator) Evaluate(ctx context.Context, task domain.SubagentTask, evals []domain.DocumentEvaluation) domain.SearchEvaluation {
	if len(evals) == 0 {
		return domain.SearchEvaluation{
			OverallRelevance:      0,
			CoverageCompleteness:  0,
			CriticalGaps:          []string{"no candidate pages were retrieved"},
			RefinementSuggestions: []string{"broaden keywords", "lower the similarity threshold"},
			Sufficient:            false,
			NextKeywords:          task.Keywords,
			SynthesisGuidance:     "",
		}
	}

	result, err := e.evaluateWithLLM(ctx, task, evals)
	if err != nil {
		return e.evaluateHeuristically(task, evals)
	}
	return result
}

func (e *IterativeEvaluator) evaluateWithLLM(ctx context.Context, task domain.SubagentTask, evals []domain.DocumentEvaluation) (domain.SearchEvaluation, error) {
	var sb strings.Builder
	for i, ev := range evals {
		fmt.Fprintf(&sb, "[%d] source=%s page=%d relevance=%.2f quality=%.2f findings=%s\n",
			i+1, ev.Page.DocSource, ev.Page.PageNum, ev.RelevanceScore, ev.QualityScore, strings.Join(ev.KeyFindings, "; "))
	}

	prompt := fmt.Sprintf(`OBJECTIVE: %s
FOCUS AREAS: %s

EVALUATED PAGES:
%s

Assess whether this evidence sufficiently covers the objective. Respond as
compact JSON: {"overall_relevance": 0-1, "coverage_completeness": 0-1,
"critical_gaps": ["..."], "refinement_suggestions": ["..."],
"next_keywords": ["..."], "synthesis_guidance": "..."}`,
		task.Objective, strings.Join(task.FocusAreas, ", "), sb.String())

	messages := []llmclient.ChatMessage{
		llmclient.NewSystemMessage("You judge whether retrieved document evidence is sufficient for a research objective."),
		llmclient.NewUserMessage(prompt),
	}

	resp, err := e.llm.StructuredChat(ctx, messages)
	if err != nil {
		return domain.SearchEvaluation{}, err
	}

	parsed, err := parseSearchJudgment(resp)
	if err != nil {
		return domain.SearchEvaluation{}, err
	}

	relevance := clamp01(parsed.OverallRelevance)
	coverage := clamp01(parsed.CoverageCompleteness)
	sufficient := relevance >= sufficiencyRelevanceMin &&
		coverage >= sufficiencyCoverageMin &&
		len(parsed.CriticalGaps) <= sufficiencyMaxGaps

	nextKeywords := parsed.NextKeywords
	if len(nextKeywords) == 0 {
		nextKeywords = task.Keywords
	}

	return domain.SearchEvaluation{
		OverallRelevance:      relevance,
		CoverageCompleteness:  coverage,
		CriticalGaps:          parsed.CriticalGaps,
		RefinementSuggestions: parsed.RefinementSuggestions,
		Sufficient:            sufficient,
		NextKeywords:          nextKeywords,
		SynthesisGuidance:     parsed.SynthesisGuidance,
	}, nil
}

// evaluateHeuristically aggregates the per-page scores directly when the LLM
// path is unavailable: the unweighted mean of page relevance, coverage
// measured by distinct focus areas touched.
func (e *IterativeEvaluator) evaluateHeuristically(task domain.SubagentTask, evals []domain.DocumentEvaluation) domain.SearchEvaluation {
	var sumRelevance float64
	covered := map[string]bool{}
	for _, ev := range evals {
		sumRelevance += ev.RelevanceScore
		for _, area := range ev.CoverageAreas {
			covered[area] = true
		}
	}
	n := float64(len(evals))
	relevance := clamp01(sumRelevance / n)

	coverage := 1.0
	if len(task.FocusAreas) > 0 {
		coverage = clamp01(float64(len(covered)) / float64(len(task.FocusAreas)))
	}

	var gaps []string
	for _, area := range task.FocusAreas {
		if !covered[area] {
			gaps = append(gaps, fmt.Sprintf("no evidence found for focus area %q", area))
		}
	}

	sufficient := relevance >= sufficiencyRelevanceMin &&
		coverage >= sufficiencyCoverageMin &&
		len(gaps) <= sufficiencyMaxGaps

	var suggestions []string
	if !sufficient {
		suggestions = append(suggestions, "broaden keywords to the uncovered focus areas", "lower the similarity threshold for the next round")
	}

	nextKeywords := expandKeywords(task.Keywords, evals)

	return domain.SearchEvaluation{
		OverallRelevance:      relevance,
		CoverageCompleteness:  coverage,
		CriticalGaps:          gaps,
		RefinementSuggestions: suggestions,
		Sufficient:            sufficient,
		NextKeywords:          nextKeywords,
		SynthesisGuidance:     "",
	}
}

// expandKeywords folds newly-seen keyword-like terms from the evaluated
// pages' findings into the next round's keyword set, capped at ten.
func expandKeywords(current []string, evals []domain.DocumentEvaluation) []string {
	seen := map[string]bool{}
	out := append([]string{}, current...)
	for _, k := range current {
		seen[strings.ToLower(k)] = true
	}
	for _, ev := range evals {
		for _, finding := range ev.KeyFindings {
			for _, kw := range sharedmem.ExtractKeywords(finding) {
				if seen[kw] {
					continue
				}
				seen[kw] = true
				out = append(out, kw)
				if len(out) >= 10 {
					return out
				}
			}
		}
	}
	return out
}

// Confidence folds relevance, coverage, quality, and a gap penalty into a
// single confidence score for a subagent's final result.
func Confidence(evaluation domain.SearchEvaluation, avgQuality float64) float64 {
	gapPenalty := clamp01(1.0 - float64(len(evaluation.CriticalGaps))/4.0)
	score := confidenceWeightRelevance*evaluation.OverallRelevance +
		confidenceWeightCoverage*evaluation.CoverageCompleteness +
		confidenceWeightQuality*avgQuality +
		confidenceWeightGaps*gapPenalty
	return clamp01(score)
}

type searchJudgment struct {
	OverallRelevance      float64  `json:"overall_relevance"`
	CoverageCompleteness  float64  `json:"coverage_completeness"`
	CriticalGaps          []string `json:"critical_gaps"`
	RefinementSuggestions []string `json:"refinement_suggestions"`
	NextKeywords          []string `json:"next_keywords"`
	SynthesisGuidance     string   `json:"synthesis_guidance"`
}

func parseSearchJudgment(resp string) (searchJudgment, error) {
	raw := jsonextract.Extract(resp)
	if raw == "" {
		raw = resp
	}
	var j searchJudgment
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		return searchJudgment{}, fmt.Errorf("parse search judgment: %w", err)
	}
	return j, nil
}
