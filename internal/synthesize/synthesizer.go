package synthesize

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/internal/llmclient"
)

// Synthesizer produces the final narrative answer from every subagent's
// result, using the decomposition's synthesis instructions as its brief.
type Synthesizer struct {
	llm       llmclient.Client
	conflicts *ConflictResolver
	quality   *QualityAssessor
}

// New builds a Synthesizer. trainingDataPath configures the quality
// assessor's sentence splitter (see textutil.NewSentenceSplitter); pass ""
// to use the regex fallback.
func New(llm llmclient.Client, trainingDataPath string) *Synthesizer {
	return &Synthesizer{
		llm:       llm,
		conflicts: NewConflictResolver(llm),
		quality:   NewQualityAssessor(trainingDataPath),
	}
}

// Synthesize integrates every subagent result into a single FinalResult.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, decomposition domain.Decomposition, results []domain.SubagentResult) domain.FinalResult {
	conflicts := s.conflicts.Resolve(ctx, results)

	answer := s.synthesizeAnswer(ctx, query, decomposition, results, conflicts)
	sources := citedSources(results)
	quality := s.quality.Assess(query, answer, decomposition.QualityCriteria, results)
	confidence := weightedConfidence(results)

	trace := buildReasoningTrace(decomposition, results, conflicts)

	return domain.FinalResult{
		Query:           query,
		Answer:          answer,
		Confidence:      confidence,
		SourcesCited:    sources,
		Conflicts:       conflicts,
		Quality:         quality,
		ReasoningTrace:  trace,
		SubagentResults: results,
		UsedFallback:    false,
	}
}

// SynthesizeFallback builds a degraded FinalResult when the normal pipeline
// could not complete, using decomposition.FallbackStrategy as the answer's
// framing.
func SynthesizeFallback(query string, decomposition domain.Decomposition, results []domain.SubagentResult, reason error) domain.FinalResult {
	var parts []string
	for _, r := range results {
		if r.Err == nil && r.FinalInformation != "" {
			parts = append(parts, r.FinalInformation)
		}
	}

	answer := fmt.Sprintf("Falling back to %s.", decomposition.FallbackStrategy)
	if len(parts) > 0 {
		answer += " Partial findings: " + strings.Join(parts, " ")
	} else if reason != nil {
		answer += fmt.Sprintf(" No usable findings were recovered (%v).", reason)
	}

	return domain.FinalResult{
		Query:           query,
		Answer:          answer,
		Confidence:      0,
		SourcesCited:    citedSources(results),
		SubagentResults: results,
		ReasoningTrace:  []string{fmt.Sprintf("fallback triggered: %s", decomposition.FallbackStrategy)},
		UsedFallback:    true,
	}
}

func (s *Synthesizer) synthesizeAnswer(ctx context.Context, query string, decomposition domain.Decomposition, results []domain.SubagentResult, conflicts []domain.Conflict) string {
	var findings strings.Builder
	for _, r := range results {
		if r.Err != nil || r.FinalInformation == "" {
			continue
		}
		fmt.Fprintf(&findings, "[%s specialist, confidence %.2f]\n%s\n\n", r.Specialist, r.ConfidenceLevel, r.FinalInformation)
	}

	if findings.Len() == 0 {
		return "No usable findings were produced by any specialist."
	}

	var conflictNote strings.Builder
	for _, c := range conflicts {
		fmt.Fprintf(&conflictNote, "- %s (%s): %s\n", c.Description, c.ConflictType, c.Resolution)
	}

	prompt := fmt.Sprintf(`%s

SPECIALIST FINDINGS:
%s

DETECTED CONFLICTS:
%s

Write the final answer to the original question: %q`,
		decomposition.SynthesisInstructions, findings.String(), conflictNote.String(), query)

	answer, err := s.llm.Complete(ctx, prompt)
	if err != nil || strings.TrimSpace(answer) == "" {
		return strings.TrimSpace(findings.String())
	}
	return strings.TrimSpace(answer)
}

func citedSources(results []domain.SubagentResult) []domain.PageRecord {
	type key struct {
		doc  string
		page int
	}
	var flat []domain.PageRecord
	dedup := map[key]bool{}
	for _, r := range results {
		for _, src := range r.Sources {
			k := key{src.DocSource, src.PageNum}
			if dedup[k] {
				continue
			}
			dedup[k] = true
			flat = append(flat, src)
		}
	}

	// Ordered by descending quality score; ties broken by (DocSource, PageNum)
	// so the ordering is deterministic when two sources score identically.
	sort.Slice(flat, func(i, j int) bool {
		if flat[i].QualityScore != flat[j].QualityScore {
			return flat[i].QualityScore > flat[j].QualityScore
		}
		if flat[i].DocSource != flat[j].DocSource {
			return flat[i].DocSource < flat[j].DocSource
		}
		return flat[i].PageNum < flat[j].PageNum
	})
	return flat
}

func weightedConfidence(results []domain.SubagentResult) float64 {
	var sum, weight float64
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		w := float64(max(1, len(r.Sources)))
		sum += w * r.ConfidenceLevel
		weight += w
	}
	if weight == 0 {
		return 0
	}
	return sum / weight
}

func buildReasoningTrace(decomposition domain.Decomposition, results []domain.SubagentResult, conflicts []domain.Conflict) []string {
	trace := []string{
		fmt.Sprintf("classified complexity as %s, strategy %s", decomposition.Complexity, decomposition.Approach.Strategy),
	}
	for _, step := range decomposition.Approach.ApproachSteps {
		trace = append(trace, step)
	}
	for _, r := range results {
		if r.Err != nil {
			trace = append(trace, fmt.Sprintf("%s specialist failed after %d iteration(s): %v", r.Specialist, r.Iterations, r.Err))
			continue
		}
		trace = append(trace, fmt.Sprintf("%s specialist finished in %d iteration(s), confidence %.2f", r.Specialist, r.Iterations, r.ConfidenceLevel))
	}
	for _, c := range conflicts {
		trace = append(trace, fmt.Sprintf("conflict between %s and %s: %s", c.TaskIDA, c.TaskIDB, c.Resolution))
	}
	return trace
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
