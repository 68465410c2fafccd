// Package subagent implements the per-task search-evaluate-refine loop: a
// specialist subagent searches the vector store, evaluates what it finds,
// and either stops or refines its query for another round, all wrapped in a
// circuit breaker and bounded retry envelope.
package subagent

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/embedding"
	"github.com/aqua777/go-research-orchestrator/internal/analyzer"
	"github.com/aqua777/go-research-orchestrator/internal/breaker"
	"github.com/aqua777/go-research-orchestrator/internal/llmclient"
	"github.com/aqua777/go-research-orchestrator/internal/sharedmem"
	"github.com/aqua777/go-research-orchestrator/internal/vectorstore"
)

// planPrefixes phrases each specialist's search strategy for the findings
// synthesis prompt and the no-material message; they are not added to the
// search query.
var planPrefixes = map[domain.SpecialistType]string{
	domain.SpecialistConceptual:  "defining terms and establishing theoretical grounding for",
	domain.SpecialistComparative: "contrasting alternatives and weighing tradeoffs for",
	domain.SpecialistTechnical:   "tracing implementation and architectural detail for",
	domain.SpecialistExamples:    "gathering concrete cases and applications for",
	domain.SpecialistGeneral:     "building a broad overview of",
}

// Subagent runs one SubagentTask's search loop against a vector store,
// scoring and refining until the evaluator is satisfied or iterations run
// out.
type Subagent struct {
	llm       llmclient.Client
	store     vectorstore.Store
	embedder  embedding.EmbeddingModel
	memory    *sharedmem.Memory
	docs      *analyzer.DocumentAnalyzer
	evaluator *analyzer.IterativeEvaluator
	breaker   *breaker.CircuitBreaker
	retrier   breaker.Retrier
	timeout   time.Duration
	logger    *slog.Logger
}

// New builds a Subagent. timeout bounds a single search-round attempt;
// breakerThreshold/recovery configure the circuit breaker guarding the
// vector store call.
func New(
	llm llmclient.Client,
	store vectorstore.Store,
	embedder embedding.EmbeddingModel,
	memory *sharedmem.Memory,
	breakerThreshold int,
	breakerRecovery time.Duration,
	maxRetries int,
	timeout time.Duration,
	logger *slog.Logger,
) *Subagent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subagent{
		llm:       llm,
		store:     store,
		embedder:  embedder,
		memory:    memory,
		docs:      analyzer.New(llm),
		evaluator: analyzer.NewEvaluator(llm),
		breaker:   breaker.New(breakerThreshold, breakerRecovery),
		retrier:   breaker.DefaultRetrier(maxRetries),
		timeout:   timeout,
		logger:    logger,
	}
}

// Run executes task's full search-evaluate-refine loop and returns its
// terminal result. A cached result for the same (specialist, objective) pair
// short-circuits the loop entirely.
func (s *Subagent) Run(ctx context.Context, task domain.SubagentTask) domain.SubagentResult {
	cacheKey := string(task.Specialist) + "|" + task.Objective
	if cached, ok, err := s.memory.CacheGet(ctx, cacheKey); err == nil && ok {
		s.logger.Info("subagent cache hit", "task_id", task.ID, "specialist", task.Specialist)
		result := cached.Result
		result.TaskID = task.ID
		return result
	}

	current := task.Clone()
	var lastEval domain.SearchEvaluation
	var evaluated []domain.DocumentEvaluation
	iterations := 0

	for iterations < max(1, task.MaxIterations) {
		iterations++

		if !s.breaker.CanExecute() {
			s.logger.Warn("circuit breaker open, stopping search loop early", "task_id", task.ID, "iteration", iterations)
			break
		}

		round, similarity, err := s.searchRound(ctx, current)
		if err != nil {
			s.breaker.RecordFailure()
			s.logger.Error("search round failed", "task_id", task.ID, "iteration", iterations, "error", err)
			if iterations == 1 {
				return domain.SubagentResult{
					TaskID:     task.ID,
					Specialist: task.Specialist,
					Iterations: iterations,
					Err:        fmt.Errorf("subagent %s: %w", task.ID, err),
				}
			}
			break
		}
		s.breaker.RecordSuccess()

		roundEvals := s.evaluatePages(ctx, current, round, similarity)
		evaluated = append(evaluated, roundEvals...)

		lastEval = s.evaluator.Evaluate(ctx, current, evaluated)
		s.shareDiscoveries(ctx, task.ID, current, round)

		if lastEval.Sufficient {
			break
		}
		if iterations >= current.MaxIterations {
			break
		}
		current = refine(current, lastEval)
	}

	result := s.buildResult(ctx, task, current, evaluated, lastEval, iterations)
	if saveErr := s.memory.CacheSet(ctx, cacheKey, result); saveErr != nil {
		s.logger.Warn("failed to cache subagent result", "task_id", task.ID, "error", saveErr)
	}
	return result
}

func (s *Subagent) searchRound(ctx context.Context, task domain.SubagentTask) ([]domain.PageRecord, map[string]float64, error) {
	roundCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var pages []domain.PageRecord
	similarity := map[string]float64{}
	err := s.retrier.Do(roundCtx, func(ctx context.Context) error {
		queryText := strings.Join(append([]string{task.Objective}, task.Keywords...), " ")
		vec64, err := s.embedder.GetQueryEmbedding(ctx, queryText)
		if err != nil {
			return fmt.Errorf("embed query: %w", err)
		}

		vec32 := make([]float32, len(vec64))
		for i, v := range vec64 {
			vec32[i] = float32(v)
		}

		found, scores, err := s.store.Query(ctx, vec32, task.MaxCandidates, "")
		if err != nil {
			return fmt.Errorf("query vector store: %w", err)
		}
		pages = found
		for i, p := range found {
			if i < len(scores) {
				similarity[pageKey(p)] = scores[i]
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if shared, err := s.memory.Relevant(ctx, task.Keywords, task.MaxCandidates); err == nil {
		for _, d := range shared {
			pages = append(pages, d.Source)
		}
	}

	return pages, similarity, nil
}

func pageKey(p domain.PageRecord) string {
	return fmt.Sprintf("%s#%d", p.DocSource, p.PageNum)
}

func (s *Subagent) evaluatePages(ctx context.Context, task domain.SubagentTask, pages []domain.PageRecord, similarity map[string]float64) []domain.DocumentEvaluation {
	evals := make([]domain.DocumentEvaluation, 0, len(pages))
	seen := map[string]bool{}
	for _, page := range pages {
		key := pageKey(page)
		if seen[key] {
			continue
		}
		seen[key] = true
		evals = append(evals, s.docs.Evaluate(ctx, task, page, similarity[key]))
	}
	return evals
}

func (s *Subagent) shareDiscoveries(ctx context.Context, agentID string, task domain.SubagentTask, pages []domain.PageRecord) {
	for _, page := range pages {
		if len(page.Text) == 0 {
			continue
		}
		discovery := domain.SharedDiscovery{
			AgentID:   agentID,
			Timestamp: time.Now(),
			Summary:   firstSentence(page.Text),
			Keywords:  sharedmem.ExtractKeywords(page.Text),
			Source:    page,
		}
		if err := s.memory.Share(ctx, discovery); err != nil {
			s.logger.Warn("failed to share discovery", "task_id", task.ID, "error", err)
		}
	}
}

// refine returns a new task with next-round keywords and a relaxed focus,
// never mutating the prior task in place.
func refine(task domain.SubagentTask, eval domain.SearchEvaluation) domain.SubagentTask {
	next := task.Clone()
	if len(eval.NextKeywords) > 0 {
		next.Keywords = eval.NextKeywords
	}
	if !eval.Sufficient && next.SimilarityThresh > 0.5 {
		next.SimilarityThresh -= 0.05
	}
	return next
}

func (s *Subagent) buildResult(ctx context.Context, original domain.SubagentTask, finalTask domain.SubagentTask, evals []domain.DocumentEvaluation, lastEval domain.SearchEvaluation, iterations int) domain.SubagentResult {
	sort.Slice(evals, func(i, j int) bool { return evals[i].RelevanceScore > evals[j].RelevanceScore })

	topN := evals
	if len(topN) > finalTask.MaxCandidates {
		topN = topN[:finalTask.MaxCandidates]
	}

	sources := make([]domain.PageRecord, len(topN))
	var qualitySum float64
	for i, e := range topN {
		sources[i] = e.Page
		sources[i].QualityScore = e.QualityScore
		qualitySum += e.QualityScore
	}
	avgQuality := 0.0
	if len(topN) > 0 {
		avgQuality = qualitySum / float64(len(topN))
	}

	info := s.synthesizeFindings(ctx, original, topN, lastEval)

	return domain.SubagentResult{
		TaskID:           original.ID,
		Specialist:       original.Specialist,
		FinalInformation: info,
		Sources:          sources,
		ConfidenceLevel:  analyzer.Confidence(lastEval, avgQuality),
		Iterations:       iterations,
	}
}

func (s *Subagent) synthesizeFindings(ctx context.Context, task domain.SubagentTask, evals []domain.DocumentEvaluation, eval domain.SearchEvaluation) string {
	if len(evals) == 0 {
		return fmt.Sprintf("No sufficiently relevant material was found while %s %q.", planPrefixes[task.Specialist], task.Objective)
	}

	var findings strings.Builder
	for _, e := range evals {
		for _, f := range e.KeyFindings {
			findings.WriteString("- " + f + "\n")
		}
	}

	prompt := fmt.Sprintf(`You are %s the following objective: %q

KEY FINDINGS FROM RETRIEVED PAGES:
%s

SYNTHESIS GUIDANCE: %s

Write a concise, well-organized summary of what was found, in prose, with no
headers or bullet points.`, planPrefixes[task.Specialist], task.Objective, findings.String(), eval.SynthesisGuidance)

	summary, err := s.llm.Complete(ctx, prompt)
	if err != nil || strings.TrimSpace(summary) == "" {
		return strings.TrimSpace(findings.String())
	}
	return strings.TrimSpace(summary)
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexAny(text, ".!?"); idx > 0 && idx < 240 {
		return text[:idx+1]
	}
	if len(text) > 240 {
		return text[:240] + "..."
	}
	return text
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
