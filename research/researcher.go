// Package research is the public entry point for the multi-agent retrieval
// orchestrator: LeadResearcher ties decomposition, parallel subagent
// execution, and synthesis into a single Research call.
package research

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aqua777/go-research-orchestrator/config"
	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/embedding"
	"github.com/aqua777/go-research-orchestrator/internal/decompose"
	"github.com/aqua777/go-research-orchestrator/internal/llmclient"
	"github.com/aqua777/go-research-orchestrator/internal/researcherr"
	"github.com/aqua777/go-research-orchestrator/internal/sanitize"
	"github.com/aqua777/go-research-orchestrator/internal/sharedmem"
	"github.com/aqua777/go-research-orchestrator/internal/subagent"
	"github.com/aqua777/go-research-orchestrator/internal/synthesize"
	"github.com/aqua777/go-research-orchestrator/internal/vectorstore"
	"github.com/aqua777/go-research-orchestrator/storage/kvstore"
)

// Researcher is the lead coordinator: it decomposes a query, fans it out to
// specialist subagents, and synthesizes their results into a FinalResult.
type Researcher struct {
	cfg          config.ResearchConfig
	decomposer   *decompose.Decomposer
	synthesizer  *synthesize.Synthesizer
	vectorStore  vectorstore.Store
	embedder     embedding.EmbeddingModel
	llm          llmclient.Client
	logger       *slog.Logger
}

// New builds a Researcher. A fresh SharedMemory store is created per
// Research call (see "Open Questions resolved" in DESIGN.md: no
// cross-request sharing), so only the durable dependencies are taken here.
func New(cfg config.ResearchConfig, llm llmclient.Client, vectorStore vectorstore.Store, embedder embedding.EmbeddingModel, logger *slog.Logger) *Researcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Researcher{
		cfg:         cfg,
		decomposer:  decompose.New(llm),
		synthesizer: synthesize.New(llm, ""),
		vectorStore: vectorStore,
		embedder:    embedder,
		llm:         llm,
		logger:      logger,
	}
}

// Research runs the full decompose -> fan-out -> synthesize pipeline for
// query. objective narrows the research brief beyond the bare query text
// (e.g. "prefer primary sources"); pass "" when the query speaks for itself.
func (r *Researcher) Research(ctx context.Context, query, objective string) (domain.FinalResult, error) {
	clean, err := sanitize.Query(query)
	if err != nil {
		return domain.FinalResult{}, err
	}
	if objective != "" {
		clean = clean + "\n\nObjective: " + objective
	}

	decomposition, err := r.decomposer.Decompose(ctx, clean)
	if err != nil {
		return domain.FinalResult{}, researcherr.New(researcherr.KindFatal, "research.Decompose", err)
	}
	r.logger.Info("query decomposed", "complexity", decomposition.Complexity, "subagents", len(decomposition.Tasks))

	memory := sharedmem.New(kvstore.NewSimpleKVStore(), r.cfg.ResponseCacheSize, r.cfg.ResponseCacheTTL)

	results, fatalErr := r.runSubagents(ctx, decomposition.Tasks, memory)
	if fatalErr != nil {
		r.logger.Error("subagent fan-out failed catastrophically, falling back", "error", fatalErr)
		return synthesize.SynthesizeFallback(clean, decomposition, results, fatalErr), nil
	}

	return r.synthesizer.Synthesize(ctx, clean, decomposition, results), nil
}

// runSubagents fans tasks out across a bounded pool of goroutines, gated by
// a semaphore channel sized to cfg.ConcurrencyLimit, matching the teacher's
// runtime.NumCPU()-style concurrency knob in rag/store/chromem.
func (r *Researcher) runSubagents(ctx context.Context, tasks []domain.SubagentTask, memory *sharedmem.Memory) ([]domain.SubagentResult, error) {
	if len(tasks) == 0 {
		return nil, researcherr.New(researcherr.KindFatal, "research.runSubagents", fmt.Errorf("decomposition produced no subagent tasks"))
	}

	limit := r.cfg.ConcurrencyLimit
	if limit <= 0 {
		limit = len(tasks)
	}
	sem := make(chan struct{}, limit)

	results := make([]domain.SubagentResult, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task domain.SubagentTask) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			agent := subagent.New(
				r.llm,
				r.vectorStore,
				r.embedder,
				memory,
				r.cfg.CircuitBreakerThreshold,
				r.cfg.CircuitBreakerTimeout,
				r.cfg.MaxRetries,
				subagentTimeout(r.cfg.SubagentTimeout),
				r.logger.With("task_id", task.ID, "specialist", task.Specialist),
			)
			results[i] = agent.Run(ctx, task)
		}(i, task)
	}
	wg.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	if failed == len(results) {
		return results, fmt.Errorf("all %d subagents failed", len(results))
	}
	return results, nil
}

func subagentTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 45 * time.Second
	}
	return d
}
