// Command research is the CLI front end for the multi-agent research
// orchestrator: point it at a persisted page index and a question, get a
// synthesized answer back.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/aqua777/krait"

	"github.com/aqua777/go-research-orchestrator/config"
	"github.com/aqua777/go-research-orchestrator/embedding"
	"github.com/aqua777/go-research-orchestrator/internal/llmclient"
	"github.com/aqua777/go-research-orchestrator/internal/vectorstore"
	"github.com/aqua777/go-research-orchestrator/research"
)

const (
	keyQuestion  = "question"
	keyObjective = "objective"
	keyIndexPath = "index-path"
	keyJSON      = "json"
	keyVerbose   = "verbose"
)

func main() {
	app := krait.App("research", "Multi-agent research orchestrator", "Runs a multi-agent retrieval-augmented research query over an indexed document set").
		WithStringP(keyQuestion, "Question to research", "question", "q", "RESEARCH_QUESTION", "").
		WithStringP(keyObjective, "Optional research objective narrowing the question", "objective", "o", "RESEARCH_OBJECTIVE", "").
		WithStringP(keyIndexPath, "Path to the persisted page index", "index-path", "i", "RESEARCH_INDEX_PATH", "").
		WithBoolP(keyJSON, "Print the full FinalResult as JSON", "json", "j", "RESEARCH_JSON", false).
		WithBoolP(keyVerbose, "Enable verbose logging", "verbose", "v", "RESEARCH_VERBOSE", false).
		WithRun(runResearch)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runResearch(args []string) error {
	question := krait.GetString(keyQuestion)
	if question == "" {
		fmt.Println("Usage: research --question <text> [--objective <text>] [--index-path <dir>] [--json]")
		return nil
	}

	logLevel := slog.LevelInfo
	if krait.GetBool(keyVerbose) {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg := config.Load()
	if errs, warnings := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			logger.Error("configuration error", "detail", e)
		}
		return fmt.Errorf("invalid configuration, see logged errors")
	} else {
		for _, w := range warnings {
			logger.Warn("configuration warning", "detail", w)
		}
	}

	llm := llmclient.NewOpenAIClient("", cfg.LLMModel, cfg.OpenAIAPIKey, logger)
	embedder := embedding.NewOpenAIEmbedding(cfg.OpenAIAPIKey, cfg.EmbeddingModel)

	indexPath := krait.GetString(keyIndexPath)
	if indexPath == "" {
		indexPath = cfg.ChromemPath
	}
	store, err := vectorstore.NewChromemStore(indexPath, cfg.CollectionName)
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}

	researcher := research.New(cfg, llm, store, embedder, logger)

	ctx := context.Background()
	result, err := researcher.Research(ctx, question, krait.GetString(keyObjective))
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	if krait.GetBool(keyJSON) {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(result.Answer)
	fmt.Printf("\nconfidence: %.2f\n", result.Confidence)
	if result.UsedFallback {
		fmt.Println("(fallback strategy was used)")
	}
	return nil
}
