// Package analyzer implements per-page relevance scoring (DocumentAnalyzer)
// and the sufficiency gate that decides whether a subagent's search loop can
// stop (IterativeEvaluator).
package analyzer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/internal/jsonextract"
	"github.com/aqua777/go-research-orchestrator/internal/llmclient"
	"github.com/aqua777/go-research-orchestrator/internal/sharedmem"
	"github.com/aqua777/go-research-orchestrator/internal/truncate"
)

// maxPageTokens bounds how much of a page's text is folded into the
// judgment prompt, measured in the model's actual token count rather than
// characters.
const maxPageTokens = 1500

// relevanceMultipliers scales a page's base similarity score by how well its
// document type matches what the specialist is looking for.
var relevanceMultipliers = map[domain.SpecialistType]float64{
	domain.SpecialistConceptual:  1.0,
	domain.SpecialistComparative: 1.05,
	domain.SpecialistTechnical:   1.05,
	domain.SpecialistExamples:    1.0,
	domain.SpecialistGeneral:     0.95,
}

// DocumentAnalyzer turns a raw retrieved page plus its vector-search score
// into a DocumentEvaluation: a relevance assessment, key findings, and a
// quality score. It prefers an LLM judgment and falls back to a deterministic
// heuristic when the LLM is unavailable or returns something unusable.
type DocumentAnalyzer struct {
	llm       llmclient.Client
	tokenizer *truncate.Tokenizer
}

// New builds a DocumentAnalyzer backed by llm. It loads a tiktoken encoding
// for prompt truncation, falling back to a plain character cutoff if the
// encoding cannot be loaded.
func New(llm llmclient.Client) *DocumentAnalyzer {
	tok, _ := truncate.NewTokenizer("gpt-4o")
	return &DocumentAnalyzer{llm: llm, tokenizer: tok}
}

// Evaluate assesses page against task, folding in the vector store's raw
// similarity score.
func (a *DocumentAnalyzer) Evaluate(ctx context.Context, task domain.SubagentTask, page domain.PageRecord, similarity float64) domain.DocumentEvaluation {
	eval, err := a.evaluateWithLLM(ctx, task, page, similarity)
	if err != nil {
		return a.evaluateHeuristically(task, page, similarity)
	}
	return eval
}

func (a *DocumentAnalyzer) evaluateWithLLM(ctx context.Context, task domain.SubagentTask, page domain.PageRecord, similarity float64) (domain.DocumentEvaluation, error) {
	messages := []llmclient.ChatMessage{
		llmclient.NewSystemMessage("You assess how well a document page serves a research objective. Respond as compact JSON: " +
			`{"relevance_score": 0-1, "key_findings": ["..."], "coverage_areas": ["..."], "quality_score": 0-1, "note": "..."}`),
	}

	prompt := fmt.Sprintf(`OBJECTIVE: %s
FOCUS AREAS: %s
VECTOR SIMILARITY: %.3f

PAGE TEXT (source %s, page %d):
%s`, task.Objective, strings.Join(task.FocusAreas, ", "), similarity, page.DocSource, page.PageNum, a.truncatePageText(page.Text))

	if len(page.ImageBytes) > 0 && page.ImageMime != "" {
		img := llmclient.NewImageBase64Block(base64.StdEncoding.EncodeToString(page.ImageBytes), page.ImageMime)
		messages = append(messages, llmclient.NewMultiModalUserMessage(prompt, img))
	} else {
		messages = append(messages, llmclient.NewUserMessage(prompt))
	}

	resp, err := a.llm.StructuredChat(ctx, messages)
	if err != nil {
		return domain.DocumentEvaluation{}, err
	}

	parsed, err := parseDocumentJudgment(resp)
	if err != nil {
		return domain.DocumentEvaluation{}, err
	}

	return domain.DocumentEvaluation{
		Page:           page,
		RelevanceScore: clamp01(parsed.RelevanceScore),
		KeyFindings:    parsed.KeyFindings,
		CoverageAreas:  parsed.CoverageAreas,
		QualityScore:   clamp01(parsed.QualityScore),
		ExtractionNote: parsed.Note,
	}, nil
}

// evaluateHeuristically scores a page from its vector similarity and a
// cheap keyword-overlap signal, used whenever the LLM path fails.
func (a *DocumentAnalyzer) evaluateHeuristically(task domain.SubagentTask, page domain.PageRecord, similarity float64) domain.DocumentEvaluation {
	multiplier := relevanceMultipliers[task.Specialist]
	if multiplier == 0 {
		multiplier = 1.0
	}

	overlap := sharedmem.ExtractKeywords(page.Text)
	matched := 0
	for _, kw := range task.Keywords {
		for _, o := range overlap {
			if strings.Contains(o, strings.ToLower(kw)) {
				matched++
				break
			}
		}
	}
	keywordBoost := 0.0
	if len(task.Keywords) > 0 {
		keywordBoost = 0.2 * float64(matched) / float64(len(task.Keywords))
	}

	relevance := clamp01(similarity*multiplier + keywordBoost)

	return domain.DocumentEvaluation{
		Page:           page,
		RelevanceScore: relevance,
		KeyFindings:    []string{firstSentence(page.Text)},
		CoverageAreas:  task.FocusAreas,
		QualityScore:   clamp01(similarity),
		ExtractionNote: "heuristic fallback evaluation (LLM unavailable)",
	}
}

type documentJudgment struct {
	RelevanceScore float64  `json:"relevance_score"`
	KeyFindings    []string `json:"key_findings"`
	CoverageAreas  []string `json:"coverage_areas"`
	QualityScore   float64  `json:"quality_score"`
	Note           string   `json:"note"`
}

func parseDocumentJudgment(resp string) (documentJudgment, error) {
	raw := jsonextract.Extract(resp)
	if raw == "" {
		raw = resp
	}
	var j documentJudgment
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		return documentJudgment{}, fmt.Errorf("parse document judgment: %w", err)
	}
	return j, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// truncatePageText bounds page text to maxPageTokens, using the real tiktoken
// encoding when available and a conservative character cutoff otherwise.
func (a *DocumentAnalyzer) truncatePageText(text string) string {
	if a.tokenizer != nil {
		return a.tokenizer.Truncate(text, maxPageTokens)
	}
	const maxChars = 6000
	if len(text) <= maxChars {
		return text
	}
	return text[:maxChars] + "..."
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
