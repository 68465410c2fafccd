// Package synthesize implements conflict detection, quality assessment, and
// final-answer synthesis from a batch of subagent results.
package synthesize

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/aqua777/go-research-orchestrator/domain"
	"github.com/aqua777/go-research-orchestrator/internal/jsonextract"
	"github.com/aqua777/go-research-orchestrator/internal/llmclient"
)

// confidenceDeltaThreshold is how far apart two results' confidence levels
// must be before the higher-confidence one simply wins the conflict instead
// of requiring a reasoned resolution.
const confidenceDeltaThreshold = 0.2

// ConflictResolver finds and resolves disagreements between subagent
// results.
type ConflictResolver struct {
	llm llmclient.Client
}

// NewConflictResolver builds a ConflictResolver backed by llm.
func NewConflictResolver(llm llmclient.Client) *ConflictResolver {
	return &ConflictResolver{llm: llm}
}

// Resolve compares every pair of results and returns the conflicts found,
// each carrying its resolution.
func (r *ConflictResolver) Resolve(ctx context.Context, results []domain.SubagentResult) []domain.Conflict {
	var conflicts []domain.Conflict
	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			a, b := results[i], results[j]
			if a.Err != nil || b.Err != nil || a.FinalInformation == "" || b.FinalInformation == "" {
				continue
			}
			if conflict, found := r.detect(ctx, a, b); found {
				conflicts = append(conflicts, conflict)
			}
		}
	}
	return conflicts
}

func (r *ConflictResolver) detect(ctx context.Context, a, b domain.SubagentResult) (domain.Conflict, bool) {
	prompt := fmt.Sprintf(`Two research specialists produced findings for the
same investigation. Determine whether they materially disagree.

SPECIALIST A (%s): %s

SPECIALIST B (%s): %s

Respond as compact JSON: {"conflict": true/false, "conflict_type": "...",
"description": "..."}`, a.Specialist, a.FinalInformation, b.Specialist, b.FinalInformation)

	resp, err := r.llm.StructuredChat(ctx, []llmclient.ChatMessage{
		llmclient.NewSystemMessage("You detect factual or interpretive disagreements between research findings."),
		llmclient.NewUserMessage(prompt),
	})
	if err != nil {
		return domain.Conflict{}, false
	}

	raw := jsonextract.Extract(resp)
	if raw == "" {
		raw = resp
	}
	var judgment struct {
		Conflict     bool   `json:"conflict"`
		ConflictType string `json:"conflict_type"`
		Description  string `json:"description"`
	}
	if err := json.Unmarshal([]byte(raw), &judgment); err != nil || !judgment.Conflict {
		return domain.Conflict{}, false
	}

	return domain.Conflict{
		TaskIDA:      a.TaskID,
		TaskIDB:      b.TaskID,
		ConflictType: judgment.ConflictType,
		Description:  judgment.Description,
		Resolution:   resolution(a, b, judgment.ConflictType),
	}, true
}

// resolution decides which side's account to prefer: a clear confidence gap
// settles it outright, otherwise the conflict is flagged as needing the
// synthesizer to present both perspectives.
func resolution(a, b domain.SubagentResult, conflictType string) string {
	delta := a.ConfidenceLevel - b.ConfidenceLevel
	switch {
	case delta >= confidenceDeltaThreshold:
		return fmt.Sprintf("favoring %s's account (higher confidence: %.2f vs %.2f)", a.Specialist, a.ConfidenceLevel, b.ConfidenceLevel)
	case delta <= -confidenceDeltaThreshold:
		return fmt.Sprintf("favoring %s's account (higher confidence: %.2f vs %.2f)", b.Specialist, b.ConfidenceLevel, a.ConfidenceLevel)
	case conflictType == "factual":
		return "confidence levels are too close to call; flagged for the synthesizer to present both accounts with attribution"
	default:
		return "presenting both perspectives as complementary rather than contradictory"
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
