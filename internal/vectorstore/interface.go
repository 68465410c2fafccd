// Package vectorstore defines the VectorStore port subagents search
// against, plus a chromem-go backed implementation.
package vectorstore

import (
	"context"

	"github.com/aqua777/go-research-orchestrator/domain"
)

// Store is the port every subagent searches through. It is deliberately
// narrower than a full document index: page-level add/query/delete only,
// since ingestion proper is out of scope.
type Store interface {
	// AddPages indexes pages by their precomputed Embedding, returning their
	// assigned IDs.
	AddPages(ctx context.Context, pages []domain.PageRecord) ([]string, error)
	// Query returns the topK pages most similar to the query embedding,
	// optionally restricted to docSource.
	Query(ctx context.Context, embedding []float32, topK int, docSource string) ([]domain.PageRecord, []float64, error)
	// Delete removes every page belonging to docSource.
	Delete(ctx context.Context, docSource string) error
}
