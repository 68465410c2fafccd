package embedding

import "context"

// EmbeddingModel generates vector embeddings for text. A document page is
// embedded once at ingest time via GetTextEmbedding; a user query is
// embedded per search round via GetQueryEmbedding, which some providers
// treat differently from document embedding (e.g. asymmetric models).
type EmbeddingModel interface {
	GetTextEmbedding(ctx context.Context, text string) ([]float64, error)
	GetQueryEmbedding(ctx context.Context, query string) ([]float64, error)
}
