package vectorstore

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	chromem "github.com/philippgille/chromem-go"
	"github.com/google/uuid"

	"github.com/aqua777/go-research-orchestrator/domain"
)

// ChromemStore is a Store backed by an in-process chromem-go collection. It
// mirrors rag/store/chromem's node-to-document conversion, adapted from
// schema.Node to domain.PageRecord.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewChromemStore opens (or creates) a collection. An empty persistPath
// keeps the store in memory only.
func NewChromemStore(persistPath, collectionName string) (*ChromemStore, error) {
	var db *chromem.DB
	if persistPath != "" {
		var err error
		db, err = chromem.NewPersistentDB(persistPath, false)
		if err != nil {
			return nil, fmt.Errorf("create persistent chromem db: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get or create collection: %w", err)
	}

	return &ChromemStore{db: db, collection: collection}, nil
}

func (s *ChromemStore) AddPages(ctx context.Context, pages []domain.PageRecord) ([]string, error) {
	docs := make([]chromem.Document, len(pages))
	ids := make([]string, len(pages))

	for i, page := range pages {
		if len(page.Embedding) == 0 {
			return nil, fmt.Errorf("page %s#%d has no embedding", page.DocSource, page.PageNum)
		}

		id := uuid.New().String()
		meta := map[string]string{
			"doc_source": page.DocSource,
			"page_num":   strconv.Itoa(page.PageNum),
		}
		for k, v := range page.Metadata {
			meta[k] = v
		}

		docs[i] = chromem.Document{
			ID:        id,
			Content:   page.Text,
			Metadata:  meta,
			Embedding: page.Embedding,
		}
		ids[i] = id
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("add documents to chromem collection: %w", err)
	}
	return ids, nil
}

func (s *ChromemStore) Query(ctx context.Context, embedding []float32, topK int, docSource string) ([]domain.PageRecord, []float64, error) {
	var where map[string]string
	if docSource != "" {
		where = map[string]string{"doc_source": docSource}
	}

	results, err := s.collection.QueryEmbedding(ctx, embedding, topK, where, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("query chromem collection: %w", err)
	}

	pages := make([]domain.PageRecord, len(results))
	scores := make([]float64, len(results))
	for i, res := range results {
		pageNum, _ := strconv.Atoi(res.Metadata["page_num"])
		meta := make(map[string]string, len(res.Metadata))
		for k, v := range res.Metadata {
			if k == "doc_source" || k == "page_num" {
				continue
			}
			meta[k] = v
		}
		pages[i] = domain.PageRecord{
			DocSource: res.Metadata["doc_source"],
			PageNum:   pageNum,
			Text:      res.Content,
			Metadata:  meta,
		}
		scores[i] = float64(res.Similarity)
	}
	return pages, scores, nil
}

func (s *ChromemStore) Delete(ctx context.Context, docSource string) error {
	return s.collection.Delete(ctx, map[string]string{"doc_source": docSource}, nil)
}

var _ Store = (*ChromemStore)(nil)
