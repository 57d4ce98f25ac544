package services

import (
	"context"

	"pdf-chat-backend/internal/apperrors"
	"pdf-chat-backend/internal/logger"
)

// Embedder produces vectors in the index's embedding space. Chunks and
// queries must go through the same implementation.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Indexer embeds chunk text and persists it through the vector store.
type Indexer struct {
	store    *VectorStore
	embedder Embedder
}

func NewIndexer(store *VectorStore, embedder Embedder) *Indexer {
	return &Indexer{store: store, embedder: embedder}
}

// Index replaces the persisted index with the given chunks. The sequence
// must be non-empty; callers validate extraction before getting here.
func (ix *Indexer) Index(ctx context.Context, chunks []string) error {
	if len(chunks) == 0 {
		return apperrors.Validation("no text chunks to index")
	}

	logger.Info("embedding chunks", "count", len(chunks))
	embeddings, err := ix.embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return err
	}

	return ix.store.Replace(ctx, chunks, embeddings)
}
