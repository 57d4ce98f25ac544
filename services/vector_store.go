package services

import (
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"pdf-chat-backend/internal/apperrors"
	"pdf-chat-backend/internal/logger"
)

const collectionName = "documents"

// SearchResult is one retrieved chunk with its similarity to the query.
type SearchResult struct {
	Content    string
	Similarity float32
}

// VectorStore owns the persisted chromem index at a fixed directory. All
// access goes through this handle: Replace swaps the entire index under the
// write lock and Search reads under the read lock, loading from disk on
// first use, so an upload can never race a concurrent ask in this process.
type VectorStore struct {
	path string

	mu         sync.RWMutex
	collection *chromem.Collection
}

func NewVectorStore(path string) *VectorStore {
	return &VectorStore{path: path}
}

// Replace destroys any persisted index and rebuilds it from the given chunks
// and their embeddings. It is a full replace, never a merge: afterwards only
// the new content is retrievable.
func (s *VectorStore) Replace(ctx context.Context, chunks []string, embeddings [][]float32) error {
	if len(chunks) == 0 {
		return apperrors.Validation("no chunks to index")
	}
	if len(chunks) != len(embeddings) {
		return apperrors.Dependency(nil, "chunk/embedding count mismatch: %d chunks, %d embeddings", len(chunks), len(embeddings))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.collection = nil
	if err := os.RemoveAll(s.path); err != nil {
		return apperrors.Dependency(err, "failed to remove old index")
	}

	db, err := chromem.NewPersistentDB(s.path, false)
	if err != nil {
		return apperrors.Dependency(err, "failed to create index")
	}
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return apperrors.Dependency(err, "failed to create collection")
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:        uuid.NewString(),
			Content:   chunk,
			Embedding: embeddings[i],
		}
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return apperrors.Dependency(err, "failed to add documents to index")
	}

	s.collection = collection
	logger.Info("vector index replaced", "path", s.path, "chunks", len(chunks))
	return nil
}

// Search returns up to k chunks nearest to the query embedding, most similar
// first. k is clamped to the collection size.
func (s *VectorStore) Search(ctx context.Context, queryEmbedding []float32, k int) ([]SearchResult, error) {
	if err := s.Load(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.collection == nil {
		return nil, errNoIndex()
	}
	if count := s.collection.Count(); k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryEmbedding,
		NResults:       k,
	})
	if err != nil {
		return nil, apperrors.Dependency(err, "index query failed")
	}

	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{Content: r.Content, Similarity: r.Similarity}
	}
	return out, nil
}

// Load opens the persisted index if no handle is open yet. A missing
// directory means no documents were ever processed; an unreadable one is a
// dependency failure.
func (s *VectorStore) Load() error {
	s.mu.RLock()
	loaded := s.collection != nil
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collection != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return errNoIndex()
	}
	db, err := chromem.NewPersistentDB(s.path, false)
	if err != nil {
		return apperrors.Dependency(err, "failed to load index")
	}
	collection := db.GetCollection(collectionName, nil)
	if collection == nil {
		return errNoIndex()
	}

	s.collection = collection
	logger.Info("vector index loaded", "path", s.path, "chunks", collection.Count())
	return nil
}

func errNoIndex() error {
	return apperrors.NotFound("No documents have been processed yet. Please upload files first.")
}
