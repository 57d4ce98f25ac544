package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pdf-chat-backend/internal/apperrors"
	"pdf-chat-backend/internal/pdftest"
)

// keywordEmbedder maps texts onto a tiny fixed vector space by keyword so
// retrieval is deterministic without a live model.
type keywordEmbedder struct{}

func keywordVector(text string) []float32 {
	lower := strings.ToLower(text)
	vec := []float32{0.01, 0.01}
	if strings.Contains(lower, "paris") || strings.Contains(lower, "capital") {
		vec[0] = 1
	}
	if strings.Contains(lower, "channel") || strings.Contains(lower, "goroutine") {
		vec[1] = 1
	}
	return vec
}

func (keywordEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = keywordVector(text)
	}
	return out, nil
}

func (keywordEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return keywordVector(text), nil
}

// echoGenerator returns the prompt itself, exposing exactly what retrieval
// put in front of the model.
type echoGenerator struct{}

func (echoGenerator) GenerateAnswer(_ context.Context, prompt string) (string, error) {
	return prompt, nil
}

type failingEmbedder struct{ err error }

func (f failingEmbedder) EmbedDocuments(context.Context, []string) ([][]float32, error) {
	return nil, f.err
}

func (f failingEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return nil, f.err
}

func TestIndexerRejectsEmptyChunks(t *testing.T) {
	store := NewVectorStore(testStorePath(t))
	indexer := NewIndexer(store, keywordEmbedder{})

	err := indexer.Index(context.Background(), nil)
	if kind := apperrors.KindOf(err); kind != apperrors.KindValidation {
		t.Fatalf("kind = %v, want validation", kind)
	}
}

func TestIndexerPropagatesEmbedderFailure(t *testing.T) {
	store := NewVectorStore(testStorePath(t))
	indexer := NewIndexer(store, failingEmbedder{err: errors.New("quota exhausted")})

	err := indexer.Index(context.Background(), []string{"some chunk"})
	if err == nil || !strings.Contains(err.Error(), "quota exhausted") {
		t.Fatalf("embedder failure not propagated: %v", err)
	}
}

// TestFullIngestPipeline chains the real ingest path end to end: PDF bytes
// through extraction, chunking, and indexing, then retrieval against the
// persisted index, then a second ingest that must fully supersede the first.
func TestFullIngestPipeline(t *testing.T) {
	store := NewVectorStore(testStorePath(t))
	ctx := context.Background()

	queryVec, err := keywordEmbedder{}.EmbedQuery(ctx, "capital of France")
	if err != nil {
		t.Fatalf("embed query: %v", err)
	}
	if _, err := store.Search(ctx, queryVec, DefaultTopK); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("search before ingest: %v, want not_found", err)
	}

	ingest := func(pageText string) {
		t.Helper()
		text := NewPDFExtractor().ExtractText([][]byte{pdftest.Minimal(pageText)})
		chunks, err := NewChunker(0, 0).Split(text)
		if err != nil {
			t.Fatalf("split: %v", err)
		}
		if err := NewIndexer(store, keywordEmbedder{}).Index(ctx, chunks); err != nil {
			t.Fatalf("index: %v", err)
		}
	}

	ingest("The capital of France is Paris.")
	results, err := store.Search(ctx, queryVec, DefaultTopK)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) == 0 || !strings.Contains(results[0].Content, "Paris") {
		t.Fatalf("expected the ingested page back, got %v", results)
	}

	ingest("Goroutines communicate over channels.")
	results, err = store.Search(ctx, queryVec, DefaultTopK)
	if err != nil {
		t.Fatalf("search after re-ingest: %v", err)
	}
	for _, r := range results {
		if strings.Contains(r.Content, "Paris") {
			t.Fatalf("superseded content still retrievable: %q", r.Content)
		}
	}
	if len(results) == 0 || !strings.Contains(results[0].Content, "channels") {
		t.Fatalf("expected only the new page, got %v", results)
	}
}

func TestAnswerRetrievesMatchingChunk(t *testing.T) {
	store := NewVectorStore(testStorePath(t))
	ctx := context.Background()

	chunks := []string{
		"The capital of France is Paris, a city on the Seine.",
		"Goroutines communicate over channels instead of sharing memory.",
	}
	if err := NewIndexer(store, keywordEmbedder{}).Index(ctx, chunks); err != nil {
		t.Fatalf("index: %v", err)
	}

	answerer := NewAnswerer(store, keywordEmbedder{}, echoGenerator{})
	answer, err := answerer.Answer(ctx, "What is the capital of France?")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}

	if !strings.Contains(answer, "Paris") {
		t.Fatalf("retrieved context missing from answer: %q", answer)
	}
	if !strings.Contains(answer, "What is the capital of France?") {
		t.Fatalf("question missing from prompt: %q", answer)
	}
}

func TestAnswerWithoutIndex(t *testing.T) {
	store := NewVectorStore(testStorePath(t))
	answerer := NewAnswerer(store, keywordEmbedder{}, echoGenerator{})

	_, err := answerer.Answer(context.Background(), "anything?")
	if kind := apperrors.KindOf(err); kind != apperrors.KindNotFound {
		t.Fatalf("kind = %v, want not_found", kind)
	}
}

func TestAnswerChecksIndexBeforeEmbedding(t *testing.T) {
	store := NewVectorStore(testStorePath(t))
	answerer := NewAnswerer(store, failingEmbedder{err: errors.New("should not be called")}, echoGenerator{})

	// With no index present the missing-index error wins; the embedder must
	// never run.
	_, err := answerer.Answer(context.Background(), "anything?")
	if kind := apperrors.KindOf(err); kind != apperrors.KindNotFound {
		t.Fatalf("kind = %v, want not_found", kind)
	}
}

func TestAnswerPropagatesGeneratorFailure(t *testing.T) {
	store := NewVectorStore(testStorePath(t))
	ctx := context.Background()

	if err := NewIndexer(store, keywordEmbedder{}).Index(ctx, []string{"a chunk"}); err != nil {
		t.Fatalf("index: %v", err)
	}

	boom := apperrors.Dependency(nil, "model unavailable")
	answerer := NewAnswerer(store, keywordEmbedder{}, failingGenerator{err: boom})
	_, err := answerer.Answer(ctx, "a question?")
	if kind := apperrors.KindOf(err); kind != apperrors.KindDependency {
		t.Fatalf("kind = %v, want dependency", kind)
	}
}

type failingGenerator struct{ err error }

func (f failingGenerator) GenerateAnswer(context.Context, string) (string, error) {
	return "", f.err
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("some retrieved context", "the question?")

	if !strings.Contains(prompt, RefusalAnswer) {
		t.Errorf("prompt missing refusal sentence: %q", prompt)
	}
	ctxPos := strings.Index(prompt, "some retrieved context")
	questionPos := strings.Index(prompt, "the question?")
	if ctxPos < 0 || questionPos < 0 {
		t.Fatalf("prompt missing inputs: %q", prompt)
	}
	if ctxPos > questionPos {
		t.Errorf("context should precede the question: %q", prompt)
	}
	if !strings.HasSuffix(strings.TrimSpace(prompt), "Answer:") {
		t.Errorf("prompt should end with the answer cue: %q", prompt)
	}
}
