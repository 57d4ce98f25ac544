package ai

import (
	"context"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"pdf-chat-backend/internal/apperrors"
)

const (
	// EmbeddingModelName embeds both document chunks and questions; retrieval
	// only works when the two sides share one embedding space.
	EmbeddingModelName = "text-embedding-004"

	// GenerativeModelName and its temperature are fixed behavior, not config.
	GenerativeModelName = "gemini-2.5-flash"

	generationTemperature = 0.3
)

// Gemini talks to the Google Generative AI API for embeddings and answer
// generation. The API key is resolved on every call rather than at
// construction, so the process starts fine without one and only the first
// call that actually needs the key fails.
type Gemini struct {
	lookupKey func() string
}

// NewGemini resolves the key from GOOGLE_API_KEY, falling back to
// GEMINI_API_KEY.
func NewGemini() *Gemini {
	return &Gemini{lookupKey: keyFromEnv}
}

// NewGeminiWithKeyFunc overrides key resolution. Used by tests.
func NewGeminiWithKeyFunc(lookup func() string) *Gemini {
	return &Gemini{lookupKey: lookup}
}

func keyFromEnv() string {
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GEMINI_API_KEY")
}

func (g *Gemini) newClient(ctx context.Context) (*genai.Client, error) {
	key := g.lookupKey()
	if key == "" {
		return nil, apperrors.Dependency(nil, "GOOGLE_API_KEY not found in .env file. Please check your .env file.")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, apperrors.Dependency(err, "failed to create Gemini client")
	}
	return client, nil
}

// EmbedDocuments embeds all texts in one batch call, preserving input order.
func (g *Gemini) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	client, err := g.newClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	em := client.EmbeddingModel(EmbeddingModelName)
	batch := em.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, apperrors.Dependency(err, "failed to embed documents")
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, apperrors.Dependency(nil, "embedding count mismatch: got %d for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, embedding := range resp.Embeddings {
		if embedding == nil || len(embedding.Values) == 0 {
			return nil, apperrors.Dependency(nil, "no embedding returned for document %d", i)
		}
		vectors[i] = embedding.Values
	}
	return vectors, nil
}

// EmbedQuery embeds a single question string.
func (g *Gemini) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	client, err := g.newClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	resp, err := client.EmbeddingModel(EmbeddingModelName).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, apperrors.Dependency(err, "failed to embed query")
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, apperrors.Dependency(nil, "no embedding returned")
	}
	return resp.Embedding.Values, nil
}

// GenerateAnswer runs a rendered prompt through the generative model and
// returns the concatenated text parts of the first candidate.
func (g *Gemini) GenerateAnswer(ctx context.Context, prompt string) (string, error) {
	client, err := g.newClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(GenerativeModelName)
	model.SetTemperature(generationTemperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", apperrors.Dependency(err, "failed to generate answer")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", apperrors.Dependency(nil, "model returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
