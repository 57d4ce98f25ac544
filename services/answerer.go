package services

import (
	"context"
	"fmt"
	"strings"

	"pdf-chat-backend/internal/logger"
)

// DefaultTopK is how many chunks are retrieved per question. Four matches
// the stock retriever behavior this service reproduces.
const DefaultTopK = 4

// RefusalAnswer is the fixed sentence the model is told to emit when the
// retrieved context does not contain the answer.
const RefusalAnswer = "The answer is not available in the provided documents."

const answerPromptTemplate = `Answer the question as detailed as possible from the provided context.
Make sure to provide all the details. If the answer is not in the provided context,
just say, "%s"
Do not provide a speculative or incorrect answer.

Context:
%s

Question:
%s

Answer:
`

// Generator produces an answer from a fully rendered prompt.
type Generator interface {
	GenerateAnswer(ctx context.Context, prompt string) (string, error)
}

// Answerer retrieves the chunks nearest a question and has the generative
// model compose an answer from them.
type Answerer struct {
	store     *VectorStore
	embedder  Embedder
	generator Generator
	topK      int
}

func NewAnswerer(store *VectorStore, embedder Embedder, generator Generator) *Answerer {
	return &Answerer{
		store:     store,
		embedder:  embedder,
		generator: generator,
		topK:      DefaultTopK,
	}
}

// Answer runs the retrieve-and-generate pipeline for one question. The index
// must already exist; that is checked before anything touches the model API
// so asking with nothing uploaded never needs a credential.
func (a *Answerer) Answer(ctx context.Context, question string) (string, error) {
	if err := a.store.Load(); err != nil {
		return "", err
	}

	queryEmbedding, err := a.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return "", err
	}

	results, err := a.store.Search(ctx, queryEmbedding, a.topK)
	if err != nil {
		return "", err
	}
	logger.Debug("retrieved context chunks", "count", len(results))

	contexts := make([]string, len(results))
	for i, r := range results {
		contexts[i] = r.Content
	}
	prompt := BuildPrompt(strings.Join(contexts, "\n\n"), question)

	return a.generator.GenerateAnswer(ctx, prompt)
}

// BuildPrompt renders the fixed template with the retrieved context block
// and the user question.
func BuildPrompt(contextBlock, question string) string {
	return fmt.Sprintf(answerPromptTemplate, RefusalAnswer, contextBlock, question)
}
