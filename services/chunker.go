package services

import (
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize and DefaultChunkOverlap govern how extracted text is
	// cut into retrievable pieces. Both are character counts, not tokens.
	DefaultChunkSize    = 10000
	DefaultChunkOverlap = 1000
)

// chunkSeparators orders break-point preference: paragraph, then line, then
// word, then hard character cut.
var chunkSeparators = []string{"\n\n", "\n", " ", ""}

// Chunker splits extracted text into overlapping segments sized for
// embedding and retrieval.
type Chunker struct {
	splitter textsplitter.RecursiveCharacter
}

// NewChunker builds a Chunker. Size or overlap values <= 0 fall back to the
// defaults.
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap <= 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators(chunkSeparators),
		),
	}
}

// Split returns the ordered chunk sequence for text. Blank input yields an
// empty result; rejecting that is the Indexer's job, not the Chunker's.
func (c *Chunker) Split(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return c.splitter.SplitText(text)
}
