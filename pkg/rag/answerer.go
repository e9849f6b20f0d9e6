package rag

import (
	"context"
	"fmt"

	"edu-chatbot-be/pkg/dialog"
	"edu-chatbot-be/pkg/embedding"
	"edu-chatbot-be/pkg/llm"
	"edu-chatbot-be/pkg/rag/prompt"
)

// Default retrieval depth, matching the retriever the chunk index was tuned for.
const defaultTopK = 5

// Chunk is a retrieved document chunk with its similarity ordering already
// applied by the store.
type Chunk struct {
	Text string
	Page int
}

// Retriever finds the chunks most similar to a query vector. Implementations
// are scoped to one document.
type Retriever interface {
	Search(ctx context.Context, vector []float32, limit int) ([]Chunk, error)
}

// Answerer produces document-grounded answers: embed the question, retrieve
// the closest chunks, and ask the LLM to answer strictly from them. It
// satisfies the dialog controller's Answerer contract.
type Answerer struct {
	embedder  embedding.EmbeddingProvider
	retriever Retriever
	provider  llm.LLMProvider
	topK      int
}

var _ dialog.Answerer = (*Answerer)(nil)

func NewAnswerer(embedder embedding.EmbeddingProvider, retriever Retriever, provider llm.LLMProvider) *Answerer {
	return &Answerer{
		embedder:  embedder,
		retriever: retriever,
		provider:  provider,
		topK:      defaultTopK,
	}
}

func (a *Answerer) Answer(ctx context.Context, query string) (*dialog.Answer, error) {
	res, err := a.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := a.retriever.Search(ctx, res.Embedding.Values, a.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve chunks: %w", err)
	}

	if len(chunks) == 0 {
		return &dialog.Answer{Text: "Not found."}, nil
	}

	snippets := make([]prompt.Snippet, len(chunks))
	fragments := make([]dialog.Fragment, len(chunks))
	for i, c := range chunks {
		snippets[i] = prompt.Snippet{Text: c.Text, Page: c.Page}
		fragments[i] = dialog.Fragment{Text: c.Text, Page: c.Page}
	}

	answer, err := a.provider.Generate(ctx,
		prompt.BuildGroundedAnswer(snippets, query),
		llm.WithTemperature(0.1),
	)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &dialog.Answer{Text: answer, Fragments: fragments}, nil
}
