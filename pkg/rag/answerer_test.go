package rag

import (
	"context"
	"errors"
	"testing"

	"edu-chatbot-be/pkg/embedding"
	"edu-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	err       error
	taskTypes []string
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.taskTypes = append(f.taskTypes, taskType)
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

type fakeRetriever struct {
	chunks []Chunk
	err    error
	limits []int
}

func (f *fakeRetriever) Search(_ context.Context, _ []float32, limit int) ([]Chunk, error) {
	f.limits = append(f.limits, limit)
	return f.chunks, f.err
}

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	if len(history) > 0 {
		f.prompts = append(f.prompts, history[len(history)-1].Content)
	}
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, p string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: p}}, options...)
}

func TestAnswerer_GroundedAnswer(t *testing.T) {
	embedder := &fakeEmbedder{}
	retriever := &fakeRetriever{chunks: []Chunk{
		{Text: "derivatives measure change", Page: 3},
		{Text: "limits come first", Page: 1},
	}}
	provider := &fakeLLM{response: "A derivative measures instantaneous change."}
	a := NewAnswerer(embedder, retriever, provider)

	answer, err := a.Answer(context.Background(), "What is a derivative?")
	require.NoError(t, err)

	assert.Equal(t, "A derivative measures instantaneous change.", answer.Text)
	require.Len(t, answer.Fragments, 2)
	assert.Equal(t, "derivatives measure change", answer.Fragments[0].Text)
	assert.Equal(t, 3, answer.Fragments[0].Page)

	assert.Equal(t, []string{embedding.TaskRetrievalQuery}, embedder.taskTypes)
	assert.Equal(t, []int{5}, retriever.limits)
	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "derivatives measure change")
	assert.Contains(t, provider.prompts[0], "What is a derivative?")
}

func TestAnswerer_NoChunks(t *testing.T) {
	a := NewAnswerer(&fakeEmbedder{}, &fakeRetriever{}, &fakeLLM{})

	answer, err := a.Answer(context.Background(), "What is a derivative?")
	require.NoError(t, err)

	assert.Equal(t, "Not found.", answer.Text)
	assert.Empty(t, answer.Fragments)
}

func TestAnswerer_ErrorsPropagate(t *testing.T) {
	t.Run("embed failure", func(t *testing.T) {
		a := NewAnswerer(&fakeEmbedder{err: errors.New("quota")}, &fakeRetriever{}, &fakeLLM{})
		_, err := a.Answer(context.Background(), "q")
		assert.Error(t, err)
	})

	t.Run("retrieval failure", func(t *testing.T) {
		a := NewAnswerer(&fakeEmbedder{}, &fakeRetriever{err: errors.New("db gone")}, &fakeLLM{})
		_, err := a.Answer(context.Background(), "q")
		assert.Error(t, err)
	})

	t.Run("llm failure", func(t *testing.T) {
		retriever := &fakeRetriever{chunks: []Chunk{{Text: "x", Page: 1}}}
		a := NewAnswerer(&fakeEmbedder{}, retriever, &fakeLLM{err: errors.New("timeout")})
		_, err := a.Answer(context.Background(), "q")
		assert.Error(t, err)
	})
}
