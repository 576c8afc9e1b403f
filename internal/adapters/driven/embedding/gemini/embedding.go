// Package gemini embeds text with the Gemini embedding models.
package gemini

import (
	"cmp"
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/custodia-labs/scout/internal/adapters/driven/genaiutil"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultModel      = "gemini-embedding-001"
	DefaultDimensions = 768
	DefaultTimeout    = 60 * time.Second

	// maxBatch is the most contents one batchEmbedContents call accepts.
	maxBatch = 100
)

// Task types. Queries and documents are embedded differently so that a
// question lands near the passages that answer it.
const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

// Config configures the service. APIKey is required.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Timeout    time.Duration
}

// EmbeddingService embeds through the Gemini API. Embed treats its input as
// a search query; EmbedBatch treats its inputs as documents.
type EmbeddingService struct {
	models     *genai.Models
	model      string
	dimensions int32
}

func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = DefaultDimensions
	}

	client, err := genaiutil.NewClient(ctx, cfg.APIKey, cfg.BaseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &EmbeddingService{
		models:     client.Models,
		model:      cmp.Or(cfg.Model, DefaultModel),
		dimensions: int32(dims), //nolint:gosec // small config value
	}, nil
}

func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.embed(ctx, []string{text}, taskQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch splits texts into requests of at most 100 contents.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, part := range batches(texts, maxBatch) {
		vectors, err := s.embed(ctx, part, taskDocument)
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (s *EmbeddingService) embed(ctx context.Context, texts []string, task string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	dims := s.dimensions
	resp, err := s.models.EmbedContent(ctx, s.model, contents, &genai.EmbedContentConfig{
		TaskType:             task,
		OutputDimensionality: &dims,
	})
	if err != nil {
		return nil, genaiutil.WrapError(err)
	}
	return vectorsOf(resp, len(texts))
}

// vectorsOf checks that resp holds one non-empty vector per input.
func vectorsOf(resp *genai.EmbedContentResponse, n int) ([][]float32, error) {
	if resp == nil || len(resp.Embeddings) != n {
		return nil, fmt.Errorf("gemini: embedding count mismatch for %d inputs", n)
	}
	out := make([][]float32, n)
	for i, e := range resp.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, fmt.Errorf("gemini: empty embedding for input %d", i)
		}
		out[i] = e.Values
	}
	return out, nil
}

func batches(texts []string, size int) [][]string {
	var out [][]string
	for len(texts) > 0 {
		n := min(size, len(texts))
		out = append(out, texts[:n])
		texts = texts[n:]
	}
	return out
}

func (s *EmbeddingService) Dimensions() int   { return int(s.dimensions) }
func (s *EmbeddingService) ModelName() string { return s.model }

// Ping embeds a one-word query, which checks both key and model.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.Embed(ctx, "ping"); err != nil {
		return fmt.Errorf("gemini: ping: %w", err)
	}
	return nil
}

func (s *EmbeddingService) Close() error { return nil }
