package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
	"github.com/custodia-labs/scout/internal/retry"
)

// fastPolicy keeps retry tests quick.
func fastPolicy(maxRetries int) retry.Policy {
	p := retry.NewPolicy(maxRetries)
	p.InitialBackoff = time.Millisecond
	p.MaxBackoff = 2 * time.Millisecond
	p.Jitter = 0
	return p
}

// --- Search ---

type mockSearchProvider struct {
	mu      sync.Mutex
	results []domain.SearchHit
	errs    []error // returned in order, then results
	calls   int
	lastNum int
}

func (m *mockSearchProvider) Name() string { return "mock" }

func (m *mockSearchProvider) Search(_ context.Context, _ string, num int) ([]domain.SearchHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastNum = num
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return nil, err
	}
	return m.results, nil
}

// --- Fetch and extract ---

type mockFetcher struct {
	mu    sync.Mutex
	pages map[string]domain.FetchedPage
	calls []string
}

func (m *mockFetcher) Fetch(_ context.Context, url string) domain.FetchedPage {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, url)
	if p, ok := m.pages[url]; ok {
		return p
	}
	return domain.FetchedPage{URL: url, Status: 404}
}

// mockExtractor treats the HTML as "title|text".
type mockExtractor struct{}

func (mockExtractor) Extract(html, url string) domain.ExtractedDoc {
	title, text, _ := strings.Cut(html, "|")
	return domain.ExtractedDoc{URL: url, Title: title, Text: text}
}

// mockChunker splits text on "||".
type mockChunker struct{}

func (mockChunker) Name() string { return "mock" }

func (mockChunker) Chunk(text, url, title string) []domain.Chunk {
	var out []domain.Chunk
	for _, piece := range strings.Split(text, "||") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		out = append(out, domain.Chunk{
			ID:    url + "#" + string(rune('a'+len(out))),
			URL:   url,
			Title: title,
			Order: len(out),
			Text:  piece,
		})
	}
	return out
}

// --- Embedding ---

// mockEmbedding derives vectors from keyword presence: [go, rust, other].
type mockEmbedding struct {
	mu        sync.Mutex
	batchErrs map[string][]error // keyed by a batch's first text, returned in order
	embedErr  error
	short     bool // return one vector too few
	calls     int
	batches   [][]string
}

func keywordVector(text string) []float32 {
	lower := strings.ToLower(text)
	v := []float32{0, 0, 0.1}
	if strings.Contains(lower, "go") {
		v[0] = 1
	}
	if strings.Contains(lower, "rust") {
		v[1] = 1
	}
	return v
}

func (m *mockEmbedding) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return keywordVector(text), nil
}

func (m *mockEmbedding) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	m.batches = append(m.batches, texts)
	var err error
	if errs := m.batchErrs[texts[0]]; len(errs) > 0 {
		err = errs[0]
		m.batchErrs[texts[0]] = errs[1:]
	}
	short := m.short
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, keywordVector(t))
	}
	if short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbedding) Dimensions() int             { return 3 }
func (m *mockEmbedding) ModelName() string           { return "mock-embed" }
func (m *mockEmbedding) Ping(_ context.Context) error { return nil }
func (m *mockEmbedding) Close() error                { return nil }

// --- LLM ---

type mockLLM struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return m.Chat(ctx, []driven.ChatMessage{{Role: driven.RoleUser, Content: prompt}}, driven.ChatOptions{})
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.messages = messages
	m.opts = opts
	return m.response, m.err
}

func (m *mockLLM) ModelName() string           { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                { return nil }

// --- Prompts ---

type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockPromptStore) Reload() {}

// --- Ingest / QA doubles for the agent ---

type mockIngest struct {
	summary *domain.IngestSummary
	err     error
	calls   []string
}

func (m *mockIngest) Ingest(_ context.Context, topic, namespace string) (*domain.IngestSummary, error) {
	m.calls = append(m.calls, topic+"@"+namespace)
	if m.err != nil {
		return nil, m.err
	}
	s := *m.summary
	s.Namespace = namespace
	return &s, nil
}

type mockQA struct {
	answer   *domain.Answer
	err      error
	lastTopK int
}

func (m *mockQA) Answer(_ context.Context, _, _ string, topK int) (*domain.Answer, error) {
	m.lastTopK = topK
	return m.answer, m.err
}

// --- Vector store failing on demand ---

type failingStore struct {
	driven.VectorStore
	err error
}

func (f failingStore) CollectionExists(context.Context, string) (bool, error) { return false, f.err }
func (f failingStore) EnsureCollection(context.Context, string, string) error { return f.err }
func (f failingStore) ListCollections(context.Context, string) ([]driven.CollectionInfo, error) {
	return nil, f.err
}
