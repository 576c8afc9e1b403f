package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
	"github.com/custodia-labs/scout/internal/logger"
)

// Synthesis defaults.
const (
	DefaultStyle       = "concise"
	DefaultTemperature = 0.2
	maxContextChars    = 12000
)

// NoContextMessage is returned when there is nothing to ground an answer on.
const NoContextMessage = "I don’t have any supporting context yet. Try ingesting more sources for this topic."

const (
	fallbackSystemPrompt = "You are a careful research assistant. Use ONLY the provided context blocks to answer.\n" +
		"Cite sources by listing the URLs you relied on. If info is insufficient, say so explicitly.\n" +
		"Structure the reply as:\n" +
		"• A short paragraph answer.\n" +
		"• 3-6 bullet points with key facts.\n" +
		"• A 'Sources:' section with URLs (deduplicated)."
	fallbackUserPrompt = "Question: %s\n\nContext blocks (use these as your only sources; cite their URLs):\n%s\n\nStyle: %s"
)

// Ensure Synthesizer accepts custom prompts.
var _ driven.PromptStoreAware = (*Synthesizer)(nil)

// Synthesizer writes answers grounded in retrieved contexts.
type Synthesizer struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer(llm driven.LLMService) *Synthesizer {
	return &Synthesizer{llm: llm}
}

// SetPromptStore sets the store the answer prompts are loaded from.
func (s *Synthesizer) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Synthesize answers question from contexts. Empty style and a negative
// temperature use the defaults.
func (s *Synthesizer) Synthesize(
	ctx context.Context, question string, contexts []domain.RetrievedContext, style string, temperature float64,
) (*domain.Answer, error) {
	if len(contexts) == 0 {
		return &domain.Answer{Content: NoContextMessage, Citations: []domain.Citation{}}, nil
	}
	if style == "" {
		style = DefaultStyle
	}
	if temperature < 0 {
		temperature = DefaultTemperature
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: s.prompt(driven.PromptAnswerSystem, fallbackSystemPrompt)},
		{Role: driven.RoleUser, Content: s.userMessage(question, contexts, style)},
	}

	content, err := s.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: temperature})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLLMUnavailable, s.llm.ModelName(), err)
	}

	logger.Debug("synthesised %d characters from %d contexts", len(content), len(contexts))
	return &domain.Answer{
		Content:   strings.TrimSpace(content),
		Citations: Citations(contexts),
	}, nil
}

func (s *Synthesizer) prompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	p, err := s.prompts.Load(name)
	if err != nil || p == "" {
		logger.Debug("prompt %s unavailable, using built-in: %v", name, err)
		return fallback
	}
	return p
}

func (s *Synthesizer) userMessage(question string, contexts []domain.RetrievedContext, style string) string {
	tmpl := s.prompt(driven.PromptAnswerUser, fallbackUserPrompt)
	if strings.Count(tmpl, "%s") != 3 {
		logger.Warn("prompt %s must have three %%s placeholders, using built-in", driven.PromptAnswerUser)
		tmpl = fallbackUserPrompt
	}
	return fmt.Sprintf(tmpl, question, FormatContexts(contexts), style)
}

// FormatContexts renders numbered context blocks, truncated to 12000 characters.
func FormatContexts(contexts []domain.RetrievedContext) string {
	blocks := make([]string, len(contexts))
	for i, c := range contexts {
		blocks[i] = fmt.Sprintf("[%d] %s\nURL: %s\n---\n%s\n",
			i+1, strings.TrimSpace(c.Title), strings.TrimSpace(c.URL), strings.TrimSpace(c.Text))
	}
	return truncateRunes(strings.Join(blocks, "\n"), maxContextChars)
}

// Citations returns the contexts' URLs deduplicated in first-seen order.
func Citations(contexts []domain.RetrievedContext) []domain.Citation {
	out := []domain.Citation{}
	seen := make(map[string]struct{})
	for _, c := range contexts {
		u := strings.TrimSpace(c.URL)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, domain.Citation{Title: strings.TrimSpace(c.Title), URL: u})
	}
	return out
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
