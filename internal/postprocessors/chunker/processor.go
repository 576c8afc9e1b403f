// Package chunker splits document text into overlapping, content-addressed chunks.
//
// Sizes are measured in estimated tokens (four characters each). Text is
// split on the coarsest natural boundary that occurs (paragraph, line,
// sentence, word) and recursively on finer ones for oversized pieces;
// the pieces are then merged greedily into windows that share a tail of
// overlap tokens with their predecessor.
package chunker

import (
	"crypto/sha1" //nolint:gosec // content address, not a security boundary
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// DefaultChunkSize is the default number of tokens per chunk.
const DefaultChunkSize = 800

// DefaultChunkOverlap is the default number of overlapping tokens.
const DefaultChunkOverlap = 120

// CharsPerToken is the character-to-token ratio used for size estimates.
const CharsPerToken = 4

// idPrefixLen is the number of leading characters hashed into a chunk ID.
const idPrefixLen = 40

var sentenceEnd = regexp.MustCompile(`[.!?] `)

// separator splits text after each occurrence of a boundary, keeping the
// boundary on the preceding piece. It returns fewer than two pieces when
// the boundary does not occur.
type separator func(string) []string

var separators = []separator{
	literal("\n\n"),
	literal("\n"),
	sentences,
	literal(" "),
}

func literal(sep string) separator {
	return func(s string) []string {
		if !strings.Contains(s, sep) {
			return nil
		}
		return nonEmpty(strings.SplitAfter(s, sep))
	}
}

func sentences(s string) []string {
	ends := sentenceEnd.FindAllStringIndex(s, -1)
	if len(ends) == 0 {
		return nil
	}
	pieces := make([]string, 0, len(ends)+1)
	start := 0
	for _, loc := range ends {
		pieces = append(pieces, s[start:loc[1]])
		start = loc[1]
	}
	pieces = append(pieces, s[start:])
	return nonEmpty(pieces)
}

func nonEmpty(pieces []string) []string {
	out := pieces[:0]
	for _, p := range pieces {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Processor splits text into overlapping chunks.
// It implements the Chunker interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in tokens.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in tokens.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Chunk splits text from url into ordered chunks with deterministic IDs.
// Pieces are trimmed and empty pieces dropped; Order counts kept pieces.
func (p *Processor) Chunk(text, url, title string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	pieces := p.Split(text)
	chunks := make([]domain.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		order := len(chunks)
		chunks = append(chunks, domain.Chunk{
			ID:    ChunkID(url, order, piece),
			URL:   url,
			Title: title,
			Order: order,
			Text:  piece,
		})
	}

	return chunks
}

// Split returns the untrimmed text windows for text.
func (p *Processor) Split(text string) []string {
	return p.split(text, 0)
}

func (p *Processor) maxChars() int {
	return p.chunkSize * CharsPerToken
}

func (p *Processor) overlapChars() int {
	return p.overlap * CharsPerToken
}

func (p *Processor) split(text string, level int) []string {
	if runeLen(text) <= p.maxChars() {
		return []string{text}
	}

	for i := level; i < len(separators); i++ {
		pieces := separators[i](text)
		if len(pieces) < 2 {
			continue
		}
		return p.mergeOrDescend(pieces, i+1)
	}

	return p.merge(splitRunes(text))
}

// mergeOrDescend merges runs of pieces that fit and recurses into pieces that don't.
func (p *Processor) mergeOrDescend(pieces []string, next int) []string {
	var out, pending []string
	for _, piece := range pieces {
		if runeLen(piece) <= p.maxChars() {
			pending = append(pending, piece)
			continue
		}
		if len(pending) > 0 {
			out = append(out, p.merge(pending)...)
			pending = nil
		}
		out = append(out, p.split(piece, next)...)
	}
	if len(pending) > 0 {
		out = append(out, p.merge(pending)...)
	}
	return out
}

// merge packs consecutive splits into windows of at most maxChars,
// carrying up to overlapChars of trailing splits into the next window.
func (p *Processor) merge(splits []string) []string {
	var (
		windows []string
		current []string
		total   int
	)
	for _, s := range splits {
		n := runeLen(s)
		if total+n > p.maxChars() && len(current) > 0 {
			windows = append(windows, strings.Join(current, ""))
			for total > p.overlapChars() || (total+n > p.maxChars() && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, s)
		total += n
	}
	if len(current) > 0 {
		windows = append(windows, strings.Join(current, ""))
	}
	return windows
}

// ChunkID returns hex(sha1(url|order|prefix)) where prefix is the first
// 40 characters of text with newlines flattened to spaces.
func ChunkID(url string, order int, text string) string {
	prefix := text
	if runeLen(prefix) > idPrefixLen {
		prefix = string([]rune(prefix)[:idPrefixLen])
	}
	prefix = strings.ReplaceAll(prefix, "\n", " ")

	sum := sha1.Sum([]byte(url + "|" + strconv.Itoa(order) + "|" + prefix)) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])
}

// EstimateTokens approximates the token count of s.
func EstimateTokens(s string) int {
	return (runeLen(s) + CharsPerToken - 1) / CharsPerToken
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
