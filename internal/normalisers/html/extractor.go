package html

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	nethtml "golang.org/x/net/html"

	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

const (
	// fallbackMaxLen caps body text when no content container qualifies.
	fallbackMaxLen = 3000

	// minBlockLen is the length a <p>/<li> must exceed to be kept.
	minBlockLen = 30
)

// boilerplateSelector matches elements that never carry article text.
const boilerplateSelector = "script, style, noscript, iframe, canvas, svg, template, header, footer, nav, aside, form"

// noisePatterns are class/id fragments of site furniture.
var noisePatterns = []string{
	"cookie", "advert", "promo", "subscribe", "signup",
	"share", "social", "breadcrumb", "footer",
}

// candidateSelectors are known article containers, checked before generic blocks.
var candidateSelectors = []string{
	"article", "main", "[role=main]", "[itemprop=articleBody]",
	".article", ".article-body", ".post", ".post-content", ".entry-content",
	"#content", "#main", ".content",
}

var (
	noiseSelector = buildNoiseSelector()

	reTrailingSpace = regexp.MustCompile(`[ \t]+\n`)
	reBlankLines    = regexp.MustCompile(`\n{3,}`)
	reSpaceRuns     = regexp.MustCompile(`[ \t]{2,}`)
	reSiteName      = regexp.MustCompile(`^\s*(?:[A-Za-z0-9\-\|: ]{1,80}\n){0,2}`)
)

func buildNoiseSelector() string {
	parts := make([]string, 0, len(noisePatterns)*2)
	for _, p := range noisePatterns {
		parts = append(parts, `[class*="`+p+`"]`, `[id*="`+p+`"]`)
	}
	return strings.Join(parts, ", ")
}

// Extractor pulls title and readable text out of HTML pages.
type Extractor struct{}

// New creates a new readable-text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the page title and main text. It never fails: input that
// cannot be parsed, or that has no content, yields empty fields.
func (e *Extractor) Extract(rawHTML, url string) domain.ExtractedDoc {
	out := domain.ExtractedDoc{URL: url}
	if strings.TrimSpace(rawHTML) == "" {
		return out
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return out
	}

	out.Title = extractTitle(doc)
	stripBoilerplate(doc.Selection)

	var text string
	if best := pickBest(doc); best != nil {
		text = mainText(best)
	} else {
		body := doc.Find("body")
		if body.Length() == 0 {
			body = doc.Selection
		}
		text = truncateRunes(collapseWhitespace(nodeText(body, "\n")), fallbackMaxLen)
	}

	if text != "" {
		text = reSiteName.ReplaceAllString(text, "")
	}
	out.Text = text
	return out
}

// extractTitle applies og:title, twitter:title, first <h1>, <title> in that order.
func extractTitle(doc *goquery.Document) string {
	metas := []string{`meta[property="og:title"]`, `meta[name="twitter:title"]`}
	for _, sel := range metas {
		if v, ok := doc.Find(sel).First().Attr("content"); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}

	if h1 := nodeText(doc.Find("h1").First(), " "); h1 != "" {
		return h1
	}

	return strings.TrimSpace(doc.Find("title").First().Text())
}

// stripBoilerplate removes layout chrome and site furniture under root.
func stripBoilerplate(root *goquery.Selection) {
	root.Find(boilerplateSelector).Remove()
	root.Find(noiseSelector).Not("html, body").Remove()
}

// candidates yields known containers first, then div/section blocks with
// at least two paragraphs, each node once, in document order per group.
func candidates(doc *goquery.Document) []*goquery.Selection {
	seen := make(map[*nethtml.Node]bool)
	var out []*goquery.Selection

	add := func(s *goquery.Selection) {
		n := s.Get(0)
		if seen[n] {
			return
		}
		seen[n] = true
		out = append(out, s)
	}

	for _, sel := range candidateSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) { add(s) })
	}
	doc.Find("div, section").Each(func(_ int, s *goquery.Selection) {
		if s.Find("p").Length() >= 2 {
			add(s)
		}
	})

	return out
}

// pickBest returns the highest scoring candidate, or nil if none scores above zero.
func pickBest(doc *goquery.Document) *goquery.Selection {
	var (
		best      *goquery.Selection
		bestScore float64
	)
	for _, c := range candidates(doc) {
		if s := Score(c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

// mainText re-cleans the winning node in isolation and keeps its
// substantial paragraphs and list items.
func mainText(best *goquery.Selection) string {
	fragment, err := goquery.OuterHtml(best)
	if err != nil {
		return collapseWhitespace(nodeText(best, " "))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseWhitespace(nodeText(best, " "))
	}
	stripBoilerplate(doc.Selection)

	var parts []string
	doc.Find("p, li").Each(func(_ int, s *goquery.Selection) {
		if t := nodeText(s, " "); utf8.RuneCountInString(t) > minBlockLen {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		parts = append(parts, nodeText(doc.Selection, " "))
	}

	return collapseWhitespace(strings.Join(parts, "\n\n"))
}

// nodeText joins the trimmed, non-empty text nodes under sel with sep.
func nodeText(sel *goquery.Selection, sep string) string {
	var parts []string
	var walk func(n *nethtml.Node)
	walk = func(n *nethtml.Node) {
		if n.Type == nethtml.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, sep)
}

// collapseWhitespace normalises NBSPs, trailing spaces, blank line runs and space runs.
func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = reTrailingSpace.ReplaceAllString(s, "\n")
	s = reBlankLines.ReplaceAllString(s, "\n\n")
	s = reSpaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
