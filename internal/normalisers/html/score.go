package html

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Scoring weights.
const (
	paragraphWeight   = 40.0
	linkDensityWeight = 120.0
	headingBonus      = 80.0
	figureBonus       = 40.0
	rolePenalty       = 150.0
	classPenalty      = 200.0
	lengthExponent    = 0.9
)

var navHints = []string{"nav", "menu", "footer", "header", "sidebar"}

// Score rates how likely node is the main article body.
// It depends only on the subtree rooted at node.
func Score(node *goquery.Selection) float64 {
	if nodeText(node, " ") == "" {
		return 0
	}

	paragraphs := node.Find("p")
	pLen := 0
	paragraphs.Each(func(_ int, p *goquery.Selection) {
		pLen += utf8.RuneCountInString(nodeText(p, " "))
	})

	score := math.Pow(float64(pLen), lengthExponent) +
		float64(paragraphs.Length())*paragraphWeight -
		LinkDensity(node)*linkDensityWeight

	if node.Find("h1, h2").Length() > 0 {
		score += headingBonus
	}
	if node.Find("figure, img").Length() > 0 {
		score += figureBonus
	}

	return score - navPenalty(node)
}

// LinkDensity is the share of node text that sits inside anchors, capped at 1.
func LinkDensity(node *goquery.Selection) float64 {
	text := nodeText(node, " ")
	if text == "" {
		return 0
	}

	var links []string
	node.Find("a").Each(func(_ int, a *goquery.Selection) {
		links = append(links, nodeText(a, " "))
	})
	linkLen := utf8.RuneCountInString(strings.Join(links, " "))

	return math.Min(1, float64(linkLen)/float64(utf8.RuneCountInString(text)))
}

func navPenalty(node *goquery.Selection) float64 {
	var penalty float64
	if role, _ := node.Attr("role"); role == "navigation" || role == "banner" {
		penalty += rolePenalty
	}

	class, _ := node.Attr("class")
	id, _ := node.Attr("id")
	hints := strings.ToLower(class + " " + id)
	for _, h := range navHints {
		if strings.Contains(hints, h) {
			penalty += classPenalty
			break
		}
	}
	return penalty
}
