package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength bounds namespace slugs.
const MaxSlugLength = 60

// DefaultSlug is used when a topic has no ASCII letters or digits.
const DefaultSlug = "topic"

// Slugify derives a namespace from a topic: NFKD-decomposed, ASCII only,
// runs of other characters collapsed to "-", lowercased, at most
// MaxSlugLength characters.
func Slugify(topic string) string {
	decomposed := norm.NFKD.String(topic)

	var b strings.Builder
	b.Grow(len(decomposed))
	dash := false
	for _, r := range decomposed {
		switch {
		case r > unicode.MaxASCII:
			// Combining marks left by NFKD are dropped without a separator.
			if unicode.Is(unicode.Mn, r) {
				continue
			}
			dash = true
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(unicode.ToLower(r))
		default:
			dash = true
		}
	}

	slug := b.String()
	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	if slug == "" {
		return DefaultSlug
	}
	return slug
}
