package domain

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters removed during URL normalisation.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"gclid":        {},
	"fbclid":       {},
	"igshid":       {},
	"mc_cid":       {},
	"mc_eid":       {},
	"_hsenc":       {},
	"_hsmi":        {},
}

// IsHTTPURL reports whether raw parses as an absolute http or https URL.
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// NormaliseURL strips the fragment and tracking parameters from raw.
// The remaining query keeps its original order. It returns false for
// anything that is not an absolute http(s) URL.
func NormaliseURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if !IsHTTPURL(raw) {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Fragment = ""
	u.RawFragment = ""

	if u.RawQuery != "" {
		kept := make([]string, 0, 4)
		for _, pair := range strings.Split(u.RawQuery, "&") {
			if pair == "" {
				continue
			}
			key := pair
			if i := strings.IndexByte(pair, '='); i >= 0 {
				key = pair[:i]
			}
			if unescaped, err := url.QueryUnescape(key); err == nil {
				key = unescaped
			}
			if _, drop := trackingParams[strings.ToLower(key)]; drop {
				continue
			}
			kept = append(kept, pair)
		}
		u.RawQuery = strings.Join(kept, "&")
	}
	u.ForceQuery = false

	return u.String(), true
}

// DomainOf returns the lowercased host (with port) of raw, or "".
func DomainOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
