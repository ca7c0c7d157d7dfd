package lexical

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// EscapeText escapes &, <, >, " and ' for use in HTML text.
func EscapeText(s string) string {
	return html.EscapeString(s)
}

// EscapeAttr escapes a value for a double-quoted HTML attribute.
func EscapeAttr(s string) string {
	return html.EscapeString(s)
}

type urlPolicy int

const (
	linkURL urlPolicy = iota
	imageURL
	frameURL
)

const (
	blockedLinkURL  = "#"
	blockedFrameURL = "about:blank"
)

// SafeLinkURL returns u when it is a relative, fragment, http(s), mailto or
// tel URL, and "#" otherwise.
func SafeLinkURL(u string) string {
	return sanitizeURL(u, linkURL)
}

func sanitizeURL(raw string, policy urlPolicy) string {
	blocked := blockedLinkURL
	switch policy {
	case imageURL:
		blocked = ""
	case frameURL:
		blocked = blockedFrameURL
	}

	// Browsers drop control characters and whitespace inside a scheme
	// ("java\tscript:"), so they are removed before the scheme is read.
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
	if cleaned == "" {
		return blocked
	}

	u, err := url.Parse(cleaned)
	if err != nil {
		return blocked
	}

	switch strings.ToLower(u.Scheme) {
	case "":
		if policy == frameURL && u.Host == "" {
			return blocked
		}
		return cleaned
	case "http", "https":
		return cleaned
	case "mailto", "tel":
		if policy == linkURL {
			return cleaned
		}
	case "data":
		if policy == imageURL && strings.HasPrefix(strings.ToLower(cleaned), "data:image/") {
			return cleaned
		}
	}
	return blocked
}

var (
	cssValueRE   = regexp.MustCompile(`^[a-zA-Z0-9#%.,\s()-]+$`)
	cssBannedRE  = regexp.MustCompile(`(?i)(url|expression|image|element|var)\s*\(`)
	classTokenRE = regexp.MustCompile(`[^a-z0-9-]+`)
)

// safeCSSValue reports whether v can be placed in a style declaration
// without closing it or pulling in external resources.
func safeCSSValue(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || len(v) > 64 {
		return "", false
	}
	if !cssValueRE.MatchString(v) || cssBannedRE.MatchString(v) {
		return "", false
	}
	return v, true
}

// classToken lowercases s and collapses everything but letters, digits and
// hyphens into single hyphens.
func classToken(s string) string {
	s = classTokenRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(s, "-")
}

// languageToken keeps only letters, digits and hyphens.
func languageToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
