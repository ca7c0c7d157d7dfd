package lexical

import (
	"strings"
)

// StyleMap represents parsed CSS styles
type StyleMap map[string]string

// ParseStyle parses a CSS style string into a map
// Example: "color: #F97316; background-color: #BFDBFE;"
func ParseStyle(styleStr string) StyleMap {
	styles := make(StyleMap)
	if styleStr == "" {
		return styles
	}

	parts := strings.Split(styleStr, ";")
	for _, part := range parts {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) == 2 {
			k := strings.ToLower(strings.TrimSpace(kv[0]))
			v := strings.TrimSpace(kv[1])
			if k != "" && v != "" {
				styles[k] = v
			}
		}
	}
	return styles
}

// textStyleWhitelist lists the text run properties carried into the output
var textStyleWhitelist = []string{"color", "background-color", "font-size", "font-family", "text-transform"}

// Declarations returns the whitelisted properties whose values pass the
// CSS value check, in whitelist order, as "k:v;k:v".
func (s StyleMap) Declarations(whitelist []string) string {
	var relevant []string
	for _, k := range whitelist {
		v, ok := s[k]
		if !ok {
			continue
		}
		if safe, ok := safeCSSValue(v); ok {
			relevant = append(relevant, k+":"+safe)
		}
	}
	return strings.Join(relevant, ";")
}

// styleAttr builds a style attribute (with leading space) from ordered
// property/value pairs, skipping empty or unsafe values.
func styleAttr(pairs ...string) string {
	var decls []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if v, ok := safeCSSValue(pairs[i+1]); ok {
			decls = append(decls, pairs[i]+":"+v)
		}
	}
	if len(decls) == 0 {
		return ""
	}
	return ` style="` + EscapeAttr(strings.Join(decls, ";")) + `"`
}
