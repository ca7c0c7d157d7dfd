package lexical

import (
	"strings"
)

// formatTags is the wrap order for the format bitmask, innermost first.
var formatTags = []struct {
	bit int
	tag string
}{
	{FormatBold, "strong"},
	{FormatItalic, "em"},
	{FormatUnderline, "u"},
	{FormatStrikethrough, "s"},
	{FormatCode, "code"},
	{FormatSubscript, "sub"},
	{FormatSuperscript, "sup"},
	{FormatHighlight, "mark"},
}

func isInlineType(t string) bool {
	switch t {
	case "text", "tab", "hashtag", "code-highlight", "linebreak", "link", "autolink":
		return true
	}
	return false
}

// isInlineNode reports whether n belongs in running text.
func isInlineNode(n Node) bool {
	t := strings.ToLower(n.Type)
	if isInlineType(t) {
		return true
	}
	return (t == "equation" || t == "math") && n.Inline
}

func (r *Renderer) inlines(sb *strings.Builder, nodes []Node, depth int) {
	for _, n := range nodes {
		r.inline(sb, n, depth)
	}
}

func (r *Renderer) inline(sb *strings.Builder, n Node, depth int) {
	if depth > r.maxDepth {
		sb.WriteString(truncatedInline)
		return
	}

	switch t := strings.ToLower(n.Type); t {
	case "text", "tab", "hashtag", "code-highlight":
		sb.WriteString(formatText(n))

	case "linebreak":
		sb.WriteString("<br/>")

	case "link", "autolink":
		sb.WriteString(`<a href="`)
		sb.WriteString(EscapeAttr(sanitizeURL(n.URL, linkURL)))
		sb.WriteString(`" target="_blank" rel="noopener noreferrer">`)
		r.inlines(sb, n.Children, depth+1)
		sb.WriteString("</a>")

	case "equation", "math", "image", "sketch", "graph", "iframe":
		r.block(sb, n, depth)

	default:
		// Unknown inline nodes contribute their children, if any
		r.inlines(sb, n.Children, depth+1)
	}
}

// formatText escapes the text run and applies the format and style wrappers.
func formatText(n Node) string {
	s := EscapeText(n.Text)
	for _, f := range formatTags {
		if n.Format&f.bit != 0 {
			s = "<" + f.tag + ">" + s + "</" + f.tag + ">"
		}
	}
	if decl := ParseStyle(n.Style).Declarations(textStyleWhitelist); decl != "" {
		s = `<span style="` + EscapeAttr(decl) + `">` + s + "</span>"
	}
	return s
}

// flow renders children that may mix inline runs and blocks.
func (r *Renderer) flow(sb *strings.Builder, nodes []Node, depth int) {
	for _, n := range nodes {
		if isInlineNode(n) {
			r.inline(sb, n, depth)
		} else {
			r.block(sb, n, depth)
		}
	}
}
