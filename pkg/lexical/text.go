package lexical

import (
	"strings"
	"unicode/utf8"
)

// PlainText returns the readable text of the document with blocks separated
// by newlines. Markup, URLs and media are dropped; equations keep their source.
func PlainText(doc *Document) string {
	if doc == nil || doc.Root == nil {
		return ""
	}
	var sb strings.Builder
	writePlain(&sb, *doc.Root, 0)
	return strings.TrimSpace(sb.String())
}

func writePlain(sb *strings.Builder, n Node, depth int) {
	if depth > DefaultMaxDepth {
		return
	}
	switch strings.ToLower(n.Type) {
	case "text", "tab", "hashtag", "code-highlight":
		sb.WriteString(n.Text)
	case "linebreak":
		sb.WriteString("\n")
	case "equation", "math":
		sb.WriteString(n.Equation)
	case "code":
		sb.WriteString(codeText(n))
		sb.WriteString("\n")
	case "paragraph", "heading", "listitem", "quote", "tablerow", "detailssummary":
		for _, child := range n.Children {
			writePlain(sb, child, depth+1)
		}
		sb.WriteString("\n")
	case "tablecell":
		for _, child := range n.Children {
			writePlain(sb, child, depth+1)
		}
		sb.WriteString(" ")
	default:
		for _, child := range n.Children {
			writePlain(sb, child, depth+1)
		}
	}
}

// Excerpt returns at most limit runes of the document's plain text on a
// single line, cut at a word boundary and suffixed with "…" when shortened.
func Excerpt(doc *Document, limit int) string {
	text := strings.Join(strings.Fields(PlainText(doc)), " ")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
