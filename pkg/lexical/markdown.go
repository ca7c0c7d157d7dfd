package lexical

import (
	"fmt"
	"strings"
)

// MarkdownWriter converts Lexical editor state to Markdown
type MarkdownWriter struct{}

// NewMarkdownWriter creates a new Markdown writer
func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

// Convert converts a parsed or textual Lexical document to Markdown
func (w *MarkdownWriter) Convert(input any) (string, error) {
	doc, err := ParseDocument(input)
	if err != nil {
		return "", fmt.Errorf("failed to parse lexical json: %w", err)
	}

	var sb strings.Builder
	w.walkNode(*doc.Root, &sb, 0, 0)
	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

// MarkdownOrRaw returns the Markdown for content when it is Lexical JSON,
// and content itself otherwise.
func MarkdownOrRaw(content string) string {
	// Quick check if it looks like Lexical
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") || !strings.Contains(trimmed, `"root"`) {
		return content
	}

	md, err := NewMarkdownWriter().Convert(trimmed)
	if err != nil {
		return content
	}
	return md
}

// walkNode traverses the tree and writes markdown
func (w *MarkdownWriter) walkNode(node Node, sb *strings.Builder, listDepth, depth int) {
	if depth > DefaultMaxDepth {
		return
	}

	switch strings.ToLower(node.Type) {
	case "root":
		for _, child := range node.Children {
			w.walkNode(child, sb, listDepth, depth+1)
			sb.WriteString("\n")
		}

	case "paragraph":
		w.writeChildren(node, sb, depth)
		sb.WriteString("\n")

	case "heading":
		sb.WriteString(strings.Repeat("#", headingLevel(node.Tag)) + " ")
		w.writeChildren(node, sb, depth)
		sb.WriteString("\n")

	case "text", "tab", "hashtag", "code-highlight":
		w.handleText(node, sb)

	case "linebreak":
		sb.WriteString("  \n")

	case "list":
		w.handleList(node, sb, listDepth, depth)

	// ListItems are handled by handleList to ensure correct marking (bullet/number/check)
	case "listitem":
		w.writeChildren(node, sb, depth)

	case "quote":
		var inner strings.Builder
		w.writeChildren(node, &inner, depth)
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			sb.WriteString("> " + line + "\n")
		}

	case "code":
		lang := ""
		if node.Language != "" {
			lang = codeLanguage(node.Language)
		}
		sb.WriteString("```" + lang + "\n" + codeText(node) + "\n```\n")

	case "equation", "math":
		if node.Inline {
			sb.WriteString("$" + node.Equation + "$")
		} else {
			sb.WriteString("$$\n" + node.Equation + "\n$$\n")
		}

	case "image", "sketch", "graph":
		if src := sanitizeURL(node.Src, imageURL); src != "" {
			sb.WriteString(fmt.Sprintf("![%s](%s)", escapeMarkdownLabel(node.AltText), src))
		}

	case "table":
		w.handleTable(node, sb, depth)

	case "link", "autolink":
		w.handleLink(node, sb, depth)

	case "horizontalrule":
		sb.WriteString("---\n")

	case "details", "collapsible-container":
		w.handleDetails(node, sb, depth)

	default:
		// Generic recursion
		w.writeChildren(node, sb, depth)
	}
}

func (w *MarkdownWriter) writeChildren(node Node, sb *strings.Builder, depth int) {
	for _, child := range node.Children {
		w.walkNode(child, sb, 0, depth+1)
	}
}

func (w *MarkdownWriter) handleText(node Node, sb *strings.Builder) {
	text := node.Text
	if text == "" {
		return
	}

	// Annotations
	decl := ParseStyle(node.Style).Declarations(textStyleWhitelist)
	if decl != "" {
		sb.WriteString(`<span style="` + EscapeAttr(decl) + `">`)
	}

	isBold := node.Format&FormatBold != 0
	isItalic := node.Format&FormatItalic != 0
	isUnderline := node.Format&FormatUnderline != 0
	isCode := node.Format&FormatCode != 0
	isStrike := node.Format&FormatStrikethrough != 0

	// Apply wrappers (Code > Bold > Italic > Underline > Strike)
	// Markdown doesn't support underline natively everywhere, using HTML <u>
	if isCode {
		sb.WriteString("`")
	}
	if isBold {
		sb.WriteString("**")
	}
	if isItalic {
		sb.WriteString("_")
	}
	if isUnderline {
		sb.WriteString("<u>")
	}
	if isStrike {
		sb.WriteString("~~")
	}

	sb.WriteString(text)

	if isStrike {
		sb.WriteString("~~")
	}
	if isUnderline {
		sb.WriteString("</u>")
	}
	if isItalic {
		sb.WriteString("_")
	}
	if isBold {
		sb.WriteString("**")
	}
	if isCode {
		sb.WriteString("`")
	}

	if decl != "" {
		sb.WriteString("</span>")
	}
}

func (w *MarkdownWriter) handleLink(node Node, sb *strings.Builder, depth int) {
	// Standard MD link: [text](url)
	sb.WriteString("[")
	w.writeChildren(node, sb, depth)
	sb.WriteString(fmt.Sprintf("](%s)", sanitizeURL(node.URL, linkURL)))
}

func (w *MarkdownWriter) handleList(node Node, sb *strings.Builder, listDepth, depth int) {
	index := 1
	if node.Start > 0 {
		index = node.Start
	}

	for _, child := range node.Children {
		// Only process listitems
		if !strings.EqualFold(child.Type, "listitem") {
			continue
		}

		// Indentation for nested lists (2 spaces per level)
		sb.WriteString(strings.Repeat("  ", listDepth))

		switch strings.ToLower(node.ListType) {
		case "number":
			sb.WriteString(fmt.Sprintf("%d. ", index))
			index++
		case "check":
			if child.Checked != nil && *child.Checked {
				sb.WriteString("- [x] ")
			} else {
				sb.WriteString("- [ ] ")
			}
		default:
			sb.WriteString("- ")
		}

		// A nested list appears as a child of the list item
		for _, grandChild := range child.Children {
			if strings.EqualFold(grandChild.Type, "list") {
				sb.WriteString("\n")
				w.handleList(grandChild, sb, listDepth+1, depth+2)
				continue
			}
			w.walkNode(grandChild, sb, listDepth, depth+2)
		}
		if !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteString("\n")
		}
	}
}

func (w *MarkdownWriter) handleTable(node Node, sb *strings.Builder, depth int) {
	// 1. Extract grid data
	var rows [][]string
	maxCols := 0

	for _, row := range node.Children {
		if !strings.EqualFold(row.Type, "tablerow") {
			continue
		}

		var rowData []string
		for _, cell := range row.Children {
			var cellSb strings.Builder
			for _, content := range cell.Children {
				w.walkNode(content, &cellSb, 0, depth+3)
			}
			// Newlines and pipes break MD tables
			clean := strings.TrimSpace(strings.ReplaceAll(cellSb.String(), "\n", " "))
			rowData = append(rowData, strings.ReplaceAll(clean, "|", `\|`))
		}
		rows = append(rows, rowData)
		if len(rowData) > maxCols {
			maxCols = len(rowData)
		}
	}

	if len(rows) == 0 {
		return
	}

	// 2. Render Markdown Table, first row as header
	writeRow := func(row []string) {
		sb.WriteString("|")
		for i := 0; i < maxCols; i++ {
			if i < len(row) {
				sb.WriteString(" " + row[i] + " |")
			} else {
				sb.WriteString("  |")
			}
		}
		sb.WriteString("\n")
	}

	writeRow(rows[0])
	sb.WriteString("|" + strings.Repeat("---|", maxCols) + "\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
}

func (w *MarkdownWriter) handleDetails(node Node, sb *strings.Builder, depth int) {
	summary := "Details"
	var body strings.Builder
	found := false
	for _, child := range node.Children {
		t := strings.ToLower(child.Type)
		if !found && (t == "detailssummary" || t == "collapsible-title") {
			var s strings.Builder
			w.writeChildren(child, &s, depth+1)
			summary = strings.TrimSpace(s.String())
			found = true
			continue
		}
		w.walkNode(child, &body, 0, depth+1)
	}
	sb.WriteString("<details><summary>" + summary + "</summary>\n\n")
	sb.WriteString(strings.TrimRight(body.String(), "\n") + "\n\n</details>\n")
}

func escapeMarkdownLabel(s string) string {
	return strings.NewReplacer("[", `\[`, "]", `\]`).Replace(s)
}
