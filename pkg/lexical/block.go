package lexical

import (
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

const iframeSandbox = "allow-scripts allow-same-origin allow-popups"

func (r *Renderer) blocks(sb *strings.Builder, nodes []Node, depth int) {
	for _, n := range nodes {
		r.block(sb, n, depth)
	}
}

// block dispatches on the node type. Every case is independent and writes
// a complete element.
func (r *Renderer) block(sb *strings.Builder, n Node, depth int) {
	if depth > r.maxDepth {
		sb.WriteString(truncatedBlock)
		return
	}

	switch t := strings.ToLower(n.Type); t {
	case "root":
		r.blocks(sb, n.Children, depth+1)

	case "paragraph":
		sb.WriteString("<p" + alignAttr(n.Align) + ">")
		r.inlines(sb, n.Children, depth+1)
		sb.WriteString("</p>")

	case "heading":
		tag := "h" + strconv.Itoa(headingLevel(n.Tag))
		sb.WriteString("<" + tag + alignAttr(n.Align) + ">")
		r.inlines(sb, n.Children, depth+1)
		sb.WriteString("</" + tag + ">")

	case "list":
		r.list(sb, n, depth)

	case "listitem":
		r.listItem(sb, n, n.Checked != nil, depth)

	case "quote":
		sb.WriteString("<blockquote>")
		r.flow(sb, n.Children, depth+1)
		sb.WriteString("</blockquote>")

	case "code":
		sb.WriteString(`<pre><code class="language-`)
		sb.WriteString(EscapeAttr(codeLanguage(n.Language)))
		sb.WriteString(`">`)
		sb.WriteString(EscapeText(codeText(n)))
		sb.WriteString("</code></pre>")

	case "image", "sketch", "graph":
		r.figure(sb, n, depth)

	case "horizontalrule":
		sb.WriteString("<hr/>")

	case "equation", "math":
		if n.Inline {
			sb.WriteString(`<span class="math math-inline">\(` + EscapeText(n.Equation) + `\)</span>`)
		} else {
			sb.WriteString(`<div class="math math-display">\[` + EscapeText(n.Equation) + `\]</div>`)
		}

	case "table":
		sb.WriteString("<table>")
		r.blocks(sb, n.Children, depth+1)
		sb.WriteString("</table>")

	case "tablerow":
		sb.WriteString("<tr>")
		r.blocks(sb, n.Children, depth+1)
		sb.WriteString("</tr>")

	case "tablecell":
		r.tableCell(sb, n, depth)

	case "layoutcontainer":
		r.layout(sb, n, depth)

	case "layoutitem":
		sb.WriteString(`<div class="layout-item">`)
		r.flow(sb, n.Children, depth+1)
		sb.WriteString("</div>")

	case "iframe":
		sb.WriteString(`<iframe src="` + EscapeAttr(sanitizeURL(n.Src, frameURL)) + `"`)
		sb.WriteString(sizeAttrs(n))
		sb.WriteString(` sandbox="` + iframeSandbox + `" loading="lazy"></iframe>`)

	case "details", "collapsible-container":
		r.details(sb, n, depth)

	case "detailssummary", "collapsible-title":
		sb.WriteString("<summary>")
		r.inlines(sb, n.Children, depth+1)
		sb.WriteString("</summary>")

	case "collapsible-content":
		r.flow(sb, n.Children, depth+1)

	default:
		if isInlineType(t) {
			r.inline(sb, n, depth)
			return
		}
		if t == "" && n.HasChildList() {
			r.flow(sb, n.Children, depth+1)
			return
		}
		name := n.Type
		if name == "" {
			name = "(missing)"
		}
		sb.WriteString(`<div class="lexical-unknown">Unknown node type: ` + EscapeText(name) + `</div>`)
	}
}

func (r *Renderer) list(sb *strings.Builder, n Node, depth int) {
	tag := "ol"
	attrs := ""
	switch strings.ToLower(n.ListType) {
	case "bullet":
		tag = "ul"
	case "check":
		attrs = ` class="checklist"`
	default:
		if n.Start > 1 {
			attrs = ` start="` + strconv.Itoa(n.Start) + `"`
		}
	}
	check := strings.EqualFold(n.ListType, "check")

	sb.WriteString("<" + tag + attrs + ">")
	for _, child := range n.Children {
		if strings.EqualFold(child.Type, "listitem") {
			if depth+1 > r.maxDepth {
				sb.WriteString(truncatedBlock)
				continue
			}
			r.listItem(sb, child, check, depth+1)
			continue
		}
		r.block(sb, child, depth+1)
	}
	sb.WriteString("</" + tag + ">")
}

// listItem keeps nested lists inside the same <li>.
func (r *Renderer) listItem(sb *strings.Builder, n Node, check bool, depth int) {
	switch {
	case check && n.Checked != nil && *n.Checked:
		sb.WriteString(`<li class="checked">`)
	case check:
		sb.WriteString(`<li class="unchecked">`)
	default:
		sb.WriteString("<li>")
	}
	r.flow(sb, n.Children, depth+1)
	sb.WriteString("</li>")
}

func (r *Renderer) figure(sb *strings.Builder, n Node, depth int) {
	sb.WriteString(`<figure><img src="`)
	sb.WriteString(EscapeAttr(sanitizeURL(n.Src, imageURL)))
	sb.WriteString(`" alt="`)
	sb.WriteString(EscapeAttr(n.AltText))
	sb.WriteString(`"`)
	sb.WriteString(sizeAttrs(n))
	sb.WriteString("/>")
	if len(n.Caption) > 0 {
		var caption strings.Builder
		r.inlines(&caption, n.Caption, depth+1)
		if caption.Len() > 0 {
			sb.WriteString("<figcaption>" + caption.String() + "</figcaption>")
		}
	}
	sb.WriteString("</figure>")
}

func (r *Renderer) tableCell(sb *strings.Builder, n Node, depth int) {
	tag := "td"
	if n.HeaderState != 0 {
		tag = "th"
	}
	sb.WriteString("<" + tag)
	if n.ColSpan > 1 {
		sb.WriteString(` colspan="` + strconv.Itoa(n.ColSpan) + `"`)
	}
	if n.RowSpan > 1 {
		sb.WriteString(` rowspan="` + strconv.Itoa(n.RowSpan) + `"`)
	}
	width, _ := n.Width.CSS()
	sb.WriteString(styleAttr("width", width, "background-color", n.BackgroundColor))
	sb.WriteString(">")
	r.flow(sb, n.Children, depth+1)
	sb.WriteString("</" + tag + ">")
}

func (r *Renderer) layout(sb *strings.Builder, n Node, depth int) {
	class := "layout-container"
	if token := classToken(n.Align); token != "" {
		class += " layout-" + token
	}
	sb.WriteString(`<div class="` + class + `" style="display:flex;flex-wrap:wrap">`)

	basis := ""
	if len(n.Children) > 0 {
		pct := math.Round(100/float64(len(n.Children))*1e4) / 1e4
		basis = strconv.FormatFloat(pct, 'f', -1, 64)
	}
	for _, item := range n.Children {
		if !strings.EqualFold(item.Type, "layoutitem") {
			r.block(sb, item, depth+1)
			continue
		}
		if depth+1 > r.maxDepth {
			sb.WriteString(truncatedBlock)
			continue
		}
		sb.WriteString(`<div class="layout-item" style="flex:0 0 ` + basis + `%">`)
		r.flow(sb, item.Children, depth+2)
		sb.WriteString("</div>")
	}
	sb.WriteString("</div>")
}

func (r *Renderer) details(sb *strings.Builder, n Node, depth int) {
	summaryIdx := -1
	for i, child := range n.Children {
		t := strings.ToLower(child.Type)
		if t == "detailssummary" || t == "collapsible-title" {
			summaryIdx = i
			break
		}
	}

	sb.WriteString("<details><summary>")
	if summaryIdx >= 0 {
		r.inlines(sb, n.Children[summaryIdx].Children, depth+2)
	} else {
		sb.WriteString("Details")
	}
	sb.WriteString("</summary><div>")
	for i, child := range n.Children {
		if i == summaryIdx {
			continue
		}
		if isInlineNode(child) {
			r.inline(sb, child, depth+1)
		} else {
			r.block(sb, child, depth+1)
		}
	}
	sb.WriteString("</div></details>")
}

func alignAttr(align string) string {
	switch a := strings.ToLower(strings.TrimSpace(align)); a {
	case "center", "right", "justify", "start", "end":
		return ` style="text-align:` + a + `"`
	}
	return ""
}

// headingLevel reads "h3", "3" or 3 and falls back to 2.
func headingLevel(tag string) int {
	tag = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tag)), "h")
	level, err := strconv.Atoi(tag)
	if err != nil || level < 1 || level > 6 {
		return 2
	}
	return level
}

func sizeAttrs(n Node) string {
	var attrs string
	if w, ok := n.Width.Pixels(); ok {
		attrs += ` width="` + strconv.Itoa(w) + `"`
	}
	if h, ok := n.Height.Pixels(); ok {
		attrs += ` height="` + strconv.Itoa(h) + `"`
	}
	return attrs
}

// codeLanguage resolves aliases to a canonical lexer name and reduces the
// result to letters, digits and hyphens.
func codeLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return "text"
	}
	if lexer := lexers.Get(lang); lexer != nil {
		if cfg := lexer.Config(); cfg != nil && len(cfg.Aliases) > 0 {
			if token := languageToken(cfg.Aliases[0]); token != "" {
				return token
			}
		}
	}
	if token := languageToken(lang); token != "" {
		return token
	}
	return "text"
}

// codeText returns the verbatim code, falling back to the text of the
// highlighted child runs the editor stores.
func codeText(n Node) string {
	if n.Code != "" || len(n.Children) == 0 {
		return n.Code
	}
	var sb strings.Builder
	for _, child := range n.Children {
		switch strings.ToLower(child.Type) {
		case "linebreak":
			sb.WriteString("\n")
		default:
			sb.WriteString(child.Text)
		}
	}
	return sb.String()
}
