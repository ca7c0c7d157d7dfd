package site

import (
	"strings"

	"golang.org/x/net/html"

	"mathdoc-be/pkg/lexical"
)

// Assets records which optional client assets a rendered page needs.
type Assets struct {
	Math  bool
	Code  bool
	Table bool
}

// DetectAssets scans rendered HTML for math containers, code blocks and
// tables.
func DetectAssets(page string) Assets {
	var found Assets
	z := html.NewTokenizer(strings.NewReader(page))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return found
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if tag == "table" {
				found.Table = true
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) != "class" {
					continue
				}
				classes := strings.Fields(string(val))
				for _, c := range classes {
					switch {
					case c == "math":
						found.Math = true
					case tag == "code" && strings.HasPrefix(c, "language-"):
						found.Code = true
					}
				}
			}
		}
	}
}

// InjectAssets adds the math, highlighting and table assets the page uses
// just before </head>, or at the end when the page has no head.
func InjectAssets(page string, shell Shell) string {
	needs := DetectAssets(page)

	var sb strings.Builder
	if needs.Math && shell.MathScript != "" {
		sb.WriteString(`<script id="MathJax-script" async src="` + lexical.EscapeAttr(shell.MathScript) + `"></script>` + "\n")
	}
	if needs.Code {
		if shell.HighlightStylesheet != "" {
			sb.WriteString(`<link rel="stylesheet" href="` + lexical.EscapeAttr(shell.HighlightStylesheet) + `">` + "\n")
		}
		if shell.HighlightScript != "" {
			sb.WriteString(`<script src="` + lexical.EscapeAttr(shell.HighlightScript) + `"></script>` + "\n")
			sb.WriteString("<script>document.addEventListener('DOMContentLoaded',function(){hljs.highlightAll()})</script>\n")
		}
	}
	if needs.Table && shell.TableCSS != "" {
		sb.WriteString("<style>" + strings.ReplaceAll(shell.TableCSS, "</", `<\/`) + "</style>\n")
	}
	if sb.Len() == 0 {
		return page
	}

	if i := strings.Index(page, "</head>"); i >= 0 {
		return page[:i] + sb.String() + page[i:]
	}
	return page + sb.String()
}
