package site

import (
	"errors"
	"sort"
	"strings"
	"time"

	"mathdoc-be/pkg/lexical"
)

// ErrHandleExhausted is returned when no free handle variant was found.
var ErrHandleExhausted = errors.New("site: no free handle")

const dateLayout = "2006-01-02"

// Meta is the per-document metadata shown around the body.
type Meta struct {
	Title  string
	Author string
	Date   time.Time
}

// IndexEntry is one row of the aggregate index page.
type IndexEntry struct {
	Handle  string
	Title   string
	Author  string
	Date    time.Time
	Excerpt string
}

// Assembler turns editor state into complete HTML pages.
type Assembler struct {
	renderer *lexical.Renderer
	shell    Shell
}

// NewAssembler creates an assembler; a nil renderer uses the defaults.
func NewAssembler(renderer *lexical.Renderer, shell Shell) *Assembler {
	if renderer == nil {
		renderer = lexical.NewRenderer()
	}
	return &Assembler{renderer: renderer, shell: shell}
}

// Renderer returns the document renderer in use.
func (a *Assembler) Renderer() *lexical.Renderer {
	return a.renderer
}

// Shell returns the page chrome in use.
func (a *Assembler) Shell() Shell {
	return a.shell
}

// RenderBody renders the document body. It never fails: structural errors
// and panics produce the render-error fragment.
func (a *Assembler) RenderBody(input any) (body string) {
	defer func() {
		if rec := recover(); rec != nil {
			body = lexical.FallbackRenderError
		}
	}()
	return a.renderer.RenderHTML(input)
}

// RenderPage renders input inside the page shell with the given metadata.
func (a *Assembler) RenderPage(input any, meta Meta) string {
	return a.Page(a.RenderBody(input), meta)
}

// ErrorPage is the page written for a document that failed to export.
func (a *Assembler) ErrorPage(meta Meta) string {
	return a.Page(lexical.FallbackRenderError, meta)
}

// Page wraps an already rendered body in the shell and injects the assets
// the body needs.
func (a *Assembler) Page(body string, meta Meta) string {
	var sb strings.Builder
	a.writeHead(&sb, meta.Title)

	sb.WriteString(`<main><article class="post">` + "\n")
	sb.WriteString(`<header class="post-header"><h1 class="post-title">` + lexical.EscapeText(meta.Title) + `</h1>`)
	sb.WriteString(`<p class="post-meta">`)
	if meta.Author != "" {
		sb.WriteString(`<span class="post-author">` + lexical.EscapeText(meta.Author) + `</span>`)
	}
	if !meta.Date.IsZero() {
		sb.WriteString(` <time datetime="` + meta.Date.UTC().Format(time.RFC3339) + `">` + meta.Date.UTC().Format(dateLayout) + `</time>`)
	}
	sb.WriteString("</p></header>\n")
	sb.WriteString(`<div class="post-content">` + body + "</div>\n")
	sb.WriteString("</article></main>\n")

	a.writeFoot(&sb)
	return InjectAssets(sb.String(), a.shell)
}

// RenderIndex renders the listing of all posts, newest first.
func (a *Assembler) RenderIndex(entries []IndexEntry) string {
	sorted := make([]IndexEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].Title < sorted[j].Title
	})

	var sb strings.Builder
	a.writeHead(&sb, a.shell.SiteTitle)
	sb.WriteString(`<main><h1>` + lexical.EscapeText(a.shell.SiteTitle) + "</h1>\n")
	if len(sorted) == 0 {
		sb.WriteString("<p>No posts yet.</p>\n")
	} else {
		sb.WriteString(`<ul class="post-index">` + "\n")
		for _, e := range sorted {
			sb.WriteString(`<li><a href="` + lexical.EscapeAttr(Handle(e.Handle)) + `/">` + lexical.EscapeText(e.Title) + `</a>`)
			if !e.Date.IsZero() {
				sb.WriteString(` <time datetime="` + e.Date.UTC().Format(time.RFC3339) + `">` + e.Date.UTC().Format(dateLayout) + `</time>`)
			}
			if e.Author != "" {
				sb.WriteString(` <span class="post-author">` + lexical.EscapeText(e.Author) + `</span>`)
			}
			if e.Excerpt != "" {
				sb.WriteString(`<p class="excerpt">` + lexical.EscapeText(e.Excerpt) + `</p>`)
			}
			sb.WriteString("</li>\n")
		}
		sb.WriteString("</ul>\n")
	}
	sb.WriteString("</main>\n")
	a.writeFoot(&sb)
	return sb.String()
}

func (a *Assembler) writeHead(sb *strings.Builder, title string) {
	lang := a.shell.Lang
	if lang == "" {
		lang = "en"
	}
	fullTitle := title
	if a.shell.SiteTitle != "" && title != a.shell.SiteTitle {
		fullTitle = title + " | " + a.shell.SiteTitle
	}

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString(`<html lang="` + lexical.EscapeAttr(lang) + `">` + "\n")
	sb.WriteString("<head>\n")
	sb.WriteString(`<meta charset="utf-8">` + "\n")
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	sb.WriteString("<title>" + lexical.EscapeText(fullTitle) + "</title>\n")
	for _, href := range a.shell.Stylesheets {
		sb.WriteString(`<link rel="stylesheet" href="` + lexical.EscapeAttr(lexical.SafeLinkURL(href)) + `">` + "\n")
	}
	sb.WriteString("</head>\n<body>\n")

	sb.WriteString(`<header class="site-header"><a class="site-title" href="` + lexical.EscapeAttr(lexical.SafeLinkURL(a.shell.BasePath)) + `">`)
	sb.WriteString(lexical.EscapeText(a.shell.SiteTitle) + "</a>")
	if len(a.shell.Nav) > 0 {
		sb.WriteString("<nav>")
		for _, l := range a.shell.Nav {
			sb.WriteString(`<a href="` + lexical.EscapeAttr(lexical.SafeLinkURL(l.URL)) + `">` + lexical.EscapeText(l.Title) + "</a>")
		}
		sb.WriteString("</nav>")
	}
	sb.WriteString("</header>\n")
}

func (a *Assembler) writeFoot(sb *strings.Builder) {
	if a.shell.Footer != "" {
		sb.WriteString(`<footer class="site-footer">` + lexical.EscapeText(a.shell.Footer) + "</footer>\n")
	}
	sb.WriteString("</body>\n</html>\n")
}
