package lexical

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultMaxDepth bounds how deep the renderer descends into nested nodes.
	DefaultMaxDepth = 128

	// FallbackNoContent is returned when the root carries no children array.
	FallbackNoContent = `<p>No content available.</p>`
	// FallbackRenderError replaces a document that could not be rendered.
	FallbackRenderError = `<div class="render-error">Content could not be rendered.</div>`

	truncatedBlock  = `<div class="lexical-truncated">Content nested too deeply.</div>`
	truncatedInline = `<span class="lexical-truncated"></span>`
)

// ErrRenderPanic is returned by Render when the tree walk panicked.
var ErrRenderPanic = errors.New("lexical: render panicked")

// Renderer converts Lexical editor state into HTML. A Renderer holds no
// mutable state and is safe for concurrent use.
type Renderer struct {
	maxDepth int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMaxDepth sets the nesting limit; values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(r *Renderer) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// NewRenderer creates a renderer with the given options applied.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxDepth returns the configured nesting limit.
func (r *Renderer) MaxDepth() int {
	return r.maxDepth
}

// Fingerprint identifies the options that influence output, for cache keys.
func (r *Renderer) Fingerprint() string {
	return fmt.Sprintf("lexical-html/v1/depth=%d", r.maxDepth)
}

// Render parses input and returns the HTML for root.children. Structural
// problems (not an object, no root) are returned as errors.
func (r *Renderer) Render(input any) (out string, err error) {
	doc, err := ParseDocument(input)
	if err != nil {
		return "", err
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = ""
			err = fmt.Errorf("%w: %v", ErrRenderPanic, rec)
		}
	}()

	return r.RenderDocument(doc), nil
}

// RenderHTML is Render with every failure turned into a fallback fragment.
func (r *Renderer) RenderHTML(input any) string {
	out, err := r.Render(input)
	if err != nil {
		return FallbackRenderError
	}
	return out
}

// RenderDocument renders the children of doc's root in order.
func (r *Renderer) RenderDocument(doc *Document) string {
	if doc == nil || doc.Root == nil || !doc.Root.HasChildList() {
		return FallbackNoContent
	}
	var sb strings.Builder
	for _, child := range doc.Root.Children {
		r.block(&sb, child, 1)
	}
	return sb.String()
}

// RenderBlock renders a single block node.
func (r *Renderer) RenderBlock(node Node) string {
	var sb strings.Builder
	r.block(&sb, node, 0)
	return sb.String()
}

// RenderInline renders a single inline node.
func (r *Renderer) RenderInline(node Node) string {
	var sb strings.Builder
	r.inline(&sb, node, 0)
	return sb.String()
}

// RenderInlines renders a sequence of inline nodes with no separator.
func (r *Renderer) RenderInlines(nodes []Node) string {
	var sb strings.Builder
	r.inlines(&sb, nodes, 0)
	return sb.String()
}

var defaultRenderer = NewRenderer()

// Render renders input with the default renderer.
func Render(input any) (string, error) {
	return defaultRenderer.Render(input)
}

// RenderHTML renders input with the default renderer, never failing.
func RenderHTML(input any) string {
	return defaultRenderer.RenderHTML(input)
}
