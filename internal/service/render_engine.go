package service

import (
	"context"

	"mathdoc-be/pkg/lexical"
	"mathdoc-be/pkg/rendercache"
)

// renderEngine renders stored editor state, memoizing successful renders
// when a cache is configured.
type renderEngine struct {
	renderer *lexical.Renderer
	markdown *lexical.MarkdownWriter
	cache    *rendercache.Cache
}

func newRenderEngine(renderer *lexical.Renderer, cache *rendercache.Cache) *renderEngine {
	if renderer == nil {
		renderer = lexical.NewRenderer()
	}
	return &renderEngine{
		renderer: renderer,
		markdown: lexical.NewMarkdownWriter(),
		cache:    cache,
	}
}

func (e *renderEngine) HTML(ctx context.Context, data []byte) (string, error) {
	return e.cached(ctx, "html", data, func() (string, error) {
		return e.renderer.Render(data)
	})
}

func (e *renderEngine) Markdown(ctx context.Context, data []byte) (string, error) {
	return e.cached(ctx, "markdown", data, func() (string, error) {
		return e.markdown.Convert(data)
	})
}

func (e *renderEngine) cached(ctx context.Context, kind string, data []byte, render func() (string, error)) (string, error) {
	if e.cache == nil {
		return render()
	}

	key := rendercache.Key(e.renderer.Fingerprint()+"/"+kind, data)
	if out, ok := e.cache.Get(ctx, key); ok {
		return out, nil
	}
	out, err := render()
	if err != nil {
		return "", err
	}
	e.cache.Set(ctx, key, out)
	return out, nil
}
