package lexical

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const kitchenSink = `{"root":{"type":"root","children":[
 {"type":"heading","tag":"h1","format":"center","children":[{"type":"text","text":"Title & more","format":0}]},
 {"type":"paragraph","children":["bare ",{"type":"text","text":"bold","format":1},{"type":"linebreak"},
   {"type":"link","url":"https://example.com","children":[{"type":"text","text":"link"}]},
   {"type":"equation","equation":"e^{i\\pi}","inline":true}]},
 {"type":"list","listType":"bullet","children":[{"type":"listitem","children":[{"type":"text","text":"one"},
   {"type":"list","listType":"check","children":[{"type":"listitem","checked":true,"children":[{"type":"text","text":"sub"}]}]}]}]},
 {"type":"quote","children":[{"type":"text","text":"quoted"}]},
 {"type":"code","language":"go","code":"fmt.Println(\"<hi>\")"},
 {"type":"image","src":"/a.png","altText":"a","width":100,"height":"50px","caption":{"editorState":{"root":{"children":[{"type":"text","text":"cap"}]}}}},
 {"type":"horizontalrule"},
 {"type":"math","value":"\\sum_i x_i","inline":false},
 {"type":"table","children":[{"type":"tablerow","children":[{"type":"tablecell","headerState":1,"colSpan":2,"children":[{"type":"paragraph","children":[{"type":"text","text":"h"}]}]}]}]},
 {"type":"layoutContainer","children":[{"type":"layoutItem","children":[{"type":"paragraph","children":[]}]},{"type":"layoutItem","children":[]}]},
 {"type":"iframe","src":"https://player.example.com/v/1","width":640,"height":360},
 {"type":"details","children":[{"type":"detailsSummary","children":[{"type":"text","text":"s"}]},{"type":"paragraph","children":[{"type":"text","text":"d"}]}]},
 {"type":"sketch","src":"data:image/svg+xml;base64,PHN2Zy8+"},
 {"type":"graph","src":"/g.png"},
 {"type":"foo"}
]}}`

func TestRender_EndToEndScenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"bold paragraph",
			`{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"Hi","format":1}]}]}}`,
			"<p><strong>Hi</strong></p>",
		},
		{
			"numbered list",
			`{"root":{"children":[{"type":"list","listType":"number","children":[{"type":"listitem","children":[{"type":"text","text":"a"}]}]}]}}`,
			"<ol><li>a</li></ol>",
		},
		{
			"display equation",
			`{"root":{"children":[{"type":"equation","equation":"x^2","inline":false}]}}`,
			`<div class="math math-display">\[x^2\]</div>`,
		},
		{
			"unknown node",
			`{"root":{"children":[{"type":"foo"}]}}`,
			`<div class="lexical-unknown">Unknown node type: foo</div>`,
		},
		{
			"empty children",
			`{"root":{"children":[]}}`,
			"",
		},
		{
			"missing children",
			`{"root":{"type":"root"}}`,
			FallbackNoContent,
		},
		{
			"children not a list",
			`{"root":{"children":{"type":"paragraph"}}}`,
			FallbackNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_AcceptsParsedInput(t *testing.T) {
	want := "<p><strong>Hi</strong></p>"

	parsed := map[string]any{
		"root": map[string]any{
			"children": []any{
				map[string]any{
					"type":     "paragraph",
					"children": []any{map[string]any{"type": "text", "text": "Hi", "format": 1}},
				},
			},
		},
	}

	raw := []byte(`{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"Hi","format":1}]}]}}`)
	var doc Document
	require.NoError(t, json.Unmarshal(raw, &doc))

	for name, input := range map[string]any{
		"map":        parsed,
		"bytes":      raw,
		"raw":        json.RawMessage(raw),
		"document":   doc,
		"document *": &doc,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := Render(input)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestRender_StructuralErrors(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  error
	}{
		{"nil", nil, ErrNotObject},
		{"invalid json", `{"root":`, ErrInvalidJSON},
		{"array", `[1,2]`, ErrNotObject},
		{"string json", `"hello"`, ErrNotObject},
		{"no root", `{"children":[]}`, ErrMissingRoot},
		{"root not object", `{"root":[1]}`, ErrMissingRoot},
		{"empty", "", ErrNotObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.input)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, FallbackRenderError, RenderHTML(tt.input))
		})
	}
}

func TestRenderHTML_IsTotal(t *testing.T) {
	inputs := []string{
		`{}`, `null`, `42`, `true`, `"x"`, `[]`, `{"root":null}`, `{"root":5}`,
		`{"root":{"children":[1,"x",null,true,{"type":7},{"children":{"a":1}},[{"type":"text","text":"t"}]]}}`,
		`{"root":{"children":[{"type":"paragraph","children":"nope"}]}}`,
		`{"root":{"children":[{"type":"list","listType":5,"children":[{"type":"listitem","checked":"yes"}]}]}}`,
		`{"root":{"children":[{"type":"table","children":[{"type":"tablerow","children":[{"type":"tablecell","colSpan":"x","rowSpan":-4,"headerState":"maybe"}]}]}]}}`,
		`{"root":{"children":[{"type":"image","width":"wide","height":{},"caption":7}]}}`,
		`{"root":{"children":[{"type":"heading","tag":{"a":1}},{"type":"code","code":5,"language":["x"]}]}}`,
		`{"root":{"children":[{"type":"layoutContainer","children":[{"type":"text","text":"stray"}]}]}}`,
	}

	for _, input := range inputs {
		assert.NotPanics(t, func() {
			out := RenderHTML(input)
			assert.NotEmpty(t, out, input)
		})
	}
}

func TestRender_DepthIsBounded(t *testing.T) {
	nested := func(depth int) string {
		return `{"root":{"children":[` +
			strings.Repeat(`{"type":"quote","children":[`, depth) +
			`{"type":"text","text":"bottom"}` +
			strings.Repeat(`]}`, depth) +
			`]}}`
	}

	r := NewRenderer(WithMaxDepth(3))
	got, err := r.Render(nested(10))
	require.NoError(t, err)
	assert.Equal(t,
		`<blockquote><blockquote><blockquote>`+truncatedBlock+`</blockquote></blockquote></blockquote>`,
		got)

	out := RenderHTML(nested(2000))
	assert.Contains(t, out, "lexical-truncated")
	assert.NotContains(t, out, "bottom")
}

func TestNewRenderer_Options(t *testing.T) {
	assert.Equal(t, DefaultMaxDepth, NewRenderer().MaxDepth())
	assert.Equal(t, 10, NewRenderer(WithMaxDepth(10)).MaxDepth())
	assert.Equal(t, DefaultMaxDepth, NewRenderer(WithMaxDepth(0)).MaxDepth())
	assert.NotEqual(t, NewRenderer().Fingerprint(), NewRenderer(WithMaxDepth(10)).Fingerprint())
}

func TestRender_KitchenSinkIsWellFormed(t *testing.T) {
	out, err := Render(kitchenSink)
	require.NoError(t, err)

	assertBalanced(t, out)
	assert.Contains(t, out, `<h1 style="text-align:center">Title &amp; more</h1>`)
	assert.Contains(t, out, `<p>bare <strong>bold</strong><br/>`)
	assert.Contains(t, out, `<li>one<ol class="checklist"><li class="checked">sub</li></ol></li>`)
	assert.Contains(t, out, `<pre><code class="language-go">fmt.Println(&#34;&lt;hi&gt;&#34;)</code></pre>`)
	assert.Contains(t, out, `<img src="/a.png" alt="a" width="100" height="50"/><figcaption>cap</figcaption>`)
	assert.Contains(t, out, `<div class="math math-display">\[\sum_i x_i\]</div>`)
	assert.Contains(t, out, `<th colspan="2"><p>h</p></th>`)
	assert.Contains(t, out, `<div class="lexical-unknown">Unknown node type: foo</div>`)
}

func TestRender_IsDeterministicUnderConcurrency(t *testing.T) {
	r := NewRenderer()
	want := r.RenderHTML(kitchenSink)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.RenderHTML(kitchenSink)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("render %d differs (-want +got):\n%s", i, diff)
		}
	}
}

var voidElements = map[string]bool{"br": true, "hr": true, "img": true}

// assertBalanced checks every opened element is closed in order.
func assertBalanced(t *testing.T, fragment string) {
	t.Helper()

	z := html.NewTokenizer(strings.NewReader(fragment))
	var stack []string
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			require.ErrorIs(t, z.Err(), io.EOF)
			assert.Empty(t, stack, "unclosed elements")
			return
		case html.StartTagToken:
			name, _ := z.TagName()
			if !voidElements[string(name)] {
				stack = append(stack, string(name))
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			require.NotEmpty(t, stack, "unexpected </%s>", name)
			top := stack[len(stack)-1]
			require.Equal(t, top, string(name))
			stack = stack[:len(stack)-1]
		}
	}
}
