package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeText(t *testing.T) {
	assert.Equal(t, "&amp;&lt;&gt;&#34;&#39;", EscapeText(`&<>"'`))
	assert.Equal(t, "&amp;amp;", EscapeText("&amp;"))
	assert.Equal(t, "plain", EscapeText("plain"))
}

func TestSanitizeURL_Policies(t *testing.T) {
	tests := []struct {
		raw    string
		policy urlPolicy
		want   string
	}{
		{"https://a.example/x", linkURL, "https://a.example/x"},
		{"HTTPS://A.EXAMPLE", linkURL, "HTTPS://A.EXAMPLE"},
		{"\x01javascript:alert(1)", linkURL, "#"},
		{"data:image/png;base64,AA", linkURL, "#"},
		{"data:image/png;base64,AA", imageURL, "data:image/png;base64,AA"},
		{"data:text/html;base64,AA", imageURL, ""},
		{"mailto:x@y.z", imageURL, ""},
		{"img/a.png", imageURL, "img/a.png"},
		{"//cdn.example.com/embed", frameURL, "//cdn.example.com/embed"},
		{"https://video.example.com/e/1", frameURL, "https://video.example.com/e/1"},
		{"embed/1", frameURL, "about:blank"},
		{"   ", frameURL, "about:blank"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeURL(tt.raw, tt.policy), "%q", tt.raw)
	}
	assert.Equal(t, "#", SafeLinkURL("javascript:void(0)"))
}

func TestSafeCSSValue(t *testing.T) {
	valid := []string{"red", "#FFAA00", "rgb(1, 2, 3)", "12px", "50%", "Arial, sans-serif"}
	for _, v := range valid {
		got, ok := safeCSSValue(v)
		assert.True(t, ok, v)
		assert.Equal(t, v, got)
	}

	invalid := []string{"", "red;color:blue", `"x"`, "url(a.png)", "expression(alert(1))", "a<b", "var(--x)"}
	for _, v := range invalid {
		_, ok := safeCSSValue(v)
		assert.False(t, ok, v)
	}
}

func TestClassAndLanguageTokens(t *testing.T) {
	assert.Equal(t, "two-column", classToken(" Two  Column "))
	assert.Equal(t, "a-b", classToken(`a"><b`))
	assert.Equal(t, "", classToken("!!!"))

	assert.Equal(t, "c-sharp", languageToken("C-Sharp"))
	assert.Equal(t, "jsonclick", languageToken(`js" onclick`))

	assert.Equal(t, "text", codeLanguage(""))
	assert.Equal(t, "go", codeLanguage("golang"))
	assert.Equal(t, "python", codeLanguage("py"))
	assert.Equal(t, "text", codeLanguage("plain"))
}
