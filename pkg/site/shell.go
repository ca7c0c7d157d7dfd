package site

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Link is a navigation entry in the page header.
type Link struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// Shell holds the page chrome wrapped around every exported document.
type Shell struct {
	SiteTitle   string   `yaml:"site_title"`
	Lang        string   `yaml:"lang"`
	BasePath    string   `yaml:"base_path"`
	Stylesheets []string `yaml:"stylesheets"`
	Nav         []Link   `yaml:"nav"`
	Footer      string   `yaml:"footer"`

	MathScript          string `yaml:"math_script"`
	HighlightStylesheet string `yaml:"highlight_stylesheet"`
	HighlightScript     string `yaml:"highlight_script"`
	TableCSS            string `yaml:"table_css"`
}

// DefaultShell returns the chrome used when no site file is configured.
func DefaultShell() Shell {
	return Shell{
		SiteTitle:   "Notes",
		Lang:        "en",
		BasePath:    "/blog/",
		Stylesheets: []string{"/assets/site.css"},
		Nav: []Link{
			{Title: "All posts", URL: "/blog/"},
		},
		MathScript:          "https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-chtml.js",
		HighlightStylesheet: "https://cdn.jsdelivr.net/npm/highlight.js@11/styles/github.min.css",
		HighlightScript:     "https://cdn.jsdelivr.net/npm/highlight.js@11/lib/common.min.js",
		TableCSS:            "table{border-collapse:collapse;display:block;max-width:100%;overflow-x:auto}th,td{border:1px solid #ddd;padding:.4em .6em}",
	}
}

// LoadShell reads a YAML site file over the defaults. An empty path yields
// DefaultShell.
func LoadShell(path string) (Shell, error) {
	shell := DefaultShell()
	if path == "" {
		return shell, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return shell, fmt.Errorf("read site config: %w", err)
	}
	if err := yaml.Unmarshal(data, &shell); err != nil {
		return shell, fmt.Errorf("parse site config: %w", err)
	}
	return shell, nil
}
