package site

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
)

const blogDir = "blog"

// Writer lays exported pages out as {root}/blog/{handle}/index.html and
// {root}/blog/index.html.
type Writer struct {
	Root     string
	minifier *minify.M
}

// NewWriter creates a writer rooted at root, optionally minifying output.
func NewWriter(root string, minifyOutput bool) *Writer {
	w := &Writer{Root: root}
	if minifyOutput {
		m := minify.New()
		m.AddFunc("text/css", css.Minify)
		m.Add("text/html", &html.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		})
		w.minifier = m
	}
	return w
}

// PostPath is the file a post with the given handle is written to.
func (w *Writer) PostPath(handle string) string {
	return filepath.Join(w.Root, blogDir, Handle(handle), "index.html")
}

// IndexPath is the file the index page is written to.
func (w *Writer) IndexPath() string {
	return filepath.Join(w.Root, blogDir, "index.html")
}

// WritePost writes a post page and returns its path.
func (w *Writer) WritePost(handle, page string) (string, error) {
	fname := w.PostPath(handle)
	return fname, w.writePage(fname, page)
}

// WriteIndex writes the index page and returns its path.
func (w *Writer) WriteIndex(page string) (string, error) {
	fname := w.IndexPath()
	return fname, w.writePage(fname, page)
}

// RemovePost deletes a post's directory. A missing post is not an error.
func (w *Writer) RemovePost(handle string) error {
	if err := os.RemoveAll(filepath.Dir(w.PostPath(handle))); err != nil {
		return fmt.Errorf("remove post: %w", err)
	}
	return nil
}

func (w *Writer) writePage(fname, page string) error {
	if w.minifier != nil {
		minified, err := w.minifier.String("text/html", page)
		if err != nil {
			return fmt.Errorf("minify %s: %w", fname, err)
		}
		page = minified
	}

	f, err := CreateFile(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(page); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return f.Close()
}

// CreateFile creates fname and any missing parent directories.
func CreateFile(fname string) (*os.File, error) {
	path := filepath.Dir(fname)

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create path: %w", err)
	}

	f, err := os.Create(fname)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	return f, nil
}
