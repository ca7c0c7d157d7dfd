package lexical

import (
	"math"
	"strconv"
)

// Document represents the top-level editor state
type Document struct {
	Root *Node `json:"root"`
}

// Node represents any node in the Lexical tree.
// Fields are filled leniently from the stored JSON: a field holding the
// wrong JSON type is left at its zero value instead of failing the decode.
type Node struct {
	Type     string
	Version  int
	Children []Node

	// hasChildren reports whether "children" was present as a JSON array
	hasChildren bool

	// Text specific
	Text   string
	Format int    // bitmask when "format" is a number
	Align  string // "format" when it is a string (element alignment)
	Style  string

	// Link specific
	URL string

	// List specific
	ListType string
	Start    int
	Checked  *bool

	// Heading specific ("h1".."h6" or a bare number)
	Tag string

	// Code specific
	Language string
	Code     string

	// Image, sketch, graph and iframe
	Src     string
	AltText string
	Width   Dimension
	Height  Dimension
	Caption []Node

	// Equation / math
	Equation string
	Inline   bool

	// Table specific
	HeaderState     int
	ColSpan         int
	RowSpan         int
	BackgroundColor string
}

// HasChildList reports whether the node carried a children array.
func (n *Node) HasChildList() bool {
	return n.hasChildren
}

// Constants for Text Format Bitmask
const (
	FormatBold          = 1
	FormatItalic        = 2
	FormatUnderline     = 4
	FormatStrikethrough = 8
	FormatCode          = 16
	FormatSubscript     = 32
	FormatSuperscript   = 64
	FormatHighlight     = 1 << 7
)

// Dimension is a width or height that may be stored as a number (pixels)
// or as a CSS length string such as "120px" or "50%".
type Dimension struct {
	Value float64
	Unit  string
	Valid bool
}

// Pixels returns the dimension as a whole number of pixels.
func (d Dimension) Pixels() (int, bool) {
	if !d.Valid || d.Unit != "px" || d.Value <= 0 {
		return 0, false
	}
	return int(math.Round(d.Value)), true
}

// CSS returns the dimension as a CSS length.
func (d Dimension) CSS() (string, bool) {
	if !d.Valid || d.Value <= 0 {
		return "", false
	}
	return strconv.FormatFloat(d.Value, 'f', -1, 64) + d.Unit, true
}
