package lexical

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidJSON is returned when textual input is not valid JSON.
	ErrInvalidJSON = errors.New("lexical: invalid json")
	// ErrNotObject is returned when the document is not a JSON object.
	ErrNotObject = errors.New("lexical: document is not an object")
	// ErrMissingRoot is returned when the document has no root node object.
	ErrMissingRoot = errors.New("lexical: document has no root")
)

// ParseDocument accepts either an already-parsed document (map, Document,
// *Document) or its JSON text (string, []byte, json.RawMessage) and returns
// the decoded tree. Any other value is round-tripped through encoding/json.
func ParseDocument(input any) (*Document, error) {
	switch v := input.(type) {
	case nil:
		return nil, ErrNotObject
	case *Document:
		if v == nil || v.Root == nil {
			return nil, ErrMissingRoot
		}
		return v, nil
	case Document:
		if v.Root == nil {
			return nil, ErrMissingRoot
		}
		return &v, nil
	case map[string]any:
		return documentFromValue(v)
	case string:
		return parseDocumentBytes([]byte(v))
	case []byte:
		return parseDocumentBytes(v)
	case json.RawMessage:
		return parseDocumentBytes(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
		}
		return parseDocumentBytes(data)
	}
}

func parseDocumentBytes(data []byte) (*Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrNotObject
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return documentFromValue(v)
}

func documentFromValue(v any) (*Document, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	rootValue, ok := m["root"].(map[string]any)
	if !ok {
		return nil, ErrMissingRoot
	}
	root := nodeFromValue(rootValue)
	if root.Type == "" {
		root.Type = "root"
	}
	return &Document{Root: &root}, nil
}

// UnmarshalJSON decodes a node leniently.
func (n *Node) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = nodeFromValue(v)
	return nil
}

// UnmarshalJSON decodes a document; a missing root is not an error here,
// ParseDocument reports it.
func (d *Document) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	doc, err := documentFromValue(v)
	if err != nil {
		d.Root = nil
		return nil
	}
	*d = *doc
	return nil
}

func nodeFromValue(v any) Node {
	switch t := v.(type) {
	case string:
		// Bare strings are zero-format text runs
		return Node{Type: "text", Text: t}
	case []any:
		return Node{Children: nodesFromValue(t), hasChildren: true}
	case map[string]any:
		return nodeFromMap(t)
	default:
		return Node{}
	}
}

func nodesFromValue(list []any) []Node {
	nodes := make([]Node, 0, len(list))
	for _, item := range list {
		nodes = append(nodes, nodeFromValue(item))
	}
	return nodes
}

func nodeFromMap(m map[string]any) Node {
	n := Node{
		Type:            str(m["type"]),
		Version:         intOf(m["version"]),
		Text:            str(m["text"]),
		Style:           str(m["style"]),
		URL:             str(m["url"]),
		ListType:        str(m["listType"]),
		Start:           intOf(m["start"]),
		Tag:             str(m["tag"]),
		Language:        str(m["language"]),
		Code:            str(m["code"]),
		Src:             str(m["src"]),
		AltText:         str(m["altText"]),
		Width:           dimensionOf(m["width"]),
		Height:          dimensionOf(m["height"]),
		Equation:        str(m["equation"]),
		Inline:          truthy(m["inline"]),
		HeaderState:     headerStateOf(m["headerState"]),
		ColSpan:         intOf(m["colSpan"]),
		RowSpan:         intOf(m["rowSpan"]),
		BackgroundColor: str(m["backgroundColor"]),
	}

	if children, ok := m["children"].([]any); ok {
		n.Children = nodesFromValue(children)
		n.hasChildren = true
	}

	if align, ok := m["format"].(string); ok {
		n.Align = align
	} else {
		n.Format = intOf(m["format"])
	}

	// The math node family stores its source under "value"
	if n.Equation == "" {
		if s, ok := m["value"].(string); ok {
			n.Equation = s
		}
	}

	if c, ok := m["checked"].(bool); ok {
		n.Checked = &c
	}

	n.Caption = captionOf(m["caption"])
	return n
}

// captionOf accepts an inline node list, a plain string, or a nested editor
// ({"editorState": {"root": {...}}}) as stored by the image plugin.
func captionOf(v any) []Node {
	switch c := v.(type) {
	case string:
		if c == "" {
			return nil
		}
		return []Node{{Type: "text", Text: c}}
	case []any:
		return nodesFromValue(c)
	case map[string]any:
		state, ok := c["editorState"].(map[string]any)
		if !ok {
			state = c
		}
		if root, ok := state["root"].(map[string]any); ok {
			return nodeFromMap(root).Children
		}
		if children, ok := state["children"].([]any); ok {
			return nodesFromValue(children)
		}
	}
	return nil
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func intOf(v any) int {
	f, ok := number(v)
	if !ok {
		return 0
	}
	return int(f)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "0", "false", "no", "none":
			return false
		}
		return true
	default:
		return false
	}
}

func headerStateOf(v any) int {
	if _, isString := v.(string); !isString {
		if f, ok := number(v); ok {
			return int(f)
		}
	}
	if truthy(v) {
		return 1
	}
	return 0
}

var dimensionRE = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(px|%|em|rem|vw|vh)?$`)

func dimensionOf(v any) Dimension {
	switch t := v.(type) {
	case string:
		m := dimensionRE.FindStringSubmatch(strings.ToLower(strings.TrimSpace(t)))
		if m == nil {
			return Dimension{}
		}
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Dimension{}
		}
		unit := m[2]
		if unit == "" {
			unit = "px"
		}
		return Dimension{Value: f, Unit: unit, Valid: f > 0}
	default:
		f, ok := number(t)
		if !ok {
			return Dimension{}
		}
		return Dimension{Value: f, Unit: "px", Valid: f > 0}
	}
}
