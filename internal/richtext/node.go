// Package richtext compiles authored MDX-style markup into a serialisable
// node tree.
//
// A compiled Body is plain data: a versioned JSON envelope around a tree of
// Nodes. Nothing in it is executed. The renderer package walks the tree with
// an explicit component registry to produce HTML.
package richtext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
)

// BodyVersion is bumped whenever the node encoding changes shape.
const BodyVersion = 1

// Kind tags a Node variant.
type Kind string

const (
	KindRoot      Kind = "root"
	KindText      Kind = "text"
	KindElement   Kind = "element"
	KindComponent Kind = "component"
)

// Node is one vertex of the compiled tree.
//
// Element nodes carry a lowercase intrinsic tag (p, h2, pre, ...).
// Component nodes carry a capitalised tag naming a registry entry.
// Text nodes carry Value and nothing else.
type Node struct {
	Kind     Kind                   `json:"kind"`
	Tag      string                 `json:"tag,omitempty"`
	Value    string                 `json:"value,omitempty"`
	Props    map[string]interface{} `json:"props,omitempty"`
	Children []*Node                `json:"children,omitempty"`
}

// Text returns a text node.
func Text(value string) *Node {
	return &Node{Kind: KindText, Value: value}
}

// Element returns an intrinsic element node.
func Element(tag string, props map[string]interface{}, children ...*Node) *Node {
	return &Node{Kind: KindElement, Tag: tag, Props: props, Children: children}
}

// Component returns a custom component node.
func Component(tag string, props map[string]interface{}, children ...*Node) *Node {
	return &Node{Kind: KindComponent, Tag: tag, Props: props, Children: children}
}

// IsTag reports whether n is an element or component with the given tag.
func (n *Node) IsTag(tag string) bool {
	return n != nil && (n.Kind == KindElement || n.Kind == KindComponent) && n.Tag == tag
}

// Prop returns a string prop, or "".
func (n *Node) Prop(name string) string {
	if n == nil || n.Props == nil {
		return ""
	}
	switch v := n.Props[name].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// SetProp sets a prop, allocating the map when needed.
func (n *Node) SetProp(name string, value interface{}) {
	if n.Props == nil {
		n.Props = make(map[string]interface{})
	}
	n.Props[name] = value
}

// TextContent concatenates every text descendant.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	if n == nil {
		return
	}
	if n.Kind == KindText {
		b.WriteString(n.Value)
		return
	}
	for _, c := range n.Children {
		c.writeText(b)
	}
}

// Walk visits n and its descendants depth first, in document order.
// Returning false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Body is a compiled rich-text unit.
type Body string

type envelope struct {
	Version int   `json:"version"`
	Root    *Node `json:"root"`
}

// Encode serialises a tree rooted at a root node.
func Encode(root *Node) (Body, error) {
	if root == nil || root.Kind != KindRoot {
		return "", fmt.Errorf("richtext: encode needs a root node")
	}
	data, err := json.Marshal(envelope{Version: BodyVersion, Root: root})
	if err != nil {
		return "", fmt.Errorf("richtext: encode body: %w", err)
	}
	return Body(data), nil
}

// Decode parses the body back into its tree.
func (b Body) Decode() (*Node, error) {
	var env envelope
	if err := json.Unmarshal([]byte(b), &env); err != nil {
		return nil, siteerrors.NewRenderError(siteerrors.ErrCodeBodyCorrupt, "compiled body is not valid", err)
	}
	if env.Version != BodyVersion {
		return nil, siteerrors.NewRenderError(siteerrors.ErrCodeBodyCorrupt,
			fmt.Sprintf("compiled body version %d, this build reads %d", env.Version, BodyVersion), nil)
	}
	if env.Root == nil || env.Root.Kind != KindRoot {
		return nil, siteerrors.NewRenderError(siteerrors.ErrCodeBodyCorrupt, "compiled body has no root", nil)
	}
	return env.Root, nil
}

// MarshalJSON embeds the body as a JSON object rather than a quoted string.
func (b Body) MarshalJSON() ([]byte, error) {
	if b == "" {
		return []byte("null"), nil
	}
	if !json.Valid([]byte(b)) {
		return nil, fmt.Errorf("richtext: body is not valid JSON")
	}
	return []byte(b), nil
}

// UnmarshalJSON accepts the embedded object form. Indentation added by an
// enclosing document is removed.
func (b *Body) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = ""
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return fmt.Errorf("richtext: body is not valid JSON: %w", err)
	}
	*b = Body(buf.String())
	return nil
}
