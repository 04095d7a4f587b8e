// Package renderer turns compiled rich-text bodies into HTML.
//
// The renderer walks the node tree of a body and asks a registry for the
// component behind every tag. Intrinsic lowercase elements without an entry
// render as plain HTML. A custom component without an entry is a deployment
// defect: the body is rejected before any output is written.
package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
	"github.com/kelas-internasional/kelas/internal/registry"
	"github.com/kelas-internasional/kelas/internal/richtext"
	"github.com/kelas-internasional/kelas/internal/ui"
)

// Renderer renders compiled bodies against one component registry.
type Renderer struct {
	registry *registry.Registry
}

// NewRenderer creates a renderer over reg.
func NewRenderer(reg *registry.Registry) *Renderer {
	return &Renderer{registry: reg}
}

// Registry returns the component table in use.
func (r *Renderer) Registry() *registry.Registry {
	return r.registry
}

// Check verifies that every component in the tree is registered and that
// every node is well formed.
func (r *Renderer) Check(root *richtext.Node) error {
	missing := make(map[string]bool)
	var bad error

	richtext.Walk(root, func(n *richtext.Node) bool {
		switch n.Kind {
		case richtext.KindRoot, richtext.KindText:
		case richtext.KindElement:
			if !validTagName(n.Tag) {
				bad = fmt.Errorf("invalid element name %q", n.Tag)
			}
		case richtext.KindComponent:
			if _, ok := r.registry.Get(n.Tag); !ok {
				missing[n.Tag] = true
			}
		default:
			bad = fmt.Errorf("unknown node kind %q", n.Kind)
		}
		return true
	})

	if bad != nil {
		return siteerrors.NewRenderError(siteerrors.ErrCodeBodyCorrupt, "compiled body is malformed", bad)
	}
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		return siteerrors.NewRenderError(siteerrors.ErrCodeUnresolvedTag,
			fmt.Sprintf("no component registered for %s", strings.Join(names, ", ")), nil).
			WithContext("components", names)
	}
	return nil
}

// Body decodes and checks a compiled body and returns it as a component.
func (r *Renderer) Body(body richtext.Body) (templ.Component, error) {
	root, err := body.Decode()
	if err != nil {
		return nil, err
	}
	return r.Tree(root)
}

// Tree checks a decoded tree and returns it as a component.
func (r *Renderer) Tree(root *richtext.Node) (templ.Component, error) {
	if err := r.Check(root); err != nil {
		return nil, err
	}
	return r.node(root), nil
}

// RenderString renders a body to HTML.
func (r *Renderer) RenderString(ctx context.Context, body richtext.Body) (string, error) {
	c, err := r.Body(body)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) node(n *richtext.Node) templ.Component {
	switch n.Kind {
	case richtext.KindText:
		return ui.Text(n.Value)
	case richtext.KindRoot:
		return r.children(n.Children)
	}

	el := registry.Element{Tag: n.Tag, Props: registry.Props(n.Props), Children: n.Children}
	children := r.children(n.Children)

	if comp, ok := r.registry.Get(n.Tag); ok {
		return comp(el, children)
	}
	if n.Kind == richtext.KindElement {
		return Intrinsic(el, children)
	}
	return templ.ComponentFunc(func(context.Context, io.Writer) error {
		return siteerrors.NewRenderError(siteerrors.ErrCodeUnresolvedTag,
			fmt.Sprintf("no component registered for %s", n.Tag), nil)
	})
}

func (r *Renderer) children(nodes []*richtext.Node) templ.Component {
	if len(nodes) == 0 {
		return templ.NopComponent
	}
	comps := make([]templ.Component, len(nodes))
	for i, n := range nodes {
		comps[i] = r.node(n)
	}
	return ui.Group(comps...)
}

// Intrinsic renders el as the HTML element of the same name.
func Intrinsic(el registry.Element, children templ.Component) templ.Component {
	return ui.Tag(el.Tag, Attrs(el.Props), children)
}

// Attrs converts compiled props to HTML attributes. className becomes
// class, true becomes an empty boolean attribute, false and null are
// dropped, and structured values are written as JSON.
func Attrs(props registry.Props) ui.Attrs {
	out := make(ui.Attrs, len(props))
	for k, v := range props {
		name := k
		switch k {
		case "className":
			name = "class"
		case "htmlFor":
			name = "for"
		}

		switch v := v.(type) {
		case nil:
		case bool:
			if v {
				out[name] = ""
			}
		case string:
			out[name] = v
		case float64:
			out[name] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			data, err := json.Marshal(v)
			if err == nil {
				out[name] = string(data)
			}
		}
	}
	return out
}

func validTagName(tag string) bool {
	if tag == "" {
		return false
	}
	for _, r := range tag {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-') {
			return false
		}
	}
	return true
}
