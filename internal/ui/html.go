// Package ui holds the visual primitives of the site: cards, alerts, badges,
// tables, tabs and friends. Every primitive is a templ.Component so pages and
// the rich-text renderer can compose them freely.
//
// Class names follow the site's Tailwind design tokens; no styling decisions
// live outside this package.
package ui

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// Attrs are extra HTML attributes. Keys render in sorted order.
type Attrs map[string]string

// Props are the attributes every primitive accepts.
type Props struct {
	ID    string
	Class string
	Attrs Attrs
}

func (p Props) attrs(baseClass string) Attrs {
	out := make(Attrs, len(p.Attrs)+2)
	for k, v := range p.Attrs {
		out[k] = v
	}
	if p.ID != "" {
		out["id"] = p.ID
	}
	if class := Cn(baseClass, p.Class, out["class"]); class != "" {
		out["class"] = class
	} else {
		delete(out, "class")
	}
	return out
}

var voidTags = map[string]bool{
	"area": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

// Cn joins class lists, skipping empty ones.
func Cn(classes ...string) string {
	parts := make([]string, 0, len(classes))
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// Tag renders an HTML element with the given attributes and children.
// Attribute names that are not plain identifiers are dropped.
func Tag(name string, attrs Attrs, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := OpenTag(w, name, attrs); err != nil {
			return err
		}
		if voidTags[name] {
			return nil
		}
		for _, child := range children {
			if child == nil {
				continue
			}
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</"+name+">")
		return err
	})
}

// OpenTag writes "<name attrs...>".
func OpenTag(w io.Writer, name string, attrs Attrs) error {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		if ValidAttrName(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(name)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(templ.EscapeString(attrs[k]))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	_, err := io.WriteString(w, b.String())
	return err
}

// ValidAttrName accepts letters, digits, '-', '_' and ':' and rejects event
// handler attributes.
func ValidAttrName(name string) bool {
	if name == "" || strings.HasPrefix(strings.ToLower(name), "on") {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == ':':
		default:
			return false
		}
	}
	return true
}

// Text renders escaped text.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

// Group renders components one after another.
func Group(children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, child := range children {
			if child == nil {
				continue
			}
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func div(p Props, base string, children ...templ.Component) templ.Component {
	return Tag("div", p.attrs(base), children...)
}
