package richtext

import (
	"strconv"
)

// Plugin transforms the tree of one document during compilation. Plugins
// run in a fixed order; later plugins may rely on annotations made by
// earlier ones (autolinking needs the ids from the slug plugin).
type Plugin interface {
	Name() string
	Apply(ctx *Context, root *Node) error
}

// Context carries per-document state through the plugin chain.
type Context struct {
	// File is the source path, used for error locations and resolving
	// relative assets.
	File string
	// TOC is filled by the slug plugin.
	TOC []Heading
	// Assets is filled by the assets plugin.
	Assets []Asset
}

// Heading is one entry of a document's table of contents.
type Heading struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
	Title string `json:"title"`
}

func headingLevel(n *Node) int {
	if n.Kind != KindElement || len(n.Tag) != 2 || n.Tag[0] != 'h' {
		return 0
	}
	level, err := strconv.Atoi(n.Tag[1:])
	if err != nil || level < 1 || level > 6 {
		return 0
	}
	return level
}

// slugPlugin gives every heading a unique id.
type slugPlugin struct{}

func (slugPlugin) Name() string { return "slug" }

func (slugPlugin) Apply(ctx *Context, root *Node) error {
	slugger := NewSlugger()

	// Ids the author wrote by hand are taken first.
	Walk(root, func(n *Node) bool {
		if headingLevel(n) > 0 && n.Prop("id") != "" {
			slugger.Reserve(n.Prop("id"))
		}
		return true
	})

	Walk(root, func(n *Node) bool {
		level := headingLevel(n)
		if level == 0 {
			return true
		}
		title := n.TextContent()
		id := n.Prop("id")
		if id == "" {
			id = slugger.Slug(title)
			n.SetProp("id", id)
		}
		ctx.TOC = append(ctx.TOC, Heading{ID: id, Level: level, Title: title})
		return false
	})
	return nil
}

// autolinkPlugin wraps heading content in a link to the heading itself.
type autolinkPlugin struct {
	class string
	label string
}

func (autolinkPlugin) Name() string { return "autolink-headings" }

func (p autolinkPlugin) Apply(_ *Context, root *Node) error {
	Walk(root, func(n *Node) bool {
		if headingLevel(n) == 0 {
			return true
		}
		id := n.Prop("id")
		if id == "" {
			return false
		}
		n.Children = []*Node{Element("a", map[string]interface{}{
			"href":       "#" + id,
			"aria-label": p.label,
			"className":  p.class,
		}, n.Children...)}
		return false
	})
	return nil
}
