package richtext

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// newMarkdown builds the goldmark instance used for markdown runs. Indented
// code blocks are left out so that component children may be indented.
func newMarkdown() goldmark.Markdown {
	p := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewSetextHeadingParser(), 100),
			util.Prioritized(parser.NewThematicBreakParser(), 200),
			util.Prioritized(parser.NewListParser(), 300),
			util.Prioritized(parser.NewListItemParser(), 400),
			util.Prioritized(parser.NewATXHeadingParser(), 600),
			util.Prioritized(parser.NewFencedCodeBlockParser(), 700),
			util.Prioritized(parser.NewBlockquoteParser(), 800),
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)
	return goldmark.New(
		goldmark.WithParser(p),
		goldmark.WithExtensions(extension.GFM),
	)
}

// parseMarkdown converts one markdown run into IR block nodes.
func parseMarkdown(md goldmark.Markdown, source []byte) []*Node {
	doc := md.Parser().Parse(text.NewReader(source))
	conv := &converter{source: source}
	return conv.children(doc)
}

type converter struct {
	source []byte
	// inHeader is set while converting a table header so cells become th.
	inHeader bool
	align    []east.Alignment
}

func (c *converter) children(n ast.Node) []*Node {
	var out []*Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.node(child)...)
	}
	return mergeText(out)
}

func (c *converter) node(n ast.Node) []*Node {
	switch n := n.(type) {
	case *ast.Heading:
		return one(Element("h"+strconv.Itoa(n.Level), nil, c.children(n)...))

	case *ast.Paragraph:
		return one(Element("p", nil, c.children(n)...))

	case *ast.TextBlock:
		return c.children(n)

	case *ast.ThematicBreak:
		return one(Element("hr", nil))

	case *ast.FencedCodeBlock:
		lang := string(n.Language(c.source))
		var props map[string]interface{}
		if lang != "" {
			props = map[string]interface{}{"className": "language-" + lang}
		}
		return one(Element("pre", nil, Element("code", props, Text(c.lines(n)))))

	case *ast.CodeBlock:
		return one(Element("pre", nil, Element("code", nil, Text(c.lines(n)))))

	case *ast.Blockquote:
		return one(Element("blockquote", nil, c.children(n)...))

	case *ast.List:
		if n.IsOrdered() {
			var props map[string]interface{}
			if n.Start != 1 {
				props = map[string]interface{}{"start": float64(n.Start)}
			}
			return one(Element("ol", props, c.children(n)...))
		}
		return one(Element("ul", nil, c.children(n)...))

	case *ast.ListItem:
		return one(Element("li", nil, c.children(n)...))

	case *ast.HTMLBlock:
		return one(Text(c.lines(n)))

	case *ast.Text:
		value := n.Segment.Value(c.source)
		if !n.IsRaw() {
			value = unescape(value)
		}
		nodes := []*Node{Text(string(value))}
		switch {
		case n.HardLineBreak():
			nodes = append(nodes, Element("br", nil), Text("\n"))
		case n.SoftLineBreak():
			nodes = append(nodes, Text("\n"))
		}
		return nodes

	case *ast.String:
		return one(Text(string(n.Value)))

	case *ast.CodeSpan:
		var b strings.Builder
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				b.Write(t.Segment.Value(c.source))
			} else if s, ok := child.(*ast.String); ok {
				b.Write(s.Value)
			}
		}
		return one(Element("code", nil, Text(b.String())))

	case *ast.Emphasis:
		tag := "em"
		if n.Level >= 2 {
			tag = "strong"
		}
		return one(Element(tag, nil, c.children(n)...))

	case *ast.Link:
		props := map[string]interface{}{"href": string(n.Destination)}
		if len(n.Title) > 0 {
			props["title"] = string(n.Title)
		}
		return one(Element("a", props, c.children(n)...))

	case *ast.AutoLink:
		href := string(n.URL(c.source))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(href), "mailto:") {
			href = "mailto:" + href
		}
		return one(Element("a", map[string]interface{}{"href": href}, Text(string(n.Label(c.source)))))

	case *ast.Image:
		alt := (&Node{Kind: KindRoot, Children: c.children(n)}).TextContent()
		props := map[string]interface{}{"src": string(n.Destination), "alt": alt}
		if len(n.Title) > 0 {
			props["title"] = string(n.Title)
		}
		return one(Element("img", props))

	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(c.source))
		}
		return one(Text(b.String()))

	case *east.Strikethrough:
		return one(Element("del", nil, c.children(n)...))

	case *east.TaskCheckBox:
		props := map[string]interface{}{"type": "checkbox", "disabled": true}
		if n.IsChecked {
			props["checked"] = true
		}
		return one(Element("input", props))

	case *east.Table:
		c.align = n.Alignments
		var head, body []*Node
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch child.(type) {
			case *east.TableHeader:
				c.inHeader = true
				head = append(head, Element("tr", nil, c.children(child)...))
				c.inHeader = false
			default:
				body = append(body, c.node(child)...)
			}
		}
		table := Element("table", nil, Element("thead", nil, head...))
		if len(body) > 0 {
			table.Children = append(table.Children, Element("tbody", nil, body...))
		}
		return one(table)

	case *east.TableRow:
		return one(Element("tr", nil, c.children(n)...))

	case *east.TableCell:
		tag := "td"
		if c.inHeader {
			tag = "th"
		}
		var props map[string]interface{}
		if n.Alignment != east.AlignNone {
			props = map[string]interface{}{"align": n.Alignment.String()}
		}
		return one(Element(tag, props, c.children(n)...))

	default:
		return c.children(n)
	}
}

func (c *converter) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.source))
	}
	return b.String()
}

func unescape(v []byte) []byte {
	v = util.UnescapePunctuations(v)
	v = util.ResolveNumericReferences(v)
	return util.ResolveEntityNames(v)
}

func one(n *Node) []*Node { return []*Node{n} }

// mergeText joins adjacent text nodes so that markers split by the inline
// parser are whole again.
func mergeText(nodes []*Node) []*Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n.Kind == KindText && len(out) > 0 && out[len(out)-1].Kind == KindText {
			out[len(out)-1] = Text(out[len(out)-1].Value + n.Value)
			continue
		}
		out = append(out, n)
	}
	return out
}
