package richtext

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
)

// Options configures a Compiler.
type Options struct {
	// Components lists the custom tag names documents may use. Any other
	// capitalised tag is a compile error.
	Components []string
	// Theme is the chroma style used for code blocks.
	Theme string
	// AnchorClass and AnchorLabel decorate the heading self-links.
	AnchorClass string
	AnchorLabel string
	// AssetBase is the public URL prefix of extracted assets.
	AssetBase string
	// WordsPerMinute drives the reading-time estimate.
	WordsPerMinute int
}

// DefaultOptions returns the options used by the site.
func DefaultOptions() Options {
	return Options{
		Theme:          "github-dark",
		AnchorClass:    "subheading-anchor",
		AnchorLabel:    "Link to section",
		AssetBase:      "/static/",
		WordsPerMinute: 200,
	}
}

// Result is the output of compiling one document body.
type Result struct {
	Body        Body      `json:"body"`
	TOC         []Heading `json:"toc,omitempty"`
	Words       int       `json:"words"`
	ReadingTime int       `json:"readingTime"`
	Assets      []Asset   `json:"-"`
}

// Compiler turns authored bodies into compiled bodies. It holds no
// per-document state and is safe for concurrent use.
type Compiler struct {
	opts    Options
	known   map[string]bool
	plugins []Plugin
}

// New creates a compiler. Empty option fields take their defaults.
func New(opts Options) *Compiler {
	def := DefaultOptions()
	if opts.Theme == "" {
		opts.Theme = def.Theme
	}
	if opts.AnchorClass == "" {
		opts.AnchorClass = def.AnchorClass
	}
	if opts.AnchorLabel == "" {
		opts.AnchorLabel = def.AnchorLabel
	}
	if opts.AssetBase == "" {
		opts.AssetBase = def.AssetBase
	}
	if opts.WordsPerMinute <= 0 {
		opts.WordsPerMinute = def.WordsPerMinute
	}

	known := make(map[string]bool, len(opts.Components))
	for _, name := range opts.Components {
		known[name] = true
	}

	return &Compiler{
		opts:  opts,
		known: known,
		plugins: []Plugin{
			assetsPlugin{base: opts.AssetBase},
			slugPlugin{},
			newHighlightPlugin(opts.Theme),
			autolinkPlugin{class: opts.AnchorClass, label: opts.AnchorLabel},
		},
	}
}

// Plugins returns the plugin names in the order they run.
func (c *Compiler) Plugins() []string {
	names := make([]string, len(c.plugins))
	for i, p := range c.plugins {
		names[i] = p.Name()
	}
	return names
}

// Components returns the declared component names, sorted.
func (c *Compiler) Components() []string {
	names := make([]string, 0, len(c.known))
	for name := range c.known {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compile compiles one body. file is used for error locations and to
// resolve relative images; it may be empty.
func (c *Compiler) Compile(source, file string) (*Result, error) {
	root, ctx, err := c.compileTree(source, file)
	if err != nil {
		return nil, err
	}

	body, err := Encode(root)
	if err != nil {
		return nil, siteerrors.NewInternalError(siteerrors.ErrCodeInternalError, "encode compiled body", err).
			WithLocation(file, 0)
	}

	words := len(strings.Fields(root.TextContent()))
	return &Result{
		Body:        body,
		TOC:         ctx.TOC,
		Words:       words,
		ReadingTime: (words + c.opts.WordsPerMinute - 1) / c.opts.WordsPerMinute,
		Assets:      ctx.Assets,
	}, nil
}

func (c *Compiler) compileTree(source, file string) (*Node, *Context, error) {
	lex := newLexer(strings.ReplaceAll(source, "\r\n", "\n"), file)
	segs, err := lex.parse()
	if err != nil {
		return nil, nil, err
	}

	b := &treeBuilder{compiler: c, lex: lex, md: newMarkdown(), file: file}
	children, err := b.nodes(segs, false)
	if err != nil {
		return nil, nil, err
	}
	root := &Node{Kind: KindRoot, Children: children}

	ctx := &Context{File: file}
	for _, p := range c.plugins {
		if err := p.Apply(ctx, root); err != nil {
			if _, ok := siteerrors.TypeOf(err); ok {
				return nil, nil, err
			}
			return nil, nil, siteerrors.NewCompilationError(siteerrors.ErrCodeMalformedMarkup,
				fmt.Sprintf("plugin %s failed", p.Name()), err).WithLocation(file, 0)
		}
	}
	return root, ctx, nil
}

// treeBuilder assembles lexer segments and markdown runs into one tree.
type treeBuilder struct {
	compiler *Compiler
	lex      *lexer
	md       goldmark.Markdown
	file     string
}

func (b *treeBuilder) nodes(segs []segment, inline bool) ([]*Node, error) {
	var out []*Node
	for _, s := range segs {
		if s.tag != nil {
			n, err := b.tagNode(s.tag)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
			continue
		}

		text := dedent(s.text)
		if strings.TrimSpace(text) == "" {
			continue
		}
		nodes, err := b.expand(parseMarkdown(b.md, []byte(text)))
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}

	if inline && len(out) == 1 && out[0].IsTag("p") {
		return out[0].Children, nil
	}
	return out, nil
}

func (b *treeBuilder) tagNode(t *tag) (*Node, error) {
	kind := KindElement
	if isComponentName(t.name) {
		if !b.compiler.known[t.name] {
			return nil, siteerrors.NewCompilationError(siteerrors.ErrCodeUnknownComponent,
				fmt.Sprintf("unknown component <%s>", t.name), nil).WithLocation(b.file, t.line)
		}
		kind = KindComponent
	}

	children, err := b.nodes(t.children, t.oneLine)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: kind, Tag: t.name, Props: t.props, Children: children}, nil
}

// expand swaps inline markers in text nodes for the tags they stand for.
func (b *treeBuilder) expand(nodes []*Node) ([]*Node, error) {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind != KindText {
			children, err := b.expand(n.Children)
			if err != nil {
				return nil, err
			}
			n.Children = children
			if alt, ok := n.Props["alt"].(string); ok && strings.ContainsRune(alt, placeholderOpen) {
				if n.Props["alt"], err = b.plainText(alt); err != nil {
					return nil, err
				}
			}
			out = append(out, n)
			continue
		}
		if !strings.ContainsRune(n.Value, placeholderOpen) {
			out = append(out, n)
			continue
		}

		expanded, err := b.expandText(n.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

// expandText splits s around inline markers into text and tag nodes.
func (b *treeBuilder) expandText(s string) ([]*Node, error) {
	var out []*Node
	texts, refs := splitPlaceholders(s)
	for i, t := range texts {
		if t != "" {
			out = append(out, Text(t))
		}
		if i >= len(refs) {
			continue
		}
		if refs[i] < 0 || refs[i] >= len(b.lex.inline) {
			return nil, siteerrors.NewInternalError(siteerrors.ErrCodeInternalError, "dangling inline tag marker", nil).
				WithLocation(b.file, 0)
		}
		tn, err := b.tagNode(b.lex.inline[refs[i]])
		if err != nil {
			return nil, err
		}
		out = append(out, tn)
	}
	return out, nil
}

// plainText resolves inline markers in an attribute to their text content.
func (b *treeBuilder) plainText(s string) (string, error) {
	nodes, err := b.expandText(s)
	if err != nil {
		return "", err
	}
	return (&Node{Kind: KindRoot, Children: nodes}).TextContent(), nil
}
