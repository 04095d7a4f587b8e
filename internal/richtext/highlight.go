package richtext

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlightPlugin tokenises fenced code at compile time. Token colours are
// written as inline styles; background colours are never emitted so the
// page theme controls the code block background.
type highlightPlugin struct {
	style *chroma.Style
	theme string
}

func newHighlightPlugin(theme string) *highlightPlugin {
	return &highlightPlugin{style: styles.Get(theme), theme: theme}
}

func (p *highlightPlugin) Name() string { return "highlight" }

func (p *highlightPlugin) Apply(_ *Context, root *Node) error {
	var err error
	Walk(root, func(n *Node) bool {
		if err != nil {
			return false
		}
		if !n.IsTag("pre") || len(n.Children) != 1 || !n.Children[0].IsTag("code") {
			return true
		}
		err = p.highlight(n, n.Children[0])
		return false
	})
	return err
}

func (p *highlightPlugin) highlight(pre, code *Node) error {
	lang := strings.TrimPrefix(code.Prop("className"), "language-")
	source := code.TextContent()

	lexer := lexers.Get(lang)
	if lang == "" || lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return err
	}

	var lines []*Node
	for _, tokens := range chroma.SplitTokensIntoLines(iterator.Tokens()) {
		line := Element("span", map[string]interface{}{"data-line": ""})
		for _, tok := range tokens {
			value := strings.TrimSuffix(tok.Value, "\n")
			if value == "" {
				continue
			}
			if css := p.tokenStyle(tok.Type); css != "" {
				line.Children = append(line.Children, Element("span", map[string]interface{}{"style": css}, Text(value)))
			} else {
				line.Children = append(line.Children, Text(value))
			}
		}
		if len(lines) > 0 {
			lines = append(lines, Text("\n"))
		}
		lines = append(lines, line)
	}

	codeProps := map[string]interface{}{"data-theme": p.theme}
	preProps := map[string]interface{}{"data-theme": p.theme}
	if lang != "" {
		codeProps["data-language"] = lang
		codeProps["className"] = "language-" + lang
		preProps["data-language"] = lang
	}
	if fg := p.style.Get(chroma.Background).Colour; fg.IsSet() {
		preProps["style"] = "color:" + fg.String()
	}

	code.Props = codeProps
	code.Children = lines
	pre.Props = preProps
	return nil
}

func (p *highlightPlugin) tokenStyle(t chroma.TokenType) string {
	entry := p.style.Get(t)
	var parts []string
	if entry.Colour.IsSet() {
		parts = append(parts, "color:"+entry.Colour.String())
	}
	if entry.Bold == chroma.Yes {
		parts = append(parts, "font-weight:bold")
	}
	if entry.Italic == chroma.Yes {
		parts = append(parts, "font-style:italic")
	}
	if entry.Underline == chroma.Yes {
		parts = append(parts, "text-decoration:underline")
	}
	return strings.Join(parts, ";")
}
