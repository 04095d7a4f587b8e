package richtext

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
)

// Inline tags are swapped for these markers before the surrounding text is
// handed to the markdown parser, then swapped back in the tree.
const (
	placeholderOpen  = '\uE000'
	placeholderClose = '\uE001'
)

var voidElements = map[string]bool{
	"area": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

// segment is either a run of markdown or one block-level tag.
type segment struct {
	text string
	tag  *tag
}

type tag struct {
	name     string
	props    map[string]interface{}
	children []segment
	line     int
	// oneLine is set when the opening and closing tags share a line; the
	// children are then inline content.
	oneLine bool
}

// lexer splits MDX-style source into markdown runs and JSX-like tags. Code
// fences, code spans and comments are passed over untouched.
type lexer struct {
	src      string
	pos      int
	file     string
	newlines []int
	inline   []*tag
}

func newLexer(src, file string) *lexer {
	l := &lexer{src: src, file: file}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			l.newlines = append(l.newlines, i)
		}
	}
	return l
}

func (l *lexer) lineAt(pos int) int {
	return sort.SearchInts(l.newlines, pos) + 1
}

func (l *lexer) errorf(pos int, format string, args ...interface{}) error {
	return siteerrors.NewCompilationError(siteerrors.ErrCodeMalformedMarkup, fmt.Sprintf(format, args...), nil).
		WithLocation(l.file, l.lineAt(pos))
}

// parse lexes the whole source.
func (l *lexer) parse() ([]segment, error) {
	return l.content("", 0)
}

// content reads until the closing tag for parent, or EOF when parent is "".
func (l *lexer) content(parent string, openedAt int) ([]segment, error) {
	var (
		segs []segment
		buf  strings.Builder
	)
	flush := func() {
		if buf.Len() > 0 {
			segs = append(segs, segment{text: buf.String()})
			buf.Reset()
		}
	}

	for l.pos < len(l.src) {
		if l.atLineStart(l.pos) {
			if fence, ok := l.fenceAt(l.pos); ok {
				buf.WriteString(l.readFence(fence))
				continue
			}
		}

		c := l.src[l.pos]
		switch {
		case c == '\\' && l.pos+1 < len(l.src) && isASCIIPunct(l.src[l.pos+1]):
			// Kept escaped for goldmark to unescape.
			buf.WriteString(l.src[l.pos : l.pos+2])
			l.pos += 2

		case c == '`':
			buf.WriteString(l.readCodeSpan())

		case strings.HasPrefix(l.src[l.pos:], "<!--"):
			end := strings.Index(l.src[l.pos+4:], "-->")
			if end < 0 {
				return nil, l.errorf(l.pos, "unclosed comment")
			}
			l.pos += 4 + end + 3

		case strings.HasPrefix(l.src[l.pos:], "{/*"):
			end := strings.Index(l.src[l.pos+3:], "*/}")
			if end < 0 {
				return nil, l.errorf(l.pos, "unclosed comment")
			}
			l.pos += 3 + end + 3

		case strings.HasPrefix(l.src[l.pos:], "</") && l.pos+2 < len(l.src) && isNameStart(l.src[l.pos+2]):
			start := l.pos
			name := l.readName(l.pos + 2)
			end := l.pos + 2 + len(name)
			for end < len(l.src) && isSpace(l.src[end]) {
				end++
			}
			if end >= len(l.src) || l.src[end] != '>' {
				return nil, l.errorf(start, "malformed closing tag </%s", name)
			}
			if parent == "" {
				return nil, l.errorf(start, "unexpected closing tag </%s>", name)
			}
			if name != parent {
				return nil, l.errorf(start, "expected </%s> (opened on line %d), found </%s>", parent, l.lineAt(openedAt), name)
			}
			l.pos = end + 1
			flush()
			return segs, nil

		case c == '<' && l.pos+1 < len(l.src) && isNameStart(l.src[l.pos+1]):
			name := l.readName(l.pos + 1)
			after := l.pos + 1 + len(name)
			// <https://...> and <me@example.com> are markdown autolinks.
			if after < len(l.src) && (l.src[after] == ':' || l.src[after] == '@') {
				buf.WriteByte(c)
				l.pos++
				continue
			}
			start := l.pos
			startsLine := l.atLineStart(start)
			t, err := l.readTag(name)
			if err != nil {
				return nil, err
			}
			if startsLine && l.restOfLineBlank(l.pos) {
				flush()
				segs = append(segs, segment{tag: t})
				l.skipRestOfLine()
				continue
			}
			t.oneLine = true
			l.inline = append(l.inline, t)
			buf.WriteRune(placeholderOpen)
			buf.WriteString(strconv.Itoa(len(l.inline) - 1))
			buf.WriteRune(placeholderClose)

		default:
			buf.WriteByte(c)
			l.pos++
		}
	}

	if parent != "" {
		return nil, l.errorf(openedAt, "unclosed tag <%s>", parent)
	}
	flush()
	return segs, nil
}

// readTag reads an opening tag at l.pos and, unless self-closing or void,
// its children and closing tag.
func (l *lexer) readTag(name string) (*tag, error) {
	start := l.pos
	t := &tag{name: name, line: l.lineAt(start)}
	l.pos += 1 + len(name)

	props, selfClosing, err := l.readAttributes(name, start)
	if err != nil {
		return nil, err
	}
	t.props = props
	if selfClosing || voidElements[name] {
		t.oneLine = true
		return t, nil
	}

	children, err := l.content(name, start)
	if err != nil {
		return nil, err
	}
	t.children = children
	t.oneLine = l.lineAt(l.pos-1) == t.line
	return t, nil
}

func (l *lexer) readAttributes(name string, start int) (map[string]interface{}, bool, error) {
	var props map[string]interface{}
	set := func(k string, v interface{}) {
		if props == nil {
			props = make(map[string]interface{})
		}
		props[k] = v
	}

	for {
		for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
			l.pos++
		}
		if l.pos >= len(l.src) {
			return nil, false, l.errorf(start, "unterminated tag <%s", name)
		}
		switch c := l.src[l.pos]; {
		case c == '>':
			l.pos++
			return props, false, nil
		case strings.HasPrefix(l.src[l.pos:], "/>"):
			l.pos += 2
			return props, true, nil
		case isNameStart(c):
			key := l.readName(l.pos)
			l.pos += len(key)
			if l.pos < len(l.src) && l.src[l.pos] == '=' {
				l.pos++
				v, err := l.readValue(name, start)
				if err != nil {
					return nil, false, err
				}
				set(key, v)
			} else {
				set(key, true)
			}
		default:
			return nil, false, l.errorf(l.pos, "unexpected %q in tag <%s>", c, name)
		}
	}
}

func (l *lexer) readValue(name string, start int) (interface{}, error) {
	if l.pos >= len(l.src) {
		return nil, l.errorf(start, "missing attribute value in <%s>", name)
	}
	switch q := l.src[l.pos]; q {
	case '"', '\'':
		end := strings.IndexByte(l.src[l.pos+1:], q)
		if end < 0 {
			return nil, l.errorf(l.pos, "unterminated attribute value in <%s>", name)
		}
		v := l.src[l.pos+1 : l.pos+1+end]
		l.pos += end + 2
		return v, nil
	case '{':
		depth := 0
		i := l.pos
		for ; i < len(l.src); i++ {
			switch l.src[i] {
			case '{':
				depth++
			case '}':
				depth--
			case '"', '\'', '`':
				closing := strings.IndexByte(l.src[i+1:], l.src[i])
				if closing < 0 {
					return nil, l.errorf(i, "unterminated string in <%s>", name)
				}
				i += closing + 1
			}
			if depth == 0 {
				break
			}
		}
		if depth != 0 {
			return nil, l.errorf(l.pos, "unbalanced braces in <%s>", name)
		}
		expr := strings.TrimSpace(l.src[l.pos+1 : i])
		l.pos = i + 1
		return expressionValue(expr), nil
	default:
		return nil, l.errorf(l.pos, "attribute values in <%s> must be quoted or braced", name)
	}
}

// expressionValue turns a braced attribute into data. Literals become their
// values; anything else is kept as its source text.
func expressionValue(expr string) interface{} {
	switch expr {
	case "true":
		return true
	case "false":
		return false
	case "null", "undefined", "":
		return nil
	}
	if f, err := strconv.ParseFloat(expr, 64); err == nil {
		return f
	}
	if len(expr) >= 2 {
		first, last := expr[0], expr[len(expr)-1]
		if (first == '\'' || first == '`') && last == first {
			return expr[1 : len(expr)-1]
		}
	}
	var v interface{}
	if err := json.Unmarshal([]byte(expr), &v); err == nil {
		return v
	}
	return expr
}

func (l *lexer) readName(at int) string {
	end := at
	for end < len(l.src) {
		c := l.src[end]
		if isNameStart(c) || (c >= '0' && c <= '9') || c == '-' || c == '.' || c == '_' {
			end++
			continue
		}
		break
	}
	return l.src[at:end]
}

func (l *lexer) readCodeSpan() string {
	start := l.pos
	n := 0
	for l.pos < len(l.src) && l.src[l.pos] == '`' {
		n++
		l.pos++
	}
	run := strings.Repeat("`", n)
	for i := l.pos; i < len(l.src); {
		j := strings.Index(l.src[i:], run)
		if j < 0 {
			break
		}
		j += i
		k := j + n
		if k < len(l.src) && l.src[k] == '`' {
			for k < len(l.src) && l.src[k] == '`' {
				k++
			}
			i = k
			continue
		}
		l.pos = k
		return l.src[start:k]
	}
	return run
}

type fence struct {
	char byte
	n    int
}

func (l *lexer) fenceAt(pos int) (fence, bool) {
	i := pos
	for i < len(l.src) && (l.src[i] == ' ' || l.src[i] == '\t') {
		i++
	}
	if i >= len(l.src) || (l.src[i] != '`' && l.src[i] != '~') {
		return fence{}, false
	}
	c := l.src[i]
	n := 0
	for i < len(l.src) && l.src[i] == c {
		n++
		i++
	}
	return fence{char: c, n: n}, n >= 3
}

// readFence consumes a fenced code block, or the rest of the source when the
// fence is never closed.
func (l *lexer) readFence(f fence) string {
	start := l.pos
	l.skipRestOfLine()
	for l.pos < len(l.src) {
		lineEnd := strings.IndexByte(l.src[l.pos:], '\n')
		if lineEnd < 0 {
			lineEnd = len(l.src)
		} else {
			lineEnd += l.pos
		}
		line := strings.TrimSpace(l.src[l.pos:lineEnd])
		l.pos = lineEnd
		if l.pos < len(l.src) {
			l.pos++
		}
		if len(line) >= f.n && strings.Trim(line, string(f.char)) == "" {
			break
		}
	}
	return l.src[start:l.pos]
}

func (l *lexer) atLineStart(pos int) bool {
	for i := pos - 1; i >= 0; i-- {
		switch l.src[i] {
		case '\n':
			return true
		case ' ', '\t':
		default:
			return false
		}
	}
	return true
}

func (l *lexer) restOfLineBlank(pos int) bool {
	for i := pos; i < len(l.src); i++ {
		switch l.src[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}

func (l *lexer) skipRestOfLine() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.pos++
		if c == '\n' {
			return
		}
	}
}

func isNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// isComponentName reports whether a tag refers to a registry component
// rather than an intrinsic element.
func isComponentName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// splitPlaceholders cuts s around inline markers, returning the text pieces
// and the tag indexes between them.
func splitPlaceholders(s string) (texts []string, refs []int) {
	for {
		open := strings.IndexRune(s, placeholderOpen)
		if open < 0 {
			return append(texts, s), refs
		}
		rest := s[open+utf8.RuneLen(placeholderOpen):]
		closeAt := strings.IndexRune(rest, placeholderClose)
		if closeAt < 0 {
			return append(texts, s), refs
		}
		idx, err := strconv.Atoi(rest[:closeAt])
		if err != nil {
			return append(texts, s), refs
		}
		texts = append(texts, s[:open])
		refs = append(refs, idx)
		s = rest[closeAt+utf8.RuneLen(placeholderClose):]
	}
}

// dedent strips the common leading indentation of the non-blank lines.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return s
	}
	for i, line := range lines {
		if len(line) >= common {
			lines[i] = line[common:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}

func isASCIIPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') || (c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}
