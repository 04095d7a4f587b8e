package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func parseFragment(t *testing.T, s string) *html.Node {
	t.Helper()
	nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"})
	require.NoError(t, err)
	require.NotEmpty(t, nodes)
	return nodes[0]
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestTagEscapesAndOrdersAttributes(t *testing.T) {
	out := render(t, Tag("a", Attrs{"title": `"quoted" <x>`, "href": "/blog", "onclick": "alert(1)"}, Text("a < b")))

	assert.Equal(t, `<a href="/blog" title="&#34;quoted&#34; &lt;x&gt;">a &lt; b</a>`, out)
}

func TestVoidTagHasNoClosing(t *testing.T) {
	assert.Equal(t, `<img alt="x" src="/a.png">`, render(t, Tag("img", Attrs{"src": "/a.png", "alt": "x"})))
}

func TestCardMergesClasses(t *testing.T) {
	out := render(t, Card(Props{Class: "my-6", ID: "c"}, CardTitle(Props{}, Text("Visi"))))

	n := parseFragment(t, out)
	assert.Equal(t, "div", n.Data)
	assert.Equal(t, "c", attr(n, "id"))
	assert.True(t, strings.HasSuffix(attr(n, "class"), " my-6"))
	assert.Contains(t, out, "Visi")
}

func TestAlertRole(t *testing.T) {
	n := parseFragment(t, render(t, Alert(Props{}, AlertDestructive, Text("x"))))
	assert.Equal(t, "alert", attr(n, "role"))
	assert.Contains(t, attr(n, "class"), "text-destructive")
}

func TestButtonAsLink(t *testing.T) {
	n := parseFragment(t, render(t, Button(ButtonProps{Href: "/member", Variant: VariantOutline}, Text("Anggota"))))
	assert.Equal(t, "a", n.Data)
	assert.Equal(t, "/member", attr(n, "href"))

	n = parseFragment(t, render(t, Button(ButtonProps{}, Text("Kirim"))))
	assert.Equal(t, "button", n.Data)
	assert.Equal(t, "button", attr(n, "type"))
}

func TestProgressClamps(t *testing.T) {
	tests := []struct {
		value float64
		now   string
	}{
		{-5, "0"},
		{40, "40"},
		{150, "100"},
	}
	for _, tt := range tests {
		n := parseFragment(t, render(t, Progress(Props{}, tt.value)))
		assert.Equal(t, tt.now, attr(n, "aria-valuenow"))
	}
}

func TestTableWrapsInScrollContainer(t *testing.T) {
	n := parseFragment(t, render(t, Table(Props{}, TableBody(Props{}, TableRow(Props{}, TableCell(Props{}, Text("1")))))))
	assert.Equal(t, "div", n.Data)
	require.NotNil(t, n.FirstChild)
	assert.Equal(t, "table", n.FirstChild.Data)
}

func TestCn(t *testing.T) {
	assert.Equal(t, "a b", Cn("a", "", "  ", "b"))
	assert.Equal(t, "", Cn())
}
