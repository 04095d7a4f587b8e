package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/text/language"

	"github.com/kelas-internasional/kelas/internal/content"
	"github.com/kelas-internasional/kelas/internal/richtext"
	"github.com/kelas-internasional/kelas/internal/store"
	"github.com/kelas-internasional/kelas/internal/ui"
)

func testSite() Site {
	return Site{
		Title:       "Kelas Internasional",
		Description: "Website kelas",
		Locale:      language.Indonesian,
		Now:         func() time.Time { return time.Date(2024, 5, 9, 12, 0, 0, 0, time.UTC) },
	}
}

func renderDoc(t *testing.T, c templ.Component) (string, *html.Node) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := html.Parse(strings.NewReader(buf.String()))
	require.NoError(t, err)
	return buf.String(), doc
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(key string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		for _, a := range n.Attr {
			if a.Key == key {
				return true
			}
		}
		return false
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name   string
		date   string
		locale language.Tag
		want   string
	}{
		{"indonesian", "2024-01-02", language.Indonesian, "2 Januari 2024"},
		{"indonesian december", "2023-12-31", language.Indonesian, "31 Desember 2023"},
		{"regional indonesian", "2024-08-17", language.MustParse("id-ID"), "17 Agustus 2024"},
		{"english", "2024-01-02", language.English, "January 2, 2024"},
		{"datetime", "2024-03-05T10:00:00Z", language.Indonesian, "5 Maret 2024"},
		{"malformed", "yesterday", language.Indonesian, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDateString(tt.date, tt.locale))
		})
	}
}

func TestTagLabel(t *testing.T) {
	assert.Equal(t, "Kegiatan Kampus", TagLabel("kegiatan-kampus", language.Indonesian))
	assert.Equal(t, "Golang", TagLabel("golang", language.English))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, "3 menit baca", ReadingTime(3, language.Indonesian))
	assert.Equal(t, "1 menit baca", ReadingTime(0, language.Indonesian))
	assert.Equal(t, "1 min read", ReadingTime(1, language.English))
	assert.Equal(t, "4 min read", ReadingTime(4, language.English))
}

func TestParseLocale(t *testing.T) {
	assert.Equal(t, language.Indonesian, ParseLocale("id"))
	assert.Equal(t, language.Indonesian, ParseLocale("not a tag!"))
	assert.Equal(t, language.English, ParseLocale("en"))
}

func TestLayoutLiveReloadScript(t *testing.T) {
	site := testSite()

	out, doc := renderDoc(t, Layout(site, "Blog", "", ui.Text("isi")))
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	titles := findAll(doc, func(n *html.Node) bool { return n.Data == "title" })
	require.Len(t, titles, 1)
	assert.Equal(t, "Blog | Kelas Internasional", titles[0].FirstChild.Data)
	assert.NotContains(t, out, "/ws")

	site.LiveReload = true
	out, _ = renderDoc(t, Layout(site, "", "", ui.Text("isi")))
	assert.Contains(t, out, `"/ws"`)
	assert.Contains(t, out, "location.reload()")
}

func testPosts() []*content.Post {
	return []*content.Post{
		{
			Base:        content.Base{Slug: "blog/makrab", SlugAsParams: "makrab", ReadingTime: 2},
			Title:       "Malam Keakraban",
			Description: "Cerita makrab",
			Date:        "2024-02-10",
			Published:   true,
			Tags:        []string{"kegiatan-kampus"},
		},
		{
			Base:      content.Base{Slug: "blog/2024/lomba", SlugAsParams: "2024/lomba", ReadingTime: 1},
			Title:     "Juara Lomba",
			Date:      "2024-01-02",
			Published: true,
		},
	}
}

func TestBlogIndex(t *testing.T) {
	posts := testPosts()
	_, doc := renderDoc(t, BlogIndex(testSite(), posts, []string{"kegiatan-kampus"}, "kegiatan-kampus"))

	cards := findAll(doc, hasAttr("data-slug"))
	require.Len(t, cards, 2)
	assert.Equal(t, "makrab", attr(cards[0], "data-slug"))

	links := findAll(doc, func(n *html.Node) bool { return n.Data == "a" && attr(n, "href") == "/blog/2024/lomba" })
	assert.Len(t, links, 1)

	times := findAll(doc, func(n *html.Node) bool { return n.Data == "time" })
	require.NotEmpty(t, times)
	assert.Equal(t, "10 Februari 2024", times[0].FirstChild.Data)

	active := findAll(doc, func(n *html.Node) bool {
		return n.Data == "a" && attr(n, "href") == "/blog?tag=kegiatan-kampus" && strings.Contains(attr(n, "class"), "bg-primary")
	})
	assert.Len(t, active, 1, "active tag filter is highlighted")
}

func TestBlogIndexEmpty(t *testing.T) {
	out, _ := renderDoc(t, BlogIndex(testSite(), nil, nil, ""))
	assert.Contains(t, out, "Belum ada tulisan.")
}

func TestPostPageTableOfContents(t *testing.T) {
	post := testPosts()[0]
	post.TOC = []richtext.Heading{
		{ID: "latar", Level: 2, Title: "Latar"},
		{ID: "acara", Level: 3, Title: "Acara"},
		{ID: "detail", Level: 4, Title: "Detail"},
	}

	out, doc := renderDoc(t, PostPage(testSite(), post, ui.Tag("p", nil, ui.Text("isi tulisan"))))

	asides := findAll(doc, func(n *html.Node) bool { return n.Data == "aside" })
	require.Len(t, asides, 1)
	links := findAll(asides[0], func(n *html.Node) bool { return n.Data == "a" })
	require.Len(t, links, 2)
	assert.Equal(t, "#latar", attr(links[0], "href"))
	assert.Equal(t, "#acara", attr(links[1], "href"))

	assert.Contains(t, out, "isi tulisan")
	assert.Contains(t, out, "2 menit baca")
}

func TestPostPageWithoutHeadingsHasNoOutline(t *testing.T) {
	_, doc := renderDoc(t, PostPage(testSite(), testPosts()[1], ui.Text("x")))
	assert.Empty(t, findAll(doc, func(n *html.Node) bool { return n.Data == "aside" }))
}

func intPtr(i int) *int { return &i }

func testMembers() []*content.Member {
	return []*content.Member{
		{Base: content.Base{Slug: "member/budi", SlugAsParams: "budi"}, FirstName: "Budi", LastName: "Santoso", Order: intPtr(1)},
		{Base: content.Base{Slug: "member/ani", SlugAsParams: "ani"}, FirstName: "Ani", LastName: "Wijaya", Position: "Ketua Kelas"},
		{Base: content.Base{Slug: "member/citra", SlugAsParams: "citra"}, FirstName: "Citra", LastName: "Lestari", Position: "Koordinator Kebersihan"},
	}
}

func TestMemberDirectoryGroups(t *testing.T) {
	groups := store.GroupMembers(testMembers())
	_, doc := renderDoc(t, MemberDirectory(testSite(), groups))

	sections := findAll(doc, hasAttr("data-group"))
	require.Len(t, sections, 3)
	assert.Equal(t, "Pengurus Inti", attr(sections[0], "data-group"))
	assert.Equal(t, "Koordinator", attr(sections[1], "data-group"))
	assert.Equal(t, "Anggota", attr(sections[2], "data-group"))

	lead := findAll(sections[0], hasAttr("data-slug"))
	require.Len(t, lead, 1)
	assert.Equal(t, "/member/ani", attr(lead[0], "href"))

	badges := findAll(doc, hasAttr("data-category"))
	require.Len(t, badges, 2)
	assert.Equal(t, "leadership", attr(badges[0], "data-category"))
	assert.Equal(t, "coordinator", attr(badges[1], "data-category"))
}

func TestMemberProfile(t *testing.T) {
	m := &content.Member{
		Base:       content.Base{Slug: "member/jane-doe", SlugAsParams: "jane-doe"},
		FirstName:  "Jane",
		LastName:   "Doe",
		Nickname:   "JD",
		StudentID:  "23091397001",
		BirthDate:  "2003-05-10",
		BirthPlace: "Surabaya",
		Skills:     []content.Skill{{Name: "Go", Level: 80}},
		SocialNetworks: []content.SocialNetwork{
			{Name: "Github", URL: "https://github.com/jane"},
			{Name: "Mastodon", URL: "https://example.social/@jane"},
		},
	}
	others := testMembers()[:2]

	out, doc := renderDoc(t, MemberProfile(testSite(), m, ui.Text("isi profil"), others))

	assert.Contains(t, out, `Jane Doe &#34;JD&#34;`)
	assert.Contains(t, out, "20 tahun", "birthday on the next day is not counted yet")
	assert.Contains(t, out, "Surabaya, 10 Mei 2003")
	assert.Contains(t, out, "isi profil")

	icons := findAll(doc, hasAttr("data-icon"))
	require.Len(t, icons, 2)
	assert.Equal(t, "github", attr(icons[0], "data-icon"))
	assert.Equal(t, "external-link", attr(icons[1], "data-icon"))
	assert.Equal(t, "noopener noreferrer", attr(icons[0], "rel"))

	bars := findAll(doc, func(n *html.Node) bool { return attr(n, "role") == "progressbar" })
	require.Len(t, bars, 1)
	assert.Equal(t, "80", attr(bars[0], "aria-valuenow"))

	assert.Len(t, findAll(doc, hasAttr("data-slug")), 2)
}

func TestHome(t *testing.T) {
	groups := store.GroupMembers(testMembers())
	out, doc := renderDoc(t, Home(testSite(), testPosts()[:1], groups))

	assert.Contains(t, out, "Tulisan Terbaru")
	exec := findAll(doc, func(n *html.Node) bool { return attr(n, "data-group") == "Pengurus Kelas" })
	require.Len(t, exec, 1)
	assert.Len(t, findAll(exec[0], hasAttr("data-slug")), 1)
}

func TestNotFound(t *testing.T) {
	out, doc := renderDoc(t, NotFound(testSite(), "/member/nobody"))

	sections := findAll(doc, hasAttr("data-status"))
	require.Len(t, sections, 1)
	assert.Equal(t, "404", attr(sections[0], "data-status"))
	assert.Contains(t, out, "/member/nobody")
}
