package pages

import (
	"net/url"

	"github.com/a-h/templ"

	"github.com/kelas-internasional/kelas/internal/content"
	"github.com/kelas-internasional/kelas/internal/richtext"
	"github.com/kelas-internasional/kelas/internal/ui"
)

// BlogIndex lists posts, optionally filtered by activeTag. posts must
// already be filtered and ordered.
func BlogIndex(site Site, posts []*content.Post, tags []string, activeTag string) templ.Component {
	filters := []templ.Component{tagFilter(site, "", activeTag)}
	for _, tag := range tags {
		filters = append(filters, tagFilter(site, tag, activeTag))
	}

	var list templ.Component
	if len(posts) == 0 {
		list = muted("Belum ada tulisan.")
	} else {
		cards := make([]templ.Component, len(posts))
		for i, p := range posts {
			cards[i] = PostCard(site, p)
		}
		list = ui.Tag("div", ui.Attrs{"class": "grid gap-6 md:grid-cols-2"}, cards...)
	}

	main := ui.Group(
		heading("Blog"),
		muted("Cerita dan kegiatan kelas."),
		ui.Tag("div", ui.Attrs{"class": "my-8 flex flex-wrap gap-2"}, filters...),
		list,
	)
	return Layout(site, "Blog", "", main)
}

func tagFilter(site Site, tag, active string) templ.Component {
	variant := ui.VariantOutline
	if tag == active {
		variant = ui.VariantDefault
	}
	href := "/blog"
	label := "Semua"
	if tag != "" {
		href += "?tag=" + url.QueryEscape(tag)
		label = TagLabel(tag, site.Locale)
	}
	return ui.Button(ui.ButtonProps{Variant: variant, Size: "sm", Href: href}, ui.Text(label))
}

// PostCard is the summary of a post shown in listings.
func PostCard(site Site, p *content.Post) templ.Component {
	var desc templ.Component
	if p.Description != "" {
		desc = ui.CardDescription(ui.Props{}, ui.Text(p.Description))
	}
	return ui.Card(ui.Props{Attrs: ui.Attrs{"data-slug": p.SlugAsParams}},
		ui.CardHeader(ui.Props{},
			ui.CardTitle(ui.Props{}, ui.Link(ui.Props{Class: "hover:underline"}, PostURL(p), ui.Text(p.Title))),
			desc,
		),
		ui.CardContent(ui.Props{Class: "text-sm text-muted-foreground"},
			ui.Tag("time", ui.Attrs{"datetime": p.Date}, ui.Text(FormatDateString(p.Date, site.Locale))),
			ui.Text(" · "+ReadingTime(p.ReadingTime, site.Locale)),
		),
		ui.CardFooter(ui.Props{Class: "flex flex-wrap gap-2"}, tagBadges(site, p.Tags)...),
	)
}

func tagBadges(site Site, tags []string) []templ.Component {
	out := make([]templ.Component, len(tags))
	for i, tag := range tags {
		out[i] = ui.Link(ui.Props{}, "/blog?tag="+url.QueryEscape(tag),
			ui.Badge(ui.Props{}, ui.VariantSecondary, ui.Text(TagLabel(tag, site.Locale))))
	}
	return out
}

// PostPage shows one post. body is the rendered document body.
func PostPage(site Site, p *content.Post, body templ.Component) templ.Component {
	header := ui.Tag("header", ui.Attrs{"class": "mb-10 space-y-4"},
		ui.Tag("p", ui.Attrs{"class": "text-sm text-muted-foreground"},
			ui.Tag("time", ui.Attrs{"datetime": p.Date}, ui.Text(FormatDateString(p.Date, site.Locale))),
			ui.Text(" · "+ReadingTime(p.ReadingTime, site.Locale)),
		),
		heading(p.Title),
		optionalMuted(p.Description),
		ui.Tag("div", ui.Attrs{"class": "flex flex-wrap gap-2"}, tagBadges(site, p.Tags)...),
	)

	main := ui.Tag("div", ui.Attrs{"class": "lg:grid lg:grid-cols-[1fr_220px] lg:gap-10"},
		ui.Tag("article", ui.Attrs{"class": "min-w-0"}, header, body),
		TableOfContents(p.TOC),
	)
	return Layout(site, p.Title, p.Description, ui.Group(
		ui.Link(ui.Props{Class: "mb-6 inline-block text-sm text-muted-foreground hover:text-foreground"}, "/blog", ui.Text("← Kembali ke blog")),
		main,
	))
}

// TableOfContents renders the heading outline of a document. Headings
// below level 3 are left out.
func TableOfContents(toc []richtext.Heading) templ.Component {
	var items []templ.Component
	for _, h := range toc {
		if h.Level > 3 {
			continue
		}
		class := "text-muted-foreground hover:text-foreground"
		if h.Level == 3 {
			class = ui.Cn(class, "pl-4")
		}
		items = append(items, ui.Tag("li", nil, ui.Link(ui.Props{Class: class}, "#"+h.ID, ui.Text(h.Title))))
	}
	if len(items) == 0 {
		return templ.NopComponent
	}
	return ui.Tag("aside", ui.Attrs{"class": "hidden text-sm lg:block", "aria-label": "Daftar isi"},
		ui.Tag("div", ui.Attrs{"class": "sticky top-16"},
			ui.Tag("p", ui.Attrs{"class": "mb-2 font-medium"}, ui.Text("Daftar Isi")),
			ui.Tag("ul", ui.Attrs{"class": "space-y-2"}, items...),
		),
	)
}

func optionalMuted(text string) templ.Component {
	if text == "" {
		return nil
	}
	return ui.Tag("p", ui.Attrs{"class": "text-xl text-muted-foreground"}, ui.Text(text))
}
