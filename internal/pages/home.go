package pages

import (
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/kelas-internasional/kelas/internal/content"
	"github.com/kelas-internasional/kelas/internal/store"
	"github.com/kelas-internasional/kelas/internal/ui"
)

// Home is the landing page: the latest posts and the class executives.
func Home(site Site, latest []*content.Post, groups store.MemberGroups) templ.Component {
	hero := ui.Tag("section", ui.Attrs{"class": "space-y-6 py-12 text-center"},
		heading(site.Title),
		ui.Tag("p", ui.Attrs{"class": "mx-auto max-w-2xl text-lg text-muted-foreground"}, ui.Text(site.Description)),
		ui.Tag("div", ui.Attrs{"class": "flex justify-center gap-4"},
			ui.Button(ui.ButtonProps{Href: "/member", Size: "lg"}, ui.Text("Kenali Kami")),
			ui.Button(ui.ButtonProps{Href: "/blog", Size: "lg", Variant: ui.VariantOutline}, ui.Text("Baca Blog")),
		),
		ui.Tag("dl", ui.Attrs{"class": "mx-auto grid max-w-md grid-cols-2 gap-4 pt-6"},
			stat(strconv.Itoa(len(groups.Sorted)), "Mahasiswa"),
			stat(strconv.Itoa(len(latest)), "Tulisan Terbaru"),
		),
	)

	var posts templ.Component
	if len(latest) > 0 {
		cards := make([]templ.Component, len(latest))
		for i, p := range latest {
			cards[i] = PostCard(site, p)
		}
		posts = ui.Tag("section", nil,
			sectionTitle("Tulisan Terbaru"),
			ui.Tag("div", ui.Attrs{"class": "grid gap-6 md:grid-cols-3"}, cards...),
		)
	}

	return Layout(site, "", "", ui.Group(
		hero,
		posts,
		memberSection(site, "Pengurus Kelas", groups.Executive),
	))
}

func stat(value, label string) templ.Component {
	return ui.Tag("div", ui.Attrs{"class": "rounded-lg border p-4"},
		ui.Tag("dt", ui.Attrs{"class": "text-sm text-muted-foreground"}, ui.Text(label)),
		ui.Tag("dd", ui.Attrs{"class": "text-3xl font-bold"}, ui.Text(value)),
	)
}

// NotFound is shown for unknown pages and documents.
func NotFound(site Site, path string) templ.Component {
	return ErrorPage(site, http.StatusNotFound, "Halaman tidak ditemukan",
		"Tidak ada halaman di "+path+".")
}

// ErrorPage shows a status code with a short explanation. It never
// includes internal error details.
func ErrorPage(site Site, status int, title, message string) templ.Component {
	main := ui.Tag("section", ui.Attrs{"class": "py-24 text-center", "data-status": strconv.Itoa(status)},
		ui.Tag("p", ui.Attrs{"class": "text-6xl font-extrabold text-muted-foreground"}, ui.Text(strconv.Itoa(status))),
		ui.Tag("h1", ui.Attrs{"class": "mt-4 text-2xl font-bold"}, ui.Text(title)),
		ui.Tag("p", ui.Attrs{"class": "mt-2 text-muted-foreground"}, ui.Text(message)),
		ui.Tag("div", ui.Attrs{"class": "mt-8"}, ui.Button(ui.ButtonProps{Href: "/"}, ui.Text("Kembali ke Beranda"))),
	)
	return Layout(site, title, "", main)
}
