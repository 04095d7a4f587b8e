// Package pages composes the site's pages from the ui primitives and the
// rendered document bodies. Pages only read from values handed to them;
// lookups and error handling belong to the server.
package pages

import (
	"context"
	"io"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/kelas-internasional/kelas/internal/ui"
)

// Site carries the values every page needs.
type Site struct {
	Title       string
	Description string
	BaseURL     string
	Locale      language.Tag
	// LiveReload adds the websocket reload script.
	LiveReload bool
	// Now is the clock used for ages and the footer year.
	Now func() time.Time
}

func (s Site) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

const tailwindCDN = "https://cdn.tailwindcss.com"

// liveReloadScript reconnects after a server restart and reloads the page
// on every rebuild.
const liveReloadScript = `(function(){
var proto = location.protocol === "https:" ? "wss:" : "ws:";
function connect() {
  var ws = new WebSocket(proto + "//" + location.host + "/ws");
  ws.onmessage = function (e) {
    var msg;
    try { msg = JSON.parse(e.data); } catch (_) { return; }
    if (msg.type === "reload") { location.reload(); }
    if (msg.type === "build_error") { console.error("kelas build failed:\n" + msg.content); }
  };
  ws.onclose = function () { setTimeout(connect, 1000); };
}
connect();
})();`

var navLinks = []struct{ href, label string }{
	{"/", "Beranda"},
	{"/blog", "Blog"},
	{"/member", "Anggota"},
}

// Layout wraps main in the site chrome. title is prefixed to the site
// title unless empty.
func Layout(site Site, title, description string, main templ.Component) templ.Component {
	fullTitle := site.Title
	if title != "" {
		fullTitle = title + " | " + site.Title
	}
	if description == "" {
		description = site.Description
	}

	head := ui.Tag("head", nil,
		ui.Tag("meta", ui.Attrs{"charset": "utf-8"}),
		ui.Tag("meta", ui.Attrs{"name": "viewport", "content": "width=device-width, initial-scale=1"}),
		ui.Tag("title", nil, ui.Text(fullTitle)),
		ui.Tag("meta", ui.Attrs{"name": "description", "content": description}),
		ui.Tag("meta", ui.Attrs{"property": "og:title", "content": fullTitle}),
		ui.Tag("meta", ui.Attrs{"property": "og:description", "content": description}),
		ui.Tag("script", ui.Attrs{"src": tailwindCDN}),
	)

	var reload templ.Component
	if site.LiveReload {
		reload = ui.Tag("script", nil, templ.Raw(liveReloadScript))
	}

	body := ui.Tag("body", ui.Attrs{"class": "min-h-screen bg-background font-sans antialiased"},
		header(site),
		ui.Tag("main", ui.Attrs{"class": "container mx-auto max-w-5xl px-4 py-10"}, main),
		footer(site),
		reload,
	)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
			return err
		}
		return ui.Tag("html", ui.Attrs{"lang": site.Locale.String()}, head, body).Render(ctx, w)
	})
}

func header(site Site) templ.Component {
	links := make([]templ.Component, len(navLinks))
	for i, l := range navLinks {
		links[i] = ui.Link(ui.Props{Class: "text-sm font-medium text-muted-foreground hover:text-foreground"}, l.href, ui.Text(l.label))
	}
	return ui.Tag("header", ui.Attrs{"class": "border-b"},
		ui.Tag("div", ui.Attrs{"class": "container mx-auto flex h-14 max-w-5xl items-center justify-between px-4"},
			ui.Link(ui.Props{Class: "font-bold"}, "/", ui.Text(site.Title)),
			ui.Tag("nav", ui.Attrs{"class": "flex gap-6"}, links...),
		),
	)
}

func footer(site Site) templ.Component {
	year := site.now().Format("2006")
	return ui.Tag("footer", ui.Attrs{"class": "border-t py-6 text-center text-sm text-muted-foreground"},
		ui.Text("© "+year+" "+site.Title))
}

func heading(text string) templ.Component {
	return ui.Tag("h1", ui.Attrs{"class": "scroll-m-20 text-4xl font-extrabold tracking-tight lg:text-5xl"}, ui.Text(text))
}

func sectionTitle(text string) templ.Component {
	return ui.Tag("h2", ui.Attrs{"class": "mt-12 mb-6 border-b pb-2 text-2xl font-semibold tracking-tight"}, ui.Text(text))
}

func muted(text string) templ.Component {
	return ui.Tag("p", ui.Attrs{"class": "text-muted-foreground"}, ui.Text(text))
}
