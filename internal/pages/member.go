package pages

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/kelas-internasional/kelas/internal/content"
	"github.com/kelas-internasional/kelas/internal/store"
	"github.com/kelas-internasional/kelas/internal/ui"
)

// MemberDirectory shows every member, grouped by role.
func MemberDirectory(site Site, groups store.MemberGroups) templ.Component {
	main := ui.Group(
		heading("Anggota Kelas"),
		muted(strconv.Itoa(len(groups.Sorted))+" mahasiswa"),
		memberSection(site, "Pengurus Inti", groups.Executive),
		memberSection(site, "Koordinator", groups.Coordinators),
		memberSection(site, "Anggota", groups.Regular),
	)
	return Layout(site, "Anggota", "", main)
}

func memberSection(site Site, title string, members []*content.Member) templ.Component {
	if len(members) == 0 {
		return nil
	}
	cards := make([]templ.Component, len(members))
	for i, m := range members {
		cards[i] = MemberCard(site, m)
	}
	return ui.Tag("section", ui.Attrs{"data-group": title},
		sectionTitle(title),
		ui.Tag("div", ui.Attrs{"class": "grid gap-4 sm:grid-cols-2 lg:grid-cols-3"}, cards...),
	)
}

// MemberCard is the summary of a member shown in listings.
func MemberCard(site Site, m *content.Member) templ.Component {
	var badge templ.Component
	if m.Position != "" {
		badge = ui.Badge(ui.Props{Attrs: ui.Attrs{"data-category": string(m.PositionCategory())}}, categoryVariant(m.PositionCategory()), ui.Text(m.Position))
	}
	return ui.Link(ui.Props{Class: "block", Attrs: ui.Attrs{"data-slug": m.SlugAsParams}}, MemberURL(m),
		ui.Card(ui.Props{Class: "h-full transition-colors hover:bg-accent"},
			ui.CardHeader(ui.Props{Class: "flex-row items-center gap-4 space-y-0"},
				avatar(m, "h-12 w-12"),
				ui.Tag("div", nil,
					ui.CardTitle(ui.Props{}, ui.Text(m.DisplayName())),
					ui.CardDescription(ui.Props{}, ui.Text(m.Summary())),
				),
			),
			ui.CardFooter(ui.Props{}, badge),
		),
	)
}

func categoryVariant(c content.Category) ui.Variant {
	switch c {
	case content.CategoryLeadership:
		return ui.VariantDefault
	case content.CategoryAdmin, content.CategoryCoordinator:
		return ui.VariantSecondary
	default:
		return ui.VariantOutline
	}
}

func avatar(m *content.Member, size string) templ.Component {
	return ui.Avatar(ui.Props{Class: size},
		ui.AvatarImage(ui.Props{}, m.ImageURL, m.FullName()),
		ui.AvatarFallback(ui.Props{}, ui.Text(m.Initials())),
	)
}

// MemberProfile shows one member. body is the rendered document body and
// others the members suggested at the bottom of the page.
func MemberProfile(site Site, m *content.Member, body templ.Component, others []*content.Member) templ.Component {
	var facts []templ.Component
	addFact := func(label, value string) {
		if value == "" {
			return
		}
		facts = append(facts,
			ui.Tag("dt", ui.Attrs{"class": "text-muted-foreground"}, ui.Text(label)),
			ui.Tag("dd", ui.Attrs{"class": "font-medium"}, ui.Text(value)),
		)
	}
	addFact("NIM", m.StudentID)
	addFact("Program Studi", m.Department)
	if m.Semester > 0 {
		addFact("Semester", strconv.Itoa(m.Semester))
	}
	if age, ok := m.Age(site.now()); ok {
		addFact("Usia", strconv.Itoa(age)+" tahun")
	}
	if m.BirthPlace != "" || m.BirthDate != "" {
		place := m.BirthPlace
		if date := FormatDateString(m.BirthDate, site.Locale); date != "" {
			if place != "" {
				place += ", "
			}
			place += date
		}
		addFact("Tempat, Tanggal Lahir", place)
	}
	addFact("Email", m.Email)
	addFact("Bergabung", FormatDateString(m.JoinDate, site.Locale))

	profile := ui.Card(ui.Props{},
		ui.CardHeader(ui.Props{Class: "items-center text-center"},
			avatar(m, "h-32 w-32"),
			ui.Tag("h1", ui.Attrs{"class": "mt-4 text-2xl font-bold"}, ui.Text(m.DisplayName())),
			ui.CardDescription(ui.Props{}, ui.Text(m.Summary())),
		),
		ui.CardContent(ui.Props{},
			ui.Tag("dl", ui.Attrs{"class": "grid grid-cols-2 gap-2 text-sm"}, facts...),
			socialLinks(m.SocialNetworks),
		),
	)

	details := ui.Group(
		optionalSection("Tentang", paragraph(m.Bio)),
		body,
		optionalSection("Keahlian", skills(m.Skills)),
		optionalSection("Hobi", badges(m.Hobbies)),
		optionalSection("Prestasi", list(m.Achievements)),
		optionalSection("Kegiatan", activities(site, m.Activities)),
	)

	var more templ.Component
	if len(others) > 0 {
		cards := make([]templ.Component, len(others))
		for i, o := range others {
			cards[i] = MemberCard(site, o)
		}
		more = ui.Tag("section", ui.Attrs{"class": "mt-16"},
			sectionTitle("Anggota Lainnya"),
			ui.Tag("div", ui.Attrs{"class": "grid gap-4 sm:grid-cols-2 lg:grid-cols-3"}, cards...),
		)
	}

	main := ui.Group(
		ui.Link(ui.Props{Class: "mb-6 inline-block text-sm text-muted-foreground hover:text-foreground"}, "/member", ui.Text("← Semua anggota")),
		ui.Tag("div", ui.Attrs{"class": "grid gap-10 md:grid-cols-[300px_1fr]"},
			ui.Tag("aside", nil, profile),
			ui.Tag("div", ui.Attrs{"class": "min-w-0"}, details),
		),
		more,
	)
	return Layout(site, m.FullName(), m.Bio, main)
}

func socialLinks(networks []content.SocialNetwork) templ.Component {
	if len(networks) == 0 {
		return nil
	}
	links := make([]templ.Component, len(networks))
	for i, n := range networks {
		links[i] = ui.Button(ui.ButtonProps{
			Props: ui.Props{Attrs: ui.Attrs{
				"data-icon":  content.SocialIcon(n.Name),
				"target":     "_blank",
				"rel":        "noopener noreferrer",
				"aria-label": n.Name,
			}},
			Variant: ui.VariantOutline,
			Size:    "sm",
			Href:    n.URL,
		}, ui.Text(n.Name))
	}
	return ui.Tag("div", ui.Attrs{"class": "mt-6 flex flex-wrap gap-2"}, links...)
}

func optionalSection(title string, c templ.Component) templ.Component {
	if c == nil {
		return nil
	}
	return ui.Tag("section", nil, sectionTitle(title), c)
}

func paragraph(text string) templ.Component {
	if text == "" {
		return nil
	}
	return ui.Tag("p", ui.Attrs{"class": "leading-7"}, ui.Text(text))
}

func skills(items []content.Skill) templ.Component {
	if len(items) == 0 {
		return nil
	}
	rows := make([]templ.Component, len(items))
	for i, s := range items {
		rows[i] = ui.Tag("div", ui.Attrs{"class": "space-y-1"},
			ui.Tag("div", ui.Attrs{"class": "flex justify-between text-sm"},
				ui.Tag("span", nil, ui.Text(s.Name)),
				ui.Tag("span", ui.Attrs{"class": "text-muted-foreground"}, ui.Text(strconv.FormatFloat(s.Level, 'f', -1, 64)+"%")),
			),
			ui.Progress(ui.Props{}, s.Level),
		)
	}
	return ui.Tag("div", ui.Attrs{"class": "space-y-4"}, rows...)
}

func badges(items []string) templ.Component {
	if len(items) == 0 {
		return nil
	}
	out := make([]templ.Component, len(items))
	for i, item := range items {
		out[i] = ui.Badge(ui.Props{}, ui.VariantSecondary, ui.Text(item))
	}
	return ui.Tag("div", ui.Attrs{"class": "flex flex-wrap gap-2"}, out...)
}

func list(items []string) templ.Component {
	if len(items) == 0 {
		return nil
	}
	out := make([]templ.Component, len(items))
	for i, item := range items {
		out[i] = ui.Tag("li", nil, ui.Text(item))
	}
	return ui.Tag("ul", ui.Attrs{"class": "ml-6 list-disc space-y-2"}, out...)
}

func activities(site Site, items []content.Activity) templ.Component {
	if len(items) == 0 {
		return nil
	}
	out := make([]templ.Component, len(items))
	for i, a := range items {
		out[i] = ui.Tag("li", ui.Attrs{"class": "border-l-2 pl-4"},
			ui.Tag("p", ui.Attrs{"class": "text-sm text-muted-foreground"}, ui.Text(FormatDateString(a.Date, site.Locale))),
			ui.Tag("p", ui.Attrs{"class": "font-medium"}, ui.Text(a.Title)),
			paragraph(a.Description),
		)
	}
	return ui.Tag("ol", ui.Attrs{"class": "space-y-6"}, out...)
}
