package pages

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kelas-internasional/kelas/internal/content"
)

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatDate renders t as "2 Januari 2024" for Indonesian and
// "January 2, 2024" for any other locale. The zero time renders as "".
func FormatDate(t time.Time, locale language.Tag) string {
	if t.IsZero() {
		return ""
	}
	if base, _ := locale.Base(); base.String() == "id" {
		return strconv.Itoa(t.Day()) + " " + indonesianMonths[t.Month()-1] + " " + strconv.Itoa(t.Year())
	}
	return t.Format("January 2, 2006")
}

// FormatDateString parses a frontmatter date and formats it.
func FormatDateString(s string, locale language.Tag) string {
	return FormatDate(content.ParseDate(s), locale)
}

// TagLabel turns a tag slug such as "kegiatan-kampus" into a title.
func TagLabel(tag string, locale language.Tag) string {
	return cases.Title(locale).String(strings.ReplaceAll(tag, "-", " "))
}

// ReadingTime renders a minute count.
func ReadingTime(minutes int, locale language.Tag) string {
	if minutes < 1 {
		minutes = 1
	}
	if base, _ := locale.Base(); base.String() == "id" {
		return strconv.Itoa(minutes) + " menit baca"
	}
	if minutes == 1 {
		return "1 min read"
	}
	return strconv.Itoa(minutes) + " min read"
}

// ParseLocale reads a BCP 47 tag, falling back to Indonesian.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Indonesian
	}
	return tag
}

// PostURL is the page address of a post.
func PostURL(p *content.Post) string {
	return "/blog/" + p.SlugAsParams
}

// MemberURL is the page address of a member profile.
func MemberURL(m *content.Member) string {
	return "/member/" + m.SlugAsParams
}
