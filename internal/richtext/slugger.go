package richtext

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugger turns heading text into anchor ids that are unique within one
// document. The first "Overview" is overview, the next overview-1.
type Slugger struct {
	occurrences map[string]int
}

// NewSlugger returns an empty slugger.
func NewSlugger() *Slugger {
	return &Slugger{occurrences: make(map[string]int)}
}

// Slug returns a unique id for value and records it.
func (s *Slugger) Slug(value string) string {
	slug := Slugify(value)
	if slug == "" {
		slug = "section"
	}
	original := slug
	for {
		if _, seen := s.occurrences[slug]; !seen {
			break
		}
		s.occurrences[original]++
		slug = original + "-" + strconv.Itoa(s.occurrences[original])
	}
	s.occurrences[slug] = 0
	return slug
}

// Reserve marks an id as taken, e.g. one set explicitly by the author.
func (s *Slugger) Reserve(id string) {
	if _, ok := s.occurrences[id]; !ok {
		s.occurrences[id] = 0
	}
}

// Slugify lowercases value, keeps letters, digits, '-' and '_', and turns
// spaces into '-'. Other punctuation is dropped.
func Slugify(value string) string {
	value = norm.NFC.String(strings.TrimSpace(value))

	var b strings.Builder
	b.Grow(len(value))
	for _, r := range strings.ToLower(value) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.Is(unicode.Mn, r), r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}
