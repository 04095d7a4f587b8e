package content

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Unranked is the rank of a position outside the class hierarchy, and the
// order of a member without one.
const Unranked = 999

// positionRanks orders the class officer positions.
var positionRanks = map[string]int{
	"Ketua Kelas":            1,
	"Wakil Ketua Kelas":      2,
	"Sekretaris":             3,
	"Wakil Sekretaris":       4,
	"Bendahara":              5,
	"Wakil Bendahara":        6,
	"Koordinator Kebersihan": 7,
	"Koordinator Keagamaan":  8,
}

// ExecutiveRank is the lowest rank that still counts as class executive.
const ExecutiveRank = 6

// PositionRank returns the hierarchy rank of position, or Unranked.
func PositionRank(position string) int {
	if r, ok := positionRanks[position]; ok {
		return r
	}
	return Unranked
}

// Category groups positions for display.
type Category string

const (
	CategoryLeadership  Category = "leadership"
	CategoryAdmin       Category = "admin"
	CategoryCoordinator Category = "coordinator"
	CategoryMember      Category = "member"
)

// Rank returns the member's position rank.
func (m *Member) Rank() int {
	return PositionRank(m.Position)
}

// SortOrder returns Order, or Unranked when it is not set.
func (m *Member) SortOrder() int {
	if m.Order == nil {
		return Unranked
	}
	return *m.Order
}

// PositionCategory classifies the member's position.
func (m *Member) PositionCategory() Category {
	rank := m.Rank()
	switch {
	case rank <= ExecutiveRank && strings.Contains(m.Position, "Ketua"):
		return CategoryLeadership
	case rank <= ExecutiveRank && (strings.Contains(m.Position, "Sekretaris") || strings.Contains(m.Position, "Bendahara")):
		return CategoryAdmin
	case rank > ExecutiveRank && rank < Unranked:
		return CategoryCoordinator
	default:
		return CategoryMember
	}
}

// FullName joins first and last name.
func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// DisplayName is the full name followed by the quoted nickname, if any.
func (m *Member) DisplayName() string {
	if m.Nickname == "" {
		return m.FullName()
	}
	return m.FullName() + ` "` + m.Nickname + `"`
}

// Initials are used as the avatar fallback.
func (m *Member) Initials() string {
	var b strings.Builder
	for _, s := range []string{m.FirstName, m.LastName} {
		if r, _ := utf8.DecodeRuneInString(s); r != utf8.RuneError {
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

// Age returns the member's age in whole years at now. ok is false when the
// birth date is missing or malformed.
func (m *Member) Age(now time.Time) (age int, ok bool) {
	birth := ParseDate(m.BirthDate)
	if birth.IsZero() {
		return 0, false
	}
	age = now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age, true
}

// Summary is the short line shown under a member's name in lists.
func (m *Member) Summary() string {
	switch {
	case m.Position != "":
		return m.Position
	case len(m.Hobbies) > 0:
		return m.Hobbies[0]
	default:
		return "Student"
	}
}

// SocialIcon maps a network name to the icon key the pages know. Unknown
// networks get the generic link icon.
func SocialIcon(name string) string {
	switch name {
	case "LinkedIn":
		return "linkedin"
	case "Github":
		return "github"
	case "X":
		return "x"
	case "Instagram":
		return "instagram"
	default:
		return "external-link"
	}
}
