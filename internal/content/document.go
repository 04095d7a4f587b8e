// Package content loads authored documents, validates them against their
// collection schema, derives computed fields and compiles their bodies.
//
// The result of a build is a set of immutable Post and Member values that
// the store serves and the bundle writer persists. A build is all or
// nothing: every failing document is reported, then the build fails.
package content

import (
	"strings"
	"time"

	"github.com/kelas-internasional/kelas/internal/richtext"
)

// Collection names a group of documents sharing one schema.
type Collection string

const (
	CollectionPosts  Collection = "posts"
	CollectionMember Collection = "member"
)

// Document is implemented by Post and Member only.
type Document interface {
	Collection() Collection
	// Label is the human-readable name used in listings.
	Label() string
	Meta() *Base
	sealed()
}

// Base holds the fields every document carries.
type Base struct {
	Slug         string             `json:"slug"`
	SlugAsParams string             `json:"slugAsParams"`
	Body         richtext.Body      `json:"body"`
	TOC          []richtext.Heading `json:"toc,omitempty"`
	Words        int                `json:"words"`
	ReadingTime  int                `json:"readingTime"`
	Source       string             `json:"source,omitempty"`
}

// Meta returns the shared fields.
func (b *Base) Meta() *Base { return b }

func (b *Base) sealed() {}

// Post is a blog article.
type Post struct {
	Base
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Date        string   `json:"date"`
	Published   bool     `json:"published"`
	Tags        []string `json:"tags,omitempty"`
}

// Collection implements Document.
func (p *Post) Collection() Collection { return CollectionPosts }

// Label implements Document.
func (p *Post) Label() string { return p.Title }

// Time parses Date. The zero time is returned for a malformed date, which
// validation rules out for built posts.
func (p *Post) Time() time.Time {
	return ParseDate(p.Date)
}

// HasTag reports whether the post carries tag.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Skill is a named ability with a level between 0 and 100.
type Skill struct {
	Name  string  `json:"name"`
	Level float64 `json:"level"`
}

// SocialNetwork is a link to a member's profile elsewhere.
type SocialNetwork struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Activity is something a member took part in.
type Activity struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
}

// Member is a class member profile.
type Member struct {
	Base
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	ImageURL       string          `json:"imageUrl"`
	StudentID      string          `json:"studentId"`
	Nickname       string          `json:"nickname,omitempty"`
	Position       string          `json:"position,omitempty"`
	Department     string          `json:"department,omitempty"`
	Semester       int             `json:"semester,omitempty"`
	BirthDate      string          `json:"birthDate,omitempty"`
	BirthPlace     string          `json:"birthPlace,omitempty"`
	Address        string          `json:"address,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	Bio            string          `json:"bio,omitempty"`
	Hobbies        []string        `json:"hobbies,omitempty"`
	Skills         []Skill         `json:"skills,omitempty"`
	Achievements   []string        `json:"achievements,omitempty"`
	SocialNetworks []SocialNetwork `json:"socialNetworks,omitempty"`
	Activities     []Activity      `json:"activities,omitempty"`
	Order          *int            `json:"order,omitempty"`
	IsActive       bool            `json:"isActive"`
	JoinDate       string          `json:"joinDate,omitempty"`
}

// Collection implements Document.
func (m *Member) Collection() Collection { return CollectionMember }

// Label implements Document.
func (m *Member) Label() string { return m.FullName() }

// ParseDate reads the date formats the schema accepts. It returns the zero
// time for anything else.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
