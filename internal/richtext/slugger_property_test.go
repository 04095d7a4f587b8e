//go:build property
// +build property

package richtext

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestSluggerProperties checks anchor id generation over generated titles.
func TestSluggerProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: ids within one document never repeat
	properties.Property("ids are unique", prop.ForAll(
		func(titles []string) bool {
			s := NewSlugger()
			seen := make(map[string]bool, len(titles))
			for _, title := range titles {
				id := s.Slug(title)
				if seen[id] {
					return false
				}
				seen[id] = true
			}
			return true
		},
		gen.SliceOf(gen.OneConstOf("Overview", "overview", "Overview 1", "Intro", "", "!!")),
	))

	// Property: Slugify output is stable under re-slugification
	properties.Property("slugify is idempotent", prop.ForAll(
		func(title string) bool {
			once := Slugify(title)
			return Slugify(once) == once
		},
		gen.RegexMatch(`^[A-Za-z0-9 &?!_.:-]{0,30}$`),
	))

	properties.TestingRun(t)
}
