package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugAsParams(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"member/jane-doe", "jane-doe"},
		{"blog/2024/post-a", "2024/post-a"},
		{"posts", ""},
		{"", ""},
		{"blog/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.want, SlugAsParams(tt.slug))
		})
	}
}

func TestSlugFromPath(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"blog/hello.mdx", "blog/hello"},
		{"blog/2024/post-a.md", "blog/2024/post-a"},
		{"member/jane/index.mdx", "member/jane"},
		{"blog/index.mdx", "blog"},
		{"index.mdx", ""},
		{"blog/reindex.mdx", "blog/reindex"},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, SlugFromPath(tt.rel))
		})
	}
}

func TestDeriveIsIdempotent(t *testing.T) {
	record := map[string]interface{}{
		"slug":  "blog/2024/post-a",
		"title": "Post A",
	}

	once := Derive(record)
	twice := Derive(once)

	assert.Equal(t, "2024/post-a", once["slugAsParams"])
	assert.Equal(t, once, twice)
	assert.NotContains(t, record, "slugAsParams", "input must not be modified")
}

func TestDeriveIgnoresStaleValue(t *testing.T) {
	out := Derive(map[string]interface{}{"slug": "member/jane-doe", "slugAsParams": "wrong"})
	assert.Equal(t, "jane-doe", out["slugAsParams"])
}

func TestWithDirs(t *testing.T) {
	defs := WithDirs(Definitions(), map[string]string{"posts": "articles", "gallery": "photos"})
	posts, ok := Lookup(defs, CollectionPosts)
	assert.True(t, ok)
	assert.Equal(t, "articles", posts.Dir)

	member, _ := Lookup(defs, CollectionMember)
	assert.Equal(t, "member", member.Dir)

	orig, _ := Lookup(Definitions(), CollectionPosts)
	assert.Equal(t, "blog", orig.Dir)
}
