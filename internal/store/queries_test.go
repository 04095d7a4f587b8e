package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kelas-internasional/kelas/internal/content"
)

func slugs(members []*content.Member) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.SlugAsParams
	}
	return out
}

func TestSortMembersByHierarchy(t *testing.T) {
	a := member("a", "Ketua Kelas", nil)
	b := member("b", "", intPtr(1))
	c := member("c", "", intPtr(2))

	sorted := SortMembersByHierarchy([]*content.Member{c, b, a})
	assert.Equal(t, []string{"a", "b", "c"}, slugs(sorted))
}

func TestSortMembersByHierarchyTable(t *testing.T) {
	tests := []struct {
		name    string
		members []*content.Member
		want    []string
	}{
		{
			name: "ranks beat order",
			members: []*content.Member{
				member("bendahara", "Bendahara", intPtr(1)),
				member("wakil", "Wakil Ketua Kelas", intPtr(9)),
			},
			want: []string{"wakil", "bendahara"},
		},
		{
			name: "missing order sorts after explicit order",
			members: []*content.Member{
				member("none", "", nil),
				member("five", "", intPtr(5)),
			},
			want: []string{"five", "none"},
		},
		{
			name: "order zero is a real order",
			members: []*content.Member{
				member("one", "", intPtr(1)),
				member("zero", "", intPtr(0)),
			},
			want: []string{"zero", "one"},
		},
		{
			name: "ties keep input order",
			members: []*content.Member{
				member("x", "", nil),
				member("y", "", nil),
				member("z", "", nil),
			},
			want: []string{"x", "y", "z"},
		},
		{
			name: "unknown position is unranked",
			members: []*content.Member{
				member("panitia", "Ketua Panitia", intPtr(1)),
				member("kebersihan", "Koordinator Kebersihan", nil),
			},
			want: []string{"kebersihan", "panitia"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugs(SortMembersByHierarchy(tt.members)))
		})
	}
}

func TestSortDoesNotModifyInput(t *testing.T) {
	in := []*content.Member{member("b", "", intPtr(2)), member("a", "", intPtr(1))}
	_ = SortMembersByHierarchy(in)
	assert.Equal(t, []string{"b", "a"}, slugs(in))
}

func TestGroupMembers(t *testing.T) {
	g := GroupMembers([]*content.Member{
		member("reg", "", nil),
		member("keagamaan", "Koordinator Keagamaan", nil),
		member("bendahara", "Bendahara", nil),
		member("ketua", "Ketua Kelas", nil),
		member("sekretaris", "Sekretaris", nil),
		member("wakil", "Wakil Ketua Kelas", nil),
	})

	assert.Equal(t, []string{"ketua", "wakil", "sekretaris", "bendahara", "keagamaan", "reg"}, slugs(g.Sorted))
	assert.Equal(t, []string{"ketua", "wakil", "sekretaris", "bendahara"}, slugs(g.Executive))
	assert.Equal(t, []string{"ketua", "wakil"}, slugs(g.Leadership))
	assert.Equal(t, []string{"sekretaris", "bendahara"}, slugs(g.Admin))
	assert.Equal(t, []string{"keagamaan"}, slugs(g.Coordinators))
	assert.Equal(t, []string{"reg"}, slugs(g.Regular))
}

func TestOtherMembers(t *testing.T) {
	all := []*content.Member{
		member("a", "Ketua Kelas", nil),
		member("b", "", intPtr(1)),
		member("c", "", intPtr(2)),
		member("d", "", intPtr(3)),
	}
	assert.Equal(t, []string{"a", "c", "d"}, slugs(OtherMembers(all, all[1], 3)))
	assert.Equal(t, []string{"b"}, slugs(OtherMembers(all, all[0], 1)))
}

func TestPublishedPosts(t *testing.T) {
	posts := []*content.Post{
		post("blog/old", "2023-05-01", true, "kelas"),
		post("blog/draft", "2024-06-01", false),
		post("blog/new", "2024-02-10", true, "unesa", "kelas"),
		post("blog/same-day", "2024-02-10", true),
	}

	got := PublishedPosts(posts)
	var keys []string
	for _, p := range got {
		keys = append(keys, p.SlugAsParams)
	}
	assert.Equal(t, []string{"new", "same-day", "old"}, keys)

	tagged := PostsWithTag(got, "kelas")
	assert.Len(t, tagged, 2)
	assert.Len(t, PostsWithTag(got, ""), 3)
	assert.Empty(t, PostsWithTag(got, "none"))

	assert.Equal(t, []string{"kelas", "unesa"}, Tags(posts))
}
