package store

import (
	"sort"
	"strings"

	"github.com/kelas-internasional/kelas/internal/content"
)

// SortMembersByHierarchy returns members ordered by position rank, then by
// order. Unranked positions and missing orders sort last. Ties keep their
// input order.
func SortMembersByHierarchy(members []*content.Member) []*content.Member {
	out := append([]*content.Member(nil), members...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Rank(), out[j].Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].SortOrder() < out[j].SortOrder()
	})
	return out
}

// MemberGroups splits the sorted member list the way the directory page
// shows it. Leadership and Admin are subsets of Executive.
type MemberGroups struct {
	Sorted       []*content.Member
	Executive    []*content.Member
	Leadership   []*content.Member
	Admin        []*content.Member
	Coordinators []*content.Member
	Regular      []*content.Member
}

// GroupMembers sorts members by hierarchy and groups them.
func GroupMembers(members []*content.Member) MemberGroups {
	g := MemberGroups{Sorted: SortMembersByHierarchy(members)}
	for _, m := range g.Sorted {
		rank := m.Rank()
		switch {
		case rank <= content.ExecutiveRank:
			g.Executive = append(g.Executive, m)
			if strings.Contains(m.Position, "Ketua") {
				g.Leadership = append(g.Leadership, m)
			}
			if strings.Contains(m.Position, "Sekretaris") || strings.Contains(m.Position, "Bendahara") {
				g.Admin = append(g.Admin, m)
			}
		case rank < content.Unranked:
			g.Coordinators = append(g.Coordinators, m)
		default:
			g.Regular = append(g.Regular, m)
		}
	}
	return g
}

// OtherMembers returns up to n members other than m, in hierarchy order.
func OtherMembers(members []*content.Member, m *content.Member, n int) []*content.Member {
	var out []*content.Member
	for _, other := range SortMembersByHierarchy(members) {
		if len(out) == n {
			break
		}
		if other.Slug != m.Slug {
			out = append(out, other)
		}
	}
	return out
}

// PublishedPosts returns published posts, newest first. Posts with the
// same date keep their source order.
func PublishedPosts(posts []*content.Post) []*content.Post {
	var out []*content.Post
	for _, p := range posts {
		if p.Published {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time().After(out[j].Time())
	})
	return out
}

// PostsWithTag keeps the posts carrying tag. An empty tag keeps all.
func PostsWithTag(posts []*content.Post, tag string) []*content.Post {
	if tag == "" {
		return posts
	}
	var out []*content.Post
	for _, p := range posts {
		if p.HasTag(tag) {
			out = append(out, p)
		}
	}
	return out
}

// Tags returns every tag used by posts, in first-use order.
func Tags(posts []*content.Post) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range posts {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}
