package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestMemberNames(t *testing.T) {
	m := &Member{FirstName: "Jane", LastName: "Doe", Nickname: "JD"}
	assert.Equal(t, "Jane Doe", m.FullName())
	assert.Equal(t, `Jane Doe "JD"`, m.DisplayName())
	assert.Equal(t, "JD", m.Initials())
	assert.Equal(t, "Jane Doe", m.Label())

	m.Nickname = ""
	assert.Equal(t, "Jane Doe", m.DisplayName())

	assert.Equal(t, "ÉS", (&Member{FirstName: "élan", LastName: "Suryani"}).Initials())
}

func TestMemberAge(t *testing.T) {
	m := &Member{BirthDate: "2004-06-15"}

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"day before birthday", time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), 19},
		{"on birthday", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 20},
		{"earlier month", time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC), 19},
		{"later month", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			age, ok := m.Age(tt.now)
			assert.True(t, ok)
			assert.Equal(t, tt.want, age)
		})
	}

	_, ok := (&Member{}).Age(time.Now())
	assert.False(t, ok)
	_, ok = (&Member{BirthDate: "soon"}).Age(time.Now())
	assert.False(t, ok)
}

func TestPositionCategory(t *testing.T) {
	tests := []struct {
		position string
		rank     int
		want     Category
	}{
		{"Ketua Kelas", 1, CategoryLeadership},
		{"Wakil Ketua Kelas", 2, CategoryLeadership},
		{"Sekretaris", 3, CategoryAdmin},
		{"Wakil Bendahara", 6, CategoryAdmin},
		{"Koordinator Kebersihan", 7, CategoryCoordinator},
		{"Koordinator Keagamaan", 8, CategoryCoordinator},
		{"Ketua Panitia", Unranked, CategoryMember},
		{"", Unranked, CategoryMember},
	}
	for _, tt := range tests {
		t.Run(tt.position, func(t *testing.T) {
			m := &Member{Position: tt.position}
			assert.Equal(t, tt.rank, m.Rank())
			assert.Equal(t, tt.want, m.PositionCategory())
		})
	}
}

func TestSortOrder(t *testing.T) {
	assert.Equal(t, Unranked, (&Member{}).SortOrder())
	assert.Equal(t, 0, (&Member{Order: intPtr(0)}).SortOrder())
	assert.Equal(t, 3, (&Member{Order: intPtr(3)}).SortOrder())
}

func TestSummaryAndSocialIcon(t *testing.T) {
	assert.Equal(t, "Sekretaris", (&Member{Position: "Sekretaris", Hobbies: []string{"Catur"}}).Summary())
	assert.Equal(t, "Catur", (&Member{Hobbies: []string{"Catur"}}).Summary())
	assert.Equal(t, "Student", (&Member{}).Summary())

	assert.Equal(t, "github", SocialIcon("Github"))
	assert.Equal(t, "linkedin", SocialIcon("LinkedIn"))
	assert.Equal(t, "external-link", SocialIcon("Mastodon"))
}
