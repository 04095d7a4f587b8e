package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
	"github.com/kelas-internasional/kelas/internal/richtext"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return root
}

func newTestBuilder() *Builder {
	opts := richtext.DefaultOptions()
	opts.Components = []string{"Card", "Progress"}
	return NewBuilder(richtext.New(opts), WithWorkers(4))
}

const janeDoe = `---
firstName: Jane
lastName: Doe
imageUrl: /images/jane.jpg
studentId: "24091397001"
position: Sekretaris
skills:
  - name: Go
    level: 80
order: 2
---

## Tentang

<Card title="Hobi">
  Membaca.
</Card>
`

func TestBuildCollections(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"blog/hello.mdx": "---\ntitle: Halo\ndate: 2024-01-02\ntags: [kelas, unesa]\n---\n\n# Halo\n\nSelamat datang.\n",
		"blog/2024/post-a.md": "---\ntitle: Post A\ndate: 2024-03-04\npublished: false\n---\n\nIsi.\n",
		"member/jane-doe.mdx": janeDoe,
		"member/notes.txt":    "ignored",
	})

	out, err := newTestBuilder().Build(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Count())

	posts := out.Posts()
	require.Len(t, posts, 2)
	// Source order is the sorted file path order.
	assert.Equal(t, "blog/2024/post-a", posts[0].Slug)
	assert.Equal(t, "2024/post-a", posts[0].SlugAsParams)
	assert.False(t, posts[0].Published)

	hello := posts[1]
	assert.Equal(t, "hello", hello.SlugAsParams)
	assert.True(t, hello.Published)
	assert.Equal(t, "2024-01-02", hello.Date)
	assert.Equal(t, []string{"kelas", "unesa"}, hello.Tags)
	assert.Equal(t, "blog/hello.mdx", hello.Source)
	require.Len(t, hello.TOC, 1)
	assert.Equal(t, "halo", hello.TOC[0].ID)
	assert.Equal(t, 1, hello.ReadingTime)

	members := out.Members()
	require.Len(t, members, 1)
	jane := members[0]
	assert.Equal(t, "jane-doe", jane.SlugAsParams)
	assert.Equal(t, "24091397001", jane.StudentID)
	assert.True(t, jane.IsActive)
	require.NotNil(t, jane.Order)
	assert.Equal(t, 2, *jane.Order)
	assert.Equal(t, []Skill{{Name: "Go", Level: 80}}, jane.Skills)

	root2, err := jane.Body.Decode()
	require.NoError(t, err)
	var hasCard bool
	richtext.Walk(root2, func(n *richtext.Node) bool {
		if n.Kind == richtext.KindComponent && n.Tag == "Card" {
			hasCard = true
		}
		return true
	})
	assert.True(t, hasCard)
}

func TestBuildFrontmatterSlugOverride(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"blog/a-very-long-file-name.mdx": "---\nslug: blog/short\ntitle: Short\ndate: 2024-01-02\n---\nx\n",
	})

	out, err := newTestBuilder().Build(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, out.Posts(), 1)
	assert.Equal(t, "short", out.Posts()[0].SlugAsParams)
}

func TestBuildDuplicateSlugNamesBothFiles(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"member/jane.mdx":       janeDoe,
		"member/jane/index.mdx": janeDoe,
	})

	_, err := newTestBuilder().Build(context.Background(), root)
	require.Error(t, err)

	var se *siteerrors.SiteError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, siteerrors.ErrCodeDuplicateSlug, se.Code)
	assert.Contains(t, err.Error(), "member/jane.mdx")
	assert.Contains(t, err.Error(), "member/jane/index.mdx")
	assert.Equal(t, []string{"member/jane.mdx", "member/jane/index.mdx"}, se.Context["files"])
}

func TestBuildReportsEveryFailure(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"blog/no-title.mdx":  "---\ndate: 2024-01-02\n---\nx\n",
		"blog/stray-tag.mdx": "---\ntitle: Stray\ndate: 2024-01-02\n---\n\nHalo\n\n</Card>\n",
		"member/too-good.mdx": strings.Replace(janeDoe, "level: 80", "level: 150", 1),
	})

	_, err := newTestBuilder().Build(context.Background(), root)
	require.Error(t, err)

	var failure *siteerrors.BuildFailure
	require.True(t, errors.As(err, &failure))
	require.Len(t, failure.Errors, 3)

	var ve *siteerrors.ValidationErrors
	require.True(t, errors.As(failure.Errors[0], &ve))
	assert.NotNil(t, ve.Field("title"))
	assert.True(t, strings.HasSuffix(ve.Document, "no-title.mdx"))

	var se *siteerrors.SiteError
	require.True(t, errors.As(failure.Errors[1], &se))
	assert.Equal(t, siteerrors.ErrCodeMalformedMarkup, se.Code)
	assert.Equal(t, 8, se.Line, "line is counted from the top of the file")

	ve = nil
	require.True(t, errors.As(failure.Errors[2], &ve))
	fe := ve.Field("skills[0].level")
	require.NotNil(t, fe)
	assert.Equal(t, "lte", fe.Constraint)
}

func TestBuildUnknownComponentFails(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"blog/chart.mdx": "---\ntitle: Chart\ndate: 2024-01-02\n---\n\n<Chart />\n",
	})

	_, err := newTestBuilder().Build(context.Background(), root)
	require.Error(t, err)

	var se *siteerrors.SiteError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, siteerrors.ErrCodeUnknownComponent, se.Code)
}

func TestBuildMissingCollectionDirIsEmpty(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"blog/hello.mdx": "---\ntitle: Halo\ndate: 2024-01-02\n---\nx\n",
	})

	out, err := newTestBuilder().Build(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, out.Members())
}

func TestBuildHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src, err := ParseSource("content", "content/blog/a.mdx", CollectionPosts,
		[]byte("---\ntitle: A\ndate: 2024-01-02\n---\nx\n"))
	require.NoError(t, err)

	_, err = newTestBuilder().BuildSources(ctx, []*Source{src})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseSource(t *testing.T) {
	src, err := ParseSource("content", filepath.Join("content", "blog", "a.mdx"), CollectionPosts,
		[]byte("---\r\ntitle: A\r\ndate: 2024-01-02\r\n---\r\nbody\r\n"))
	require.NoError(t, err)

	assert.Equal(t, "blog/a.mdx", src.Rel)
	assert.Equal(t, "blog/a", src.Data["slug"])
	assert.Equal(t, "A", src.Data["title"])
	assert.Contains(t, src.Body, "body")
	assert.NotContains(t, src.Body, "\r")

	_, err = ParseSource("content", "content/blog/b.mdx", CollectionPosts, []byte("---\ntitle: [unclosed\n---\n"))
	require.Error(t, err)
	assert.True(t, siteerrors.IsValidation(err))
}

func TestEntrySchemas(t *testing.T) {
	assert.Equal(t, []string{"achievement", "activity", "community"}, EntryKinds())

	_, ok := EntrySchema("achievement")
	assert.True(t, ok)
	_, ok = EntrySchema("payment")
	assert.False(t, ok)
}
