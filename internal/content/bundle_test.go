package content

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
)

func TestBundleRoundTrip(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"blog/hello.mdx":      "---\ntitle: Halo\ndate: 2024-01-02\n---\n\n## Visi\n\nSelamat datang.\n",
		"member/jane-doe.mdx": janeDoe,
	})
	b := newTestBuilder()
	out, err := b.Build(context.Background(), root)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), ".kelas")
	require.NoError(t, WriteBundles(dir, out, b.Definitions()))

	data, err := os.ReadFile(filepath.Join(dir, "posts.json"))
	require.NoError(t, err)
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, float64(1), envelope["version"])
	assert.Equal(t, "posts", envelope["collection"])
	docs := envelope["documents"].([]interface{})
	require.Len(t, docs, 1)
	first := docs[0].(map[string]interface{})
	assert.Equal(t, "hello", first["slugAsParams"])
	assert.IsType(t, map[string]interface{}{}, first["body"], "body is embedded, not quoted")

	posts, err := ReadBundle(dir, CollectionPosts)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	post := posts[0].(*Post)
	assert.Equal(t, out.Posts()[0], post)

	members, err := ReadBundle(dir, CollectionMember)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, out.Members()[0], members[0].(*Member))
}

func TestWriteBundlesEmptyCollection(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"blog/hello.mdx": "---\ntitle: Halo\ndate: 2024-01-02\n---\nx\n",
	})
	b := newTestBuilder()
	out, err := b.Build(context.Background(), root)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, WriteBundles(dir, out, b.Definitions()))

	members, err := ReadBundle(dir, CollectionMember)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestReadBundleRejectsWrongVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(BundlePath(dir, CollectionPosts),
		[]byte(`{"version":2,"collection":"posts","documents":[]}`), 0o644))

	_, err := ReadBundle(dir, CollectionPosts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bundle version 2")

	_, err = ReadBundle(t.TempDir(), CollectionPosts)
	require.Error(t, err)
	typ, ok := siteerrors.TypeOf(err)
	assert.True(t, ok)
	assert.Equal(t, siteerrors.ErrorTypeIO, typ)
}

func TestAssetsAreExtractedAndCopied(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"blog/trip/index.mdx": "---\ntitle: Trip\ndate: 2024-01-02\n---\n\n![Pantai](./beach.png)\n",
		"blog/trip/beach.png": "not really a png",
	})
	out, err := newTestBuilder().Build(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, out.Assets, 1)
	assert.Regexp(t, regexp.MustCompile(`^beach-[0-9a-f]{6}\.png$`), out.Assets[0].Name)

	dir := t.TempDir()
	require.NoError(t, CopyAssets(dir, out.Assets))
	data, err := os.ReadFile(filepath.Join(dir, out.Assets[0].Name))
	require.NoError(t, err)
	assert.Equal(t, "not really a png", string(data))

	assert.Contains(t, string(out.Posts()[0].Body), `/static/`+out.Assets[0].Name)
	assert.Equal(t, "trip", out.Posts()[0].SlugAsParams)
}
