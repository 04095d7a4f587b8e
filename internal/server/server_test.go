package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelas-internasional/kelas/internal/config"
	"github.com/kelas-internasional/kelas/internal/content"
	"github.com/kelas-internasional/kelas/internal/logging"
	"github.com/kelas-internasional/kelas/internal/renderer"
	"github.com/kelas-internasional/kelas/internal/richtext"
	"github.com/kelas-internasional/kelas/internal/store"
)

type fixture struct {
	server *Server
	holder *store.Holder
	logs   *bytes.Buffer
	router http.Handler
}

func compile(t *testing.T, src string, extra ...string) richtext.Body {
	t.Helper()
	components := append(renderer.Standard().ComponentNames(), extra...)
	res, err := richtext.New(richtext.Options{Components: components}).Compile(src, "")
	require.NoError(t, err)
	return res.Body
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Site.Title = "Kelas Internasional"
	cfg.Site.Locale = "id"
	cfg.Server.LiveReload = true
	cfg.Server.AllowedOrigins = []string{"https://kelas.example"}
	cfg.Output.Assets = t.TempDir()
	cfg.Output.Public = t.TempDir()
	return cfg
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	posts := []content.Document{
		&content.Post{
			Base:      content.Base{Slug: "blog/halo", SlugAsParams: "halo", Body: compile(t, "## Pembuka\n\nSelamat datang."), Source: "blog/halo.mdx"},
			Title:     "Halo Dunia",
			Date:      "2024-01-02",
			Published: true,
			Tags:      []string{"umum"},
		},
		&content.Post{
			Base:      content.Base{Slug: "blog/2024/rusak", SlugAsParams: "2024/rusak", Body: compile(t, "<Ghost />", "Ghost"), Source: "blog/2024/rusak.mdx"},
			Title:     "Rusak",
			Date:      "2024-02-01",
			Published: true,
		},
		&content.Post{
			Base:  content.Base{Slug: "blog/draft", SlugAsParams: "draft", Body: compile(t, "draft")},
			Title: "Draft",
			Date:  "2024-03-01",
		},
	}
	members := []content.Document{
		&content.Member{
			Base:      content.Base{Slug: "member/jane-doe", SlugAsParams: "jane-doe", Body: compile(t, "Halo, saya Jane.")},
			FirstName: "Jane",
			LastName:  "Doe",
			Position:  "Ketua Kelas",
		},
		&content.Member{
			Base:      content.Base{Slug: "member/budi", SlugAsParams: "budi", Body: compile(t, "")},
			FirstName: "Budi",
			LastName:  "Santoso",
		},
	}
	st, err := store.New(map[content.Collection][]content.Document{
		content.CollectionPosts:  posts,
		content.CollectionMember: members,
	})
	require.NoError(t, err)

	logs := &bytes.Buffer{}
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelDebug, Output: logs})
	holder := store.NewHolder(st)
	srv := New(testConfig(t), holder, renderer.NewRenderer(renderer.Standard()),
		WithLogger(logger),
		WithClock(func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }),
	)
	return &fixture{server: srv, holder: holder, logs: logs, router: srv.Router()}
}

func (f *fixture) do(method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestPages(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		path     string
		status   int
		contains []string
		excludes []string
	}{
		{"home", "/", http.StatusOK, []string{"Halo Dunia", "Jane Doe"}, []string{"Draft"}},
		{"blog index", "/blog", http.StatusOK, []string{"Halo Dunia", "/blog/2024/rusak"}, []string{"/blog/draft"}},
		{"blog tag filter", "/blog?tag=umum", http.StatusOK, []string{"Halo Dunia"}, []string{"/blog/2024/rusak\""}},
		{"post", "/blog/halo", http.StatusOK, []string{"Selamat datang.", `id="pembuka"`, "2 Januari 2024"}, nil},
		{"post trailing slash", "/blog/halo/", http.StatusOK, []string{"Selamat datang."}, nil},
		{"member directory", "/member", http.StatusOK, []string{"Jane Doe", "Budi Santoso", "Pengurus Inti"}, nil},
		{"member profile", "/member/jane-doe", http.StatusOK, []string{"Halo, saya Jane.", "Budi Santoso"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodGet, tt.path, "")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			for _, s := range tt.contains {
				assert.Contains(t, rec.Body.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, rec.Body.String(), s)
			}
		})
	}
}

func TestMissingDocumentsRenderNotFoundPage(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/member/nobody", "/blog/nope", "/blog/draft", "/random"} {
		t.Run(path, func(t *testing.T) {
			rec := f.do(http.MethodGet, path, "")
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), `data-status="404"`)
		})
	}
}

func TestUnresolvedComponentIsServerError(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/blog/2024/rusak", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-status="500"`)
	assert.NotContains(t, rec.Body.String(), "Ghost", "internal details stay in the log")
	assert.Contains(t, f.logs.String(), "Render failed")
	assert.Contains(t, f.logs.String(), "Ghost")
	assert.Contains(t, f.logs.String(), "blog/2024/rusak.mdx")
}

func TestSnapshotSwap(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/member/jane-doe", "").Code)

	f.holder.Swap(store.Empty())

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/member/jane-doe", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/member", "").Code)
}

func TestNestedMemberProfile(t *testing.T) {
	f := newFixture(t)
	st, err := store.New(map[content.Collection][]content.Document{
		content.CollectionMember: {
			&content.Member{
				Base:      content.Base{Slug: "member/2024/siti", SlugAsParams: "2024/siti", Body: compile(t, "Halo dari angkatan 2024.")},
				FirstName: "Siti",
				LastName:  "Aminah",
				StudentID: "24091397010",
			},
		},
	})
	require.NoError(t, err)
	f.holder.Swap(st)

	for _, path := range []string{"/member/2024/siti", "/member/2024/siti/"} {
		rec := f.do(http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Halo dari angkatan 2024.")
	}
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/member/2024", "").Code)
}

func TestStaticAndPublicFiles(t *testing.T) {
	f := newFixture(t)
	cfg := f.server.config
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Output.Assets, "beach-abc123.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Output.Public, "robots.txt"), []byte("User-agent: *"), 0o644))

	rec := f.do(http.MethodGet, "/static/beach-abc123.png", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())

	rec = f.do(http.MethodGet, "/robots.txt", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User-agent: *", rec.Body.String())

	rec = f.do(http.MethodGet, "/../robots.txt", "")
	assert.NotEqual(t, http.StatusInternalServerError, rec.Code)
}

func TestValidateEntry(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		kind   string
		body   string
		status int
		fields []string
	}{
		{
			name:   "valid activity",
			kind:   "activity",
			body:   `{"title":"Bakti Sosial","description":"Kegiatan di panti asuhan","icon":"heart"}`,
			status: http.StatusOK,
		},
		{
			name:   "short fields",
			kind:   "activity",
			body:   `{"title":"BS","description":"pendek","icon":"heart"}`,
			status: http.StatusUnprocessableEntity,
			fields: []string{"title", "description"},
		},
		{
			name:   "achievement out of range",
			kind:   "achievement",
			body:   `{"title":"Juara","description":"Juara lomba nasional","number":"1","icon":"trophy","status":"legendary","progress":150,"category":"lomba"}`,
			status: http.StatusUnprocessableEntity,
			fields: []string{"status", "progress"},
		},
		{
			name:   "unknown kind",
			kind:   "gallery",
			body:   `{}`,
			status: http.StatusNotFound,
		},
		{
			name:   "not an object",
			kind:   "community",
			body:   `[1,2]`,
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/api/entries/"+tt.kind+"/validate", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if len(tt.fields) == 0 {
				return
			}
			var res entryResult
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.False(t, res.Valid)
			for _, field := range tt.fields {
				assert.Contains(t, res.Errors, field)
			}
		})
	}
}

func TestHealthAndHeaders(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.EqualValues(t, 3, health["posts"])
	assert.EqualValues(t, 2, health["members"])

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestRequestIDReusesValidIncoming(t *testing.T) {
	f := newFixture(t)
	const id = "6f1c1e7e-6a86-4c57-9d1a-0c6f2b0c9a11"

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.NotEqual(t, "<script>", rec.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/entries/activity/validate", nil)
	req.Header.Set("Origin", "https://kelas.example")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://kelas.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
