package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/kelas-internasional/kelas/internal/content"
	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
	"github.com/kelas-internasional/kelas/internal/pages"
	"github.com/kelas-internasional/kelas/internal/schema"
	"github.com/kelas-internasional/kelas/internal/store"
)

const (
	homePostCount    = 3
	otherMemberCount = 3
	maxEntryBytes    = 64 << 10
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	st := s.holder.Load()
	posts := store.PublishedPosts(st.Posts())
	if len(posts) > homePostCount {
		posts = posts[:homePostCount]
	}
	s.page(w, r, http.StatusOK, pages.Home(s.site, posts, store.GroupMembers(st.Members())))
}

func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request) {
	st := s.holder.Load()
	published := store.PublishedPosts(st.Posts())
	tag := r.URL.Query().Get("tag")
	posts := published
	if tag != "" {
		posts = store.PostsWithTag(published, tag)
	}
	s.page(w, r, http.StatusOK, pages.BlogIndex(s.site, posts, store.Tags(published), tag))
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	key := strings.Trim(chi.URLParam(r, "*"), "/")
	post, err := s.holder.Load().Post(key)
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}
	if !post.Published {
		s.handleNotFound(w, r)
		return
	}

	body, err := s.renderer.Body(post.Body)
	if err != nil {
		s.renderFailed(w, r, err, post.Source)
		return
	}
	s.page(w, r, http.StatusOK, pages.PostPage(s.site, post, body))
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	members := s.holder.Load().Members()
	s.page(w, r, http.StatusOK, pages.MemberDirectory(s.site, store.GroupMembers(members)))
}

func (s *Server) handleMember(w http.ResponseWriter, r *http.Request) {
	st := s.holder.Load()
	member, err := st.Member(strings.Trim(chi.URLParam(r, "*"), "/"))
	if err != nil {
		s.lookupFailed(w, r, err)
		return
	}

	body, err := s.renderer.Body(member.Body)
	if err != nil {
		s.renderFailed(w, r, err, member.Source)
		return
	}
	others := store.OtherMembers(st.Members(), member, otherMemberCount)
	s.page(w, r, http.StatusOK, pages.MemberProfile(s.site, member, body, others))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.holder.Load()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"posts":   st.Count(content.CollectionPosts),
		"members": st.Count(content.CollectionMember),
		"clients": s.hub.Count(),
	})
}

// entryResult is the response of the entry validation endpoint.
type entryResult struct {
	Valid  bool                   `json:"valid"`
	Kind   string                 `json:"kind"`
	Value  map[string]interface{} `json:"value,omitempty"`
	Errors map[string]string      `json:"errors,omitempty"`
}

func (s *Server) handleValidateEntry(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	t, ok := content.EntrySchema(kind)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error": "unknown entry kind",
			"kinds": content.EntryKinds(),
		})
		return
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxEntryBytes)).Decode(&raw); err != nil || raw == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be a JSON object"})
		return
	}

	value, err := schema.Validate(t, raw)
	if err != nil {
		var ve *siteerrors.ValidationErrors
		if !errors.As(err, &ve) {
			s.logger.Error(r.Context(), err, "Entry validation failed", "kind", kind)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, entryResult{Kind: kind, Errors: ve.Map()})
		return
	}
	writeJSON(w, http.StatusOK, entryResult{Valid: true, Kind: kind, Value: value})
}

// handleNotFound serves files from the public directory, or the 404 page.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if file, ok := s.publicFile(r.URL.Path); ok {
		http.ServeFile(w, r, file)
		return
	}
	s.page(w, r, http.StatusNotFound, pages.NotFound(s.site, r.URL.Path))
}

func (s *Server) publicFile(urlPath string) (string, bool) {
	if s.config.Output.Public == "" || (urlPath != "/" && strings.HasSuffix(urlPath, "/")) {
		return "", false
	}
	file := filepath.Join(s.config.Output.Public, filepath.FromSlash(path.Clean("/"+urlPath)))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", false
	}
	return file, true
}

func (s *Server) lookupFailed(w http.ResponseWriter, r *http.Request, err error) {
	if store.IsNotFound(err) {
		s.handleNotFound(w, r)
		return
	}
	s.renderFailed(w, r, err, "")
}

// renderFailed logs err with its document and answers 500. Partial output
// is never sent.
func (s *Server) renderFailed(w http.ResponseWriter, r *http.Request, err error, source string) {
	s.logger.Error(r.Context(), err, "Render failed",
		"path", r.URL.Path,
		"document", source,
		"request_id", RequestIDFrom(r.Context()),
	)
	s.write(w, r, http.StatusInternalServerError, pages.ErrorPage(s.site, http.StatusInternalServerError,
		"Terjadi kesalahan", "Halaman ini tidak dapat ditampilkan."))
}

// page renders c fully before writing, so a render failure still yields a
// clean 500.
func (s *Server) page(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		s.renderFailed(w, r, err, "")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// write is page without the failure fallback, for the error page itself.
func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		s.logger.Error(r.Context(), err, "Error page failed")
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
