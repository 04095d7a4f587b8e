package server

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
	"github.com/kelas-internasional/kelas/internal/logging"
	"github.com/kelas-internasional/kelas/internal/store"
)

// Routes lists the page paths of the current snapshot.
func (s *Server) Routes() []string {
	st := s.holder.Load()
	routes := []string{"/", "/blog", "/member"}
	for _, p := range store.PublishedPosts(st.Posts()) {
		routes = append(routes, "/blog/"+p.SlugAsParams)
	}
	for _, m := range store.SortMembersByHierarchy(st.Members()) {
		routes = append(routes, "/member/"+m.SlugAsParams)
	}
	return routes
}

// Export writes every page of the current snapshot under dir as
// <route>/index.html, plus 404.html, the extracted assets and the public
// files. Any page that does not render is an error. Tag filters are query
// parameters and are not exported.
func (s *Server) Export(ctx context.Context, dir string) (int, error) {
	op := logging.StartOperation(s.logger, "export")

	site := s.site
	s.site.LiveReload = false
	defer func() { s.site = site }()

	router := s.Router()
	routes := s.Routes()
	for _, route := range routes {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		target := filepath.Join(dir, filepath.FromSlash(route), "index.html")
		if err := s.exportPage(ctx, router, route, http.StatusOK, target); err != nil {
			op.EndWithError(ctx, err)
			return 0, err
		}
	}
	if err := s.exportPage(ctx, router, "/404", http.StatusNotFound, filepath.Join(dir, "404.html")); err != nil {
		op.EndWithError(ctx, err)
		return 0, err
	}

	if err := copyTree(s.config.Output.Assets, filepath.Join(dir, "static")); err != nil {
		return 0, err
	}
	if s.config.Output.Public != "" {
		if err := copyTree(s.config.Output.Public, dir); err != nil {
			return 0, err
		}
	}

	op.End(ctx, "pages", len(routes)+1, "dir", dir)
	return len(routes) + 1, nil
}

func (s *Server) exportPage(ctx context.Context, router http.Handler, route string, want int, target string) error {
	req := httptest.NewRequest(http.MethodGet, route, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != want {
		return siteerrors.NewRenderError(siteerrors.ErrCodeInternalError,
			fmt.Sprintf("export %s: status %d", route, rec.Code), nil).
			WithContext("route", route)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return siteerrors.NewIOError(siteerrors.ErrCodeInternalError, "create export directory", err)
	}
	if err := os.WriteFile(target, rec.Body.Bytes(), 0o644); err != nil {
		return siteerrors.NewIOError(siteerrors.ErrCodeInternalError, "write "+target, err)
	}
	return nil
}

// copyTree copies the files under src into dst. A missing src is not an
// error.
func copyTree(src, dst string) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		return copyFile(p, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return siteerrors.NewIOError(siteerrors.ErrCodeFileNotFound, "open "+src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return siteerrors.NewIOError(siteerrors.ErrCodeInternalError, "create "+dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return siteerrors.NewIOError(siteerrors.ErrCodeInternalError, "copy "+src, err)
	}
	return out.Close()
}
