package content

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
	"github.com/kelas-internasional/kelas/internal/richtext"
)

// BundleVersion is bumped whenever the bundle layout changes.
const BundleVersion = 1

// Bundle is the on-disk form of one collection.
type Bundle struct {
	Version    int             `json:"version"`
	Collection Collection      `json:"collection"`
	Documents  json.RawMessage `json:"documents"`
}

// BundlePath returns where a collection's bundle lives under dir.
func BundlePath(dir string, c Collection) string {
	return filepath.Join(dir, string(c)+".json")
}

// WriteBundles writes one bundle per collection to dir. Each file is
// written to a temporary name first and renamed into place.
func WriteBundles(dir string, out *Output, defs []Definition) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return siteerrors.NewIOError(siteerrors.ErrCodeInternalError, "create output directory", err).
			WithLocation(dir, 0)
	}

	for _, def := range defs {
		docs := out.Documents(def.Name)
		if docs == nil {
			docs = []Document{}
		}
		raw, err := json.Marshal(docs)
		if err != nil {
			return siteerrors.NewInternalError(siteerrors.ErrCodeInternalError,
				fmt.Sprintf("encode %s", def.Name), err)
		}
		data, err := json.MarshalIndent(Bundle{Version: BundleVersion, Collection: def.Name, Documents: raw}, "", "  ")
		if err != nil {
			return siteerrors.NewInternalError(siteerrors.ErrCodeInternalError,
				fmt.Sprintf("encode %s bundle", def.Name), err)
		}
		if err := writeFileAtomic(BundlePath(dir, def.Name), data); err != nil {
			return err
		}
	}
	return nil
}

// ReadBundle reads one collection's bundle.
func ReadBundle(dir string, c Collection) ([]Document, error) {
	path := BundlePath(dir, c)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, siteerrors.NewIOError(siteerrors.ErrCodeFileNotFound, "read bundle", err).
			WithLocation(path, 0)
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, siteerrors.NewIOError(siteerrors.ErrCodeBodyCorrupt, "decode bundle", err).
			WithLocation(path, 0)
	}
	if b.Version != BundleVersion {
		return nil, siteerrors.NewIOError(siteerrors.ErrCodeBodyCorrupt,
			fmt.Sprintf("bundle version %d, this build reads %d", b.Version, BundleVersion), nil).
			WithLocation(path, 0)
	}
	if b.Collection != c {
		return nil, siteerrors.NewIOError(siteerrors.ErrCodeBodyCorrupt,
			fmt.Sprintf("bundle holds %q, expected %q", b.Collection, c), nil).
			WithLocation(path, 0)
	}

	var docs []Document
	switch c {
	case CollectionPosts:
		var posts []*Post
		err = json.Unmarshal(b.Documents, &posts)
		for _, p := range posts {
			docs = append(docs, p)
		}
	case CollectionMember:
		var members []*Member
		err = json.Unmarshal(b.Documents, &members)
		for _, m := range members {
			docs = append(docs, m)
		}
	default:
		return nil, siteerrors.NewValidationError(siteerrors.ErrCodeUnknownCollection,
			fmt.Sprintf("unknown collection %q", c))
	}
	if err != nil {
		return nil, siteerrors.NewIOError(siteerrors.ErrCodeBodyCorrupt, "decode bundle documents", err).
			WithLocation(path, 0)
	}
	return docs, nil
}

// CopyAssets copies extracted assets into dir under their hashed names.
// Files that already exist are left alone; the name carries the hash.
func CopyAssets(dir string, assets []richtext.Asset) error {
	if len(assets) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return siteerrors.NewIOError(siteerrors.ErrCodeInternalError, "create assets directory", err).
			WithLocation(dir, 0)
	}
	for _, a := range assets {
		dst := filepath.Join(dir, a.Name)
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		if err := copyFile(a.Source, dst); err != nil {
			return siteerrors.NewIOError(siteerrors.ErrCodeFileNotFound, "copy asset", err).
				WithLocation(a.Source, 0)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".bundle-*")
	if err != nil {
		return siteerrors.NewIOError(siteerrors.ErrCodeInternalError, "create temporary bundle", err).
			WithLocation(path, 0)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return siteerrors.NewIOError(siteerrors.ErrCodeInternalError, "write bundle", err).WithLocation(path, 0)
	}
	if err := tmp.Close(); err != nil {
		return siteerrors.NewIOError(siteerrors.ErrCodeInternalError, "write bundle", err).WithLocation(path, 0)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return siteerrors.NewIOError(siteerrors.ErrCodeInternalError, "move bundle into place", err).
			WithLocation(path, 0)
	}
	return nil
}
