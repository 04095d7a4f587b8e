package content

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
)

// Extensions are the authored file types picked up by the loader.
var Extensions = []string{".mdx", ".md"}

var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// Source is one authored file before validation.
type Source struct {
	Collection Collection
	// Path is the file on disk.
	Path string
	// Rel is Path relative to the content root, slash separated.
	Rel  string
	Data map[string]interface{}
	Body string
	// BodyLine is the number of lines before the body, used to report
	// compile errors against the whole file.
	BodyLine int
}

// Discover lists the authored files of one collection in source order.
func Discover(root string, def Definition) ([]string, error) {
	dir := filepath.Join(root, filepath.FromSlash(def.Dir))
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isContentFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, siteerrors.NewIOError(siteerrors.ErrCodeFileNotFound,
			fmt.Sprintf("scan collection %s", def.Name), err).WithLocation(dir, 0)
	}
	sort.Strings(files)
	return files, nil
}

func isContentFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadSource reads one file and splits its frontmatter from its body. The
// path-derived slug is set unless the frontmatter names one.
func ReadSource(root, path string, collection Collection) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, siteerrors.NewIOError(siteerrors.ErrCodeFileNotFound, "read document", err).
			WithLocation(path, 0)
	}
	return ParseSource(root, path, collection, data)
}

// ParseSource is ReadSource over bytes already in memory.
func ParseSource(root, path string, collection Collection, data []byte) (*Source, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil, siteerrors.NewIOError(siteerrors.ErrCodeFileNotFound, "resolve document path", err).
			WithLocation(path, 0)
	}
	rel = filepath.ToSlash(rel)

	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	raw := map[string]interface{}{}
	body, err := frontmatter.Parse(bytes.NewReader(data), &raw, yamlFormat)
	if err != nil {
		return nil, &siteerrors.SiteError{
			Type:     siteerrors.ErrorTypeValidation,
			Code:     siteerrors.ErrCodeFrontmatter,
			Message:  "invalid frontmatter",
			Cause:    err,
			FilePath: path,
			Line:     1,
		}
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}
	if _, ok := raw["slug"]; !ok {
		raw["slug"] = SlugFromPath(rel)
	}

	return &Source{
		Collection: collection,
		Path:       path,
		Rel:        rel,
		Data:       raw,
		Body:       string(body),
		BodyLine:   bytes.Count(data[:len(data)-len(body)], []byte("\n")),
	}, nil
}
