package content

import (
	"path"
	"path/filepath"
	"strings"
)

// SlugAsParams drops the leading segment of slug. A single-segment slug
// yields "", the collection's index route.
func SlugAsParams(slug string) string {
	i := strings.IndexByte(slug, '/')
	if i < 0 {
		return ""
	}
	return slug[i+1:]
}

// SlugFromPath derives a slug from a file path relative to the content
// root: separators become '/', the extension is removed and a trailing
// index segment is dropped.
func SlugFromPath(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if rel == "index" {
		return ""
	}
	return strings.TrimSuffix(rel, "/index")
}

// Derive returns a copy of record with the computed fields set. It reads
// only source fields, so applying it twice gives the same record.
func Derive(record map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(record)+1)
	for k, v := range record {
		out[k] = v
	}
	slug, _ := record["slug"].(string)
	out["slugAsParams"] = SlugAsParams(slug)
	return out
}
