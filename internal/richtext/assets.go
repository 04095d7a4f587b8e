package richtext

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"

	siteerrors "github.com/kelas-internasional/kelas/internal/errors"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Asset is a file referenced by a document that must be copied next to the
// compiled output.
type Asset struct {
	// Source is the file on disk.
	Source string `json:"source"`
	// Name is the content-hashed file name under the assets directory.
	Name string `json:"name"`
}

// assetsPlugin rewrites relative image references to hashed public URLs.
type assetsPlugin struct {
	base string
}

func (assetsPlugin) Name() string { return "assets" }

func (p assetsPlugin) Apply(ctx *Context, root *Node) error {
	if ctx.File == "" {
		return nil
	}
	var err error
	Walk(root, func(n *Node) bool {
		if err != nil {
			return false
		}
		if !n.IsTag("img") {
			return true
		}
		src := n.Prop("src")
		if !isRelativeRef(src) {
			return false
		}
		var asset Asset
		asset, err = hashAsset(filepath.Join(filepath.Dir(ctx.File), filepath.FromSlash(src)))
		if err != nil {
			err = siteerrors.NewCompilationError(siteerrors.ErrCodeFileNotFound,
				fmt.Sprintf("image %q could not be read", src), err).WithLocation(ctx.File, 0)
			return false
		}
		ctx.Assets = append(ctx.Assets, asset)
		n.SetProp("src", strings.TrimSuffix(p.base, "/")+"/"+asset.Name)
		return false
	})
	return err
}

func hashAsset(file string) (Asset, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Asset{}, err
	}
	sum := crc32.Checksum(data, castagnoli)
	ext := filepath.Ext(file)
	stem := strings.TrimSuffix(filepath.Base(file), ext)
	return Asset{
		Source: file,
		Name:   fmt.Sprintf("%s-%06x%s", stem, sum&0xffffff, ext),
	}, nil
}

func isRelativeRef(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "#") {
		return false
	}
	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "mailto:") {
		return false
	}
	return true
}
