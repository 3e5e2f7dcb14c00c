package gallery

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const modulePrefix = "github.com/lumiforge/video-bridge/"

// collectImports walks the non-test imports of dir and of every package of
// this module it reaches.
func collectImports(t *testing.T, dir string, seen map[string]bool) {
	t.Helper()
	pkgs, err := parser.ParseDir(token.NewFileSet(), dir, func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ImportsOnly)
	require.NoError(t, err)

	for _, pkg := range pkgs {
		for _, f := range pkg.Files {
			for _, imp := range f.Imports {
				path, _ := strconv.Unquote(imp.Path.Value)
				if seen[path] {
					continue
				}
				seen[path] = true
				if rel, ok := strings.CutPrefix(path, modulePrefix); ok {
					collectImports(t, filepath.Join("..", "..", rel), seen)
				}
			}
		}
	}
}

func TestGalleryDoesNotDependOnBlobStorage(t *testing.T) {
	seen := map[string]bool{}
	collectImports(t, ".", seen)

	for path := range seen {
		require.False(t, strings.HasPrefix(path, "github.com/aws/"), "gallery pulls in %s", path)
		require.NotEqual(t, modulePrefix+"internal/storage", path)
	}
	require.True(t, seen[modulePrefix+"internal/backend"])
}
