package resources

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
)

// FS exposes the static resource files.
//
//go:embed site.css favicon.svg
var FS embed.FS

// CopyTo writes every static resource into dir.
func CopyTo(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return fs.WalkDir(FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := fs.ReadFile(FS, p)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dir, filepath.FromSlash(p)), b, 0o644)
	})
}
