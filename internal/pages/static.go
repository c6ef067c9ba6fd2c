package pages

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"beginnings/internal/render"
	"beginnings/internal/site"
)

// WriteAll renders every page of the site into dir.
func (b *Builder) WriteAll(sc *site.Context, dir string, log *slog.Logger) (int, error) {
	if log == nil {
		log = slog.Default()
	}
	written := 0
	for _, o := range All(sc) {
		var buf bytes.Buffer
		outcomes, err := b.Build(sc, o.Request, &buf)
		if err != nil {
			return written, err
		}
		dst := filepath.Join(dir, filepath.FromSlash(o.File))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return written, fmt.Errorf("mkdir: %w", err)
		}
		if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", dst, err)
		}
		written++
		log.Info("build.page", "file", o.File, "widgets", rendered(outcomes), "bytes", buf.Len())
	}
	return written, nil
}

func rendered(outcomes []render.Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Rendered() {
			n++
		}
	}
	return n
}
