package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"
)

//go:embed tpl/*.tmpl tpl/partials/*.tmpl tpl/pages/*.tmpl tpl/widgets/*.tmpl
var tplFS embed.FS

// Renderer executes the embedded page and widget templates. Templates are
// parsed once; executing them has no side effects.
type Renderer struct {
	pages   map[string]*template.Template
	widgets *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"nowUTC": func() time.Time { return time.Now().UTC() },
	}
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}

	widgets, err := template.New("widgets").Funcs(sprig.FuncMap()).Funcs(funcs()).ParseFS(tplFS, "tpl/widgets/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse widget templates: %w", err)
	}
	r.widgets = widgets

	pages, err := fs.Glob(tplFS, "tpl/pages/*.tmpl")
	if err != nil {
		return nil, err
	}
	for _, p := range pages {
		name := strings.TrimSuffix(path.Base(p), ".tmpl")
		t := template.New("root").Funcs(sprig.FuncMap()).Funcs(funcs())
		if _, err := t.ParseFS(tplFS, "tpl/base.tmpl", "tpl/partials/*.tmpl", p); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the named page template.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}
	return t.ExecuteTemplate(w, name, data)
}

// RenderWidget executes one widget template, e.g. "widget/openings".
func (r *Renderer) RenderWidget(w io.Writer, name string, data any) error {
	return r.widgets.ExecuteTemplate(w, name, data)
}
