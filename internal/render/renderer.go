// Package render turns a loaded site.Context into widget markup and writes it
// into the containers of a host document.
//
// Every call re-derives its output from the context; nothing is cached.
package render

import (
	"bytes"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"

	"beginnings/internal/page"
	"beginnings/internal/web"
)

type Options struct {
	StructuredData StructuredDataOptions
	Logger         *slog.Logger
}

type Renderer struct {
	tpl    *web.Renderer
	rich   *bluemonday.Policy
	ld     StructuredDataOptions
	logger *slog.Logger
}

func New(tpl *web.Renderer, opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		tpl:    tpl,
		rich:   richTextPolicy(),
		ld:     opts.StructuredData.withDefaults(),
		logger: logger,
	}
}

// richTextPolicy allows the inline markup editors put in quotes and step text.
func richTextPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "br", "span", "small")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(true)
	return p
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.RenderWidget(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// fill writes markup into the container once a fragment has been produced.
func (r *Renderer) fill(doc *page.Document, id string, out Outcome, markup string, err error) Outcome {
	out.Container = id
	if err != nil {
		r.logger.Error("render.failed", "widget", out.Widget, "container", id, "err", err)
		out.Status = StatusFailed
		return out
	}
	if out.Status != StatusRendered {
		r.logger.Debug("render.skipped", "widget", out.Widget, "container", id, "status", out.Status)
		return out
	}
	if !doc.SetInner(id, markup) {
		out.Status = StatusMissingContainer
	}
	return out
}

func missingContainer(w Widget, id string) Outcome {
	return Outcome{Widget: w, Container: id, Status: StatusMissingContainer}
}
