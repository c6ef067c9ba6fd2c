// Package page wraps a host HTML document whose named containers receive
// rendered widget markup.
package page

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type Document struct {
	doc *goquery.Document
}

func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse host document: %w", err)
	}
	return &Document{doc: doc}, nil
}

func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (d *Document) container(id string) *goquery.Selection {
	if d == nil || d.doc == nil || id == "" {
		return nil
	}
	sel := d.doc.Find(fmt.Sprintf("[id=%q]", id)).First()
	if sel.Length() == 0 {
		return nil
	}
	return sel
}

// Has reports whether a container with the given id exists.
func (d *Document) Has(id string) bool {
	return d.container(id) != nil
}

// SetInner replaces all content of the container. It reports false when the
// container is absent.
func (d *Document) SetInner(id, markup string) bool {
	sel := d.container(id)
	if sel == nil {
		return false
	}
	sel.SetHtml(markup)
	return true
}

// Inner returns the current markup of a container.
func (d *Document) Inner(id string) (string, bool) {
	sel := d.container(id)
	if sel == nil {
		return "", false
	}
	s, err := sel.Html()
	if err != nil {
		return "", false
	}
	return s, true
}

// AppendHead appends markup to <head>.
func (d *Document) AppendHead(markup string) bool {
	if d == nil || d.doc == nil {
		return false
	}
	head := d.doc.Find("head").First()
	if head.Length() == 0 {
		return false
	}
	head.AppendHtml(markup)
	return true
}

// Find exposes goquery selection for callers that need to inspect the document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

func (d *Document) Render(w io.Writer) error {
	for _, n := range d.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) String() string {
	var buf bytes.Buffer
	_ = d.Render(&buf)
	return buf.String()
}
