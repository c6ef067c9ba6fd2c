package pages_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beginnings/internal/logging"
	"beginnings/internal/pages"
	"beginnings/internal/render"
	"beginnings/internal/site"
	"beginnings/internal/web"
)

func builder(t *testing.T) *pages.Builder {
	t.Helper()
	tpl, err := web.NewRenderer()
	require.NoError(t, err)
	return &pages.Builder{
		TPL:      tpl,
		Widgets:  render.New(tpl, render.Options{Logger: logging.Discard()}),
		SiteName: "Beginnings Schools",
	}
}

func context(t *testing.T) *site.Context {
	t.Helper()
	cfg, err := site.ParseConfig([]byte(`{
	  "locations": {
	    "queenAnne": {"id": "queen-anne", "name": "Queen Anne", "fullName": "Beginnings Queen Anne", "phone": "206-555-0100"},
	    "capitolHill": {"id": "capitol-hill", "name": "Capitol Hill", "fullName": "Beginnings Capitol Hill"}
	  },
	  "programs": {"infant": {"name": "Infant", "ageRange": "6wk-12mo"}, "toddler": {"name": "Toddler", "ageRange": "1-2yr"}}
	}`))
	require.NoError(t, err)
	ops, err := site.ParseOpenings([]byte(`{"_lastUpdated": "June 1",
	  "queenAnne": {"infant": {"statusText": "Open", "badgeColor": "green", "note": "Two spots"}},
	  "capitolHill": {"toddler": {"statusText": "Waitlist", "badgeColor": "yellow"}}}`))
	require.NoError(t, err)
	cnt, err := site.ParseContent([]byte(`{"testimonials": [{"quote": "Great", "author": "A"}],
	  "enrollmentProcess": {"steps": [{"number": 1, "title": "Tour", "description": "Visit"}]}}`))
	require.NoError(t, err)
	sc, err := site.NewContext(cfg, ops, cnt, site.DefaultBuckets())
	require.NoError(t, err)
	return sc
}

func parse(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func TestBuildHome(t *testing.T) {
	b := builder(t)
	sc := context(t)

	var buf bytes.Buffer
	outcomes, err := b.Build(sc, pages.Home(), &buf)
	require.NoError(t, err)
	for _, o := range outcomes {
		assert.Equal(t, render.StatusRendered, o.Status, "widget %s", o.Widget)
	}

	doc := parse(t, buf.String())
	assert.Equal(t, 2, doc.Find("#openings-home .openings__location").Length())
	assert.Zero(t, doc.Find("#openings-home .openings__note").Length())
	assert.Equal(t, 1, doc.Find("#enrollment-process .process__step").Length())
	assert.Equal(t, 1, doc.Find("#testimonials .testimonial").Length())
	assert.Equal(t, 2, doc.Find(`head script[type="application/ld+json"]`).Length())
	assert.Equal(t, "Home", doc.Find(".nav__link--active").Text())
	assert.Equal(t, 5, doc.Find(".nav__link").Length())
}

func TestBuildLocation(t *testing.T) {
	b := builder(t)
	sc := context(t)

	req, ok := pages.Location(sc, "queen-anne")
	require.True(t, ok)

	var buf bytes.Buffer
	_, err := b.Build(sc, req, &buf)
	require.NoError(t, err)

	doc := parse(t, buf.String())
	assert.Equal(t, "Beginnings Queen Anne", doc.Find("h1").First().Text())
	assert.Equal(t, "Infant: Open", doc.Find("#openings-badges .badge").Text())
	assert.Equal(t, 1, doc.Find("#openings-location .openings__location").Length())
	assert.Equal(t, "Two spots", doc.Find("#openings-location .openings__note").Text())
	assert.NotContains(t, doc.Find("#openings-location").Text(), "Capitol Hill")

	_, ok = pages.Location(sc, "fremont")
	assert.False(t, ok)
	_, ok = pages.Location(nil, "queen-anne")
	assert.False(t, ok)
}

func TestBuildWithoutData(t *testing.T) {
	b := builder(t)

	var buf bytes.Buffer
	outcomes, err := b.Build(nil, pages.Home(), &buf)
	require.NoError(t, err)
	for _, o := range outcomes {
		assert.NotEqual(t, render.StatusRendered, o.Status)
	}
	doc := parse(t, buf.String())
	assert.Equal(t, 1, doc.Find("#openings-home").Length())
	assert.Empty(t, strings.TrimSpace(doc.Find("#openings-home").Text()))
	assert.Zero(t, doc.Find(`script[type="application/ld+json"]`).Length())
}

func TestContactOptions(t *testing.T) {
	b := builder(t)
	sc := context(t)

	var buf bytes.Buffer
	_, err := b.Build(sc, pages.Contact(sc, pages.ContactQuery{
		Status:   "error",
		Location: "capitolHill",
		Today:    time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}), &buf)
	require.NoError(t, err)
	doc := parse(t, buf.String())
	assert.Equal(t, 1, doc.Find("#contact-form").Length())
	assert.Equal(t, 1, doc.Find(".alert--error").Length())
	assert.Equal(t, 3, doc.Find(`select[name="location"] option`).Length())
	assert.Equal(t, "Toddler (1-2yr)", doc.Find(`select[name="program"] option`).Last().Text())
	assert.Equal(t, "capitolHill", doc.Find(`select[name="location"] option[selected]`).AttrOr("value", ""))
	dob := doc.Find(`input[name="child_dob"]`)
	assert.Equal(t, "2021-06-01", dob.AttrOr("min", ""))
	assert.Equal(t, "2026-06-01", dob.AttrOr("max", ""))

	buf.Reset()
	_, err = b.Build(sc, pages.Contact(sc, pages.ContactQuery{Status: "ok", Reference: "abc-123"}), &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Reference: abc-123")
	assert.NotContains(t, buf.String(), "contact-form")
}

func TestWriteAll(t *testing.T) {
	b := builder(t)
	dir := t.TempDir()

	n, err := b.WriteAll(context(t), dir, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	for _, f := range []string{"index.html", "admissions/index.html", "locations/queen-anne/index.html", "locations/capitol-hill/index.html", "contact/index.html"} {
		_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(f)))
		assert.NoError(t, err, f)
	}
}
