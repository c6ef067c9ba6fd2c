package site_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beginnings/internal/site"
)

const configJSON = `{
  "locations": {
    "queenAnne": {"id": "queen-anne", "name": "Queen Anne", "fullName": "Beginnings Queen Anne",
      "address": {"street": "1 Main St", "city": "Seattle", "state": "WA", "zip": "98109"},
      "phone": "(206) 555-0100", "email": "qa@example.org"},
    "capitolHill": {"id": "capitol-hill", "name": "Capitol Hill", "fullName": "Beginnings Capitol Hill"}
  },
  "programs": {
    "toddler": {"name": "Toddler", "ageRange": "12-24 mo"},
    "infant": {"name": "Infant", "ageRange": "6 wk-12 mo"},
    "preschool": {"name": "Preschool", "ageRange": "3-5 yr"}
  }
}`

func TestParseConfigKeepsKeyOrder(t *testing.T) {
	cfg, err := site.ParseConfig([]byte(configJSON))
	require.NoError(t, err)

	assert.Equal(t, []string{"toddler", "infant", "preschool"}, cfg.Programs.Keys())
	assert.Equal(t, []string{"queenAnne", "capitolHill"}, cfg.Locations.Keys())

	qa, ok := cfg.Locations.Get("queenAnne")
	require.True(t, ok)
	assert.Equal(t, "(206) 555-0100", qa.Phone)
	assert.Equal(t, "98109", qa.Address.Zip)
}

func TestParseConfigRejectsNonObject(t *testing.T) {
	_, err := site.ParseConfig([]byte(`{"programs": []}`))
	assert.Error(t, err)
}

func TestParseOpenings(t *testing.T) {
	raw := `{
	  "_lastUpdated": "January 15, 2025",
	  "_comment": "edited by hand",
	  "queenAnne": {"infant": {"statusText": "Waitlist", "badgeColor": "yellow", "note": "Call us"}, "toddler": null},
	  "capitolHill": {}
	}`
	o, err := site.ParseOpenings([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "January 15, 2025", o.LastUpdated)
	assert.NotContains(t, o.Buckets, "_comment")
	require.Contains(t, o.Buckets, "queenAnne")
	assert.Len(t, o.Buckets["queenAnne"], 1)
	assert.Equal(t, "Call us", o.Buckets["queenAnne"]["infant"].Note)
	assert.Empty(t, o.Buckets["capitolHill"])
}

func TestParseContentStepNumbers(t *testing.T) {
	raw := `{
	  "testimonials": [{"quote": "Lovely", "author": "A parent", "details": "Queen Anne"}],
	  "enrollmentProcess": {"steps": [
	    {"number": 1, "title": "Tour", "description": "Visit us"},
	    {"number": "2", "title": "Apply", "description": "Fill the form"}
	  ]}
	}`
	c, err := site.ParseContent([]byte(raw))
	require.NoError(t, err)
	require.Len(t, c.Steps(), 2)
	assert.Equal(t, site.StepNumber("1"), c.Steps()[0].Number)
	assert.Equal(t, site.StepNumber("2"), c.Steps()[1].Number)

	empty, err := site.ParseContent([]byte(`{}`))
	require.NoError(t, err)
	assert.Nil(t, empty.Steps())
}

func TestBadgeColorResolve(t *testing.T) {
	cases := map[site.BadgeColor]site.BadgeColor{
		"":        site.BadgeGray,
		"green":   site.BadgeGreen,
		"Red":     site.BadgeRed,
		" blue ":  site.BadgeBlue,
		"magenta": site.BadgeGray,
		"yellow":  site.BadgeYellow,
		"orange":  site.BadgeOrange,
	}
	for in, want := range cases {
		assert.Equal(t, want, in.Resolve(), "color %q", in)
	}
	assert.Equal(t, "badge--gray", site.BadgeColor("").Class())
	assert.Equal(t, "badge--green", site.BadgeGreen.Class())
}

func TestBuckets(t *testing.T) {
	b := site.DefaultBuckets()

	bucket, ok := b.Resolve("queenAnne")
	assert.True(t, ok)
	assert.Equal(t, site.BucketQueenAnne, bucket)

	_, ok = b.Resolve("fremont")
	assert.False(t, ok)

	_, err := site.NewBuckets(map[string]string{"fremont": "fremontBucket"}, []string{site.BucketQueenAnne})
	assert.ErrorIs(t, err, site.ErrUnknownBucket)

	aliased, err := site.NewBuckets(map[string]string{"qa": site.BucketQueenAnne}, []string{site.BucketQueenAnne})
	require.NoError(t, err)
	bucket, ok = aliased.Resolve("qa")
	assert.True(t, ok)
	assert.Equal(t, site.BucketQueenAnne, bucket)
}

func TestContextOpeningsFor(t *testing.T) {
	cfg, err := site.ParseConfig([]byte(configJSON))
	require.NoError(t, err)
	openings, err := site.ParseOpenings([]byte(`{"_lastUpdated": "today", "queenAnne": {"infant": {"statusText": "Open"}}, "capitolHill": {}}`))
	require.NoError(t, err)

	ctx, err := site.NewContext(cfg, openings, site.ContentData{}, site.DefaultBuckets())
	require.NoError(t, err)

	res := ctx.OpeningsFor("queenAnne")
	assert.True(t, res.Found)
	assert.Equal(t, site.BucketQueenAnne, res.Bucket)
	assert.Len(t, res.Openings, 1)

	empty := ctx.OpeningsFor("capitolHill")
	assert.True(t, empty.Found)
	assert.Empty(t, empty.Openings)
	assert.False(t, ctx.OpeningsFor("nowhere").Found)
	assert.Empty(t, ctx.Unmapped())

	var nilCtx *site.Context
	assert.False(t, nilCtx.OpeningsFor("queenAnne").Found)
}
