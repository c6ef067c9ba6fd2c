package loader_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"beginnings/internal/loader"
	"beginnings/internal/site"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	configDoc   = `{"locations": {"queenAnne": {"id": "queen-anne", "name": "Queen Anne"}}, "programs": {"infant": {"name": "Infant", "ageRange": "6wk-12mo"}}}`
	openingsDoc = `{"_lastUpdated": "March 2025", "queenAnne": {"infant": {"statusText": "Open", "badgeColor": "green"}}}`
	contentDoc  = `{"enrollmentProcess": {"steps": [{"number": 1, "title": "Tour", "description": "Come visit"}]}}`
)

func writeData(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func fileLoader(dir string) *loader.Loader {
	return &loader.Loader{
		Config:   loader.FileSource{Path: filepath.Join(dir, "site-config.json")},
		Openings: loader.FileSource{Path: filepath.Join(dir, "openings.json")},
		Content:  loader.FileSource{Path: filepath.Join(dir, "content.json")},
		Buckets:  site.DefaultBuckets(),
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadFromFiles(t *testing.T) {
	dir := writeData(t, map[string]string{
		"site-config.json": configDoc,
		"openings.json":    openingsDoc,
		"content.json":     contentDoc,
	})

	sc, err := fileLoader(dir).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "March 2025", sc.Openings.LastUpdated)
	assert.Equal(t, []string{"infant"}, sc.Config.Programs.Keys())
	assert.Len(t, sc.Content.Steps(), 1)
}

func TestLoadFailsWhenAnyDocumentFails(t *testing.T) {
	dir := writeData(t, map[string]string{
		"site-config.json": configDoc,
		"openings.json":    `{"queenAnne": [`,
		"content.json":     contentDoc,
	})
	sc, err := fileLoader(dir).Load(context.Background())
	assert.Nil(t, sc)
	assert.ErrorIs(t, err, loader.ErrLoad)

	missing := writeData(t, map[string]string{
		"site-config.json": configDoc,
		"openings.json":    openingsDoc,
	})
	_, err = fileLoader(missing).Load(context.Background())
	assert.ErrorIs(t, err, loader.ErrLoad)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/site-config.json":
			_, _ = io.WriteString(w, configDoc)
		case "/data/openings.json":
			_, _ = io.WriteString(w, openingsDoc)
		case "/data/content.json":
			_, _ = io.WriteString(w, contentDoc)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(func() {
		srv.Close()
		http.DefaultTransport.(*http.Transport).CloseIdleConnections()
	})

	l := &loader.Loader{
		Config:   loader.NewSource(srv.URL+"/data/site-config.json", time.Second),
		Openings: loader.NewSource(srv.URL+"/data/openings.json", time.Second),
		Content:  loader.NewSource(srv.URL+"/data/content.json", time.Second),
		Buckets:  site.DefaultBuckets(),
	}
	sc, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, sc.OpeningsFor("queenAnne").Found)

	l.Content = loader.NewSource(srv.URL+"/data/missing.json", time.Second)
	_, err = l.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestHTTPSourceRejectsOversizedDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"_lastUpdated": "`+strings.Repeat(" ", 4<<20)+`"}`)
	}))
	t.Cleanup(func() {
		srv.Close()
		http.DefaultTransport.(*http.Transport).CloseIdleConnections()
	})

	b, err := loader.HTTPSource{URL: srv.URL}.Fetch(context.Background())
	assert.Nil(t, b)
	assert.ErrorIs(t, err, loader.ErrTooLarge)
}

func TestNewSource(t *testing.T) {
	assert.IsType(t, loader.HTTPSource{}, loader.NewSource("https://example.org/data.json", time.Second))
	assert.IsType(t, loader.FileSource{}, loader.NewSource("data/openings.json", time.Second))
}

func TestStoreKeepsPreviousOnFailure(t *testing.T) {
	dir := writeData(t, map[string]string{
		"site-config.json": configDoc,
		"openings.json":    openingsDoc,
		"content.json":     contentDoc,
	})
	store := loader.NewStore(fileLoader(dir), quietLogger())
	assert.False(t, store.Ready())
	assert.Nil(t, store.Current())

	require.NoError(t, store.Reload(context.Background()))
	first := store.Current()
	require.NotNil(t, first)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "content.json"), []byte(`not json`), 0o644))
	assert.Error(t, store.Reload(context.Background()))
	assert.Same(t, first, store.Current())

	updated := `{"_lastUpdated": "April 2025", "queenAnne": {"infant": {"statusText": "Full", "badgeColor": "red"}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content.json"), []byte(contentDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openings.json"), []byte(updated), 0o644))
	require.NoError(t, store.Reload(context.Background()))
	assert.NotSame(t, first, store.Current())
	assert.Equal(t, "April 2025", store.Current().Openings.LastUpdated)
	assert.Equal(t, "March 2025", first.Openings.LastUpdated)
}

func TestStoreFailedFirstLoadIsNotReady(t *testing.T) {
	store := loader.NewStore(fileLoader(t.TempDir()), quietLogger())
	assert.Error(t, store.Reload(context.Background()))
	assert.False(t, store.Ready())
}

func TestLoadRejectsInvalidBuckets(t *testing.T) {
	dir := writeData(t, map[string]string{
		"site-config.json": configDoc,
		"openings.json":    openingsDoc,
		"content.json":     contentDoc,
	})
	l := fileLoader(dir)
	l.Buckets, _ = site.NewBuckets(map[string]string{"queenAnne": "elsewhere"}, []string{site.BucketQueenAnne})
	_, err := l.Load(context.Background())
	assert.ErrorIs(t, err, site.ErrUnknownBucket)
}

type staticSource string

func (s staticSource) Fetch(context.Context) ([]byte, error) { return []byte(s), nil }
func (s staticSource) String() string                        { return "static" }

// gatedSource holds its first fetch until release is closed.
type gatedSource struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (s *gatedSource) Fetch(ctx context.Context) ([]byte, error) {
	if s.calls.Add(1) == 1 {
		close(s.entered)
		<-s.release
		return []byte(`{"_lastUpdated": "OLD"}`), nil
	}
	return []byte(`{"_lastUpdated": "NEW"}`), nil
}

func (s *gatedSource) String() string { return "gated" }

func TestStoreReloadsInOrder(t *testing.T) {
	openings := &gatedSource{entered: make(chan struct{}), release: make(chan struct{})}
	store := loader.NewStore(&loader.Loader{
		Config:   staticSource(configDoc),
		Openings: openings,
		Content:  staticSource(contentDoc),
		Buckets:  site.DefaultBuckets(),
	}, quietLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, store.Reload(context.Background()))
	}()
	<-openings.entered

	second := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(second)
		assert.NoError(t, store.Reload(context.Background()))
	}()
	assert.Never(t, func() bool {
		select {
		case <-second:
			return true
		default:
			return false
		}
	}, 100*time.Millisecond, 10*time.Millisecond, "second reload ran while the first was in flight")

	close(openings.release)
	wg.Wait()
	require.NotNil(t, store.Current())
	assert.Equal(t, "NEW", store.Current().Openings.LastUpdated)
	assert.EqualValues(t, 2, openings.calls.Load())
}
