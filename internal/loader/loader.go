package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"beginnings/internal/site"
)

var ErrLoad = errors.New("load site data")

type Loader struct {
	Config   Source
	Openings Source
	Content  Source
	Buckets  site.Buckets
}

// Load fetches the three documents concurrently and builds a Context only when
// every fetch and parse succeeded.
func (l *Loader) Load(ctx context.Context) (*site.Context, error) {
	var (
		cfg      site.SiteConfig
		openings site.OpeningsData
		content  site.ContentData
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := l.Config.Fetch(gctx)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", l.Config, err)
		}
		cfg, err = site.ParseConfig(b)
		return err
	})
	g.Go(func() error {
		b, err := l.Openings.Fetch(gctx)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", l.Openings, err)
		}
		openings, err = site.ParseOpenings(b)
		return err
	})
	g.Go(func() error {
		b, err := l.Content.Fetch(gctx)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", l.Content, err)
		}
		content, err = site.ParseContent(b)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	sc, err := site.NewContext(cfg, openings, content, l.Buckets)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return sc, nil
}

// Store holds the current Context. Failed reloads leave it untouched.
// Reloads run one at a time so a slow load cannot replace a newer one.
type Store struct {
	loader  *Loader
	log     *slog.Logger
	reload  sync.Mutex
	current atomic.Pointer[site.Context]
}

func NewStore(l *Loader, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{loader: l, log: log}
}

func (s *Store) Reload(ctx context.Context) error {
	s.reload.Lock()
	defer s.reload.Unlock()

	start := time.Now()
	sc, err := s.loader.Load(ctx)
	if err != nil {
		s.log.Error("loader.reload_failed", "err", err, "kept_previous", s.Ready())
		return err
	}
	s.current.Store(sc)
	if unmapped := sc.Unmapped(); len(unmapped) > 0 {
		s.log.Warn("loader.unmapped_locations", "locations", unmapped)
	}
	s.log.Info("loader.loaded",
		"locations", sc.Config.Locations.Len(),
		"programs", sc.Config.Programs.Len(),
		"last_updated", sc.Openings.LastUpdated,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Current returns nil until the first successful load.
func (s *Store) Current() *site.Context {
	if s == nil {
		return nil
	}
	return s.current.Load()
}

func (s *Store) Ready() bool { return s.Current() != nil }
