// Package app wires configuration into the components shared by the server
// and the sitectl command.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"beginnings/internal/config"
	"beginnings/internal/db"
	"beginnings/internal/dbinit"
	"beginnings/internal/loader"
	"beginnings/internal/pages"
	"beginnings/internal/render"
	"beginnings/internal/site"
	"beginnings/internal/web"
)

func NewLoader(cfg *config.Config) (*loader.Loader, error) {
	buckets, err := site.NewBuckets(cfg.Openings.Buckets, cfg.Openings.Recognized)
	if err != nil {
		return nil, err
	}
	return &loader.Loader{
		Config:   loader.NewSource(cfg.Data.Config, cfg.Data.Timeout),
		Openings: loader.NewSource(cfg.Data.Openings, cfg.Data.Timeout),
		Content:  loader.NewSource(cfg.Data.Content, cfg.Data.Timeout),
		Buckets:  buckets,
	}, nil
}

func NewStore(cfg *config.Config, log *slog.Logger) (*loader.Store, error) {
	l, err := NewLoader(cfg)
	if err != nil {
		return nil, err
	}
	return loader.NewStore(l, log), nil
}

// LocalFiles lists the dataset references that are files on disk.
func LocalFiles(cfg *config.Config) []string {
	var files []string
	for _, ref := range []string{cfg.Data.Config, cfg.Data.Openings, cfg.Data.Content} {
		if fs, ok := loader.NewSource(ref, 0).(loader.FileSource); ok {
			files = append(files, fs.Path)
		}
	}
	return files
}

func NewBuilder(cfg *config.Config, log *slog.Logger) (*pages.Builder, error) {
	tpl, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	sd := cfg.StructuredData
	widgets := render.New(tpl, render.Options{
		StructuredData: render.StructuredDataOptions{
			BaseURL:      sd.BaseURL,
			Type:         sd.Type,
			OpeningHours: sd.OpeningHours,
			PriceRange:   sd.PriceRange,
			AreaServed:   sd.AreaServed,
			Credential:   sd.Credential,
			Country:      sd.Country,
		},
		Logger: log,
	})
	return &pages.Builder{TPL: tpl, Widgets: widgets, SiteName: cfg.SiteName}, nil
}

// OpenDB creates and migrates the database when needed and opens the
// application pool.
func OpenDB(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	url, err := cfg.Database.AppURL()
	if err != nil {
		return nil, err
	}
	if err := dbinit.EnsureDatabaseAndMigrate(ctx, url, cfg.Database.Name, cfg.Database.User); err != nil {
		return nil, fmt.Errorf("db init: %w", err)
	}
	return db.NewPool(ctx, url)
}
