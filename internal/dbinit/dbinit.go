package dbinit

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// lockKey namespaces the advisory lock held while migrating ('bgns').
const lockKey = int64(0x62676e73)

// EnsureDatabaseAndMigrate makes sure targetDB exists, creating it through
// adminConn when missing, then applies the embedded migrations.
func EnsureDatabaseAndMigrate(ctx context.Context, adminConn, targetDB, owner string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if err := ensureDatabase(ctx, adminConn, targetDB, owner); err != nil {
		return err
	}
	targetConn, err := replaceDBName(adminConn, targetDB)
	if err != nil {
		return err
	}
	conn, err := pgx.Connect(ctx, targetConn)
	if err != nil {
		return fmt.Errorf("target connect: %w", err)
	}
	defer conn.Close(context.Background())
	return Migrate(ctx, conn)
}

func ensureDatabase(ctx context.Context, adminConn, targetDB, owner string) error {
	admin, err := pgx.Connect(ctx, adminConn)
	if err != nil {
		return fmt.Errorf("admin connect: %w", err)
	}
	defer admin.Close(context.Background())

	var exists bool
	if err := admin.QueryRow(ctx,
		`select exists (select 1 from pg_database where datname = $1)`, targetDB,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check database existence: %w", err)
	}
	if exists {
		return nil
	}

	stmt := "create database " + pgx.Identifier{targetDB}.Sanitize()
	if owner != "" {
		stmt += " with owner " + pgx.Identifier{owner}.Sanitize()
	}
	if _, err := admin.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create database %q: %w", targetDB, err)
	}
	return nil
}

// Migrate applies every embedded migration not yet recorded in
// schema_migrations, each in its own transaction.
func Migrate(ctx context.Context, conn *pgx.Conn) error {
	if _, err := conn.Exec(ctx, `select pg_advisory_lock($1)`, lockKey); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	defer conn.Exec(context.Background(), `select pg_advisory_unlock($1)`, lockKey)

	if _, err := conn.Exec(ctx, `
		create table if not exists schema_migrations (
			filename text primary key,
			applied_at timestamptz not null default now()
		)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	files, err := migrationFiles(migrationsFS)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := apply(ctx, conn, f); err != nil {
			return err
		}
	}
	return nil
}

func apply(ctx context.Context, conn *pgx.Conn, name string) error {
	var done bool
	if err := conn.QueryRow(ctx, `select exists (select 1 from schema_migrations where filename=$1)`, name).Scan(&done); err != nil {
		return fmt.Errorf("check applied %s: %w", name, err)
	}
	if done {
		return nil
	}
	body, err := migrationsFS.ReadFile("migrations/" + name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	return pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(body)); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx, `insert into schema_migrations (filename) values ($1)`, name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		return nil
	})
}

// migrationFiles lists the .sql files under migrations/ in apply order.
func migrationFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// replaceDBName swaps the database segment of postgres://.../<db>?... URLs.
func replaceDBName(conn, db string) (string, error) {
	i := strings.LastIndex(conn, "/")
	if i < 0 {
		return "", errors.New("unexpected conn string format; expected '/' before db name")
	}
	j := strings.Index(conn[i+1:], "?")
	if j == -1 {
		return conn[:i+1] + db, nil
	}
	return conn[:i+1] + db + conn[i+1+j:], nil
}
