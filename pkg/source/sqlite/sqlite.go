// Package sqlite reads snapshots from a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/source"
	"github.com/papercomputeco/nexus/pkg/source/sqldb"
)

// Source reads the nodes and edges tables of a SQLite database.
type Source struct {
	path   string
	db     *sql.DB
	reader *sqldb.Reader
}

var (
	_ source.Source    = (*Source)(nil)
	_ source.Watchable = (*Source)(nil)
)

// New opens the database at path read-only.
func New(ctx context.Context, path string) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite snapshot path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving sqlite path: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro", (&url.URL{Path: abs}).EscapedPath())
	db, err := sql.Open(sqldb.SQLite.Name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", abs, err)
	}

	return &Source{
		path:   abs,
		db:     db,
		reader: &sqldb.Reader{DB: db, Dialect: sqldb.SQLite, Label: abs},
	}, nil
}

func (s *Source) Read(ctx context.Context) (*graph.Document, error) {
	return s.reader.Read(ctx)
}

func (s *Source) Name() string { return s.path }

// Path is the database file. Writers in WAL mode also touch Path()+"-wal".
func (s *Source) Path() string { return s.path }

func (s *Source) Close() error { return s.db.Close() }
