// Package sqldb reads snapshots from the nodes and edges tables shared by the
// SQL backed sources.
package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/papercomputeco/nexus/pkg/graph"
	"github.com/papercomputeco/nexus/pkg/source"
)

// Dialect captures the per-database differences of the snapshot schema.
type Dialect struct {
	// Name is the database/sql driver name.
	Name string

	// OrderColumn preserves insertion order for the load-order tie-breaker.
	OrderColumn string

	// Schema creates the snapshot tables.
	Schema string

	placeholder func(n int) string
}

// SQLite stores rows in rowid order.
var SQLite = Dialect{
	Name:        "sqlite3",
	OrderColumn: "rowid",
	Schema: `
CREATE TABLE IF NOT EXISTS nodes (
	id         TEXT PRIMARY KEY,
	type       TEXT NOT NULL,
	timestamp  TEXT,
	content    TEXT,
	attributes TEXT
);
CREATE TABLE IF NOT EXISTS edges (
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	kind   TEXT NOT NULL
);`,
	placeholder: func(int) string { return "?" },
}

// Postgres keeps an explicit sequence column since heap order is not stable.
var Postgres = Dialect{
	Name:        "pgx",
	OrderColumn: "seq",
	Schema: `
CREATE TABLE IF NOT EXISTS nodes (
	seq        BIGSERIAL,
	id         TEXT PRIMARY KEY,
	type       TEXT NOT NULL,
	timestamp  TEXT,
	content    TEXT,
	attributes TEXT
);
CREATE TABLE IF NOT EXISTS edges (
	seq    BIGSERIAL PRIMARY KEY,
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	kind   TEXT NOT NULL
);`,
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
}

func (d Dialect) placeholders(count int) string {
	ps := make([]string, count)
	for i := range ps {
		ps[i] = d.placeholder(i + 1)
	}
	return strings.Join(ps, ", ")
}

// Reader reads a document from an open database.
type Reader struct {
	DB      *sql.DB
	Dialect Dialect
	Label   string
}

// Read performs one full read of both tables in a single read-only transaction
// so nodes and edges come from the same state.
func (r *Reader) Read(ctx context.Context) (*graph.Document, error) {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, source.LoadError(r.Label, fmt.Errorf("beginning read transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	doc := &graph.Document{}
	if doc.Nodes, err = r.readNodes(ctx, tx); err != nil {
		return nil, err
	}
	if doc.Edges, err = r.readEdges(ctx, tx); err != nil {
		return nil, err
	}

	return doc, nil
}

func (r *Reader) readNodes(ctx context.Context, tx *sql.Tx) ([]graph.NodeRecord, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(
		"SELECT id, type, timestamp, content, attributes FROM nodes ORDER BY %s",
		r.Dialect.OrderColumn,
	))
	if err != nil {
		return nil, source.LoadError(r.Label, fmt.Errorf("querying nodes: %w", err))
	}
	defer rows.Close()

	var out []graph.NodeRecord
	for i := 0; rows.Next(); i++ {
		var (
			rec                      graph.NodeRecord
			ts, content, attrsColumn sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Type, &ts, &content, &attrsColumn); err != nil {
			return nil, source.RecordError(r.Label, "node", i, "", fmt.Errorf("scanning row: %w", err))
		}
		rec.Timestamp = ts.String
		rec.Content = content.String

		if attrsColumn.Valid && strings.TrimSpace(attrsColumn.String) != "" {
			if err := json.Unmarshal([]byte(attrsColumn.String), &rec.Attributes); err != nil {
				return nil, source.RecordError(r.Label, "node", i, rec.ID, fmt.Errorf("decoding attributes: %w", err))
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, source.LoadError(r.Label, fmt.Errorf("reading nodes: %w", err))
	}

	return out, nil
}

func (r *Reader) readEdges(ctx context.Context, tx *sql.Tx) ([]graph.EdgeRecord, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(
		"SELECT source, target, kind FROM edges ORDER BY %s",
		r.Dialect.OrderColumn,
	))
	if err != nil {
		return nil, source.LoadError(r.Label, fmt.Errorf("querying edges: %w", err))
	}
	defer rows.Close()

	var out []graph.EdgeRecord
	for i := 0; rows.Next(); i++ {
		var rec graph.EdgeRecord
		if err := rows.Scan(&rec.Source, &rec.Target, &rec.Kind); err != nil {
			return nil, source.RecordError(r.Label, "edge", i, "", fmt.Errorf("scanning row: %w", err))
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, source.LoadError(r.Label, fmt.Errorf("reading edges: %w", err))
	}

	return out, nil
}

// CreateSchema creates the snapshot tables if they do not exist.
func CreateSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	for _, stmt := range strings.Split(d.Schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Write replaces the contents of both tables with doc in one transaction.
func Write(ctx context.Context, db *sql.DB, d Dialect, doc *graph.Document) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning write transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM edges", "DELETE FROM nodes"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing tables: %w", err)
		}
	}

	insertNode := "INSERT INTO nodes (id, type, timestamp, content, attributes) VALUES (" + d.placeholders(5) + ")"
	for _, n := range doc.Nodes {
		var attrs sql.NullString
		if len(n.Attributes) > 0 {
			b, err := json.Marshal(n.Attributes)
			if err != nil {
				return fmt.Errorf("encoding attributes of %s: %w", n.ID, err)
			}
			attrs = sql.NullString{String: string(b), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, insertNode,
			n.ID, n.Type, nullable(n.Timestamp), nullable(n.Content), attrs,
		); err != nil {
			return fmt.Errorf("inserting node %s: %w", n.ID, err)
		}
	}

	insertEdge := "INSERT INTO edges (source, target, kind) VALUES (" + d.placeholders(3) + ")"
	for _, e := range doc.Edges {
		if _, err := tx.ExecContext(ctx, insertEdge, e.Source, e.Target, e.Kind); err != nil {
			return fmt.Errorf("inserting edge %s->%s: %w", e.Source, e.Target, err)
		}
	}

	return tx.Commit()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
