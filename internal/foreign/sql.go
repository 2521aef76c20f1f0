package foreign

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/funvibe/vcore/internal/value"
)

// OpenSQLite opens a SQLite database. ":memory:" gives a private in-memory
// database; the pool is limited to one connection so that every read sees
// the same database.
func OpenSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// SQLSource exposes one column of a table. Nothing is fetched up front:
// Size counts the rows and ReadAt selects a single row by its position in
// rowid order, so inserts and updates are observed on the next read.
// SQL NULL is null and BLOB values are boxed strings.
type SQLSource struct {
	ctx       context.Context
	db        *sql.DB
	countStmt string
	readStmt  string
}

// NewSQLSource adapts column of table in db.
func NewSQLSource(ctx context.Context, db *sql.DB, table, column string) (*SQLSource, error) {
	if table == "" || column == "" {
		return nil, fmt.Errorf("table and column names are required")
	}
	t, c := quoteIdent(table), quoteIdent(column)
	s := &SQLSource{
		ctx:       ctx,
		db:        db,
		countStmt: "SELECT COUNT(*) FROM " + t,
		readStmt:  "SELECT " + c + " FROM " + t + " ORDER BY rowid LIMIT 1 OFFSET ?",
	}
	if _, err := s.Size(); err != nil {
		return nil, err
	}
	return s, nil
}

// SQLColumn returns column of table as a foreign-backed vector of kind k.
func SQLColumn(ctx context.Context, db *sql.DB, table, column string, k value.Kind) (*value.Vector, error) {
	src, err := NewSQLSource(ctx, db, table, column)
	if err != nil {
		return nil, err
	}
	return value.NewForeignVector(k, src), nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func (s *SQLSource) Size() (int, error) {
	var n int
	if err := s.db.QueryRowContext(s.ctx, s.countStmt).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return n, nil
}

func (s *SQLSource) ReadAt(i int) (any, error) {
	var x any
	if err := s.db.QueryRowContext(s.ctx, s.readStmt, i).Scan(&x); err != nil {
		return nil, fmt.Errorf("reading row %d: %w", i, err)
	}
	return x, nil
}

func (s *SQLSource) IsNull(v any) bool { return v == nil }

func (s *SQLSource) IsBoxed(v any) bool {
	_, ok := v.([]byte)
	return ok
}

func (s *SQLSource) Unbox(v any) (any, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("%T is not a blob", v)
	}
	return string(b), nil
}
