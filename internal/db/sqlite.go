package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLite is a read-only SQLite database file.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens path read-only.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := "file:" + path +
		"?mode=ro" +
		"&_pragma=query_only(1)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=cache_size(-8000)" // 8MB cache

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLite{db: db, path: path}, nil
}

// OpenSQLiteMemory opens a private in-memory database. Tests and the demo
// seed it through Exec.
func OpenSQLiteMemory(ctx context.Context) (*SQLite, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection would get its own empty :memory: database
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &SQLite{db: db, path: ":memory:"}, nil
}

// Exec runs a statement. Only in-memory databases accept writes.
func (s *SQLite) Exec(ctx context.Context, stmt string, args ...any) error {
	_, err := s.db.ExecContext(ctx, stmt, args...)
	return err
}

// Window returns rows [offset, offset+limit) of query.
func (s *SQLite) Window(ctx context.Context, query string, offset, limit int) (*Page, error) {
	rows, err := s.db.QueryContext(ctx, windowSQL(query, "?", "?"), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	page := &Page{Columns: make([]Column, len(types))}
	for i, t := range types {
		page.Columns[i] = Column{Name: t.Name(), Type: strings.ToLower(t.DatabaseTypeName())}
	}

	dest := make([]any, len(types))
	ptrs := make([]any, len(types))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		row := make([]Value, len(dest))
		for i, v := range dest {
			row[i] = FormatValue(v)
		}
		page.Rows = append(page.Rows, row)
	}
	return page, rows.Err()
}

// Count returns the number of rows query produces.
func (s *SQLite) Count(ctx context.Context, query string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, countSQL(query)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Dialect names the backend.
func (s *SQLite) Dialect() string { return "sqlite" }

// Path returns the database file.
func (s *SQLite) Path() string { return s.path }

// Close closes the database.
func (s *SQLite) Close() {
	s.db.Close()
}
