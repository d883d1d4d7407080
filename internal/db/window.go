package db

import (
	"context"
	"fmt"

	"github.com/imgajeed76/pgrid/internal/util"
)

// Window returns rows [offset, offset+limit) of query.
func (db *DB) Window(ctx context.Context, query string, offset, limit int) (*Page, error) {
	if !db.IsConnected() {
		return nil, util.ErrNotConnected
	}
	rows, err := db.Query(ctx, windowSQL(query, "$1", "$2"), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	page := &Page{Columns: make([]Column, len(fields))}
	typeMap := rows.Conn().TypeMap()
	for i, f := range fields {
		col := Column{Name: f.Name}
		if t, ok := typeMap.TypeForOID(f.DataTypeOID); ok {
			col.Type = t.Name
		}
		page.Columns[i] = col
	}

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		row := make([]Value, len(vals))
		for i, v := range vals {
			row[i] = FormatValue(v)
		}
		page.Rows = append(page.Rows, row)
	}
	return page, rows.Err()
}

// Count returns the number of rows query produces.
func (db *DB) Count(ctx context.Context, query string) (int, error) {
	if !db.IsConnected() {
		return 0, util.ErrNotConnected
	}
	var n int64
	if err := db.QueryRow(ctx, countSQL(query)).Scan(&n); err != nil {
		return 0, err
	}
	return int(n), nil
}

// Dialect names the backend.
func (db *DB) Dialect() string { return "postgres" }
