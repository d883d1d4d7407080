package db

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
)

func seedSQLite(t *testing.T, n int) *SQLite {
	t.Helper()
	ctx := context.Background()
	s, err := OpenSQLiteMemory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)

	if err := s.Exec(ctx, `CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT, score REAL)`); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= n; i++ {
		if err := s.Exec(ctx, `INSERT INTO people (id, name, score) VALUES (?, ?, ?)`, i, "person "+strconv.Itoa(i), float64(i)/2); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Exec(ctx, `INSERT INTO people (id, name, score) VALUES (?, NULL, NULL)`, n+1); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSQLiteWindow(t *testing.T) {
	s := seedSQLite(t, 50)
	ctx := context.Background()

	page, err := s.Window(ctx, "select * from people order by id;", 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Columns) != 3 || page.Columns[1].Name != "name" {
		t.Fatalf("columns = %+v", page.Columns)
	}
	if len(page.Rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(page.Rows))
	}
	if got := page.Rows[0][0].Text; got != "11" {
		t.Fatalf("first id = %q, want 11", got)
	}
	if got := page.Rows[0][2].Text; got != "5.5" {
		t.Fatalf("score = %q, want 5.5", got)
	}

	tail, err := s.Window(ctx, "select * from people order by id", 50, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(tail.Rows) != 1 || !tail.Rows[0][1].Null {
		t.Fatalf("tail = %+v", tail.Rows)
	}
}

func TestSQLiteCount(t *testing.T) {
	s := seedSQLite(t, 20)
	n, err := s.Count(context.Background(), "select * from people where score > 5")
	if err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Fatalf("count = %d, want 10", n)
	}
}

func TestOpenSQLiteMissingFile(t *testing.T) {
	_, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "missing.db"))
	if err == nil {
		t.Fatal("opening a missing file read-only should fail")
	}
}
