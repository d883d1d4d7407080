package util

import (
	"errors"
	"strings"
	"testing"
)

func TestPgridErrorFormat(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := DatabaseConnectionError("postgres://alice:secret@db:5432/app", cause)

	if !errors.Is(err, cause) {
		t.Fatal("wrapped error lost")
	}
	out := err.Format()
	if strings.Contains(out, "secret") {
		t.Fatalf("password leaked:\n%s", out)
	}
	for _, want := range []string{"Error: Cannot connect to database", "Possible causes:", "Try:", "alice:xxxxx@db:5432"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestWriteQueryErrorWrapsSentinel(t *testing.T) {
	if err := WriteQueryError("delete from t"); !errors.Is(err, ErrWriteQuery) {
		t.Fatalf("got %v", err)
	}
}

func TestRedactURL(t *testing.T) {
	if got := RedactURL("postgres://bob@host/db"); got != "postgres://bob@host/db" {
		t.Fatalf("url without password changed: %q", got)
	}
	if got := RedactURL("not a url\x7f"); got != "not a url\x7f" {
		t.Fatalf("unparsable url changed: %q", got)
	}
}
