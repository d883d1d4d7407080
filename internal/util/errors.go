package util

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Common errors used throughout pgrid
var (
	ErrNoSource       = errors.New("no data source given")
	ErrWriteQuery     = errors.New("only read-only queries can be browsed")
	ErrNotConnected   = errors.New("not connected to database")
	ErrUnknownSource  = errors.New("unknown data source")
	ErrEmptyResultSet = errors.New("query returned no columns")
)

// PgridError is a structured error with context and suggestions
type PgridError struct {
	Title       string   // Short error title
	Message     string   // Detailed message
	Context     string   // What was being attempted
	Causes      []string // Possible causes
	Suggestions []string // Actionable suggestions with commands
	Err         error    // Wrapped error
}

func (e *PgridError) Error() string {
	return e.Title
}

func (e *PgridError) Unwrap() error {
	return e.Err
}

// Format returns a nicely formatted error message
func (e *PgridError) Format() string {
	var sb strings.Builder

	// Title
	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Title))

	// Context/message
	if e.Message != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Message))
	}
	if e.Context != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Context))
	}

	// Causes
	if len(e.Causes) > 0 {
		sb.WriteString("\n  Possible causes:\n")
		for _, cause := range e.Causes {
			sb.WriteString(fmt.Sprintf("    • %s\n", cause))
		}
	}

	// Suggestions
	if len(e.Suggestions) > 0 {
		sb.WriteString("\n  Try:\n")
		for _, sug := range e.Suggestions {
			sb.WriteString(fmt.Sprintf("    $ %s\n", sug))
		}
	}

	return sb.String()
}

// NewError creates a new PgridError
func NewError(title string) *PgridError {
	return &PgridError{Title: title}
}

// WithMessage adds a detailed message
func (e *PgridError) WithMessage(msg string) *PgridError {
	e.Message = msg
	return e
}

// WithContext adds context about what was being attempted
func (e *PgridError) WithContext(ctx string) *PgridError {
	e.Context = ctx
	return e
}

// WithCauses adds multiple possible causes
func (e *PgridError) WithCauses(causes ...string) *PgridError {
	e.Causes = append(e.Causes, causes...)
	return e
}

// WithSuggestion adds an actionable suggestion
func (e *PgridError) WithSuggestion(sug string) *PgridError {
	e.Suggestions = append(e.Suggestions, sug)
	return e
}

// WithSuggestions adds multiple suggestions
func (e *PgridError) WithSuggestions(sugs ...string) *PgridError {
	e.Suggestions = append(e.Suggestions, sugs...)
	return e
}

// Wrap wraps an underlying error
func (e *PgridError) Wrap(err error) *PgridError {
	e.Err = err
	return e
}

// ══════════════════════════════════════════════════════════════════════════
// Pre-built error constructors for common cases
// ══════════════════════════════════════════════════════════════════════════

// DatabaseConnectionError returns a structured error for DB connection issues
func DatabaseConnectionError(url string, err error) *PgridError {
	return NewError("Cannot connect to database").
		WithContext(RedactURL(url)).
		WithCauses(
			"Database server is not running",
			"Invalid connection credentials",
			"Network connectivity issues",
			"Database does not exist",
		).
		WithSuggestions(
			"pgrid sql --url postgres://user@host/db 'select 1'",
			"pgrid config database.url <url>  # Save a default URL",
		).
		Wrap(err)
}

// QueryError returns a structured error for a failed query
func QueryError(query string, err error) *PgridError {
	return NewError("Query failed").
		WithMessage(err.Error()).
		WithContext(query).
		WithCauses(
			"Syntax error in the query",
			"Referenced table or column does not exist",
			"The query was cancelled or timed out",
		).
		WithSuggestion("pgrid config viewport.load_timeout 60s  # Allow slower pages").
		Wrap(err)
}

// WriteQueryError returns a structured error for a statement that modifies data
func WriteQueryError(query string) *PgridError {
	return NewError("Refusing to browse a data-modifying statement").
		WithContext(query).
		WithMessage("pgrid pages results with LIMIT/OFFSET and re-runs the query for every block").
		WithSuggestion("psql -c '<statement>'  # Run writes with a regular client").
		Wrap(ErrWriteQuery)
}

// NoSourceError returns a structured error when no database is configured
func NoSourceError() *PgridError {
	return NewError("No data source").
		WithMessage("Pass a PostgreSQL URL or a SQLite file").
		WithSuggestions(
			"pgrid sql --url postgres://user@host/db 'select * from t'",
			"pgrid sql --sqlite data.db 'select * from t'",
			"export PGRID_URL=postgres://user@host/db",
			"pgrid demo             # Browse generated rows",
		).
		Wrap(ErrNoSource)
}

// UnsupportedSourceError returns a structured error for an unknown URL scheme
func UnsupportedSourceError(url string) *PgridError {
	return NewError("Unsupported data source").
		WithContext(RedactURL(url)).
		WithMessage("Supported sources are postgres://, postgresql:// and sqlite:// URLs").
		Wrap(ErrUnknownSource)
}

// MissingArgumentError returns an error for missing required argument
func MissingArgumentError(argName, example string) *PgridError {
	e := NewError(fmt.Sprintf("Missing required argument: <%s>", argName))
	if example != "" {
		e.WithSuggestion(example)
	}
	return e
}

// TooManyArgumentsError returns an error for too many arguments
func TooManyArgumentsError(expected int, got int) *PgridError {
	return NewError(fmt.Sprintf("Too many arguments: expected %d, got %d", expected, got))
}

// RedactURL hides the password of a connection URL.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
