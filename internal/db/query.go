package db

import (
	"context"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/imgajeed76/pgrid/internal/util"
)

// Column describes one result column.
type Column struct {
	Name string
	Type string
}

// Value is one stringified result value.
type Value struct {
	Text string
	Null bool
}

// Page is one LIMIT/OFFSET window of a query result.
type Page struct {
	Columns []Column
	Rows    [][]Value
}

// Queryer runs windows of a read-only query. PostgreSQL and SQLite both
// implement it.
type Queryer interface {
	// Window returns rows [offset, offset+limit) of query.
	Window(ctx context.Context, query string, offset, limit int) (*Page, error)
	// Count returns the number of rows query produces.
	Count(ctx context.Context, query string) (int, error)
	// Dialect names the backend, e.g. "postgres".
	Dialect() string
	Close()
}

// browsable are the statement keywords that can be wrapped in a subquery.
var browsable = map[string]bool{
	"select": true,
	"with":   true,
	"values": true,
	"table":  true,
}

// IsBrowsable reports whether query is a single statement that can be paged
// with LIMIT/OFFSET.
func IsBrowsable(query string) bool {
	q := stripComments(query)
	q = strings.TrimRight(strings.TrimSpace(q), ";")
	if q == "" || strings.Contains(q, ";") {
		return false
	}
	end := strings.IndexFunc(q, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		end = len(q)
	}
	return browsable[strings.ToLower(q[:end])]
}

// stripComments removes leading -- and /* */ comments.
func stripComments(q string) string {
	for {
		q = strings.TrimSpace(q)
		switch {
		case strings.HasPrefix(q, "--"):
			nl := strings.IndexByte(q, '\n')
			if nl < 0 {
				return ""
			}
			q = q[nl+1:]
		case strings.HasPrefix(q, "/*"):
			end := strings.Index(q, "*/")
			if end < 0 {
				return ""
			}
			q = q[end+2:]
		default:
			return q
		}
	}
}

// Normalize trims whitespace and a trailing semicolon so query can be used
// as a subquery.
func Normalize(query string) string {
	return strings.TrimRight(strings.TrimSpace(query), "; \t\n")
}

func windowSQL(query, placeholderLimit, placeholderOffset string) string {
	return "SELECT * FROM (" + Normalize(query) + ") AS pgrid_q LIMIT " + placeholderLimit + " OFFSET " + placeholderOffset
}

func countSQL(query string) string {
	return "SELECT count(*) FROM (" + Normalize(query) + ") AS pgrid_q"
}

// FormatValue renders a driver value the way a SQL client shows it.
func FormatValue(v any) Value {
	switch val := v.(type) {
	case nil:
		return Value{Null: true}
	case string:
		return Value{Text: util.ToValidUTF8(val)}
	case []byte:
		return Value{Text: formatBytes(val)}
	case bool:
		return Value{Text: strconv.FormatBool(val)}
	case int64:
		return Value{Text: strconv.FormatInt(val, 10)}
	case int32:
		return Value{Text: strconv.FormatInt(int64(val), 10)}
	case int16:
		return Value{Text: strconv.FormatInt(int64(val), 10)}
	case int:
		return Value{Text: strconv.Itoa(val)}
	case float64:
		return Value{Text: strconv.FormatFloat(val, 'g', -1, 64)}
	case float32:
		return Value{Text: strconv.FormatFloat(float64(val), 'g', -1, 32)}
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 && val.Location() == time.UTC {
			return Value{Text: val.Format("2006-01-02")}
		}
		return Value{Text: val.Format("2006-01-02 15:04:05.999999Z07:00")}
	case *big.Int:
		return Value{Text: val.String()}
	case [16]byte:
		return Value{Text: formatUUID(val)}
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return Value{Text: fmt.Sprint(val)}
		}
		return Value{Text: string(b)}
	case driver.Valuer:
		inner, err := val.Value()
		if err != nil {
			return Value{Text: fmt.Sprint(val)}
		}
		if _, again := inner.(driver.Valuer); again {
			return Value{Text: fmt.Sprint(inner)}
		}
		return FormatValue(inner)
	case fmt.Stringer:
		return Value{Text: util.ToValidUTF8(val.String())}
	default:
		return Value{Text: util.ToValidUTF8(fmt.Sprint(val))}
	}
}

// formatBytes shows text blobs as text and binary ones as \x hex.
func formatBytes(b []byte) string {
	for _, c := range b {
		if c == 0 {
			return `\x` + hex.EncodeToString(b)
		}
	}
	return string(util.ToValidUTF8Bytes(b))
}

func formatUUID(u [16]byte) string {
	s := hex.EncodeToString(u[:])
	return s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:]
}

var (
	_ Queryer = (*DB)(nil)
	_ Queryer = (*SQLite)(nil)
)
