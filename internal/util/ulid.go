package util

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewULID generates a new ULID string.
// ULIDs are time-sortable unique identifiers.
func NewULID() string {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewTableID returns the id a table instance uses in every provider call.
func NewTableID() string {
	return "tbl_" + NewULID()
}

// ShortID returns the last 7 characters of an ID in lowercase.
// For ULIDs, the last part has more entropy than the first (timestamp) part.
func ShortID(id string) string {
	if len(id) <= 7 {
		return strings.ToLower(id)
	}
	return strings.ToLower(id[len(id)-7:])
}
