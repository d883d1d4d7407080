package source

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/imgajeed76/pgrid/internal/db"
	"github.com/imgajeed76/pgrid/internal/util"
)

var demoColumns = []db.Column{
	{Name: "id", Type: "int8"},
	{Name: "table_id", Type: "text"},
	{Name: "city", Type: "text"},
	{Name: "population", Type: "int8"},
	{Name: "area_km2", Type: "float8"},
	{Name: "founded", Type: "date"},
	{Name: "notes", Type: "text"},
}

var demoCities = []string{
	"Zürich", "Lisboa", "東京", "São Paulo", "Reykjavík", "Kraków",
	"Nairobi", "Montréal", "Göteborg", "Oaxaca", "Tbilisi", "Hà Nội",
}

var demoWords = strings.Fields(`river harbor old town market bridge tower
	square station quarter hill garden canal gate cathedral library museum`)

// DemoRows generates n deterministic rows for the demo table. Every 17th
// row has a NULL area and notes vary in length so wrapping shows.
func DemoRows(n int, seed int64) ([]db.Column, [][]db.Value) {
	rng := rand.New(rand.NewSource(seed))
	base := time.Date(1200, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := make([][]db.Value, n)
	for i := range rows {
		pop := rng.Int63n(20_000_000)
		area := db.Value{Text: strconv.FormatFloat(rng.Float64()*3000, 'f', 2, 64)}
		if i%17 == 16 {
			area = db.Value{Null: true}
		}
		founded := base.AddDate(rng.Intn(800), rng.Intn(12), rng.Intn(28))

		rows[i] = []db.Value{
			{Text: strconv.Itoa(i + 1)},
			{Text: util.ShortID(util.NewTableID())},
			{Text: demoCities[rng.Intn(len(demoCities))]},
			{Text: strconv.FormatInt(pop, 10)},
			area,
			{Text: founded.Format(time.DateOnly)},
			{Text: demoNote(rng, pop)},
		}
	}
	return demoColumns, rows
}

func demoNote(rng *rand.Rand, pop int64) string {
	words := make([]string, 1+rng.Intn(14))
	for i := range words {
		words[i] = demoWords[rng.Intn(len(demoWords))]
	}
	note := strings.Join(words, " ")
	if rng.Intn(5) == 0 {
		note += fmt.Sprintf("\nabout %s people", humanize.Comma(pop))
	}
	return note
}

// NewDemo creates an in-memory source over n generated rows.
func NewDemo(n int, opts Options) *MemorySource {
	cols, rows := DemoRows(n, 1)
	return NewMemory(cols, rows, opts)
}
