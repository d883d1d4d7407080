package table

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/imgajeed76/pgrid/internal/grid"
	"github.com/imgajeed76/pgrid/internal/source"
	"github.com/imgajeed76/pgrid/internal/util"
	"github.com/mattn/go-runewidth"
)

// exportBlock is how many rows an export asks the source for at once.
const exportBlock = 1000

// exportTableID identifies export loads in provider logs.
const exportTableID = "tbl_export"

// value is one exported cell.
type value struct {
	text string
	null bool
}

// walk loads every data row of p in blocks and calls fn per row with the
// column names. It returns the column names, also when the table has no
// rows.
func walk(ctx context.Context, p grid.Provider, fn func(cols []string, row []value) error) ([]string, error) {
	var cols []string
	next := 0 // next absolute row to emit
	for {
		res, err := p.LoadRows(ctx, exportTableID, next, exportBlock)
		if err != nil {
			return cols, err
		}
		if cols == nil {
			cols = headerNames(res)
			if len(cols) == 0 {
				return nil, nil
			}
			next = max(next, res.HeaderRowCount)
		}

		emitted := 0
		for _, cells := range res.BodyCells {
			if len(cells) == 0 || cells[0].Row < next {
				continue
			}
			row := make([]value, len(cols))
			for _, c := range cells {
				if c.Col >= 0 && c.Col < len(row) {
					row[c.Col] = exportValue(res, c)
				}
			}
			if err := fn(cols, row); err != nil {
				return cols, err
			}
			next = cells[0].Row + 1
			emitted++
		}
		if emitted == 0 || next >= res.RowCount {
			return cols, nil
		}
	}
}

func headerNames(res *grid.LoadResult) []string {
	if len(res.HeaderCells) == 0 {
		return nil
	}
	last := res.HeaderCells[len(res.HeaderCells)-1]
	names := make([]string, res.ColCount)
	for _, c := range last {
		if c.Col >= 0 && c.Col < len(names) {
			names[c.Col] = c.Data
		}
	}
	return names
}

// exportValue resolves the cell's prototype to tell NULLs apart from text.
func exportValue(res *grid.LoadResult, c grid.Cell) value {
	style := c.Style
	if c.FormatRef > 0 && c.FormatRef <= len(res.Prototypes) && style == "" {
		style = res.Prototypes[c.FormatRef-1].Style
	}
	if style == source.StyleNull {
		return value{null: true}
	}
	return value{text: c.Data}
}

// PrintJSONResults outputs results as a JSON array of objects.
func PrintJSONResults(ctx context.Context, p grid.Provider) error {
	return writeJSON(ctx, os.Stdout, p)
}

func writeJSON(ctx context.Context, out io.Writer, p grid.Provider) error {
	w := bufio.NewWriter(out)
	n := 0
	_, _ = w.WriteString("[")
	_, err := walk(ctx, p, func(cols []string, row []value) error {
		obj := make(map[string]interface{}, len(cols))
		for i, name := range cols {
			if row[i].null {
				obj[name] = nil
			} else {
				obj[name] = row[i].text
			}
		}
		b, err := json.MarshalIndent(obj, "  ", "  ")
		if err != nil {
			return err
		}
		if n > 0 {
			_, _ = w.WriteString(",")
		}
		_, _ = w.WriteString("\n  ")
		_, _ = w.Write(b)
		n++
		return nil
	})
	if err != nil {
		return err
	}
	if n > 0 {
		_, _ = w.WriteString("\n")
	}
	_, _ = w.WriteString("]\n")
	return w.Flush()
}

// PrintRawResults outputs tab-separated rows without a header.
func PrintRawResults(ctx context.Context, p grid.Provider) error {
	return writeRaw(ctx, os.Stdout, p)
}

func writeRaw(ctx context.Context, out io.Writer, p grid.Provider) error {
	w := bufio.NewWriter(out)
	_, err := walk(ctx, p, func(_ []string, row []value) error {
		_, err := w.WriteString(strings.Join(texts(row), "\t") + "\n")
		return err
	})
	if err != nil {
		return err
	}
	return w.Flush()
}

// texts renders a row for text output: NULL for nulls, one line per value.
func texts(row []value) []string {
	vals := make([]string, len(row))
	for i, v := range row {
		if v.null {
			vals[i] = "NULL"
		} else {
			vals[i] = util.SingleLine(v.text)
		}
	}
	return vals
}

// PrintPlainTable prints a properly aligned table for non-TTY output.
// Shows full content without truncation.
func PrintPlainTable(ctx context.Context, p grid.Provider) error {
	return writePlain(ctx, os.Stdout, p)
}

func writePlain(ctx context.Context, out io.Writer, p grid.Provider) error {
	var rows [][]string
	colNames, err := walk(ctx, p, func(_ []string, row []value) error {
		rows = append(rows, texts(row))
		return nil
	})
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	defer w.Flush()

	if len(colNames) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	// Calculate column widths based on actual content (no truncation)
	colWidths := make([]int, len(colNames))
	for i, name := range colNames {
		colWidths[i] = runewidth.StringWidth(name)
	}
	for _, row := range rows {
		for i, val := range row {
			colWidths[i] = max(colWidths[i], runewidth.StringWidth(val))
		}
	}

	writeRow := func(vals []string) {
		for i, val := range vals {
			if i > 0 {
				fmt.Fprint(w, "  ")
			}
			if i == len(vals)-1 {
				fmt.Fprint(w, val)
			} else {
				fmt.Fprint(w, runewidth.FillRight(val, colWidths[i]))
			}
		}
		fmt.Fprintln(w)
	}

	writeRow(colNames)
	seps := make([]string, len(colWidths))
	for i, cw := range colWidths {
		seps[i] = strings.Repeat("─", cw)
	}
	writeRow(seps)
	for _, row := range rows {
		writeRow(row)
	}

	fmt.Fprintln(w)
	if len(rows) == 1 {
		fmt.Fprintln(w, "(1 row)")
	} else {
		fmt.Fprintf(w, "(%s rows)\n", humanize.Comma(int64(len(rows))))
	}
	return nil
}

// Format names an export format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatRaw   Format = "raw"
	FormatTable Format = "table"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatRaw, FormatTable:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, raw or table)", s)
}

// Export writes every row of p to out. progress, when set, is called after
// each block with the rows read so far and the total.
func Export(ctx context.Context, out io.Writer, p grid.Provider, format Format, progress func(done, total int)) error {
	if progress != nil {
		p = progressProvider{Provider: p, fn: progress}
	}
	switch format {
	case FormatJSON:
		return writeJSON(ctx, out, p)
	case FormatRaw:
		return writeRaw(ctx, out, p)
	default:
		return writePlain(ctx, out, p)
	}
}

// progressProvider reports how far an export got after each block.
type progressProvider struct {
	grid.Provider
	fn func(done, total int)
}

func (p progressProvider) LoadRows(ctx context.Context, tableID string, startRow, rowCount int) (*grid.LoadResult, error) {
	res, err := p.Provider.LoadRows(ctx, tableID, startRow, rowCount)
	if err != nil || len(res.BodyCells) == 0 {
		return res, err
	}
	if last := res.BodyCells[len(res.BodyCells)-1]; len(last) > 0 {
		p.fn(last[0].Row-res.HeaderRowCount+1, res.RowCount-res.HeaderRowCount)
	}
	return res, nil
}
