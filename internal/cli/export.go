package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/imgajeed76/pgrid/internal/db"
	"github.com/imgajeed76/pgrid/internal/logging"
	"github.com/imgajeed76/pgrid/internal/source"
	"github.com/imgajeed76/pgrid/internal/ui"
	"github.com/imgajeed76/pgrid/internal/ui/styles"
	"github.com/imgajeed76/pgrid/internal/ui/table"
	"github.com/imgajeed76/pgrid/internal/util"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <query>",
		Short: "Write the full result of a query to a file",
		Long: `Page through a read-only query block by block and write every row.

Rows are fetched in the same blocks the viewer uses, so exports of large
results do not hold the whole result in memory (except --format table,
which needs every row to size its columns).

Examples:
  pgrid export --url postgres://localhost/app -o orders.json "select * from orders"
  pgrid export --sqlite data.db --format raw "table events" | sort`,
		Args: queryArg("pgrid export -o users.json \"select * from users\""),
		RunE: runExport,
	}

	addSourceFlags(cmd)
	cmd.Flags().Int("limit", 0, "Export at most this many rows (0 = all)")
	cmd.Flags().StringP("format", "f", "json", "Output format: json, raw or table")
	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	query := args[0]
	if !db.IsBrowsable(query) {
		return util.WriteQueryError(query)
	}
	formatName, _ := cmd.Flags().GetString("format")
	format, err := table.ParseFormat(formatName)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	q, _, err := openQueryer(ctx, cmd, settings)
	if err != nil {
		return err
	}
	defer q.Close()

	opts := sourceOptions(cmd, settings)
	opts.Wrap = false
	src, err := source.NewSQL(q, query, opts)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	path, _ := cmd.Flags().GetString("output")
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w := bufio.NewWriter(f)
		defer func() {
			if ferr := w.Flush(); err == nil {
				err = ferr
			}
		}()
		out = w
	}

	// Progress goes to stderr; only show it when stdout is not the target
	var progress *ui.Progress
	report := func(done, total int) {}
	if path != "" {
		progress = ui.NewProgress("Exporting", 0)
		report = progress.Update
	}

	start := time.Now()
	if err := table.Export(ctx, out, src, format, report); err != nil {
		return util.QueryError(query, err)
	}
	if progress != nil {
		progress.Done()
		fmt.Fprintln(os.Stderr, styles.SuccessMsg(fmt.Sprintf("Wrote %s in %s", path, util.FormatElapsed(time.Since(start)))))
	}
	logging.Logger().Info("export done", "format", format, "path", path, "elapsed", time.Since(start))
	return nil
}
