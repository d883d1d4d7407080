package cli

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/imgajeed76/pgrid/internal/config"
	"github.com/imgajeed76/pgrid/internal/db"
	"github.com/imgajeed76/pgrid/internal/grid"
	"github.com/imgajeed76/pgrid/internal/logging"
	"github.com/imgajeed76/pgrid/internal/source"
	"github.com/imgajeed76/pgrid/internal/ui"
	"github.com/imgajeed76/pgrid/internal/ui/table"
	"github.com/imgajeed76/pgrid/internal/util"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

// connectTimeout bounds opening a data source.
const connectTimeout = 15 * time.Second

// addSourceFlags registers the flags that pick a data source.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("url", "", "Database URL: postgres://... or sqlite://file (default: PGRID_URL, then database.url)")
	cmd.Flags().String("sqlite", "", "SQLite database file")
}

// addTableFlags registers the flags that shape the table.
func addTableFlags(cmd *cobra.Command) {
	cmd.Flags().Int("limit", 0, "Show at most this many rows (0 = all)")
	cmd.Flags().Int("frozen", 0, "Number of leading columns that do not scroll")
	cmd.Flags().Bool("crosstab", false, "Treat the first column as row headers of a crosstab")
}

// addOutputFlags registers the flags that pick the output mode.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("raw", false, "Output raw values without formatting (for piping)")
	cmd.Flags().Bool("json", false, "Output results as JSON array")
	cmd.Flags().Bool("no-pager", false, "Disable interactive table view")
}

// sourceTarget resolves the flags and settings to a PostgreSQL URL or a
// SQLite path. Exactly one of the two is set on success.
func sourceTarget(cmd *cobra.Command, cfg *config.Config) (pgURL, sqlitePath string, err error) {
	sqlitePath, _ = cmd.Flags().GetString("sqlite")
	pgURL, _ = cmd.Flags().GetString("url")
	if sqlitePath != "" {
		return "", util.ExpandHome(sqlitePath), nil
	}
	if pgURL == "" {
		pgURL = cfg.DatabaseURL()
	}
	switch {
	case pgURL == "":
		return "", "", util.NoSourceError()
	case strings.HasPrefix(pgURL, "sqlite://"):
		return "", util.ExpandHome(strings.TrimPrefix(pgURL, "sqlite://")), nil
	case strings.HasPrefix(pgURL, "postgres://"), strings.HasPrefix(pgURL, "postgresql://"):
		return pgURL, "", nil
	}
	return "", "", util.UnsupportedSourceError(pgURL)
}

// openQueryer connects to the data source named by the flags. The second
// result names the source for titles.
func openQueryer(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (db.Queryer, string, error) {
	pgURL, path, err := sourceTarget(cmd, cfg)
	if err != nil {
		return nil, "", err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if path != "" {
		ok, err := util.IsSQLiteFile(path)
		if err != nil || !ok {
			e := util.NewError("Not a SQLite database").WithContext(path)
			if err != nil {
				e.WithMessage(err.Error())
			}
			return nil, "", e
		}
		q, err := db.OpenSQLite(ctx, path)
		if err != nil {
			return nil, "", util.NewError("Cannot open SQLite database").WithContext(path).Wrap(err)
		}
		logging.Logger().Debug("opened sqlite", "path", path)
		return q, filepath.Base(path), nil
	}

	spinner := ui.NewSpinner("Connecting to " + util.RedactURL(pgURL))
	spinner.Start()
	q, err := db.Connect(ctx, pgURL)
	spinner.Stop()
	if err != nil {
		return nil, "", util.DatabaseConnectionError(pgURL, err)
	}
	logging.Logger().Debug("connected", "url", util.RedactURL(pgURL))
	return q, databaseName(pgURL), nil
}

// databaseName returns the database part of a connection URL.
func databaseName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "postgres"
	}
	if name := strings.TrimPrefix(u.Path, "/"); name != "" {
		return name
	}
	return u.Hostname()
}

// sourceOptions builds the table shape from settings and flags.
func sourceOptions(cmd *cobra.Command, cfg *config.Config) source.Options {
	opts := source.Options{
		DefaultColWidth: cfg.Display.DefaultColWidth,
		MaxColWidth:     cfg.Display.MaxColWidth,
		Wrap:            cfg.Display.Wrap,
	}
	if f := cmd.Flags().Lookup("limit"); f != nil {
		opts.RowLimit, _ = cmd.Flags().GetInt("limit")
	}
	if f := cmd.Flags().Lookup("frozen"); f != nil {
		opts.FrozenCols, _ = cmd.Flags().GetInt("frozen")
	}
	if f := cmd.Flags().Lookup("wrap"); f != nil && f.Changed {
		opts.Wrap, _ = cmd.Flags().GetBool("wrap")
	}
	if crosstab, _ := cmd.Flags().GetBool("crosstab"); crosstab && opts.FrozenCols == 0 {
		opts.FrozenCols = 1
	}
	return opts
}

// engineOptions builds the viewer tuning from settings and flags.
func engineOptions(cmd *cobra.Command, cfg *config.Config) grid.Options {
	opts := grid.Options{
		MinBlockSize:    cfg.Viewport.MinBlockSize,
		LoadDebounce:    cfg.LoadDebounce(),
		FlyoverDebounce: cfg.FlyoverDebounce(),
		MinWidth:        cfg.Resize.MinWidth,
		MinHeight:       cfg.Resize.MinHeight,
		LoadTimeout:     cfg.LoadTimeout(),
		Variant:         grid.GridVariant{},
		Logger:          logging.Logger(),
	}
	if crosstab, _ := cmd.Flags().GetBool("crosstab"); crosstab {
		opts.Variant = grid.CrosstabVariant{}
	}
	return opts
}

// displayOptions collects the output flags.
func displayOptions(cmd *cobra.Command, cfg *config.Config) table.DisplayOptions {
	raw, _ := cmd.Flags().GetBool("raw")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	noPager, _ := cmd.Flags().GetBool("no-pager")
	return table.DisplayOptions{
		JSON:    jsonOutput,
		Raw:     raw,
		NoPager: noPager,
		Engine:  engineOptions(cmd, cfg),
	}
}

// queryTitle shortens a query to one line for the table title.
func queryTitle(name, query string) string {
	q := runewidth.Truncate(strings.Join(strings.Fields(query), " "), 50, "…")
	return fmt.Sprintf("%s › %s", name, q)
}

// queryArg accepts exactly one <query> argument.
func queryArg(example string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		switch {
		case len(args) == 0:
			return util.MissingArgumentError("query", example)
		case len(args) > 1:
			return util.TooManyArgumentsError(1, len(args)).
				WithMessage("The query must be a single, quoted argument").
				WithSuggestion(example)
		}
		return nil
	}
}
