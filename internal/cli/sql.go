package cli

import (
	"github.com/imgajeed76/pgrid/internal/db"
	"github.com/imgajeed76/pgrid/internal/source"
	"github.com/imgajeed76/pgrid/internal/ui/table"
	"github.com/imgajeed76/pgrid/internal/util"
	"github.com/spf13/cobra"
)

func newSQLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Browse the result of a query",
		Long: `Run a read-only query and browse its result.

Only single SELECT, WITH, VALUES or TABLE statements are accepted: the
query is wrapped in LIMIT/OFFSET and re-run for every block of rows the
table shows, inside a read-only session.

Interactive mode shows results in a navigable table.
Use --raw or --json for output suitable for piping.

Examples:
  pgrid sql --url postgres://localhost/app "select * from orders"
  pgrid sql --sqlite data.db "select * from events order by ts desc"
  pgrid sql --limit 1000 --json "table users" > users.json`,
		Args: queryArg("pgrid sql \"select * from users\""),
		RunE: runSQL,
	}

	addSourceFlags(cmd)
	addTableFlags(cmd)
	addOutputFlags(cmd)

	return cmd
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := args[0]
	if !db.IsBrowsable(query) {
		return util.WriteQueryError(query)
	}
	ctx := cmd.Context()

	q, name, err := openQueryer(ctx, cmd, settings)
	if err != nil {
		return err
	}
	defer q.Close()

	src, err := source.NewSQL(q, query, sourceOptions(cmd, settings))
	if err != nil {
		return err
	}

	// Fail before the viewer opens when the query itself is broken
	if _, err := src.LoadRows(ctx, "probe", 0, 1); err != nil {
		return util.QueryError(query, err)
	}

	return table.DisplayResults(ctx, queryTitle(name, query), src, displayOptions(cmd, settings))
}
