package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/imgajeed76/pgrid/internal/source"
	"github.com/imgajeed76/pgrid/internal/ui/table"
	"github.com/spf13/cobra"
)

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Browse generated rows without a database",
		Long: `Open the table viewer on generated city data.

Useful to try the viewer, or to check a terminal's mouse and color
support before connecting to a database. Notes are long and sometimes
span two lines; use --wrap to see them wrapped.

Examples:
  pgrid demo
  pgrid demo --rows 1000000 --frozen 1
  pgrid demo --wrap --limit 500`,
		Args: cobra.NoArgs,
		RunE: runDemo,
	}

	cmd.Flags().Int("rows", 100_000, "Number of rows to generate")
	cmd.Flags().Bool("wrap", false, "Wrap long values onto several lines")
	addTableFlags(cmd)
	addOutputFlags(cmd)

	return cmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("rows")
	if n < 0 {
		return fmt.Errorf("--rows must not be negative")
	}
	src := source.NewDemo(n, sourceOptions(cmd, settings))
	title := fmt.Sprintf("demo › %s cities", humanize.Comma(int64(n)))
	return table.DisplayResults(cmd.Context(), title, src, displayOptions(cmd, settings))
}
