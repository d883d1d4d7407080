package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/imgajeed76/pgrid/internal/config"
	"github.com/imgajeed76/pgrid/internal/ui/styles"
	"github.com/imgajeed76/pgrid/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check terminal, config and database",
		Long: `Run diagnostics to check if pgrid is properly configured.

This command checks:
  - Terminal size and color support
  - Config file
  - Log file
  - Database connectivity (when a URL or --sqlite is given)`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
	addSourceFlags(cmd)
	return cmd
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println(styles.Boldf("pgrid doctor"))
	fmt.Println()

	allOK := true

	// Check terminal
	fmt.Print("Checking terminal... ")
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fmt.Println(styles.WarningText("NOT A TTY"))
		fmt.Println("  Output will be printed as a plain table")
	} else if w, h, err := term.GetSize(fd); err != nil {
		fmt.Println(styles.ErrorText("UNKNOWN SIZE"))
		allOK = false
	} else {
		fmt.Println(styles.SuccessText("OK") + fmt.Sprintf(" (%dx%d)", w, h))
		if w < 40 || h < 10 {
			fmt.Println("  The viewer needs at least 40x10 to be useful")
		}
	}

	fmt.Print("Checking colors... ")
	switch {
	case styles.NoColor():
		fmt.Println(styles.Mute("DISABLED") + " (NO_COLOR or PGRID_NO_COLOR)")
	case styles.IsAccessible():
		fmt.Println(styles.Mute("ACCESSIBLE MODE"))
	default:
		fmt.Println(styles.SuccessText("OK"))
	}

	// Check config
	fmt.Print("Checking config... ")
	path := config.Path()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println(styles.Mute("DEFAULTS") + fmt.Sprintf(" (%s not created)", path))
	} else if _, err := config.LoadFrom(path); err != nil {
		fmt.Println(styles.ErrorText("INVALID"))
		fmt.Printf("  %s\n", err)
		allOK = false
	} else {
		fmt.Println(styles.SuccessText("OK") + fmt.Sprintf(" (%s)", path))
	}

	fmt.Print("Checking log... ")
	if f := settings.LogFile(); f == "" {
		fmt.Println(styles.Mute("OFF") + " (set log.file or use --verbose)")
	} else {
		fmt.Println(styles.SuccessText("OK") + fmt.Sprintf(" (%s, level %s)", f, settings.Log.Level))
	}

	// Check database connection
	fmt.Print("Checking database... ")
	pgURL, sqlitePath, err := sourceTarget(cmd, settings)
	if err != nil {
		fmt.Println(styles.Mute("NOT CONFIGURED"))
		fmt.Println("  Pass --url or --sqlite, or run 'pgrid config database.url <url>'")
	} else {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		target := sqlitePath
		if pgURL != "" {
			target = util.RedactURL(pgURL)
		}
		q, _, err := openQueryer(ctx, cmd, settings)
		if err != nil {
			fmt.Println(styles.ErrorText("FAILED"))
			fmt.Printf("  %s\n", target)
			allOK = false
		} else {
			defer q.Close()
			if _, err := q.Count(ctx, "SELECT 1"); err != nil {
				fmt.Println(styles.ErrorText("FAILED"))
				fmt.Printf("  %s\n", err)
				allOK = false
			} else {
				fmt.Println(styles.SuccessText("OK") + fmt.Sprintf(" (%s, %s)", q.Dialect(), target))
			}
		}
	}

	fmt.Println()
	if allOK {
		fmt.Println(styles.SuccessMsg("All checks passed"))
		return nil
	}
	fmt.Println(styles.WarningMsg("Some checks failed"))
	return fmt.Errorf("doctor found problems")
}
