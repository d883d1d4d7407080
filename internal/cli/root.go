package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/imgajeed76/pgrid/internal/config"
	"github.com/imgajeed76/pgrid/internal/logging"
	"github.com/imgajeed76/pgrid/internal/ui/styles"
	"github.com/imgajeed76/pgrid/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// settings is the config loaded before every command runs.
var (
	settings  = config.Default()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "pgrid",
	Short: "Browse large query results in a scrollable terminal grid",
	Long: `pgrid shows query results from PostgreSQL or SQLite in an interactive
table. Rows are loaded in blocks around the visible part of the table,
so results with millions of rows open instantly.

Columns can be resized by dragging their header edge, rows by dragging
the row number gutter. Cells can be selected with the mouse or keyboard
and copied, inspected or exported.

For more information, see: https://github.com/imgajeed76/pgrid`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       Version,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Check if it's a structured PgridError
		var pgridErr *util.PgridError
		if errors.As(err, &pgridErr) {
			fmt.Fprintln(os.Stderr, pgridErr.Format())
		} else {
			// Simple error - still format nicely
			fmt.Fprintln(os.Stderr, styles.ErrorMsg(err.Error()))
		}
		return err
	}
	return nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Write debug logs (to log.file or the state directory)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	// Version flag template to show more info
	rootCmd.SetVersionTemplate(fmt.Sprintf("pgrid version %s\n  commit: %s\n  built:  %s\n", Version, CommitSHA, BuildDate))

	// Set up pre-run to handle global flags
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		noColor, _ := cmd.Flags().GetBool("no-color")
		if noColor {
			styles.SetNoColor(true)
		}

		cfg, err := config.Load()
		if err != nil {
			return util.NewError("Cannot read config").
				WithContext(config.Path()).
				WithMessage(err.Error()).
				WithSuggestion("pgrid config --list  # Check the current settings").
				Wrap(err)
		}
		settings = cfg

		verbose, _ := cmd.Flags().GetBool("verbose")
		logging.SetVerbose(verbose)
		path := cfg.LogFile()
		if verbose && path == "" {
			path = util.DefaultLogPath()
		}
		closer, err := logging.Setup(cfg.Log.Level, path)
		if err != nil {
			return fmt.Errorf("failed to open log: %w", err)
		}
		logCloser = closer
		logging.Logger().Debug("start", "command", cmd.CommandPath(), "version", Version)
		return nil
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	}

	// Add all subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newSQLCmd(),
		newDemoCmd(),
		newExportCmd(),
		newConfigCmd(),
		newDoctorCmd(),
		newCompletionCmd(),
	)
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pgrid.

To load completions:

Bash:
  $ source <(pgrid completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ pgrid completion bash > /etc/bash_completion.d/pgrid
  # macOS:
  $ pgrid completion bash > $(brew --prefix)/etc/bash_completion.d/pgrid

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ pgrid completion zsh > "${fpath[1]}/_pgrid"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ pgrid completion fish | source

  # To load completions for each session, execute once:
  $ pgrid completion fish > ~/.config/fish/completions/pgrid.fish

PowerShell:
  PS> pgrid completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> pgrid completion powershell > pgrid.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pgrid version %s\n", styles.Cyan(Version))
			fmt.Printf("  commit: %s\n", CommitSHA)
			fmt.Printf("  built:  %s\n", BuildDate)
		},
	}
}
