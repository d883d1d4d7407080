package cli

import (
	"fmt"
	"strings"

	"github.com/imgajeed76/pgrid/internal/config"
	"github.com/imgajeed76/pgrid/internal/ui/styles"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <key> [value]",
		Short: "Get and set options",
		Long: `Get and set pgrid options.

Options are stored in ` + config.Path() + `.

Available options:
` + config.GenerateHelpText() + `

Examples:
  pgrid config viewport.min_block_size          # Get value
  pgrid config viewport.min_block_size 500      # Set value
  pgrid config database.url postgres://localhost/app
  pgrid config --list                           # List all config`,
		Args: cobra.MaximumNArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return config.ListKeys(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: runConfig,
	}

	cmd.Flags().BoolP("list", "l", false, "List all configuration")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	listAll, _ := cmd.Flags().GetBool("list")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if listAll {
		for _, key := range config.ListKeys() {
			value, _ := cfg.GetValue(key)
			if key == "database.url" && value != "" {
				value = styles.Mute("(set)")
			}
			fmt.Printf("%s=%s\n", key, value)
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("usage: pgrid config <key> [value]")
	}

	key := strings.ToLower(args[0])

	// Get or set?
	if len(args) == 1 {
		value, ok := cfg.GetValue(key)
		if !ok {
			return fmt.Errorf("unknown config key: %s", key)
		}
		fmt.Println(value)
		return nil
	}

	// Set value
	if err := cfg.SetValue(key, args[1]); err != nil {
		return err
	}

	// Save config
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}
