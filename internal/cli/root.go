// Package cli provides the command-line interface for lmodel.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/lmodel/internal/cli/commands"
	"github.com/leapstack-labs/lmodel/internal/cli/config"
	"github.com/leapstack-labs/lmodel/internal/cli/output"
	"github.com/spf13/cobra"

	// Register database adapters via init()
	_ "github.com/leapstack-labs/lmodel/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/lmodel/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/lmodel/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/lmodel/pkg/adapters/sqlite"
)

var (
	cfgFile string
	verbose bool
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// skipConfig lists commands that run without a loaded configuration.
var skipConfig = map[string]bool{
	"help":       true,
	"completion": true,
	"__complete": true,
	"init":       true,
	"version":    true,
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lmodel",
		Short: "lmodel - Eloquent model generator",
		Long: `lmodel generates Eloquent model classes from an existing database schema.

Each table becomes one PHP class with documented properties, constants,
timestamp settings and attribute arrays taken from lmodel.yaml. Regenerating
a model keeps hand-written imports, traits and everything below the
preservation marker.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(cmd, verbose)
			ctx := context.WithValue(cmd.Context(), config.LoggerKey(), logger)

			if !skipConfig[cmd.Name()] {
				cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
				if err != nil {
					return err
				}
				ctx = config.WithConfig(ctx, cfg)

				if configFile := config.GetConfigFileUsed(); configFile != "" {
					logger.Debug("using config file", slog.String("path", configFile))
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Eloquent model generator built with Go
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: lmodel.yaml, searched upward)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")
	rootCmd.PersistentFlags().String("path", "", "Directory models are written to (overrides config)")
	rootCmd.PersistentFlags().String("namespace", "", "Namespace of generated models (overrides config)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		modes := make([]string, 0, len(output.Modes))
		for _, m := range output.Modes {
			modes = append(modes, string(m))
		}
		return modes, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewMakeCommand())
	rootCmd.AddCommand(commands.NewTablesCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger writes text logs to the command's error stream: debug and up
// when verbose, warnings and errors otherwise.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for lmodel.

To load completions:

Bash:
  $ source <(lmodel completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ lmodel completion bash > /etc/bash_completion.d/lmodel
  # macOS:
  $ lmodel completion bash > $(brew --prefix)/etc/bash_completion.d/lmodel

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ lmodel completion zsh > "${fpath[1]}/_lmodel"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ lmodel completion fish | source

  # To load completions for each session, execute once:
  $ lmodel completion fish > ~/.config/fish/completions/lmodel.fish

PowerShell:
  PS> lmodel completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> lmodel completion powershell > lmodel.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
