package commands

import (
	"log/slog"

	"github.com/leapstack-labs/lmodel/internal/cli/config"
	"github.com/leapstack-labs/lmodel/internal/cli/output"
	intconfig "github.com/leapstack-labs/lmodel/internal/config"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *intconfig.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config and logger stored on the command
// context by the root command and builds a renderer for the --output mode.
// Without a stored config, the configuration is loaded from the working
// directory.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	r, err := newRenderer(cmd)
	if err != nil {
		return nil, err
	}

	cfg := config.GetConfig(cmd.Context())
	if cfg == nil {
		if cfg, err = config.LoadConfig("", nil); err != nil {
			return nil, err
		}
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: r,
	}, nil
}

// newRenderer creates a renderer honouring the inherited --output flag.
func newRenderer(cmd *cobra.Command) (*output.Renderer, error) {
	format, _ := cmd.Flags().GetString("output")
	mode, err := output.ParseMode(format)
	if err != nil {
		return nil, err
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode), nil
}
