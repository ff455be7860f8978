package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/rpggio/zisseki/internal/catalog"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:           "watch",
		Short:         "Regenerate the catalog whenever an input file changes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(rootOpts, cmd)
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return catalog.NewWatcher(rootOpts.DataDir, rootOpts.OutPath, debounce, logger).Run(ctx)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", catalog.DefaultDebounce, "quiet period before regenerating")

	return cmd
}
