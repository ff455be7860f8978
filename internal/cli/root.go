// Package cli implements the catalog command line.
package cli

import (
	"fmt"
	"os"

	"github.com/rpggio/zisseki/internal/catalog"
	"github.com/rpggio/zisseki/internal/config"
	"github.com/rpggio/zisseki/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DataDir string
	OutPath string
	Verbose bool
}

// NewRootCommand creates the catalog command. Run without a subcommand it
// generates the page once.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "catalog",
		Short:         "Generate the technical documents catalog",
		Long:          "Join file_details.json, file_categories.json and file_technologies.json into one filterable HTML page.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", catalog.DefaultDataDir, "directory holding the JSON inputs")
	cmd.PersistentFlags().StringVar(&opts.OutPath, "out", catalog.DefaultOutFile, "output HTML file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "エラーが発生しました: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(opts *RootOptions, cmd *cobra.Command) *zap.Logger {
	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	logger, err := logging.New(config.LogConfig{Level: level, Format: "console"}, cmd.ErrOrStderr())
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func runGenerate(opts *RootOptions, cmd *cobra.Command) error {
	logger := newLogger(opts, cmd)
	defer logger.Sync()

	res, err := catalog.Generate(opts.DataDir, opts.OutPath, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "HTMLファイルが正常に生成されました: %s (%d件)\n", res.OutPath, res.Records)
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
