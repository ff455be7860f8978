package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rpggio/zisseki/internal/catalog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import <csv>",
		Short: "Merge a file search CSV export into file_details.json",
		Long: `Merge a file search CSV export into the details collection.

Rows for files that were not found are skipped. Existing entries are only
replaced while their name is still "見つかりませんでした". The result is
written next to the input as file_details_updated.json.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], output, cmd)
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "output path (default <data-dir>/file_details_updated.json)")

	return cmd
}

func runImport(opts *RootOptions, csvPath, output string, cmd *cobra.Command) error {
	logger := newLogger(opts, cmd)
	defer logger.Sync()

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	var existing []catalog.Detail
	if exists(filepath.Join(opts.DataDir, catalog.DetailsFile)) {
		existing, err = catalog.LoadDetails(opts.DataDir)
		if err != nil {
			return err
		}
	} else {
		logger.Warn("no existing details, starting empty", zap.String("dir", opts.DataDir))
	}

	merged, stats, err := catalog.ImportCSV(existing, f, time.Now())
	if err != nil {
		return err
	}

	if output == "" {
		output = filepath.Join(opts.DataDir, catalog.UpdatedDetailsFile)
	}
	if err := catalog.WriteDetails(output, merged); err != nil {
		return err
	}

	logger.Info("details merged",
		zap.Int("parsed", stats.Parsed),
		zap.Int("added", stats.Added),
		zap.Int("updated", stats.Updated),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "更新完了: %d件更新, %d件追加 (総件数: %d件) -> %s\n",
		stats.Updated, stats.Added, len(merged), output)
	return nil
}
