package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/swing-labeler/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		directory string
		format    string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export labels as one row per feature mark",
		Long: `Flatten labels.json into a table with columns frame, index, swing, feature, x, y.

Frames tagged with a swing phase but no marks get one row with an empty feature.
The format defaults to the output file's extension.`,
		Example: `  # Export to Parquet
  swing-labeler export --directory ./frames --output labels.parquet

  # CSV on stdout
  swing-labeler export --directory ./frames --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, store, err := openWorkspace(directory)
			if err != nil {
				return err
			}

			if format == "" {
				if output == "" {
					return fmt.Errorf("--format is required when writing to stdout")
				}
				if format, err = export.FormatFor(output); err != nil {
					return err
				}
			}

			rows := export.Rows(store, catalog)
			if output == "" {
				return export.Write(cmd.OutOrStdout(), format, rows)
			}
			if err := export.WriteFile(output, format, rows); err != nil {
				return err
			}

			slog.Info("Exported labels", "output", output, "format", format, "rows", len(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&directory, "directory", "", "Directory of .jpg frames (required)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: csv, jsonl, parquet")
	cmd.Flags().StringVar(&output, "output", "", "Output file (default stdout)")

	_ = cmd.MarkFlagRequired("directory")

	return cmd
}
