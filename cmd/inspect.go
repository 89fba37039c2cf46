package cmd

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/swing-labeler/internal/export"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var (
		file  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print rows from an exported Parquet or JSONL file",
		Example: `  # First 10 rows of an export
  swing-labeler inspect --file labels.parquet

  # Every row
  swing-labeler inspect --file labels.jsonl --limit 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := export.NewLoader(file).Load(limit)
			if err != nil {
				return fmt.Errorf("failed to load export: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loaded %d rows from %s\n", len(rows), file)
			fmt.Fprintln(out, strings.Repeat("=", 80))

			for _, r := range rows {
				if r.Feature == "" {
					fmt.Fprintf(out, "%5d  %-8s %-14s %s\n", r.Index, r.Swing, "-", r.Frame)
					continue
				}
				fmt.Fprintf(out, "%5d  %-8s %-14s %s (%d,%d)\n", r.Index, r.Swing, r.Feature, r.Frame, r.X, r.Y)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to a .parquet or .jsonl export (required)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of rows to print (0 for all)")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}
