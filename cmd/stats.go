package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/swing-labeler/internal/summary"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var (
		directory string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize label coverage and feature positions",
		Example: `  swing-labeler stats --directory ./frames
  swing-labeler stats --directory ./frames --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, store, err := openWorkspace(directory)
			if err != nil {
				return err
			}

			report := summary.Summarize(store, catalog)
			switch format {
			case "text":
				return report.WriteText(cmd.OutOrStdout())
			case "yaml":
				return report.WriteYAML(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
		},
	}

	cmd.Flags().StringVar(&directory, "directory", "", "Directory of .jpg frames (required)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, yaml")

	_ = cmd.MarkFlagRequired("directory")

	return cmd
}
