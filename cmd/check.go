package cmd

import (
	"fmt"

	"github.com/cheggaaa/pb/v3"
	"github.com/lehigh-university-libraries/swing-labeler/internal/audit"
	"github.com/spf13/cobra"
)

const progressTemplate = `{{ string . "prefix" }} {{counters . "%s/%s" "%s/?"}} {{bar . }} {{percent . "%.01f%%" "?"}} {{etime . "%s elapsed"}}`

func newCheckCmd() *cobra.Command {
	var (
		directory string
		quiet     bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate labels.json against the frames on disk",
		Long: `Report label entries for frames that no longer exist and marks that fall
outside their frame. Exits non-zero when anything is found.`,
		Example: `  swing-labeler check --directory ./frames`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, store, err := openWorkspace(directory)
			if err != nil {
				return err
			}

			checker := &audit.Checker{}
			var bar *pb.ProgressBar
			if !quiet && store.Len() > 0 {
				bar = pb.ProgressBarTemplate(progressTemplate).New(store.Len())
				bar.Set("prefix", "Checking")
				bar.SetWriter(cmd.ErrOrStderr())
				bar.Start()
				checker.Progress = func(done, total int) { bar.SetCurrent(int64(done)) }
			}

			findings := checker.Check(store, catalog)
			if bar != nil {
				bar.Finish()
			}

			out := cmd.OutOrStdout()
			for _, f := range findings {
				fmt.Fprintln(out, f)
			}

			if len(findings) > 0 {
				return fmt.Errorf("found %d problems in %s", len(findings), catalog.LabelsPath())
			}
			fmt.Fprintf(out, "%d entries OK\n", store.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&directory, "directory", "", "Directory of .jpg frames (required)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Hide the progress bar")

	_ = cmd.MarkFlagRequired("directory")

	return cmd
}
