package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/swing-labeler/internal/render"
	"github.com/lehigh-university-libraries/swing-labeler/internal/script"
	"github.com/lehigh-university-libraries/swing-labeler/internal/session"
	"github.com/spf13/cobra"
)

func newReplayCmd() *cobra.Command {
	var (
		directory  string
		scriptPath string
		overlays   string
		keymapPath string
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Run a labeling session from a YAML event script",
		Long: `Replay a recorded list of events against a frame directory without a window.

Each script step is one of:
  select <Feature>      select-none
  pointer <x> <y>       key <name|char|code:N>
  commit  delete  advance-swing  mark-other  next  prev  quit

The script must end with quit for labels.json to be written.`,
		Example: `  # Replay a script and keep every rendered overlay
  swing-labeler replay --directory ./frames --script session.yaml --overlays ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, store, err := openWorkspace(directory)
			if err != nil {
				return err
			}

			src, err := script.Load(scriptPath)
			if err != nil {
				return fmt.Errorf("failed to load script: %w", err)
			}

			keys, err := loadKeymap(keymapPath)
			if err != nil {
				return err
			}

			cfg := session.Config{
				LabelsPath: catalog.LabelsPath(),
				Keys:       keys,
			}

			var sink *render.DirSink
			if overlays != "" {
				sink, err = render.NewDirSink(overlays)
				if err != nil {
					return err
				}
				cfg.Display = sink
			}

			s, err := session.New(catalog, store, cfg)
			if err != nil {
				return err
			}
			if err := s.Run(cmd.Context(), src); err != nil {
				return err
			}

			if sink != nil {
				slog.Info("Wrote overlays", "dir", overlays, "count", sink.Count())
			}
			if !s.Done() {
				slog.Warn("Script ended without quit, labels were not saved", "steps", src.Len())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&directory, "directory", "", "Directory of .jpg frames (required)")
	cmd.Flags().StringVar(&scriptPath, "script", "", "YAML event script (required)")
	cmd.Flags().StringVar(&overlays, "overlays", "", "Write each rendered overlay as a PNG into this directory")
	cmd.Flags().StringVar(&keymapPath, "keymap", "", "YAML key map used for key steps; env SWING_LABELER_KEYMAP")

	_ = cmd.MarkFlagRequired("directory")
	_ = cmd.MarkFlagRequired("script")

	return cmd
}
