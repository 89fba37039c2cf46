package cmd

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/swing-labeler/internal/display"
	"github.com/lehigh-university-libraries/swing-labeler/internal/keymap"
	"github.com/lehigh-university-libraries/swing-labeler/internal/session"
	"github.com/spf13/cobra"
)

func newLabelCmd() *cobra.Command {
	var (
		directory  string
		keymapPath string
		window     string
		autosave   int
		poll       int
	)

	cmd := &cobra.Command{
		Use:   "label",
		Short: "Label frames interactively",
		Long: `Open the frames in a window and label them with the keyboard and pointer.

Default keys:
  a s d f g   select Head, Hips, Hands, LeftShoulder, RightShoulder
  w           select nothing
  space       record the selected feature at the pointer and advance
  backspace   remove the selected feature and step back
  j           tag the frame with the pending swing phase and advance the phase
  l           tag the frame as Other
  z / x k     previous / next frame
  q           save labels.json and quit

Closing the window without pressing q discards the session's edits.`,
		Example: `  # Label a directory of frames
  swing-labeler label --directory ./frames

  # Use a custom key map and save every 20 edits
  swing-labeler label --directory ./frames --keymap keys.yaml --autosave 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, store, err := openWorkspace(directory)
			if err != nil {
				return err
			}

			keys, err := loadKeymap(keymapPath)
			if err != nil {
				return err
			}

			s, err := session.New(catalog, store, session.Config{
				LabelsPath: catalog.LabelsPath(),
				Keys:       keys,
				Autosave:   autosave,
			})
			if err != nil {
				return err
			}

			// The window only opens once the frames and labels are known good.
			w := display.Open(window, poll)
			defer w.Close()
			s.SetDisplay(w)

			return s.Run(cmd.Context(), w)
		},
	}

	cmd.Flags().StringVar(&directory, "directory", "", "Directory of .jpg frames (required)")
	cmd.Flags().StringVar(&keymapPath, "keymap", "", "YAML key map file; env SWING_LABELER_KEYMAP")
	cmd.Flags().StringVar(&window, "window", "Label", "Window title")
	cmd.Flags().IntVar(&autosave, "autosave", 0, "Save after this many edits (0 disables)")
	cmd.Flags().IntVar(&poll, "poll", display.DefaultPoll, "Milliseconds to wait for a key before checking for shutdown")

	_ = cmd.MarkFlagRequired("directory")

	return cmd
}

// loadKeymap reads path, falling back to SWING_LABELER_KEYMAP and then the
// built-in bindings.
func loadKeymap(path string) (*keymap.Map, error) {
	if path == "" {
		path = os.Getenv("SWING_LABELER_KEYMAP")
	}
	if path == "" {
		return keymap.Default(), nil
	}

	keys, err := keymap.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load key map: %w", err)
	}
	return keys, nil
}
