package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "swing-labeler",
		Short: "Frame annotation tool for golf swing pose and phase labels",
		Long: `Swing Labeler steps through a directory of video frames and records, per frame,
pixel positions of pose features (Head, Hips, Hands, shoulders) and the swing phase.

Labels are kept in labels.json inside the frame directory and can be exported,
summarized, and checked against the frames on disk.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if !cmd.Flags().Changed("log-level") {
				if env := os.Getenv("SWING_LABELER_LOG_LEVEL"); env != "" {
					logLevel = env
				}
			}
			return setupLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error); env SWING_LABELER_LOG_LEVEL")

	cmd.AddCommand(newLabelCmd())
	cmd.AddCommand(newReplayCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newKeymapCmd())

	return cmd
}

func setupLogging(level string) error {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info", "":
		l = slog.LevelInfo
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return fmt.Errorf("unsupported log level: %s", level)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(handler))
	return nil
}
