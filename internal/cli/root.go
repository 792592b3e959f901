package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mgpai22/cuedit/internal/logging"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cuedit",
	Short: "Subtitle cue toolkit for SRT and WebVTT files",
	Long: `Cuedit reads, converts, translates and retimes subtitle cues.

It understands SRT and WebVTT, can translate a source track into a
target track with an AI provider, and ships a terminal timeline editor
for dragging cue boundaries.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
		loadDotEnv(".env")
	},
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language of the input subtitles (e.g., en, es, fr)")
}

// environment from a .env file; variables already set win
func loadDotEnv(path string) {
	err := godotenv.Load(path)
	switch {
	case err == nil:
		logger.Debugw("Loaded environment file", "path", path)
	case errors.Is(err, fs.ErrNotExist):
	default:
		logger.Warnw("Failed to load environment file", "path", path, "error", err)
	}
}
