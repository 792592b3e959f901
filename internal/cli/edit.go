package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuedit/internal/media"
	"github.com/mgpai22/cuedit/internal/subtitle"
	"github.com/mgpai22/cuedit/internal/timeline"
	"github.com/mgpai22/cuedit/internal/track"
)

// replaced in tests
var probeDuration = media.Duration

var editCmd = &cobra.Command{
	Use:   "edit [subtitle_file]",
	Short: "Retime cues on a terminal timeline",
	Long: `Open a subtitle file in the timeline editor.

Drag the [ or ] grip of a cue bar with the mouse to move its start or
end. When --target is given the target track is edited and the source
track is left alone.

The timeline spans --duration, or the length of --media as reported by
ffprobe, or otherwise the end of the last cue.

Examples:
  cuedit edit movie.srt --media movie.mp4
  cuedit edit movie.srt --target movie.ja.srt --duration 1h32m
  cuedit edit talk.vtt -o talk.retimed.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().
		String("target", "", "Translated subtitle file to edit instead of the source")
	editCmd.Flags().
		String("media", "", "Audio or video file that sets the timeline length")
	editCmd.Flags().
		Duration("duration", 0, "Timeline length (e.g., 1h32m, 95s)")
}

func runEdit(cmd *cobra.Command, args []string) error {
	sourcePath := args[0]
	targetPath, _ := cmd.Flags().GetString("target")
	mediaPath, _ := cmd.Flags().GetString("media")
	duration, _ := cmd.Flags().GetDuration("duration")
	outputPath, _ := cmd.Flags().GetString("output")

	if mediaPath != "" && duration > 0 {
		return fmt.Errorf("use either --media or --duration, not both")
	}

	source, err := subtitle.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to parse source subtitles: %w", err)
	}
	files := map[track.Kind]*subtitle.File{track.KindSource: source}

	var targetCues []subtitle.Cue
	if targetPath != "" {
		target, err := subtitle.Open(targetPath)
		if err != nil {
			return fmt.Errorf("failed to parse target subtitles: %w", err)
		}
		files[track.KindTarget] = target
		targetCues = target.Cues
	}

	tracks := track.NewPair(source.Cues, targetCues)
	active := tracks.Active()
	if active == nil {
		return fmt.Errorf("no cues to edit")
	}

	durationMs, err := resolveDuration(duration, mediaPath, tracks)
	if err != nil {
		return err
	}

	logger.Infow("Opening timeline editor",
		"source", sourcePath,
		"target", targetPath,
		"track", active.Kind(),
		"cues", active.Len(),
		"duration_ms", durationMs,
	)

	editor := timeline.NewEditor(tracks, durationMs, saveTrack(files, outputPath), logger)
	if err := timeline.Run(cmd.Context(), editor); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}

	if editor.Dirty() {
		logger.Warnw("Quit with unsaved changes", "track", active.Kind())
	}
	return nil
}

// timeline length in ms: the flag, then the probed media, then the last cue
func resolveDuration(flag time.Duration, mediaPath string, tracks *track.Pair) (int64, error) {
	if flag > 0 {
		return flag.Milliseconds(), nil
	}

	if mediaPath != "" {
		d, err := probeDuration(mediaPath)
		if err != nil {
			return 0, fmt.Errorf("failed to read media duration: %w", err)
		}
		return d.Milliseconds(), nil
	}

	var lastEnd int64
	for _, t := range []*track.Track{tracks.Source, tracks.Target} {
		if t == nil {
			continue
		}
		for _, cue := range t.Cues() {
			lastEnd = max(lastEnd, cue.EndMs)
		}
	}
	if lastEnd <= 0 {
		return 0, fmt.Errorf("cannot determine timeline length: use --duration or --media")
	}
	return lastEnd, nil
}

// saveTrack writes a track back to the file it was loaded from, or to
// outputPath when one is given.
func saveTrack(files map[track.Kind]*subtitle.File, outputPath string) timeline.SaveFunc {
	return func(kind track.Kind, cues []subtitle.Cue) error {
		file, ok := files[kind]
		if !ok {
			return fmt.Errorf("no file loaded for %s track", kind)
		}

		path, format := file.Path, file.Format
		if outputPath != "" {
			f, err := subtitle.FormatFromExtension(outputPath)
			if err != nil {
				return err
			}
			path, format = outputPath, f
		}

		if err := subtitle.WriteFile(path, cues, format); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Infow("Wrote track", "track", kind, "path", path, "cues", len(cues))
		return nil
	}
}
