package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuedit/internal/subtitle"
)

var convertCmd = &cobra.Command{
	Use:   "convert [subtitle_file]",
	Short: "Convert subtitles between SRT and WebVTT",
	Long: `Convert a subtitle file to another format.

The output format comes from --format, or from the extension of the
output path. Without either, SRT becomes VTT and VTT becomes SRT.
Cues are renumbered from 1 when writing SRT.

Examples:
  cuedit convert movie.srt
  cuedit convert movie.srt -o web/movie.vtt
  cuedit convert talk.vtt --format srt --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		StringP("format", "f", "", "Output format (srt, vtt)")
	convertCmd.Flags().
		Bool("strict", false, "Fail if any block could not be parsed")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	formatStr, _ := cmd.Flags().GetString("format")
	strict, _ := cmd.Flags().GetBool("strict")
	outputPath, _ := cmd.Flags().GetString("output")

	file, err := subtitle.Open(inputPath)
	if err != nil {
		return err
	}
	if strict {
		if err := file.Err(); err != nil {
			return fmt.Errorf("%s has malformed blocks: %w", inputPath, err)
		}
	}
	for _, w := range file.Warnings {
		logger.Warnw("Skipped malformed block", "block", w.Block, "reason", w.Reason)
	}

	format, outputPath, err := resolveConvertTarget(inputPath, file.Format, formatStr, outputPath)
	if err != nil {
		return err
	}

	logger.Infow("Converting subtitles",
		"input", inputPath,
		"output", outputPath,
		"from", file.Format,
		"to", format,
		"cues", len(file.Cues),
	)

	if err := subtitle.WriteFile(outputPath, file.Cues, format); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles converted successfully: %s\n", absOutput)
	fmt.Fprintf(cmd.OutOrStdout(), "  Cues: %d\n", len(file.Cues))
	return nil
}

// output format and path for a conversion. An explicit format wins, then the
// output extension, then the other of the two formats.
func resolveConvertTarget(inputPath string, from subtitle.Format, formatStr, outputPath string) (subtitle.Format, string, error) {
	var format subtitle.Format
	switch {
	case formatStr != "":
		f, err := subtitle.ParseFormat(formatStr)
		if err != nil {
			return "", "", err
		}
		format = f
	case outputPath != "":
		f, err := subtitle.FormatFromExtension(outputPath)
		if err != nil {
			return "", "", err
		}
		format = f
	case from == subtitle.FormatSRT:
		format = subtitle.FormatVTT
	default:
		format = subtitle.FormatSRT
	}

	if outputPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outputPath = base + subtitle.ExtensionForFormat(format)
		if outputPath == inputPath {
			outputPath = base + ".converted" + subtitle.ExtensionForFormat(format)
		}
	}
	return format, outputPath, nil
}
