package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuedit/internal/subtitle"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [subtitle_file]",
	Short: "List the cues of a subtitle file",
	Long: `Parse an SRT or WebVTT file and print every cue with its timing.

Malformed blocks are skipped and reported as warnings. With --strict
any warning makes the command fail.

Examples:
  cuedit inspect movie.srt
  cuedit inspect talk.vtt --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().
		Bool("strict", false, "Fail if any block could not be parsed")
}

func runInspect(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")

	file, err := subtitle.Open(args[0])
	if err != nil {
		return err
	}

	logger.Infow("Parsed subtitle file",
		"path", file.Path,
		"format", file.Format,
		"cues", len(file.Cues),
		"warnings", len(file.Warnings),
	)

	printReport(cmd.OutOrStdout(), file.Report)

	if strict {
		if err := file.Err(); err != nil {
			return fmt.Errorf("%s has malformed blocks: %w", file.Path, err)
		}
	}
	return nil
}

func printReport(w io.Writer, report *subtitle.Report) {
	for i, cue := range report.Cues {
		fmt.Fprintf(w, "%4d  %s --> %s  (%s)  %s\n",
			i+1,
			subtitle.FormatTimecode(cue.StartMs, report.Format),
			subtitle.FormatTimecode(cue.EndMs, report.Format),
			cue.Duration(),
			strings.ReplaceAll(cue.Text, "\n", " / "),
		)
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning.Error())
	}
	fmt.Fprintf(w, "%d cues, %d warnings\n", len(report.Cues), len(report.Warnings))
}
