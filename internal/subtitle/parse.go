package subtitle

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	blockSeparatorRegex = regexp.MustCompile(`\n\s*\n`)
	vttHeaderRegex      = regexp.MustCompile(`^WEBVTT[^\n]*\n*`)
	timingLineRegex     = regexp.MustCompile(
		`(\d{2,}:\d{2}:\d{2}[,.]\d{1,3})\s*-->\s*(\d{2,}:\d{2}:\d{2}[,.]\d{1,3})`,
	)
)

// why a block was left out of the parsed cues
type Warning struct {
	Block  int // 1-based position of the block in the document
	Reason string
}

func (w Warning) Error() string {
	return fmt.Sprintf("block %d: %s", w.Block, w.Reason)
}

// Report is the outcome of parsing a document. Dropped blocks never abort the
// parse; they are listed in Warnings instead.
type Report struct {
	Format   Format
	Cues     []Cue
	Warnings []Warning
}

// joined warnings, or nil when every block parsed
func (r *Report) Err() error {
	if len(r.Warnings) == 0 {
		return nil
	}
	errs := make([]error, len(r.Warnings))
	for i, w := range r.Warnings {
		errs[i] = w
	}
	return fmt.Errorf("%d malformed %s block(s): %w",
		len(r.Warnings), r.Format, errors.Join(errs...))
}

// ParseSRT converts an SRT document into cues, silently dropping
// malformed blocks.
func ParseSRT(content string) []Cue {
	return ParseSRTReport(content).Cues
}

// ParseVTT is ParseSRT for WebVTT documents.
func ParseVTT(content string) []Cue {
	return ParseVTTReport(content).Cues
}

func ParseSRTReport(content string) *Report {
	return parseBlocks(normalize(content), FormatSRT)
}

func ParseVTTReport(content string) *Report {
	content = vttHeaderRegex.ReplaceAllString(normalize(content), "")
	return parseBlocks(content, FormatVTT)
}

func Parse(content string, format Format) *Report {
	if format == FormatVTT {
		return ParseVTTReport(content)
	}
	return ParseSRTReport(content)
}

func normalize(content string) string {
	content = strings.TrimPrefix(content, "\ufeff")
	return strings.ReplaceAll(content, "\r", "")
}

func parseBlocks(content string, format Format) *Report {
	report := &Report{Format: format, Cues: []Cue{}}

	for n, block := range blockSeparatorRegex.Split(content, -1) {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}

		if len(lines) == 0 {
			continue
		}
		if len(lines) < 2 {
			report.warn(n+1, "fewer than 2 lines")
			continue
		}

		// numeric index line is optional
		timing := 0
		if !strings.Contains(lines[0], "-->") {
			timing = 1
		}

		matches := timingLineRegex.FindStringSubmatch(lines[timing])
		if matches == nil {
			report.warn(n+1, fmt.Sprintf("no timing line in %q", lines[timing]))
			continue
		}

		startMs := ParseTimecode(matches[1])
		endMs := ParseTimecode(matches[2])
		report.Cues = append(report.Cues, Cue{
			ID:      cueID(startMs, endMs, len(report.Cues)),
			StartMs: startMs,
			EndMs:   endMs,
			Text:    strings.Join(lines[timing+1:], "\n"),
		})
	}

	return report
}

func (r *Report) warn(block int, reason string) {
	r.Warnings = append(r.Warnings, Warning{Block: block, Reason: reason})
}
