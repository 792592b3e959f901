package subtitle

import (
	"strconv"
	"strings"
)

// ToSRT renders cues as an SRT document. Indices are always renumbered
// 1..N in sequence order.
func ToSRT(cues []Cue) string {
	blocks := make([]string, len(cues))
	for i, cue := range cues {
		blocks[i] = strconv.Itoa(i+1) + "\n" + timingLine(cue, FormatSRT) + "\n" + cue.Text
	}
	return strings.Join(blocks, "\n\n")
}

// ToVTT renders cues as a WebVTT document without cue identifiers.
func ToVTT(cues []Cue) string {
	blocks := make([]string, len(cues))
	for i, cue := range cues {
		blocks[i] = timingLine(cue, FormatVTT) + "\n" + cue.Text
	}
	return "WEBVTT\n\n" + strings.Join(blocks, "\n\n")
}

func Serialize(cues []Cue, format Format) string {
	if format == FormatVTT {
		return ToVTT(cues)
	}
	return ToSRT(cues)
}

// 00:00:00,000 --> 00:00:00,000
func timingLine(cue Cue, format Format) string {
	return FormatTimecode(cue.StartMs, format) + " --> " + FormatTimecode(cue.EndMs, format)
}
