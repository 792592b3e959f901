package subtitle

import (
	"fmt"
	"time"
)

// represents single timed caption
type Cue struct {
	ID      string
	StartMs int64
	EndMs   int64
	Text    string
}

// time the cue is on screen
func (c Cue) Duration() time.Duration {
	return time.Duration(c.EndMs-c.StartMs) * time.Millisecond
}

// id assigned at parse time, not stable across timing edits
func cueID(startMs, endMs int64, n int) string {
	return fmt.Sprintf("%d-%d-%d", startMs, endMs, n)
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// separator between seconds and milliseconds in a timecode
func (f Format) fractionSeparator() string {
	if f == FormatVTT {
		return "."
	}
	return ","
}

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatSRT, FormatVTT:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q: use srt or vtt", s)
	}
}
