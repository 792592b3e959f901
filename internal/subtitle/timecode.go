package subtitle

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var timecodeRegex = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2})\.(\d{1,3})$`)

// largest hour count whose millisecond total still fits in an int64
const maxHours = (math.MaxInt64 - 3_599_999) / 3_600_000

// ParseTimecode converts HH:MM:SS,mmm or HH:MM:SS.mmm to milliseconds.
// Short fractions are padded on the right, so "01.5" is 1500 ms.
// Text that does not match yields 0; use ValidTimecode to tell the two apart.
func ParseTimecode(text string) int64 {
	ms, _ := parseTimecode(text)
	return ms
}

// reports whether text is a timecode ParseTimecode understands
func ValidTimecode(text string) bool {
	_, ok := parseTimecode(text)
	return ok
}

func parseTimecode(text string) (int64, bool) {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	matches := timecodeRegex.FindStringSubmatch(normalized)
	if matches == nil {
		return 0, false
	}

	h, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil || h > maxHours {
		return 0, false
	}
	m, _ := strconv.ParseInt(matches[2], 10, 64)
	s, _ := strconv.ParseInt(matches[3], 10, 64)

	fraction := matches[4] + strings.Repeat("0", 3-len(matches[4]))
	millis, _ := strconv.ParseInt(fraction, 10, 64)

	return ((h*60+m)*60+s)*1000 + millis, true
}

// FormatTimecode renders ms as HH:MM:SS followed by the format's separator
// and exactly three fractional digits. Negative input is clamped to zero.
func FormatTimecode(ms int64, format Format) string {
	if ms < 0 {
		ms = 0
	}

	hours := ms / 3_600_000
	minutes := ms / 60_000 % 60
	seconds := ms / 1000 % 60
	millis := ms % 1000

	return fmt.Sprintf("%02d:%02d:%02d%s%03d",
		hours, minutes, seconds, format.fractionSeparator(), millis)
}
