package subtitle

import (
	"strings"
	"unicode/utf8"
)

// standard subtitle line length
const DefaultMaxCharsPerLine = 42

// Wrap breaks text that does not fit on one line into two lines at the
// word boundary closest to the middle. Text that already contains line
// breaks, or has no spaces, is returned unchanged.
func Wrap(text string, maxCharsPerLine int) string {
	text = strings.TrimSpace(text)
	if maxCharsPerLine <= 0 || strings.Contains(text, "\n") {
		return text
	}

	runeCount := utf8.RuneCountInString(text)
	if runeCount <= maxCharsPerLine {
		return text
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return text
	}

	middle := runeCount / 2
	bestSplit := 0
	bestDiff := runeCount

	currentLen := 0
	for i, word := range words[:len(words)-1] {
		currentLen += utf8.RuneCountInString(word)
		if i > 0 {
			currentLen++ // space
		}

		diff := abs(currentLen - middle)
		if diff < bestDiff {
			bestDiff = diff
			bestSplit = i + 1
		}
	}

	if bestSplit == 0 {
		return text
	}
	return strings.Join(words[:bestSplit], " ") + "\n" + strings.Join(words[bestSplit:], " ")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
