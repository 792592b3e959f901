package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// parsed subtitle file
type File struct {
	Path string
	*Report
}

// Open reads an .srt or .vtt file. Any other extension is rejected before
// the file is touched.
func Open(path string) (*File, error) {
	format, err := FormatFromExtension(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", strings.ToUpper(string(format)), err)
	}

	return &File{
		Path:   path,
		Report: Parse(string(data), format),
	}, nil
}

// subtitle format based on file extension, case-insensitive
func FormatFromExtension(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return FormatSRT, nil
	case ".vtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("unsupported subtitle format %q: use .srt or .vtt", ext)
	}
}

// file extension for a format
func ExtensionForFormat(format Format) string {
	if format == FormatVTT {
		return ".vtt"
	}
	return ".srt"
}
