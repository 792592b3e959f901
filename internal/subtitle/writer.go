package subtitle

import (
	"os"
	"path/filepath"
)

// WriteFile serializes cues to path, creating parent directories.
func WriteFile(path string, cues []Cue, format Format) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(Serialize(cues, format)+"\n"), 0644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
