package media

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Duration probes an audio or video file with ffprobe and returns the
// container duration.
func Duration(path string) (time.Duration, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return 0, fmt.Errorf("media file not found: %s", path)
	}

	out, err := probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbeDuration(out)
}

// ffmpeg-go only runs the ffprobe on $PATH; anything else is run directly
// with the same arguments
func probe(path string) (string, error) {
	if _, err := exec.LookPath("ffprobe"); err == nil && os.Getenv(ffprobePathEnv) == "" {
		return ffmpeg.Probe(path)
	}

	bin, err := FFprobePath()
	if err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin, "-show_format", "-show_streams", "-of", "json", path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.String(), nil
}

// reads format.duration (seconds, as a string) from ffprobe JSON,
// falling back to the longest stream
func parseProbeDuration(probe string) (time.Duration, error) {
	if !gjson.Valid(probe) {
		return 0, fmt.Errorf("failed to parse ffprobe output")
	}

	seconds := gjson.Get(probe, "format.duration").Float()
	if seconds <= 0 {
		for _, d := range gjson.Get(probe, "streams.#.duration").Array() {
			seconds = max(seconds, d.Float())
		}
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("ffprobe reported no duration")
	}

	return time.Duration(seconds * float64(time.Second)), nil
}
