package media

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	ffprobeReleaseVersion = "6.1"
	ffprobeReleaseBaseURL = "https://github.com/ffbinaries/ffbinaries-prebuilt/releases/download"

	// overrides every other lookup
	ffprobePathEnv = "CUEDIT_FFPROBE_PATH"
)

var (
	locateOnce sync.Once
	locatePath string
	locateErr  error
)

// FFprobePath finds an ffprobe binary: $CUEDIT_FFPROBE_PATH, then $PATH,
// then a copy cached under the user cache dir, downloading it on first use.
func FFprobePath() (string, error) {
	locateOnce.Do(func() {
		locatePath, locateErr = locateFFprobe(os.Getenv(ffprobePathEnv), cacheRoot())
	})
	return locatePath, locateErr
}

func cacheRoot() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil || cacheDir == "" {
		cacheDir = os.TempDir()
	}
	return filepath.Join(cacheDir, "cuedit")
}

func locateFFprobe(override, cacheRoot string) (string, error) {
	if override != "" {
		if !fileExists(override) {
			return "", fmt.Errorf("%s points to a missing file: %s", ffprobePathEnv, override)
		}
		return override, nil
	}

	if found, err := exec.LookPath("ffprobe"); err == nil {
		return found, nil
	}

	assetName, err := assetForPlatform(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return "", err
	}

	installDir := filepath.Join(
		cacheRoot,
		"ffprobe",
		ffprobeReleaseVersion,
		runtime.GOOS,
		runtime.GOARCH,
	)
	binPath := filepath.Join(installDir, "ffprobe"+executableSuffix())
	if fileExists(binPath) {
		return binPath, nil
	}

	if err := os.MkdirAll(installDir, 0o755); err != nil {
		return "", fmt.Errorf("create ffprobe cache dir: %w", err)
	}
	if err := downloadAndExtract(assetName, binPath); err != nil {
		return "", err
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(binPath, 0o755); err != nil {
			return "", fmt.Errorf("chmod ffprobe: %w", err)
		}
	}
	return binPath, nil
}

func assetForPlatform(goos, goarch string) (string, error) {
	switch {
	case goos == "linux" && goarch == "amd64":
		return "ffprobe-" + ffprobeReleaseVersion + "-linux-64.zip", nil
	case goos == "linux" && goarch == "arm64":
		return "ffprobe-" + ffprobeReleaseVersion + "-linux-arm-64.zip", nil
	case goos == "darwin" && goarch == "amd64":
		return "ffprobe-" + ffprobeReleaseVersion + "-macos-64.zip", nil
	case goos == "windows" && goarch == "amd64":
		return "ffprobe-" + ffprobeReleaseVersion + "-win-64.zip", nil
	default:
		return "", fmt.Errorf("no prebuilt ffprobe for %s/%s: install ffmpeg or set %s", goos, goarch, ffprobePathEnv)
	}
}

func downloadAndExtract(assetName, dest string) error {
	url := fmt.Sprintf("%s/v%s/%s", ffprobeReleaseBaseURL, ffprobeReleaseVersion, assetName)
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("download ffprobe: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download ffprobe: unexpected status %s", resp.Status)
	}

	tmpFile, err := os.CreateTemp("", "cuedit-ffprobe-*.zip")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}
	archivePath := tmpFile.Name()
	defer func() { _ = os.Remove(archivePath) }()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	if err := extractFFprobe(archivePath, dest); err != nil {
		return fmt.Errorf("extract %s: %w", assetName, err)
	}
	return nil
}

// copies the ffprobe entry of a zip archive to dest
func extractFFprobe(archivePath, dest string) error {
	zipReader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open ffprobe archive: %w", err)
	}
	defer func() { _ = zipReader.Close() }()

	for _, file := range zipReader.File {
		if !isFFprobeBinary(filepath.Base(file.Name)) {
			continue
		}
		return extractZipFile(file, dest)
	}
	return errors.New("archive has no ffprobe binary")
}

func extractZipFile(file *zip.File, dest string) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("open archive entry: %w", err)
	}
	defer func() { _ = reader.Close() }()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// a partial copy must never sit at dest, fileExists would accept it
	out, err := os.CreateTemp(filepath.Dir(dest), ".ffprobe-*")
	if err != nil {
		return fmt.Errorf("create ffprobe binary: %w", err)
	}
	tmpPath := out.Name()

	if _, err := io.Copy(out, reader); err != nil {
		_ = out.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write ffprobe binary: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close ffprobe binary: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("install ffprobe binary: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

func isFFprobeBinary(name string) bool {
	name = strings.ToLower(name)
	return name == "ffprobe" || name == "ffprobe.exe"
}

func executableSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
