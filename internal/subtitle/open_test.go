package subtitle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenSRTFile(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.
With multiple lines.
`
	tmpDir := t.TempDir()
	srtPath := filepath.Join(tmpDir, "test.SRT")
	if err := os.WriteFile(srtPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	file, err := Open(srtPath)
	if err != nil {
		t.Fatalf("failed to open SRT file: %v", err)
	}

	if file.Format != FormatSRT {
		t.Errorf("expected format SRT, got %s", file.Format)
	}
	if len(file.Cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(file.Cues))
	}
	if file.Cues[1].Text != "This is a test.\nWith multiple lines." {
		t.Errorf("unexpected text %q", file.Cues[1].Text)
	}
}

func TestOpenVTTFileAndWriteBack(t *testing.T) {
	content := "WEBVTT\n\n00:00:01.000 --> 00:00:04.000\nHello\n\n00:00:05.000 --> 00:00:06.000\nAgain\n"
	tmpDir := t.TempDir()
	vttPath := filepath.Join(tmpDir, "test.vtt")
	if err := os.WriteFile(vttPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	file, err := Open(vttPath)
	if err != nil {
		t.Fatalf("failed to open VTT file: %v", err)
	}
	if file.Format != FormatVTT {
		t.Errorf("expected format VTT, got %s", file.Format)
	}

	outPath := filepath.Join(tmpDir, "nested", "out.vtt")
	if err := WriteFile(outPath, file.Cues, file.Format); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(written) != content {
		t.Errorf("expected %q, got %q", content, string(written))
	}
}

func TestWriteFileConvertsFormat(t *testing.T) {
	tmpDir := t.TempDir()
	outPath := filepath.Join(tmpDir, "out.srt")
	cues := []Cue{{StartMs: 500, EndMs: 1500, Text: "Converted"}}

	if err := WriteFile(outPath, cues, FormatSRT); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(written), "00:00:00,500 --> 00:00:01,500") {
		t.Errorf("expected SRT timing line, got %q", string(written))
	}
}

func TestOpenUnsupportedFormat(t *testing.T) {
	tmpDir := t.TempDir()
	txtPath := filepath.Join(tmpDir, "test.ass")
	if err := os.WriteFile(txtPath, []byte("test"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := Open(txtPath)
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected 'unsupported' in error, got: %v", err)
	}
}

func TestFormatFromExtension(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.srt", FormatSRT, false},
		{"a.SRT", FormatSRT, false},
		{"dir/b.Vtt", FormatVTT, false},
		{"c.txt", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromExtension(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
