package track

import (
	"testing"

	"github.com/mgpai22/cuedit/internal/subtitle"
)

func sampleCues() []subtitle.Cue {
	return []subtitle.Cue{
		{ID: "0-1000-0", StartMs: 0, EndMs: 1000, Text: "one"},
		{ID: "1000-2000-1", StartMs: 1000, EndMs: 2000, Text: "two"},
		{ID: "2000-3000-2", StartMs: 2000, EndMs: 3000, Text: "three"},
	}
}

func TestKeysSurviveUpdates(t *testing.T) {
	tr := New(KindSource, sampleCues())

	selected, ok := tr.Key(1)
	if !ok {
		t.Fatal("expected key for index 1")
	}

	_, err := tr.Update(1, func(c subtitle.Cue) subtitle.Cue {
		c.StartMs = 1500
		return c
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if idx := tr.IndexOf(selected); idx != 1 {
		t.Errorf("expected selected key at index 1, got %d", idx)
	}
	cue, _ := tr.Cue(1)
	if cue.StartMs != 1500 {
		t.Errorf("expected start 1500, got %d", cue.StartMs)
	}
}

func TestUpdateReplacesWholeSequence(t *testing.T) {
	tr := New(KindSource, sampleCues())
	before := tr.Cues()

	_, err := tr.Update(0, func(c subtitle.Cue) subtitle.Cue {
		c.EndMs = 900
		return c
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if before[0].EndMs != 1000 {
		t.Errorf("earlier snapshot mutated: got end %d", before[0].EndMs)
	}
	after := tr.Cues()
	if after[1] != before[1] || after[2] != before[2] {
		t.Error("untouched cues changed")
	}
}

func TestUpdateOutOfRange(t *testing.T) {
	tr := New(KindSource, sampleCues())
	if _, err := tr.Update(3, func(c subtitle.Cue) subtitle.Cue { return c }); err == nil {
		t.Error("expected error for out of range index")
	}
	if _, err := tr.Update(-1, func(c subtitle.Cue) subtitle.Cue { return c }); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestReplaceIssuesFreshKeys(t *testing.T) {
	tr := New(KindSource, sampleCues())
	old, _ := tr.Key(0)

	tr.Replace(sampleCues())

	if tr.IndexOf(old) != -1 {
		t.Error("expected old key to be gone after Replace")
	}
	fresh, _ := tr.Key(0)
	if fresh <= old {
		t.Errorf("expected increasing keys, got %d after %d", fresh, old)
	}
}

func TestPairActive(t *testing.T) {
	tests := []struct {
		name   string
		source []subtitle.Cue
		target []subtitle.Cue
		want   Kind
	}{
		{"target preferred", sampleCues(), sampleCues(), KindTarget},
		{"source only", sampleCues(), nil, KindSource},
		{"target only", nil, sampleCues(), KindTarget},
		{"neither", nil, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			active := NewPair(tt.source, tt.target).Active()
			if tt.want == "" {
				if active != nil {
					t.Errorf("expected no active track, got %s", active.Kind())
				}
				return
			}
			if active == nil {
				t.Fatalf("expected %s track, got nil", tt.want)
			}
			if active.Kind() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, active.Kind())
			}
		})
	}
}
