package timeline

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgpai22/cuedit/internal/subtitle"
	"github.com/mgpai22/cuedit/internal/track"
)

// 1007 columns leave a 1000 cell bar: 0.25 cells per ms over 4000 ms
func newSizedEditor(t *testing.T, cues []subtitle.Cue, save SaveFunc) (*Editor, *track.Pair) {
	t.Helper()
	pair := track.NewPair(cues, nil)
	e := NewEditor(pair, 4000, save, nil)
	e.Update(tea.WindowSizeMsg{Width: 1007, Height: 20})
	return e, pair
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	button := tea.MouseButtonLeft
	if action == tea.MouseActionRelease {
		button = tea.MouseButtonNone
	}
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEditorDragStartGrip(t *testing.T) {
	e, pair := newSizedEditor(t, []subtitle.Cue{{StartMs: 1000, EndMs: 2000, Text: "hi"}}, nil)

	// start grip sits at bar column 250, screen column 256, first cue row 2
	e.Update(mouse(tea.MouseActionPress, 256, 2))
	if !e.controller.Dragging() {
		t.Fatal("expected press on grip to start a drag")
	}
	if s, _ := e.controller.Session(); s.Edge != EdgeStart {
		t.Errorf("expected start edge, got %s", s.Edge)
	}

	e.Update(mouse(tea.MouseActionMotion, 306, 2))
	e.Update(mouse(tea.MouseActionRelease, 306, 2))

	if e.controller.Dragging() {
		t.Error("expected release to end the drag")
	}
	cue, _ := pair.Source.Cue(0)
	if cue.StartMs != 1200 {
		t.Errorf("expected start 1200, got %d", cue.StartMs)
	}
	if !e.Dirty() {
		t.Error("expected editor to be marked modified")
	}
}

func TestEditorDragEndGrip(t *testing.T) {
	e, pair := newSizedEditor(t, []subtitle.Cue{{StartMs: 1000, EndMs: 2000}}, nil)

	e.Update(mouse(tea.MouseActionPress, 6+500, 2))
	e.Update(mouse(tea.MouseActionMotion, 6+400, 2))
	e.Update(mouse(tea.MouseActionRelease, 6+400, 2))

	cue, _ := pair.Source.Cue(0)
	if cue.EndMs != 1600 {
		t.Errorf("expected end 1600, got %d", cue.EndMs)
	}
}

func TestEditorPressAwayFromGripDoesNothing(t *testing.T) {
	e, _ := newSizedEditor(t, []subtitle.Cue{{StartMs: 1000, EndMs: 2000}}, nil)

	e.Update(mouse(tea.MouseActionPress, 6+375, 2)) // middle of the bar
	e.Update(mouse(tea.MouseActionPress, 256, 1))   // ruler row
	e.Update(mouse(tea.MouseActionPress, 256, 3))   // below the last cue

	if e.controller.Dragging() {
		t.Error("expected no drag")
	}
}

func TestEditorBlurCancelsDrag(t *testing.T) {
	e, _ := newSizedEditor(t, []subtitle.Cue{{StartMs: 1000, EndMs: 2000}}, nil)

	e.Update(mouse(tea.MouseActionPress, 256, 2))
	e.Update(tea.BlurMsg{})

	if e.controller.Dragging() {
		t.Error("expected focus loss to release the drag")
	}
}

func TestEditorRefusesDragWithoutWidth(t *testing.T) {
	pair := track.NewPair([]subtitle.Cue{{StartMs: 0, EndMs: 1000}}, nil)
	e := NewEditor(pair, 4000, nil, nil)

	e.Update(mouse(tea.MouseActionPress, gutterWidth, 2))
	if e.controller.Dragging() {
		t.Error("expected drag to be refused before the first window size")
	}
}

func TestEditorSelectionAndSave(t *testing.T) {
	cues := []subtitle.Cue{
		{StartMs: 0, EndMs: 1000, Text: "one"},
		{StartMs: 1000, EndMs: 2000, Text: "two"},
	}

	var saved []subtitle.Cue
	var savedKind track.Kind
	save := func(kind track.Kind, c []subtitle.Cue) error {
		savedKind = kind
		saved = c
		return nil
	}
	e, pair := newSizedEditor(t, cues, save)

	e.Update(tea.KeyMsg{Type: tea.KeyDown})
	if idx := pair.Source.IndexOf(e.selected); idx != 1 {
		t.Errorf("expected second cue selected, got %d", idx)
	}
	if !strings.Contains(e.View(), "two") {
		t.Error("expected selected cue text in view")
	}

	e.Update(runes("s"))
	if savedKind != track.KindSource || len(saved) != 2 {
		t.Errorf("expected 2 source cues saved, got %d %s", len(saved), savedKind)
	}
	if e.Dirty() {
		t.Error("expected save to clear modified flag")
	}
}

func TestEditorSaveError(t *testing.T) {
	save := func(track.Kind, []subtitle.Cue) error { return errors.New("disk full") }
	e, _ := newSizedEditor(t, []subtitle.Cue{{StartMs: 0, EndMs: 1000}}, save)

	e.Update(runes("s"))
	if !strings.Contains(e.View(), "disk full") {
		t.Error("expected save error in view")
	}
}

func TestEditorQuit(t *testing.T) {
	e, _ := newSizedEditor(t, []subtitle.Cue{{StartMs: 0, EndMs: 1000}}, nil)

	e.Update(mouse(tea.MouseActionPress, gutterWidth, 2))
	_, cmd := e.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if e.controller.Dragging() {
		t.Error("expected quit to release the drag")
	}
}

func TestEditorBar(t *testing.T) {
	e, _ := newSizedEditor(t, nil, nil)
	e.Update(tea.WindowSizeMsg{Width: 47, Height: 20}) // 40 cell bar, 100 ms per cell

	tests := []struct {
		cue  subtitle.Cue
		want string
	}{
		{subtitle.Cue{StartMs: 0, EndMs: 500}, "[====]"},
		{subtitle.Cue{StartMs: 1000, EndMs: 1200}, "          [=]"},
		{subtitle.Cue{StartMs: 1000, EndMs: 1050}, "          |"},
		{subtitle.Cue{StartMs: 3900, EndMs: 4000}, strings.Repeat(" ", 39) + "|"},
	}
	for _, tt := range tests {
		if got := e.bar(tt.cue); got != tt.want {
			t.Errorf("bar(%d-%d) = %q, want %q", tt.cue.StartMs, tt.cue.EndMs, got, tt.want)
		}
	}
}

func TestEditorViewWithoutCues(t *testing.T) {
	e, _ := newSizedEditor(t, nil, nil)
	if !strings.Contains(e.View(), "no cues") {
		t.Error("expected empty state message")
	}
}
