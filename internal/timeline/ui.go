package timeline

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgpai22/cuedit/internal/logging"
	"github.com/mgpai22/cuedit/internal/subtitle"
	"github.com/mgpai22/cuedit/internal/track"
)

const (
	gutterWidth = 6 // "%5d " cue number column
	rightMargin = 1
	headerRows  = 2 // title, ruler
	footerRows  = 3 // cue detail, status, help
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#93C5FD"))
	rulerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD166")).Bold(true)
	draggingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#06D6A0")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF476F"))
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Cancel key.Binding
	Save   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Cancel, k.Save, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev cue")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next cue")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "release drag")),
	Save:   key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// SaveFunc persists the active track's cues.
type SaveFunc func(kind track.Kind, cues []subtitle.Cue) error

// Editor is a terminal timeline for the active track of a pair. Dragging
// the [ or ] grip of a cue bar moves that cue's start or end.
type Editor struct {
	tracks     *track.Pair
	controller *Controller
	durationMs int64
	save       SaveFunc
	log        *logging.Logger

	keys keyMap
	help help.Model

	width    int
	height   int
	offset   int
	selected track.Key
	dirty    bool
	status   string
	err      error
}

func NewEditor(tracks *track.Pair, durationMs int64, save SaveFunc, log *logging.Logger) *Editor {
	log = logging.OrNop(log)
	e := &Editor{
		tracks:     tracks,
		controller: NewController(tracks, log),
		durationMs: durationMs,
		save:       save,
		log:        log,
		keys:       defaultKeys,
		help:       help.New(),
	}
	if active := tracks.Active(); active != nil {
		e.selected, _ = active.Key(0)
	}
	return e
}

// Run shows the editor until the user quits. Any drag still in progress
// when the program exits is released.
func Run(ctx context.Context, e *Editor) error {
	defer e.controller.Cancel()

	p := tea.NewProgram(e,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	return err
}

func (e *Editor) Dirty() bool {
	return e.dirty
}

func (e *Editor) Init() tea.Cmd {
	return nil
}

func (e *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.height = msg.Height
		e.help.Width = msg.Width
		e.scrollToSelection()
	case tea.BlurMsg:
		// pointer capture is lost with focus
		e.controller.Cancel()
	case tea.MouseMsg:
		e.handleMouse(msg)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, e.keys.Quit):
			e.controller.Cancel()
			return e, tea.Quit
		case key.Matches(msg, e.keys.Cancel):
			e.controller.Cancel()
		case key.Matches(msg, e.keys.Up):
			e.moveSelection(-1)
		case key.Matches(msg, e.keys.Down):
			e.moveSelection(1)
		case key.Matches(msg, e.keys.Save):
			e.saveActive()
		}
	}
	return e, nil
}

func (e *Editor) handleMouse(msg tea.MouseMsg) {
	x := float64(msg.X - gutterWidth)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		index, edge, ok := e.hitTest(msg.X, msg.Y)
		if !ok {
			return
		}
		if k, ok := e.tracks.Active().Key(index); ok {
			e.selected = k
		}
		if err := e.controller.Begin(index, edge, x, e.geometry()); err != nil {
			e.status = fmt.Sprintf("cannot drag: %v", err)
			return
		}
		e.status = ""
	case tea.MouseActionMotion:
		if _, ok := e.controller.Move(x); ok {
			e.dirty = true
		}
	case tea.MouseActionRelease:
		e.controller.End()
	}
}

func (e *Editor) geometry() Geometry {
	return Geometry{WidthPx: float64(e.barWidth()), DurationMs: e.durationMs}
}

func (e *Editor) barWidth() int {
	return max(0, e.width-gutterWidth-rightMargin)
}

func (e *Editor) visibleRows() int {
	return max(1, e.height-headerRows-footerRows)
}

// cell column of a time on the bar area
func (e *Editor) column(ms int64) int {
	g := e.geometry()
	if !g.valid() {
		return 0
	}
	col := int(math.Floor(float64(ms) * g.pxPerMs()))
	return max(0, min(col, e.barWidth()-1))
}

// hitTest finds the grip under a screen cell. The nearer grip wins when a
// short cue puts both within reach.
func (e *Editor) hitTest(screenX, screenY int) (int, Edge, bool) {
	active := e.tracks.Active()
	if active == nil {
		return 0, EdgeStart, false
	}

	index := screenY - headerRows + e.offset
	if screenY < headerRows || screenY >= headerRows+e.visibleRows() {
		return 0, EdgeStart, false
	}
	cue, ok := active.Cue(index)
	if !ok {
		return 0, EdgeStart, false
	}

	x := screenX - gutterWidth
	dStart := abs(x - e.column(cue.StartMs))
	dEnd := abs(x - e.column(cue.EndMs))

	switch {
	case dEnd <= 1 && dEnd < dStart:
		return index, EdgeEnd, true
	case dStart <= 1:
		return index, EdgeStart, true
	case dEnd <= 1:
		return index, EdgeEnd, true
	default:
		return 0, EdgeStart, false
	}
}

func (e *Editor) moveSelection(step int) {
	active := e.tracks.Active()
	if active == nil || e.controller.Dragging() {
		return
	}
	index := active.IndexOf(e.selected) + step
	if k, ok := active.Key(index); ok {
		e.selected = k
		e.scrollToSelection()
	}
}

func (e *Editor) scrollToSelection() {
	active := e.tracks.Active()
	if active == nil {
		return
	}
	index := active.IndexOf(e.selected)
	rows := e.visibleRows()
	if index < e.offset {
		e.offset = index
	}
	if index >= e.offset+rows {
		e.offset = index - rows + 1
	}
	e.offset = max(0, e.offset)
}

func (e *Editor) saveActive() {
	active := e.tracks.Active()
	if active == nil || e.save == nil {
		return
	}
	if err := e.save(active.Kind(), active.Cues()); err != nil {
		e.log.Errorw("Save failed", "track", active.Kind(), "error", err)
		e.err = err
		return
	}
	e.err = nil
	e.dirty = false
	e.status = fmt.Sprintf("saved %d %s cues", active.Len(), active.Kind())
	e.log.Infow("Saved track", "track", active.Kind(), "cues", active.Len())
}

func (e *Editor) View() string {
	active := e.tracks.Active()
	if active == nil {
		return "no cues to edit\n\n" + e.help.View(e.keys)
	}

	var sb strings.Builder

	title := fmt.Sprintf("%s track · %d cues · %s",
		active.Kind(), active.Len(), subtitle.FormatTimecode(e.durationMs, subtitle.FormatVTT))
	if e.dirty {
		title += " · modified"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", gutterWidth))
	sb.WriteString(rulerStyle.Render(e.ruler()))
	sb.WriteString("\n")

	session, dragging := e.controller.Session()
	end := min(active.Len(), e.offset+e.visibleRows())
	for i := e.offset; i < end; i++ {
		cue, _ := active.Cue(i)
		k, _ := active.Key(i)

		style := barStyle
		switch {
		case dragging && session.Index == i:
			style = draggingStyle
		case k == e.selected:
			style = selectedStyle
		}

		sb.WriteString(fmt.Sprintf("%5d ", i+1))
		sb.WriteString(style.Render(e.bar(cue)))
		sb.WriteString("\n")
	}
	for i := end - e.offset; i < e.visibleRows(); i++ {
		sb.WriteString("\n")
	}

	if index := active.IndexOf(e.selected); index >= 0 {
		cue, _ := active.Cue(index)
		sb.WriteString(fmt.Sprintf("%s --> %s  %s",
			subtitle.FormatTimecode(cue.StartMs, subtitle.FormatVTT),
			subtitle.FormatTimecode(cue.EndMs, subtitle.FormatVTT),
			strings.ReplaceAll(cue.Text, "\n", " / ")))
	}
	sb.WriteString("\n")

	if e.err != nil {
		sb.WriteString(errorStyle.Render(e.err.Error()))
	} else {
		sb.WriteString(statusStyle.Render(e.status))
	}
	sb.WriteString("\n")
	sb.WriteString(e.help.View(e.keys))

	return sb.String()
}

func (e *Editor) ruler() string {
	width := e.barWidth()
	if width < 2 {
		return ""
	}
	return "├" + strings.Repeat("─", width-2) + "┤"
}

// one row of the timeline: [=====] between the cue's columns
func (e *Editor) bar(cue subtitle.Cue) string {
	width := e.barWidth()
	if width == 0 {
		return ""
	}

	row := []rune(strings.Repeat(" ", width))
	startCol := e.column(cue.StartMs)
	endCol := e.column(cue.EndMs)
	for c := startCol + 1; c < endCol; c++ {
		row[c] = '='
	}
	row[startCol] = '['
	if endCol > startCol {
		row[endCol] = ']'
	} else {
		row[startCol] = '|'
	}
	return strings.TrimRight(string(row), " ")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
