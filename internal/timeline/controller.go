package timeline

import (
	"errors"
	"math"

	"github.com/mgpai22/cuedit/internal/logging"
	"github.com/mgpai22/cuedit/internal/subtitle"
	"github.com/mgpai22/cuedit/internal/track"
)

// smallest gap a drag may leave between a cue's start and end
const MinCueGapMs = 10

var (
	ErrGeometryUnavailable = errors.New("timeline has no width or media has no duration")
	ErrDragActive          = errors.New("a drag is already in progress")
	ErrNoActiveTrack       = errors.New("no track has cues to edit")
	ErrCueOutOfRange       = errors.New("cue index out of range")
)

// which boundary of a cue a grip moves
type Edge int

const (
	EdgeStart Edge = iota
	EdgeEnd
)

func (e Edge) String() string {
	if e == EdgeEnd {
		return "end"
	}
	return "start"
}

// size of the timeline surface and the media it spans
type Geometry struct {
	WidthPx    float64
	DurationMs int64
}

func (g Geometry) valid() bool {
	return g.WidthPx > 0 && g.DurationMs > 0
}

func (g Geometry) pxPerMs() float64 {
	return g.WidthPx / float64(g.DurationMs)
}

// Session is the snapshot taken when a grip is pressed. Clamping during the
// drag is measured against these values, not the cue's live timing.
type Session struct {
	Index      int
	Edge       Edge
	OriginX    float64
	StartMs    int64
	EndMs      int64
	PxPerMs    float64
	DurationMs int64
}

// Controller turns pointer movement into cue boundary edits on the active
// track of a pair. At most one session exists at a time.
type Controller struct {
	tracks  *track.Pair
	session *Session
	log     *logging.Logger
}

func NewController(tracks *track.Pair, log *logging.Logger) *Controller {
	return &Controller{
		tracks: tracks,
		log:    logging.OrNop(log),
	}
}

func (c *Controller) Dragging() bool {
	return c.session != nil
}

// copy of the current session, if any
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Begin starts a drag on one edge of the cue at index. A refused drag
// leaves the controller idle.
func (c *Controller) Begin(index int, edge Edge, x float64, geom Geometry) error {
	if c.session != nil {
		return ErrDragActive
	}
	if !geom.valid() {
		c.log.Debugw("Drag refused", "reason", "geometry", "width", geom.WidthPx, "duration_ms", geom.DurationMs)
		return ErrGeometryUnavailable
	}

	active := c.tracks.Active()
	if active == nil {
		return ErrNoActiveTrack
	}
	cue, ok := active.Cue(index)
	if !ok {
		return ErrCueOutOfRange
	}

	c.session = &Session{
		Index:      index,
		Edge:       edge,
		OriginX:    x,
		StartMs:    cue.StartMs,
		EndMs:      cue.EndMs,
		PxPerMs:    geom.pxPerMs(),
		DurationMs: geom.DurationMs,
	}

	c.log.Debugw("Drag started",
		"track", active.Kind(),
		"index", index,
		"edge", edge,
		"start_ms", cue.StartMs,
		"end_ms", cue.EndMs,
	)
	return nil
}

// Move applies the pointer position to the dragged edge and returns the
// updated cue. Every move is committed to the track immediately.
func (c *Controller) Move(x float64) (subtitle.Cue, bool) {
	s := c.session
	if s == nil {
		return subtitle.Cue{}, false
	}

	active := c.tracks.Active()
	if active == nil {
		return subtitle.Cue{}, false
	}

	deltaMs := roundHalfUp((x - s.OriginX) / s.PxPerMs)

	cue, err := active.Update(s.Index, func(cue subtitle.Cue) subtitle.Cue {
		switch s.Edge {
		case EdgeStart:
			cue.StartMs = clampStart(*s, deltaMs)
		case EdgeEnd:
			cue.EndMs = clampEnd(*s, deltaMs)
		}
		return cue
	})
	if err != nil {
		c.log.Warnw("Dropping drag on missing cue", "index", s.Index, "error", err)
		c.session = nil
		return subtitle.Cue{}, false
	}
	return cue, true
}

// End finishes the drag on pointer release.
func (c *Controller) End() {
	if c.session != nil {
		c.log.Debugw("Drag ended", "index", c.session.Index, "edge", c.session.Edge)
	}
	c.session = nil
}

// Cancel releases the session on pointer-cancel or teardown. Moves already
// applied stay applied.
func (c *Controller) Cancel() {
	if c.session != nil {
		c.log.Debugw("Drag cancelled", "index", c.session.Index, "edge", c.session.Edge)
	}
	c.session = nil
}

// never below zero, never within MinCueGapMs of the snapshot end
func clampStart(s Session, deltaMs int64) int64 {
	return max(0, min(s.EndMs-MinCueGapMs, s.StartMs+deltaMs))
}

// never within MinCueGapMs of the snapshot start, never past the media end
func clampEnd(s Session, deltaMs int64) int64 {
	return min(s.DurationMs, max(s.StartMs+MinCueGapMs, s.EndMs+deltaMs))
}

// rounds .5 toward positive infinity
func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
