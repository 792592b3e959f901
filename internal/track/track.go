// Package track holds the cue sequences an editor works on. Each cue is
// addressed by a Key that is assigned once and never reused, so selection
// state stays valid while cue timing changes.
package track

import (
	"fmt"

	"github.com/mgpai22/cuedit/internal/subtitle"
)

// stable identity of a cue within its track
type Key uint64

// which side of a bilingual pair a track holds
type Kind string

const (
	KindSource Kind = "source"
	KindTarget Kind = "target"
)

// Track is an ordered cue sequence. Order is insertion order and is never
// re-sorted by start time. Updates replace the whole sequence.
type Track struct {
	kind    Kind
	keys    []Key
	cues    []subtitle.Cue
	nextKey Key
}

func New(kind Kind, cues []subtitle.Cue) *Track {
	t := &Track{kind: kind}
	t.Replace(cues)
	return t
}

func (t *Track) Kind() Kind {
	return t.kind
}

func (t *Track) Len() int {
	if t == nil {
		return 0
	}
	return len(t.cues)
}

func (t *Track) Empty() bool {
	return t.Len() == 0
}

func (t *Track) Cue(index int) (subtitle.Cue, bool) {
	if index < 0 || index >= t.Len() {
		return subtitle.Cue{}, false
	}
	return t.cues[index], true
}

func (t *Track) Key(index int) (Key, bool) {
	if index < 0 || index >= t.Len() {
		return 0, false
	}
	return t.keys[index], true
}

// position of key in the current sequence, -1 when absent
func (t *Track) IndexOf(key Key) int {
	for i, k := range t.keys {
		if k == key {
			return i
		}
	}
	return -1
}

// copy of the current sequence
func (t *Track) Cues() []subtitle.Cue {
	out := make([]subtitle.Cue, len(t.cues))
	copy(out, t.cues)
	return out
}

// Replace swaps in a new sequence. Every cue gets a fresh key.
func (t *Track) Replace(cues []subtitle.Cue) {
	next := make([]subtitle.Cue, len(cues))
	copy(next, cues)

	keys := make([]Key, len(next))
	for i := range keys {
		t.nextKey++
		keys[i] = t.nextKey
	}

	t.cues = next
	t.keys = keys
}

// Update derives a new sequence in which only the cue at index is replaced
// by fn's result. Keys are carried over unchanged.
func (t *Track) Update(index int, fn func(subtitle.Cue) subtitle.Cue) (subtitle.Cue, error) {
	if index < 0 || index >= t.Len() {
		return subtitle.Cue{}, fmt.Errorf("cue index %d out of range (0-%d)", index, t.Len()-1)
	}

	next := make([]subtitle.Cue, len(t.cues))
	copy(next, t.cues)
	next[index] = fn(next[index])
	t.cues = next

	return next[index], nil
}

// source-language and target-language tracks edited side by side
type Pair struct {
	Source *Track
	Target *Track
}

func NewPair(source, target []subtitle.Cue) *Pair {
	return &Pair{
		Source: New(KindSource, source),
		Target: New(KindTarget, target),
	}
}

// Active is the track edits are routed to: the target when it has cues,
// otherwise the source when it has cues, otherwise nil.
func (p *Pair) Active() *Track {
	if p == nil {
		return nil
	}
	if !p.Target.Empty() {
		return p.Target
	}
	if !p.Source.Empty() {
		return p.Source
	}
	return nil
}
