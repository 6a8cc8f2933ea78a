// Package detector is the boundary to the hand-tracking collaborator. The
// core never talks to a camera; it consumes per-frame landmark sets from a
// Source and reads classifier output through a snapshot holder. Synthetic
// sources stand in for the camera pipeline in the GUI, the TUI, the bench
// command and tests.
package detector

import (
	"sync/atomic"

	"github.com/san-kum/glyphswarm/internal/hand"
)

// Source yields the hands visible at simulation time t. An empty slice
// means no hands were observed; sources must tolerate being polled forever
// without ever producing a hand.
type Source interface {
	Next(t float64) []hand.Hand
}

// StateHolder passes InteractionState snapshots from the detector timeline
// to the render loop. Single writer, any readers; a reader always observes
// a complete state, never a half-written one.
type StateHolder struct {
	p atomic.Pointer[hand.InteractionState]
}

func NewStateHolder() *StateHolder {
	h := &StateHolder{}
	h.Publish(hand.InteractionState{
		Mode:              1,
		RightHandPosition: hand.AbsentPosition,
		RightHandAction:   hand.Neutral,
	})
	return h
}

func (h *StateHolder) Publish(st hand.InteractionState) {
	h.p.Store(&st)
}

// Snapshot returns the latest published state by value. Callers copy it
// once per frame before the parallel field pass.
func (h *StateHolder) Snapshot() hand.InteractionState {
	return *h.p.Load()
}

// Silent is a Source that never sees a hand.
type Silent struct{}

func (Silent) Next(t float64) []hand.Hand { return nil }
