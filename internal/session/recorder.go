package session

import (
	"github.com/san-kum/glyphswarm/internal/hand"
	"github.com/san-kum/glyphswarm/internal/swarm"
)

// Recorder accumulates frames in memory during a run; Save flushes them to
// a Store in one shot at the end.
type Recorder struct {
	frames []Frame
}

func NewRecorder(capacity int) *Recorder {
	return &Recorder{frames: make([]Frame, 0, capacity)}
}

func (r *Recorder) Record(t float64, inter hand.InteractionState, stats swarm.Stats) {
	r.frames = append(r.frames, Frame{
		T:         t,
		Mode:      inter.Mode,
		Action:    inter.RightHandAction.String(),
		HandX:     inter.RightHandPosition[0],
		HandY:     inter.RightHandPosition[1],
		HandZ:     inter.RightHandPosition[2],
		Settle:    stats.MeanTargetDist,
		Agitation: stats.MeanSpeed,
	})
}

func (r *Recorder) Frames() []Frame { return r.frames }
func (r *Recorder) Len() int        { return len(r.frames) }

// Interaction rebuilds the interaction state of a recorded frame, for
// feeding a replayed session back into a field.
func (f Frame) Interaction() hand.InteractionState {
	action, err := hand.ParseAction(f.Action)
	if err != nil {
		action = hand.Neutral
	}
	return hand.InteractionState{
		Mode:              f.Mode,
		RightHandPosition: [3]float32{f.HandX, f.HandY, f.HandZ},
		RightHandAction:   action,
	}
}
