package hand

import "fmt"

// Landmark is one point of the 21-point hand model in normalized [0,1]
// image coordinates (y grows downward, z is relative depth).
type Landmark struct {
	X, Y, Z float64
}

// Landmark indices (wrist = 0, then four joints per digit).
const (
	Wrist     = 0
	ThumbCMC  = 1
	ThumbIP   = 3
	ThumbTip  = 4
	IndexPIP  = 6
	IndexTip  = 8
	MiddleMCP = 9
	MiddlePIP = 10
	MiddleTip = 12
	RingPIP   = 14
	RingTip   = 16
	PinkyPIP  = 18
	PinkyTip  = 20

	NumLandmarks = 21
)

type Handedness int

const (
	Left Handedness = iota
	Right
)

func (h Handedness) String() string {
	if h == Left {
		return "left"
	}
	return "right"
}

// Hand is one detected hand for a single camera frame.
type Hand struct {
	Handedness Handedness
	Landmarks  [NumLandmarks]Landmark
}

// Action is the discrete gesture of the dominant hand.
type Action int

const (
	Neutral Action = iota
	Fist
	Open
	Pointing
	TwoFingers
)

func (a Action) String() string {
	switch a {
	case Fist:
		return "fist"
	case Open:
		return "open"
	case Pointing:
		return "pointing"
	case TwoFingers:
		return "two_fingers"
	default:
		return "neutral"
	}
}

// ParseAction is the inverse of Action.String.
func ParseAction(s string) (Action, error) {
	switch s {
	case "neutral":
		return Neutral, nil
	case "fist":
		return Fist, nil
	case "open":
		return Open, nil
	case "pointing":
		return Pointing, nil
	case "two_fingers":
		return TwoFingers, nil
	}
	return Neutral, fmt.Errorf("unknown action %q", s)
}

// AbsentPosition marks frames where no dominant hand was observed.
// Consumers must check Present before computing proximity.
var AbsentPosition = [3]float32{9999, 9999, 0}

// InteractionState is the per-frame snapshot handed from the classifier to
// the particle field. It is a value type: copy it, never share a pointer
// across the detector/render boundary.
type InteractionState struct {
	Mode              int
	RightHandPosition [3]float32
	RightHandAction   Action
}

// Present reports whether a dominant hand was observed this frame.
func (s InteractionState) Present() bool {
	return s.RightHandPosition != AbsentPosition
}
