package detector

import (
	"math"

	"github.com/san-kum/glyphswarm/internal/hand"
)

// Scripted is a deterministic stand-in for the camera pipeline: the dominant
// hand orbits the frame while stepping through poses, and the mode hand
// flashes finger counts partway through. Useful for demos and for soak
// testing the full classify/update path without hardware.
type Scripted struct {
	Loop float64
}

func NewScripted() *Scripted {
	return &Scripted{Loop: 20}
}

func (s *Scripted) Next(t float64) []hand.Hand {
	m := math.Mod(t, s.Loop)

	// Dominant hand orbit.
	cx := 0.5 + 0.2*math.Cos(m*0.8)
	cy := 0.5 + 0.15*math.Sin(m*0.8)

	switch {
	case m < 2:
		return nil
	case m < 6:
		return []hand.Hand{OpenPose(hand.Right, cx, cy)}
	case m < 9:
		return []hand.Hand{FistPose(hand.Right, cx, cy)}
	case m < 11:
		return []hand.Hand{PointingPose(hand.Right, cx, cy)}
	case m < 13:
		return []hand.Hand{TwoFingerPose(hand.Right, cx, cy)}
	case m < 15:
		return []hand.Hand{
			CountPose(hand.Left, 0.25, 0.5, 2),
			OpenPose(hand.Right, cx, cy),
		}
	case m < 17:
		return []hand.Hand{
			CountPose(hand.Left, 0.25, 0.5, 3),
			OpenPose(hand.Right, cx, cy),
		}
	default:
		return nil
	}
}
