package detector

import "github.com/san-kum/glyphswarm/internal/hand"

// Synthetic landmark poses. Geometry is normalized image space with y down;
// proportions are chosen to sit comfortably inside the default classifier
// thresholds, with the wrist 0.2 below the palm center.

const (
	wristDrop   = 0.2
	fingerSpan  = 0.05
	extendedLen = 0.25
	curlDepth   = 0.09
	pipRise     = 0.05
)

func basePose(handed hand.Handedness, cx, cy float64) hand.Hand {
	h := hand.Hand{Handedness: handed}
	h.Landmarks[hand.Wrist] = hand.Landmark{X: cx, Y: cy + wristDrop}
	h.Landmarks[hand.MiddleMCP] = hand.Landmark{X: cx, Y: cy}

	// Thumb folded across the palm so the thumb test stays negative.
	h.Landmarks[hand.ThumbCMC] = hand.Landmark{X: cx + 0.04, Y: cy + 0.12}
	h.Landmarks[hand.ThumbIP] = hand.Landmark{X: cx + 0.04, Y: cy + 0.06}
	h.Landmarks[hand.ThumbTip] = hand.Landmark{X: cx + 0.02, Y: cy + 0.03}
	return h
}

var fingerPairs = [4]struct{ tip, pip int }{
	{hand.IndexTip, hand.IndexPIP},
	{hand.MiddleTip, hand.MiddlePIP},
	{hand.RingTip, hand.RingPIP},
	{hand.PinkyTip, hand.PinkyPIP},
}

func setFinger(h *hand.Hand, i int, cx, cy float64, extended bool) {
	x := cx + (float64(i)-1.5)*fingerSpan
	h.Landmarks[fingerPairs[i].pip] = hand.Landmark{X: x, Y: cy - pipRise}
	if extended {
		h.Landmarks[fingerPairs[i].tip] = hand.Landmark{X: x, Y: cy - extendedLen}
	} else {
		h.Landmarks[fingerPairs[i].tip] = hand.Landmark{X: x, Y: cy - pipRise + curlDepth}
	}
}

// OpenPose is a flat hand, all four fingers extended.
func OpenPose(handed hand.Handedness, cx, cy float64) hand.Hand {
	h := basePose(handed, cx, cy)
	for i := range fingerPairs {
		setFinger(&h, i, cx, cy, true)
	}
	return h
}

// FistPose curls every fingertip onto its mid joint.
func FistPose(handed hand.Handedness, cx, cy float64) hand.Hand {
	h := basePose(handed, cx, cy)
	for i := range fingerPairs {
		h.Landmarks[fingerPairs[i].pip] = hand.Landmark{X: cx + (float64(i)-1.5)*fingerSpan, Y: cy - 0.02}
		h.Landmarks[fingerPairs[i].tip] = hand.Landmark{X: cx + (float64(i)-1.5)*fingerSpan, Y: cy}
	}
	return h
}

// PointingPose extends only the index finger.
func PointingPose(handed hand.Handedness, cx, cy float64) hand.Hand {
	h := basePose(handed, cx, cy)
	for i := range fingerPairs {
		setFinger(&h, i, cx, cy, i == 0)
	}
	return h
}

// TwoFingerPose extends index and middle.
func TwoFingerPose(handed hand.Handedness, cx, cy float64) hand.Hand {
	h := basePose(handed, cx, cy)
	for i := range fingerPairs {
		setFinger(&h, i, cx, cy, i < 2)
	}
	return h
}

// RelaxedPose is a half-open hand that classifies as neutral: index and
// middle partly extended, ring and pinky curled, fingertips too close for
// the open threshold.
func RelaxedPose(handed hand.Handedness, cx, cy float64) hand.Hand {
	h := basePose(handed, cx, cy)
	for i := range fingerPairs {
		x := cx + (float64(i)-1.5)*fingerSpan
		h.Landmarks[fingerPairs[i].pip] = hand.Landmark{X: x, Y: cy - pipRise}
		if i < 2 {
			h.Landmarks[fingerPairs[i].tip] = hand.Landmark{X: x, Y: cy - 0.15}
		} else {
			h.Landmarks[fingerPairs[i].tip] = hand.Landmark{X: x, Y: cy - pipRise + curlDepth}
		}
	}
	return h
}

// CountPose extends the first n non-thumb fingers, plus the thumb for n=5.
func CountPose(handed hand.Handedness, cx, cy float64, n int) hand.Hand {
	h := basePose(handed, cx, cy)
	for i := range fingerPairs {
		setFinger(&h, i, cx, cy, i < n)
	}
	if n >= 5 {
		h.Landmarks[hand.ThumbCMC] = hand.Landmark{X: cx + 0.04, Y: cy + 0.1}
		h.Landmarks[hand.ThumbIP] = hand.Landmark{X: cx + 0.1, Y: cy + 0.04}
		h.Landmarks[hand.ThumbTip] = hand.Landmark{X: cx + 0.2, Y: cy}
	}
	return h
}
