package hand

import (
	"fmt"
	"math"
)

// Config holds the geometric thresholds and capability set of the
// classifier. All distance thresholds are in normalized image units and
// compared with strict inequalities.
type Config struct {
	ScreenWidth  float64
	ScreenHeight float64

	// MaxMode bounds the finger-count mode selector (modes are 1..MaxMode).
	MaxMode int

	FistThreshold     float64
	OpenThreshold     float64
	TipToPipThreshold float64

	// Optional gestures beyond fist/open/neutral.
	EnablePointing   bool
	EnableTwoFingers bool

	// ThumbCheck enables the slower but more accurate thumb extension test
	// when counting fingers on the mode hand.
	ThumbCheck bool
}

func DefaultConfig() Config {
	return Config{
		ScreenWidth:       1280,
		ScreenHeight:      720,
		MaxMode:           3,
		FistThreshold:     0.18,
		OpenThreshold:     0.28,
		TipToPipThreshold: 0.08,
		EnablePointing:    true,
		EnableTwoFingers:  true,
		ThumbCheck:        true,
	}
}

// Classifier maps raw landmark sets to an InteractionState. The only state
// it carries between frames is the sticky mode: a candidate mode is committed
// only when it differs from the current one.
type Classifier struct {
	cfg  Config
	mode int
}

func NewClassifier(cfg Config) (*Classifier, error) {
	if cfg.ScreenWidth <= 0 || cfg.ScreenHeight <= 0 {
		return nil, fmt.Errorf("screen dimensions must be positive, got %gx%g", cfg.ScreenWidth, cfg.ScreenHeight)
	}
	if cfg.MaxMode < 1 {
		return nil, fmt.Errorf("max mode must be at least 1, got %d", cfg.MaxMode)
	}
	if cfg.FistThreshold <= 0 || cfg.OpenThreshold <= 0 || cfg.TipToPipThreshold <= 0 {
		return nil, fmt.Errorf("thresholds must be positive")
	}
	return &Classifier{cfg: cfg, mode: 1}, nil
}

func (c *Classifier) Mode() int { return c.mode }

// Classify derives the interaction state for one frame of detector output.
// Action and position are recomputed from scratch every call; an empty frame
// yields the sentinel position, a neutral action and an unchanged mode.
// When a frame carries several hands with the same handedness the last one
// processed wins.
func (c *Classifier) Classify(hands []Hand) InteractionState {
	st := InteractionState{
		Mode:              c.mode,
		RightHandPosition: AbsentPosition,
		RightHandAction:   Neutral,
	}

	for _, h := range hands {
		switch h.Handedness {
		case Left:
			c.selectMode(&h, &st)
		case Right:
			c.trackDominant(&h, &st)
		}
	}

	c.mode = st.Mode
	return st
}

// selectMode counts extended fingers on the non-dominant hand and commits
// the count as the new mode when it is in range and differs from the
// current one.
func (c *Classifier) selectMode(h *Hand, st *InteractionState) {
	fingers := 0
	for _, f := range fingerJoints {
		if h.Landmarks[f.tip].Y < h.Landmarks[f.pip].Y {
			fingers++
		}
	}
	if c.cfg.ThumbCheck && thumbExtended(h) {
		fingers++
	}

	if fingers >= 1 && fingers <= c.cfg.MaxMode && fingers != st.Mode {
		st.Mode = fingers
	}
}

// trackDominant maps the middle-finger base through the camera-to-screen
// transform and classifies the hand pose.
func (c *Classifier) trackDominant(h *Hand, st *InteractionState) {
	base := h.Landmarks[MiddleMCP]
	st.RightHandPosition = [3]float32{
		float32((1-base.X)*c.cfg.ScreenWidth - c.cfg.ScreenWidth/2),
		float32(-(base.Y*c.cfg.ScreenHeight - c.cfg.ScreenHeight/2)),
		0,
	}
	st.RightHandAction = c.classifyPose(h)
}

func (c *Classifier) classifyPose(h *Hand) Action {
	wrist := h.Landmarks[Wrist]

	curled := 0
	extended := [4]bool{}
	sumWrist := 0.0
	sumPip := 0.0
	for i, f := range fingerJoints {
		tip := h.Landmarks[f.tip]
		pip := h.Landmarks[f.pip]
		if tip.Y < pip.Y {
			extended[i] = true
		} else {
			curled++
		}
		sumWrist += dist(tip, wrist)
		sumPip += dist(tip, pip)
	}
	avgDist := sumWrist / 4
	avgTipToPip := sumPip / 4
	extendedCount := 4 - curled

	// Fixed priority: fist > two fingers > pointing > open.
	if (curled >= 3 && avgTipToPip < c.cfg.TipToPipThreshold) || avgDist < c.cfg.FistThreshold {
		return Fist
	}
	if c.cfg.EnableTwoFingers && extendedCount == 2 && avgDist > c.cfg.OpenThreshold {
		return TwoFingers
	}
	if c.cfg.EnablePointing && extendedCount == 1 && extended[0] {
		return Pointing
	}
	if curled <= 1 && avgDist > c.cfg.OpenThreshold {
		return Open
	}
	return Neutral
}

// fingerJoints pairs fingertip and mid-joint landmarks for the four
// non-thumb fingers, index first.
var fingerJoints = [4]struct{ tip, pip int }{
	{IndexTip, IndexPIP},
	{MiddleTip, MiddlePIP},
	{RingTip, RingPIP},
	{PinkyTip, PinkyPIP},
}

// thumbExtended combines a horizontal tip-vs-joint comparison with a
// tip-to-base against joint-to-base distance comparison.
func thumbExtended(h *Hand) bool {
	tip := h.Landmarks[ThumbTip]
	ip := h.Landmarks[ThumbIP]
	base := h.Landmarks[ThumbCMC]
	wrist := h.Landmarks[Wrist]

	horizontal := math.Abs(tip.X-wrist.X) > math.Abs(ip.X-wrist.X)
	stretched := dist(tip, base) > dist(ip, base)
	return horizontal && stretched
}

func dist(a, b Landmark) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
