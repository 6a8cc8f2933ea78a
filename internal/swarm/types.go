package swarm

import "fmt"

// Theme selects the displayed text and the two colors the swarm blends
// between. Themes are immutable; switching themes re-samples every target.
type Theme struct {
	Name   string
	Color1 [3]float32
	Color2 [3]float32
	Text   string
}

// Params are the physics constants of the field. All per-tick fractions
// assume a fixed simulation tick; they are not scaled by wall-clock delta.
type Params struct {
	ReturnSpeed    float32 // fraction of the target delta added to velocity per tick
	Friction       float32 // velocity retained per tick, in (0,1)
	NoiseAmplitude float32 // symmetric jitter band per axis per tick

	ColorSpeed  float64 // traveling color wave temporal frequency
	SpatialFreq float64 // traveling color wave spatial frequency

	GlowRadius      float32 // hand proximity color highlight reach
	BrightnessBoost float32 // flat boost applied inside the glow radius

	InfluenceRadius float32 // hand force reach
	ForceMultiplier float32 // inverse-square force scale
	SwirlStrength   float32 // tangential fraction of the fist pull
	FlowStrength    float32 // weak attraction for non-fist, non-open poses
	BlastBias       float32 // constant outward z bias of the open-hand blast
	Epsilon         float32 // additive distance-squared floor
}

func DefaultParams() Params {
	return Params{
		ReturnSpeed:     0.12,
		Friction:        0.92,
		NoiseAmplitude:  0.05,
		ColorSpeed:      2.0,
		SpatialFreq:     0.05,
		GlowRadius:      12,
		BrightnessBoost: 0.25,
		InfluenceRadius: 30,
		ForceMultiplier: 60,
		SwirlStrength:   0.35,
		FlowStrength:    0.12,
		BlastBias:       0.4,
		Epsilon:         0.8,
	}
}

func (p Params) Validate() error {
	if p.ReturnSpeed <= 0 || p.ReturnSpeed > 1 {
		return fmt.Errorf("return speed must be in (0,1], got %g", p.ReturnSpeed)
	}
	if p.Friction <= 0 || p.Friction >= 1 {
		return fmt.Errorf("friction must be in (0,1), got %g", p.Friction)
	}
	if p.NoiseAmplitude < 0 {
		return fmt.Errorf("noise amplitude must not be negative, got %g", p.NoiseAmplitude)
	}
	if p.GlowRadius <= 0 || p.InfluenceRadius <= 0 {
		return fmt.Errorf("radii must be positive")
	}
	if p.ForceMultiplier < 0 {
		return fmt.Errorf("force multiplier must not be negative, got %g", p.ForceMultiplier)
	}
	if p.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, got %g", p.Epsilon)
	}
	return nil
}

// Stats summarizes one frame of the field for metrics and live views.
type Stats struct {
	MeanTargetDist float64
	MeanSpeed      float64
}
