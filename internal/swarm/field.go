package swarm

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/glyphswarm/internal/compute"
	"github.com/san-kum/glyphswarm/internal/hand"
)

// Field owns the persistent per-particle state: parallel position, velocity
// and target arrays plus the externally visible color buffer. Arrays are
// allocated once and never reordered; a particle's index is its identity for
// the life of the field.
type Field struct {
	n      int
	params Params

	pos    []float32
	vel    []float32
	target []float32
	colors []float32

	noise   noiseSource
	sharder compute.Sharder
	frame   uint64
}

// scatterRadius bounds the initial random particle cloud.
const scatterRadius = 50

func New(n int, params Params, seed int64, sharder compute.Sharder) (*Field, error) {
	if n <= 0 {
		return nil, fmt.Errorf("particle count must be positive, got %d", n)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if sharder == nil {
		sharder = compute.Serial{}
	}

	f := &Field{
		n:       n,
		params:  params,
		pos:     make([]float32, n*3),
		vel:     make([]float32, n*3),
		target:  make([]float32, n*3),
		colors:  make([]float32, n*3),
		noise:   noiseSource{seed: uint64(seed)},
		sharder: sharder,
	}

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n*3; i++ {
		f.pos[i] = (rng.Float32()*2 - 1) * scatterRadius
		f.target[i] = f.pos[i]
	}
	return f, nil
}

func (f *Field) Len() int       { return f.n }
func (f *Field) Params() Params { return f.params }

// Positions returns the live flat xyz buffer. Renderers read it between
// update passes; it is rewritten in place every frame.
func (f *Field) Positions() []float32 { return f.pos }

// Colors returns the live flat rgb buffer, each channel in [0,1].
func (f *Field) Colors() []float32 { return f.colors }

// SetTargets rewrites every particle's target in place. Must not run
// concurrently with Update; the caller swaps targets between frames.
func (f *Field) SetTargets(targets []float32) error {
	if len(targets) != f.n*3 {
		return fmt.Errorf("target buffer holds %d floats, want %d", len(targets), f.n*3)
	}
	copy(f.target, targets)
	return nil
}

// Update advances every particle by one tick. t is the total elapsed
// simulation time in seconds, used only for the traveling color wave; force
// and damping terms are fixed per-tick fractions. inter is a value snapshot,
// so a detector callback can never mutate it mid-pass. Particles are
// independent and the pass is sharded across the configured backend.
func (f *Field) Update(t float64, theme Theme, inter hand.InteractionState) {
	f.frame++
	frame := f.frame
	p := f.params

	handActive := inter.Present()
	hx := inter.RightHandPosition[0]
	hy := inter.RightHandPosition[1]
	hz := inter.RightHandPosition[2]
	action := inter.RightHandAction
	influenceSq := p.InfluenceRadius * p.InfluenceRadius

	f.sharder.Shard(f.n, func(start, end int) {
		for i := start; i < end; i++ {
			px, py, pz := f.pos[i*3], f.pos[i*3+1], f.pos[i*3+2]
			vx, vy, vz := f.vel[i*3], f.vel[i*3+1], f.vel[i*3+2]

			// Traveling color wave keyed to position, not just time.
			mix := float32((math.Sin(t*p.ColorSpeed+float64(px)*p.SpatialFreq) + 1) / 2)
			r := theme.Color1[0] + (theme.Color2[0]-theme.Color1[0])*mix
			g := theme.Color1[1] + (theme.Color2[1]-theme.Color1[1])*mix
			b := theme.Color1[2] + (theme.Color2[2]-theme.Color1[2])*mix

			if handActive {
				dx, dy, dz := px-hx, py-hy, pz-hz
				glow := dx*dx + dy*dy + dz*dz
				if glow < p.GlowRadius*p.GlowRadius {
					w := 1 - float32(math.Sqrt(float64(glow)))/p.GlowRadius
					r += (1 - r) * w
					g += (1 - g) * w
					b += (1 - b) * w
					r += p.BrightnessBoost
					g += p.BrightnessBoost
					b += p.BrightnessBoost
				}
			}
			f.colors[i*3] = clamp01(r)
			f.colors[i*3+1] = clamp01(g)
			f.colors[i*3+2] = clamp01(b)

			// Spring pull toward the glyph target.
			vx += (f.target[i*3] - px) * p.ReturnSpeed
			vy += (f.target[i*3+1] - py) * p.ReturnSpeed
			vz += (f.target[i*3+2] - pz) * p.ReturnSpeed

			// Organic jitter keeps the glyph from freezing solid.
			vx += f.noise.jitter(frame, i, 0) * p.NoiseAmplitude
			vy += f.noise.jitter(frame, i, 1) * p.NoiseAmplitude
			vz += f.noise.jitter(frame, i, 2) * p.NoiseAmplitude

			if handActive {
				dx, dy, dz := px-hx, py-hy, pz-hz
				distSq := dx*dx + dy*dy + dz*dz + p.Epsilon
				if distSq < influenceSq {
					mag := p.ForceMultiplier / distSq
					switch action {
					case hand.Fist:
						// Black hole: pull plus a tangential swirl.
						vx -= dx * mag
						vy -= dy * mag
						vz -= dz * mag
						vx += -dy * mag * p.SwirlStrength
						vy += dx * mag * p.SwirlStrength
					case hand.Open:
						// Blast outward, biased toward the viewer.
						vx += dx * mag
						vy += dy * mag
						vz += dz*mag + p.BlastBias
					default:
						// Gentle flow toward the palm.
						vx -= dx * mag * p.FlowStrength
						vy -= dy * mag * p.FlowStrength
						vz -= dz * mag * p.FlowStrength
					}
				}
			}

			vx *= p.Friction
			vy *= p.Friction
			vz *= p.Friction

			f.vel[i*3], f.vel[i*3+1], f.vel[i*3+2] = vx, vy, vz
			f.pos[i*3] = px + vx
			f.pos[i*3+1] = py + vy
			f.pos[i*3+2] = pz + vz
		}
	})
}

// Stats scans the field once; used by metrics, sonification and live views.
func (f *Field) Stats() Stats {
	var distSum, speedSum float64
	for i := 0; i < f.n; i++ {
		dx := float64(f.target[i*3] - f.pos[i*3])
		dy := float64(f.target[i*3+1] - f.pos[i*3+1])
		dz := float64(f.target[i*3+2] - f.pos[i*3+2])
		distSum += math.Sqrt(dx*dx + dy*dy + dz*dz)

		vx := float64(f.vel[i*3])
		vy := float64(f.vel[i*3+1])
		vz := float64(f.vel[i*3+2])
		speedSum += math.Sqrt(vx*vx + vy*vy + vz*vz)
	}
	return Stats{
		MeanTargetDist: distSum / float64(f.n),
		MeanSpeed:      speedSum / float64(f.n),
	}
}

// PackGPU serializes the field into the vec4-aligned layout the OpenGL
// compute backend expects: position, velocity, target, color.
func (f *Field) PackGPU() []float32 {
	out := make([]float32, f.n*16)
	for i := 0; i < f.n; i++ {
		copy(out[i*16:], f.pos[i*3:i*3+3])
		copy(out[i*16+4:], f.vel[i*3:i*3+3])
		copy(out[i*16+8:], f.target[i*3:i*3+3])
		copy(out[i*16+12:], f.colors[i*3:i*3+3])
		out[i*16+15] = 1
	}
	return out
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
