package glyph

import (
	"fmt"
	"image"
	"math"
	"math/rand"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Point is one foreground sample in centered, scale-corrected glyph space.
type Point struct {
	X, Y float32
}

// lumThreshold separates glyph ink from background on the grayscale canvas.
const lumThreshold = 128

type Config struct {
	Width    int     // off-screen canvas width in pixels
	Height   int     // off-screen canvas height in pixels
	FontSize float64 // points at 72 DPI
	Step     int     // grid stride in pixels; larger is sparser and faster
	Scale    float32 // pixel to world-space scale factor

	// Fallback ring for particles left without a glyph sample.
	RingMin   float32
	RingMax   float32
	RingDepth float32
}

func DefaultConfig() Config {
	return Config{
		Width:     1200,
		Height:    400,
		FontSize:  230,
		Step:      4,
		Scale:     0.105,
		RingMin:   40,
		RingMax:   55,
		RingDepth: 6,
	}
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("canvas must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %g", c.FontSize)
	}
	if c.Step <= 0 {
		return fmt.Errorf("sampling step must be positive, got %d", c.Step)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %g", c.Scale)
	}
	if c.RingMin <= 0 || c.RingMax < c.RingMin {
		return fmt.Errorf("invalid ring band [%g, %g]", c.RingMin, c.RingMax)
	}
	return nil
}

var (
	parseOnce  sync.Once
	parsedFont *opentype.Font
	parseErr   error
)

func regularFont() (*opentype.Font, error) {
	parseOnce.Do(func() {
		parsedFont, parseErr = opentype.Parse(goregular.TTF)
	})
	return parsedFont, parseErr
}

// Sampler rasterizes text into point clouds and adapts them to a fixed
// particle count. Not safe for concurrent use; the font face carries
// internal buffers.
type Sampler struct {
	cfg  Config
	rng  *rand.Rand
	face font.Face
}

func NewSampler(cfg Config, rng *rand.Rand) (*Sampler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	f, err := regularFont()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    cfg.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build face: %w", err)
	}
	return &Sampler{cfg: cfg, rng: rng, face: face}, nil
}

// Sample renders text centered on the canvas, scans the pixel grid at the
// configured stride and returns every foreground sample remapped to centered
// world space. The result is uniformly shuffled so that raster scan order
// never correlates with particle index; without the shuffle the swarm
// reassembles in a visible left-to-right sweep.
func (s *Sampler) Sample(text string) []Point {
	w, h := s.cfg.Width, s.cfg.Height
	img := image.NewGray(image.Rect(0, 0, w, h))

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: s.face,
	}
	adv := d.MeasureString(text)
	m := s.face.Metrics()
	x := (fixed.I(w) - adv) / 2
	y := fixed.I(h)/2 + (m.Ascent-m.Descent)/2
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(text)

	points := make([]Point, 0, (w/s.cfg.Step)*(h/s.cfg.Step)/4)
	for py := 0; py < h; py += s.cfg.Step {
		for px := 0; px < w; px += s.cfg.Step {
			if img.GrayAt(px, py).Y > lumThreshold {
				points = append(points, Point{
					X: float32(px-w/2) * s.cfg.Scale,
					Y: -float32(py-h/2) * s.cfg.Scale,
				})
			}
		}
	}

	s.rng.Shuffle(len(points), func(i, j int) {
		points[i], points[j] = points[j], points[i]
	})
	return points
}

// Targets produces exactly n target positions as a flat xyz buffer. Glyph
// samples sit on the z=0 plane; when the text yields fewer points than
// particles the shortfall is covered by a ring of synthetic targets so every
// particle always has somewhere to go.
func (s *Sampler) Targets(text string, n int) ([]float32, error) {
	if n <= 0 {
		return nil, fmt.Errorf("target count must be positive, got %d", n)
	}
	points := s.Sample(text)

	out := make([]float32, n*3)
	for i := 0; i < n; i++ {
		if i < len(points) {
			out[i*3] = points[i].X
			out[i*3+1] = points[i].Y
			out[i*3+2] = 0
			continue
		}
		angle := s.rng.Float64() * 2 * math.Pi
		radius := s.cfg.RingMin + s.rng.Float32()*(s.cfg.RingMax-s.cfg.RingMin)
		out[i*3] = radius * float32(math.Cos(angle))
		out[i*3+1] = radius * float32(math.Sin(angle))
		out[i*3+2] = (s.rng.Float32()*2 - 1) * s.cfg.RingDepth
	}
	return out, nil
}
