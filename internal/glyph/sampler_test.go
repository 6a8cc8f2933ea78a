package glyph_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/glyphswarm/internal/glyph"
)

func newSampler(seed int64, mutate func(*glyph.Config)) *glyph.Sampler {
	cfg := glyph.DefaultConfig()
	// Small canvas keeps rasterization fast.
	cfg.Width = 400
	cfg.Height = 160
	cfg.FontSize = 90
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := glyph.NewSampler(cfg, rand.New(rand.NewSource(seed)))
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("Sampler", func() {
	Describe("configuration", func() {
		It("rejects a degenerate canvas", func() {
			cfg := glyph.DefaultConfig()
			cfg.Width = 0
			_, err := glyph.NewSampler(cfg, rand.New(rand.NewSource(1)))
			Expect(err).To(HaveOccurred())
		})

		It("rejects an inverted ring band", func() {
			cfg := glyph.DefaultConfig()
			cfg.RingMin = 60
			cfg.RingMax = 40
			_, err := glyph.NewSampler(cfg, rand.New(rand.NewSource(1)))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Sample", func() {
		It("finds ink for visible text", func() {
			s := newSampler(1, nil)
			points := s.Sample("GO")
			Expect(points).NotTo(BeEmpty())
		})

		It("finds nothing for blank text", func() {
			s := newSampler(1, nil)
			Expect(s.Sample(" ")).To(BeEmpty())
		})

		It("keeps samples inside the scaled canvas", func() {
			s := newSampler(1, nil)
			cfg := glyph.DefaultConfig()
			halfW := float32(400) / 2 * cfg.Scale
			halfH := float32(160) / 2 * cfg.Scale
			for _, p := range s.Sample("WAVE") {
				Expect(math.Abs(float64(p.X))).To(BeNumerically("<=", float64(halfW)))
				Expect(math.Abs(float64(p.Y))).To(BeNumerically("<=", float64(halfH)))
			}
		})

		It("shuffles deterministically for a given seed", func() {
			a := newSampler(42, nil).Sample("SEED")
			b := newSampler(42, nil).Sample("SEED")
			Expect(a).To(Equal(b))

			c := newSampler(43, nil).Sample("SEED")
			Expect(len(c)).To(Equal(len(a)))
			Expect(c).NotTo(Equal(a))
		})
	})

	Describe("Targets", func() {
		It("produces exactly n targets regardless of glyph density", func() {
			s := newSampler(1, nil)
			for _, n := range []int{1, 7, 500, 5000} {
				targets, err := s.Targets("HI", n)
				Expect(err).NotTo(HaveOccurred())
				Expect(targets).To(HaveLen(n * 3))
			}
		})

		It("rejects a non-positive count", func() {
			s := newSampler(1, nil)
			_, err := s.Targets("HI", 0)
			Expect(err).To(HaveOccurred())
		})

		It("fills the shortfall with ring targets", func() {
			s := newSampler(1, nil)
			glyphPoints := len(newSampler(1, nil).Sample("I"))
			n := glyphPoints + 200

			cfg := glyph.DefaultConfig()
			targets, err := s.Targets("I", n)
			Expect(err).NotTo(HaveOccurred())

			for i := glyphPoints; i < n; i++ {
				x := float64(targets[i*3])
				y := float64(targets[i*3+1])
				z := float64(targets[i*3+2])
				radius := math.Sqrt(x*x + y*y)
				Expect(radius).To(BeNumerically(">=", float64(cfg.RingMin)-1e-3))
				Expect(radius).To(BeNumerically("<=", float64(cfg.RingMax)+1e-3))
				Expect(math.Abs(z)).To(BeNumerically("<=", float64(cfg.RingDepth)))
			}
		})

		It("keeps glyph targets on the focal plane", func() {
			s := newSampler(1, nil)
			points := newSampler(1, nil).Sample("AT")
			Expect(points).NotTo(BeEmpty())

			targets, err := s.Targets("AT", len(points))
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < len(points); i++ {
				Expect(targets[i*3+2]).To(BeZero())
			}
		})
	})
})
