package metrics

import (
	"github.com/san-kum/glyphswarm/internal/hand"
	"github.com/san-kum/glyphswarm/internal/swarm"
)

// Metric observes one frame of field statistics and interaction state.
type Metric interface {
	Name() string
	Observe(stats swarm.Stats, inter hand.InteractionState, t float64)
	Value() float64
	Reset()
}

// Settle is the time-averaged mean particle-to-target distance. Lower means
// the swarm holds its glyph more tightly.
type Settle struct {
	sum     float64
	samples int
}

func NewSettle() *Settle { return &Settle{} }

func (s *Settle) Name() string { return "settle" }

func (s *Settle) Observe(stats swarm.Stats, inter hand.InteractionState, t float64) {
	s.sum += stats.MeanTargetDist
	s.samples++
}

func (s *Settle) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Settle) Reset() {
	s.sum = 0
	s.samples = 0
}

// Agitation is the time-averaged mean particle speed.
type Agitation struct {
	sum     float64
	samples int
}

func NewAgitation() *Agitation { return &Agitation{} }

func (a *Agitation) Name() string { return "agitation" }

func (a *Agitation) Observe(stats swarm.Stats, inter hand.InteractionState, t float64) {
	a.sum += stats.MeanSpeed
	a.samples++
}

func (a *Agitation) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *Agitation) Reset() {
	a.sum = 0
	a.samples = 0
}

// ModeChanges counts committed theme switches.
type ModeChanges struct {
	last    int
	changes int
	seen    bool
}

func NewModeChanges() *ModeChanges { return &ModeChanges{} }

func (m *ModeChanges) Name() string { return "mode_changes" }

func (m *ModeChanges) Observe(stats swarm.Stats, inter hand.InteractionState, t float64) {
	if m.seen && inter.Mode != m.last {
		m.changes++
	}
	m.last = inter.Mode
	m.seen = true
}

func (m *ModeChanges) Value() float64 { return float64(m.changes) }

func (m *ModeChanges) Reset() {
	m.last = 0
	m.changes = 0
	m.seen = false
}

// HandPresence is the fraction of observed frames with a dominant hand.
type HandPresence struct {
	present int
	samples int
}

func NewHandPresence() *HandPresence { return &HandPresence{} }

func (h *HandPresence) Name() string { return "hand_presence" }

func (h *HandPresence) Observe(stats swarm.Stats, inter hand.InteractionState, t float64) {
	h.samples++
	if inter.Present() {
		h.present++
	}
}

func (h *HandPresence) Value() float64 {
	if h.samples == 0 {
		return 0
	}
	return float64(h.present) / float64(h.samples)
}

func (h *HandPresence) Reset() {
	h.present = 0
	h.samples = 0
}

// Default is the metric set the runner attaches when none are specified.
func Default() []Metric {
	return []Metric{NewSettle(), NewAgitation(), NewModeChanges(), NewHandPresence()}
}
