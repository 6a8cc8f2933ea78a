package engine

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/glyphswarm/internal/compute"
	"github.com/san-kum/glyphswarm/internal/detector"
	"github.com/san-kum/glyphswarm/internal/glyph"
	"github.com/san-kum/glyphswarm/internal/hand"
	"github.com/san-kum/glyphswarm/internal/metrics"
	"github.com/san-kum/glyphswarm/internal/session"
	"github.com/san-kum/glyphswarm/internal/swarm"
)

var testThemes = []swarm.Theme{
	{Name: "one", Color1: [3]float32{1, 0, 0}, Color2: [3]float32{1, 1, 0}, Text: "A"},
	{Name: "two", Color1: [3]float32{0, 0, 1}, Color2: [3]float32{0, 1, 1}, Text: "B"},
}

func newTestEngine(t *testing.T, source detector.Source, themes []swarm.Theme) *Engine {
	t.Helper()

	gc := glyph.DefaultConfig()
	gc.Width = 300
	gc.Height = 120
	gc.FontSize = 70

	sampler, err := glyph.NewSampler(gc, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	cc := hand.DefaultConfig()
	cc.MaxMode = len(themes)
	classifier, err := hand.NewClassifier(cc)
	if err != nil {
		t.Fatal(err)
	}

	field, err := swarm.New(150, swarm.DefaultParams(), 1, compute.Serial{})
	if err != nil {
		t.Fatal(err)
	}

	eng, err := New(field, sampler, classifier, source, themes)
	if err != nil {
		t.Fatal(err)
	}
	return eng
}

// modeSource raises a fixed finger count on the mode hand every frame.
type modeSource struct{ count int }

func (s modeSource) Next(t float64) []hand.Hand {
	return []hand.Hand{detector.CountPose(hand.Left, 0.3, 0.5, s.count)}
}

func TestNewRequiresThemes(t *testing.T) {
	field, err := swarm.New(10, swarm.DefaultParams(), 1, compute.Serial{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(field, nil, nil, nil, nil); err == nil {
		t.Error("expected error for empty theme list")
	}
}

func TestNilSourceRunsSilent(t *testing.T) {
	eng := newTestEngine(t, nil, testThemes)
	inter, _, err := eng.Step(0)
	if err != nil {
		t.Fatal(err)
	}
	if inter.Present() {
		t.Error("nil source produced a present hand")
	}
}

func TestStepAdvancesField(t *testing.T) {
	eng := newTestEngine(t, detector.Silent{}, testThemes)

	first := eng.Field().Stats().MeanTargetDist
	for i := 0; i < 120; i++ {
		if _, _, err := eng.Step(float64(i) / 60); err != nil {
			t.Fatal(err)
		}
	}
	last := eng.Field().Stats().MeanTargetDist
	if last >= first {
		t.Errorf("swarm did not move toward targets: %.2f -> %.2f", first, last)
	}
}

func TestModeChangeRetargets(t *testing.T) {
	eng := newTestEngine(t, modeSource{count: 2}, testThemes)

	if eng.Mode() != 1 || eng.Theme().Name != "one" {
		t.Fatalf("initial mode %d theme %q", eng.Mode(), eng.Theme().Name)
	}

	inter, _, err := eng.Step(0)
	if err != nil {
		t.Fatal(err)
	}
	if inter.Mode != 2 {
		t.Fatalf("classifier mode = %d, want 2", inter.Mode)
	}
	if eng.Mode() != 2 || eng.Theme().Name != "two" {
		t.Errorf("engine mode %d theme %q after change", eng.Mode(), eng.Theme().Name)
	}
}

func TestModeOutOfRangeFails(t *testing.T) {
	// Classifier allows modes past the theme table.
	gc := glyph.DefaultConfig()
	gc.Width = 300
	gc.Height = 120
	gc.FontSize = 70
	sampler, err := glyph.NewSampler(gc, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	cc := hand.DefaultConfig()
	cc.MaxMode = 5
	classifier, err := hand.NewClassifier(cc)
	if err != nil {
		t.Fatal(err)
	}

	field, err := swarm.New(50, swarm.DefaultParams(), 1, compute.Serial{})
	if err != nil {
		t.Fatal(err)
	}
	eng, err := New(field, sampler, classifier, modeSource{count: 4}, testThemes)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := eng.Step(0); err == nil {
		t.Error("expected error for mode beyond the theme table")
	}
}

func TestRunCollectsMetrics(t *testing.T) {
	eng := newTestEngine(t, detector.NewScripted(), testThemes)
	for _, m := range metrics.Default() {
		eng.AddMetric(m)
	}
	rec := session.NewRecorder(64)
	eng.SetRecorder(rec)

	// Long enough to cover the scripted source's hand-free lead-in and its
	// first gesture phase.
	results, err := eng.Run(context.Background(), Config{Duration: 6, TickRate: 30})
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"settle", "agitation", "mode_changes", "hand_presence"} {
		if _, ok := results[name]; !ok {
			t.Errorf("missing metric %q", name)
		}
	}
	if results["settle"] <= 0 {
		t.Errorf("settle = %v, want positive", results["settle"])
	}
	// The scripted source shows a hand for part of the loop.
	if p := results["hand_presence"]; p <= 0 || p >= 1 {
		t.Errorf("hand presence = %v, want in (0,1)", p)
	}
	if rec.Len() != 180 {
		t.Errorf("recorded %d frames, want 180", rec.Len())
	}
}

func TestRunValidatesConfig(t *testing.T) {
	eng := newTestEngine(t, detector.Silent{}, testThemes)
	if _, err := eng.Run(context.Background(), Config{Duration: 0, TickRate: 30}); err == nil {
		t.Error("zero duration accepted")
	}
	if _, err := eng.Run(context.Background(), Config{Duration: 1, TickRate: 0}); err == nil {
		t.Error("zero tick rate accepted")
	}
}

func TestRunHonorsContext(t *testing.T) {
	eng := newTestEngine(t, detector.Silent{}, testThemes)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := eng.Run(ctx, Config{Duration: 3600, TickRate: 60})
	if err == nil {
		t.Fatal("cancelled run returned no error")
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled run did not stop promptly")
	}
}

func TestStepInteractionReportsModeChange(t *testing.T) {
	eng := newTestEngine(t, modeSource{count: 2}, testThemes)

	_, changed, err := eng.StepInteraction(0)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Error("mode change not reported")
	}

	_, changed, err = eng.StepInteraction(1)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("steady mode reported as changed")
	}
}
