// Package engine wires sampler, classifier, detector source and particle
// field into a single fixed-tick timeline. The GUI, TUI and headless
// commands all step the same engine; only the source and the renderer
// differ.
package engine

import (
	"context"
	"fmt"

	"github.com/san-kum/glyphswarm/internal/detector"
	"github.com/san-kum/glyphswarm/internal/glyph"
	"github.com/san-kum/glyphswarm/internal/hand"
	"github.com/san-kum/glyphswarm/internal/metrics"
	"github.com/san-kum/glyphswarm/internal/session"
	"github.com/san-kum/glyphswarm/internal/swarm"
)

type Config struct {
	Duration float64
	TickRate int
}

type Engine struct {
	field      *swarm.Field
	sampler    *glyph.Sampler
	classifier *hand.Classifier
	source     detector.Source
	holder     *detector.StateHolder
	themes     []swarm.Theme

	mode     int
	metrics  []metrics.Metric
	recorder *session.Recorder
}

func New(field *swarm.Field, sampler *glyph.Sampler, classifier *hand.Classifier, source detector.Source, themes []swarm.Theme) (*Engine, error) {
	if len(themes) == 0 {
		return nil, fmt.Errorf("at least one theme is required")
	}
	if source == nil {
		source = detector.Silent{}
	}

	e := &Engine{
		field:      field,
		sampler:    sampler,
		classifier: classifier,
		source:     source,
		holder:     detector.NewStateHolder(),
		themes:     themes,
		mode:       1,
	}

	targets, err := sampler.Targets(themes[0].Text, field.Len())
	if err != nil {
		return nil, err
	}
	if err := field.SetTargets(targets); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) AddMetric(m metrics.Metric)      { e.metrics = append(e.metrics, m) }
func (e *Engine) SetRecorder(r *session.Recorder) { e.recorder = r }
func (e *Engine) Field() *swarm.Field             { return e.field }
func (e *Engine) Sampler() *glyph.Sampler         { return e.sampler }
func (e *Engine) Holder() *detector.StateHolder   { return e.holder }
func (e *Engine) Theme() swarm.Theme              { return e.themes[e.mode-1] }
func (e *Engine) Mode() int                       { return e.mode }

// StepInteraction runs the tracking half of a tick: poll the source,
// classify, publish, commit a mode change. It reports whether the mode
// changed so callers owning their own particle buffer can retarget.
func (e *Engine) StepInteraction(t float64) (hand.InteractionState, bool, error) {
	hands := e.source.Next(t)
	e.holder.Publish(e.classifier.Classify(hands))

	snap := e.holder.Snapshot()
	if snap.Mode == e.mode {
		return snap, false, nil
	}
	if snap.Mode < 1 || snap.Mode > len(e.themes) {
		return snap, false, fmt.Errorf("mode %d out of range [1,%d]", snap.Mode, len(e.themes))
	}
	e.mode = snap.Mode
	return snap, true, nil
}

// Step advances one tick: poll the source, classify, publish, retarget on a
// committed mode change, then run the field pass against a snapshot copy of
// the interaction state.
func (e *Engine) Step(t float64) (hand.InteractionState, swarm.Stats, error) {
	snap, changed, err := e.StepInteraction(t)
	if err != nil {
		return snap, swarm.Stats{}, err
	}
	if changed {
		// Retarget between field passes; the target array wants a single
		// writer with no update running.
		targets, err := e.sampler.Targets(e.Theme().Text, e.field.Len())
		if err != nil {
			return snap, swarm.Stats{}, err
		}
		if err := e.field.SetTargets(targets); err != nil {
			return snap, swarm.Stats{}, err
		}
	}

	e.field.Update(t, e.themes[e.mode-1], snap)
	stats := e.field.Stats()

	for _, m := range e.metrics {
		m.Observe(stats, snap, t)
	}
	if e.recorder != nil {
		e.recorder.Record(t, snap, stats)
	}
	return snap, stats, nil
}

// Run steps the engine headless for the configured duration and returns the
// final metric values.
func (e *Engine) Run(ctx context.Context, cfg Config) (map[string]float64, error) {
	if cfg.TickRate <= 0 {
		return nil, fmt.Errorf("tick rate must be positive, got %d", cfg.TickRate)
	}
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %g", cfg.Duration)
	}

	for _, m := range e.metrics {
		m.Reset()
	}

	dt := 1.0 / float64(cfg.TickRate)
	steps := int(cfg.Duration * float64(cfg.TickRate))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if _, _, err := e.Step(float64(i) * dt); err != nil {
			return nil, err
		}
	}

	out := make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		out[m.Name()] = m.Value()
	}
	return out, nil
}
