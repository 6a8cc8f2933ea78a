// Package audio sonifies the swarm: an ambient pad whose filter opens with
// particle agitation and whose chord follows the dominant-hand gesture.
// Output only; the stream never touches the simulation timeline.
package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/san-kum/glyphswarm/internal/hand"
)

const (
	sampleRate = 44100
	bufferSize = 1024
)

// Chords per gesture, in Hz. Fist sinks into a bare fifth drone, open
// spreads into an add9 stack, everything else rests on a minor seventh pad.
var chords = map[hand.Action][]float64{
	hand.Neutral:    {98.00, 116.54, 146.83, 174.61},
	hand.Pointing:   {98.00, 116.54, 146.83, 174.61},
	hand.TwoFingers: {98.00, 116.54, 146.83, 196.00},
	hand.Fist:       {49.00, 73.42, 98.00},
	hand.Open:       {130.81, 164.81, 196.00, 246.94, 293.66},
}

type Sonifier struct {
	stream *portaudio.Stream

	time        float64
	filterState [2]float64
	delayLine   [2][]float64
	delayHead   int

	mu        sync.Mutex
	agitation float64
	action    hand.Action

	agitationSmooth float64
	freqs           []float64
	targetFreqs     []float64

	Active bool
}

func NewSonifier() *Sonifier {
	delayLen := int(float64(sampleRate) * 0.5)
	return &Sonifier{
		delayLine:   [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
		freqs:       append([]float64(nil), chords[hand.Neutral]...),
		targetFreqs: append([]float64(nil), chords[hand.Neutral]...),
	}
}

func (s *Sonifier) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, sampleRate, bufferSize, s.process)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}
	s.stream = stream
	s.Active = true
	return nil
}

func (s *Sonifier) Stop() {
	if s.stream != nil {
		s.stream.Stop()
		s.stream.Close()
	}
	portaudio.Terminate()
	s.Active = false
}

// UpdateSwarm feeds the latest frame summary into the synth. Called from
// the simulation loop; the audio callback reads under the same lock.
func (s *Sonifier) UpdateSwarm(agitation float64, action hand.Action) {
	s.mu.Lock()
	s.agitation = agitation
	s.action = action
	s.mu.Unlock()
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

func (s *Sonifier) process(out [][]float32) {
	s.mu.Lock()
	agitation := s.agitation
	chord := chords[s.action]
	s.mu.Unlock()

	// Retarget voices when the gesture chord changed.
	if len(chord) != len(s.targetFreqs) {
		s.targetFreqs = append(s.targetFreqs[:0], chord...)
		for len(s.freqs) < len(chord) {
			s.freqs = append(s.freqs, chord[len(s.freqs)])
		}
		s.freqs = s.freqs[:len(chord)]
	} else {
		copy(s.targetFreqs, chord)
	}

	s.agitationSmooth = s.agitationSmooth*0.995 + agitation*0.005

	// Agitation opens the filter, 300 Hz at rest up to about 1.5 kHz.
	cutoff := 300.0 + math.Min(s.agitationSmooth*800.0, 1200.0)
	dt := 1.0 / float64(sampleRate)
	vol := 0.22

	for i := 0; i < len(out[0]); i++ {
		// Glide voices toward the chord of the current gesture.
		for j := range s.freqs {
			s.freqs[j] += (s.targetFreqs[j] - s.freqs[j]) * 0.0004
		}

		sampleL, sampleR := 0.0, 0.0
		for j, f := range s.freqs {
			oscL := triangle(s.time * (f * 0.999))
			oscR := triangle(s.time * (f * 1.001))
			g := 1.0 / float64(len(s.freqs))
			lfo := math.Sin(s.time*0.25 + float64(j))
			sampleL += oscL * g * (0.7 + 0.3*lfo)
			sampleR += oscR * g * (0.7 + 0.3*lfo)
		}

		var outL, outR float64
		outL, s.filterState[0] = lpf(sampleL, cutoff, dt, s.filterState[0])
		outR, s.filterState[1] = lpf(sampleR, cutoff, dt, s.filterState[1])

		delayL := s.delayLine[0][s.delayHead]
		delayR := s.delayLine[1][s.delayHead]

		mixL := outL + delayL*0.3 + delayR*0.1
		mixR := outR + delayR*0.3 + delayL*0.1

		s.delayLine[0][s.delayHead] = mixL * 0.65
		s.delayLine[1][s.delayHead] = mixR * 0.65
		s.delayHead = (s.delayHead + 1) % len(s.delayLine[0])

		out[0][i] = float32(mixL * vol)
		out[1][i] = float32(mixR * vol)

		s.time += dt
	}
}
