package analysis

import (
	"math"
	"testing"
)

func TestPowerSpectrumEmpty(t *testing.T) {
	if got := PowerSpectrum(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestPowerSpectrumPeak(t *testing.T) {
	// 4 cycles over 256 samples lands exactly on bin 4.
	data := make([]float64, 256)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * 4 * float64(i) / 256)
	}

	ps := PowerSpectrum(data)
	if len(ps) != 128 {
		t.Fatalf("spectrum length = %d, want 128", len(ps))
	}

	maxIdx := 0
	for i := range ps {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}
	if maxIdx != 4 {
		t.Errorf("peak at bin %d, want 4", maxIdx)
	}
}

func TestDominantFrequency(t *testing.T) {
	// A 2 Hz hand wave sampled at 60 fps.
	const (
		sampleRate = 60.0
		waveHz     = 2.0
	)
	data := make([]float64, 300)
	for i := range data {
		data[i] = 100 * math.Sin(2*math.Pi*waveHz*float64(i)/sampleRate)
	}

	freq, power := DominantFrequency(data, sampleRate)
	if power <= 0 {
		t.Fatal("zero power at dominant bin")
	}
	// Bin resolution is sampleRate/512 after padding.
	if math.Abs(freq-waveHz) > sampleRate/512 {
		t.Errorf("dominant frequency = %.3f, want %.1f", freq, waveHz)
	}
}

func TestDominantFrequencyIgnoresDC(t *testing.T) {
	// Constant offset plus a weak oscillation: DC must not win.
	data := make([]float64, 256)
	for i := range data {
		data[i] = 50 + math.Sin(2*math.Pi*8*float64(i)/256)
	}

	freq, _ := DominantFrequency(data, 256)
	if freq == 0 {
		t.Error("dominant frequency reported at DC")
	}
	if math.Abs(freq-8) > 1 {
		t.Errorf("dominant frequency = %.2f, want 8", freq)
	}
}

func TestDominantFrequencyShortInput(t *testing.T) {
	if freq, power := DominantFrequency([]float64{1}, 60); freq != 0 || power != 0 {
		t.Errorf("short input should yield zeros, got %v %v", freq, power)
	}
}
