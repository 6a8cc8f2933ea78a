package session

import (
	"testing"

	"github.com/san-kum/glyphswarm/internal/hand"
	"github.com/san-kum/glyphswarm/internal/swarm"
)

func sampleFrames() []Frame {
	return []Frame{
		{T: 0.0, Mode: 1, Action: "neutral", HandX: 9999, HandY: 9999, Settle: 12.5, Agitation: 0.8},
		{T: 0.0167, Mode: 1, Action: "fist", HandX: 10.5, HandY: -3.25, HandZ: 0, Settle: 11.9, Agitation: 1.2},
		{T: 0.0333, Mode: 2, Action: "open", HandX: -42, HandY: 7, Settle: 30.1, Agitation: 4.5},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	meta := Metadata{
		Source:    "scripted",
		Seed:      42,
		Particles: 8000,
		TickRate:  60,
		Duration:  20,
		Metrics:   map[string]float64{"settle": 3.2, "hand_presence": 0.7},
	}

	runID, err := store.Save(meta, sampleFrames())
	if err != nil {
		t.Fatal(err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	loaded, err := store.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Source != "scripted" || loaded.Seed != 42 || loaded.Particles != 8000 {
		t.Errorf("metadata mismatch: %+v", loaded)
	}
	if loaded.Metrics["settle"] != 3.2 {
		t.Errorf("metrics lost: %v", loaded.Metrics)
	}

	frames, err := store.LoadFrames(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(frames))
	}
	if frames[1].Action != "fist" || frames[1].Mode != 1 {
		t.Errorf("frame 1 mismatch: %+v", frames[1])
	}
	if frames[2].HandX != -42 || frames[2].Mode != 2 {
		t.Errorf("frame 2 mismatch: %+v", frames[2])
	}
}

func TestListEmptyAndPopulated(t *testing.T) {
	store := New(t.TempDir())

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}

	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	for _, src := range []string{"scripted", "puppet"} {
		if _, err := store.Save(Metadata{ID: src + "_1", Source: src}, nil); err != nil {
			t.Fatal(err)
		}
	}

	runs, err = store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Load("missing"); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(8)

	inter := hand.InteractionState{
		Mode:              2,
		RightHandPosition: [3]float32{1.5, -2, 0},
		RightHandAction:   hand.Pointing,
	}
	rec.Record(0.5, inter, swarm.Stats{MeanTargetDist: 9.5, MeanSpeed: 0.3})

	if rec.Len() != 1 {
		t.Fatalf("len = %d, want 1", rec.Len())
	}
	f := rec.Frames()[0]
	if f.Mode != 2 || f.Action != "pointing" || f.HandX != 1.5 {
		t.Errorf("frame mismatch: %+v", f)
	}

	// Round trip back into an interaction state.
	got := f.Interaction()
	if got != inter {
		t.Errorf("interaction round trip: got %+v, want %+v", got, inter)
	}
}

func TestFrameInteractionUnknownAction(t *testing.T) {
	f := Frame{Action: "garbage", Mode: 1, HandX: 9999, HandY: 9999}
	inter := f.Interaction()
	if inter.RightHandAction != hand.Neutral {
		t.Errorf("unknown action should fall back to neutral, got %v", inter.RightHandAction)
	}
	if inter.Present() {
		t.Error("sentinel position should read as absent")
	}
}
