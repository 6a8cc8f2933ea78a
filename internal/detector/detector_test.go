package detector

import (
	"testing"

	"github.com/san-kum/glyphswarm/internal/hand"
)

func newClassifier(t *testing.T) *hand.Classifier {
	t.Helper()
	cfg := hand.DefaultConfig()
	cfg.MaxMode = 5
	c, err := hand.NewClassifier(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// The synthetic poses must land on the gestures they are named after when
// run through the real classifier.
func TestPosesClassify(t *testing.T) {
	tests := []struct {
		name string
		pose hand.Hand
		want hand.Action
	}{
		{"open", OpenPose(hand.Right, 0.5, 0.5), hand.Open},
		{"fist", FistPose(hand.Right, 0.5, 0.5), hand.Fist},
		{"pointing", PointingPose(hand.Right, 0.5, 0.5), hand.Pointing},
		{"two fingers", TwoFingerPose(hand.Right, 0.5, 0.5), hand.TwoFingers},
		{"relaxed", RelaxedPose(hand.Right, 0.5, 0.5), hand.Neutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClassifier(t)
			st := c.Classify([]hand.Hand{tt.pose})
			if st.RightHandAction != tt.want {
				t.Errorf("action = %v, want %v", st.RightHandAction, tt.want)
			}
		})
	}
}

func TestCountPoseSetsMode(t *testing.T) {
	for n := 1; n <= 5; n++ {
		c := newClassifier(t)
		st := c.Classify([]hand.Hand{CountPose(hand.Left, 0.3, 0.5, n)})
		if st.Mode != n {
			t.Errorf("CountPose(%d) -> mode %d", n, st.Mode)
		}
	}
}

func TestScriptedIsDeterministic(t *testing.T) {
	a, b := NewScripted(), NewScripted()
	for _, tm := range []float64{0, 1.5, 4, 8, 10, 12, 14, 16, 19, 23.5} {
		ha, hb := a.Next(tm), b.Next(tm)
		if len(ha) != len(hb) {
			t.Fatalf("t=%v: hand counts differ", tm)
		}
		for i := range ha {
			if ha[i] != hb[i] {
				t.Fatalf("t=%v: hand %d differs", tm, i)
			}
		}
	}
}

func TestScriptedPhases(t *testing.T) {
	s := NewScripted()
	c := newClassifier(t)

	tests := []struct {
		t          float64
		wantHand   bool
		wantAction hand.Action
	}{
		{1, false, hand.Neutral},
		{4, true, hand.Open},
		{8, true, hand.Fist},
		{10, true, hand.Pointing},
		{12, true, hand.TwoFingers},
		{14, true, hand.Open},
		{18, false, hand.Neutral},
		{24, true, hand.Open}, // loops back to the open phase
	}
	for _, tt := range tests {
		st := c.Classify(s.Next(tt.t))
		if st.Present() != tt.wantHand {
			t.Errorf("t=%v: present = %v, want %v", tt.t, st.Present(), tt.wantHand)
			continue
		}
		if tt.wantHand && st.RightHandAction != tt.wantAction {
			t.Errorf("t=%v: action = %v, want %v", tt.t, st.RightHandAction, tt.wantAction)
		}
	}
}

func TestScriptedModeFlash(t *testing.T) {
	s := NewScripted()
	c := newClassifier(t)

	c.Classify(s.Next(4))
	if got := c.Classify(s.Next(14)).Mode; got != 2 {
		t.Errorf("mode during two-finger flash = %d, want 2", got)
	}
	if got := c.Classify(s.Next(16)).Mode; got != 3 {
		t.Errorf("mode during three-finger flash = %d, want 3", got)
	}
}

func TestPuppet(t *testing.T) {
	p := NewPuppet()
	c := newClassifier(t)

	st := c.Classify(p.Next(0))
	if !st.Present() {
		t.Fatal("puppet hand should be present by default")
	}
	if st.RightHandAction != hand.Neutral {
		t.Errorf("default action = %v, want neutral", st.RightHandAction)
	}

	p.Action = hand.Fist
	if got := c.Classify(p.Next(0)).RightHandAction; got != hand.Fist {
		t.Errorf("action = %v, want fist", got)
	}

	p.Present = false
	if c.Classify(p.Next(0)).Present() {
		t.Error("hidden puppet hand still present")
	}
}

func TestPuppetFlashCount(t *testing.T) {
	p := NewPuppet()
	p.Present = false
	c := newClassifier(t)

	p.FlashCount(3)
	if got := c.Classify(p.Next(0)).Mode; got != 3 {
		t.Errorf("mode during flash = %d, want 3", got)
	}

	// The flash expires after its tick budget.
	for i := 0; i < flashTicks; i++ {
		p.Next(0)
	}
	if hands := p.Next(0); len(hands) != 0 {
		t.Errorf("flash should have expired, got %d hands", len(hands))
	}
}

func TestStateHolder(t *testing.T) {
	h := NewStateHolder()

	st := h.Snapshot()
	if st.Mode != 1 || st.Present() {
		t.Errorf("initial snapshot = %+v", st)
	}

	want := hand.InteractionState{
		Mode:              2,
		RightHandPosition: [3]float32{3, 4, 0},
		RightHandAction:   hand.Open,
	}
	h.Publish(want)
	if got := h.Snapshot(); got != want {
		t.Errorf("snapshot = %+v, want %+v", got, want)
	}
}

func TestSilentSource(t *testing.T) {
	if hands := (Silent{}).Next(99); hands != nil {
		t.Errorf("silent source produced hands: %v", hands)
	}
}
