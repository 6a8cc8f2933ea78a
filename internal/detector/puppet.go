package detector

import "github.com/san-kum/glyphswarm/internal/hand"

// flashTicks is how long a requested finger count stays visible, long
// enough for the classifier to commit the mode.
const flashTicks = 30

// Puppet is a Source driven by UI input instead of a camera: the GUI maps
// the mouse onto the palm, the TUI uses the keyboard. All mutation happens
// on the UI goroutine that also polls Next.
type Puppet struct {
	Present bool
	Action  hand.Action
	PalmX   float64
	PalmY   float64

	flashCount int
	flashLeft  int
}

func NewPuppet() *Puppet {
	return &Puppet{Present: true, Action: hand.Neutral, PalmX: 0.5, PalmY: 0.4}
}

// FlashCount raises n fingers on the mode hand for a short burst.
func (p *Puppet) FlashCount(n int) {
	p.flashCount = n
	p.flashLeft = flashTicks
}

func (p *Puppet) Next(t float64) []hand.Hand {
	var hands []hand.Hand

	if p.flashLeft > 0 {
		p.flashLeft--
		hands = append(hands, CountPose(hand.Left, 0.25, 0.5, p.flashCount))
	}

	if p.Present {
		var h hand.Hand
		switch p.Action {
		case hand.Fist:
			h = FistPose(hand.Right, p.PalmX, p.PalmY)
		case hand.Open:
			h = OpenPose(hand.Right, p.PalmX, p.PalmY)
		case hand.Pointing:
			h = PointingPose(hand.Right, p.PalmX, p.PalmY)
		case hand.TwoFingers:
			h = TwoFingerPose(hand.Right, p.PalmX, p.PalmY)
		default:
			h = RelaxedPose(hand.Right, p.PalmX, p.PalmY)
		}
		hands = append(hands, h)
	}

	return hands
}
