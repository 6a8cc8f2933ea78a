package gui

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// The MVP matrix is pure camera math, no window or GL context needed.
func TestCameraMVP(t *testing.T) {
	a := &App{
		camera: rl.NewCamera3D(
			rl.NewVector3(0, 0, 160),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			45.0,
			rl.CameraPerspective,
		),
	}

	mvp := a.cameraMVP()

	var zero [16]float32
	if mvp == zero {
		t.Fatal("mvp matrix is all zeros")
	}
	for i, v := range mvp {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("mvp[%d] = %v", i, v)
		}
	}
}
