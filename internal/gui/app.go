// Package gui is the raylib front end: a 3D point cloud of the swarm with
// the mouse standing in for the tracked palm and the keyboard for poses.
package gui

import (
	"fmt"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/glyphswarm/internal/audio"
	"github.com/san-kum/glyphswarm/internal/compute"
	"github.com/san-kum/glyphswarm/internal/detector"
	"github.com/san-kum/glyphswarm/internal/engine"
	"github.com/san-kum/glyphswarm/internal/hand"
	"github.com/san-kum/glyphswarm/internal/swarm"
)

const (
	screenW = 1280
	screenH = 720
)

var (
	colBg      = rl.NewColor(10, 10, 10, 255)
	colText    = rl.NewColor(140, 140, 140, 255)
	colTextDim = rl.NewColor(60, 60, 60, 255)
	colBright  = rl.NewColor(255, 255, 255, 255)
)

type Options struct {
	TickRate  int
	UseGPU    bool
	ShaderDir string
	Audio     bool

	// Gesture carries the classifier screen dimensions so the mouse can be
	// mapped back into normalized landmark space.
	Gesture hand.Config
}

type App struct {
	eng    *engine.Engine
	puppet *detector.Puppet
	son    *audio.Sonifier
	opts   Options

	camera  rl.Camera3D
	backend *compute.OpenGLBackend

	running    bool
	ticks      int
	baseAction hand.Action

	inter hand.InteractionState
	stats swarm.Stats
}

// Run opens the window and blocks until it is closed.
func Run(eng *engine.Engine, puppet *detector.Puppet, opts Options) error {
	if opts.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", opts.TickRate)
	}

	rl.InitWindow(screenW, screenH, "glyphswarm")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(opts.TickRate))
	rl.SetExitKey(0)

	a := &App{
		eng:    eng,
		puppet: puppet,
		opts:   opts,
		camera: rl.NewCamera3D(
			rl.NewVector3(0, 0, 160),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			45.0,
			rl.CameraPerspective,
		),
		running:    true,
		baseAction: hand.Neutral,
	}

	if opts.Audio {
		a.son = audio.NewSonifier()
		if err := a.son.Start(); err != nil {
			// Missing audio device is not fatal; run silent.
			fmt.Printf("audio disabled: %v\n", err)
			a.son = nil
		} else {
			defer a.son.Stop()
		}
	}

	if opts.UseGPU {
		// Raylib has established the GL context by now.
		a.backend = compute.NewOpenGLBackend(eng.Field().Len())
		if err := a.backend.Init(filepath.Join(opts.ShaderDir, "swarm.comp"), eng.Field().PackGPU()); err != nil {
			return fmt.Errorf("gpu backend: %w", err)
		}
		defer a.backend.Cleanup()
		if err := a.backend.InitRender(
			filepath.Join(opts.ShaderDir, "swarm.vert"),
			filepath.Join(opts.ShaderDir, "swarm.frag"),
		); err != nil {
			return fmt.Errorf("gpu render: %w", err)
		}
	}

	for !rl.WindowShouldClose() {
		if err := a.update(); err != nil {
			return err
		}
		a.draw()
		if rl.IsKeyPressed(rl.KeyQ) {
			break
		}
	}
	return nil
}

func (a *App) update() error {
	a.handleKeys()
	a.handleMouse()

	if !a.running {
		return nil
	}

	t := float64(a.ticks) / float64(a.opts.TickRate)
	a.ticks++

	if a.backend != nil {
		return a.stepGPU(t)
	}

	inter, stats, err := a.eng.Step(t)
	if err != nil {
		return err
	}
	a.inter = inter
	a.stats = stats

	if a.son != nil {
		a.son.UpdateSwarm(stats.MeanSpeed, inter.RightHandAction)
	}
	return nil
}

// stepGPU runs tracking through the engine but steps the particle buffer on
// the compute backend. Field stats are not read back from the GPU.
func (a *App) stepGPU(t float64) error {
	snap, changed, err := a.eng.StepInteraction(t)
	if err != nil {
		return err
	}
	a.inter = snap

	if changed {
		targets, err := a.eng.Sampler().Targets(a.eng.Theme().Text, a.eng.Field().Len())
		if err != nil {
			return err
		}
		a.backend.UploadTargets(targets)
	}

	p := a.eng.Field().Params()
	var h compute.HandUniforms
	if snap.Present() {
		h.X = snap.RightHandPosition[0]
		h.Y = snap.RightHandPosition[1]
		h.Z = snap.RightHandPosition[2]
		h.Active = 1
		switch snap.RightHandAction {
		case hand.Fist:
			h.Action = 1
		case hand.Open:
			h.Action = 2
		default:
			h.Action = 3
		}
	}
	theme := a.eng.Theme()
	a.backend.Step(compute.StepUniforms{
		Time:            float32(t),
		ReturnSpeed:     p.ReturnSpeed,
		Friction:        p.Friction,
		NoiseAmplitude:  p.NoiseAmplitude,
		ForceMultiplier: p.ForceMultiplier,
		InfluenceRadius: p.InfluenceRadius,
		SwirlStrength:   p.SwirlStrength,
		FlowStrength:    p.FlowStrength,
		BlastBias:       p.BlastBias,
		ColorSpeed:      float32(p.ColorSpeed),
		SpatialFreq:     float32(p.SpatialFreq),
		GlowRadius:      p.GlowRadius,
		BrightnessBoost: p.BrightnessBoost,
		Color1:          theme.Color1,
		Color2:          theme.Color2,
	}, h)

	if a.son != nil {
		a.son.UpdateSwarm(0, snap.RightHandAction)
	}
	return nil
}

func (a *App) handleKeys() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.running = !a.running
	case rl.IsKeyPressed(rl.KeyN):
		a.baseAction = hand.Neutral
	case rl.IsKeyPressed(rl.KeyF):
		a.baseAction = hand.Fist
	case rl.IsKeyPressed(rl.KeyO):
		a.baseAction = hand.Open
	case rl.IsKeyPressed(rl.KeyP):
		a.baseAction = hand.Pointing
	case rl.IsKeyPressed(rl.KeyT):
		a.baseAction = hand.TwoFingers
	case rl.IsKeyPressed(rl.KeyX):
		a.puppet.Present = !a.puppet.Present
	}

	for n := 1; n <= 5; n++ {
		if rl.IsKeyPressed(rl.KeyOne + int32(n-1)) {
			a.puppet.FlashCount(n)
		}
	}

	// Mouse buttons override the key-selected pose while held.
	a.puppet.Action = a.baseAction
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		a.puppet.Action = hand.Fist
	} else if rl.IsMouseButtonDown(rl.MouseRightButton) {
		a.puppet.Action = hand.Open
	}
}

// handleMouse raycasts the cursor onto the z=0 plane and inverts the
// classifier's mirrored screen mapping to recover normalized palm
// coordinates, so the published hand position lands exactly under the
// cursor in world space.
func (a *App) handleMouse() {
	ray := rl.GetMouseRay(rl.GetMousePosition(), a.camera)
	if ray.Direction.Z == 0 {
		return
	}
	t := -ray.Position.Z / ray.Direction.Z
	if t <= 0 {
		return
	}
	worldX := float64(ray.Position.X + t*ray.Direction.X)
	worldY := float64(ray.Position.Y + t*ray.Direction.Y)

	w := a.opts.Gesture.ScreenWidth
	h := a.opts.Gesture.ScreenHeight
	a.puppet.PalmX = clamp01(1 - (worldX+w/2)/w)
	a.puppet.PalmY = clamp01((h/2 - worldY) / h)
}

func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colBg)

	rl.BeginMode3D(a.camera)
	if a.backend != nil {
		a.backend.Draw(a.cameraMVP())
	} else {
		a.drawCPUParticles()
	}
	if a.inter.Present() {
		pos := rl.NewVector3(a.inter.RightHandPosition[0], a.inter.RightHandPosition[1], 0)
		rl.DrawCircle3D(pos, 3.0, rl.NewVector3(0, 0, 1), 0, rl.NewColor(255, 255, 255, 90))
	}
	rl.EndMode3D()

	a.drawHUD()
	rl.EndDrawing()
}

func (a *App) cameraMVP() [16]float32 {
	view := rl.GetCameraMatrix(a.camera)
	proj := rl.MatrixPerspective(a.camera.Fovy*rl.Deg2rad, float32(screenW)/float32(screenH), 0.1, 2000)
	return rl.MatrixToFloatV(rl.MatrixMultiply(view, proj))
}

func (a *App) drawCPUParticles() {
	pos := a.eng.Field().Positions()
	col := a.eng.Field().Colors()
	for i := 0; i < len(pos); i += 3 {
		c := rl.NewColor(
			uint8(col[i]*255),
			uint8(col[i+1]*255),
			uint8(col[i+2]*255),
			255,
		)
		rl.DrawPoint3D(rl.NewVector3(pos[i], pos[i+1], pos[i+2]), c)
	}
}

func (a *App) drawHUD() {
	theme := a.eng.Theme()

	rl.DrawText("glyphswarm", 30, 30, 24, colBright)
	rl.DrawText(fmt.Sprintf(":: %s / %s", theme.Name, theme.Text), 190, 36, 16, colText)
	rl.DrawText(a.inter.RightHandAction.String(), 30, 64, 16, colText)

	if a.backend == nil {
		rl.DrawText(fmt.Sprintf("settle %.2f  speed %.3f", a.stats.MeanTargetDist, a.stats.MeanSpeed), 30, 88, 14, colTextDim)
	} else {
		rl.DrawText("gpu", 30, 88, 14, colTextDim)
	}

	status := "RUNNING"
	col := colBright
	if !a.running {
		status = "PAUSED"
		col = colTextDim
	}
	rl.DrawText(status, 1160, 30, 16, col)

	rl.DrawText("MOUSE palm  LMB fist  RMB open  F/O/P/T/N pose  X hand  1-5 count  SPACE pause  Q quit", 30, 690, 14, colTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 1190, 690, 14, colTextDim)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
