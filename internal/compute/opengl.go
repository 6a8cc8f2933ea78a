package compute

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"
)

// floatsPerParticle is the SSBO layout stride: position, velocity, target
// and color as four vec4 slots.
const floatsPerParticle = 16

// HandUniforms carries the per-frame interaction inputs for the compute
// dispatch. Action encoding matches the shader: 0 none/neutral, 1 fist,
// 2 open, 3 flow.
type HandUniforms struct {
	X, Y, Z float32
	Active  float32
	Action  int32
}

// StepUniforms carries the physics and color constants for one dispatch. The
// theme colors ride along so the shader can rewrite the color slot every
// tick, matching the CPU field's traveling wave and glow.
type StepUniforms struct {
	Time            float32
	ReturnSpeed     float32
	Friction        float32
	NoiseAmplitude  float32
	ForceMultiplier float32
	InfluenceRadius float32
	SwirlStrength   float32
	FlowStrength    float32
	BlastBias       float32

	ColorSpeed      float32
	SpatialFreq     float32
	GlowRadius      float32
	BrightnessBoost float32
	Color1          [3]float32
	Color2          [3]float32
}

// OpenGLBackend steps the particle buffer with a compute shader. It must be
// created after the window has established a GL context.
type OpenGLBackend struct {
	Program       uint32
	RenderProgram uint32
	SSBOIn        uint32
	SSBOOut       uint32
	VAO           uint32
	NumParticles  int32
	Initialized   bool
}

func NewOpenGLBackend(numParticles int) *OpenGLBackend {
	return &OpenGLBackend{NumParticles: int32(numParticles)}
}

func (c *OpenGLBackend) Name() string    { return "opengl" }
func (c *OpenGLBackend) Available() bool { return c.Initialized }

func (c *OpenGLBackend) Cleanup() {
	if !c.Initialized {
		return
	}
	gl.DeleteBuffers(1, &c.SSBOIn)
	gl.DeleteBuffers(1, &c.SSBOOut)
	gl.DeleteVertexArrays(1, &c.VAO)
	gl.DeleteProgram(c.Program)
	if c.RenderProgram != 0 {
		gl.DeleteProgram(c.RenderProgram)
	}
	c.Initialized = false
}

// Init compiles the compute shader and uploads the initial particle buffer
// (floatsPerParticle floats per particle).
func (c *OpenGLBackend) Init(shaderPath string, initialData []float32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("init opengl: %v", err)
	}

	if len(initialData) != int(c.NumParticles)*floatsPerParticle {
		return fmt.Errorf("initial data holds %d floats, want %d", len(initialData), c.NumParticles*floatsPerParticle)
	}

	program, err := createComputeProgram(shaderPath)
	if err != nil {
		return err
	}
	c.Program = program

	size := int(c.NumParticles) * floatsPerParticle * 4

	gl.GenBuffers(1, &c.SSBOIn)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, c.SSBOIn)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, gl.Ptr(initialData), gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, c.SSBOIn)

	gl.GenBuffers(1, &c.SSBOOut)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, c.SSBOOut)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, c.SSBOOut)

	gl.GenVertexArrays(1, &c.VAO)
	c.Initialized = true
	return nil
}

// InitRender compiles the point-cloud render program.
func (c *OpenGLBackend) InitRender(vertPath, fragPath string) error {
	program, err := createRenderProgram(vertPath, fragPath)
	if err != nil {
		return err
	}
	c.RenderProgram = program
	return nil
}

// UploadTargets replaces the target slot of every particle in the input
// buffer. Called on theme change, never concurrently with Step.
func (c *OpenGLBackend) UploadTargets(targets []float32) {
	if !c.Initialized || len(targets) != int(c.NumParticles)*3 {
		return
	}
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, c.SSBOIn)
	for i := int32(0); i < c.NumParticles; i++ {
		offset := int(i)*floatsPerParticle*4 + 8*4
		gl.BufferSubData(gl.SHADER_STORAGE_BUFFER, offset, 3*4, gl.Ptr(targets[i*3:]))
	}
}

// Step dispatches one simulation tick and swaps the ping-pong buffers.
func (c *OpenGLBackend) Step(u StepUniforms, hand HandUniforms) {
	if !c.Initialized {
		return
	}

	gl.UseProgram(c.Program)

	uniform1f := func(name string, v float32) {
		gl.Uniform1f(gl.GetUniformLocation(c.Program, gl.Str(name+"\x00")), v)
	}

	gl.Uniform1i(gl.GetUniformLocation(c.Program, gl.Str("numParticles\x00")), c.NumParticles)
	uniform1f("time", u.Time)
	uniform1f("returnSpeed", u.ReturnSpeed)
	uniform1f("friction", u.Friction)
	uniform1f("noiseAmplitude", u.NoiseAmplitude)
	uniform1f("forceMultiplier", u.ForceMultiplier)
	uniform1f("influenceRadius", u.InfluenceRadius)
	uniform1f("swirlStrength", u.SwirlStrength)
	uniform1f("flowStrength", u.FlowStrength)
	uniform1f("blastBias", u.BlastBias)
	uniform1f("colorSpeed", u.ColorSpeed)
	uniform1f("spatialFreq", u.SpatialFreq)
	uniform1f("glowRadius", u.GlowRadius)
	uniform1f("brightnessBoost", u.BrightnessBoost)

	gl.Uniform3f(gl.GetUniformLocation(c.Program, gl.Str("color1\x00")), u.Color1[0], u.Color1[1], u.Color1[2])
	gl.Uniform3f(gl.GetUniformLocation(c.Program, gl.Str("color2\x00")), u.Color2[0], u.Color2[1], u.Color2[2])

	locHand := gl.GetUniformLocation(c.Program, gl.Str("hand\x00"))
	gl.Uniform4f(locHand, hand.X, hand.Y, hand.Z, hand.Active)
	gl.Uniform1i(gl.GetUniformLocation(c.Program, gl.Str("handAction\x00")), hand.Action)

	numGroups := (c.NumParticles + 255) / 256
	gl.DispatchCompute(uint32(numGroups), 1, 1)
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT)

	c.SSBOIn, c.SSBOOut = c.SSBOOut, c.SSBOIn
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, c.SSBOIn)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, c.SSBOOut)
}

// Draw renders the current particle buffer as points using the render
// program under the given column-major model-view-projection matrix.
func (c *OpenGLBackend) Draw(mvp [16]float32) {
	if !c.Initialized || c.RenderProgram == 0 {
		return
	}
	gl.UseProgram(c.RenderProgram)
	gl.UniformMatrix4fv(gl.GetUniformLocation(c.RenderProgram, gl.Str("mvp\x00")), 1, false, &mvp[0])
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.BindVertexArray(c.VAO)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, c.SSBOIn)
	gl.DrawArrays(gl.POINTS, 0, c.NumParticles)
}

func createComputeProgram(path string) (uint32, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content := string(source) + "\x00"

	shader := gl.CreateShader(gl.COMPUTE_SHADER)
	csources, free := gl.Strs(content)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("compile compute shader: %v", log)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, shader)
	gl.LinkProgram(program)

	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		return 0, fmt.Errorf("link compute program failed")
	}

	gl.DeleteShader(shader)
	return program, nil
}

func createRenderProgram(vertPath, fragPath string) (uint32, error) {
	vSource, err := os.ReadFile(vertPath)
	if err != nil {
		return 0, err
	}
	fSource, err := os.ReadFile(fragPath)
	if err != nil {
		return 0, err
	}

	compile := func(kind uint32, src string) (uint32, error) {
		shader := gl.CreateShader(kind)
		strs, free := gl.Strs(src + "\x00")
		gl.ShaderSource(shader, 1, strs, nil)
		free()
		gl.CompileShader(shader)

		var status int32
		gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
		if status == gl.FALSE {
			return 0, fmt.Errorf("compile shader failed")
		}
		return shader, nil
	}

	vShader, err := compile(gl.VERTEX_SHADER, string(vSource))
	if err != nil {
		return 0, err
	}
	fShader, err := compile(gl.FRAGMENT_SHADER, string(fSource))
	if err != nil {
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vShader)
	gl.AttachShader(program, fShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		return 0, fmt.Errorf("link render program failed")
	}

	gl.DeleteShader(vShader)
	gl.DeleteShader(fShader)
	return program, nil
}
