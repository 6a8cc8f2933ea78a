package compute

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readShader(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "assets", "shaders", name))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// Every uniform Step uploads must exist in the compute shader, otherwise the
// value is silently dropped at a -1 location.
func TestComputeShaderDeclaresStepUniforms(t *testing.T) {
	src := readShader(t, "swarm.comp")

	names := []string{
		"numParticles", "time", "returnSpeed", "friction", "noiseAmplitude",
		"forceMultiplier", "influenceRadius", "swirlStrength", "flowStrength",
		"blastBias", "colorSpeed", "spatialFreq", "glowRadius",
		"brightnessBoost", "color1", "color2", "hand", "handAction",
	}
	for _, name := range names {
		if !strings.Contains(src, name) {
			t.Errorf("compute shader missing uniform %q", name)
		}
	}
}

// The shader owns the color slot on the GPU path; if it stops writing it the
// point cloud renders with the buffer's initial zeros.
func TestComputeShaderWritesColor(t *testing.T) {
	src := readShader(t, "swarm.comp")
	if !strings.Contains(src, "p.color =") {
		t.Error("compute shader does not write the particle color slot")
	}
}

func TestRenderShadersMatchDraw(t *testing.T) {
	vert := readShader(t, "swarm.vert")
	if !strings.Contains(vert, "uniform mat4 mvp") {
		t.Error("vertex shader missing the mvp uniform Draw uploads")
	}
	if !strings.Contains(vert, "gl_VertexID") {
		t.Error("vertex shader should index the particle SSBO by gl_VertexID")
	}

	frag := readShader(t, "swarm.frag")
	if !strings.Contains(frag, "fragColor") {
		t.Error("fragment shader missing the color varying")
	}
}
