package gpurender

import (
	"log"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// shapePolicy selects the point-sprite fragment shape: circular sprites at
// low point counts, cheaper square sprites once the point count makes the
// antialiased edge imperceptible.
type shapePolicy int32

const (
	shapeCircle shapePolicy = 0
	shapeSquare shapePolicy = 1
)

// ShaderManager compiles and links the single shader program this package
// needs: a point-sprite vertex shader that also serves plain
// GL_LINES/GL_TRIANGLES draws (backdrop geodesics, lasso fill) since
// gl_PointSize is simply ignored outside GL_POINTS.
type ShaderManager struct {
	program     uint32
	uTransform  int32
	uPointSize  int32
	uShapeMode  int32
}

const vertexShaderSource = `
#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uTransform;
uniform float uPointSize;

out vec4 vColor;

void main() {
    gl_Position = uTransform * vec4(aPos, 0.0, 1.0);
    gl_PointSize = uPointSize;
    vColor = aColor;
}
` + "\x00"

// fragmentShaderSource antialiases the circular sprite's edge with a
// smoothstep falloff over the outer ~20% of its radius instead of a hard
// discard, so circles don't show a jagged boundary at small point sizes;
// fragments past the falloff are still discarded outright to avoid wasting
// a blend on fully-transparent pixels. Square sprites (and non-POINT
// primitives, where gl_PointCoord is simply unused) skip the test.
const fragmentShaderSource = `
#version 410 core
in vec4 vColor;
out vec4 FragColor;

uniform int uShapeMode;

void main() {
    float alpha = 1.0;
    if (uShapeMode == 0) {
        float r = length(gl_PointCoord - vec2(0.5)) * 2.0;
        alpha = 1.0 - smoothstep(0.8, 1.0, r);
        if (alpha <= 0.0) {
            discard;
        }
    }
    FragColor = vec4(vColor.rgb, vColor.a * alpha);
}
` + "\x00"

func NewShaderManager() *ShaderManager {
	sm := &ShaderManager{}

	vertexShader := sm.compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	defer gl.DeleteShader(vertexShader)

	fragmentShader := sm.compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	defer gl.DeleteShader(fragmentShader)

	sm.program = gl.CreateProgram()
	gl.AttachShader(sm.program, vertexShader)
	gl.AttachShader(sm.program, fragmentShader)
	gl.LinkProgram(sm.program)

	var status int32
	gl.GetProgramiv(sm.program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(sm.program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(sm.program, logLength, nil, gl.Str(logText))
		log.Fatalf("gpurender: shader linking failed: %s", logText)
	}

	sm.uTransform = gl.GetUniformLocation(sm.program, gl.Str("uTransform\x00"))
	sm.uPointSize = gl.GetUniformLocation(sm.program, gl.Str("uPointSize\x00"))
	sm.uShapeMode = gl.GetUniformLocation(sm.program, gl.Str("uShapeMode\x00"))
	gl.UseProgram(sm.program)

	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return sm
}

func (sm *ShaderManager) Use() { gl.UseProgram(sm.program) }

func (sm *ShaderManager) SetTransform(matrix [16]float32) {
	gl.UniformMatrix4fv(sm.uTransform, 1, false, &matrix[0])
}

func (sm *ShaderManager) SetShapePolicy(p shapePolicy) {
	gl.Uniform1i(sm.uShapeMode, int32(p))
}

// PointSizeLoc exposes the uniform location dynamicVBO.drawPoints needs to
// set per-draw point size without routing every draw call back through
// ShaderManager.
func (sm *ShaderManager) PointSizeLoc() int32 { return sm.uPointSize }

func (sm *ShaderManager) Destroy() {
	if sm.program != 0 {
		gl.DeleteProgram(sm.program)
		sm.program = 0
	}
}

func (sm *ShaderManager) compileShader(source string, shaderType uint32) uint32 {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		log.Fatalf("gpurender: shader compilation failed: %s", logText)
	}

	return shader
}
